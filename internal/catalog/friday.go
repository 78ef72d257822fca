// internal/catalog/friday.go
//
// The built-in variable surface of the Friday image.
//
// Context
// -------
// This table is the single source of truth for what the hosted
// application reads at startup.  Defaults mirror the values baked into
// the image; anything marked Secret has no default on purpose and must
// arrive from the platform dashboard, a local .env, or Vault.
//
// The table is assembled once at package init; Friday() hands out the
// shared instance, which is read-only after construction.
package catalog

var friday = New(
	//
	// Core runtime.
	//
	Variable{
		Name:        "WEBUI_SECRET_KEY",
		Visibility:  Secret,
		Scope:       Runtime,
		Required:    true,
		Description: "Session signing and encryption key.  Startup fails without it.",
	},
	Variable{
		Name:        "PORT",
		Default:     "8080",
		Visibility:  Public,
		Scope:       Runtime,
		Description: "TCP port the application listens on.",
	},
	Variable{
		Name:        "DATA_DIR",
		Default:     "/app/backend/data",
		Visibility:  Public,
		Scope:       Runtime,
		Description: "Root directory for uploads, vector store files, and the SQLite fallback DB.",
	},
	Variable{
		Name:        "CORS_ALLOW_ORIGIN",
		Default:     "*",
		Visibility:  Public,
		Scope:       Runtime,
		Description: "Allowed CORS origin for the web UI.",
	},
	Variable{
		Name:        "WEBUI_AUTH",
		Default:     "true",
		Visibility:  Public,
		Scope:       Runtime,
		Description: "Enable the login screen.  Disable only for single-user test deploys.",
	},
	Variable{
		Name:        "ENABLE_SIGNUP",
		Default:     "false",
		Visibility:  Public,
		Scope:       Runtime,
		Description: "Allow self-service account creation.",
	},

	//
	// Model providers.
	//
	Variable{
		Name:        "ENABLE_OPENAI_API",
		Default:     "true",
		Visibility:  Public,
		Scope:       Runtime,
		Description: "Gate for the OpenAI-compatible provider path.",
	},
	Variable{
		Name:         "OPENAI_API_KEY",
		Visibility:   Secret,
		Scope:        Runtime,
		RequiredWhen: "ENABLE_OPENAI_API",
		Description:  "Provider API key.  Required whenever the OpenAI path is enabled.",
	},
	Variable{
		Name:        "OPENAI_API_BASE_URL",
		Default:     "https://api.openai.com/v1",
		Visibility:  Public,
		Scope:       Runtime,
		Description: "Override to point at a compatible gateway or proxy.",
	},
	Variable{
		Name:        "OLLAMA_BASE_URL",
		Visibility:  Public,
		Scope:       Runtime,
		Description: "Base URL of a local Ollama instance, when one is used.",
	},

	//
	// Persistence.
	//
	Variable{
		Name:        "DATABASE_URL",
		Visibility:  Secret,
		Scope:       Runtime,
		Description: "Postgres DSN with credentials.  Falls back to SQLite under DATA_DIR when unset.",
	},
	Variable{
		Name:        "STORAGE_PROVIDER",
		Default:     "local",
		Visibility:  Public,
		Scope:       Runtime,
		Description: "File storage backend.  Only local is supported by the current image.",
	},
	Variable{
		Name:        "VECTOR_DB",
		Default:     "chroma",
		Visibility:  Public,
		Scope:       Runtime,
		Description: "Vector store backend (chroma, qdrant, milvus, pgvector, ...).",
	},
	Variable{
		Name:        "ENABLE_QDRANT_MULTITENANCY_MODE",
		Default:     "false",
		Visibility:  Public,
		Scope:       Runtime,
		Description: "Shared-collection mode for Qdrant deployments.",
	},
	Variable{
		Name:        "ENABLE_MILVUS_MULTITENANCY_MODE",
		Default:     "false",
		Visibility:  Public,
		Scope:       Runtime,
		Description: "Shared-collection mode for Milvus deployments.",
	},

	//
	// Retrieval tuning.
	//
	Variable{
		Name:        "RAG_EMBEDDING_MODEL",
		Default:     "sentence-transformers/all-MiniLM-L6-v2",
		Visibility:  Public,
		Scope:       Runtime,
		Description: "Embedding model used for knowledge-base retrieval.",
	},
	Variable{
		Name:        "RAG_TOP_K",
		Default:     "3",
		Visibility:  Public,
		Scope:       Runtime,
		Description: "Number of chunks returned per retrieval query.",
	},
	Variable{
		Name:        "ENABLE_RAG_WEB_SEARCH",
		Default:     "false",
		Visibility:  Public,
		Scope:       Runtime,
		Description: "Web-search fallback when knowledge bases return nothing relevant.",
	},

	//
	// Build-time knobs.
	//
	Variable{
		Name:        "USE_CUDA_DOCKER",
		Default:     "false",
		Visibility:  Public,
		Scope:       BuildTime,
		Description: "Select the CUDA image variant at build time.",
	},
	Variable{
		Name:        "USE_EMBEDDED_MODELS",
		Default:     "true",
		Visibility:  Public,
		Scope:       BuildTime,
		Description: "Bake embedding models into the image instead of downloading on first boot.",
	},

	//
	// Observability.
	//
	Variable{
		Name:        "GLOBAL_LOG_LEVEL",
		Default:     "INFO",
		Visibility:  Public,
		Scope:       Runtime,
		Description: "Default log level for every backend subsystem.",
	},
)

// Friday returns the shared catalog for the Friday image.
func Friday() *Catalog { return friday }
