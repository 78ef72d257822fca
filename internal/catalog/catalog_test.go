// internal/catalog/catalog_test.go
//
// Unit tests for the variable catalog.
//
// Run: go test ./internal/catalog -v

package catalog

import "testing"

func TestNewPanicsOnDuplicate(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate name")
		}
	}()
	New(
		Variable{Name: "PORT", Default: "8080"},
		Variable{Name: "PORT", Default: "9090"},
	)
}

func TestFridayDefaults(t *testing.T) {
	defaults := Friday().Defaults()

	cases := map[string]string{
		"PORT":              "8080",
		"DATA_DIR":          "/app/backend/data",
		"CORS_ALLOW_ORIGIN": "*",
		"VECTOR_DB":         "chroma",
		"STORAGE_PROVIDER":  "local",
	}
	for name, want := range cases {
		if got := defaults[name]; got != want {
			t.Errorf("default for %s = %q, want %q", name, got, want)
		}
	}

	// Secrets must not carry defaults.
	for _, v := range Friday().Secrets() {
		if _, ok := defaults[v.Name]; ok {
			t.Errorf("secret %s has a built-in default", v.Name)
		}
	}
}

func TestMissingUnconditional(t *testing.T) {
	// WEBUI_SECRET_KEY is always required; an empty string counts as unset.
	miss := Friday().Missing(map[string]string{
		"WEBUI_SECRET_KEY":  "",
		"ENABLE_OPENAI_API": "false",
	})
	if len(miss) != 1 || miss[0].Name != "WEBUI_SECRET_KEY" {
		t.Fatalf("Missing = %v, want exactly WEBUI_SECRET_KEY", names(miss))
	}
}

func TestMissingConditional(t *testing.T) {
	base := map[string]string{"WEBUI_SECRET_KEY": "k"}

	// Gate disabled: the provider key is not required.
	base["ENABLE_OPENAI_API"] = "false"
	if miss := Friday().Missing(base); len(miss) != 0 {
		t.Fatalf("Missing with provider disabled = %v, want none", names(miss))
	}

	// Gate enabled: the provider key becomes required.
	base["ENABLE_OPENAI_API"] = "true"
	miss := Friday().Missing(base)
	if len(miss) != 1 || miss[0].Name != "OPENAI_API_KEY" {
		t.Fatalf("Missing with provider enabled = %v, want OPENAI_API_KEY", names(miss))
	}

	base["OPENAI_API_KEY"] = "sk-test"
	if miss := Friday().Missing(base); len(miss) != 0 {
		t.Fatalf("Missing with key supplied = %v, want none", names(miss))
	}
}

func TestTruthy(t *testing.T) {
	for _, s := range []string{"true", "True", "1", "yes", "on"} {
		if !Truthy(s) {
			t.Errorf("Truthy(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"", "false", "0", "off", "nope"} {
		if Truthy(s) {
			t.Errorf("Truthy(%q) = true, want false", s)
		}
	}
}

func names(vars []Variable) []string {
	out := make([]string, len(vars))
	for i, v := range vars {
		out[i] = v.Name
	}
	return out
}
