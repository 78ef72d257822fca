// internal/profile/model.go
//
// Typed model for deployment profiles.
//
// Context
// -------
// A profile names one deployment target of the Friday image (local
// Compose test box, Oracle Cloud VM, DigitalOcean App Platform) and
// carries the per-target configuration overrides plus the knobs the
// resolver needs: where the optional .env lives, which env-var prefix
// the host injects dashboard values under, and which Vault mount holds
// the profile's secrets.
//
// Notes
// -----
//   - Struct tags use `koanf:"…"`; the loader merges YAML through Koanf,
//     which ignores `yaml` tags.
//   - Validation runs immediately after unmarshal, so a malformed
//     profiles file aborts the command before any resolution starts.

package profile

//
// Profile
//

// Platform is the deployment target kind.  It decides which renderer
// makes sense for the profile and is validated against the known set.
type Platform string

const (
	PlatformCompose      Platform = "compose"
	PlatformDigitalOcean Platform = "digitalocean"
)

// Profile is one named deployment target.
type Profile struct {
	Name       string            `koanf:"-" validate:"required"`
	Platform   Platform          `koanf:"platform" validate:"required,oneof=compose digitalocean"`
	Dotenv     string            `koanf:"dotenv"`
	EnvPrefix  string            `koanf:"env_prefix"`
	VaultMount string            `koanf:"vault_mount"`
	Values     map[string]string `koanf:"values"`
}

//
// Set
//

// Set is the full profiles file: every declared profile keyed by name.
type Set struct {
	Profiles map[string]Profile `koanf:"profiles" validate:"required,min=1,dive"`
}
