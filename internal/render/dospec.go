// internal/render/dospec.go
//
// DigitalOcean App Platform env-block renderer.
//
// Context
// -------
// App Platform app specs declare environment variables as a YAML list of
// `{key, value, scope, type}` entries.  The catalog maps straight onto
// that vocabulary: Visibility public|secret → type GENERAL|SECRET, and
// Scope build-time|runtime → scope BUILD_TIME|RUN_TIME.
//
// Secret entries are emitted with an empty value: the rendered block is
// meant to be committed alongside the app spec, and the real values are
// pasted into the dashboard where App Platform encrypts them.  Keys the
// catalog does not know are treated as public runtime variables.
package render

import (
	"gopkg.in/yaml.v3"

	"github.com/fridaylabs/fridayctl/internal/catalog"
	"github.com/fridaylabs/fridayctl/internal/resolve"
)

// AppSpecEnv is one entry of an App Platform `envs:` list.
type AppSpecEnv struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
	Scope string `yaml:"scope"`
	Type  string `yaml:"type"`
}

// DOSpec renders the snapshot as an App Platform env block.
func DOSpec(snap *resolve.Snapshot, cat *catalog.Catalog) ([]byte, error) {
	envs := make([]AppSpecEnv, 0, len(snap.Values))
	for _, k := range snap.Keys() {
		entry := AppSpecEnv{
			Key:   k,
			Value: snap.Values[k],
			Scope: "RUN_TIME",
			Type:  "GENERAL",
		}
		if v, ok := cat.Lookup(k); ok {
			if v.Scope == catalog.BuildTime {
				entry.Scope = "BUILD_TIME"
			}
			if v.IsSecret() {
				entry.Type = "SECRET"
				entry.Value = ""
			}
		}
		envs = append(envs, entry)
	}
	return yaml.Marshal(struct {
		Envs []AppSpecEnv `yaml:"envs"`
	}{Envs: envs})
}
