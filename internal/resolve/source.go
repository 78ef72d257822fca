// internal/resolve/source.go
//
// Value sources for the resolver.
//
// Context
// -------
// A Source is one precedence layer: a label plus a flat key→value map.
// The resolver overlays sources in the order given, later entries
// winning.  Three constructors cover the layers the deployment docs
// describe:
//
//   - Static   – profile values and dashboard override sets.
//   - Dotenv   – a local `.env` file, parsed with godotenv.  A missing
//     file is not an error; local overrides are optional everywhere.
//   - Environ  – process environment variables carrying a prefix
//     (FRIDAY_OPENAI_API_KEY → OPENAI_API_KEY), loaded through the
//     koanf env provider.  Hosted platforms inject dashboard values
//     this way.
package resolve

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	koanf "github.com/knadh/koanf/v2"
)

// Source is one layer of configuration values.  Name appears in
// Snapshot.Origins so operators can see which layer won for each key.
type Source struct {
	Name   string
	Values map[string]string
}

// Static wraps an in-memory map, e.g. profile values from profiles.yaml
// or an override set handed over by a hosting dashboard.
func Static(name string, values map[string]string) Source {
	return Source{Name: name, Values: values}
}

// Dotenv reads key=value pairs from path.  A missing file yields an
// empty layer; any other read or parse failure is an error.
func Dotenv(path string) (Source, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Source{Name: "dotenv"}, nil
		}
		return Source{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Source{Name: "dotenv", Values: values}, nil
}

// Environ captures prefixed process environment variables, stripping the
// prefix.  With prefix "FRIDAY_", FRIDAY_PORT becomes PORT.
func Environ(prefix string) (Source, error) {
	k := koanf.New(".")
	err := k.Load(env.Provider(prefix, ".", func(s string) string {
		return strings.TrimPrefix(s, prefix)
	}), nil)
	if err != nil {
		return Source{}, fmt.Errorf("env overlay: %w", err)
	}

	values := make(map[string]string)
	for key, raw := range k.All() {
		values[key] = fmt.Sprint(raw)
	}
	return Source{Name: "environment", Values: values}, nil
}
