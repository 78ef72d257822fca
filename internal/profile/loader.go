// internal/profile/loader.go
//
// Profiles file loader.
//
/*
Context
--------
`Load()` reads `conf/profiles.yaml` through Koanf (file provider + YAML
parser), unmarshals it into the typed Set, back-fills each Profile's
Name from its map key, and validates the result.  A broken profiles
file is an operator error and fails loudly before any resolution is
attempted.

`Set.Get()` is the lookup used by every CLI command and the service
mode; its error enumerates the known profile names so a typo is
self-diagnosing.
*/
package profile

import (
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

var v = validator.New()

// Load reads and validates a profiles file.
func Load(path string) (*Set, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		zap.S().Errorw("profiles load failed", "file", path, "err", err)
		return nil, fmt.Errorf("load profiles %s: %w", path, err)
	}

	var set Set
	if err := k.Unmarshal("", &set); err != nil {
		zap.S().Errorw("profiles unmarshal failed", "file", path, "err", err)
		return nil, fmt.Errorf("parse profiles %s: %w", path, err)
	}

	// Names live in the map keys; copy them into the structs so a
	// Profile is self-describing once handed out.
	for name, p := range set.Profiles {
		p.Name = name
		set.Profiles[name] = p
	}

	if err := v.Struct(&set); err != nil {
		zap.S().Errorw("profiles validation failed", "file", path, "err", err)
		return nil, fmt.Errorf("validate profiles %s: %w", path, err)
	}

	zap.S().Debugw("profiles loaded", "file", path, "count", len(set.Profiles))
	return &set, nil
}

// Get returns the named profile.  The error for an unknown name lists
// every configured profile.
func (s *Set) Get(name string) (Profile, error) {
	p, ok := s.Profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("unknown profile %q, configured profiles: %v", name, s.Names())
	}
	return p, nil
}

// Names returns the configured profile names, sorted.
func (s *Set) Names() []string {
	out := make([]string, 0, len(s.Profiles))
	for name := range s.Profiles {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
