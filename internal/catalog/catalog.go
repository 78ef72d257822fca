// internal/catalog/catalog.go
//
// Typed catalog of deployment configuration variables.
//
// Context
// -------
// Every variable the Friday image reads at startup is declared here once,
// with its default, visibility, and scope.  The resolver consumes the
// catalog twice: first to seed the defaults layer, then to decide which
// keys are allowed to be absent after all sources have been merged.
//
// Visibility and scope mirror the hosting platforms' own vocabulary:
// DigitalOcean App Platform splits env vars into GENERAL vs SECRET and
// BUILD_TIME vs RUN_TIME, and the renderers map one-to-one onto these
// fields.
//
// Notes
// -----
//   - Names are unique per catalog; a duplicate declaration is a
//     programming error and panics in New.
//   - RequiredWhen makes a variable conditionally required: it is only
//     enforced when the named gate variable resolves truthy.
package catalog

import "fmt"

//
// Enumerations
//

// Visibility classifies a variable as publishable or secret.  Secret
// values are supplied out-of-band (dashboard, Vault) and never land in
// source control, rendered artifacts, or logs.
type Visibility string

const (
	Public Visibility = "public"
	Secret Visibility = "secret"
)

// Scope says when the variable must be present: while the image is
// built, or when the container process starts.
type Scope string

const (
	BuildTime Scope = "build-time"
	Runtime   Scope = "runtime"
)

//
// Variable
//

// Variable is one declared configuration option.
type Variable struct {
	Name         string
	Default      string // "" means no documented default
	Visibility   Visibility
	Scope        Scope
	Required     bool
	RequiredWhen string // gate variable name; empty means unconditional
	Description  string
}

// IsSecret reports whether the variable must stay out of plaintext
// artifacts and logs.
func (v Variable) IsSecret() bool { return v.Visibility == Secret }

//
// Catalog
//

// Catalog is an ordered, name-unique set of Variables.  The declaration
// order is preserved so error reporting and rendered output stay
// deterministic.
type Catalog struct {
	vars  []Variable
	index map[string]int
}

// New builds a Catalog and panics on a duplicate name.  Catalogs are
// assembled from literals at init time, so a panic here is a compile-adjacent
// failure, not a runtime condition an operator can hit.
func New(vars ...Variable) *Catalog {
	c := &Catalog{
		vars:  make([]Variable, 0, len(vars)),
		index: make(map[string]int, len(vars)),
	}
	for _, v := range vars {
		if v.Name == "" {
			panic("catalog: variable with empty name")
		}
		if _, dup := c.index[v.Name]; dup {
			panic(fmt.Sprintf("catalog: duplicate variable %q", v.Name))
		}
		c.index[v.Name] = len(c.vars)
		c.vars = append(c.vars, v)
	}
	return c
}

// Lookup returns the declaration for name.
func (c *Catalog) Lookup(name string) (Variable, bool) {
	i, ok := c.index[name]
	if !ok {
		return Variable{}, false
	}
	return c.vars[i], true
}

// Names returns all variable names in declaration order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.vars))
	for i, v := range c.vars {
		out[i] = v.Name
	}
	return out
}

// Len reports the number of declared variables.
func (c *Catalog) Len() int { return len(c.vars) }

// Defaults returns the built-in defaults layer: every variable with a
// documented default, as a fresh map.
func (c *Catalog) Defaults() map[string]string {
	out := make(map[string]string, len(c.vars))
	for _, v := range c.vars {
		if v.Default != "" {
			out[v.Name] = v.Default
		}
	}
	return out
}

// Secrets returns the secret-visibility variables in declaration order.
func (c *Catalog) Secrets() []Variable {
	out := make([]Variable, 0, 8)
	for _, v := range c.vars {
		if v.IsSecret() {
			out = append(out, v)
		}
	}
	return out
}

// Missing returns the required variables that have no usable value in
// values, in declaration order.  An empty-string value counts as unset
// for required checks.  Conditionally required variables (RequiredWhen)
// are only reported when their gate variable resolves truthy.
func (c *Catalog) Missing(values map[string]string) []Variable {
	out := make([]Variable, 0, 4)
	for _, v := range c.vars {
		if !v.Required && v.RequiredWhen == "" {
			continue
		}
		if v.RequiredWhen != "" && !Truthy(values[v.RequiredWhen]) {
			continue
		}
		if values[v.Name] == "" {
			out = append(out, v)
		}
	}
	return out
}

// Truthy interprets the usual dotenv boolean spellings.  Friday itself
// accepts "true"/"True"/"1" for its ENABLE_* flags; "yes" and "on" are
// accepted for operator convenience.
func Truthy(s string) bool {
	switch s {
	case "true", "True", "TRUE", "1", "yes", "Yes", "on", "On":
		return true
	}
	return false
}
