// internal/render/dotenv.go
//
// Dotenv artifact renderer.
//
// Context
// -------
// Docker Compose deployments consume the resolved snapshot as an
// env_file.  The renderer emits sorted KEY=value lines with minimal
// quoting, so output is stable across runs and diffs cleanly between
// releases.
//
// Secret handling: Plain() includes secret values and exists for the
// explicit --reveal path that writes the env_file a Compose deploy
// actually uses.  Redacted() masks every secret-visibility value and is
// the only form that may reach terminals and logs.
package render

import (
	"bytes"
	"strings"

	"github.com/fridaylabs/fridayctl/internal/catalog"
	"github.com/fridaylabs/fridayctl/internal/resolve"
)

// Mask replaces secret values in redacted output.
const Mask = "****"

// Plain renders the snapshot as a dotenv file with real values.
func Plain(snap *resolve.Snapshot, cat *catalog.Catalog) []byte {
	return dotenv(snap, cat, false)
}

// Redacted renders the snapshot as a dotenv file with secret values
// masked.
func Redacted(snap *resolve.Snapshot, cat *catalog.Catalog) []byte {
	return dotenv(snap, cat, true)
}

// RedactValues returns a copy of the snapshot's values with secrets
// masked, for JSON responses and table output.
func RedactValues(snap *resolve.Snapshot, cat *catalog.Catalog) map[string]string {
	out := make(map[string]string, len(snap.Values))
	for k, v := range snap.Values {
		if isSecret(cat, k) && v != "" {
			out[k] = Mask
			continue
		}
		out[k] = v
	}
	return out
}

func dotenv(snap *resolve.Snapshot, cat *catalog.Catalog, redact bool) []byte {
	var buf bytes.Buffer
	for _, k := range snap.Keys() {
		v := snap.Values[k]
		if redact && isSecret(cat, k) && v != "" {
			v = Mask
		}
		buf.WriteString(k)
		buf.WriteByte('=')
		buf.WriteString(quote(v))
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

func isSecret(cat *catalog.Catalog, key string) bool {
	v, ok := cat.Lookup(key)
	return ok && v.IsSecret()
}

// quote wraps a value in double quotes when it contains characters the
// dotenv grammar would otherwise swallow.
func quote(v string) string {
	if v == "" || strings.ContainsAny(v, " \t#'\"\\\n$") {
		escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`).Replace(v)
		return `"` + escaped + `"`
	}
	return v
}
