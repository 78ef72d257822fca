// internal/resolve/resolve.go
//
// Configuration resolution engine.
//
/*
Context
--------
`Resolve()` produces one immutable `Snapshot` for a deployment profile by
overlaying value sources (lowest precedence first):

  1. Catalog defaults baked into the image.
  2. Profile values from `conf/profiles.yaml`.
  3. Optional `.env` file (local overrides).
  4. Host/dashboard overrides (prefixed environment variables, or an
     explicit override set from a hosted control plane).

After the merge, any value of the form `vault:<mount/path>#<key>` is
swapped for the real secret through the SecretResolver, so snapshots
never carry Vault URIs, only plain strings.  The final map is checked
against the catalog: a required runtime secret with no value from any
source fails the whole resolution with a MissingSecretError naming the
key.

Resolution is one-shot and pure.  It performs no writes, touches no
network beyond Vault reads, and the same inputs always produce the same
Values and Checksum, which is what lets the release store dedupe
repeated deploys.

Instrumentation
---------------
  - DEBUG spans per merged layer.
  - INFO span for the sealed snapshot (profile, key count, checksum).
  - Logs use the global sugared logger so early boot issues surface on
    the bootstrap console.
*/
package resolve

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fridaylabs/fridayctl/internal/catalog"
)

// vaultScheme marks a value as a reference into Vault KV-v2:
// vault:<mount/path>#<key>.
const vaultScheme = "vault:"

// SecretResolver fetches one key from a named secret.  The Vault client
// satisfies this; tests substitute a map-backed fake.
type SecretResolver interface {
	Lookup(ctx context.Context, secretPath, key string) (string, error)
}

// Options carries everything one resolution needs.
type Options struct {
	Catalog *catalog.Catalog
	Profile string
	Sources []Source // ascending precedence; later sources win
	Secrets SecretResolver
}

// Snapshot is the sealed result of a resolution.  It is never mutated
// after Resolve returns.
type Snapshot struct {
	Profile    string
	Values     map[string]string
	Origins    map[string]string // key → winning source name
	ResolvedAt time.Time
}

// Keys returns the resolved keys in sorted order.
func (s *Snapshot) Keys() []string {
	out := make([]string, 0, len(s.Values))
	for k := range s.Values {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Checksum returns a stable SHA-256 over the sorted key=value pairs.
// Two snapshots with equal Values share a checksum regardless of when
// or where they were resolved.
func (s *Snapshot) Checksum() string {
	h := sha256.New()
	for _, k := range s.Keys() {
		fmt.Fprintf(h, "%s=%s\n", k, s.Values[k])
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Resolve merges all sources over the catalog defaults, resolves Vault
// references, and verifies required variables.  See the package comment
// for the full contract.
func Resolve(ctx context.Context, opts Options) (*Snapshot, error) {
	if opts.Catalog == nil {
		return nil, fmt.Errorf("resolve: catalog is required")
	}

	values := opts.Catalog.Defaults()
	origins := make(map[string]string, len(values))
	for k := range values {
		origins[k] = "default"
	}

	// Overlay sources, last write wins.  Unknown keys pass through so
	// operators can feed the image variables this catalog has not
	// caught up with yet.
	for _, src := range opts.Sources {
		for k, v := range src.Values {
			values[k] = v
			origins[k] = src.Name
		}
		zap.S().Debugw("config layer merged", "profile", opts.Profile, "source", src.Name, "keys", len(src.Values))
	}

	// Swap Vault references for real secrets.  Sorted order keeps the
	// first failure deterministic.
	for _, k := range sortedKeys(values) {
		v := values[k]
		if !strings.HasPrefix(v, vaultScheme) {
			continue
		}
		if opts.Secrets == nil {
			return nil, fmt.Errorf("resolve %s: value references Vault but no secret resolver is configured", k)
		}
		secretPath, field, err := splitVaultRef(strings.TrimPrefix(v, vaultScheme))
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", k, err)
		}
		plain, err := opts.Secrets.Lookup(ctx, secretPath, field)
		if err != nil {
			return nil, fmt.Errorf("resolve %s from vault: %w", k, err)
		}
		values[k] = plain
		origins[k] = "vault"
	}

	// Required-variable check, declaration order, first offender wins.
	for _, v := range opts.Catalog.Missing(values) {
		if v.IsSecret() {
			return nil, &MissingSecretError{Key: v.Name}
		}
		return nil, &MissingVariableError{Key: v.Name}
	}

	snap := &Snapshot{
		Profile:    opts.Profile,
		Values:     values,
		Origins:    origins,
		ResolvedAt: time.Now().UTC(),
	}
	zap.S().Infow("configuration resolved",
		"profile", snap.Profile,
		"keys", len(snap.Values),
		"checksum", snap.Checksum()[:12],
	)
	return snap, nil
}

// splitVaultRef parses "<mount/path>#<key>".
func splitVaultRef(ref string) (secretPath, key string, err error) {
	i := strings.LastIndexByte(ref, '#')
	if i <= 0 || i == len(ref)-1 {
		return "", "", fmt.Errorf("malformed vault reference %q, want vault:<mount/path>#<key>", vaultScheme+ref)
	}
	return ref[:i], ref[i+1:], nil
}

func sortedKeys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
