// internal/resolve/resolve_test.go
//
// Unit tests for the resolution engine: precedence, pass-through,
// missing-secret failures, Vault references, and idempotence.
//
// Run: go test ./internal/resolve -v

package resolve

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/fridaylabs/fridayctl/internal/catalog"
)

// testCatalog is a reduced variable surface mirroring the shape of the
// real one: one unconditional secret, one gated secret, and public
// variables with documented defaults.
func testCatalog() *catalog.Catalog {
	return catalog.New(
		catalog.Variable{Name: "WEBUI_SECRET_KEY", Visibility: catalog.Secret, Scope: catalog.Runtime, Required: true},
		catalog.Variable{Name: "ENABLE_OPENAI_API", Default: "true", Visibility: catalog.Public, Scope: catalog.Runtime},
		catalog.Variable{Name: "OPENAI_API_KEY", Visibility: catalog.Secret, Scope: catalog.Runtime, RequiredWhen: "ENABLE_OPENAI_API"},
		catalog.Variable{Name: "PORT", Default: "8080", Visibility: catalog.Public, Scope: catalog.Runtime},
		catalog.Variable{Name: "CORS_ALLOW_ORIGIN", Default: "*", Visibility: catalog.Public, Scope: catalog.Runtime},
	)
}

// secrets returns a Static source that satisfies the required secrets
// so individual tests only exercise the dimension under test.
func secrets() Source {
	return Static("dashboard", map[string]string{
		"WEBUI_SECRET_KEY": "sess-key",
		"OPENAI_API_KEY":   "sk-test",
	})
}

func TestDefaultsApply(t *testing.T) {
	snap, err := Resolve(context.Background(), Options{
		Catalog: testCatalog(),
		Profile: "local",
		Sources: []Source{secrets()},
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got := snap.Values["PORT"]; got != "8080" {
		t.Errorf("PORT = %q, want built-in default 8080", got)
	}
	if got := snap.Values["CORS_ALLOW_ORIGIN"]; got != "*" {
		t.Errorf("CORS_ALLOW_ORIGIN = %q, want *", got)
	}
	if got := snap.Origins["PORT"]; got != "default" {
		t.Errorf("origin of PORT = %q, want default", got)
	}
}

func TestPrecedenceLastSourceWins(t *testing.T) {
	// PORT present in all three layers; the dashboard layer must win.
	snap, err := Resolve(context.Background(), Options{
		Catalog: testCatalog(),
		Profile: "local",
		Sources: []Source{
			Static("profile", map[string]string{"PORT": "3000"}),
			Static("dotenv", map[string]string{"PORT": "4000"}),
			secrets(),
			Static("dashboard", map[string]string{"PORT": "5000"}),
		},
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got := snap.Values["PORT"]; got != "5000" {
		t.Errorf("PORT = %q, want dashboard value 5000", got)
	}
	if got := snap.Origins["PORT"]; got != "dashboard" {
		t.Errorf("origin of PORT = %q, want dashboard", got)
	}
}

func TestMissingSecretFailsWithKey(t *testing.T) {
	_, err := Resolve(context.Background(), Options{
		Catalog: testCatalog(),
		Profile: "local",
		Sources: []Source{
			Static("dashboard", map[string]string{"OPENAI_API_KEY": "sk-test"}),
		},
	})
	var miss *MissingSecretError
	if !errors.As(err, &miss) {
		t.Fatalf("Resolve error = %v, want *MissingSecretError", err)
	}
	if miss.Key != "WEBUI_SECRET_KEY" {
		t.Errorf("missing key = %q, want WEBUI_SECRET_KEY", miss.Key)
	}
}

func TestGatedSecretEnforcedOnlyWhenEnabled(t *testing.T) {
	// Provider disabled: only the session key is needed.
	snap, err := Resolve(context.Background(), Options{
		Catalog: testCatalog(),
		Profile: "local",
		Sources: []Source{
			Static("dashboard", map[string]string{
				"WEBUI_SECRET_KEY":  "sess-key",
				"ENABLE_OPENAI_API": "false",
			}),
		},
	})
	if err != nil {
		t.Fatalf("Resolve with provider disabled: %v", err)
	}
	if _, ok := snap.Values["OPENAI_API_KEY"]; ok {
		t.Error("OPENAI_API_KEY should be absent when never supplied")
	}

	// Provider enabled by default: the key becomes mandatory.
	_, err = Resolve(context.Background(), Options{
		Catalog: testCatalog(),
		Profile: "local",
		Sources: []Source{
			Static("dashboard", map[string]string{"WEBUI_SECRET_KEY": "sess-key"}),
		},
	})
	var miss *MissingSecretError
	if !errors.As(err, &miss) || miss.Key != "OPENAI_API_KEY" {
		t.Fatalf("Resolve error = %v, want MissingSecretError for OPENAI_API_KEY", err)
	}
}

func TestUnknownKeysPassThrough(t *testing.T) {
	snap, err := Resolve(context.Background(), Options{
		Catalog: testCatalog(),
		Profile: "local",
		Sources: []Source{
			secrets(),
			Static("dotenv", map[string]string{"EXPERIMENTAL_FLAG": "on"}),
		},
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got := snap.Values["EXPERIMENTAL_FLAG"]; got != "on" {
		t.Errorf("unknown key dropped: EXPERIMENTAL_FLAG = %q, want on", got)
	}
}

func TestIdempotence(t *testing.T) {
	opts := Options{
		Catalog: testCatalog(),
		Profile: "local",
		Sources: []Source{
			secrets(),
			Static("dotenv", map[string]string{"PORT": "4000"}),
		},
	}

	a, err := Resolve(context.Background(), opts)
	if err != nil {
		t.Fatalf("first Resolve: %v", err)
	}
	b, err := Resolve(context.Background(), opts)
	if err != nil {
		t.Fatalf("second Resolve: %v", err)
	}

	if len(a.Values) != len(b.Values) {
		t.Fatalf("value counts differ: %d vs %d", len(a.Values), len(b.Values))
	}
	for k, v := range a.Values {
		if b.Values[k] != v {
			t.Errorf("value for %s differs: %q vs %q", k, v, b.Values[k])
		}
	}
	if a.Checksum() != b.Checksum() {
		t.Errorf("checksums differ: %s vs %s", a.Checksum(), b.Checksum())
	}
}

func TestChecksumTracksValues(t *testing.T) {
	base := Options{Catalog: testCatalog(), Profile: "local", Sources: []Source{secrets()}}
	a, err := Resolve(context.Background(), base)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	changed := base
	changed.Sources = append([]Source{}, base.Sources...)
	changed.Sources = append(changed.Sources, Static("dashboard", map[string]string{"PORT": "9999"}))
	b, err := Resolve(context.Background(), changed)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if a.Checksum() == b.Checksum() {
		t.Error("checksum did not change when a value changed")
	}
}

//
// Vault references
//

type fakeResolver struct {
	data  map[string]string // "path#key" → value
	calls int
	err   error
}

func (f *fakeResolver) Lookup(_ context.Context, secretPath, key string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	v, ok := f.data[secretPath+"#"+key]
	if !ok {
		return "", fmt.Errorf("key %q not found in secret %q", key, secretPath)
	}
	return v, nil
}

func TestVaultReferenceResolved(t *testing.T) {
	fake := &fakeResolver{data: map[string]string{
		"secret/friday/prod#webui_secret_key": "from-vault",
	}}

	snap, err := Resolve(context.Background(), Options{
		Catalog: testCatalog(),
		Profile: "oracle-cloud",
		Secrets: fake,
		Sources: []Source{
			Static("profile", map[string]string{
				"WEBUI_SECRET_KEY":  "vault:secret/friday/prod#webui_secret_key",
				"OPENAI_API_KEY":    "sk-test",
				"ENABLE_OPENAI_API": "true",
			}),
		},
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got := snap.Values["WEBUI_SECRET_KEY"]; got != "from-vault" {
		t.Errorf("WEBUI_SECRET_KEY = %q, want from-vault", got)
	}
	if got := snap.Origins["WEBUI_SECRET_KEY"]; got != "vault" {
		t.Errorf("origin = %q, want vault", got)
	}
	if fake.calls != 1 {
		t.Errorf("resolver calls = %d, want 1", fake.calls)
	}
}

func TestVaultReferenceWithoutResolver(t *testing.T) {
	_, err := Resolve(context.Background(), Options{
		Catalog: testCatalog(),
		Profile: "local",
		Sources: []Source{
			Static("profile", map[string]string{
				"WEBUI_SECRET_KEY": "vault:secret/friday#k",
				"OPENAI_API_KEY":   "sk-test",
			}),
		},
	})
	if err == nil {
		t.Fatal("expected error when a vault reference is present but no resolver is configured")
	}
}

func TestMalformedVaultReference(t *testing.T) {
	fake := &fakeResolver{}
	_, err := Resolve(context.Background(), Options{
		Catalog: testCatalog(),
		Profile: "local",
		Secrets: fake,
		Sources: []Source{
			Static("profile", map[string]string{
				"WEBUI_SECRET_KEY": "vault:no-fragment",
				"OPENAI_API_KEY":   "sk-test",
			}),
		},
	})
	if err == nil {
		t.Fatal("expected error for malformed vault reference")
	}
	if fake.calls != 0 {
		t.Errorf("resolver called %d times for malformed reference", fake.calls)
	}
}

//
// Sources
//

func TestDotenvSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "PORT=4000\nCORS_ALLOW_ORIGIN=http://localhost:4000\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	src, err := Dotenv(path)
	if err != nil {
		t.Fatalf("Dotenv: %v", err)
	}
	if src.Values["PORT"] != "4000" {
		t.Errorf("PORT = %q, want 4000", src.Values["PORT"])
	}

	// Missing file is an empty layer, not an error.
	empty, err := Dotenv(filepath.Join(dir, "absent.env"))
	if err != nil {
		t.Fatalf("Dotenv on missing file: %v", err)
	}
	if len(empty.Values) != 0 {
		t.Errorf("missing file produced %d values", len(empty.Values))
	}
}

func TestEnvironSource(t *testing.T) {
	t.Setenv("FRIDAY_PORT", "5000")
	t.Setenv("FRIDAY_WEBUI_SECRET_KEY", "env-secret")

	src, err := Environ("FRIDAY_")
	if err != nil {
		t.Fatalf("Environ: %v", err)
	}
	if src.Values["PORT"] != "5000" {
		t.Errorf("PORT = %q, want 5000", src.Values["PORT"])
	}
	if src.Values["WEBUI_SECRET_KEY"] != "env-secret" {
		t.Errorf("WEBUI_SECRET_KEY = %q, want env-secret", src.Values["WEBUI_SECRET_KEY"])
	}
}
