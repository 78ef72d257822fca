// internal/vault/vault.go
//
// Vault-backed secret source for configuration resolution.
//
// Context
// -------
// Profile values may reference Vault instead of carrying plaintext
// (`vault:<mount/path>#<key>`).  This client wraps the HashiCorp Vault
// Go SDK with the three things the resolver needs: KV-v2 reads, a
// short per-key cache so one resolution does not hammer Vault for a
// key it already fetched, and background token renewal for the
// long-running service mode.
//
// Bootstrap comes from the standard environment: VAULT_ADDR for the
// server, VAULT_TOKEN for the initial token (falling back to the SDK's
// ~/.vault-token discovery).
package vault

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	vaultapi "github.com/hashicorp/vault/api"
	"go.uber.org/zap"
)

// cacheTTL bounds how long a fetched secret may be reused.  Long enough
// to cover one resolution pass plus the service-mode snapshot cache,
// short enough that a rotated secret shows up on the next deploy.
const cacheTTL = 5 * time.Minute

// Client is safe for concurrent use.  Construct once at startup.  The
// zero value is invalid.
type Client struct {
	api *vaultapi.Client

	mu    sync.RWMutex
	cache map[string]cached // "<path>#<key>" → value + expiry
}

type cached struct {
	val string
	exp time.Time
}

// Enabled reports whether the process environment points at a Vault
// server at all.  Commands skip client construction when it does not,
// so purely local profiles never need Vault reachable.
func Enabled() bool { return os.Getenv(vaultapi.EnvVaultAddress) != "" }

// New constructs a client from the environment and starts the token
// renewal loop.  The loop stops when ctx is cancelled.
func New(ctx context.Context) (*Client, error) {
	cfg := vaultapi.DefaultConfig()
	if err := cfg.ReadEnvironment(); err != nil {
		return nil, fmt.Errorf("vault env cfg: %w", err)
	}

	api, err := vaultapi.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("vault client: %w", err)
	}
	if tok := os.Getenv("VAULT_TOKEN"); tok != "" {
		api.SetToken(tok)
	}

	c := &Client{
		api:   api,
		cache: make(map[string]cached),
	}
	go c.renewLoop(ctx)
	return c, nil
}

// Lookup fetches one key from a KV-v2 secret.  It satisfies the
// resolver's SecretResolver contract.
func (c *Client) Lookup(ctx context.Context, secretPath, key string) (string, error) {
	if secretPath == "" || key == "" {
		return "", errors.New("vault: secret path and key must be non-empty")
	}

	canonical := secretPath + "#" + key

	c.mu.RLock()
	if cv, ok := c.cache[canonical]; ok && time.Now().Before(cv.exp) {
		c.mu.RUnlock()
		return cv.val, nil
	}
	c.mu.RUnlock()

	mount, rel := splitMount(secretPath)
	sec, err := c.api.KVv2(mount).Get(ctx, rel)
	if err != nil {
		return "", fmt.Errorf("vault get %s: %w", secretPath, err)
	}

	raw, ok := sec.Data[key]
	if !ok {
		return "", fmt.Errorf("key %q not found in secret %q", key, secretPath)
	}
	sval, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("value at %s#%s is not a string", secretPath, key)
	}

	c.mu.Lock()
	c.cache[canonical] = cached{val: sval, exp: time.Now().Add(cacheTTL)}
	c.mu.Unlock()

	return sval, nil
}

//
// Token renewal
//

// renewLoop keeps the client token alive for the service mode.  One-shot
// CLI commands cancel ctx on exit and never notice it.
func (c *Client) renewLoop(ctx context.Context) {
	for ctx.Err() == nil {
		sec, err := c.api.Auth().Token().RenewSelf(0)
		if err != nil {
			zap.S().Warnw("vault token renew failed", "err", err)
			sleep(ctx, 30*time.Second)
			continue
		}
		if sec == nil || sec.Auth == nil || !sec.Auth.Renewable {
			zap.S().Debugw("vault token not renewable, rechecking in 1h")
			sleep(ctx, time.Hour)
			continue
		}

		watcher, err := c.api.NewLifetimeWatcher(&vaultapi.LifetimeWatcherInput{Secret: sec})
		if err != nil {
			zap.S().Warnw("vault lifetime watcher init failed", "err", err)
			sleep(ctx, 30*time.Second)
			continue
		}

		go watcher.Start()
		c.watch(ctx, watcher)
		watcher.Stop()
		sleep(ctx, 15*time.Second)
	}
}

// watch drains one watcher until it finishes or ctx ends.
func (c *Client) watch(ctx context.Context, w *vaultapi.LifetimeWatcher) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-w.DoneCh():
			if err != nil {
				zap.S().Warnw("vault token renewal stopped", "err", err)
			}
			return
		case ev := <-w.RenewCh():
			if ev != nil && ev.Secret != nil && ev.Secret.Auth != nil {
				zap.S().Debugw("vault token renewed", "ttl_s", ev.Secret.Auth.LeaseDuration)
			}
		}
	}
}

//
// Helpers
//

// splitMount separates the KV mount from the path inside it.
func splitMount(p string) (mount, rel string) {
	parts := strings.SplitN(p, "/", 2)
	mount = parts[0]
	if len(parts) == 2 {
		rel = parts[1]
	}
	return
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
