// internal/server/server.go
//
// Service mode: dry-run resolution over HTTP.
//
/*
Context
--------
`fridayctl serve` exposes the resolver to hosted control planes:

	GET /healthz                  – liveness probe.
	GET /v1/profiles              – configured profiles (name + platform).
	GET /v1/resolve/{profile}     – dry-run resolution; secrets redacted.
	GET /metrics                  – Prometheus instruments.

The resolve endpoint never returns secret plaintext; it exists so a
dashboard can show operators what a deploy would resolve to, and which
source each value came from.  A missing required secret maps to 422
with the offending key, mirroring the fatal startup error a real deploy
would hit.
*/
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fridaylabs/fridayctl/internal/catalog"
	"github.com/fridaylabs/fridayctl/internal/profile"
	"github.com/fridaylabs/fridayctl/internal/render"
	"github.com/fridaylabs/fridayctl/internal/resolve"
)

// Config wires the service mode together.
type Config struct {
	Profiles  *profile.Set
	Catalog   *catalog.Catalog
	Resolver  ResolveFunc
	CacheTTL  time.Duration // default 30s
	CacheSize int           // default 16
}

// Handler builds the chi router for the service mode.
func Handler(cfg Config) http.Handler {
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	cache := newSnapshotCache(cfg.Resolver, ttl, cfg.CacheSize)

	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})

	r.Get("/v1/profiles", func(w http.ResponseWriter, _ *http.Request) {
		type item struct {
			Name     string `json:"name"`
			Platform string `json:"platform"`
		}
		out := make([]item, 0, len(cfg.Profiles.Names()))
		for _, name := range cfg.Profiles.Names() {
			p, _ := cfg.Profiles.Get(name)
			out = append(out, item{Name: p.Name, Platform: string(p.Platform)})
		}
		writeJSON(w, http.StatusOK, map[string]any{"profiles": out})
	})

	r.Get("/v1/resolve/{profile}", func(w http.ResponseWriter, req *http.Request) {
		name := chi.URLParam(req, "profile")
		if _, err := cfg.Profiles.Get(name); err != nil {
			writeJSON(w, http.StatusNotFound, map[string]any{"error": err.Error()})
			return
		}

		snap, err := cache.get(req.Context(), name)
		if err != nil {
			var miss *resolve.MissingSecretError
			if errors.As(err, &miss) {
				writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
					"error":       err.Error(),
					"missing_key": miss.Key,
				})
				return
			}
			zap.S().Errorw("resolve failed", "profile", name, "err", err)
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"profile":     snap.Profile,
			"resolved_at": snap.ResolvedAt,
			"checksum":    snap.Checksum(),
			"values":      render.RedactValues(snap, cfg.Catalog),
			"origins":     snap.Origins,
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zap.S().Errorw("write response", "err", err)
	}
}
