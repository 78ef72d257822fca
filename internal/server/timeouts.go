// internal/server/timeouts.go
//
// HTTP server constructor with hardened timeouts.
//
//   - ReadTimeout   – abort slow-loris headers (10 s)
//   - WriteTimeout  – cap total response time (15 s)
//   - IdleTimeout   – close keep-alives on idle clients (60 s)
//
// Resolution is cheap and local (Vault reads aside), so these bounds
// are generous.

package server

import (
	"net/http"
	"time"
)

// New constructs an *http.Server for the service mode.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
