// internal/server/server.go
//
// HTTP(S) server construction from the server bundle.
//
// Production hardening recommends:
//
//   • ReadTimeout   – abort slow-loris headers (10 s)
//   • WriteTimeout  – cap total response time (15 s)
//   • IdleTimeout   – close keep-alives on idle clients (60 s)
//
// This helper centralises those defaults and injects the mutual-TLS
// configuration when the bundle carries material, so cmd/gateway doesn't
// repeat boilerplate.

package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/AdeptTravel/adept-gateway/internal/options"
)

// New constructs an *http.Server from the server bundle.  The TLSConfig
// is nil when HTTPS is disabled; callers pick ListenAndServe or
// ListenAndServeTLS accordingly.
func New(opts *options.Server, handler http.Handler) (*http.Server, error) {
	tlsCfg, err := opts.TLSConfig()
	if err != nil {
		return nil, err
	}
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", opts.ListenPort),
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
		TLSConfig:    tlsCfg,
	}, nil
}
