// internal/middleware/body.go
//
// Request-body cap from the body bundle.

package middleware

import (
	"net/http"

	"github.com/AdeptTravel/adept-gateway/internal/options"
)

// MaxBody wraps h so request bodies larger than the bundle's ceiling
// fail the handler's read with http.MaxBytesError.  Parsed parameters
// are never merged onto route parameters; handlers look them up
// explicitly.
func MaxBody(opts *options.Body, h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, opts.MaxBytes)
		}
		h.ServeHTTP(w, r)
	})
}
