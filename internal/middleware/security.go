// internal/middleware/security.go
//
// Security-header middleware.
//
// Notes
// -----
// • Headers are seeded *before* next.ServeHTTP so they are present when
//   the handler commits the response; a handler may still overwrite
//   them.
// • HSTS is useful even behind a TLS-terminating proxy, because clients
//   still see the gateway's domain as HTTPS.
// • Oxford commas, two spaces after periods.

package middleware

import "net/http"

// Security sets defensive headers on every response: HSTS,
// X-Frame-Options, X-Content-Type-Options, and Referrer-Policy.
func Security(next http.Handler) http.Handler {
	const hsts = "max-age=63072000; includeSubDomains"

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Strict-Transport-Security", hsts)
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next.ServeHTTP(w, r)
	})
}
