// Package middleware holds small, composable HTTP wrappers that consume
// the derived option bundles.
package middleware

import (
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"

	"github.com/AdeptTravel/adept-gateway/internal/options"
)

// Throttle wraps h with per-client token-bucket limiting driven by the
// throttle bundle.  Clients with an unlimited override (the loopback
// exemption) always pass; everyone else draws from a limiter keyed by
// client address.  Exhausted buckets answer 429.
func Throttle(opts *options.Throttle, h http.Handler) http.Handler {
	var (
		mu       sync.Mutex
		limiters = make(map[string]*rate.Limiter)
	)

	limiterFor := func(addr string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		if l, ok := limiters[addr]; ok {
			return l
		}
		limit := opts.LimitFor(addr)
		l := rate.NewLimiter(limit.Rate, limit.Burst)
		limiters[addr] = l
		return l
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		addr := clientAddr(r)

		if opts.LimitFor(addr).Unlimited() {
			h.ServeHTTP(w, r)
			return
		}
		if !limiterFor(addr).Allow() {
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		h.ServeHTTP(w, r)
	})
}

// clientAddr strips the ephemeral port from RemoteAddr.
func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
