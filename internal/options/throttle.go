// internal/options/throttle.go
//
// Throttle bundle: per-client burst and rate limits.
//
// The override table always carries the loopback exemption (zero rate,
// zero burst, meaning unlimited) so local health checks and tooling are
// never throttled.  The builder injects it by policy; configuration
// cannot remove it.

package options

import (
	"golang.org/x/time/rate"

	"github.com/AdeptTravel/adept-gateway/internal/config"
)

// LoopbackAddr is the client address exempted from throttling.
const LoopbackAddr = "127.0.0.1"

// ClientLimit is one client's token-bucket parameters.  The zero value
// means unlimited.
type ClientLimit struct {
	Rate  rate.Limit // tokens per second
	Burst int
}

// Unlimited reports whether this limit disables throttling entirely.
func (c ClientLimit) Unlimited() bool { return c.Rate == 0 && c.Burst == 0 }

// Throttle is the derived throttle bundle, keyed by client address.
type Throttle struct {
	Default   ClientLimit
	Overrides map[string]ClientLimit
}

// LimitFor returns the limit that applies to a client address.
func (t *Throttle) LimitFor(addr string) ClientLimit {
	if l, ok := t.Overrides[addr]; ok {
		return l
	}
	return t.Default
}

func newThrottle(st *config.Store) *Throttle {
	return &Throttle{
		Default: ClientLimit{
			Rate:  rate.Limit(st.Int("throttle.rate")),
			Burst: st.Int("throttle.burst"),
		},
		Overrides: map[string]ClientLimit{
			LoopbackAddr: {}, // zero rate + zero burst = unlimited
		},
	}
}
