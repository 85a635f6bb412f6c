// internal/options/body.go
//
// Body-parsing bundle.

package options

import "github.com/AdeptTravel/adept-gateway/internal/config"

// Body caps request body size.  MergeRouteParams stays false: parsed
// parameters are reachable only through explicit lookup, never merged
// onto route parameters implicitly.
type Body struct {
	MaxBytes         int64
	MergeRouteParams bool
}

func newBody(st *config.Store) *Body {
	return &Body{
		MaxBytes:         int64(st.Int("body.max_bytes")),
		MergeRouteParams: false,
	}
}
