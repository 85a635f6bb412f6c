// internal/options/session.go
//
// Upstream session bundle with fail-fast authentication synthesis.
//
// The upstream data provider accepts one authentication mode today:
// password.  When an application name is configured, the mode must be
// exactly that literal — anything else aborts startup with an explicit
// error, because user-level and combined user+application auth are
// intended future work, not approximations we can guess at.  When the
// mode checks out, the bundle carries a semicolon-delimited option
// string encoding mode, the fixed application-auth type, and the name,
// and the session authorizes itself on startup.

package options

import (
	"fmt"
	"time"

	"github.com/AdeptTravel/adept-gateway/internal/config"
)

// AuthModePassword is the single supported authentication mode.
const AuthModePassword = "password"

// appAuthType is the fixed application-authentication type encoded into
// the options string.
const appAuthType = "application"

// Session parameterizes the upstream session bootstrap.
type Session struct {
	Host       string
	Port       int
	Expiration time.Duration

	// AuthorizeOnStartup is true exactly when AuthOptions is non-empty.
	AuthorizeOnStartup bool
	AuthOptions        string
}

func newSession(st *config.Store) (*Session, error) {
	s := &Session{
		Host:       st.String("api.host"),
		Port:       st.Int("api.port"),
		Expiration: time.Duration(st.Int("session.expiration_seconds")) * time.Second,
	}

	appName := st.String("auth.app_name")
	if appName == "" {
		return s, nil
	}
	mode := st.String("auth.mode")
	if mode != AuthModePassword {
		return nil, &config.AuthConfigError{Mode: mode}
	}
	s.AuthOptions = fmt.Sprintf("mode=%s;auth_type=%s;app=%s", mode, appAuthType, appName)
	s.AuthorizeOnStartup = true
	return s, nil
}
