// internal/options/session_test.go
//
// Unit-tests for the upstream session bundle: deterministic auth-option
// synthesis, fail-fast mode checking, and the empty-name path.
//
// Run: go test ./internal/options -v

package options

import (
	"errors"
	"testing"
	"time"

	"github.com/AdeptTravel/adept-gateway/internal/config"
)

func sessionEntries(mode, appName string) []config.Entry {
	return []config.Entry{
		{Key: "api.host", Format: config.FormatIP, Default: "10.0.0.5"},
		{Key: "api.port", Format: config.FormatPort, Default: 9000},
		{Key: "session.expiration_seconds", Format: config.FormatInt, Default: 60},
		{Key: "auth.mode", Format: config.FormatString, Default: mode},
		{Key: "auth.app_name", Format: config.FormatString, Default: appName},
	}
}

func TestSessionAuthSynthesis(t *testing.T) {
	st := testStore(t, sessionEntries("password", "risk-engine")...)

	s, err := newSession(st)
	if err != nil {
		t.Fatalf("newSession: %v", err)
	}
	if s.Host != "10.0.0.5" || s.Port != 9000 {
		t.Fatalf("host/port not copied: %s:%d", s.Host, s.Port)
	}
	if s.Expiration != 60*time.Second {
		t.Fatalf("expiration: %v", s.Expiration)
	}
	want := "mode=password;auth_type=application;app=risk-engine"
	if s.AuthOptions != want {
		t.Fatalf("auth options\n want %q\n got  %q", want, s.AuthOptions)
	}
	if !s.AuthorizeOnStartup {
		t.Fatal("AuthorizeOnStartup must be true with an app name")
	}
}

func TestSessionRejectsUnsupportedMode(t *testing.T) {
	for _, mode := range []string{"user", "user+application", ""} {
		st := testStore(t, sessionEntries(mode, "risk-engine")...)

		_, err := newSession(st)
		var aerr *config.AuthConfigError
		if !errors.As(err, &aerr) {
			t.Fatalf("mode %q: want AuthConfigError, got %v", mode, err)
		}
		if aerr.Mode != mode {
			t.Fatalf("error must name the bad mode, got %q", aerr.Mode)
		}
	}
}

func TestSessionWithoutAppName(t *testing.T) {
	// Any mode value is fine when no app name is configured.
	st := testStore(t, sessionEntries("user", "")...)

	s, err := newSession(st)
	if err != nil {
		t.Fatalf("newSession: %v", err)
	}
	if s.AuthOptions != "" {
		t.Fatalf("unexpected auth options %q", s.AuthOptions)
	}
	if s.AuthorizeOnStartup {
		t.Fatal("AuthorizeOnStartup must be false without an app name")
	}
}
