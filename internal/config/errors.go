// internal/config/errors.go
//
// Error kinds for the configuration subsystem.
//
// Every startup-phase kind below is fatal: main logs it and exits before
// the listener accepts work.  ReloadReadError is the one post-startup
// kind; the watcher logs it and keeps the previous revocation buffer.

package config

import (
	"errors"
	"fmt"
)

// ErrUnknownKey is returned by the accessor when a name matches neither a
// derived bundle nor a schema entry.  Callers own their key namespace, so
// hitting this is a programming error, not a recoverable condition.
var ErrUnknownKey = errors.New("config: unknown key")

// SchemaValidationError reports a resolved value that fails its declared
// format.  Validation stops at the first violation.
type SchemaValidationError struct {
	Key    string // offending dotted key path
	Format string // expected format, human readable
	Err    error
}

func (e *SchemaValidationError) Error() string {
	return fmt.Sprintf("config: %s: expected %s: %v", e.Key, e.Format, e.Err)
}

func (e *SchemaValidationError) Unwrap() error { return e.Err }

// SourceParseError reports a config file that was supplied but could not
// be read or parsed.  There is no partial-merge fallback.
type SourceParseError struct {
	Path string
	Err  error
}

func (e *SourceParseError) Error() string {
	return fmt.Sprintf("config: parse %s: %v", e.Path, e.Err)
}

func (e *SourceParseError) Unwrap() error { return e.Err }

// AuthConfigError reports an application name configured together with an
// authentication mode other than the single supported one.  User-level
// and combined user+application modes are deliberately unsupported, never
// silently approximated.
type AuthConfigError struct {
	Mode string
}

func (e *AuthConfigError) Error() string {
	return fmt.Sprintf("config: application auth requires auth.mode %q, got %q (user and user+application modes are not supported)", "password", e.Mode)
}

// MaterialReadError reports TLS key, certificate, or trust-anchor
// material that is missing or unreadable while HTTPS is enabled.
type MaterialReadError struct {
	Path string
	Err  error
}

func (e *MaterialReadError) Error() string {
	return fmt.Sprintf("config: read TLS material %s: %v", e.Path, e.Err)
}

func (e *MaterialReadError) Unwrap() error { return e.Err }

// ReloadReadError reports a revocation-list file that was unreadable
// during a filesystem-change reload.  The watcher logs it and leaves the
// previous buffer in place.
type ReloadReadError struct {
	Path string
	Err  error
}

func (e *ReloadReadError) Error() string {
	return fmt.Sprintf("config: reload revocation list %s: %v", e.Path, e.Err)
}

func (e *ReloadReadError) Unwrap() error { return e.Err }
