// internal/options/build.go
//
// Derived option bundles.
//
/*
Context
--------
Scalar settings answer "what is the value of X"; the rest of the process
mostly asks "give me everything the TLS listener / throttle middleware /
logger / upstream session needs."  This package computes those composite
bundles from the validated store.  Each bundle is an explicit struct,
internally consistent at the moment of construction:

  • Logging   — file sink always, console sink only when enabled, plus
    the two log-redaction helpers.
  • Body      — request-size ceiling, explicit no-merge of parsed params.
  • Throttle  — default burst/rate keyed by client address plus the
    override table with the mandatory loopback exemption.
  • Server    — identity, accepted content type, and (when HTTPS is on)
    the full mutual-TLS material set with the live revocation buffer.
  • Session   — upstream host/port and the fail-fast authentication
    option synthesis.

Construction is fatal on the first inconsistency; a bundle is never
handed out half-built.

Notes
-----
  • Oxford commas, two spaces after periods.
*/
package options

import "github.com/AdeptTravel/adept-gateway/internal/config"

// Bundles is the full set of derived option groups, one instance of each
// per process.
type Bundles struct {
	Logging  *Logging
	Body     *Body
	Throttle *Throttle
	Server   *Server
	Session  *Session
}

// Build derives every bundle from the validated store.  root anchors the
// TLS material directory (<root>/conf/tls).
func Build(st *config.Store, root string) (*Bundles, error) {
	server, err := newServer(st, root)
	if err != nil {
		return nil, err
	}
	session, err := newSession(st)
	if err != nil {
		return nil, err
	}
	return &Bundles{
		Logging:  newLogging(st),
		Body:     newBody(st),
		Throttle: newThrottle(st),
		Server:   server,
		Session:  session,
	}, nil
}
