// internal/options/logging.go
//
// Logging bundle: sink layout plus log-redaction helpers.
//
// The file sink always exists; the console sink is attached only when
// enabled, at its own level.  The two redaction helpers exist so the
// logging transport never writes full response or certificate payloads:
// responses shrink to status code plus headers, peer certificates shrink
// to subject CN plus fingerprint.

package options

import (
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"net/http"

	"github.com/AdeptTravel/adept-gateway/internal/config"
)

// Sink describes one log destination.
type Sink struct {
	Path  string // file sinks only
	Level string // zap level name ("debug", "info", …)
}

// Logging is the derived logging bundle.
type Logging struct {
	File    Sink
	Console *Sink // nil when the console sink is disabled

	LogRequestBody  bool
	LogClientDetail bool

	// Redaction hooks handed to the logging transport.
	RedactResponse func(any) any
	RedactPeerCert func(*x509.Certificate) *CertDigest
}

func newLogging(st *config.Store) *Logging {
	l := &Logging{
		File: Sink{
			Path:  st.String("log.file.path"),
			Level: st.String("log.file.level"),
		},
		LogRequestBody:  st.Bool("log.request_body"),
		LogClientDetail: st.Bool("log.client_detail"),
		RedactResponse:  ResponseSummary,
		RedactPeerCert:  PeerCertSummary,
	}
	if st.Bool("log.stdout.enable") {
		l.Console = &Sink{Level: st.String("log.stdout.level")}
	}
	return l
}

/*──────────────────────────── redaction helpers ────────────────────────────*/

// ResponseDigest is the loggable reduction of an HTTP response.
type ResponseDigest struct {
	StatusCode int
	Header     http.Header
}

// statuser covers wrapped response writers that expose the status they
// committed (chi's WrapResponseWriter does).
type statuser interface {
	Status() int
	Header() http.Header
}

// ResponseSummary reduces a response object to its status code and
// header set.  Inputs without a status code pass through unchanged
// rather than failing — the caller is mid-log and must not error.
func ResponseSummary(v any) any {
	switch r := v.(type) {
	case *http.Response:
		return ResponseDigest{StatusCode: r.StatusCode, Header: r.Header}
	case statuser:
		return ResponseDigest{StatusCode: r.Status(), Header: r.Header()}
	default:
		return v
	}
}

// CertDigest is the loggable reduction of a peer certificate.
type CertDigest struct {
	CommonName  string
	Fingerprint string // SHA-256 over the raw DER, hex encoded
}

// PeerCertSummary reduces a peer certificate to its subject common name
// and fingerprint.  A nil certificate yields nil, never an error.
func PeerCertSummary(cert *x509.Certificate) *CertDigest {
	if cert == nil {
		return nil
	}
	sum := sha256.Sum256(cert.Raw)
	return &CertDigest{
		CommonName:  cert.Subject.CommonName,
		Fingerprint: hex.EncodeToString(sum[:]),
	}
}
