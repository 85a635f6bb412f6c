// internal/options/server.go
//
// Server/TLS bundle: identity, mutual-TLS material, revocation buffer.
//
/*
Context
--------
The bundle always carries service name, version, listen port, and the
single accepted content type.  With HTTPS enabled it additionally loads
the private key, certificate, and trust anchor from `<root>/conf/tls` —
all three or construction fails, never a partial set.  A configured
revocation-list file is read into the buffer here; the watcher later
replaces that buffer wholesale on every filesystem change.

The buffer sits behind an atomic pointer: readers observe the buffer
from before a swap or after it, never a torn one, and the handshake-time
revocation check re-fetches it on every call, so a reload needs no
listener restart.

Notes
-----
  • The watcher owns the write path (ReplaceCRL); everything else reads.
  • Oxford commas, two spaces after periods.
*/
package options

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/AdeptTravel/adept-gateway/internal/config"
)

// ContentType is the single accepted request content type.
const ContentType = "application/json"

// tlsDir is the fixed base directory for PEM material, under the root.
const tlsDir = "conf/tls"

// TLSMaterial holds the three PEM buffers for mutual TLS.  All three are
// non-empty whenever the struct exists.
type TLSMaterial struct {
	Key  []byte
	Cert []byte
	CA   []byte
}

// Server is the derived server/TLS bundle.
type Server struct {
	Name        string
	Version     string
	ContentType string
	ListenPort  int

	TLS     *TLSMaterial // nil when HTTPS is disabled
	CRLPath string       // absolute; empty = revocation checking skipped

	crl atomic.Pointer[[]byte]
}

func newServer(st *config.Store, root string) (*Server, error) {
	s := &Server{
		Name:        st.String("service.name"),
		Version:     st.String("service.version"),
		ContentType: ContentType,
		ListenPort:  st.Int("listen.port"),
	}
	if !st.Bool("https.enable") {
		return s, nil
	}

	base := filepath.Join(root, tlsDir)
	read := func(name string) ([]byte, error) {
		path := filepath.Join(base, name)
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, &config.MaterialReadError{Path: path, Err: err}
		}
		return b, nil
	}

	key, err := read(st.String("https.key"))
	if err != nil {
		return nil, err
	}
	cert, err := read(st.String("https.cert"))
	if err != nil {
		return nil, err
	}
	ca, err := read(st.String("https.ca"))
	if err != nil {
		return nil, err
	}
	s.TLS = &TLSMaterial{Key: key, Cert: cert, CA: ca}

	if name := st.String("https.crl"); name != "" {
		s.CRLPath = filepath.Join(base, name)
		buf, err := os.ReadFile(s.CRLPath)
		if err != nil {
			return nil, &config.MaterialReadError{Path: s.CRLPath, Err: err}
		}
		s.ReplaceCRL(buf)
	}
	return s, nil
}

/*──────────────────────────── revocation buffer ────────────────────────────*/

// CRL returns the current revocation-list buffer, nil when none is
// configured.  Callers must re-fetch after a change notification rather
// than caching the slice.
func (s *Server) CRL() []byte {
	if p := s.crl.Load(); p != nil {
		return *p
	}
	return nil
}

// ReplaceCRL swaps in a new revocation buffer.  The watcher is the only
// post-startup caller.
func (s *Server) ReplaceCRL(buf []byte) { s.crl.Store(&buf) }

/*────────────────────────────── TLS assembly ───────────────────────────────*/

// TLSConfig assembles the mutual-TLS listener configuration, or returns
// (nil, nil) when HTTPS is disabled.  Client certificates are requested
// and verified at the transport layer; an unverifiable or revoked client
// certificate fails the handshake, it is never deferred to the
// application.
func (s *Server) TLSConfig() (*tls.Config, error) {
	if s.TLS == nil {
		return nil, nil
	}
	pair, err := tls.X509KeyPair(s.TLS.Cert, s.TLS.Key)
	if err != nil {
		return nil, fmt.Errorf("server options: key pair: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(s.TLS.CA) {
		return nil, errors.New("server options: trust anchor contains no certificates")
	}
	return &tls.Config{
		MinVersion:            tls.VersionTLS12,
		Certificates:          []tls.Certificate{pair},
		ClientCAs:             pool,
		ClientAuth:            tls.RequireAndVerifyClientCert,
		VerifyPeerCertificate: s.verifyNotRevoked,
	}, nil
}

// verifyNotRevoked rejects a verified client chain whose leaf serial
// appears in the current revocation list.  It re-reads the buffer on
// every handshake so watcher swaps take effect immediately.
func (s *Server) verifyNotRevoked(_ [][]byte, chains [][]*x509.Certificate) error {
	buf := s.CRL()
	if len(buf) == 0 || len(chains) == 0 || len(chains[0]) == 0 {
		return nil
	}
	list, err := parseCRL(buf)
	if err != nil {
		return fmt.Errorf("revocation list: %w", err)
	}
	leaf := chains[0][0]
	for _, entry := range list.RevokedCertificateEntries {
		if entry.SerialNumber.Cmp(leaf.SerialNumber) == 0 {
			return fmt.Errorf("client certificate serial %s is revoked", leaf.SerialNumber)
		}
	}
	return nil
}

// parseCRL accepts a PEM-wrapped or raw-DER revocation list.
func parseCRL(buf []byte) (*x509.RevocationList, error) {
	der := buf
	if block, _ := pem.Decode(buf); block != nil && block.Type == "X509 CRL" {
		der = block.Bytes
	}
	return x509.ParseRevocationList(der)
}
