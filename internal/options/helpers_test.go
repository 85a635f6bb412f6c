// internal/options/helpers_test.go
//
// Shared fixtures: a minimal validated store and self-signed TLS
// material written under <root>/conf/tls.

package options

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/knadh/koanf/providers/confmap"
	koanf "github.com/knadh/koanf/v2"

	"github.com/AdeptTravel/adept-gateway/internal/config"
)

// testStore validates the given entries at their defaults.
func testStore(t *testing.T, entries ...config.Entry) *config.Store {
	t.Helper()
	reg, err := config.NewRegistry(entries...)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(reg.Defaults(), "."), nil); err != nil {
		t.Fatalf("confmap load: %v", err)
	}
	st, err := config.Validate(reg, k)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	return st
}

// serverEntries builds the entry set newServer reads, with overridable
// HTTPS settings.
func serverEntries(enable bool, crl string) []config.Entry {
	return []config.Entry{
		{Key: "service.name", Format: config.FormatString, Default: "adept-gateway"},
		{Key: "service.version", Format: config.FormatString, Default: "0.1.0"},
		{Key: "listen.port", Format: config.FormatPort, Default: 8443},
		{Key: "https.enable", Format: config.FormatBool, Default: enable},
		{Key: "https.ca", Format: config.FormatString, Default: "ca.pem"},
		{Key: "https.cert", Format: config.FormatString, Default: "server.crt"},
		{Key: "https.key", Format: config.FormatString, Default: "server.key"},
		{Key: "https.crl", Format: config.FormatString, Default: crl},
	}
}

// writeTLSMaterial generates a self-signed certificate and writes
// server.key, server.crt, and ca.pem under <root>/conf/tls.  It returns
// the parsed certificate for assertions.
func writeTLSMaterial(t *testing.T, root string) *x509.Certificate {
	t.Helper()

	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	tmpl := x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "gateway-test"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageDigitalSignature,
		BasicConstraintsValid: true,
		IsCA:                  true,
	}
	der, err := x509.CreateCertificate(rand.Reader, &tmpl, &tmpl, &priv.PublicKey, priv)
	if err != nil {
		t.Fatalf("create certificate: %v", err)
	}
	keyDER, err := x509.MarshalECPrivateKey(priv)
	if err != nil {
		t.Fatalf("marshal key: %v", err)
	}

	dir := filepath.Join(root, "conf", "tls")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir tls: %v", err)
	}
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER})

	for name, data := range map[string][]byte{
		"server.key": keyPEM,
		"server.crt": certPEM,
		"ca.pem":     certPEM,
	} {
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	cert, err := x509.ParseCertificate(der)
	if err != nil {
		t.Fatalf("parse certificate: %v", err)
	}
	return cert
}
