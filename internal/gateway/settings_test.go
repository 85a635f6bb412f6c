// internal/gateway/settings_test.go
//
// Unit-tests for Settings: accessor lookup order, initialization from
// layered sources, and the end-to-end revocation reload notification.
//
// Run: go test ./internal/gateway -v

package gateway

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/AdeptTravel/adept-gateway/internal/config"
	"github.com/AdeptTravel/adept-gateway/internal/options"
)

func writeTLSMaterial(t *testing.T, root string) {
	t.Helper()

	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	tmpl := x509.Certificate{
		SerialNumber:          big.NewInt(7),
		Subject:               pkix.Name{CommonName: "settings-test"},
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
}

func TestInitializeDefaults(t *testing.T) {
	set, err := Initialize(context.Background(), Options{Root: t.TempDir()})
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	val, err := set.Get("https.enable")
	if err != nil {
		t.Fatalf("Get(https.enable): %v", err)
	}
	if enabled, ok := val.(bool); !ok || enabled {
		t.Fatalf("https.enable default: %v", val)
	}

	if _, err := set.Get("no.such.key"); !errors.Is(err, config.ErrUnknownKey) {
		t.Fatalf("want ErrUnknownKey, got %v", err)
	}
}

func TestGetPrefersBundlesOverSchema(t *testing.T) {
	set, err := Initialize(context.Background(), Options{Root: t.TempDir()})
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	for name, check := range map[string]func(any) bool{
		BundleServer:   func(v any) bool { _, ok := v.(*options.Server); return ok },
		BundleSession:  func(v any) bool { _, ok := v.(*options.Session); return ok },
		BundleLogging:  func(v any) bool { _, ok := v.(*options.Logging); return ok },
		BundleThrottle: func(v any) bool { _, ok := v.(*options.Throttle); return ok },
		BundleBody:     func(v any) bool { _, ok := v.(*options.Body); return ok },
	} {
		v, err := set.Get(name)
		if err != nil {
			t.Fatalf("Get(%s): %v", name, err)
		}
		if !check(v) {
			t.Fatalf("Get(%s) returned %T, not the bundle", name, v)
		}
	}
}

func TestInitializeRejectsBadAuthMode(t *testing.T) {
	root := t.TempDir()
	cfg := filepath.Join(root, "gateway.yaml")
	if err := os.WriteFile(cfg, []byte("auth:\n  mode: user\n  app_name: risk-engine\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, err := Initialize(context.Background(), Options{Root: root, ConfigFile: cfg})
	var aerr *config.AuthConfigError
	if !errors.As(err, &aerr) {
		t.Fatalf("want AuthConfigError, got %v", err)
	}
}

func TestRevocationReloadNotifiesSubscribers(t *testing.T) {
	root := t.TempDir()
	writeTLSMaterial(t, root)

	crlPath := filepath.Join(root, "conf", "tls", "list.crl")
	if err := os.WriteFile(crlPath, []byte("initial"), 0o644); err != nil {
		t.Fatalf("write crl: %v", err)
	}

	cfgPath := filepath.Join(root, "gateway.yaml")
	cfgYAML := "https:\n  enable: true\n  crl: list.crl\n"
	if err := os.WriteFile(cfgPath, []byte(cfgYAML), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	set, err := Initialize(context.Background(), Options{Root: root, ConfigFile: cfgPath})
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	events := make(chan string, 4)
	set.Subscribe(func(setting string) { events <- setting })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = set.Watch(ctx) }()

	next := []byte("replacement revocation list")
	if err := os.WriteFile(crlPath, next, 0o644); err != nil {
		t.Fatalf("rewrite crl: %v", err)
	}

	select {
	case setting := <-events:
		if setting != SettingRevocationList {
			t.Fatalf("event names %q, want %q", setting, SettingRevocationList)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification within deadline")
	}

	if !bytes.Equal(set.Server().CRL(), next) {
		t.Fatalf("buffer not swapped: %q", set.Server().CRL())
	}
}
