// internal/config/validator_test.go
//
// Unit-tests for format validation: port range, IP shape, booleans,
// integers, and the nested-subtree store lookup.
//
// Run: go test ./internal/config -v

package config

import (
	"errors"
	"testing"

	"github.com/knadh/koanf/providers/confmap"
	koanf "github.com/knadh/koanf/v2"
)

func tree(t *testing.T, values map[string]any) *koanf.Koanf {
	t.Helper()
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(values, "."), nil); err != nil {
		t.Fatalf("confmap load: %v", err)
	}
	return k
}

func TestValidatePortRange(t *testing.T) {
	reg, err := NewRegistry(Entry{Key: "listen.port", Format: FormatPort, Default: 1})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	for _, tc := range []struct {
		port any
		ok   bool
	}{
		{1, true},
		{65535, true},
		{0, false},
		{70000, false},
		{"8443", true}, // env/CLI layers deliver strings
		{"eight", false},
	} {
		st, err := Validate(reg, tree(t, map[string]any{"listen.port": tc.port}))
		if tc.ok {
			if err != nil {
				t.Fatalf("port %v: unexpected error %v", tc.port, err)
			}
			if st.Int("listen.port") < 1 {
				t.Fatalf("port %v: bad coerced value", tc.port)
			}
			continue
		}
		var verr *SchemaValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("port %v: want SchemaValidationError, got %v", tc.port, err)
		}
		if verr.Key != "listen.port" {
			t.Fatalf("port %v: error names key %q", tc.port, verr.Key)
		}
	}
}

func TestValidateIPShape(t *testing.T) {
	reg, err := NewRegistry(Entry{Key: "api.host", Format: FormatIP, Default: "127.0.0.1"})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	if _, err := Validate(reg, tree(t, map[string]any{"api.host": "10.1.2.3"})); err != nil {
		t.Fatalf("valid IPv4 rejected: %v", err)
	}
	if _, err := Validate(reg, tree(t, map[string]any{"api.host": "::1"})); err != nil {
		t.Fatalf("valid IPv6 rejected: %v", err)
	}

	_, err = Validate(reg, tree(t, map[string]any{"api.host": "999.1.1.1"}))
	var verr *SchemaValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want SchemaValidationError for bad IP, got %v", err)
	}
}

func TestValidateBoolCoercion(t *testing.T) {
	reg, err := NewRegistry(Entry{Key: "https.enable", Format: FormatBool, Default: false})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	st, err := Validate(reg, tree(t, map[string]any{"https.enable": "true"}))
	if err != nil {
		t.Fatalf("string bool rejected: %v", err)
	}
	if !st.Bool("https.enable") {
		t.Fatal("coerced bool lost its value")
	}

	if _, err := Validate(reg, tree(t, map[string]any{"https.enable": "yep"})); err == nil {
		t.Fatal("expected error for unparsable boolean")
	}
}

func TestValidateStopsAtFirstViolation(t *testing.T) {
	reg, err := NewRegistry(
		Entry{Key: "a.port", Format: FormatPort, Default: 1},
		Entry{Key: "b.port", Format: FormatPort, Default: 1},
	)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	_, err = Validate(reg, tree(t, map[string]any{"a.port": 0, "b.port": 99999}))
	var verr *SchemaValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want SchemaValidationError, got %v", err)
	}
	if verr.Key != "a.port" {
		t.Fatalf("first violation should win, got %q", verr.Key)
	}
}

func TestStoreNestedSubtreeLookup(t *testing.T) {
	reg, err := NewRegistry(
		Entry{Key: "https.enable", Format: FormatBool, Default: false},
		Entry{Key: "https.cert", Format: FormatString, Default: "server.crt"},
	)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	st, err := Validate(reg, tree(t, map[string]any{"https.enable": true, "https.cert": "server.crt"}))
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}

	val, ok := st.Get("https.enable")
	if !ok || val != true {
		t.Fatalf("exact key lookup failed: %v %v", val, ok)
	}

	sub, ok := st.Get("https")
	if !ok {
		t.Fatal("nested subtree lookup failed")
	}
	m, isMap := sub.(map[string]any)
	if !isMap || m["cert"] != "server.crt" {
		t.Fatalf("unexpected subtree: %#v", sub)
	}

	if _, ok := st.Get("nope.nothing"); ok {
		t.Fatal("unknown path must report not-found")
	}
}
