// internal/config/validator.go
//
// Per-entry format validation over the merged tree.
//
/*
Context
--------
`Validate()` walks the schema in declaration order and checks each
resolved value against its declared format.  The first failing entry
stops the walk; the error names the offending key path and the expected
format, and the caller must treat it as fatal.  Values are accepted or
rejected, never rewritten — the only normalization is type coercion
(env and CLI layers deliver strings, YAML delivers typed scalars).

IP and range rules ride on go-playground/validator `Var` checks so the
rule set stays in one library; plain type coercion is strconv.

Notes
-----
  • Oxford commas, two spaces after periods.
*/
package config

import (
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	koanf "github.com/knadh/koanf/v2"
)

//
// validator instance (package-level singleton)
//

var v = validator.New()

//
// public API
//

// Validate type-checks every schema entry in the merged tree and returns
// the read-only store, or the first SchemaValidationError found.
func Validate(reg *Registry, k *koanf.Koanf) (*Store, error) {
	values := make(map[string]any, len(reg.Entries()))
	for _, e := range reg.Entries() {
		val, err := checkFormat(e, k.Get(e.Key))
		if err != nil {
			return nil, &SchemaValidationError{Key: e.Key, Format: e.Format.String(), Err: err}
		}
		values[e.Key] = val
	}
	return &Store{k: k, values: values}, nil
}

//
// format checks
//

func checkFormat(e Entry, raw any) (any, error) {
	switch e.Format {
	case FormatString:
		return toString(raw)

	case FormatBool:
		switch b := raw.(type) {
		case bool:
			return b, nil
		case string:
			parsed, err := strconv.ParseBool(b)
			if err != nil {
				return nil, fmt.Errorf("cannot parse %q as boolean", b)
			}
			return parsed, nil
		default:
			return nil, fmt.Errorf("got %T", raw)
		}

	case FormatInt:
		return toInt(raw)

	case FormatPort:
		n, err := toInt(raw)
		if err != nil {
			return nil, err
		}
		if err := v.Var(n, "gte=1,lte=65535"); err != nil {
			return nil, fmt.Errorf("%d is out of range", n)
		}
		return n, nil

	case FormatIP:
		s, err := toString(raw)
		if err != nil {
			return nil, err
		}
		if err := v.Var(s, "ip"); err != nil {
			return nil, fmt.Errorf("%q is not an IP address", s)
		}
		return s, nil

	case FormatCustom:
		if err := e.Check(raw); err != nil {
			return nil, err
		}
		return raw, nil
	}
	return nil, fmt.Errorf("unknown format %d", e.Format)
}

func toString(raw any) (string, error) {
	if raw == nil {
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("got %T", raw)
	}
	return s, nil
}

func toInt(raw any) (int, error) {
	switch n := raw.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != float64(int(n)) {
			return 0, fmt.Errorf("%v is not an integer", n)
		}
		return int(n), nil
	case string:
		parsed, err := strconv.Atoi(n)
		if err != nil {
			return 0, fmt.Errorf("cannot parse %q as integer", n)
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("got %T", raw)
	}
}
