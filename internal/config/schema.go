// internal/config/schema.go
//
// Declarative schema registry for the gateway configuration.
//
/*
Context
--------
Every recognized setting is declared once, up front, as an `Entry`: a
dotted key path, documentation, an expected format, a default value, and
optional bindings to an environment variable and a CLI flag.  The
`Registry` indexes the full entry set and rejects duplicate key paths,
env names, and flag names at definition time — a duplicate is a
programming error, so it surfaces before any source is read.

The registry feeds three consumers:

  1. `Resolve()` uses the default table and the env/flag lookup tables.
  2. `Validate()` walks entries in declaration order so the first
     violation reported is deterministic.
  3. `RegisterFlags()` materializes one pflag per entry that declares a
     flag name, typed to match the entry's format.

Notes
-----
  • Entries are immutable after `NewRegistry` returns.
  • Oxford commas, two spaces after periods.
*/
package config

import (
	"fmt"

	"github.com/spf13/pflag"
)

/*──────────────────────────────── formats ──────────────────────────────────*/

// Format describes the expected shape of a resolved value.
type Format int

const (
	FormatString Format = iota
	FormatBool
	FormatInt
	FormatPort // integer in 1–65535
	FormatIP   // IPv4 or IPv6 address literal
	FormatCustom
)

// String returns the format name used in validation errors.
func (f Format) String() string {
	switch f {
	case FormatString:
		return "string"
	case FormatBool:
		return "boolean"
	case FormatInt:
		return "integer"
	case FormatPort:
		return "port (1-65535)"
	case FormatIP:
		return "IP address"
	case FormatCustom:
		return "custom"
	}
	return "unknown"
}

/*──────────────────────────────── entries ──────────────────────────────────*/

// Entry declares one recognized setting.
type Entry struct {
	Key     string // dotted path, e.g. "https.enable"
	Doc     string // one-line documentation, shown as flag usage
	Format  Format
	Default any
	Env     string // optional full environment-variable name
	Flag    string // optional CLI flag name

	// Check is the validation hook for FormatCustom entries.  It receives
	// the resolved raw value and returns nil when the value is acceptable.
	Check func(any) error
}

/*──────────────────────────────── registry ─────────────────────────────────*/

// Registry holds the declared entry set plus lookup indexes.
type Registry struct {
	entries []Entry
	byKey   map[string]int
	byEnv   map[string]int
	byFlag  map[string]int
}

// NewRegistry declares the full entry set in one call.  Duplicate key
// paths, env names, or flag names are rejected immediately.
func NewRegistry(entries ...Entry) (*Registry, error) {
	r := &Registry{
		entries: entries,
		byKey:   make(map[string]int, len(entries)),
		byEnv:   make(map[string]int),
		byFlag:  make(map[string]int),
	}
	for i, e := range entries {
		if e.Key == "" {
			return nil, fmt.Errorf("config: entry %d has an empty key path", i)
		}
		if _, dup := r.byKey[e.Key]; dup {
			return nil, fmt.Errorf("config: duplicate schema key %q", e.Key)
		}
		r.byKey[e.Key] = i

		if e.Env != "" {
			if _, dup := r.byEnv[e.Env]; dup {
				return nil, fmt.Errorf("config: duplicate env binding %q", e.Env)
			}
			r.byEnv[e.Env] = i
		}
		if e.Flag != "" {
			if _, dup := r.byFlag[e.Flag]; dup {
				return nil, fmt.Errorf("config: duplicate flag binding %q", e.Flag)
			}
			r.byFlag[e.Flag] = i
		}
		if e.Format == FormatCustom && e.Check == nil {
			return nil, fmt.Errorf("config: entry %q declares a custom format without a Check func", e.Key)
		}
	}
	return r, nil
}

// Entries returns the entry set in declaration order.
func (r *Registry) Entries() []Entry { return r.entries }

// Defaults returns a dotted-key → default-value map for the lowest
// precedence layer.
func (r *Registry) Defaults() map[string]any {
	m := make(map[string]any, len(r.entries))
	for _, e := range r.entries {
		m[e.Key] = e.Default
	}
	return m
}

// EnvKey maps a full environment-variable name to its dotted key path.
func (r *Registry) EnvKey(name string) (string, bool) {
	i, ok := r.byEnv[name]
	if !ok {
		return "", false
	}
	return r.entries[i].Key, true
}

// FlagKey maps a CLI flag name to its dotted key path.
func (r *Registry) FlagKey(name string) (string, bool) {
	i, ok := r.byFlag[name]
	if !ok {
		return "", false
	}
	return r.entries[i].Key, true
}

// RegisterFlags adds one typed flag per entry that declares a flag name.
func (r *Registry) RegisterFlags(fs *pflag.FlagSet) {
	for _, e := range r.entries {
		if e.Flag == "" {
			continue
		}
		switch e.Format {
		case FormatBool:
			def, _ := e.Default.(bool)
			fs.Bool(e.Flag, def, e.Doc)
		case FormatInt, FormatPort:
			def, _ := e.Default.(int)
			fs.Int(e.Flag, def, e.Doc)
		default:
			def, _ := e.Default.(string)
			fs.String(e.Flag, def, e.Doc)
		}
	}
}
