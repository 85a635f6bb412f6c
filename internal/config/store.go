// internal/config/store.go
//
// Validated settings store.
//
// Built once by Validate() and read-only thereafter.  Exact dotted keys
// hit the type-checked value table; anything else (a subtree read such
// as "https") falls through to the merged koanf tree.

package config

import koanf "github.com/knadh/koanf/v2"

// Store is the validated, strongly-typed settings store.
type Store struct {
	k      *koanf.Koanf
	values map[string]any
}

// Get returns the value at a dotted path.  The second result is false
// when the path names neither a schema entry nor a nested subtree.
func (s *Store) Get(path string) (any, bool) {
	if val, ok := s.values[path]; ok {
		return val, true
	}
	if s.k.Exists(path) {
		return s.k.Get(path), true
	}
	return nil, false
}

// String returns a validated string entry.  Missing or differently-typed
// entries yield the zero value; schema-declared keys cannot miss.
func (s *Store) String(path string) string {
	val, _ := s.values[path].(string)
	return val
}

// Int returns a validated integer entry.
func (s *Store) Int(path string) int {
	val, _ := s.values[path].(int)
	return val
}

// Bool returns a validated boolean entry.
func (s *Store) Bool(path string) bool {
	val, _ := s.values[path].(bool)
	return val
}
