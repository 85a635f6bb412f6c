// internal/config/loader.go
//
// Layered source resolver.
//
/*
Context
--------
`Resolve()` merges four layers into one koanf tree, highest precedence
last:

  1. Schema defaults (confmap provider).
  2. Optional YAML config file — only when a path was supplied; a
     supplied-but-broken file is a SourceParseError, never a partial
     merge.
  3. `ADEPT_GW_`-prefixed environment variables, admitted only when the
     schema binds that exact name (undeclared variables are dropped).
  4. CLI flags that the operator actually set (`pflag.Flag.Changed`);
     flag defaults never shadow lower layers.

After the merge, any string value of the form `vault:mount/path#key` is
resolved through the supplied Expander before validation, so secrets
live in Vault rather than flat files or git history.

Instrumentation
---------------
  • DEBUG spans — file read, env overlay.
  • ERROR spans — file parse, env overlay, secret expansion failures.
  • Logs use the global sugared logger (`zap.S()`) so early boot issues
    surface even before the file logger is installed.

Notes
-----
  • Oxford commas, two spaces after periods.
*/
package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	koanf "github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// EnvPrefix is the documented prefix for the environment-variable layer.
const EnvPrefix = "ADEPT_GW_"

// vaultScheme marks a config value stored in Vault instead of inline.
const vaultScheme = "vault:"

// Expander resolves a `vault:` reference (with the scheme stripped) to
// its plain string value.
type Expander func(ref string) (string, error)

// Resolve merges defaults, the optional config file, declared environment
// variables, and explicitly-set CLI flags, then expands secret
// references.  The returned tree is raw; Validate() type-checks it.
func Resolve(reg *Registry, filePath string, flags *pflag.FlagSet, expand Expander) (*koanf.Koanf, error) {
	k := koanf.New(".")

	// Layer 1: defaults.  A confmap load of a plain map cannot fail.
	_ = k.Load(confmap.Provider(reg.Defaults(), "."), nil)

	// Layer 2: optional YAML file.
	if filePath != "" {
		if err := k.Load(file.Provider(filePath), yaml.Parser()); err != nil {
			zap.S().Errorw("config file load failed", "file", filePath, "err", err)
			return nil, &SourceParseError{Path: filePath, Err: err}
		}
		zap.S().Debugw("config file loaded", "file", filePath)
	}

	// Layer 3: env overlay.  Only names the schema declares map to keys;
	// everything else under the prefix is ignored.
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key, ok := reg.EnvKey(s)
		if !ok {
			return ""
		}
		return key
	}), nil); err != nil {
		zap.S().Errorw("config env overlay failed", "err", err)
		return nil, err
	}

	// Layer 4: CLI flags, highest precedence.  Unset flags contribute
	// nothing so they cannot mask env or file values.
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			key, ok := reg.FlagKey(f.Name)
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			zap.S().Errorw("config flag overlay failed", "err", err)
			return nil, err
		}
	}

	if err := expandSecrets(reg, k, expand); err != nil {
		return nil, err
	}
	return k, nil
}

/*──────────────────────────── secret expansion ─────────────────────────────*/

// expandSecrets replaces `vault:` string values in place.  A reference
// with no Expander configured is a hard error: silently keeping the
// literal would hand the reference string to whatever consumes the key.
func expandSecrets(reg *Registry, k *koanf.Koanf, expand Expander) error {
	for _, e := range reg.Entries() {
		s, ok := k.Get(e.Key).(string)
		if !ok || !strings.HasPrefix(s, vaultScheme) {
			continue
		}
		if expand == nil {
			zap.S().Errorw("secret reference with no resolver", "key", e.Key)
			return fmt.Errorf("config: %s references a Vault secret but VAULT_ADDR is not configured", e.Key)
		}
		val, err := expand(strings.TrimPrefix(s, vaultScheme))
		if err != nil {
			zap.S().Errorw("secret expansion failed", "key", e.Key, "err", err)
			return fmt.Errorf("config: expand secret for %s: %w", e.Key, err)
		}
		if err := k.Set(e.Key, val); err != nil {
			return fmt.Errorf("config: store expanded secret for %s: %w", e.Key, err)
		}
	}
	return nil
}
