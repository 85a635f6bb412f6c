// internal/gateway/settings.go
//
// Settings: startup orchestration, read accessor, and change notifier.
//
/*
Context
--------
`Initialize()` runs the whole startup pipeline synchronously: declare
the schema, resolve the layered sources, validate, build the derived
bundles, and arm the revocation-list watch when one is configured.  Any
failure aborts before the service can accept work.  There are no
module-load-time side effects, so tests construct as many independent
Settings as they like.

`Get()` is the single read entry point for the rest of the process.  It
checks the closed, compile-time set of bundle names first, then falls
back to dotted-path schema lookup — a schema entry can never shadow a
bundle.

`Subscribe()` registers a callback for change events; today the only
event is the revocation-list swap, delivered on the watcher's goroutine.

Notes
-----
  • Oxford commas, two spaces after periods.
*/
package gateway

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/AdeptTravel/adept-gateway/internal/config"
	"github.com/AdeptTravel/adept-gateway/internal/metrics"
	"github.com/AdeptTravel/adept-gateway/internal/options"
	"github.com/AdeptTravel/adept-gateway/internal/vault"
	"github.com/AdeptTravel/adept-gateway/internal/watch"
)

/*──────────────────────────────── names ────────────────────────────────────*/

// Derived-bundle names: the closed set Get() checks before the schema.
const (
	BundleLogging  = "logging"
	BundleBody     = "body"
	BundleThrottle = "throttle"
	BundleServer   = "server"
	BundleSession  = "session"
)

// SettingRevocationList is the change-event identifier fired when the
// revocation-list buffer is swapped.
const SettingRevocationList = "https.crl"

/*──────────────────────────────── settings ─────────────────────────────────*/

// Options parameterizes Initialize.
type Options struct {
	// Root anchors conf/ and logs/; empty means the working directory.
	Root string

	// ConfigFile overrides the --config flag when non-empty.
	ConfigFile string

	// Flags is the parsed CLI flag set built by Flags(); nil skips the
	// CLI layer entirely (tests).
	Flags *pflag.FlagSet
}

// Settings is the process-wide configuration value: validated store,
// derived bundles, and the change-notification list.
type Settings struct {
	root    string
	store   *config.Store
	bundles *options.Bundles
	watcher *watch.Watcher

	mu   sync.Mutex
	subs []func(setting string)
}

// Flags builds the CLI flag set from the schema.  main parses it, then
// hands it to Initialize.
func Flags() (*pflag.FlagSet, error) {
	reg, err := config.NewRegistry(Schema()...)
	if err != nil {
		return nil, err
	}
	fs := pflag.NewFlagSet("adept-gateway", pflag.ContinueOnError)
	reg.RegisterFlags(fs)
	return fs, nil
}

// Initialize runs schema declaration, resolution, validation, and bundle
// construction, then arms the revocation watch when one is configured.
func Initialize(ctx context.Context, opts Options) (*Settings, error) {
	root := opts.Root
	if root == "" {
		root, _ = os.Getwd()
	}

	// .env (optional, no error if missing)
	_ = godotenv.Load(filepath.Join(root, "conf", ".env"))

	reg, err := config.NewRegistry(Schema()...)
	if err != nil {
		return nil, err
	}

	// Secret indirection is available only when Vault is reachable.
	var expand config.Expander
	if os.Getenv("VAULT_ADDR") != "" {
		cli, err := vault.New(ctx, zap.S())
		if err != nil {
			return nil, err
		}
		expand = cli.Expand
	}

	filePath := opts.ConfigFile
	if filePath == "" && opts.Flags != nil {
		filePath, _ = opts.Flags.GetString("config")
	}

	k, err := config.Resolve(reg, filePath, opts.Flags, expand)
	if err != nil {
		return nil, err
	}
	store, err := config.Validate(reg, k)
	if err != nil {
		return nil, err
	}
	bundles, err := options.Build(store, root)
	if err != nil {
		return nil, err
	}
	metrics.ConfigLoadTotal.Inc()

	s := &Settings{root: root, store: store, bundles: bundles}

	if bundles.Server.CRLPath != "" {
		w, err := watch.New(bundles.Server, func() {
			s.broadcast(SettingRevocationList)
		}, zap.S())
		if err != nil {
			return nil, err
		}
		s.watcher = w
	}

	zap.S().Infow("config loaded",
		"service", bundles.Server.Name,
		"version", bundles.Server.Version,
		"listen_port", bundles.Server.ListenPort,
		"https", bundles.Server.TLS != nil,
		"crl_watch", s.watcher != nil,
	)
	return s, nil
}

/*──────────────────────────────── accessor ─────────────────────────────────*/

// Get returns the derived bundle registered under name, or the validated
// store value at that dotted path.  Unknown names wrap ErrUnknownKey.
func (s *Settings) Get(name string) (any, error) {
	switch name {
	case BundleLogging:
		return s.bundles.Logging, nil
	case BundleBody:
		return s.bundles.Body, nil
	case BundleThrottle:
		return s.bundles.Throttle, nil
	case BundleServer:
		return s.bundles.Server, nil
	case BundleSession:
		return s.bundles.Session, nil
	}
	if val, ok := s.store.Get(name); ok {
		return val, nil
	}
	return nil, fmt.Errorf("%w: %s", config.ErrUnknownKey, name)
}

// Typed bundle accessors for in-process consumers.

func (s *Settings) Logging() *options.Logging   { return s.bundles.Logging }
func (s *Settings) Body() *options.Body         { return s.bundles.Body }
func (s *Settings) Throttle() *options.Throttle { return s.bundles.Throttle }
func (s *Settings) Server() *options.Server     { return s.bundles.Server }
func (s *Settings) Session() *options.Session   { return s.bundles.Session }

// Root returns the directory anchoring conf/ and logs/.
func (s *Settings) Root() string { return s.root }

/*──────────────────────────────── notifier ─────────────────────────────────*/

// Subscribe registers fn for change events.  fn runs on the watcher's
// goroutine; keep it short and re-fetch bundles rather than caching.
func (s *Settings) Subscribe(fn func(setting string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *Settings) broadcast(setting string) {
	s.mu.Lock()
	subs := make([]func(string), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(setting)
		metrics.ChangeNotifyTotal.Inc()
	}
}

/*──────────────────────────────── watching ─────────────────────────────────*/

// Watch drives the revocation-list watch loop until ctx ends.  It
// returns immediately when no revocation list is configured.
func (s *Settings) Watch(ctx context.Context) error {
	if s.watcher == nil {
		return nil
	}
	return s.watcher.Run(ctx)
}
