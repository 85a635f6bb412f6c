// internal/watch/watcher.go
//
// Revocation-list watcher.
//
/*
Context
--------
One filesystem path — the revocation-list file — is observed for the
whole process lifetime.  Each change re-reads the file and swaps the
server bundle's buffer wholesale (Armed → Reloading → Armed); partial or
streamed updates do not exist.  After a successful swap the notify hook
fires exactly once so subscribers (e.g., a listener holding a TLS
context) can re-fetch the buffer.

fsnotify watches the parent directory, not the file itself, so atomic
replace-by-rename (the common way external tooling rewrites a CRL) keeps
working.  Events are debounced because editors and rename dances emit
several events per logical change.

A read failure during reload keeps the previous buffer: the old list is
still internally consistent, and a non-atomic rewrite produces a
follow-up event that triggers another reload anyway.

Notes
-----
  • There is no Stop API; the run loop exits only with the process
    context.
  • Oxford commas, two spaces after periods.
*/
package watch

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/AdeptTravel/adept-gateway/internal/config"
	"github.com/AdeptTravel/adept-gateway/internal/metrics"
	"github.com/AdeptTravel/adept-gateway/internal/options"
)

const debounceDelay = 100 * time.Millisecond

// Watcher re-reads the revocation-list file on every filesystem change
// and swaps the server bundle's buffer.
type Watcher struct {
	path   string
	target *options.Server
	notify func() // fired once per successful reload
	fs     *fsnotify.Watcher
	log    *zap.SugaredLogger
}

// New arms a watch on the server bundle's revocation-list path.  The
// bundle must have a configured CRLPath.
func New(target *options.Server, notify func(), log *zap.SugaredLogger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory so rename-style rewrites are seen.
	if err := fsw.Add(filepath.Dir(target.CRLPath)); err != nil {
		fsw.Close()
		return nil, err
	}
	log.Infow("revocation list watch armed", "path", target.CRLPath)
	return &Watcher{
		path:   filepath.Clean(target.CRLPath),
		target: target,
		notify: notify,
		fs:     fsw,
		log:    log,
	}, nil
}

// Run drives the watch loop until the process context ends.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fs.Close()

	var debounce *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.log.Debugw("revocation list changed on disk", "op", event.Op.String())
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.NewTimer(debounceDelay)
			fire = debounce.C

		case <-fire:
			fire = nil
			w.reload()

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.log.Errorw("revocation list watch error", "err", err)
		}
	}
}

// reload replaces the buffer wholesale and notifies subscribers.
func (w *Watcher) reload() {
	buf, err := os.ReadFile(w.path)
	if err != nil {
		metrics.CRLReloadErrorsTotal.Inc()
		rerr := &config.ReloadReadError{Path: w.path, Err: err}
		w.log.Errorw("revocation list reload failed, keeping previous buffer", "err", rerr)
		return
	}
	w.target.ReplaceCRL(buf)
	metrics.CRLReloadTotal.Inc()
	w.log.Infow("revocation list reloaded", "bytes", len(buf))
	if w.notify != nil {
		w.notify()
	}
}
