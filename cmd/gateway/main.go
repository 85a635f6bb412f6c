// cmd/gateway/main.go
//
// Adept Gateway – configuration-driven HTTPS entry point.
//
// Startup life-cycle
// ------------------
//
//  1. Load env vars (jail-wide file → .env fallback).
//
//  2. Build the CLI flag set from the schema and parse arguments.
//
//  3. Initialize settings: layered resolution → validation → derived
//     bundles → revocation watch (fatal on any failure).
//
//  4. Swap the bootstrap console logger for the bundle-driven one.
//
//  5. Expose /metrics and /healthz, wrap the root handler with the
//     security, throttle, and body-cap middleware.
//
//  6. Serve HTTP or mutual-TLS HTTPS per the server bundle; run the
//     revocation watch and graceful shutdown under one errgroup.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/AdeptTravel/adept-gateway/internal/gateway"
	"github.com/AdeptTravel/adept-gateway/internal/logger"
	"github.com/AdeptTravel/adept-gateway/internal/middleware"
	"github.com/AdeptTravel/adept-gateway/internal/server"
)

const serverEnvPath = "/usr/local/etc/adept-gateway/global.env"

// loadEnv prefers the jail-wide env file; on dev it falls back to .env.
func loadEnv() {
	if _, err := os.Stat(serverEnvPath); err == nil {
		_ = godotenv.Load(serverEnvPath)
		return
	}
	_ = godotenv.Load()
}

func main() {
	loadEnv()

	// Bootstrap console logger so resolution issues surface before the
	// file logger exists.
	boot, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("bootstrap logger: %v", err)
	}
	zap.ReplaceGlobals(boot)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//
	// ── 1.  Flags and settings ─────────────────────────────────────────
	//
	fs, err := gateway.Flags()
	if err != nil {
		zap.S().Fatalf("declare schema: %v", err)
	}
	if err := fs.Parse(os.Args[1:]); err != nil {
		zap.S().Fatalf("parse flags: %v", err)
	}

	root := os.Getenv("ADEPT_GW_ROOT")
	set, err := gateway.Initialize(ctx, gateway.Options{Root: root, Flags: fs})
	if err != nil {
		zap.S().Fatalf("initialize config: %v", err)
	}

	logOut, err := logger.New(set.Logging(), set.Root())
	if err != nil {
		zap.S().Fatalf("start logger: %v", err)
	}

	sess := set.Session()
	logOut.Infow("upstream session options ready",
		"host", sess.Host,
		"port", sess.Port,
		"authorize_on_startup", sess.AuthorizeOnStartup,
	)

	set.Subscribe(func(setting string) {
		logOut.Infow("config changed", "setting", setting)
	})

	//
	// ── 2.  Router: metrics, health, identity ──────────────────────────
	//
	srvOpts := set.Server()
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", srvOpts.ContentType)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"service": srvOpts.Name,
			"version": srvOpts.Version,
		})
	})

	//
	// ── 3.  Middleware chain from the derived bundles ──────────────────
	//
	handler := middleware.Security(
		middleware.Throttle(set.Throttle(),
			middleware.MaxBody(set.Body(), r)))

	srv, err := server.New(srvOpts, handler)
	if err != nil {
		logOut.Fatalf("build server: %v", err)
	}

	//
	// ── 4.  Serve + watch + graceful shutdown ──────────────────────────
	//
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return set.Watch(gctx) })

	g.Go(func() error {
		if srv.TLSConfig != nil {
			logOut.Infow("listening (mutual TLS)", "addr", srv.Addr)
			// Material comes from the bundle, not from files here.
			if err := srv.ListenAndServeTLS("", ""); err != http.ErrServerClosed {
				return err
			}
			return nil
		}
		logOut.Infow("listening (plain HTTP)", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	})

	if err := g.Wait(); err != nil {
		logOut.Fatalf("gateway: %v", err)
	}
	logOut.Infow("gateway stopped")
}
