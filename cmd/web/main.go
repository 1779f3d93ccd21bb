// cmd/web/main.go
//
// formhook – HTTP entry point.
//
// Start-up sequence
// -----------------
//
//  1. Load configuration (conf/.env → conf/global.yaml → FORMHOOK_ env).
//
//  2. Start daily rotating logger (tees to console when running in a TTY).
//
//  3. Open the optional GeoLite2 database for request enrichment.
//
//  4. Resolve vault: secrets, then build the storage backend.
//
//  5. Build the chi router:
//
//     • RequestID, RealIP, Recoverer  – chi middleware
//     • RequestLogger                 – request-scoped zap logger
//     • Security, ForceHTTPS          – response hardening
//     • requestinfo.Enrich            – UA + Geo on the context
//     • /metrics                      – Prometheus
//     • components                    – signup page and API
//
//  6. Serve until SIGINT/SIGTERM, then shut down gracefully.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yanizio/formhook/internal/component"
	"github.com/yanizio/formhook/internal/config"
	"github.com/yanizio/formhook/internal/form"
	"github.com/yanizio/formhook/internal/logger"
	"github.com/yanizio/formhook/internal/middleware"
	"github.com/yanizio/formhook/internal/requestinfo"
	"github.com/yanizio/formhook/internal/server"
	"github.com/yanizio/formhook/internal/storage"
	"github.com/yanizio/formhook/internal/vault"

	_ "github.com/yanizio/formhook/components/signup" // profile form
)

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("formhook: %v", err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logOut, err := logger.New(cfg.Paths.Root, runningInTTY(), cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("start logger: %w", err)
	}
	defer func() { _ = logOut.Sync() }()

	if err := requestinfo.InitGeo(cfg.GeoIP.DBPath); err != nil {
		logOut.Warnw("geoip disabled", "path", cfg.GeoIP.DBPath, "err", err)
	}

	//
	// ── Storage backend ─────────────────────────────────────────────────
	//
	resolved, err := vault.ResolveConfig(ctx, *cfg, logOut)
	if err != nil {
		return err
	}
	cfg = &resolved
	store, closeStore, err := storage.New(ctx, cfg.Storage, cfg.Storage.Key)
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	//
	// ── Router ──────────────────────────────────────────────────────────
	//
	r := chi.NewRouter()
	r.Use(chimw.RequestID, chimw.RealIP, chimw.Recoverer)
	r.Use(middleware.RequestLogger(logOut))
	r.Use(middleware.Security)
	r.Use(func(next http.Handler) http.Handler { return middleware.ForceHTTPS(cfg.HTTP.ForceHTTPS, next) })
	r.Use(requestinfo.Enrich)

	r.Handle("/metrics", promhttp.Handler())

	csrf, err := form.NewCSRF(cfg.Form.CSRFKey)
	if err != nil {
		return err
	}
	deps := component.Deps{
		Submitter: form.NewSubmitter(store, cfg.Storage.Bucket),
		CSRF:      csrf,
		MaxMemory: cfg.Form.MaxMemory,
	}
	if err := component.Mount(r, deps); err != nil {
		return err
	}

	logOut.Infow("formhook starting",
		"addr", cfg.HTTP.ListenAddr,
		"storage", cfg.Storage.Backend,
		"bucket", cfg.Storage.Bucket,
	)
	return server.Run(ctx, server.New(cfg.HTTP.ListenAddr, r))
}
