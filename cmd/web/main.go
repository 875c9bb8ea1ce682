// cmd/web/main.go
//
// Kili – HTTP entry point.
//
// Boot sequence
// -------------
//
//  1. Load configuration (conf/.env → conf/global.yaml → KILI_* env, with
//     vault: references resolved).
//
//  2. Start daily rotating logger (tees to console when running in a TTY).
//
//  3. Open the optional GeoLite2 database for request enrichment.
//
//  4. Build the catalog Source (file, http, or s3; Valkey-cached when an
//     address is configured) and an empty Store over it.
//
//  5. Warm the Store once.  A failure is logged, not fatal: the first
//     request retries, and /readyz reports 503 until a load succeeds.
//
//  6. Build the router (middleware, probes, /metrics, /api, static files).
//
//  7. Serve until SIGINT or SIGTERM, then drain in-flight requests.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/ambambokili/kili/internal/api"
	"github.com/ambambokili/kili/internal/catalog"
	"github.com/ambambokili/kili/internal/config"
	"github.com/ambambokili/kili/internal/head"
	"github.com/ambambokili/kili/internal/logger"
	"github.com/ambambokili/kili/internal/requestinfo"
	"github.com/ambambokili/kili/internal/server"
	"github.com/ambambokili/kili/internal/source"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("kili web: %v", err)
	}
}

func run() error {
	//
	// ── 1.  Configuration ───────────────────────────────────────────────
	//
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	//
	// ── 2.  Logger ──────────────────────────────────────────────────────
	//
	tee := logger.IsTTY()
	if cfg.Log.Tee != nil {
		tee = *cfg.Log.Tee
	}
	logOut, err := logger.New(cfg.Log.Dir, cfg.Log.Level, tee)
	if err != nil {
		return err
	}
	defer func() { _ = logOut.Sync() }()

	//
	// ── 3.  GeoIP (optional) ────────────────────────────────────────────
	//
	if cfg.Geo.DBPath != "" {
		if err := requestinfo.OpenGeo(cfg.Geo.DBPath); err != nil {
			logOut.Warnw("geoip disabled", "path", cfg.Geo.DBPath, "err", err)
		} else {
			defer func() { _ = requestinfo.CloseGeo() }()
		}
	}

	//
	// ── 4.  Source and Store ────────────────────────────────────────────
	//
	src, err := source.New(cfg.Catalog, cfg.Cache)
	if err != nil {
		return err
	}
	if c, ok := src.(io.Closer); ok {
		defer func() { _ = c.Close() }()
	}
	store := catalog.NewStore(src)

	//
	// ── 5.  Warm-up (non-fatal) ─────────────────────────────────────────
	//
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := store.EnsureLoaded(ctx); err != nil {
		logOut.Warnw("catalog not loaded at boot; will retry on demand", "err", err)
	}

	//
	// ── 6.  Router ──────────────────────────────────────────────────────
	//
	h := api.New(store, head.SiteFromConfig(cfg.Site), api.Options{
		PerPage:         cfg.Catalog.PerPage,
		ResponseEntries: cfg.Cache.ResponseEntries,
	})
	router := api.NewRouter(h, api.RouterOptions{
		ForceHTTPS:  cfg.HTTP.ForceHTTPS,
		CORSOrigins: cfg.HTTP.CORSOrigins,
		StaticDir:   cfg.HTTP.StaticDir,
	})

	//
	// ── 7.  Serve ───────────────────────────────────────────────────────
	//
	zap.S().Infow("kili starting",
		"addr", cfg.HTTP.ListenAddr,
		"source", src.Name(),
		"root", cfg.Paths.Root)
	return server.Run(ctx, server.New(cfg.HTTP.ListenAddr, router))
}
