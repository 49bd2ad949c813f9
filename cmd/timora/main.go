// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/timora/timora-blog/internal/cache"
	"github.com/timora/timora-blog/internal/config"
	"github.com/timora/timora-blog/internal/i18n"
	"github.com/timora/timora-blog/internal/middleware"
	"github.com/timora/timora-blog/internal/render"
	"github.com/timora/timora-blog/internal/scheduler"
	"github.com/timora/timora-blog/internal/service"
	"github.com/timora/timora-blog/internal/session"
	"github.com/timora/timora-blog/internal/store"
	"github.com/timora/timora-blog/internal/version"
	"github.com/timora/timora-blog/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Timora - multilingual blog\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TIMORA_SESSION_SECRET     Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TIMORA_DB_PATH            SQLite database path (default: ./data/timora.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TIMORA_SERVER_PORT        Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TIMORA_ENV                Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TIMORA_UPLOADS_DIR        Uploaded images directory (default: ./uploads)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TIMORA_DEFAULT_LANGUAGE   UI language when nothing else matches (default: tr)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TIMORA_SITE_URL           Public base URL used in the sitemap (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TIMORA_REDIS_URL          Redis URL for the category cache (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TIMORA_CLEANUP_SCHEDULE   Cron spec for pruning orphaned uploads (default: @hourly)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TIMORA_DO_SEED            Seed a demo author and posts (default: false)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	info := version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}

	if *showVersion {
		_, _ = fmt.Println(info.String())
		os.Exit(0)
	}

	if err := run(info); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(info version.Info) error {
	// Load .env if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	if err := i18n.Init(logger, cfg.DefaultLanguage); err != nil {
		return fmt.Errorf("initializing i18n: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.MkdirAll(cfg.UploadsDir, 0755); err != nil {
		return fmt.Errorf("creating uploads directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	if cfg.DoSeed {
		if err := store.SeedDemo(ctx, db); err != nil {
			return fmt.Errorf("seeding demo content: %w", err)
		}
		slog.Info("demo content seeded")
	}

	sessionManager := session.New(db, cfg.IsDevelopment())

	cacheBackend, backendName := cache.New(cache.Config{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: cfg.CacheTTLDuration(),
		MaxSize:    cfg.CacheMaxSize,
	}, logger)
	defer func() { _ = cacheBackend.Close() }()
	categories := cache.NewCategoryCache(cacheBackend, store.New(db), cfg.CacheTTLDuration(), logger)

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
		Categories:     categories,
		Logger:         logger,
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	media := service.NewMediaService(cfg.UploadsDir, cfg.MaxUploadBytes(), logger)
	app := &application{
		cfg:             cfg,
		info:            info,
		db:              db,
		sessionManager:  sessionManager,
		cache:           cacheBackend,
		cacheBackend:    backendName,
		categories:      categories,
		renderer:        renderer,
		accounts:        service.NewAccountService(db, logger),
		posts:           service.NewPostService(db, media, logger),
		profiles:        service.NewProfileService(db, media, logger),
		loginProtection: middleware.NewLoginProtection(ctx, middleware.DefaultLoginProtectionConfig()),
	}

	r, err := app.routes()
	if err != nil {
		return err
	}

	sched := scheduler.New(db, media, cfg.CleanupSchedule, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // uploads
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", info.Short())
	err = serve(srv, quit, 30*time.Second)
	sched.Stop()
	if err != nil {
		return err
	}

	slog.Info("server stopped")
	return nil
}

// serve runs srv until it fails to listen or a signal arrives on quit, then
// shuts it down within timeout.
func serve(srv *http.Server, quit <-chan os.Signal, timeout time.Duration) error {
	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-quit:
	}

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
