// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/phantomlabs/phantom/internal/admin"
	"github.com/phantomlabs/phantom/internal/api"
	"github.com/phantomlabs/phantom/internal/bus"
	"github.com/phantomlabs/phantom/internal/catalog"
	"github.com/phantomlabs/phantom/internal/config"
	"github.com/phantomlabs/phantom/internal/experiment"
	"github.com/phantomlabs/phantom/internal/health"
	"github.com/phantomlabs/phantom/internal/ingest"
	"github.com/phantomlabs/phantom/internal/log"
	"github.com/phantomlabs/phantom/internal/pricing"
	"github.com/phantomlabs/phantom/internal/ratelimit"
	"github.com/phantomlabs/phantom/internal/recorder"
	"github.com/phantomlabs/phantom/internal/session"
	"github.com/phantomlabs/phantom/internal/telemetry"
)

var (
	version   = "v1.0.0"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to config file (YAML)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	// Configure logger with safe defaults until config is loaded
	log.Configure(log.Config{
		Level:   "info",
		Service: "phantom",
		Version: version,
	})
	logger := log.WithComponent("daemon")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Determine config path:
	// - Explicit via --config
	// - Otherwise auto-load ${PHANTOM_DATA}/config.yaml if it exists
	effectiveConfigPath := strings.TrimSpace(*configPath)
	if effectiveConfigPath == "" {
		dataDir := strings.TrimSpace(config.ParseString("PHANTOM_DATA", "/tmp"))
		if dataDir == "" {
			dataDir = "/tmp"
		}
		autoPath := filepath.Join(dataDir, "config.yaml")
		if _, err := os.Stat(autoPath); err == nil {
			effectiveConfigPath = autoPath
		}
	}

	cfg, err := config.NewLoader(effectiveConfigPath, version).Load()
	if err != nil {
		logger.Fatal().
			Err(err).
			Str(log.FieldEvent, "config.load_failed").
			Str("config_path", effectiveConfigPath).
			Msg("failed to load configuration")
	}

	log.SetLevel(cfg.LogLevel)

	if err := health.PerformStartupChecks(ctx, cfg); err != nil {
		logger.Fatal().
			Err(err).
			Str(log.FieldEvent, "startup.check_failed").
			Msg("startup checks failed, verify configuration and permissions")
	}

	logger.Info().
		Str(log.FieldEvent, "startup").
		Str("version", version).
		Str("commit", commit).
		Str("build_date", buildDate).
		Str("addr", cfg.ListenAddr).
		Str(log.FieldStoreMode, cfg.StoreMode).
		Msg("starting phantomd")

	tracer, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        cfg.TracingEnabled,
		ServiceName:    "phantom",
		ServiceVersion: version,
		Environment:    cfg.AppEnv,
		Endpoint:       cfg.TracingEndpoint,
		SamplingRate:   1.0,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialise tracing")
	}

	publisher, err := bus.New(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to event bus")
	}

	rec, err := recorder.New(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialise session recorder")
	}

	var replicator session.Replicator
	if rec != nil {
		replicator = rec
	}
	sessions := session.NewStore(replicator)
	experiments := experiment.NewRegistry(sessions)

	devLogging := cfg.IsDev()

	limiter := ratelimit.New(ratelimit.Config{
		Rate:            rate.Limit(cfg.SessionEventRate),
		Burst:           cfg.SessionEventBurst,
		CleanupInterval: 5 * time.Minute,
	})
	gateway := ingest.New(ingest.Config{
		StoreMode:      cfg.StoreMode,
		PublishTimeout: cfg.BusPublishTimeout,
		DevLogging:     devLogging,
	}, publisher, limiter)

	audit := pricing.NewAuditEmitter(publisher)
	provider := pricing.NewProviderClient(cfg.ProviderURL, cfg.StoreMode, cfg.ProviderTimeout)
	orchestrator := pricing.NewOrchestrator(pricing.Config{
		StoreMode:  cfg.StoreMode,
		Currency:   cfg.Currency,
		StaleAfter: cfg.QuoteStaleAfter,
		DevLogging: devLogging,
	}, provider, audit)

	var catalogClient *catalog.Client
	if cfg.BackendURL != "" {
		catalogClient = catalog.NewClient(cfg.BackendURL, cfg.CatalogCacheTTL)
	}

	var adminStore *admin.Store
	adminPath := filepath.Join(cfg.DataDir, "admin.db")
	adminStore, err = admin.Open(adminPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", adminPath).Msg("failed to open admin store")
	}

	hm := health.NewManager(version)
	if pinger, ok := publisher.(health.Pinger); ok {
		hm.RegisterChecker(health.NewBusChecker(pinger))
	}
	hm.RegisterChecker(health.NewSessionStoreChecker(sessions))

	server := api.New(cfg, api.Deps{
		Sessions:    sessions,
		Experiments: experiments,
		Gateway:     gateway,
		Pricing:     orchestrator,
		Catalog:     catalogClient,
		Admin:       adminStore,
		Health:      hm,
	})

	httpSrv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Str("addr", cfg.ListenAddr).Msg("HTTP server listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("server error")
	}

	// Drain background workers before dropping the bus connection so queued
	// snapshots and observations are not lost.
	sessions.Close()
	audit.Close()
	if catalogClient != nil {
		catalogClient.Close()
	}
	if rec != nil {
		_ = rec.Close()
	}
	if err := adminStore.Close(); err != nil {
		logger.Warn().Err(err).Msg("admin store close failed")
	}
	if err := publisher.Close(); err != nil {
		logger.Warn().Err(err).Msg("bus close failed")
	}
	if err := tracer.Shutdown(context.Background()); err != nil {
		logger.Warn().Err(err).Msg("tracer shutdown failed")
	}

	logger.Info().Msg("server exiting")
}
