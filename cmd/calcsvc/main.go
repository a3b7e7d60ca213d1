package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"battlecalc/internal/combat"
	"battlecalc/internal/config"
	"battlecalc/internal/httpapi"
	"battlecalc/internal/service"
	"battlecalc/internal/telemetry"
	"battlecalc/internal/util"
)

// setupTracing is replaced in tests.
var setupTracing = telemetry.Setup

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("calcsvc")
	}
}

// run serves the API until SIGINT or SIGTERM. Errors are returned rather than
// logged fatally so that deferred trace flushing always happens.
func run() error {
	cfg, err := config.LoadServiceConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := util.NewLogger(cfg.LogLevel, cfg.LogPretty)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := setupTracing(ctx, "battlecalc")
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn().Err(err).Msg("flush traces")
		}
	}()

	catalog, err := combat.LoadCatalog(cfg.CatalogDir)
	if err != nil {
		return fmt.Errorf("load catalog from %q: %w", cfg.CatalogDir, err)
	}

	svc := service.New(catalog, service.Config{
		Trials:       cfg.Trials,
		Workers:      cfg.Workers,
		RoundLimit:   cfg.RoundLimit,
		MaxBattles:   cfg.MaxBattles,
		BuildTimeout: cfg.BuildTimeout,
	}, logger)

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.NewRouter(svc, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("shutdown")
		}
	}()

	logger.Info().
		Str("addr", cfg.Addr).
		Int("rulesets", len(catalog.Rulesets())).
		Int("trials", cfg.Trials).
		Msg("battlecalc listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
