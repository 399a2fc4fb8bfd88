package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/spectra/internal/api"
	"github.com/RMahshie/spectra/internal/backend"
	"github.com/RMahshie/spectra/internal/colormap"
	"github.com/RMahshie/spectra/internal/config"
	"github.com/RMahshie/spectra/internal/processing"
	"github.com/RMahshie/spectra/internal/repository/filesystem"
)

func main() {
	// Configure zerolog for structured logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if cfg.Server.Env == "dev" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	ctx := context.Background()

	backends, err := backend.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open backends")
	}
	defer backends.Close()

	filterRepo, err := filesystem.NewFilterRepository(cfg.Filters.Dir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.Filters.Dir).Msg("Failed to index filters")
	}

	elements := processing.NewElementService(backends.Lines, cfg.Synth.Grid(), cfg.Synth.Params())
	runner := processing.NewSessionRunner(backends.Sessions, elements)

	router, _ := api.NewRouter(cfg.Server.AllowedOrigins, api.Deps{
		Lines:      backends.Lines,
		Filters:    filterRepo,
		Elements:   elements,
		Sessions:   runner,
		Spectral:   colormap.NewSpectral(cfg.Color.SpectralGamma),
		ColorGamma: cfg.Color.Gamma,
	})

	// Start server
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Server.Env).Msg("Starting Spectra API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	if err := runner.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Session computations did not finish")
	}

	log.Info().Msg("Server exited")
}
