// Package main is the entry point for the tracepilot query service.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/tracepilot/tracepilot/internal/adapters"
	"github.com/tracepilot/tracepilot/internal/config"
	"github.com/tracepilot/tracepilot/internal/gateway"
	"github.com/tracepilot/tracepilot/internal/history"
	"github.com/tracepilot/tracepilot/internal/monitoring"
	"github.com/tracepilot/tracepilot/internal/nlquery"
	"github.com/tracepilot/tracepilot/internal/server"
)

// loadEnvFiles loads .env from standard locations so API keys can live
// outside the config file.
func loadEnvFiles() {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		_ = godotenv.Load()
		return
	}

	configEnv := filepath.Join(homeDir, ".config", "tracepilot", ".env")
	if _, err := os.Stat(configEnv); err == nil {
		_ = godotenv.Load(configEnv)
	}

	// Local .env can override.
	_ = godotenv.Load()
}

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the YAML config file")
	flag.Parse()

	loadEnvFiles()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	monitoring.Global(cfg.Logging)

	var hist history.Store
	switch cfg.History.Type {
	case "sqlite":
		hist, err = history.NewSQLiteStore(cfg.History.Path)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open history store")
		}
	default:
		hist = history.NewMemoryStore()
	}
	defer hist.Close()

	gw := gateway.New(adapters.NewRegistry(), cfg.Gateway.Timeout)
	orch := nlquery.New(gw, hist)
	srv := server.New(cfg, orch, hist)

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("query service listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
