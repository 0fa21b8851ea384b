package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ThangNguyenTan/streamflix/internal/api"
	"github.com/ThangNguyenTan/streamflix/internal/config"
	"github.com/ThangNguyenTan/streamflix/internal/logger"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	// Load .env if present; real env vars still win inside viper.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(logger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Path:       cfg.Logging.Path,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	})
	defer log.Close()

	log.Info().
		Str("addr", cfg.Server.Address()).
		Str("logLevel", cfg.Logging.Level).
		Msg("StreamFlix discovery service starting")

	server, err := api.NewServer(cfg, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize server")
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Shutting down")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("Shutdown failed")
		}
	}

	log.Info().Msg("StreamFlix discovery service stopped")
}
