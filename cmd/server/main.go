package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "syncy/internal/adapters/http"
	"syncy/internal/adapters/ws"
	"syncy/internal/app"
	"syncy/internal/cache"
	"syncy/internal/catalog"
	"syncy/internal/config"
	"syncy/internal/store"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.Mode == "debug" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open store")
	}
	defer db.Close()

	blobs, err := cache.Open(cfg.CachePath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open content cache")
	}
	defer blobs.Close()

	rooms := app.NewRegistry()
	gate := app.NewGate(rooms)
	relay := app.NewRelay(rooms)
	search := catalog.New(cfg.SaavnBaseURL, cfg.JamendoBaseURL, cfg.JamendoClientID)

	wsc := ws.NewController(gate, relay, cfg.ReadLimit, cfg.PingPeriod, cfg.SendBuffer)
	handlers := router.NewHandlers(db, search, blobs, cfg.AdminSecret)

	r := router.SetupRouter(ctx, cfg, wsc, handlers)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("Syncy server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}
