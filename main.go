package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/isdelr/gymdiary/internal/api"
	"github.com/isdelr/gymdiary/internal/auth"
	"github.com/isdelr/gymdiary/internal/config"
	"github.com/isdelr/gymdiary/internal/logger"
	"github.com/isdelr/gymdiary/internal/maintenance"
	"github.com/isdelr/gymdiary/internal/store"
	"github.com/isdelr/gymdiary/internal/websocket"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Init(cfg.LogLevel, !cfg.IsProduction())

	// Set up the document store
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	st, err := store.New(ctx, cfg)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("Failed to initialize store")
	}
	defer st.Close(context.Background())

	if cfg.SeedCatalog {
		if err := store.SeedCatalog(context.Background(), st); err != nil {
			log.Fatal().Err(err).Msg("Failed to seed workout catalog")
		}
		log.Info().Msg("Workout catalog seeded")
	}

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	app := api.NewApp(cfg, st, auth.NewHasher(), hub)

	// Set up and run the background maintenance jobs
	scheduler, err := maintenance.NewScheduler(cfg.MaintenanceSchedule, app.Sessions, app.Workouts)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create maintenance scheduler")
	}
	scheduler.Start()

	// Set up server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           api.NewRouter(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Str("store", cfg.StoreDriver).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	scheduler.Stop()
	hub.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
