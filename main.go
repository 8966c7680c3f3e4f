package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"marketplace-api/internal/config"
	"marketplace-api/internal/db"
	"marketplace-api/internal/logger"
	"marketplace-api/internal/router"
	"marketplace-api/internal/store"
)

func main() {
	cfg := config.LoadConfig()

	log := logger.InitLogger()
	log.Info().Msg("Marketplace API starting")

	if cfg.UsingDefaultSecret() {
		log.Warn().Msg("JWT_SECRET not set, using default key")
	}

	var st store.Store
	if cfg.DBUrl != "" {
		database := db.InitDB(cfg.DBUrl)
		defer database.Close()
		db.RunMigrations(database)
		st = store.NewMySQLStore(database)
	} else {
		log.Warn().Msg("DB_URL not set, falling back to the in-memory store")
		st = store.NewMemoryStore()
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.UploadDir).Msg("Could not create upload directory")
	}

	r := router.SetupRouter(st, cfg, log)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Info().Msgf("Server listening on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	log.Info().Msg("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}

	log.Info().Msg("Server stopped")
}
