package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexgrant/todo-api/internal/api"
	"github.com/alexgrant/todo-api/internal/cache"
	"github.com/alexgrant/todo-api/internal/config"
	"github.com/alexgrant/todo-api/internal/repository/postgres"
	"github.com/alexgrant/todo-api/internal/service"
	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Initialize database
	db, err := postgres.NewConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	// Initialize repositories
	repos := postgres.NewRepositories(db)

	// Initialize cache (optional; disabled when REDIS_URL is empty)
	cacheClient, err := cache.New(cfg.RedisURL, log)
	if err != nil {
		log.Fatalf("failed to initialize cache: %v", err)
	}

	// Initialize services
	services := service.NewServices(repos, cacheClient, cfg)

	// Initialize router
	router, err := api.NewRouter(services, db, cacheClient, cfg, log)
	if err != nil {
		log.Fatalf("failed to build router: %v", err)
	}

	// Create server
	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.WithFields(logrus.Fields{
			"port":        cfg.Port,
			"environment": cfg.Environment,
		}).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	if err := cacheClient.Close(); err != nil {
		log.WithError(err).Warn("failed to close cache connection")
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.WithError(err).Warn("failed to close database connection")
		}
	}

	log.Info("server stopped")
}
