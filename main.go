package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/sidhant-sriv/consumeless/config"
	"github.com/sidhant-sriv/consumeless/container"
	"github.com/sidhant-sriv/consumeless/db"
	"github.com/sidhant-sriv/consumeless/geocode"
	"github.com/sidhant-sriv/consumeless/routes"
)

func main() {
	// Load environment variables; a missing .env is fine in containers
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg)
	logger.Info("Starting lending API", "environment", cfg.Environment, "db_driver", cfg.DBDriver)

	// Set Gin to release mode in production
	if cfg.GinMode == gin.ReleaseMode || cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	conn, err := db.Open(cfg.DBDriver, cfg.DatabaseURL, logger)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := db.MakeMigration(conn); err != nil {
		logger.Error("Failed to migrate database", "error", err)
		os.Exit(1)
	}

	geocoder, err := newGeocoder(cfg)
	if err != nil {
		logger.Error("Failed to set up geocoding", "error", err)
		os.Exit(1)
	}

	appContainer := container.NewContainer(logger, conn, container.Options{
		JWTSecret:        cfg.JWTSecret,
		Geocoder:         geocoder,
		GeocodeTimeout:   cfg.GeocodeTimeout,
		CORSAllowOrigins: cfg.CORSAllowOrigins,
	})
	router := routes.SetupRoutes(appContainer)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}
	if err := db.Close(conn); err != nil {
		logger.Error("Error closing database", "error", err)
	}

	logger.Info("Server exited")
}

// newGeocoder returns the fixed test provider when TESTING is set, the
// Google geocoding API otherwise.
func newGeocoder(cfg *config.Config) (geocode.Provider, error) {
	if cfg.Testing {
		return geocode.NewFixed(), nil
	}
	return geocode.NewGoogle(cfg.GoogleAPIKey)
}

func setupLogger(cfg *config.Config) *slog.Logger {
	var handler slog.Handler

	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}

	return slog.New(handler)
}
