package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Cienszki/automatic-tournament-sub001/brackets"
	"github.com/Cienszki/automatic-tournament-sub001/config"
	"github.com/Cienszki/automatic-tournament-sub001/db"
	"github.com/Cienszki/automatic-tournament-sub001/handlers"
	"github.com/Cienszki/automatic-tournament-sub001/middleware"
	"github.com/Cienszki/automatic-tournament-sub001/repositories"
	api "github.com/Cienszki/automatic-tournament-sub001/routes"
	"github.com/Cienszki/automatic-tournament-sub001/services"
	"github.com/Cienszki/automatic-tournament-sub001/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	mongoClient, err := db.Connect(cfg.MongoURI, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to mongo", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			logger.Error("failed to disconnect mongo client", slog.Any("error", err))
		} else {
			logger.Info("mongo connection closed")
		}
	}()
	logger.Info("mongo connection established")

	var uploader storage.FileUploader
	if cfg.SnapshotsEnabled() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("R2 snapshot archive enabled", slog.String("bucket", cfg.R2BucketName))
	} else {
		logger.Info("R2 snapshot archive disabled")
	}

	wsHub := brackets.NewHub(logger)
	go wsHub.Run()
	logger.Info("websocket hub started")

	playoffRepo := repositories.NewMongoPlayoffRepository(mongoClient.Database(cfg.MongoDatabase))

	playoffService := services.NewPlayoffService(
		playoffRepo,
		brackets.NewDoubleEliminationGenerator(),
		wsHub,
		uploader,
		logger,
	)
	logger.Info("services initialized")

	playoffHandler := handlers.NewPlayoffHandler(playoffService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub)
	auth := middleware.NewAuthenticator([]byte(cfg.JWTSecretKey))

	router := chi.NewRouter()
	api.SetupRoutes(router, playoffHandler, webSocketHandler, auth)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
