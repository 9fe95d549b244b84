package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sandyspace/catalog-manager/ai"
	"github.com/sandyspace/catalog-manager/app/api"
	"github.com/sandyspace/catalog-manager/config"
	"github.com/sandyspace/catalog-manager/logger"
	"github.com/sandyspace/catalog-manager/messages"
	"github.com/sandyspace/catalog-manager/models"
	"github.com/sandyspace/catalog-manager/remote"
)

func main() {
	// 1. Load Configuration
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     cfg.Server.AppEnv == "dev" || cfg.Server.AppEnv == "development",
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Open Storage
	docs, secrets, closeStorage, err := openStorage(ctx, cfg)
	if err != nil {
		appLogger.Fatal("Could not open storage", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	defer closeStorage()
	appLogger.Info("Storage ready", zap.String("driver", cfg.Storage.Driver))

	store := models.NewStore(docs, secrets, appLogger)
	if err := store.Initialize(ctx); err != nil {
		appLogger.Fatal("Could not initialize storage", zap.Error(err))
	}

	// 4. Initialize Clients
	httpClient := &http.Client{Timeout: cfg.Remote.Timeout}
	remoteClient := remote.NewClient(store, httpClient, cfg.Remote.CommerceEndpoint, appLogger)

	var uploader remote.ImageUploader = remoteClient
	if cfg.Cloudinary.URL != "" {
		cld, err := remote.NewCloudinaryUploader(cfg.Cloudinary.URL, cfg.Cloudinary.Folder)
		if err != nil {
			appLogger.Fatal("Could not initialize Cloudinary", zap.Error(err))
		}
		uploader = cld
		appLogger.Info("Uploading images to Cloudinary", zap.String("folder", cfg.Cloudinary.Folder))
	}

	generator := ai.NewGenerator(store, store, httpClient, cfg.AI, appLogger)

	translator, err := messages.NewTranslator()
	if err != nil {
		appLogger.Fatal("Could not load messages", zap.Error(err))
	}
	responder := api.NewResponder(translator, appLogger)

	// 5. Start HTTP Server
	srv := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           newRouter(store, uploader, remoteClient, generator, responder, cfg.Server.CORSAllowedOrigins, appLogger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("Starting HTTP server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server shutdown failed", zap.Error(err))
	}
	appLogger.Info("Server stopped")
}

// openStorage returns the document and secret backends for the configured
// driver and a function releasing them.
func openStorage(ctx context.Context, cfg *config.Config) (models.DocumentStore, models.DocumentStore, func(), error) {
	switch cfg.Storage.Driver {
	case "memory":
		return models.NewMemoryDocuments(), models.NewMemoryDocuments(), func() {}, nil

	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, nil, err
		}
		closeFn := func() { _ = client.Close() }
		return models.NewRedisDocuments(client, "catalog:"), models.NewRedisDocuments(client, "secret:"), closeFn, nil

	default:
		db, err := models.OpenDatabase(cfg.Storage.Driver, cfg.Storage.DSN)
		if err != nil {
			return nil, nil, nil, err
		}
		closeFn := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		docs, err := models.NewGormDocuments(db, "documents")
		if err != nil {
			closeFn()
			return nil, nil, nil, err
		}
		secrets, err := models.NewGormDocuments(db, "secrets")
		if err != nil {
			closeFn()
			return nil, nil, nil, err
		}
		return docs, secrets, closeFn, nil
	}
}
