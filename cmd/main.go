package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spockey4711/trainingbuilder/internal/config"
	"github.com/spockey4711/trainingbuilder/internal/logging"
	"github.com/spockey4711/trainingbuilder/internal/middleware"
	"github.com/spockey4711/trainingbuilder/internal/server"
	"github.com/spockey4711/trainingbuilder/internal/telemetry"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/contrib/instrumentation/go.mongodb.org/mongo-driver/mongo/otelmongo"
	"go.uber.org/multierr"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	logging.Setup(logging.SetupParams{
		LogFileName:   cfg.Log.FileName,
		LogToStdout:   cfg.Log.ToStdout,
		LogLevel:      cfg.Log.Level,
		LogFormatJSON: cfg.Log.JSON,
	})
	logrus.Info("starting training builder service")

	ctx := context.Background()

	otelProvider, err := telemetry.Initialize(ctx, telemetry.FromConfig(cfg.OTEL))
	if err != nil {
		logrus.WithError(err).Warn("failed to initialize opentelemetry")
	}

	firebaseApp, err := middleware.InitFirebase(ctx, cfg.Firebase.ProjectID, cfg.Firebase.PrivateKey, cfg.Firebase.ClientEmail)
	if err != nil {
		logrus.Fatalf("failed to initialize firebase: %v", err)
	}
	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		logrus.Fatalf("failed to get firebase auth client: %v", err)
	}
	logrus.Info("firebase initialized")

	ctxMongo, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	mongoOpts := options.Client().ApplyURI(cfg.MongoDB.URI)
	if cfg.OTEL.Enabled {
		mongoOpts.SetMonitor(otelmongo.NewMonitor())
	}
	mongoClient, err := mongo.Connect(ctxMongo, mongoOpts)
	if err != nil {
		logrus.Fatalf("failed to connect to mongodb: %v", err)
	}
	if err := mongoClient.Ping(ctxMongo, nil); err != nil {
		logrus.Fatalf("failed to ping mongodb: %v", err)
	}
	logrus.WithField("database", cfg.MongoDB.Database).Info("mongodb connected")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logrus.Fatalf("failed to connect to redis: %v", err)
	}
	logrus.Info("redis connected")

	app := server.NewApp(server.AppDependencies{
		Config:      cfg,
		MongoDB:     mongoClient.Database(cfg.MongoDB.Database),
		RedisClient: redisClient,
		AuthClient:  authClient,
	})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		logrus.Info("shutting down gracefully")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logrus.WithError(err).Error("http server shutdown failed")
		}
	}()

	logrus.Infof("server listening on port %s", cfg.Server.Port)
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		logrus.WithError(err).Error("server stopped")
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	err = multierr.Combine(
		mongoClient.Disconnect(shutdownCtx),
		redisClient.Close(),
		otelProvider.Shutdown(shutdownCtx),
	)
	if err != nil {
		logrus.WithError(err).Error("shutdown finished with errors")
		os.Exit(1)
	}
	logrus.Info("shutdown complete")
}
