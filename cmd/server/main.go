package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/ronan-soo/Redoxide-Feature-Request-System/internal/config"
	"github.com/ronan-soo/Redoxide-Feature-Request-System/internal/db"
	"github.com/ronan-soo/Redoxide-Feature-Request-System/internal/handler"
	"github.com/ronan-soo/Redoxide-Feature-Request-System/internal/middleware"
	"github.com/ronan-soo/Redoxide-Feature-Request-System/internal/repository"
	"github.com/ronan-soo/Redoxide-Feature-Request-System/internal/router"
	"github.com/ronan-soo/Redoxide-Feature-Request-System/internal/service"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	middleware.InitLogger(cfg.LogLevel, "featurevote-api")

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		log.Fatalf("failed to apply schema: %v", err)
	}

	cache := service.NewCacheService(cfg.RedisURL)
	defer cache.Close()

	sessions := service.NewSessionService(cfg.RedisURL, cfg.SessionSecret, cfg.SessionTTL)
	defer sessions.Close()

	store := repository.NewFeatureRepo(pool)
	features := service.NewFeatureService(store, cache)
	votes := service.NewVoteService(store, cache)
	polish := service.NewPolishService(cfg.PolishAPIURL, cfg.PolishAPIKey, cfg.PolishModel)

	bus := service.NewBroadcaster()
	handler.InitMetrics(pool, bus)

	workerCtx, stopWorker := context.WithCancel(ctx)
	defer stopWorker()
	worker := service.NewFeedWorker(pool, store, cache, bus)
	go worker.Start(workerCtx)

	app := fiber.New(fiber.Config{
		AppName:      "FeatureVote API",
		ServerHeader: "FeatureVote",
	})

	h := &router.Handlers{
		Feature: handler.NewFeatureHandler(features, sessions),
		Vote:    handler.NewVoteHandler(votes, sessions),
		Session: handler.NewSessionHandler(sessions),
		Polish:  handler.NewPolishHandler(polish),
		Feed:    handler.NewFeedHandler(bus),
		Admin:   handler.NewAdminHandler(features, cfg.AdminToken),
		Health:  handler.NewHealthHandler(pool, cache.Client()),
	}
	router.Setup(app, h, cfg.CORSOrigins)

	// Graceful shutdown on SIGINT/SIGTERM: stop accepting requests, then
	// stop the feed worker so SSE subscribers drain cleanly.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		log.Println("shutting down")
		stopWorker()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	}()

	log.Printf("FeatureVote backend starting on :%s (env=%s)", cfg.Port, cfg.Environment)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
