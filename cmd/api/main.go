package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/stars-panel/backend/internal/auth"
	"github.com/stars-panel/backend/internal/cache"
	"github.com/stars-panel/backend/internal/config"
	"github.com/stars-panel/backend/internal/db"
	"github.com/stars-panel/backend/internal/events"
	apphttp "github.com/stars-panel/backend/internal/http"
	"github.com/stars-panel/backend/internal/http/handlers"
	"github.com/stars-panel/backend/internal/repositories"
	"github.com/stars-panel/backend/internal/services"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	cfg.Validate(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	// Run migrations
	if err := db.RunMigrations(ctx, pool, "migrations", log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	// Redis
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	// Repositories
	userRepo := repositories.NewUserRepo(pool)
	subRepo := repositories.NewSubscriptionRepo(pool)
	walletRepo := repositories.NewWalletRepo(pool)
	sessionRepo := repositories.NewSessionRepo(pool)

	// Events
	publisher := events.NewRedisPublisher(rdb, log)

	// Services
	hasher := auth.NewBcryptHasher(cfg.BcryptCost)
	keyCache := cache.NewKeyCache(rdb, cfg.KeyCacheTTL)
	userService := services.NewUserService(userRepo, hasher, publisher, log)
	subService := services.NewSubscriptionService(subRepo, userRepo, keyCache, publisher, cfg.APIKeyPrefix, log)
	walletService := services.NewWalletService(walletRepo, subRepo, userRepo, log)
	sessionService := services.NewSessionService(sessionRepo, userRepo, publisher, log)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, cfg, log)
	userHandler := handlers.NewUserHandler(userService, log)
	subHandler := handlers.NewSubscriptionHandler(subService, log)
	walletHandler := handlers.NewWalletHandler(walletService, log)
	sessionHandler := handlers.NewSessionHandler(sessionService, log)

	// Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	apphttp.SetupRouter(app, cfg, log, rdb, authHandler, userHandler, subHandler, walletHandler, sessionHandler)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")
		cancel()
		_ = app.Shutdown()
	}()

	addr := fmt.Sprintf(":%s", cfg.APIPort)
	log.Info("starting API server", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
