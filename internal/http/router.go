package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/stars-panel/backend/internal/config"
	"github.com/stars-panel/backend/internal/http/handlers"
	"github.com/stars-panel/backend/internal/middleware"
)

func SetupRouter(
	app *fiber.App,
	cfg *config.Config,
	log *zap.Logger,
	rdb *redis.Client,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	subHandler *handlers.SubscriptionHandler,
	walletHandler *handlers.WalletHandler,
	sessionHandler *handlers.SessionHandler,
) {
	// Global middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware(log))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api/v1")

	// Rate-limited public endpoints
	api.Use(middleware.RateLimitMiddleware(rdb, 100, time.Minute))

	// Auth (public)
	api.Post("/auth/register", authHandler.Register)
	api.Post("/auth/login", authHandler.Login)

	// Key validation (public; downstream services call this)
	api.Get("/subscriptions/validate/:key", subHandler.ValidateKey)

	// Meta (public)
	metaHandler := handlers.NewMetaHandler()
	api.Get("/meta/products", metaHandler.GetProducts)
	api.Get("/meta/plans", metaHandler.GetPlans)

	// Protected endpoints
	protected := api.Group("", middleware.AuthMiddleware(cfg, log))

	// Users
	protected.Get("/users", userHandler.List)
	protected.Get("/users/:id", userHandler.Get)
	protected.Patch("/users/:id", userHandler.Update)
	protected.Post("/users/:id/ban", userHandler.ToggleBan)
	protected.Delete("/users/:id", userHandler.Delete)

	// Subscriptions
	protected.Post("/subscriptions", subHandler.Create)
	protected.Get("/subscriptions", subHandler.List)
	protected.Get("/subscriptions/stats", subHandler.Stats)
	protected.Get("/subscriptions/:id", subHandler.Get)
	protected.Patch("/subscriptions/:id", subHandler.Update)
	protected.Post("/subscriptions/:id/revoke", subHandler.Revoke)
	protected.Post("/subscriptions/:id/regenerate-key", subHandler.RegenerateKey)
	protected.Delete("/subscriptions/:id", subHandler.Delete)
	protected.Get("/users/:id/subscriptions", subHandler.ListByUser)

	// Wallets
	protected.Post("/wallets", walletHandler.Create)
	protected.Post("/wallets/generate", walletHandler.Generate)
	protected.Get("/wallets", walletHandler.List)
	protected.Get("/wallets/stats", walletHandler.Stats)
	protected.Get("/wallets/:id", walletHandler.Get)
	protected.Patch("/wallets/:id", walletHandler.Update)
	protected.Delete("/wallets/:id", walletHandler.Delete)
	protected.Get("/users/:id/wallets", walletHandler.ListByUser)

	// Fragment sessions
	protected.Post("/fragment-sessions", sessionHandler.Create)
	protected.Get("/fragment-sessions", sessionHandler.List)
	protected.Get("/fragment-sessions/stats", sessionHandler.Stats)
	protected.Get("/fragment-sessions/:id", sessionHandler.Get)
	protected.Patch("/fragment-sessions/:id", sessionHandler.Update)
	protected.Post("/fragment-sessions/:id/activate", sessionHandler.Activate)
	protected.Delete("/fragment-sessions/:id", sessionHandler.Delete)
	protected.Get("/users/:id/fragment-sessions", sessionHandler.ListByUser)
	protected.Get("/users/:id/fragment-session/active", sessionHandler.GetActive)
	protected.Get("/users/:id/fragment-session/cookies", sessionHandler.Cookies)
	protected.Get("/users/:id/fragment-session/wallet-view", sessionHandler.WalletView)
}
