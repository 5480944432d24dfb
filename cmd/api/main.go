package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/SplendidSupplies/shop_api/internal/cache"
	"github.com/SplendidSupplies/shop_api/internal/config"
	"github.com/SplendidSupplies/shop_api/internal/handler"
	"github.com/SplendidSupplies/shop_api/internal/middleware"
	"github.com/SplendidSupplies/shop_api/internal/repository"
	"github.com/SplendidSupplies/shop_api/internal/service"
	"github.com/SplendidSupplies/shop_api/internal/utils"
	"github.com/SplendidSupplies/shop_api/pkg/stripe"
)

// main is the application entrypoint for the Splendid Supplies shop API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Str("storage", cfg.Storage.Backend).Msg("starting shop api")

	utils.SetJWTSecret(cfg.JWTSecret)

	// 3. Resolve the catalog backend. The choice was made once in config;
	// it never changes for the life of the process.
	fileRepo := repository.NewCatalogFileRepository(cfg.Storage.ProductsFile)
	var catalogRepo repository.CatalogRepository = fileRepo
	var migrateSvc *service.MigrateService

	if cfg.Storage.Backend == config.BackendKV {
		redisClient, err := cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			log.Error().Err(err).Msg("redis connection failed")
			fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		log.Info().Msg("redis connected successfully")

		kvRepo := repository.NewCatalogKVRepository(redisClient)
		catalogRepo = kvRepo
		migrateSvc = service.NewMigrateService(fileRepo, kvRepo)
	}

	// 4. Initialize payment provider client
	stripeClient := stripe.NewClient(cfg.Stripe.SecretKey)

	// 5. Initialize services
	productSvc := service.NewProductService(catalogRepo)
	checkoutSvc := service.NewCheckoutService(productSvc, stripeClient, cfg.Domain)
	reconcileSvc := service.NewReconcileService(catalogRepo)
	adminAuthSvc := service.NewAdminAuthService(cfg.Admin)

	// 6. Initialize handlers
	handlers := &Handlers{
		Health:   handler.NewHealthHandler(cfg.Storage.Backend),
		Product:  handler.NewProductHandler(productSvc),
		Checkout: handler.NewCheckoutHandler(checkoutSvc),
		Webhook:  handler.NewWebhookHandler(reconcileSvc, stripeClient, cfg.Stripe.WebhookSecret),
		Auth:     handler.NewAuthHandler(adminAuthSvc),
		Migrate:  handler.NewMigrateHandler(migrateSvc),
	}

	// 7. Initialize middleware
	jwtMw := middleware.NewJWTMiddleware()
	limiter := middleware.NewRateLimiter()

	// 8. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, jwtMw, limiter, &cfg.RateLimit)

	// 9. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 10. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 11. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health   *handler.HealthHandler
	Product  *handler.ProductHandler
	Checkout *handler.CheckoutHandler
	Webhook  *handler.WebhookHandler
	Auth     *handler.AuthHandler
	Migrate  *handler.MigrateHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, jwtMiddleware *middleware.JWTMiddleware, limiter *middleware.RateLimiter, rl *config.RateLimitConfig) {
	router.GET("/health", handlers.Health.GetHealth)

	// Payment provider webhook. Not rate limited: delivery volume is the
	// provider's, and dropping a redelivery would delay reconciliation.
	router.POST("/api/webhooks/payment", handlers.Webhook.HandlePaymentEvent)

	api := router.Group("/api")
	api.Use(limiter.Handle("api", rl.APIMax, rl.APIWindow))
	{
		// Catalog (public)
		api.GET("/products", handlers.Product.ListProducts)
		api.GET("/products/:id", handlers.Product.GetProduct)

		// Checkout (public)
		api.POST("/checkout", handlers.Checkout.CreateSession)

		// Admin login, with its own tighter limit on top of the API one
		api.POST("/admin/login", limiter.Handle("login", rl.LoginMax, rl.LoginWindow), handlers.Auth.Login)

		// Product management (admin)
		api.POST("/products", jwtMiddleware.Handle(), handlers.Product.CreateProduct)
		api.PUT("/products/:id", jwtMiddleware.Handle(), handlers.Product.UpdateProduct)
		api.DELETE("/products/:id", jwtMiddleware.Handle(), handlers.Product.DeleteProduct)

		// Catalog migration (admin)
		api.POST("/admin/migrate", jwtMiddleware.Handle(), handlers.Migrate.Migrate)
	}
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
