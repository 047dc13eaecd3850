package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/theyashdedhia/shopwave-backend/api/routes"
	authsvc "github.com/theyashdedhia/shopwave-backend/internal/auth"
	"github.com/theyashdedhia/shopwave-backend/internal/cart"
	"github.com/theyashdedhia/shopwave-backend/internal/catalog"
	"github.com/theyashdedhia/shopwave-backend/internal/chat"
	"github.com/theyashdedhia/shopwave-backend/internal/orders"
	"github.com/theyashdedhia/shopwave-backend/internal/reviews"
	"github.com/theyashdedhia/shopwave-backend/internal/users"
	"github.com/theyashdedhia/shopwave-backend/internal/wishlist"
	"github.com/theyashdedhia/shopwave-backend/pkg/auth/session"
	"github.com/theyashdedhia/shopwave-backend/pkg/config"
	"github.com/theyashdedhia/shopwave-backend/pkg/db"
	"github.com/theyashdedhia/shopwave-backend/pkg/logger"
	"github.com/theyashdedhia/shopwave-backend/pkg/metrics"
	"github.com/theyashdedhia/shopwave-backend/pkg/migrate"
	"github.com/theyashdedhia/shopwave-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	gormDB := dbClient.DB()
	catalogRepo := catalog.NewRepository(gormDB)

	catalogService, err := catalog.NewService(catalog.ServiceParams{Repo: catalogRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	guestStore, err := cart.NewGuestStore(redisClient, cfg.Cart.GuestTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create guest cart store", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cart.ServiceParams{
		Repo:    cart.NewRepository(gormDB),
		Guest:   guestStore,
		Catalog: catalogRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(orders.ServiceParams{
		Repo: orders.NewRepository(gormDB),
		Cart: cartService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	wishlistService, err := wishlist.NewService(wishlist.ServiceParams{
		Repo:    wishlist.NewRepository(gormDB),
		Catalog: catalogRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create wishlist service", err)
		os.Exit(1)
	}

	reviewsService, err := reviews.NewService(reviews.ServiceParams{
		Repo:    reviews.NewRepository(gormDB),
		Catalog: catalogRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create reviews service", err)
		os.Exit(1)
	}

	chatService, err := chat.NewService(chat.ServiceParams{
		Repo: chat.NewRepository(gormDB),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create chat service", err)
		os.Exit(1)
	}

	authService, err := authsvc.NewService(authsvc.ServiceParams{
		Users:     users.NewRepository(gormDB),
		Sessions:  sessionManager,
		Cart:      cartService,
		Limiter:   redisClient,
		Logger:    logg,
		JWT:       cfg.JWT,
		Password:  cfg.Password,
		RateLimit: cfg.AuthRateLimit,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, sessionManager,
			httpMetrics, registry, routes.Services{
			Auth:     authService,
			Catalog:  catalogService,
			Cart:     cartService,
			Orders:   ordersService,
			Wishlist: wishlistService,
			Reviews:  reviewsService,
			Chat:     chatService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
