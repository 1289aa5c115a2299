package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rlmonteiro/essencia-backend/api/routes"
	"github.com/rlmonteiro/essencia-backend/internal/auth"
	"github.com/rlmonteiro/essencia-backend/internal/cart"
	"github.com/rlmonteiro/essencia-backend/internal/catalog"
	"github.com/rlmonteiro/essencia-backend/internal/checkout"
	"github.com/rlmonteiro/essencia-backend/internal/search"
	"github.com/rlmonteiro/essencia-backend/pkg/config"
	"github.com/rlmonteiro/essencia-backend/pkg/db"
	"github.com/rlmonteiro/essencia-backend/pkg/logger"
	"github.com/rlmonteiro/essencia-backend/pkg/metrics"
	"github.com/rlmonteiro/essencia-backend/pkg/migrate"
	"github.com/rlmonteiro/essencia-backend/pkg/redis"
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

	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	searchService, err := search.NewService(catalogService, logg, search.Options{
		MinQueryLen: cfg.Search.MinQueryLen,
		MaxResults:  cfg.Search.MaxResults,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create search service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(redisClient, logg, cfg.Cart.TTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	deliveryFee, err := cfg.Checkout.DeliveryFeeAmount()
	if err != nil {
		logg.Error(context.Background(), "invalid checkout configuration", err)
		os.Exit(1)
	}

	checkoutService, err := checkout.NewService(cartService, redisClient, logg, checkout.Options{
		DeliveryFee:  deliveryFee,
		PaymentDelay: cfg.Checkout.PaymentDelay,
		SessionTTL:   cfg.Checkout.SessionTTL,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(cfg.JWT, cfg.Admin, logg)
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
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, routes.Dependencies{
			DB:              dbClient,
			Redis:           redisClient,
			Catalog:         catalogService,
			Search:          searchService,
			Cart:            cartService,
			Checkout:        checkoutService,
			Auth:            authService,
			MetricsRegistry: registry,
			HTTPMetrics:     httpMetrics,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
