package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/bazarlink/bazarlink-backend/api/routes"
	"github.com/bazarlink/bazarlink-backend/internal/cart"
	"github.com/bazarlink/bazarlink-backend/internal/checkout"
	"github.com/bazarlink/bazarlink-backend/internal/coupons"
	"github.com/bazarlink/bazarlink-backend/internal/orders"
	product "github.com/bazarlink/bazarlink-backend/internal/products"
	"github.com/bazarlink/bazarlink-backend/internal/rfq"
	"github.com/bazarlink/bazarlink-backend/internal/stores"
	"github.com/bazarlink/bazarlink-backend/pkg/config"
	"github.com/bazarlink/bazarlink-backend/pkg/db"
	"github.com/bazarlink/bazarlink-backend/pkg/logger"
	"github.com/bazarlink/bazarlink-backend/pkg/migrate"
	"github.com/bazarlink/bazarlink-backend/pkg/redis"
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

	storeRepo := stores.NewRepository(dbClient.DB())
	productRepo := product.NewRepository(dbClient.DB())
	couponRepo := coupons.NewRepository(dbClient.DB())
	cartRepo := cart.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())
	rfqRepo := rfq.NewRepository(dbClient.DB())

	storeSvc, err := stores.NewService(storeRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create stores service", err)
		os.Exit(1)
	}

	productSvc, err := product.NewService(productRepo, storeSvc)
	if err != nil {
		logg.Error(context.Background(), "failed to create products service", err)
		os.Exit(1)
	}

	couponSvc, err := coupons.NewService(couponRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create coupons service", err)
		os.Exit(1)
	}

	cartSvc, err := cart.NewService(cartRepo, dbClient, storeSvc, productSvc, couponSvc, cfg.Pricing.DeliveryFeeCents)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	checkoutSvc, err := checkout.NewService(cartRepo, cartSvc, checkout.NewProductStock(productRepo), ordersRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	ordersSvc, err := orders.NewService(ordersRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	rfqSvc, err := rfq.NewService(rfqRepo, dbClient, storeSvc, productSvc, ordersRepo, cfg.RFQ)
	if err != nil {
		logg.Error(context.Background(), "failed to create rfq service", err)
		os.Exit(1)
	}

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
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, routes.Services{
			Stores:   storeSvc,
			Products: productSvc,
			Coupons:  couponSvc,
			Cart:     cartSvc,
			Checkout: checkoutSvc,
			RFQ:      rfqSvc,
			Orders:   ordersSvc,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
