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

	"github.com/fitcoach/fitcoach-api/internal/client"
	"github.com/fitcoach/fitcoach-api/internal/config"
	"github.com/fitcoach/fitcoach-api/internal/handler"
	"github.com/fitcoach/fitcoach-api/internal/logger"
	"github.com/fitcoach/fitcoach-api/internal/metrics"
	"github.com/fitcoach/fitcoach-api/internal/repository"
	"github.com/fitcoach/fitcoach-api/internal/server"
	"github.com/fitcoach/fitcoach-api/internal/service"
	"github.com/joho/godotenv"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log)
	log.Info("starting api", slog.String("env", cfg.Environment.Name))

	if err := run(cfg, log); err != nil {
		log.Error("api stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
	log.Info("api stopped")
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx := context.Background()

	metrics.Register()

	db, err := client.InitDatabase(cfg.Database, logger.Gorm(log), log)
	if err != nil {
		return err
	}

	var cache client.Cache
	if cfg.Redis.URL != "" {
		redisCache, err := client.NewRedisCache(ctx, cfg.Redis.URL)
		if err != nil {
			return err
		}
		defer redisCache.Close()
		cache = redisCache
		log.Info("catalog cache enabled", slog.Duration("ttl", cfg.Redis.CatalogTTL))
	}

	stripeClient, err := client.NewStripeClient(&cfg.Stripe)
	if err != nil {
		return err
	}

	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	webhookEventRepo := repository.NewWebhookEventRepository(db)
	contactRepo := repository.NewContactRepository(db)

	if cfg.SeedCatalog {
		if err := productRepo.Seed(ctx); err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}
		log.Info("catalog seeded")
	}

	catalogService := service.NewCatalogService(productRepo, cache, cfg.Redis.CatalogTTL, log)
	orderService := service.NewOrderService(db, catalogService, orderRepo, log)
	checkoutService := service.NewCheckoutService(
		stripeClient,
		orderService,
		orderRepo,
		cfg.SuccessURL(), cfg.CancelURL(),
		log,
	)
	webhookService := service.NewWebhookService(
		db,
		stripeClient,
		catalogService,
		productRepo,
		orderRepo,
		progressRepo,
		webhookEventRepo,
		log,
	)
	dashboardService := service.NewDashboardService(orderRepo, progressRepo)
	contactService := service.NewContactService(contactRepo, log)

	// Init HTTP server
	srv := server.NewServer(cfg, &server.Handlers{
		Catalog:   handler.NewCatalogHandler(catalogService),
		Checkout:  handler.NewCheckoutHandler(checkoutService),
		Webhook:   handler.NewWebhookHandler(webhookService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		Contact:   handler.NewContactHandler(contactService),
	}, log)

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	select {
	case <-sigChan:
		log.Info("signal received, starting graceful shutdown")
	case err := <-errChan:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	return nil
}
