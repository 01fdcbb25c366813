package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dishpatch-be/internal/checkout"
	"dishpatch-be/internal/config"
	"dishpatch-be/internal/db"
	"dishpatch-be/internal/event"
	"dishpatch-be/internal/logger"
	"dishpatch-be/internal/order"
	"dishpatch-be/internal/payment"
	"dishpatch-be/internal/restaurant"
	"dishpatch-be/internal/transport"

	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg)
	defer database.Close()

	orderRepo := order.NewRepository(database)
	paymentRepo := payment.NewRepository(database)

	gateway := payment.NewHTTPGateway(cfg.PaymentBaseURL, cfg.PaymentSecretKey)
	restaurantClient := restaurant.NewHTTPClient(cfg.RestaurantBaseURL)

	// The pending-event ledger backs the reconciliation sweep. Without
	// Redis the publisher still works, it just loses replay on crash.
	ledger := event.NewNoopLedger()
	if cfg.RedisAddr != "" {
		ledger = event.NewRedisLedger(cfg.RedisAddr)
	}

	publisher := event.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaOrderTopic, ledger)
	defer publisher.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sweeper := event.NewSweeper(ledger, publisher, time.Minute, 2*time.Minute)
	go sweeper.Run(ctx)

	svc := checkout.NewService(
		orderRepo,
		paymentRepo,
		gateway,
		restaurantClient,
		restaurantClient,
		publisher,
		checkout.DefaultPricingConfig(),
	)

	router := transport.NewRouter(transport.NewOrderHandler(svc))

	srv := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.L().Info("server listening", zap.String("port", cfg.AppPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.L().Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.L().Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.L().Warn("shutdown incomplete", zap.Error(err))
	}
}
