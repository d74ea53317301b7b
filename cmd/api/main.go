package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agency-checkout/internal/client"
	"agency-checkout/internal/config"
	"agency-checkout/internal/logger"
	"agency-checkout/internal/repository"
	"agency-checkout/internal/server"
	"agency-checkout/internal/service"
	"agency-checkout/internal/session"
	"agency-checkout/internal/worker"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	logg := logger.New(&cfg.Log)

	db := client.InitPostgresClient(cfg.DatabaseURL)
	gateway := client.NewMidtransClient(&cfg.Midtrans)
	storage := client.NewStorageClient(&cfg.Supabase)
	sessionStore := session.NewRedisStore(cfg.Redis.Addr, cfg.Redis.SessionTTL)

	orderRepo := repository.NewOrderRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	catalogRepo := repository.NewServiceCatalogRepository(db)
	voucherRepo := repository.NewVoucherRepository(db)
	webhookLogRepo := repository.NewWebhookLogRepository(db)

	voucherService := service.NewVoucherService(voucherRepo)
	checkoutService := service.NewCheckoutService(
		db, gateway, voucherService,
		orderRepo, paymentRepo, customerRepo, catalogRepo, voucherRepo,
		cfg.Checkout.WhatsAppPhone, logg,
	)
	paymentService := service.NewPaymentService(
		db, gateway,
		orderRepo, paymentRepo, webhookLogRepo,
		logg,
	)
	uploadService := service.NewUploadService(storage, orderRepo)

	pollerCtx, pollerCancel := context.WithCancel(context.Background())
	defer pollerCancel()

	poller := worker.NewStatusPoller(gateway, paymentRepo, paymentService, &cfg.Checkout, logg)
	go poller.Run(pollerCtx)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	srv := server.NewServer(cfg, checkoutService, paymentService, voucherService, uploadService, sessionStore)

	logg.Infof("starting HTTP server on %s", serverAddr)
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			logg.Fatal("HTTP server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	logg.Info("signal received, starting graceful shutdown...")
	pollerCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logg.Fatal("HTTP server shutdown error")
	}
}
