package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/quadrahub/arena-system/config"
	"github.com/quadrahub/arena-system/db"
	"github.com/quadrahub/arena-system/gateway"
	"github.com/quadrahub/arena-system/handlers"
	"github.com/quadrahub/arena-system/live"
	"github.com/quadrahub/arena-system/repositories"
	"github.com/quadrahub/arena-system/routes"
	"github.com/quadrahub/arena-system/services"
	"github.com/quadrahub/arena-system/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	ctx := context.Background()

	conn, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer conn.Close()

	if err := db.Migrate(conn); err != nil {
		logger.Error("failed to apply migrations", slog.Any("error", err))
		os.Exit(1)
	}

	var uploader storage.FileUploader
	if cfg.HasR2() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to configure R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
	} else {
		logger.Info("object storage not configured, qr images served inline")
	}

	store := repositories.NewPostgresRecordStore(conn)
	arenaRepo := repositories.NewStoreArenaRepository(store)
	tournamentRepo := repositories.NewStoreTournamentRepository(store)
	customerRepo := repositories.NewStoreCustomerRepository(store)
	ledgerRepo := repositories.NewStoreLedgerRepository(store)
	notificationRepo := repositories.NewStoreNotificationRepository(store)

	var gatewayOpts []gateway.Option
	if cfg.GatewayBaseURL != "" {
		gatewayOpts = append(gatewayOpts, gateway.WithBaseURL(cfg.GatewayBaseURL))
	}
	gatewayClient := gateway.New(cfg.GatewayPlatformKey, gatewayOpts...)
	statusProvider := services.NewGatewayStatusProvider(gatewayClient)

	hub := live.NewHub(logger)
	go hub.Run()

	authService := services.NewAuthService(customerRepo, []byte(cfg.JWTSecret), cfg.TokenTTL)
	arenaService := services.NewArenaService(arenaRepo, gatewayClient)
	tournamentService := services.NewTournamentService(tournamentRepo)
	registrationService := services.NewRegistrationService(tournamentRepo, customerRepo, notificationRepo, hub, logger)
	paymentService := services.NewPaymentService(gatewayClient, statusProvider, customerRepo, uploader, logger)
	reconciliationService := services.NewReconciliationService(tournamentRepo, ledgerRepo, hub, logger)

	router := routes.SetupRoutes(routes.Handlers{
		Auth:         handlers.NewAuthHandler(authService),
		Arena:        handlers.NewArenaHandler(arenaService),
		Tournament:   handlers.NewTournamentHandler(tournamentService),
		Registration: handlers.NewRegistrationHandler(registrationService),
		Payment:      handlers.NewPaymentHandler(arenaService, tournamentService, paymentService, reconciliationService, customerRepo),
		WebSocket:    handlers.NewWebSocketHandler(hub, logger),
	}, []byte(cfg.JWTSecret))

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("server listening", slog.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped unexpectedly", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	<-shutdown
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
	}
}
