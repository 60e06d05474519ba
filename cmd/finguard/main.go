package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"finguard/internal/api"
	"finguard/internal/api/handlers"
	"finguard/internal/repository"
	"finguard/internal/service"
	"finguard/pkg/auth"
	"finguard/pkg/config"
	"finguard/pkg/logger"
	"finguard/pkg/postgres"

	"go.uber.org/zap"
)

// @title FinGuard API
// @version 1.0
// @description Transaction anomaly detection and verification pipeline for the FinGuard demo financial assistant

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting FinGuard service")

	// Initialize database. An unreachable store is fatal: the pipeline
	// must not start on partial data.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Initialize repositories
	txRepo := repository.NewTransactionRepository(db, appLogger)
	itinRepo := repository.NewItineraryRepository(db, appLogger)
	notifRepo := repository.NewNotificationRepository(db, appLogger)

	// Initialize JWT manager (tokens come from the external identity provider)
	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey)

	// Initialize services
	llmService, err := service.NewLLMService(&cfg.GigaChat, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize LLM service", zap.Error(err))
	}
	defer llmService.Close()

	notifierService := service.NewNotifierService(notifRepo, &cfg.Notifier, appLogger)
	analysisService := service.NewAnalysisService(txRepo, itinRepo, llmService, cfg.GigaChat.RequestTimeout, appLogger)
	txService := service.NewTransactionService(txRepo, notifierService, appLogger)
	itinService := service.NewItineraryService(itinRepo, appLogger)
	chatService := service.NewChatService(txRepo, llmService, cfg.GigaChat.RequestTimeout, appLogger)

	// Start the analysis pipeline on the store change feed
	watcher := repository.NewWatcher(postgres.DSN(&cfg.Database), appLogger)
	events := watcher.Watch(ctx, repository.ChannelTransactions, repository.ChannelItineraries)

	pipelineDone := make(chan struct{})
	go func() {
		defer close(pipelineDone)
		analysisService.Run(ctx, events)
	}()

	// Initialize handlers
	txHandler := handlers.NewTransactionHandler(txService, appLogger)
	itinHandler := handlers.NewItineraryHandler(itinService, appLogger)
	chatHandler := handlers.NewChatHandler(chatService, appLogger)

	// Setup router
	app := api.SetupRouter(txHandler, itinHandler, chatHandler, jwtManager, appLogger)

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}

	// Stop the change feed and drain in-flight analyses and notifications.
	cancel()
	<-pipelineDone
	notifierService.Wait()
}
