package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"finguard/internal/models"
	"finguard/internal/repository"
	"finguard/pkg/auth"
	"finguard/pkg/config"
	"finguard/pkg/logger"
	"finguard/pkg/postgres"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Fixed demo identity so seeding is repeatable and the printed token always
// matches the seeded rows.
const (
	demoUserID = "8a0f6f2e-4c1d-4b86-9f6e-2f0c6d1a7b3c"
	demoEmail  = "demo@finguard.local"
)

type seedTransaction struct {
	merchant string
	amount   float64
	category string
	location string
	daysAgo  int
}

var seedTransactions = []seedTransaction{
	{merchant: "Blue Bottle Coffee", amount: 8.75, category: "Food & Drink", daysAgo: 1},
	{merchant: "Whole Foods Market", amount: 64.20, category: "Groceries", daysAgo: 2},
	{merchant: "Spotify", amount: 10.99, category: "Subscriptions", daysAgo: 3},
	{merchant: "Shinkansen Tickets", amount: 120.00, category: "Travel", location: "Tokyo, JP", daysAgo: 4},
	{merchant: "Uniqlo", amount: 85.40, category: "Shopping", location: "Osaka, JP", daysAgo: 5},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	txRepo := repository.NewTransactionRepository(db, appLogger)
	itinRepo := repository.NewItineraryRepository(db, appLogger)

	userID := uuid.MustParse(demoUserID)
	appLogger.Info("Seeding demo data", zap.String("user_id", demoUserID))

	now := time.Now().UTC()
	for _, s := range seedTransactions {
		occurred := now.AddDate(0, 0, -s.daysAgo)
		tx := &models.Transaction{
			ID:           uuid.New(),
			UserID:       userID,
			MerchantName: s.merchant,
			Amount:       s.amount,
			Category:     s.category,
			Location:     s.location,
			OccurredAt:   occurred,
			Status:       models.StatusPending,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := txRepo.Create(ctx, tx); err != nil {
			appLogger.Fatal("Failed to seed transaction", zap.String("merchant", s.merchant), zap.Error(err))
		}
	}

	// A declared trip to Osaka: the seeded Tokyo purchase inside the window
	// demonstrates the itinerary-mismatch rule end to end.
	itin := &models.Itinerary{
		UserID:    userID,
		Location:  "Osaka, JP",
		StartDate: truncate(now.AddDate(0, 0, -7)),
		EndDate:   truncate(now.AddDate(0, 0, 7)),
		UpdatedAt: now,
	}
	if err := itinRepo.Save(ctx, itin); err != nil {
		appLogger.Fatal("Failed to seed itinerary", zap.Error(err))
	}

	token, err := auth.NewJWTManager(cfg.JWT.SecretKey).GenerateToken(demoUserID, demoEmail, 24*time.Hour)
	if err != nil {
		appLogger.Fatal("Failed to generate demo token", zap.Error(err))
	}

	appLogger.Info("Seeding complete",
		zap.Int("transactions", len(seedTransactions)),
	)
	fmt.Printf("\nDemo bearer token (24h):\n%s\n", token)
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
