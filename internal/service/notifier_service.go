package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"finguard/internal/models"
	"finguard/pkg/config"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NotifierService appends fraud alerts to the outbound notification queue.
// Enqueueing happens in the background so it never blocks or fails the
// state transition that triggered it; a failed insert is logged and lost
// (the queue is at-least-once from the caller's point of view, with no
// delivery confirmation tracked here).
type NotifierService struct {
	store  NotificationStore
	cfg    *config.NotifierConfig
	logger *zap.Logger
	wg     sync.WaitGroup
}

func NewNotifierService(store NotificationStore, cfg *config.NotifierConfig, logger *zap.Logger) *NotifierService {
	return &NotifierService{
		store:  store,
		cfg:    cfg,
		logger: logger,
	}
}

// EnqueueFraudAlert queues one outbound notification for a confirmed-fraud
// transaction and returns immediately.
func (s *NotifierService) EnqueueFraudAlert(tx *models.Transaction) {
	n := &models.Notification{
		ID:        uuid.New(),
		Recipient: s.cfg.AlertRecipient,
		Subject:   fmt.Sprintf("Fraud alert: %s", tx.MerchantName),
		Body: fmt.Sprintf(
			"Transaction %s for %.2f at %q (%s) was confirmed as fraudulent. Reason on record: %s",
			tx.ID, tx.Amount, tx.MerchantName, tx.OccurredAt.Format("2006-01-02 15:04 MST"), tx.AnomalyReason,
		),
		TransactionID:  tx.ID,
		UserID:         tx.UserID,
		DeliveryStatus: models.DeliveryQueued,
		CreatedAt:      time.Now().UTC(),
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.EnqueueTimeout)
		defer cancel()

		if err := s.store.Create(ctx, n); err != nil {
			s.logger.Error("Failed to enqueue fraud notification",
				zap.String("transaction_id", tx.ID.String()),
				zap.Error(err),
			)
			return
		}

		s.logger.Info("Fraud notification enqueued",
			zap.String("notification_id", n.ID.String()),
			zap.String("transaction_id", tx.ID.String()),
		)
	}()
}

// Wait blocks until all queued enqueue attempts have finished. Used on
// shutdown and in tests.
func (s *NotifierService) Wait() {
	s.wg.Wait()
}
