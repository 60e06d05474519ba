package repository

import (
	"context"

	"finguard/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// NotificationRepository appends records to the outbound notification queue.
// The external delivery worker consumes rows and updates delivery_status;
// the core never reads the queue back.
type NotificationRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewNotificationRepository(db *pgxpool.Pool, logger *zap.Logger) *NotificationRepository {
	return &NotificationRepository{
		db:     db,
		logger: logger,
	}
}

func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	query := squirrel.Insert("outbound_notifications").
		Columns("id", "recipient", "subject", "body", "transaction_id", "user_id", "delivery_status", "created_at").
		Values(n.ID, n.Recipient, n.Subject, n.Body, n.TransactionID, n.UserID, n.DeliveryStatus, n.CreatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}
