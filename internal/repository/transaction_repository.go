package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"finguard/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrStaleStatus is returned when a conditional lifecycle update matched no
// row: the transaction has already moved past the expected status. Callers
// treat it as "someone else got there first" and skip, never retry.
var ErrStaleStatus = errors.New("transaction is not in the expected status")

var txColumns = []string{
	"id", "user_id", "merchant_name", "amount", "category", "location",
	"occurred_at", "status", "anomaly_reason", "ai_insight", "created_at", "updated_at",
}

type TransactionRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTransactionRepository(db *pgxpool.Pool, logger *zap.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *TransactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	query := squirrel.Insert("transactions").
		Columns(txColumns...).
		Values(tx.ID, tx.UserID, tx.MerchantName, tx.Amount, tx.Category, tx.Location,
			tx.OccurredAt, tx.Status, tx.AnomalyReason, tx.AIInsight, tx.CreatedAt, tx.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	query := squirrel.Select(txColumns...).
		From("transactions").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var tx models.Transaction
	row := r.db.QueryRow(ctx, sql, args...)
	if err := scanTransaction(row, &tx); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &tx, nil
}

// ListByUser returns the user's transactions newest-first, the order the
// display layer depends on.
func (r *TransactionRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Transaction, error) {
	query := squirrel.Select(txColumns...).
		From("transactions").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("occurred_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	return r.list(ctx, query)
}

// ListByStatus returns all transactions currently in the given lifecycle
// status, across users, oldest-first so earlier arrivals are analyzed first.
func (r *TransactionRepository) ListByStatus(ctx context.Context, status models.TransactionStatus) ([]*models.Transaction, error) {
	query := squirrel.Select(txColumns...).
		From("transactions").
		Where(squirrel.Eq{"status": status}).
		OrderBy("occurred_at ASC").
		PlaceholderFormat(squirrel.Dollar)

	return r.list(ctx, query)
}

// ListByUserAndStatus returns the user's transactions in the given status,
// newest-first.
func (r *TransactionRepository) ListByUserAndStatus(ctx context.Context, userID uuid.UUID, status models.TransactionStatus) ([]*models.Transaction, error) {
	query := squirrel.Select(txColumns...).
		From("transactions").
		Where(squirrel.Eq{"user_id": userID, "status": status}).
		OrderBy("occurred_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	return r.list(ctx, query)
}

// MarkVerified moves a transaction to verified from the given status.
// insight is recorded when non-empty (the manual-confirmation note).
func (r *TransactionRepository) MarkVerified(ctx context.Context, id uuid.UUID, from models.TransactionStatus, insight string) error {
	builder := squirrel.Update("transactions")
	if insight != "" {
		builder = builder.Set("ai_insight", insight)
	}
	return r.transition(ctx, id, from, models.StatusVerified, builder)
}

// MarkAnalyzing moves a pending transaction to analyzing and records the
// rule reason, so observers see immediate feedback while enrichment runs.
func (r *TransactionRepository) MarkAnalyzing(ctx context.Context, id uuid.UUID, reason string) error {
	builder := squirrel.Update("transactions").
		Set("anomaly_reason", reason)
	return r.transition(ctx, id, models.StatusPending, models.StatusAnalyzing, builder)
}

// MarkRequiresVerification moves an analyzing transaction to
// requires_verification with the enrichment text.
func (r *TransactionRepository) MarkRequiresVerification(ctx context.Context, id uuid.UUID, insight string) error {
	builder := squirrel.Update("transactions").
		Set("ai_insight", insight)
	return r.transition(ctx, id, models.StatusAnalyzing, models.StatusRequiresVerification, builder)
}

// MarkError moves a transaction to the terminal error status from the given
// status, recording the failure or rejection note.
func (r *TransactionRepository) MarkError(ctx context.Context, id uuid.UUID, from models.TransactionStatus, insight string) error {
	builder := squirrel.Update("transactions").
		Set("ai_insight", insight)
	return r.transition(ctx, id, from, models.StatusError, builder)
}

// transition executes a conditional partial update guarded on the current
// status. The move is checked against the lifecycle transition table before
// touching the database, so repository call sites cannot encode a move the
// model does not declare. Zero rows affected means the snapshot the caller
// acted on is stale; the row itself is never replaced wholesale.
func (r *TransactionRepository) transition(ctx context.Context, id uuid.UUID, from, to models.TransactionStatus, builder squirrel.UpdateBuilder) error {
	if !from.CanTransitionTo(to) {
		return fmt.Errorf("illegal transition from %s to %s", from, to)
	}

	query := builder.
		Set("status", to).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id, "status": from}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStaleStatus
	}

	return nil
}

func (r *TransactionRepository) list(ctx context.Context, query squirrel.SelectBuilder) ([]*models.Transaction, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []*models.Transaction
	for rows.Next() {
		var tx models.Transaction
		if err := scanTransaction(rows, &tx); err != nil {
			return nil, err
		}
		transactions = append(transactions, &tx)
	}

	return transactions, rows.Err()
}

func scanTransaction(row pgx.Row, tx *models.Transaction) error {
	return row.Scan(
		&tx.ID, &tx.UserID, &tx.MerchantName, &tx.Amount, &tx.Category, &tx.Location,
		&tx.OccurredAt, &tx.Status, &tx.AnomalyReason, &tx.AIInsight, &tx.CreatedAt, &tx.UpdatedAt,
	)
}
