package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"finguard/internal/models"
	"finguard/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrInvalidInput marks request validation failures.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotVerifiable is returned when a verification decision targets a
	// transaction that is not awaiting one.
	ErrNotVerifiable = errors.New("transaction is not awaiting verification")
)

// Disposition notes recorded by the manual-verification handler.
const (
	confirmationNote = "You confirmed this transaction was made by you. It has been marked as verified."
	rejectionNote    = "You reported this transaction as not yours. It has been marked as fraudulent and our team has been alerted."
)

type TransactionService struct {
	repo     TransactionStore
	notifier FraudAlerter
	logger   *zap.Logger
}

func NewTransactionService(repo TransactionStore, notifier FraudAlerter, logger *zap.Logger) *TransactionService {
	return &TransactionService{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
	}
}

type CreateTransactionParams struct {
	MerchantName string
	Amount       float64
	Category     string
	Location     string
}

// Create records a new transaction in the pending state. Analysis happens
// asynchronously once the store change event reaches the orchestrator.
func (s *TransactionService) Create(ctx context.Context, userID uuid.UUID, params CreateTransactionParams) (*models.Transaction, error) {
	if params.MerchantName == "" {
		return nil, fmt.Errorf("%w: merchant name is required", ErrInvalidInput)
	}
	if params.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if params.Category == "" {
		return nil, fmt.Errorf("%w: category is required", ErrInvalidInput)
	}

	now := time.Now().UTC()
	tx := &models.Transaction{
		ID:           uuid.New(),
		UserID:       userID,
		MerchantName: params.MerchantName,
		Amount:       params.Amount,
		Category:     params.Category,
		Location:     params.Location,
		OccurredAt:   now,
		Status:       models.StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	return tx, nil
}

// List returns the user's transactions newest-first.
func (s *TransactionService) List(ctx context.Context, userID uuid.UUID) ([]*models.Transaction, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *TransactionService) Get(ctx context.Context, userID, id uuid.UUID) (*models.Transaction, error) {
	tx, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx.UserID != userID {
		// Hide other users' transactions entirely.
		return nil, repository.ErrNotFound
	}
	return tx, nil
}

// Verify applies the user's decision on a flagged transaction. Accepting
// marks it verified; rejecting marks it as confirmed fraud and enqueues a
// notification. The state transition commits first; a failed enqueue is
// logged by the notifier and never rolls the decision back.
func (s *TransactionService) Verify(ctx context.Context, userID, id uuid.UUID, accepted bool) (*models.Transaction, error) {
	tx, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if tx.Status != models.StatusRequiresVerification {
		return nil, fmt.Errorf("%w: status is %s", ErrNotVerifiable, tx.Status)
	}

	if accepted {
		if err := s.repo.MarkVerified(ctx, id, models.StatusRequiresVerification, confirmationNote); err != nil {
			return nil, s.verifyErr(err)
		}
		tx.Status = models.StatusVerified
		tx.AIInsight = confirmationNote
		return tx, nil
	}

	if err := s.repo.MarkError(ctx, id, models.StatusRequiresVerification, rejectionNote); err != nil {
		return nil, s.verifyErr(err)
	}
	tx.Status = models.StatusError
	tx.AIInsight = rejectionNote

	s.notifier.EnqueueFraudAlert(tx)

	return tx, nil
}

func (s *TransactionService) verifyErr(err error) error {
	if errors.Is(err, repository.ErrStaleStatus) {
		return ErrNotVerifiable
	}
	return fmt.Errorf("record verification: %w", err)
}

// CreateTestAnomaly is the demo hook: it synthesizes a transaction the
// amount rule is guaranteed to flag (the merchant name would also match
// the fraud-token rule, but the amount rule wins on priority) and
// enqueues a fraud notification directly, in parallel with the normal
// analysis flow.
func (s *TransactionService) CreateTestAnomaly(ctx context.Context, userID uuid.UUID) (*models.Transaction, error) {
	tx, err := s.Create(ctx, userID, CreateTransactionParams{
		MerchantName: "Fraudulent Charge",
		Amount:       999.00,
		Category:     "Shopping",
	})
	if err != nil {
		return nil, err
	}

	s.notifier.EnqueueFraudAlert(tx)

	return tx, nil
}
