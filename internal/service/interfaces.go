package service

import (
	"context"

	"finguard/internal/models"

	"github.com/google/uuid"
)

// TransactionStore is the slice of the document store the services depend
// on. State transitions are conditional partial updates: every Mark* call
// is guarded on the expected current status and returns
// repository.ErrStaleStatus when the row has already moved on.
type TransactionStore interface {
	Create(ctx context.Context, tx *models.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Transaction, error)
	ListByStatus(ctx context.Context, status models.TransactionStatus) ([]*models.Transaction, error)
	ListByUserAndStatus(ctx context.Context, userID uuid.UUID, status models.TransactionStatus) ([]*models.Transaction, error)

	MarkVerified(ctx context.Context, id uuid.UUID, from models.TransactionStatus, insight string) error
	MarkAnalyzing(ctx context.Context, id uuid.UUID, reason string) error
	MarkRequiresVerification(ctx context.Context, id uuid.UUID, insight string) error
	MarkError(ctx context.Context, id uuid.UUID, from models.TransactionStatus, insight string) error
}

// ItineraryStore persists the per-user travel itinerary.
type ItineraryStore interface {
	Save(ctx context.Context, itin *models.Itinerary) error
	GetByUser(ctx context.Context, userID uuid.UUID) (*models.Itinerary, error)
	Delete(ctx context.Context, userID uuid.UUID) error
}

// NotificationStore appends to the outbound notification queue.
type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
}

// Explainer is the enrichment collaborator that turns a rule reason into a
// user-facing explanation.
type Explainer interface {
	ExplainAnomaly(ctx context.Context, tx *models.Transaction, itin *models.Itinerary, reason string) (string, error)
}

// SpendingAssistant answers free-text questions over verified transactions.
type SpendingAssistant interface {
	AnswerSpendingQuestion(ctx context.Context, question string, verified []*models.Transaction) (string, error)
}

// FraudAlerter enqueues an outbound fraud notification, best-effort.
type FraudAlerter interface {
	EnqueueFraudAlert(tx *models.Transaction)
}
