package service_test

import (
	"context"
	"sync"

	"finguard/internal/models"
	"finguard/internal/repository"

	"github.com/google/uuid"
)

// fakeTxStore is an in-memory TransactionStore that enforces the same
// conditional-update semantics as the real repository.
type fakeTxStore struct {
	mu  sync.Mutex
	txs map[uuid.UUID]*models.Transaction

	failMark error // when set, every Mark* call fails with this error
}

func newFakeTxStore(txs ...*models.Transaction) *fakeTxStore {
	s := &fakeTxStore{txs: make(map[uuid.UUID]*models.Transaction)}
	for _, tx := range txs {
		cp := *tx
		s.txs[tx.ID] = &cp
	}
	return s
}

func (s *fakeTxStore) Create(_ context.Context, tx *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *tx
	s.txs[tx.ID] = &cp
	return nil
}

func (s *fakeTxStore) GetByID(_ context.Context, id uuid.UUID) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.txs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *tx
	return &cp, nil
}

func (s *fakeTxStore) ListByUser(_ context.Context, userID uuid.UUID) ([]*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Transaction
	for _, tx := range s.txs {
		if tx.UserID == userID {
			cp := *tx
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *fakeTxStore) ListByStatus(_ context.Context, status models.TransactionStatus) ([]*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Transaction
	for _, tx := range s.txs {
		if tx.Status == status {
			cp := *tx
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *fakeTxStore) ListByUserAndStatus(_ context.Context, userID uuid.UUID, status models.TransactionStatus) ([]*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Transaction
	for _, tx := range s.txs {
		if tx.UserID == userID && tx.Status == status {
			cp := *tx
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *fakeTxStore) MarkVerified(_ context.Context, id uuid.UUID, from models.TransactionStatus, insight string) error {
	return s.transition(id, from, func(tx *models.Transaction) {
		tx.Status = models.StatusVerified
		if insight != "" {
			tx.AIInsight = insight
		}
	})
}

func (s *fakeTxStore) MarkAnalyzing(_ context.Context, id uuid.UUID, reason string) error {
	return s.transition(id, models.StatusPending, func(tx *models.Transaction) {
		tx.Status = models.StatusAnalyzing
		tx.AnomalyReason = reason
	})
}

func (s *fakeTxStore) MarkRequiresVerification(_ context.Context, id uuid.UUID, insight string) error {
	return s.transition(id, models.StatusAnalyzing, func(tx *models.Transaction) {
		tx.Status = models.StatusRequiresVerification
		tx.AIInsight = insight
	})
}

func (s *fakeTxStore) MarkError(_ context.Context, id uuid.UUID, from models.TransactionStatus, insight string) error {
	return s.transition(id, from, func(tx *models.Transaction) {
		tx.Status = models.StatusError
		tx.AIInsight = insight
	})
}

func (s *fakeTxStore) transition(id uuid.UUID, from models.TransactionStatus, apply func(*models.Transaction)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failMark != nil {
		return s.failMark
	}
	tx, ok := s.txs[id]
	if !ok || tx.Status != from {
		return repository.ErrStaleStatus
	}
	apply(tx)
	return nil
}

func (s *fakeTxStore) get(id uuid.UUID) models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.txs[id]
}

// fakeItinStore holds at most one itinerary per user.
type fakeItinStore struct {
	mu    sync.Mutex
	itins map[uuid.UUID]*models.Itinerary
}

func newFakeItinStore(itins ...*models.Itinerary) *fakeItinStore {
	s := &fakeItinStore{itins: make(map[uuid.UUID]*models.Itinerary)}
	for _, itin := range itins {
		cp := *itin
		s.itins[itin.UserID] = &cp
	}
	return s
}

func (s *fakeItinStore) Save(_ context.Context, itin *models.Itinerary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *itin
	s.itins[itin.UserID] = &cp
	return nil
}

func (s *fakeItinStore) GetByUser(_ context.Context, userID uuid.UUID) (*models.Itinerary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	itin, ok := s.itins[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *itin
	return &cp, nil
}

func (s *fakeItinStore) Delete(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.itins, userID)
	return nil
}

// fakeExplainer lets tests control when and how enrichment completes.
type fakeExplainer struct {
	mu    sync.Mutex
	calls int

	insight string
	err     error

	// When set, every call signals started and then blocks until release
	// is closed, so tests can observe in-flight behavior.
	started chan struct{}
	release chan struct{}
}

func (e *fakeExplainer) ExplainAnomaly(ctx context.Context, _ *models.Transaction, _ *models.Itinerary, _ string) (string, error) {
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()

	if e.started != nil {
		e.started <- struct{}{}
		select {
		case <-e.release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	return e.insight, e.err
}

func (e *fakeExplainer) callCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

// fakeAlerter records every enqueued fraud alert.
type fakeAlerter struct {
	mu     sync.Mutex
	alerts []*models.Transaction
}

func (a *fakeAlerter) EnqueueFraudAlert(tx *models.Transaction) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.alerts = append(a.alerts, tx)
}

func (a *fakeAlerter) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.alerts)
}

// fakeNotificationStore records queue inserts.
type fakeNotificationStore struct {
	mu      sync.Mutex
	records []*models.Notification
	err     error
}

func (s *fakeNotificationStore) Create(_ context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	cp := *n
	s.records = append(s.records, &cp)
	return nil
}

func (s *fakeNotificationStore) all() []*models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*models.Notification(nil), s.records...)
}

// fakeAssistant returns a canned chat answer and records its inputs.
type fakeAssistant struct {
	mu       sync.Mutex
	answer   string
	err      error
	lastTxs  []*models.Transaction
	question string
}

func (a *fakeAssistant) AnswerSpendingQuestion(_ context.Context, question string, verified []*models.Transaction) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.question = question
	a.lastTxs = verified
	return a.answer, a.err
}
