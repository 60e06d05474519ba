package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"finguard/internal/anomaly"
	"finguard/internal/models"
	"finguard/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// enrichmentFailureNote is shown on transactions whose enrichment call
// failed. The transaction still ends up terminal; only the wording is
// generic.
const enrichmentFailureNote = "We flagged this transaction as unusual but could not finish the automated review. Please contact support if you do not recognize it."

// AnalysisService is the orchestrator of the anomaly pipeline. It reacts to
// change events from the store, snapshots the pending transactions, runs
// the rule evaluator on each and drives the lifecycle forward, calling the
// enrichment collaborator for flagged ones.
//
// At most one analysis runs per transaction identity at any time; the
// in-flight set is released on every exit path so a failed enrichment can
// never wedge future snapshots.
type AnalysisService struct {
	transactions TransactionStore
	itineraries  ItineraryStore
	explainer    Explainer
	llmTimeout   time.Duration
	logger       *zap.Logger

	mu       sync.Mutex
	inFlight map[uuid.UUID]struct{}
	wg       sync.WaitGroup
}

func NewAnalysisService(
	transactions TransactionStore,
	itineraries ItineraryStore,
	explainer Explainer,
	llmTimeout time.Duration,
	logger *zap.Logger,
) *AnalysisService {
	return &AnalysisService{
		transactions: transactions,
		itineraries:  itineraries,
		explainer:    explainer,
		llmTimeout:   llmTimeout,
		logger:       logger,
		inFlight:     make(map[uuid.UUID]struct{}),
	}
}

// Run processes one snapshot immediately, then one per change event, until
// ctx is cancelled. It returns after all in-flight analyses have finished.
func (s *AnalysisService) Run(ctx context.Context, events <-chan string) {
	s.ProcessPending(ctx)

	for {
		select {
		case <-ctx.Done():
			s.wg.Wait()
			return
		case _, ok := <-events:
			if !ok {
				s.wg.Wait()
				return
			}
			s.ProcessPending(ctx)
		}
	}
}

// ProcessPending snapshots every pending transaction and dispatches
// analysis for the ones not already in flight. Transactions past pending
// are never touched: itinerary edits only affect future or still-pending
// transactions.
func (s *AnalysisService) ProcessPending(ctx context.Context) {
	pending, err := s.transactions.ListByStatus(ctx, models.StatusPending)
	if err != nil {
		s.logger.Error("Failed to list pending transactions", zap.Error(err))
		return
	}

	// One itinerary lookup per user per snapshot; verdicts themselves are
	// never cached across snapshots.
	itins := make(map[uuid.UUID]*models.Itinerary)
	for _, tx := range pending {
		if !s.tryAcquire(tx.ID) {
			continue
		}

		itin, ok := itins[tx.UserID]
		if !ok {
			itin = s.lookupItinerary(ctx, tx.UserID)
			itins[tx.UserID] = itin
		}

		s.wg.Add(1)
		go func(tx *models.Transaction, itin *models.Itinerary) {
			defer s.wg.Done()
			defer s.release(tx.ID)
			s.analyze(ctx, tx, itin)
		}(tx, itin)
	}
}

func (s *AnalysisService) analyze(ctx context.Context, tx *models.Transaction, itin *models.Itinerary) {
	verdict := anomaly.Evaluate(tx, itin)

	if !verdict.IsAnomalous {
		if err := s.transactions.MarkVerified(ctx, tx.ID, models.StatusPending, ""); err != nil {
			s.logTransition(tx.ID, models.StatusVerified, err)
		}
		return
	}

	// Record the analyzing state first so observers get immediate feedback
	// while the enrichment call is in flight. A stale-status error here
	// means another snapshot already claimed the row.
	if err := s.transactions.MarkAnalyzing(ctx, tx.ID, verdict.Reason); err != nil {
		s.logTransition(tx.ID, models.StatusAnalyzing, err)
		return
	}

	insight, err := s.explain(ctx, tx, itin, verdict.Reason)
	if err != nil {
		s.logger.Warn("Enrichment failed",
			zap.String("transaction_id", tx.ID.String()),
			zap.Error(err),
		)
		if err := s.transactions.MarkError(ctx, tx.ID, models.StatusAnalyzing, enrichmentFailureNote); err != nil {
			s.logTransition(tx.ID, models.StatusError, err)
		}
		return
	}

	if err := s.transactions.MarkRequiresVerification(ctx, tx.ID, insight); err != nil {
		s.logTransition(tx.ID, models.StatusRequiresVerification, err)
	}
}

// explain bounds the enrichment call so a hung upstream eventually fails
// and the per-identity lock is released.
func (s *AnalysisService) explain(ctx context.Context, tx *models.Transaction, itin *models.Itinerary, reason string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.llmTimeout)
	defer cancel()
	return s.explainer.ExplainAnomaly(ctx, tx, itin, reason)
}

func (s *AnalysisService) lookupItinerary(ctx context.Context, userID uuid.UUID) *models.Itinerary {
	itin, err := s.itineraries.GetByUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			// Evaluate with no itinerary rather than stall the pipeline;
			// the mismatch rule simply does not fire.
			s.logger.Error("Failed to load itinerary", zap.String("user_id", userID.String()), zap.Error(err))
		}
		return nil
	}
	return itin
}

func (s *AnalysisService) tryAcquire(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[id]; busy {
		return false
	}
	s.inFlight[id] = struct{}{}
	return true
}

func (s *AnalysisService) release(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, id)
}

func (s *AnalysisService) logTransition(id uuid.UUID, to models.TransactionStatus, err error) {
	if errors.Is(err, repository.ErrStaleStatus) {
		s.logger.Debug("Skipped stale transition",
			zap.String("transaction_id", id.String()),
			zap.String("to", string(to)),
		)
		return
	}
	s.logger.Error("Failed to record transition",
		zap.String("transaction_id", id.String()),
		zap.String("to", string(to)),
		zap.Error(err),
	)
}

// Wait blocks until every dispatched analysis has finished.
func (s *AnalysisService) Wait() {
	s.wg.Wait()
}
