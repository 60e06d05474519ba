package models

import (
	"time"

	"github.com/google/uuid"
)

// TransactionStatus is the lifecycle state of a transaction.
//
// Every transaction starts at pending and moves strictly forward:
//
//	pending ──not anomalous──────────────▶ verified
//	pending ──anomalous──▶ analyzing ──enrichment ok──▶ requires_verification
//	                       analyzing ──enrichment failed──▶ error
//	requires_verification ──user confirms──▶ verified
//	requires_verification ──user rejects───▶ error
//
// verified and error are terminal.
type TransactionStatus string

const (
	StatusPending              TransactionStatus = "pending"
	StatusVerified             TransactionStatus = "verified"
	StatusAnalyzing            TransactionStatus = "analyzing"
	StatusRequiresVerification TransactionStatus = "requires_verification"
	StatusError                TransactionStatus = "error"
)

// transitions is the full set of legal lifecycle moves.
var transitions = map[TransactionStatus][]TransactionStatus{
	StatusPending:              {StatusVerified, StatusAnalyzing},
	StatusAnalyzing:            {StatusRequiresVerification, StatusError},
	StatusRequiresVerification: {StatusVerified, StatusError},
}

// CanTransitionTo reports whether moving from s to next is a legal
// lifecycle transition.
func (s TransactionStatus) CanTransitionTo(next TransactionStatus) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition exists out of s.
func (s TransactionStatus) Terminal() bool {
	return len(transitions[s]) == 0
}

type Transaction struct {
	ID           uuid.UUID         `db:"id"`
	UserID       uuid.UUID         `db:"user_id"`
	MerchantName string            `db:"merchant_name"`
	Amount       float64           `db:"amount"`
	Category     string            `db:"category"`
	// Location follows the "City, Country-code" convention and is empty
	// for purchases with no meaningful place.
	Location      string            `db:"location"`
	OccurredAt    time.Time         `db:"occurred_at"`
	Status        TransactionStatus `db:"status"`
	AnomalyReason string            `db:"anomaly_reason"`
	AIInsight     string            `db:"ai_insight"`
	CreatedAt     time.Time         `db:"created_at"`
	UpdatedAt     time.Time         `db:"updated_at"`
}
