package repository_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"finguard/internal/models"
	"finguard/internal/repository"
)

// Moves not declared in the lifecycle transition table are rejected before
// the query is built, so a miswired call site can never reach the store.
// The nil pool proves no database access happens.
func TestTransactionRepository_RejectsUndeclaredTransitions(t *testing.T) {
	repo := repository.NewTransactionRepository(nil, zap.NewNop())
	ctx := context.Background()
	id := uuid.New()

	tests := []struct {
		name string
		call func() error
	}{
		{
			name: "VerifiedFromError",
			call: func() error { return repo.MarkVerified(ctx, id, models.StatusError, "") },
		},
		{
			name: "VerifiedFromVerified",
			call: func() error { return repo.MarkVerified(ctx, id, models.StatusVerified, "") },
		},
		{
			name: "VerifiedFromAnalyzing",
			call: func() error { return repo.MarkVerified(ctx, id, models.StatusAnalyzing, "") },
		},
		{
			name: "ErrorFromPending",
			call: func() error { return repo.MarkError(ctx, id, models.StatusPending, "note") },
		},
		{
			name: "ErrorFromVerified",
			call: func() error { return repo.MarkError(ctx, id, models.StatusVerified, "note") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			assert.ErrorContains(t, err, "illegal transition")
		})
	}
}
