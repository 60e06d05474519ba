package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"finguard/internal/models"
	"finguard/internal/service"
)

func newChat(store *fakeTxStore, assistant *fakeAssistant) *service.ChatService {
	return service.NewChatService(store, assistant, time.Second, zap.NewNop())
}

func TestChatService_AskPassesOnlyVerifiedTransactions(t *testing.T) {
	userID := uuid.New()

	verified := pendingTx(userID, "Corner Bakery", 12.40)
	verified.Status = models.StatusVerified
	flagged := pendingTx(userID, "Luxury Watches", 2500.00)
	flagged.Status = models.StatusRequiresVerification
	otherUser := pendingTx(uuid.New(), "Corner Bakery", 9.80)
	otherUser.Status = models.StatusVerified

	store := newFakeTxStore(verified, flagged, otherUser)
	assistant := &fakeAssistant{answer: "You spent 12.40 on food."}

	answer, err := newChat(store, assistant).Ask(context.Background(), userID, "How much did I spend on food?")
	require.NoError(t, err)
	assert.Equal(t, "You spent 12.40 on food.", answer)

	assert.Equal(t, "How much did I spend on food?", assistant.question)
	require.Len(t, assistant.lastTxs, 1)
	assert.Equal(t, verified.ID, assistant.lastTxs[0].ID)
}

func TestChatService_AskEmptyQuestion(t *testing.T) {
	_, err := newChat(newFakeTxStore(), &fakeAssistant{}).Ask(context.Background(), uuid.New(), "")

	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestChatService_AskAssistantFailure(t *testing.T) {
	assistant := &fakeAssistant{err: errors.New("upstream unavailable")}

	_, err := newChat(newFakeTxStore(), assistant).Ask(context.Background(), uuid.New(), "anything?")

	assert.ErrorContains(t, err, "generate answer")
}

func TestChatService_AskWithNoHistory(t *testing.T) {
	assistant := &fakeAssistant{answer: "I have no verified transactions to look at yet."}

	answer, err := newChat(newFakeTxStore(), assistant).Ask(context.Background(), uuid.New(), "What did I buy?")
	require.NoError(t, err)

	assert.NotEmpty(t, answer)
	assert.Empty(t, assistant.lastTxs)
}
