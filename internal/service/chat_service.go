package service

import (
	"context"
	"fmt"
	"time"

	"finguard/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ChatService answers free-text questions about the user's spending. It
// reads verified transactions only: flagged or still-analyzing ones never
// leak into chat answers.
type ChatService struct {
	transactions TransactionStore
	assistant    SpendingAssistant
	llmTimeout   time.Duration
	logger       *zap.Logger
}

func NewChatService(transactions TransactionStore, assistant SpendingAssistant, llmTimeout time.Duration, logger *zap.Logger) *ChatService {
	return &ChatService{
		transactions: transactions,
		assistant:    assistant,
		llmTimeout:   llmTimeout,
		logger:       logger,
	}
}

func (s *ChatService) Ask(ctx context.Context, userID uuid.UUID, question string) (string, error) {
	if question == "" {
		return "", fmt.Errorf("%w: message is required", ErrInvalidInput)
	}

	verified, err := s.transactions.ListByUserAndStatus(ctx, userID, models.StatusVerified)
	if err != nil {
		return "", fmt.Errorf("load verified transactions: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.llmTimeout)
	defer cancel()

	answer, err := s.assistant.AnswerSpendingQuestion(ctx, question, verified)
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}

	return answer, nil
}
