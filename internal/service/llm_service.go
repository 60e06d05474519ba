package service

import (
	"context"
	"fmt"
	"strings"

	"finguard/internal/models"
	"finguard/pkg/config"

	"github.com/Role1776/gigago"
	"go.uber.org/zap"
)

type LLMService struct {
	client *gigago.Client
	model  *gigago.GenerativeModel
	logger *zap.Logger
}

// buildSystemInstruction sets the assistant persona shared by anomaly
// explanations and the spending chat.
func buildSystemInstruction() string {
	return `You are the in-app assistant of a personal finance application. You help users understand their transactions and spot fraud.

Rules:
- Be warm, concise and plain-spoken. One short paragraph unless asked for more.
- Never invent transactions, amounts, dates or places. Only use the data given in the prompt.
- When describing a suspicious transaction, name the concrete detail that looks wrong (the amount, the place, the merchant) and end by asking the user to confirm whether the transaction was theirs.
- Never tell the user a transaction is definitely fraud; it is always their call to confirm or dispute.
- Do not give investment, legal or tax advice.`
}

func NewLLMService(cfg *config.GigaChatConfig, logger *zap.Logger) (*LLMService, error) {
	ctx := context.Background()

	opts := []gigago.Option{
		gigago.WithCustomScope(cfg.Scope),
	}
	if cfg.InsecureSkipVerify {
		opts = append(opts, gigago.WithCustomInsecureSkipVerify(true))
		logger.Warn("GigaChat TLS certificate verification is disabled")
	}

	client, err := gigago.NewClient(ctx, cfg.APIKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GigaChat client: %w", err)
	}

	model := client.GenerativeModel("GigaChat")
	model.SystemInstruction = buildSystemInstruction()
	model.Temperature = 0.3

	return &LLMService{
		client: client,
		model:  model,
		logger: logger,
	}, nil
}

// ExplainAnomaly turns a terse rule reason into the friendly paragraph shown
// to the user on a flagged transaction. A transport error, an empty choice
// list and a blank completion are all reported as failure; the caller
// decides what the transaction's fate is.
func (s *LLMService) ExplainAnomaly(ctx context.Context, tx *models.Transaction, itin *models.Itinerary, reason string) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, `A rule-based check flagged one of the user's card transactions. Write a single friendly paragraph that explains what looks wrong, names the concrete mismatch, and asks the user to confirm whether the transaction was theirs.

Why it was flagged: %s

Transaction:
- Merchant: %s
- Amount: %.2f
- Category: %s
`, reason, tx.MerchantName, tx.Amount, tx.Category)

	if tx.Location != "" {
		fmt.Fprintf(&b, "- Location: %s\n", tx.Location)
	}
	fmt.Fprintf(&b, "- Date: %s\n", tx.OccurredAt.Format("2006-01-02 15:04 MST"))

	if itin != nil {
		fmt.Fprintf(&b, "\nThe user's declared travel itinerary:\n- Location: %s\n- From: %s\n- To: %s\n",
			itin.Location,
			itin.StartDate.Format("2006-01-02"),
			itin.EndDate.Format("2006-01-02"),
		)
	}

	return s.generate(ctx, b.String())
}

// AnswerSpendingQuestion answers a free-text question using only the user's
// verified transactions as context.
func (s *LLMService) AnswerSpendingQuestion(ctx context.Context, question string, verified []*models.Transaction) (string, error) {
	var b strings.Builder
	b.WriteString("Answer the user's question using only their verified transactions listed below. If the list does not contain the answer, say so instead of guessing.\n\nVerified transactions:\n")

	if len(verified) == 0 {
		b.WriteString("(none)\n")
	}
	for _, tx := range verified {
		fmt.Fprintf(&b, "- %s | %.2f | %s", tx.MerchantName, tx.Amount, tx.Category)
		if tx.Location != "" {
			fmt.Fprintf(&b, " | %s", tx.Location)
		}
		fmt.Fprintf(&b, " | %s\n", tx.OccurredAt.Format("2006-01-02"))
	}

	fmt.Fprintf(&b, "\nQuestion: %s", question)

	return s.generate(ctx, b.String())
}

func (s *LLMService) generate(ctx context.Context, prompt string) (string, error) {
	messages := []gigago.Message{
		{Role: gigago.RoleUser, Content: prompt},
	}

	resp, err := s.model.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("failed to generate response: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from LLM")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("empty response from LLM")
	}

	return content, nil
}

func (s *LLMService) Close() error {
	if s.client != nil {
		s.client.Close()
	}
	return nil
}
