package dto

import (
	"time"

	"finguard/internal/models"
)

type CreateTransactionRequest struct {
	MerchantName string  `json:"merchant_name"`
	Amount       float64 `json:"amount"`
	Category     string  `json:"category"`
	Location     string  `json:"location,omitempty"`
}

type VerifyTransactionRequest struct {
	// Accepted is required: true confirms the transaction was legitimate,
	// false reports it as fraud.
	Accepted *bool `json:"accepted"`
}

type TransactionResponse struct {
	ID            string  `json:"id"`
	MerchantName  string  `json:"merchant_name"`
	Amount        float64 `json:"amount"`
	Category      string  `json:"category"`
	Location      string  `json:"location,omitempty"`
	OccurredAt    string  `json:"occurred_at"`
	Status        string  `json:"status"`
	AnomalyReason string  `json:"anomaly_reason,omitempty"`
	AIInsight     string  `json:"ai_insight,omitempty"`
}

func NewTransactionResponse(tx *models.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:            tx.ID.String(),
		MerchantName:  tx.MerchantName,
		Amount:        tx.Amount,
		Category:      tx.Category,
		Location:      tx.Location,
		OccurredAt:    tx.OccurredAt.Format(time.RFC3339),
		Status:        string(tx.Status),
		AnomalyReason: tx.AnomalyReason,
		AIInsight:     tx.AIInsight,
	}
}

func NewTransactionListResponse(txs []*models.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, NewTransactionResponse(tx))
	}
	return out
}
