package anomaly_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finguard/internal/anomaly"
	"finguard/internal/models"
)

func baseTx() *models.Transaction {
	return &models.Transaction{
		ID:           uuid.New(),
		UserID:       uuid.New(),
		MerchantName: "Corner Bakery",
		Amount:       12.40,
		Category:     "Food & Drink",
		OccurredAt:   time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC),
		Status:       models.StatusPending,
	}
}

// osakaTrip covers the baseTx timestamp.
func osakaTrip() *models.Itinerary {
	return &models.Itinerary{
		UserID:    uuid.New(),
		Location:  "Osaka, JP",
		StartDate: time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestEvaluate_AmountThreshold(t *testing.T) {
	tests := []struct {
		name      string
		amount    float64
		anomalous bool
	}{
		{name: "WellAboveThreshold", amount: 2500.00, anomalous: true},
		{name: "JustAboveThreshold", amount: 900.01, anomalous: true},
		{name: "AtThreshold", amount: 900.00, anomalous: false},
		{name: "BelowThreshold", amount: 120.50, anomalous: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := baseTx()
			tx.Amount = tt.amount

			v := anomaly.Evaluate(tx, nil)

			assert.Equal(t, tt.anomalous, v.IsAnomalous)
			if tt.anomalous {
				assert.Contains(t, v.Reason, "unusually high")
			} else {
				assert.Empty(t, v.Reason)
			}
		})
	}
}

// A high amount is flagged no matter what the itinerary says, including a
// perfectly matching location.
func TestEvaluate_AmountThresholdIgnoresItinerary(t *testing.T) {
	tx := baseTx()
	tx.Amount = 1200.00
	tx.Category = "Travel"
	tx.Location = "Osaka, JP"

	v := anomaly.Evaluate(tx, osakaTrip())

	require.True(t, v.IsAnomalous)
	assert.Contains(t, v.Reason, "unusually high")
}

func TestEvaluate_NoItinerarySkipsMismatchRule(t *testing.T) {
	tx := baseTx()
	tx.Category = "Travel"
	tx.Location = "Tokyo, JP"

	v := anomaly.Evaluate(tx, nil)

	assert.False(t, v.IsAnomalous)
}

func TestEvaluate_ItineraryMismatch(t *testing.T) {
	tx := baseTx()
	tx.Category = "Travel"
	tx.Location = "Tokyo, JP"

	v := anomaly.Evaluate(tx, osakaTrip())

	require.True(t, v.IsAnomalous)
	// The reason quotes both locations verbatim.
	assert.Contains(t, v.Reason, "Tokyo, JP")
	assert.Contains(t, v.Reason, "Osaka, JP")
}

func TestEvaluate_MismatchAppliesToLocatedNonTravelPurchases(t *testing.T) {
	tx := baseTx()
	tx.Category = "Shopping"
	tx.Location = "Tokyo, JP"

	v := anomaly.Evaluate(tx, osakaTrip())

	assert.True(t, v.IsAnomalous)
}

func TestEvaluate_MismatchOutsideWindowDoesNotFire(t *testing.T) {
	tx := baseTx()
	tx.Category = "Travel"
	tx.Location = "Tokyo, JP"
	tx.OccurredAt = time.Date(2026, 3, 20, 10, 0, 0, 0, time.UTC) // after the trip

	v := anomaly.Evaluate(tx, osakaTrip())

	assert.False(t, v.IsAnomalous)
}

func TestEvaluate_WindowIsInclusiveOfWholeEndDay(t *testing.T) {
	tx := baseTx()
	tx.Category = "Travel"
	tx.Location = "Tokyo, JP"
	tx.OccurredAt = time.Date(2026, 3, 15, 23, 59, 59, 0, time.UTC)

	v := anomaly.Evaluate(tx, osakaTrip())

	assert.True(t, v.IsAnomalous)
}

func TestEvaluate_MatchingCityTokensDoNotFire(t *testing.T) {
	tests := []struct {
		name         string
		txLocation   string
		itinLocation string
	}{
		{name: "IdenticalStrings", txLocation: "Tokyo, JP", itinLocation: "Tokyo, JP"},
		{name: "CityOnlyVersusCityCountry", txLocation: "Tokyo, JP", itinLocation: "Tokyo"},
		{name: "CaseInsensitive", txLocation: "tokyo, jp", itinLocation: "TOKYO, JP"},
		{name: "DifferingCountrySuffix", txLocation: "Tokyo, JP", itinLocation: "Tokyo, Japan"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := baseTx()
			tx.Category = "Travel"
			tx.Location = tt.txLocation

			itin := osakaTrip()
			itin.Location = tt.itinLocation

			v := anomaly.Evaluate(tx, itin)

			assert.False(t, v.IsAnomalous)
		})
	}
}

func TestEvaluate_NoLocationNonTravelSkipsMismatchRule(t *testing.T) {
	tx := baseTx()
	tx.Category = "Groceries"
	tx.Location = ""

	v := anomaly.Evaluate(tx, osakaTrip())

	assert.False(t, v.IsAnomalous)
}

func TestEvaluate_FraudToken(t *testing.T) {
	tests := []struct {
		name      string
		merchant  string
		anomalous bool
	}{
		{name: "ExactWord", merchant: "Fraudulent Charge", anomalous: true},
		{name: "CaseInsensitive", merchant: "FRAUDULENT charge ltd", anomalous: true},
		{name: "Substring", merchant: "totally-fraudulent-store", anomalous: true},
		{name: "CleanMerchant", merchant: "Fresh Fruit Market", anomalous: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := baseTx()
			tx.MerchantName = tt.merchant

			v := anomaly.Evaluate(tx, nil)

			assert.Equal(t, tt.anomalous, v.IsAnomalous)
			if tt.anomalous {
				assert.Contains(t, v.Reason, "known fraud list")
			}
		})
	}
}

// The demo anomaly transaction matches both the amount rule and the
// fraud-token rule; the amount rule wins on priority and its wording is
// what the user sees.
func TestEvaluate_AmountRuleWinsOverFraudToken(t *testing.T) {
	tx := baseTx()
	tx.MerchantName = "Fraudulent Charge"
	tx.Amount = 999.00

	v := anomaly.Evaluate(tx, nil)

	require.True(t, v.IsAnomalous)
	assert.Contains(t, v.Reason, "unusually high")
	assert.NotContains(t, v.Reason, "fraud list")
}

func TestEvaluate_IsDeterministic(t *testing.T) {
	tx := baseTx()
	tx.Category = "Travel"
	tx.Location = "Tokyo, JP"
	itin := osakaTrip()

	first := anomaly.Evaluate(tx, itin)
	second := anomaly.Evaluate(tx, itin)

	assert.Equal(t, first, second)
}

func TestEvaluate_CleanTransaction(t *testing.T) {
	v := anomaly.Evaluate(baseTx(), nil)

	assert.False(t, v.IsAnomalous)
	assert.Empty(t, v.Reason)
}
