// Package anomaly implements the rule-based transaction anomaly check.
//
// Evaluation is a pure function over one transaction and the user's current
// itinerary (which may be absent). Rules run in a fixed priority order and
// the first match wins; the order is a frozen contract:
//
//  1. Amount threshold: high-value purchases are always flagged, wherever
//     they happened.
//  2. Itinerary mismatch: a location that contradicts the user's own
//     declared travel window.
//  3. Known fraud token: deterministic demo hook on the merchant name.
package anomaly

import (
	"fmt"
	"strings"

	"finguard/internal/models"
)

// AmountThreshold is the currency-unit amount above which a transaction is
// flagged unconditionally.
const AmountThreshold = 900

// CategoryTravel marks transactions the itinerary rule always considers,
// even without an explicit location.
const CategoryTravel = "Travel"

// fraudToken flags a merchant regardless of amount or location. It exists
// to give demos and tests a reproducible anomaly.
const fraudToken = "fraudulent"

// Verdict is the outcome of evaluating one transaction against one
// itinerary. It is produced fresh per evaluation and never cached.
type Verdict struct {
	IsAnomalous bool
	Reason      string
}

// Evaluate runs the rule set against tx. itin may be nil, which disables
// the itinerary-mismatch rule. Evaluate is total: it always returns a
// verdict and can never fail.
func Evaluate(tx *models.Transaction, itin *models.Itinerary) Verdict {
	if tx.Amount > AmountThreshold {
		return Verdict{
			IsAnomalous: true,
			Reason:      fmt.Sprintf("The amount of %.2f is unusually high for this account.", tx.Amount),
		}
	}

	if v, flagged := checkItineraryMismatch(tx, itin); flagged {
		return v
	}

	if strings.Contains(strings.ToLower(tx.MerchantName), fraudToken) {
		return Verdict{
			IsAnomalous: true,
			Reason:      fmt.Sprintf("The merchant %q is on a known fraud list.", tx.MerchantName),
		}
	}

	return Verdict{}
}

// checkItineraryMismatch flags a transaction whose location contradicts the
// declared travel itinerary. The rule only applies to travel-like purchases
// (Travel category or an explicit location) and only while the transaction
// timestamp falls inside the itinerary window: a mismatch outside the
// user's own declared dates is not treated as suspicious.
func checkItineraryMismatch(tx *models.Transaction, itin *models.Itinerary) (Verdict, bool) {
	if itin == nil {
		return Verdict{}, false
	}
	if tx.Category != CategoryTravel && tx.Location == "" {
		return Verdict{}, false
	}

	txCity := cityToken(tx.Location)
	itinCity := cityToken(itin.Location)
	if txCity == "" || itinCity == "" || txCity == itinCity {
		return Verdict{}, false
	}

	if !itin.Covers(tx.OccurredAt) {
		return Verdict{}, false
	}

	return Verdict{
		IsAnomalous: true,
		Reason: fmt.Sprintf("The transaction happened in %q while your itinerary says you are in %q.",
			tx.Location, itin.Location),
	}, true
}

// cityToken reduces a "City, Country-code" location to a comparable token:
// the lowercased text before the first comma. The comparison is purely
// textual, not geocoded, so "Tokyo, JP" and "Tokyo" both reduce to "tokyo".
func cityToken(location string) string {
	city := location
	if i := strings.Index(location, ","); i >= 0 {
		city = location[:i]
	}
	return strings.ToLower(strings.TrimSpace(city))
}
