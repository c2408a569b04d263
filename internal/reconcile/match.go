package reconcile

import (
	"time"

	"github.com/google/uuid"

	"github.com/black12-ag/reconcile/internal/rule"
)

// MatchType classifies how a match was asserted.
type MatchType string

const (
	MatchExact  MatchType = "exact"  // confidence > 90
	MatchFuzzy  MatchType = "fuzzy"  // 70 < confidence <= 90
	MatchManual MatchType = "manual" // operator override, confidence fixed at 100
)

// Match is a committed pairing of one bank transaction and one payment.
// Matches are append/remove only: unmatching deletes the record rather
// than editing it, and a record exists exactly as long as its bank
// transaction is matched.
type Match struct {
	ID                   uuid.UUID
	BankTransactionID    uuid.UUID
	PaymentTransactionID uuid.UUID
	Confidence           int
	Type                 MatchType
	Criteria             []string
	Discrepancies        []Discrepancy
	CreatedAt            time.Time
}

// Discrepancy records a field that differed between the two sides of a
// committed match.
type Discrepancy struct {
	Field    string     `json:"field"`
	Expected rule.Value `json:"expected"`
	Actual   rule.Value `json:"actual"`
}

// matchTypeForScore classifies an automated match by its confidence.
func matchTypeForScore(confidence int) MatchType {
	if confidence > ExactMatchThreshold {
		return MatchExact
	}

	return MatchFuzzy
}
