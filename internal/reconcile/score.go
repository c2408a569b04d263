package reconcile

import (
	"math"
	"strings"

	"github.com/black12-ag/reconcile/internal/payment"
	"github.com/black12-ag/reconcile/internal/statement"
)

// Scoring weights. Each component is capped at its weight; the total is
// capped at 100.
const (
	amountWeight      = 40.0
	dateWeight        = 30.0
	referenceWeight   = 20.0
	descriptionWeight = 10.0
)

// Thresholds for automated decisions.
const (
	// AutoMatchThreshold is the minimum score (exclusive) for the engine
	// to commit a match.
	AutoMatchThreshold = 70
	// ExactMatchThreshold separates exact from fuzzy matches (exclusive).
	ExactMatchThreshold = 90
)

// Score computes the match confidence in [0,100] for pairing a bank
// transaction with a payment. It is a pure function: all automated match
// decisions derive from it, so it must stay bit-for-bit reproducible.
func Score(tx *statement.BankTransaction, p *payment.Transaction) int {
	total := amountScore(tx.AbsAmount(), p.Amount) +
		dateScore(daysBetween(tx, p)) +
		referenceScore(tx, p) +
		descriptionScore(tx.Description)

	return int(math.Round(math.Min(100, total)))
}

// amountScore rates the relative amount difference. A zero payment amount
// makes the relative error undefined and contributes nothing.
func amountScore(bankAbs, paymentAmount int64) float64 {
	if paymentAmount == 0 {
		return 0
	}

	diff := math.Abs(float64(bankAbs-paymentAmount)) / float64(paymentAmount)

	switch {
	case diff == 0:
		return amountWeight
	case diff < 0.01:
		return 35
	case diff < 0.05:
		return 25
	default:
		return math.Max(0, 20-diff*100)
	}
}

func dateScore(days int) float64 {
	switch {
	case days == 0:
		return dateWeight
	case days <= 1:
		return 25
	case days <= 3:
		return 15
	default:
		return math.Max(0, float64(10-days))
	}
}

// referenceScore checks whether the bank reference carries the tail of the
// payment id, with a weaker fallback on the word "payment" in the
// description.
func referenceScore(tx *statement.BankTransaction, p *payment.Transaction) float64 {
	if strings.Contains(tx.Reference, paymentIDTail(p)) {
		return referenceWeight
	}

	if strings.Contains(strings.ToLower(tx.Description), "payment") {
		return 10
	}

	return 0
}

func descriptionScore(description string) float64 {
	lower := strings.ToLower(description)
	if strings.Contains(lower, "booking") || strings.Contains(lower, "reservation") {
		return descriptionWeight
	}

	return 0
}

// paymentIDTail returns the last 8 characters of the payment id, the part
// banks typically retain in reference fields.
func paymentIDTail(p *payment.Transaction) string {
	id := p.ID.String()
	if len(id) <= 8 {
		return id
	}

	return id[len(id)-8:]
}

// daysBetween returns the gap between the bank date and the payment
// creation time in whole days.
func daysBetween(tx *statement.BankTransaction, p *payment.Transaction) int {
	diff := tx.Date.Sub(p.CreatedAt)
	if diff < 0 {
		diff = -diff
	}

	return int(diff.Hours() / 24)
}
