package statement

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("not found")

// Status represents the reconciliation lifecycle of a statement.
// A statement starts pending, becomes partial once any reconciliation
// attempt has run, and complete once every transaction is matched.
// Status never regresses from partial/complete back to pending.
type Status string

const (
	StatusPending  Status = "pending"
	StatusPartial  Status = "partial"
	StatusComplete Status = "complete"
)

// TxType mirrors the sign of the amount (positive = credit, negative = debit).
type TxType string

const (
	TxCredit TxType = "credit"
	TxDebit  TxType = "debit"
)

// Statement is one uploaded bank statement with its line items.
// MatchedCount, UnmatchedCount and Status are derived from Transactions
// and recomputed after every mutation, never maintained independently.
type Statement struct {
	ID            uuid.UUID
	BankName      string
	AccountNumber string // masked, e.g. "****1234"
	StatementDate time.Time
	UploadedAt    time.Time

	Status         Status
	MatchedCount   int
	UnmatchedCount int

	Transactions []*BankTransaction
}

// BankTransaction is a single statement line. The three match fields are
// set and cleared together: Matched is true iff MatchedPaymentID and
// MatchConfidence are present.
type BankTransaction struct {
	ID          uuid.UUID
	StatementID uuid.UUID
	Date        time.Time
	Description string
	Reference   string
	Amount      int64 // signed cents
	Balance     int64 // running balance in cents
	Type        TxType
	Flags       []string

	Matched          bool
	MatchedPaymentID *uuid.UUID
	MatchConfidence  *int
}

// AbsAmount returns the amount in cents with the sign stripped.
func (t *BankTransaction) AbsAmount() int64 {
	if t.Amount < 0 {
		return -t.Amount
	}

	return t.Amount
}

// TypeForAmount derives the transaction type from the amount sign.
func TypeForAmount(cents int64) TxType {
	if cents < 0 {
		return TxDebit
	}

	return TxCredit
}

// Recount recomputes the derived counters and status from the transaction
// list. Status only moves forward: an already-partial statement whose last
// match is removed stays partial rather than reverting to pending.
func (s *Statement) Recount() {
	matched := 0

	for _, t := range s.Transactions {
		if t.Matched {
			matched++
		}
	}

	s.MatchedCount = matched
	s.UnmatchedCount = len(s.Transactions) - matched

	switch {
	case len(s.Transactions) > 0 && matched == len(s.Transactions):
		s.Status = StatusComplete
	case matched > 0:
		s.Status = StatusPartial
	case s.Status != StatusPending:
		s.Status = StatusPartial
	}
}
