// Package report builds the downloadable reconciliation report for a
// statement. Building a report is a pure read: it never mutates the
// statement or its matches.
package report

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/black12-ag/reconcile/internal/reconcile"
	"github.com/black12-ag/reconcile/internal/statement"
)

type Report struct {
	Statement *statement.Statement `json:"statement"`
	Matches   []*reconcile.Match   `json:"matches"`
	Summary   Summary              `json:"summary"`
}

type Summary struct {
	TotalTransactions     int    `json:"totalTransactions"`
	MatchedTransactions   int    `json:"matchedTransactions"`
	UnmatchedTransactions int    `json:"unmatchedTransactions"`
	ReconciliationRate    string `json:"reconciliationRate"` // percentage, 2 decimals
}

func Build(stmt *statement.Statement, matches []*reconcile.Match) Report {
	matched := 0

	for _, t := range stmt.Transactions {
		if t.Matched {
			matched++
		}
	}

	total := len(stmt.Transactions)

	rate := 0.0
	if total > 0 {
		rate = float64(matched) / float64(total) * 100
	}

	return Report{
		Statement: stmt,
		Matches:   matches,
		Summary: Summary{
			TotalTransactions:     total,
			MatchedTransactions:   matched,
			UnmatchedTransactions: total - matched,
			ReconciliationRate:    fmt.Sprintf("%.2f", rate),
		},
	}
}

// Filename returns the artifact name the report is downloaded under.
func Filename(statementID uuid.UUID) string {
	return fmt.Sprintf("reconciliation_report_%s.json", statementID)
}
