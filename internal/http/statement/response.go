package statement

import (
	"time"

	"github.com/google/uuid"

	"github.com/black12-ag/reconcile/internal/reconcile"
	"github.com/black12-ag/reconcile/internal/report"
	"github.com/black12-ag/reconcile/internal/statement"
)

type statementResponse struct {
	ID             uuid.UUID        `json:"id"`
	BankName       string           `json:"bank_name"`
	AccountNumber  string           `json:"account_number"`
	StatementDate  time.Time        `json:"statement_date"`
	UploadedAt     time.Time        `json:"uploaded_at"`
	Status         statement.Status `json:"status"`
	MatchedCount   int              `json:"matched_count"`
	UnmatchedCount int              `json:"unmatched_count"`

	Transactions []transactionResponse `json:"transactions,omitempty"`
}

type transactionResponse struct {
	ID          uuid.UUID        `json:"id"`
	StatementID uuid.UUID        `json:"statement_id"`
	Date        time.Time        `json:"date"`
	Description string           `json:"description"`
	Reference   string           `json:"reference,omitempty"`
	Amount      int64            `json:"amount"`
	Balance     int64            `json:"balance"`
	Type        statement.TxType `json:"type"`
	Flags       []string         `json:"flags,omitempty"`

	Matched          bool       `json:"matched"`
	MatchedPaymentID *uuid.UUID `json:"matched_payment_id,omitempty"`
	MatchConfidence  *int       `json:"match_confidence,omitempty"`
}

func toResponse(stmt *statement.Statement) statementResponse {
	resp := statementResponse{
		ID:             stmt.ID,
		BankName:       stmt.BankName,
		AccountNumber:  stmt.AccountNumber,
		StatementDate:  stmt.StatementDate,
		UploadedAt:     stmt.UploadedAt,
		Status:         stmt.Status,
		MatchedCount:   stmt.MatchedCount,
		UnmatchedCount: stmt.UnmatchedCount,
	}

	if len(stmt.Transactions) > 0 {
		resp.Transactions = toTxResponseList(stmt.Transactions)
	}

	return resp
}

func toResponseList(stmts []*statement.Statement) []statementResponse {
	resp := make([]statementResponse, len(stmts))
	for i, stmt := range stmts {
		resp[i] = toResponse(stmt)
	}

	return resp
}

func toTxResponse(tx *statement.BankTransaction) transactionResponse {
	return transactionResponse{
		ID:               tx.ID,
		StatementID:      tx.StatementID,
		Date:             tx.Date,
		Description:      tx.Description,
		Reference:        tx.Reference,
		Amount:           tx.Amount,
		Balance:          tx.Balance,
		Type:             tx.Type,
		Flags:            tx.Flags,
		Matched:          tx.Matched,
		MatchedPaymentID: tx.MatchedPaymentID,
		MatchConfidence:  tx.MatchConfidence,
	}
}

func toTxResponseList(txs []*statement.BankTransaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toTxResponse(tx)
	}

	return resp
}

type matchResponse struct {
	ID                   uuid.UUID               `json:"id"`
	BankTransactionID    uuid.UUID               `json:"bank_transaction_id"`
	PaymentTransactionID uuid.UUID               `json:"payment_transaction_id"`
	Confidence           int                     `json:"confidence"`
	Type                 reconcile.MatchType     `json:"type"`
	Criteria             []string                `json:"criteria,omitempty"`
	Discrepancies        []reconcile.Discrepancy `json:"discrepancies,omitempty"`
	CreatedAt            time.Time               `json:"created_at"`
}

type reportResponse struct {
	Statement statementResponse `json:"statement"`
	Matches   []matchResponse   `json:"matches"`
	Summary   report.Summary    `json:"summary"`
}

func toReportResponse(rep report.Report) reportResponse {
	matches := make([]matchResponse, len(rep.Matches))
	for i, m := range rep.Matches {
		matches[i] = matchResponse{
			ID:                   m.ID,
			BankTransactionID:    m.BankTransactionID,
			PaymentTransactionID: m.PaymentTransactionID,
			Confidence:           m.Confidence,
			Type:                 m.Type,
			Criteria:             m.Criteria,
			Discrepancies:        m.Discrepancies,
			CreatedAt:            m.CreatedAt,
		}
	}

	return reportResponse{
		Statement: toResponse(rep.Statement),
		Matches:   matches,
		Summary:   rep.Summary,
	}
}
