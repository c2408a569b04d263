package statement

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=statement
type Repository interface {
	CreateStatement(ctx context.Context, stmt *Statement) error
	GetStatement(ctx context.Context, id uuid.UUID) (*Statement, error)
	ListStatements(ctx context.Context) ([]*Statement, error)

	GetTransaction(ctx context.Context, id uuid.UUID) (*BankTransaction, error)
	ListTransactions(ctx context.Context, statementID uuid.UUID, filter TxFilter) ([]*BankTransaction, error)

	UpdateMatchState(ctx context.Context, txID uuid.UUID, paymentID *uuid.UUID, confidence *int) error
	UpdateStatementCounters(ctx context.Context, id uuid.UUID, status Status, matched, unmatched int) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	BankName      string
	AccountNumber string
	StatementDate time.Time
	Transactions  []TransactionParams
}

type TransactionParams struct {
	Date        time.Time
	Description string
	Reference   string
	Amount      int64 // signed cents
	Balance     int64
	Flags       []string
}

// TxFilter narrows transaction listings. Query is matched as a substring
// of description or reference; Matched filters by match state.
type TxFilter struct {
	Query   string
	Matched *bool
}

// Create builds a statement from parsed upload rows and persists it.
// The new statement starts pending with all transactions unmatched.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Statement, error) {
	stmt := &Statement{
		BankName:      params.BankName,
		AccountNumber: maskAccount(params.AccountNumber),
		StatementDate: params.StatementDate,
		Status:        StatusPending,
		Transactions:  make([]*BankTransaction, 0, len(params.Transactions)),
	}

	for _, p := range params.Transactions {
		stmt.Transactions = append(stmt.Transactions, &BankTransaction{
			Date:        p.Date,
			Description: p.Description,
			Reference:   p.Reference,
			Amount:      p.Amount,
			Balance:     p.Balance,
			Type:        TypeForAmount(p.Amount),
			Flags:       p.Flags,
		})
	}

	stmt.UnmatchedCount = len(stmt.Transactions)

	if err := s.repo.CreateStatement(ctx, stmt); err != nil {
		return nil, fmt.Errorf("creating statement: %w", err)
	}

	return stmt, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Statement, error) {
	return s.repo.GetStatement(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Statement, error) {
	return s.repo.ListStatements(ctx)
}

func (s *Service) GetTransaction(ctx context.Context, id uuid.UUID) (*BankTransaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *Service) SearchTransactions(ctx context.Context, statementID uuid.UUID, filter TxFilter) ([]*BankTransaction, error) {
	return s.repo.ListTransactions(ctx, statementID, filter)
}

// SetMatch marks a transaction as matched against a payment.
func (s *Service) SetMatch(ctx context.Context, txID, paymentID uuid.UUID, confidence int) error {
	return s.repo.UpdateMatchState(ctx, txID, &paymentID, &confidence)
}

// ClearMatch resets a transaction to unmatched.
func (s *Service) ClearMatch(ctx context.Context, txID uuid.UUID) error {
	return s.repo.UpdateMatchState(ctx, txID, nil, nil)
}

// SaveCounters persists the derived counters and status of a statement,
// typically right after Recount.
func (s *Service) SaveCounters(ctx context.Context, stmt *Statement) error {
	return s.repo.UpdateStatementCounters(ctx, stmt.ID, stmt.Status, stmt.MatchedCount, stmt.UnmatchedCount)
}

// maskAccount keeps only the last four characters of an account number.
func maskAccount(account string) string {
	if len(account) <= 4 {
		return account
	}

	return "****" + account[len(account)-4:]
}
