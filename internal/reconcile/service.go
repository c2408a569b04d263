package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/black12-ag/reconcile/internal/payment"
	"github.com/black12-ag/reconcile/internal/rule"
	"github.com/black12-ag/reconcile/internal/statement"
)

// ErrRunning is returned when a reconciliation run is requested for a
// statement that already has one in flight.
var ErrRunning = errors.New("reconciliation already running for statement")

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=reconcile
type Repository interface {
	CreateMatch(ctx context.Context, m *Match) error
	DeleteMatchByBankTransaction(ctx context.Context, bankTxID uuid.UUID) error
	ListMatchesByStatement(ctx context.Context, statementID uuid.UUID) ([]*Match, error)
	ListMatchedPaymentIDs(ctx context.Context) (map[uuid.UUID]struct{}, error)
}

// Candidate window: payments within one currency unit of the bank amount
// and whose creation time is within three days of the statement line date.
const (
	candidateAmountToleranceCents = 100
	candidateWindowDays           = 3
)

type Service struct {
	statements *statement.Service
	payments   *payment.Service
	repo       Repository

	// bestMatch scores every candidate and keeps the maximum instead of
	// taking the first candidate in ledger order.
	bestMatch bool

	mu      sync.Mutex
	running map[uuid.UUID]struct{}
}

func NewService(statements *statement.Service, payments *payment.Service, repo Repository, bestMatch bool) *Service {
	return &Service{
		statements: statements,
		payments:   payments,
		repo:       repo,
		bestMatch:  bestMatch,
		running:    make(map[uuid.UUID]struct{}),
	}
}

// Run attempts to match every unmatched transaction of the statement
// against the payment ledger and returns the number of newly matched
// transactions. Already-matched transactions are skipped, so repeated runs
// never re-score or overwrite settled matches. At most one run per
// statement may be in flight; a concurrent request gets ErrRunning.
func (s *Service) Run(ctx context.Context, statementID uuid.UUID) (int, error) {
	if !s.begin(statementID) {
		return 0, ErrRunning
	}
	defer s.end(statementID)

	stmt, err := s.statements.Get(ctx, statementID)
	if err != nil {
		return 0, err
	}

	payments, err := s.payments.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("loading payment ledger: %w", err)
	}

	newlyMatched := 0

	for _, tx := range stmt.Transactions {
		if tx.Matched {
			continue
		}

		best, confidence := s.pick(tx, payments)
		if best == nil || confidence <= AutoMatchThreshold {
			continue
		}

		if err := s.commit(ctx, tx, best, confidence, matchTypeForScore(confidence), autoCriteria(), autoDiscrepancies(tx, best)); err != nil {
			return newlyMatched, fmt.Errorf("reconciling statement %s: %w", statementID, err)
		}

		newlyMatched++
	}

	stmt.Recount()

	// A statement that has been through a run is no longer pending, even
	// when nothing matched.
	if stmt.Status == statement.StatusPending {
		stmt.Status = statement.StatusPartial
	}

	if err := s.statements.SaveCounters(ctx, stmt); err != nil {
		return newlyMatched, fmt.Errorf("reconciling statement %s: %w", statementID, err)
	}

	return newlyMatched, nil
}

// pick selects the candidate payment for a bank transaction, either the
// first one in ledger order or, when bestMatch is on, the highest scoring.
func (s *Service) pick(tx *statement.BankTransaction, payments []*payment.Transaction) (*payment.Transaction, int) {
	var best *payment.Transaction

	bestScore := -1

	for _, p := range payments {
		if !isCandidate(tx, p) {
			continue
		}

		if !s.bestMatch {
			return p, Score(tx, p)
		}

		if score := Score(tx, p); score > bestScore {
			best = p
			bestScore = score
		}
	}

	return best, bestScore
}

func isCandidate(tx *statement.BankTransaction, p *payment.Transaction) bool {
	diff := p.Amount - tx.AbsAmount()
	if diff < 0 {
		diff = -diff
	}

	if diff >= candidateAmountToleranceCents {
		return false
	}

	gap := tx.Date.Sub(p.CreatedAt)
	if gap < 0 {
		gap = -gap
	}

	return gap.Hours() < candidateWindowDays*24
}

// ManualMatch pairs a bank transaction with a payment at confidence 100,
// bypassing scoring. Missing ids and already-matched bank transactions are
// tolerated as no-ops: the operator console drives this path and stale
// selections are expected.
func (s *Service) ManualMatch(ctx context.Context, bankTxID, paymentID uuid.UUID) error {
	tx, err := s.statements.GetTransaction(ctx, bankTxID)
	if err != nil {
		if errors.Is(err, statement.ErrNotFound) {
			return nil
		}

		return err
	}

	if tx.Matched {
		return nil
	}

	p, err := s.payments.Get(ctx, paymentID)
	if err != nil {
		if errors.Is(err, payment.ErrNotFound) {
			return nil
		}

		return err
	}

	if err := s.commit(ctx, tx, p, 100, MatchManual, []string{"manual_selection"}, nil); err != nil {
		return fmt.Errorf("manual match: %w", err)
	}

	return s.recountStatement(ctx, tx.StatementID)
}

// Unmatch reverts a bank transaction to unmatched and removes its match
// record. Unmatching an already-unmatched transaction is a no-op.
func (s *Service) Unmatch(ctx context.Context, bankTxID uuid.UUID) error {
	tx, err := s.statements.GetTransaction(ctx, bankTxID)
	if err != nil {
		if errors.Is(err, statement.ErrNotFound) {
			return nil
		}

		return err
	}

	if !tx.Matched {
		return nil
	}

	if err := s.statements.ClearMatch(ctx, tx.ID); err != nil {
		return fmt.Errorf("unmatching transaction: %w", err)
	}

	if err := s.repo.DeleteMatchByBankTransaction(ctx, tx.ID); err != nil {
		return fmt.Errorf("removing match record: %w", err)
	}

	return s.recountStatement(ctx, tx.StatementID)
}

// CandidatePayments lists payments selectable for a manual match: every
// ledger entry not already referenced by a match. This is a presentation
// filter for the operator, not an engine invariant.
func (s *Service) CandidatePayments(ctx context.Context) ([]*payment.Transaction, error) {
	payments, err := s.payments.List(ctx)
	if err != nil {
		return nil, err
	}

	used, err := s.repo.ListMatchedPaymentIDs(ctx)
	if err != nil {
		return nil, err
	}

	available := make([]*payment.Transaction, 0, len(payments))

	for _, p := range payments {
		if _, taken := used[p.ID]; taken {
			continue
		}

		available = append(available, p)
	}

	return available, nil
}

// MatchesForStatement returns all committed matches referencing the
// statement's transactions.
func (s *Service) MatchesForStatement(ctx context.Context, statementID uuid.UUID) ([]*Match, error) {
	return s.repo.ListMatchesByStatement(ctx, statementID)
}

// commit applies one match: bank transaction state first, then the match
// record, keeping the pair a single logical unit per transaction.
func (s *Service) commit(ctx context.Context, tx *statement.BankTransaction, p *payment.Transaction, confidence int, matchType MatchType, criteria []string, discrepancies []Discrepancy) error {
	if err := s.statements.SetMatch(ctx, tx.ID, p.ID, confidence); err != nil {
		return err
	}

	tx.Matched = true
	tx.MatchedPaymentID = &p.ID
	tx.MatchConfidence = &confidence

	return s.repo.CreateMatch(ctx, &Match{
		BankTransactionID:    tx.ID,
		PaymentTransactionID: p.ID,
		Confidence:           confidence,
		Type:                 matchType,
		Criteria:             criteria,
		Discrepancies:        discrepancies,
	})
}

func (s *Service) recountStatement(ctx context.Context, statementID uuid.UUID) error {
	stmt, err := s.statements.Get(ctx, statementID)
	if err != nil {
		return err
	}

	stmt.Recount()

	return s.statements.SaveCounters(ctx, stmt)
}

func autoCriteria() []string {
	return []string{"amount", "date"}
}

// autoDiscrepancies records the fields that differ on an automated match.
func autoDiscrepancies(tx *statement.BankTransaction, p *payment.Transaction) []Discrepancy {
	var ds []Discrepancy

	if tx.AbsAmount() != p.Amount {
		ds = append(ds, Discrepancy{
			Field:    "amount",
			Expected: rule.Number(float64(p.Amount) / 100),
			Actual:   rule.Number(float64(tx.AbsAmount()) / 100),
		})
	}

	if days := daysBetween(tx, p); days > 0 {
		ds = append(ds, Discrepancy{
			Field:    "date",
			Expected: rule.String(p.CreatedAt.Format("2006-01-02")),
			Actual:   rule.String(tx.Date.Format("2006-01-02")),
		})
	}

	return ds
}

func (s *Service) begin(statementID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, inFlight := s.running[statementID]; inFlight {
		return false
	}

	s.running[statementID] = struct{}{}

	return true
}

func (s *Service) end(statementID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.running, statementID)
}
