package reconcile_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/black12-ag/reconcile/internal/payment"
	"github.com/black12-ag/reconcile/internal/reconcile"
	"github.com/black12-ag/reconcile/internal/statement"
)

type testMocks struct {
	stmtRepo  *statement.MockRepository
	payRepo   *payment.MockRepository
	matchRepo *reconcile.MockRepository
}

func newTestService(t *testing.T, bestMatch bool) (*reconcile.Service, testMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)

	mocks := testMocks{
		stmtRepo:  statement.NewMockRepository(ctrl),
		payRepo:   payment.NewMockRepository(ctrl),
		matchRepo: reconcile.NewMockRepository(ctrl),
	}

	svc := reconcile.NewService(
		statement.NewService(mocks.stmtRepo),
		payment.NewService(mocks.payRepo),
		mocks.matchRepo,
		bestMatch,
	)

	return svc, mocks
}

func TestService_Run(t *testing.T) {
	base := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("ExactMatchCommitted", func(t *testing.T) {
		svc, mocks := newTestService(t, false)

		p := testPayment(5000, base)
		tx := &statement.BankTransaction{
			ID:          uuid.New(),
			Amount:      5000,
			Date:        base,
			Description: "Booking payment",
			Reference:   "PAY-" + idTail(p),
		}
		stmt := &statement.Statement{
			ID:           uuid.New(),
			Status:       statement.StatusPending,
			Transactions: []*statement.BankTransaction{tx},
		}

		mocks.stmtRepo.EXPECT().
			GetStatement(gomock.Any(), stmt.ID).
			Return(stmt, nil)
		mocks.payRepo.EXPECT().
			ListTransactions(gomock.Any()).
			Return([]*payment.Transaction{p}, nil)
		mocks.stmtRepo.EXPECT().
			UpdateMatchState(gomock.Any(), tx.ID, gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ uuid.UUID, paymentID *uuid.UUID, confidence *int) error {
				require.NotNil(t, paymentID)
				require.NotNil(t, confidence)
				assert.Equal(t, p.ID, *paymentID)
				assert.Equal(t, 100, *confidence)
				return nil
			})
		mocks.matchRepo.EXPECT().
			CreateMatch(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, m *reconcile.Match) error {
				assert.Equal(t, tx.ID, m.BankTransactionID)
				assert.Equal(t, p.ID, m.PaymentTransactionID)
				assert.Equal(t, reconcile.MatchExact, m.Type)
				assert.Equal(t, 100, m.Confidence)
				assert.Equal(t, []string{"amount", "date"}, m.Criteria)
				assert.Empty(t, m.Discrepancies)
				return nil
			})
		mocks.stmtRepo.EXPECT().
			UpdateStatementCounters(gomock.Any(), stmt.ID, statement.StatusComplete, 1, 0).
			Return(nil)

		matched, err := svc.Run(context.Background(), stmt.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, matched)
		assert.True(t, tx.Matched)
	})

	t.Run("FuzzyMatchRecordsDiscrepancies", func(t *testing.T) {
		svc, mocks := newTestService(t, false)

		p := testPayment(5000, base)
		tx := &statement.BankTransaction{
			ID:          uuid.New(),
			Amount:      5010,
			Date:        base.Add(24 * time.Hour),
			Description: "Booking transfer",
			Reference:   "PAY-" + idTail(p),
		}
		stmt := &statement.Statement{
			ID:           uuid.New(),
			Status:       statement.StatusPending,
			Transactions: []*statement.BankTransaction{tx},
		}

		mocks.stmtRepo.EXPECT().GetStatement(gomock.Any(), stmt.ID).Return(stmt, nil)
		mocks.payRepo.EXPECT().ListTransactions(gomock.Any()).Return([]*payment.Transaction{p}, nil)
		mocks.stmtRepo.EXPECT().
			UpdateMatchState(gomock.Any(), tx.ID, gomock.Any(), gomock.Any()).
			Return(nil)
		mocks.matchRepo.EXPECT().
			CreateMatch(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, m *reconcile.Match) error {
				// amount 35 + date 25 + reference 20 + description 10 = 90
				assert.Equal(t, reconcile.MatchFuzzy, m.Type)
				assert.Equal(t, 90, m.Confidence)
				assert.Len(t, m.Discrepancies, 2)
				return nil
			})
		mocks.stmtRepo.EXPECT().
			UpdateStatementCounters(gomock.Any(), stmt.ID, statement.StatusComplete, 1, 0).
			Return(nil)

		matched, err := svc.Run(context.Background(), stmt.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, matched)
	})

	t.Run("BelowThresholdStaysUnmatched", func(t *testing.T) {
		svc, mocks := newTestService(t, false)

		p := testPayment(5000, base)
		tx := &statement.BankTransaction{
			ID:          uuid.New(),
			Amount:      5040,
			Date:        base.Add(24 * time.Hour),
			Description: "transfer",
		}
		stmt := &statement.Statement{
			ID:           uuid.New(),
			Status:       statement.StatusPending,
			Transactions: []*statement.BankTransaction{tx},
		}

		mocks.stmtRepo.EXPECT().GetStatement(gomock.Any(), stmt.ID).Return(stmt, nil)
		mocks.payRepo.EXPECT().ListTransactions(gomock.Any()).Return([]*payment.Transaction{p}, nil)
		// Scores 60, which is below the auto-match cutoff. Still, the
		// statement leaves pending once a run has happened.
		mocks.stmtRepo.EXPECT().
			UpdateStatementCounters(gomock.Any(), stmt.ID, statement.StatusPartial, 0, 1).
			Return(nil)

		matched, err := svc.Run(context.Background(), stmt.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, matched)
		assert.False(t, tx.Matched)
	})

	t.Run("OutsideCandidateWindowNeverScored", func(t *testing.T) {
		svc, mocks := newTestService(t, false)

		farAmount := testPayment(9000, base)
		farDate := testPayment(5000, base.Add(-5*24*time.Hour))
		tx := &statement.BankTransaction{
			ID:          uuid.New(),
			Amount:      5000,
			Date:        base,
			Description: "transfer",
		}
		stmt := &statement.Statement{
			ID:           uuid.New(),
			Status:       statement.StatusPending,
			Transactions: []*statement.BankTransaction{tx},
		}

		mocks.stmtRepo.EXPECT().GetStatement(gomock.Any(), stmt.ID).Return(stmt, nil)
		mocks.payRepo.EXPECT().
			ListTransactions(gomock.Any()).
			Return([]*payment.Transaction{farAmount, farDate}, nil)
		mocks.stmtRepo.EXPECT().
			UpdateStatementCounters(gomock.Any(), stmt.ID, statement.StatusPartial, 0, 1).
			Return(nil)

		matched, err := svc.Run(context.Background(), stmt.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, matched)
	})

	t.Run("MatchedTransactionsSkipped", func(t *testing.T) {
		svc, mocks := newTestService(t, false)

		pID := uuid.New()
		conf := 95
		tx := &statement.BankTransaction{
			ID:               uuid.New(),
			Amount:           5000,
			Date:             base,
			Matched:          true,
			MatchedPaymentID: &pID,
			MatchConfidence:  &conf,
		}
		stmt := &statement.Statement{
			ID:           uuid.New(),
			Status:       statement.StatusPartial,
			Transactions: []*statement.BankTransaction{tx},
		}

		mocks.stmtRepo.EXPECT().GetStatement(gomock.Any(), stmt.ID).Return(stmt, nil)
		mocks.payRepo.EXPECT().
			ListTransactions(gomock.Any()).
			Return([]*payment.Transaction{testPayment(5000, base)}, nil)
		mocks.stmtRepo.EXPECT().
			UpdateStatementCounters(gomock.Any(), stmt.ID, statement.StatusComplete, 1, 0).
			Return(nil)

		matched, err := svc.Run(context.Background(), stmt.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, matched)
		assert.Equal(t, &pID, tx.MatchedPaymentID)
	})

	t.Run("StatementNotFound", func(t *testing.T) {
		svc, mocks := newTestService(t, false)

		id := uuid.New()
		mocks.stmtRepo.EXPECT().GetStatement(gomock.Any(), id).Return(nil, statement.ErrNotFound)

		_, err := svc.Run(context.Background(), id)
		assert.ErrorIs(t, err, statement.ErrNotFound)
	})

	t.Run("ConcurrentRunRejected", func(t *testing.T) {
		svc, mocks := newTestService(t, false)

		stmt := &statement.Statement{ID: uuid.New(), Status: statement.StatusPending}

		started := make(chan struct{})
		release := make(chan struct{})

		mocks.stmtRepo.EXPECT().
			GetStatement(gomock.Any(), stmt.ID).
			DoAndReturn(func(context.Context, uuid.UUID) (*statement.Statement, error) {
				close(started)
				<-release
				return stmt, nil
			})
		mocks.payRepo.EXPECT().ListTransactions(gomock.Any()).Return(nil, nil)
		mocks.stmtRepo.EXPECT().
			UpdateStatementCounters(gomock.Any(), stmt.ID, statement.StatusPartial, 0, 0).
			Return(nil)

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Run(context.Background(), stmt.ID)
			assert.NoError(t, err)
		}()

		<-started
		_, err := svc.Run(context.Background(), stmt.ID)
		assert.ErrorIs(t, err, reconcile.ErrRunning)

		close(release)
		wg.Wait()

		// Once the first run finishes, the statement can be run again.
		mocks.stmtRepo.EXPECT().GetStatement(gomock.Any(), stmt.ID).Return(stmt, nil)
		mocks.payRepo.EXPECT().ListTransactions(gomock.Any()).Return(nil, nil)
		mocks.stmtRepo.EXPECT().
			UpdateStatementCounters(gomock.Any(), stmt.ID, statement.StatusPartial, 0, 0).
			Return(nil)

		_, err = svc.Run(context.Background(), stmt.ID)
		assert.NoError(t, err)
	})

	t.Run("FirstCandidateWinsByDefault", func(t *testing.T) {
		svc, mocks := newTestService(t, false)

		first := testPayment(5000, base)
		second := testPayment(5000, base)
		tx := &statement.BankTransaction{
			ID:          uuid.New(),
			Amount:      5000,
			Date:        base,
			Description: "Booking deposit",
			Reference:   "PAY-" + idTail(second),
		}
		stmt := &statement.Statement{
			ID:           uuid.New(),
			Status:       statement.StatusPending,
			Transactions: []*statement.BankTransaction{tx},
		}

		mocks.stmtRepo.EXPECT().GetStatement(gomock.Any(), stmt.ID).Return(stmt, nil)
		mocks.payRepo.EXPECT().
			ListTransactions(gomock.Any()).
			Return([]*payment.Transaction{first, second}, nil)
		mocks.stmtRepo.EXPECT().
			UpdateMatchState(gomock.Any(), tx.ID, gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ uuid.UUID, paymentID *uuid.UUID, _ *int) error {
				assert.Equal(t, first.ID, *paymentID)
				return nil
			})
		mocks.matchRepo.EXPECT().CreateMatch(gomock.Any(), gomock.Any()).Return(nil)
		mocks.stmtRepo.EXPECT().
			UpdateStatementCounters(gomock.Any(), stmt.ID, statement.StatusComplete, 1, 0).
			Return(nil)

		_, err := svc.Run(context.Background(), stmt.ID)
		require.NoError(t, err)
	})

	t.Run("BestMatchPicksHighestScore", func(t *testing.T) {
		svc, mocks := newTestService(t, true)

		first := testPayment(5000, base)
		second := testPayment(5000, base)
		tx := &statement.BankTransaction{
			ID:          uuid.New(),
			Amount:      5000,
			Date:        base,
			Description: "Booking deposit",
			Reference:   "PAY-" + idTail(second),
		}
		stmt := &statement.Statement{
			ID:           uuid.New(),
			Status:       statement.StatusPending,
			Transactions: []*statement.BankTransaction{tx},
		}

		mocks.stmtRepo.EXPECT().GetStatement(gomock.Any(), stmt.ID).Return(stmt, nil)
		mocks.payRepo.EXPECT().
			ListTransactions(gomock.Any()).
			Return([]*payment.Transaction{first, second}, nil)
		mocks.stmtRepo.EXPECT().
			UpdateMatchState(gomock.Any(), tx.ID, gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ uuid.UUID, paymentID *uuid.UUID, _ *int) error {
				assert.Equal(t, second.ID, *paymentID)
				return nil
			})
		mocks.matchRepo.EXPECT().CreateMatch(gomock.Any(), gomock.Any()).Return(nil)
		mocks.stmtRepo.EXPECT().
			UpdateStatementCounters(gomock.Any(), stmt.ID, statement.StatusComplete, 1, 0).
			Return(nil)

		_, err := svc.Run(context.Background(), stmt.ID)
		require.NoError(t, err)
	})
}

func TestService_ManualMatch(t *testing.T) {
	base := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("Success", func(t *testing.T) {
		svc, mocks := newTestService(t, false)

		p := testPayment(9999, base.Add(30*24*time.Hour))
		tx := &statement.BankTransaction{
			ID:          uuid.New(),
			StatementID: uuid.New(),
			Amount:      5000,
			Date:        base,
		}
		stmt := &statement.Statement{
			ID:           tx.StatementID,
			Status:       statement.StatusPartial,
			Transactions: []*statement.BankTransaction{tx},
		}

		mocks.stmtRepo.EXPECT().GetTransaction(gomock.Any(), tx.ID).Return(tx, nil)
		mocks.payRepo.EXPECT().GetTransaction(gomock.Any(), p.ID).Return(p, nil)
		mocks.stmtRepo.EXPECT().
			UpdateMatchState(gomock.Any(), tx.ID, gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ uuid.UUID, paymentID *uuid.UUID, confidence *int) error {
				assert.Equal(t, p.ID, *paymentID)
				assert.Equal(t, 100, *confidence)
				return nil
			})
		mocks.matchRepo.EXPECT().
			CreateMatch(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, m *reconcile.Match) error {
				assert.Equal(t, reconcile.MatchManual, m.Type)
				assert.Equal(t, 100, m.Confidence)
				assert.Equal(t, []string{"manual_selection"}, m.Criteria)
				return nil
			})
		mocks.stmtRepo.EXPECT().GetStatement(gomock.Any(), stmt.ID).Return(stmt, nil)
		mocks.stmtRepo.EXPECT().
			UpdateStatementCounters(gomock.Any(), stmt.ID, statement.StatusComplete, 1, 0).
			Return(nil)

		err := svc.ManualMatch(context.Background(), tx.ID, p.ID)
		require.NoError(t, err)
		assert.True(t, tx.Matched)
	})

	t.Run("UnknownTransactionIsNoop", func(t *testing.T) {
		svc, mocks := newTestService(t, false)

		txID := uuid.New()
		mocks.stmtRepo.EXPECT().GetTransaction(gomock.Any(), txID).Return(nil, statement.ErrNotFound)

		err := svc.ManualMatch(context.Background(), txID, uuid.New())
		assert.NoError(t, err)
	})

	t.Run("AlreadyMatchedIsNoop", func(t *testing.T) {
		svc, mocks := newTestService(t, false)

		tx := &statement.BankTransaction{ID: uuid.New(), Matched: true}
		mocks.stmtRepo.EXPECT().GetTransaction(gomock.Any(), tx.ID).Return(tx, nil)

		err := svc.ManualMatch(context.Background(), tx.ID, uuid.New())
		assert.NoError(t, err)
	})

	t.Run("UnknownPaymentIsNoop", func(t *testing.T) {
		svc, mocks := newTestService(t, false)

		tx := &statement.BankTransaction{ID: uuid.New()}
		pID := uuid.New()

		mocks.stmtRepo.EXPECT().GetTransaction(gomock.Any(), tx.ID).Return(tx, nil)
		mocks.payRepo.EXPECT().GetTransaction(gomock.Any(), pID).Return(nil, payment.ErrNotFound)

		err := svc.ManualMatch(context.Background(), tx.ID, pID)
		assert.NoError(t, err)
		assert.False(t, tx.Matched)
	})
}

func TestService_Unmatch(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc, mocks := newTestService(t, false)

		pID := uuid.New()
		conf := 100
		tx := &statement.BankTransaction{
			ID:               uuid.New(),
			StatementID:      uuid.New(),
			Matched:          true,
			MatchedPaymentID: &pID,
			MatchConfidence:  &conf,
		}
		stmt := &statement.Statement{
			ID:           tx.StatementID,
			Status:       statement.StatusComplete,
			Transactions: []*statement.BankTransaction{{ID: tx.ID}},
		}

		mocks.stmtRepo.EXPECT().GetTransaction(gomock.Any(), tx.ID).Return(tx, nil)
		mocks.stmtRepo.EXPECT().
			UpdateMatchState(gomock.Any(), tx.ID, gomock.Nil(), gomock.Nil()).
			Return(nil)
		mocks.matchRepo.EXPECT().DeleteMatchByBankTransaction(gomock.Any(), tx.ID).Return(nil)
		mocks.stmtRepo.EXPECT().GetStatement(gomock.Any(), stmt.ID).Return(stmt, nil)
		mocks.stmtRepo.EXPECT().
			UpdateStatementCounters(gomock.Any(), stmt.ID, statement.StatusPartial, 0, 1).
			Return(nil)

		err := svc.Unmatch(context.Background(), tx.ID)
		require.NoError(t, err)
	})

	t.Run("UnmatchedIsNoop", func(t *testing.T) {
		svc, mocks := newTestService(t, false)

		tx := &statement.BankTransaction{ID: uuid.New()}
		mocks.stmtRepo.EXPECT().GetTransaction(gomock.Any(), tx.ID).Return(tx, nil)

		err := svc.Unmatch(context.Background(), tx.ID)
		assert.NoError(t, err)
	})

	t.Run("UnknownTransactionIsNoop", func(t *testing.T) {
		svc, mocks := newTestService(t, false)

		txID := uuid.New()
		mocks.stmtRepo.EXPECT().GetTransaction(gomock.Any(), txID).Return(nil, statement.ErrNotFound)

		err := svc.Unmatch(context.Background(), txID)
		assert.NoError(t, err)
	})
}

func TestService_CandidatePayments(t *testing.T) {
	svc, mocks := newTestService(t, false)

	base := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	free := testPayment(1000, base)
	taken := testPayment(2000, base)

	mocks.payRepo.EXPECT().
		ListTransactions(gomock.Any()).
		Return([]*payment.Transaction{free, taken}, nil)
	mocks.matchRepo.EXPECT().
		ListMatchedPaymentIDs(gomock.Any()).
		Return(map[uuid.UUID]struct{}{taken.ID: {}}, nil)

	got, err := svc.CandidatePayments(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, free.ID, got[0].ID)
}
