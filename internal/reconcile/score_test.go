package reconcile_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/black12-ag/reconcile/internal/payment"
	"github.com/black12-ag/reconcile/internal/reconcile"
	"github.com/black12-ag/reconcile/internal/statement"
)

var scoreBase = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func testPayment(amount int64, createdAt time.Time) *payment.Transaction {
	return &payment.Transaction{
		ID:        uuid.New(),
		Amount:    amount,
		Currency:  "EUR",
		CreatedAt: createdAt,
	}
}

func idTail(p *payment.Transaction) string {
	id := p.ID.String()
	return id[len(id)-8:]
}

func TestScore(t *testing.T) {
	type testCase struct {
		name string
		tx   func(p *payment.Transaction) *statement.BankTransaction
		p    *payment.Transaction
		want int
	}

	tests := []testCase{
		{
			name: "PerfectMatch",
			tx: func(p *payment.Transaction) *statement.BankTransaction {
				return &statement.BankTransaction{
					Amount:      5000,
					Date:        scoreBase,
					Description: "Booking payment",
					Reference:   "PAY-" + idTail(p),
				}
			},
			p:    testPayment(5000, scoreBase),
			want: 100,
		},
		{
			name: "AmountAndDateOnly",
			tx: func(p *payment.Transaction) *statement.BankTransaction {
				return &statement.BankTransaction{
					Amount:      5000,
					Date:        scoreBase,
					Description: "transfer",
				}
			},
			p:    testPayment(5000, scoreBase),
			want: 70,
		},
		{
			name: "NearAmountOneDayOff",
			tx: func(p *payment.Transaction) *statement.BankTransaction {
				return &statement.BankTransaction{
					Amount:      5040,
					Date:        scoreBase.Add(24 * time.Hour),
					Description: "transfer",
				}
			},
			p:    testPayment(5000, scoreBase),
			want: 60,
		},
		{
			name: "DebitAmountComparedAbsolute",
			tx: func(p *payment.Transaction) *statement.BankTransaction {
				return &statement.BankTransaction{
					Amount:      -5000,
					Date:        scoreBase,
					Description: "transfer",
				}
			},
			p:    testPayment(5000, scoreBase),
			want: 70,
		},
		{
			name: "OnePercentBoundaryFallsToLowerTier",
			tx: func(p *payment.Transaction) *statement.BankTransaction {
				return &statement.BankTransaction{
					Amount:      5050,
					Date:        scoreBase,
					Description: "transfer",
				}
			},
			p: testPayment(5000, scoreBase),
			// amount 25 + date 30
			want: 55,
		},
		{
			name: "ThreeDayGap",
			tx: func(p *payment.Transaction) *statement.BankTransaction {
				return &statement.BankTransaction{
					Amount:      5000,
					Date:        scoreBase.Add(3 * 24 * time.Hour),
					Description: "transfer",
				}
			},
			p: testPayment(5000, scoreBase),
			// amount 40 + date 15
			want: 55,
		},
		{
			name: "FarDateLinearDecay",
			tx: func(p *payment.Transaction) *statement.BankTransaction {
				return &statement.BankTransaction{
					Amount:      5000,
					Date:        scoreBase.Add(6 * 24 * time.Hour),
					Description: "transfer",
				}
			},
			p: testPayment(5000, scoreBase),
			// amount 40 + date max(0, 10-6)
			want: 44,
		},
		{
			name: "ZeroPaymentAmountContributesNothing",
			tx: func(p *payment.Transaction) *statement.BankTransaction {
				return &statement.BankTransaction{
					Amount:      0,
					Date:        scoreBase,
					Description: "transfer",
				}
			},
			p:    testPayment(0, scoreBase),
			want: 30,
		},
		{
			name: "PaymentKeywordFallback",
			tx: func(p *payment.Transaction) *statement.BankTransaction {
				return &statement.BankTransaction{
					Amount:      5000,
					Date:        scoreBase,
					Description: "Payment received",
				}
			},
			p: testPayment(5000, scoreBase),
			// amount 40 + date 30 + keyword 10
			want: 80,
		},
		{
			name: "ReservationDescription",
			tx: func(p *payment.Transaction) *statement.BankTransaction {
				return &statement.BankTransaction{
					Amount:      5000,
					Date:        scoreBase,
					Description: "Reservation deposit",
				}
			},
			p: testPayment(5000, scoreBase),
			// amount 40 + date 30 + description 10
			want: 80,
		},
		{
			name: "LargeAmountGapScoresZeroOnAmount",
			tx: func(p *payment.Transaction) *statement.BankTransaction {
				return &statement.BankTransaction{
					Amount:      10000,
					Date:        scoreBase,
					Description: "transfer",
				}
			},
			p: testPayment(5000, scoreBase),
			// amount max(0, 20-100) + date 30
			want: 30,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := tt.tx(tt.p)

			got := reconcile.Score(tx, tt.p)
			assert.Equal(t, tt.want, got)

			// Same inputs always produce the same score.
			assert.Equal(t, got, reconcile.Score(tx, tt.p))
		})
	}
}

func TestScore_Bounds(t *testing.T) {
	p := testPayment(5000, scoreBase)

	tx := &statement.BankTransaction{
		Amount:      5000,
		Date:        scoreBase,
		Description: "Booking reservation payment",
		Reference:   "PAY-" + idTail(p),
	}

	got := reconcile.Score(tx, p)
	assert.LessOrEqual(t, got, 100)
	assert.GreaterOrEqual(t, got, 0)
}
