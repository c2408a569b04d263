package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/black12-ag/reconcile/internal/payment"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// ListTransactions returns the ledger in insertion order. That order is
// load-bearing: auto-reconciliation picks the first candidate in it.
func (s *Store) ListTransactions(ctx context.Context) ([]*payment.Transaction, error) {
	query := `
		SELECT id, amount, currency, created_at
		FROM payments
		ORDER BY created_at ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing payments: %w", err)
	}
	defer rows.Close()

	var txs []*payment.Transaction

	for rows.Next() {
		var tx payment.Transaction
		if err := rows.Scan(&tx.ID, &tx.Amount, &tx.Currency, &tx.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning payment: %w", err)
		}

		txs = append(txs, &tx)
	}

	return txs, rows.Err()
}

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*payment.Transaction, error) {
	query := `
		SELECT id, amount, currency, created_at
		FROM payments
		WHERE id = $1
	`

	var tx payment.Transaction

	err := s.db.QueryRowContext(ctx, query, id).Scan(&tx.ID, &tx.Amount, &tx.Currency, &tx.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, payment.ErrNotFound
		}

		return nil, fmt.Errorf("getting payment: %w", err)
	}

	return &tx, nil
}
