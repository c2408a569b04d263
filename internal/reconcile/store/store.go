package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/black12-ag/reconcile/internal/reconcile"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateMatch(ctx context.Context, m *reconcile.Match) error {
	criteria, err := json.Marshal(m.Criteria)
	if err != nil {
		return fmt.Errorf("encoding criteria: %w", err)
	}

	discrepancies, err := json.Marshal(m.Discrepancies)
	if err != nil {
		return fmt.Errorf("encoding discrepancies: %w", err)
	}

	query := `
		INSERT INTO reconciliation_matches (bank_transaction_id, payment_transaction_id, confidence, match_type, criteria, discrepancies, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at
	`

	err = s.db.QueryRowContext(ctx, query,
		m.BankTransactionID, m.PaymentTransactionID, m.Confidence, m.Type, criteria, discrepancies,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating match: %w", err)
	}

	return nil
}

func (s *Store) DeleteMatchByBankTransaction(ctx context.Context, bankTxID uuid.UUID) error {
	query := `DELETE FROM reconciliation_matches WHERE bank_transaction_id = $1`

	_, err := s.db.ExecContext(ctx, query, bankTxID)
	if err != nil {
		return fmt.Errorf("deleting match: %w", err)
	}

	return nil
}

func (s *Store) ListMatchesByStatement(ctx context.Context, statementID uuid.UUID) ([]*reconcile.Match, error) {
	query := `
		SELECT m.id, m.bank_transaction_id, m.payment_transaction_id, m.confidence, m.match_type, m.criteria, m.discrepancies, m.created_at
		FROM reconciliation_matches m
		JOIN bank_transactions t ON t.id = m.bank_transaction_id
		WHERE t.statement_id = $1
		ORDER BY m.created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, statementID)
	if err != nil {
		return nil, fmt.Errorf("listing matches: %w", err)
	}
	defer rows.Close()

	var matches []*reconcile.Match

	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning match: %w", err)
		}

		matches = append(matches, m)
	}

	return matches, rows.Err()
}

func (s *Store) ListMatchedPaymentIDs(ctx context.Context) (map[uuid.UUID]struct{}, error) {
	query := `SELECT payment_transaction_id FROM reconciliation_matches`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing matched payment ids: %w", err)
	}
	defer rows.Close()

	used := make(map[uuid.UUID]struct{})

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning payment id: %w", err)
		}

		used[id] = struct{}{}
	}

	return used, rows.Err()
}

func scanMatch(rows *sql.Rows) (*reconcile.Match, error) {
	var m reconcile.Match

	var typeStr string

	var criteria, discrepancies []byte

	if err := rows.Scan(
		&m.ID, &m.BankTransactionID, &m.PaymentTransactionID, &m.Confidence,
		&typeStr, &criteria, &discrepancies, &m.CreatedAt,
	); err != nil {
		return nil, err
	}

	m.Type = reconcile.MatchType(typeStr)

	if len(criteria) > 0 {
		if err := json.Unmarshal(criteria, &m.Criteria); err != nil {
			return nil, fmt.Errorf("decoding criteria: %w", err)
		}
	}

	if len(discrepancies) > 0 {
		if err := json.Unmarshal(discrepancies, &m.Discrepancies); err != nil {
			return nil, fmt.Errorf("decoding discrepancies: %w", err)
		}
	}

	return &m, nil
}
