package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/black12-ag/reconcile/internal/statement"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectTransactionColumns = `
	t.id, t.statement_id, t.date, t.description, t.reference, t.amount, t.balance,
	t.type, t.flags, t.matched, t.matched_payment_id, t.match_confidence
`

// scanTransaction reads a bank transaction row.
// Expected column order matches selectTransactionColumns.
func scanTransaction(s scanner) (*statement.BankTransaction, error) {
	var tx statement.BankTransaction

	var typeStr string

	var flags []byte

	var paymentID *uuid.UUID

	var confidence sql.NullInt64

	if err := s.Scan(
		&tx.ID, &tx.StatementID, &tx.Date, &tx.Description, &tx.Reference,
		&tx.Amount, &tx.Balance, &typeStr, &flags,
		&tx.Matched, &paymentID, &confidence,
	); err != nil {
		return nil, err
	}

	tx.Type = statement.TxType(typeStr)
	tx.MatchedPaymentID = paymentID

	if confidence.Valid {
		c := int(confidence.Int64)
		tx.MatchConfidence = &c
	}

	if len(flags) > 0 {
		if err := unmarshalFlags(flags, &tx.Flags); err != nil {
			return nil, fmt.Errorf("decoding flags: %w", err)
		}
	}

	return &tx, nil
}

func (s *Store) CreateStatement(ctx context.Context, stmt *statement.Statement) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	stmtQuery := `
		INSERT INTO statements (bank_name, account_number, statement_date, status, matched_count, unmatched_count, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, uploaded_at
	`

	err = dbTx.QueryRowContext(ctx, stmtQuery,
		stmt.BankName,
		stmt.AccountNumber,
		stmt.StatementDate,
		stmt.Status,
		stmt.MatchedCount,
		stmt.UnmatchedCount,
	).Scan(&stmt.ID, &stmt.UploadedAt)
	if err != nil {
		return fmt.Errorf("creating statement: %w", err)
	}

	txQuery := `
		INSERT INTO bank_transactions (statement_id, position, date, description, reference, amount, balance, type, flags)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	for i, tx := range stmt.Transactions {
		flags, err := marshalFlags(tx.Flags)
		if err != nil {
			return fmt.Errorf("encoding flags: %w", err)
		}

		tx.StatementID = stmt.ID

		err = dbTx.QueryRowContext(ctx, txQuery,
			stmt.ID, i, tx.Date, tx.Description, tx.Reference,
			tx.Amount, tx.Balance, tx.Type, flags,
		).Scan(&tx.ID)
		if err != nil {
			return fmt.Errorf("creating bank transaction: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing statement: %w", err)
	}

	return nil
}

func (s *Store) GetStatement(ctx context.Context, id uuid.UUID) (*statement.Statement, error) {
	query := `
		SELECT id, bank_name, account_number, statement_date, status, matched_count, unmatched_count, uploaded_at
		FROM statements
		WHERE id = $1
	`

	stmt, err := scanStatement(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, statement.ErrNotFound
		}

		return nil, fmt.Errorf("getting statement: %w", err)
	}

	txQuery := `SELECT ` + selectTransactionColumns + `
		FROM bank_transactions t
		WHERE t.statement_id = $1
		ORDER BY t.position ASC`

	rows, err := s.db.QueryContext(ctx, txQuery, id)
	if err != nil {
		return nil, fmt.Errorf("listing statement transactions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning bank transaction: %w", err)
		}

		stmt.Transactions = append(stmt.Transactions, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating bank transactions: %w", err)
	}

	return stmt, nil
}

func scanStatement(s scanner) (*statement.Statement, error) {
	var stmt statement.Statement

	var statusStr string

	if err := s.Scan(
		&stmt.ID, &stmt.BankName, &stmt.AccountNumber, &stmt.StatementDate,
		&statusStr, &stmt.MatchedCount, &stmt.UnmatchedCount, &stmt.UploadedAt,
	); err != nil {
		return nil, err
	}

	stmt.Status = statement.Status(statusStr)

	return &stmt, nil
}

func (s *Store) ListStatements(ctx context.Context) ([]*statement.Statement, error) {
	query := `
		SELECT id, bank_name, account_number, statement_date, status, matched_count, unmatched_count, uploaded_at
		FROM statements
		ORDER BY uploaded_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing statements: %w", err)
	}
	defer rows.Close()

	var stmts []*statement.Statement

	for rows.Next() {
		stmt, err := scanStatement(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning statement: %w", err)
		}

		stmts = append(stmts, stmt)
	}

	return stmts, rows.Err()
}

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*statement.BankTransaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM bank_transactions t
		WHERE t.id = $1`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, statement.ErrNotFound
		}

		return nil, fmt.Errorf("getting bank transaction: %w", err)
	}

	return tx, nil
}

func (s *Store) ListTransactions(ctx context.Context, statementID uuid.UUID, filter statement.TxFilter) ([]*statement.BankTransaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM bank_transactions t
		WHERE t.statement_id = $1`

	args := []any{statementID}

	argIdx := 2

	if filter.Query != "" {
		query += fmt.Sprintf(" AND (t.description ILIKE '%%' || $%d || '%%' OR t.reference ILIKE '%%' || $%d || '%%')", argIdx, argIdx)

		args = append(args, filter.Query)
		argIdx++
	}

	if filter.Matched != nil {
		query += fmt.Sprintf(" AND t.matched = $%d", argIdx)

		args = append(args, *filter.Matched)
		argIdx++
	}

	query += " ORDER BY t.position ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing bank transactions: %w", err)
	}
	defer rows.Close()

	var txs []*statement.BankTransaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning bank transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	return txs, rows.Err()
}

func (s *Store) UpdateMatchState(ctx context.Context, txID uuid.UUID, paymentID *uuid.UUID, confidence *int) error {
	query := `
		UPDATE bank_transactions
		SET matched = $1, matched_payment_id = $2, match_confidence = $3
		WHERE id = $4
	`

	_, err := s.db.ExecContext(ctx, query, paymentID != nil, paymentID, confidence, txID)
	if err != nil {
		return fmt.Errorf("updating match state: %w", err)
	}

	return nil
}

func (s *Store) UpdateStatementCounters(ctx context.Context, id uuid.UUID, status statement.Status, matched, unmatched int) error {
	query := `
		UPDATE statements
		SET status = $1, matched_count = $2, unmatched_count = $3
		WHERE id = $4
	`

	_, err := s.db.ExecContext(ctx, query, status, matched, unmatched, id)
	if err != nil {
		return fmt.Errorf("updating statement counters: %w", err)
	}

	return nil
}
