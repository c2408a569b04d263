package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/black12-ag/reconcile/internal/rule"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Conditions and actions are stored as JSONB documents; the rule.Value
// union round-trips through its own JSON representation.

func (s *Store) CreateRule(ctx context.Context, r *rule.Rule) error {
	conditions, actions, err := encodeRule(r)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO matching_rules (name, description, enabled, priority, conditions, actions, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, created_at
	`

	err = s.db.QueryRowContext(ctx, query,
		r.Name, r.Description, r.Enabled, r.Priority, conditions, actions,
	).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating rule: %w", err)
	}

	return nil
}

func (s *Store) GetRule(ctx context.Context, id uuid.UUID) (*rule.Rule, error) {
	query := `
		SELECT id, name, description, enabled, priority, conditions, actions, created_at, updated_at
		FROM matching_rules
		WHERE id = $1
	`

	r, err := scanRule(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, rule.ErrNotFound
		}

		return nil, fmt.Errorf("getting rule: %w", err)
	}

	return r, nil
}

func (s *Store) ListRules(ctx context.Context) ([]*rule.Rule, error) {
	query := `
		SELECT id, name, description, enabled, priority, conditions, actions, created_at, updated_at
		FROM matching_rules
		ORDER BY priority DESC, created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing rules: %w", err)
	}
	defer rows.Close()

	var rules []*rule.Rule

	for rows.Next() {
		r, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning rule: %w", err)
		}

		rules = append(rules, r)
	}

	return rules, rows.Err()
}

func (s *Store) UpdateRule(ctx context.Context, r *rule.Rule) error {
	conditions, actions, err := encodeRule(r)
	if err != nil {
		return err
	}

	query := `
		UPDATE matching_rules
		SET name = $1, description = $2, enabled = $3, priority = $4, conditions = $5, actions = $6, updated_at = NOW()
		WHERE id = $7
	`

	_, err = s.db.ExecContext(ctx, query,
		r.Name, r.Description, r.Enabled, r.Priority, conditions, actions, r.ID,
	)
	if err != nil {
		return fmt.Errorf("updating rule: %w", err)
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRule(s scanner) (*rule.Rule, error) {
	var r rule.Rule

	var conditions, actions []byte

	if err := s.Scan(
		&r.ID, &r.Name, &r.Description, &r.Enabled, &r.Priority,
		&conditions, &actions, &r.CreatedAt, &r.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if len(conditions) > 0 {
		if err := json.Unmarshal(conditions, &r.Conditions); err != nil {
			return nil, fmt.Errorf("decoding conditions: %w", err)
		}
	}

	if len(actions) > 0 {
		if err := json.Unmarshal(actions, &r.Actions); err != nil {
			return nil, fmt.Errorf("decoding actions: %w", err)
		}
	}

	return &r, nil
}

func encodeRule(r *rule.Rule) ([]byte, []byte, error) {
	conditions, err := json.Marshal(r.Conditions)
	if err != nil {
		return nil, nil, fmt.Errorf("encoding conditions: %w", err)
	}

	actions, err := json.Marshal(r.Actions)
	if err != nil {
		return nil, nil, fmt.Errorf("encoding actions: %w", err)
	}

	return conditions, actions, nil
}
