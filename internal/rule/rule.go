package rule

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("rule not found")

// Rule is a named, prioritized matching policy. Rules are configuration
// surfaced to operators; the auto-reconciliation procedure itself is fixed
// and does not interpret them.
type Rule struct {
	ID          uuid.UUID
	Name        string
	Description string
	Enabled     bool
	Priority    int // higher evaluates first
	Conditions  []Condition
	Actions     []Action
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// Condition compares one transaction field against a value, optionally
// within a numeric tolerance.
type Condition struct {
	Field     string   `json:"field"`
	Operator  Operator `json:"operator"`
	Value     Value    `json:"value"`
	Tolerance *float64 `json:"tolerance,omitempty"`
}

type Operator string

const (
	OpEquals      Operator = "equals"
	OpContains    Operator = "contains"
	OpGreaterThan Operator = "greater_than"
	OpLessThan    Operator = "less_than"
	OpWithin      Operator = "within" // numeric, uses Tolerance
)

// Action is what a rule does when its conditions hold.
type Action struct {
	Type   ActionType       `json:"type"`
	Params map[string]Value `json:"params,omitempty"`
}

type ActionType string

const (
	ActionAutoMatch    ActionType = "auto_match"
	ActionFlag         ActionType = "flag"
	ActionIgnore       ActionType = "ignore"
	ActionManualReview ActionType = "manual_review"
)
