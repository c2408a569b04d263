package rule

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=rule
type Repository interface {
	CreateRule(ctx context.Context, r *Rule) error
	GetRule(ctx context.Context, id uuid.UUID) (*Rule, error)
	ListRules(ctx context.Context) ([]*Rule, error)
	UpdateRule(ctx context.Context, r *Rule) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Name        string
	Description string
	Enabled     bool
	Priority    int
	Conditions  []Condition
	Actions     []Action
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Rule, error) {
	if params.Name == "" {
		return nil, fmt.Errorf("rule name is required")
	}

	r := &Rule{
		Name:        params.Name,
		Description: params.Description,
		Enabled:     params.Enabled,
		Priority:    params.Priority,
		Conditions:  params.Conditions,
		Actions:     params.Actions,
	}

	if err := s.repo.CreateRule(ctx, r); err != nil {
		return nil, err
	}

	return r, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Rule, error) {
	return s.repo.GetRule(ctx, id)
}

// List returns rules ordered by priority, highest first.
func (s *Service) List(ctx context.Context) ([]*Rule, error) {
	return s.repo.ListRules(ctx)
}

func (s *Service) Update(ctx context.Context, r *Rule) error {
	return s.repo.UpdateRule(ctx, r)
}

func (s *Service) SetEnabled(ctx context.Context, id uuid.UUID, enabled bool) error {
	r, err := s.repo.GetRule(ctx, id)
	if err != nil {
		return err
	}

	r.Enabled = enabled

	return s.repo.UpdateRule(ctx, r)
}
