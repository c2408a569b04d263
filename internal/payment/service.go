package payment

import (
	"context"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=payment
type Repository interface {
	ListTransactions(ctx context.Context) ([]*Transaction, error)
	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
}

// Service is the read-only view over the payment ledger. The candidate
// windows used by reconciliation are narrow enough that iterating the
// full ledger is acceptable; pagination can be added behind List without
// changing callers.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns all known payment transactions in ledger (insertion) order.
func (s *Service) List(ctx context.Context) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}
