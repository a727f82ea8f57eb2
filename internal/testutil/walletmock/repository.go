package walletmock

import (
	"context"

	domain "invofin-backend/internal/domain/wallet"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	GetOrCreateFn func(ctx context.Context, userID string) (*domain.Wallet, error)
	GetByUserIDFn func(ctx context.Context, userID string) (*domain.Wallet, error)
	DebitFn       func(ctx context.Context, userID string, amount float64, reason string, invoiceID *string) (*domain.Wallet, error)
	CreditFn      func(ctx context.Context, userID string, amount float64, reason string, invoiceID *string) (*domain.Wallet, error)
	EntriesFn     func(ctx context.Context, userID string) ([]domain.Entry, error)
}

func (m *Repo) GetOrCreate(ctx context.Context, userID string) (*domain.Wallet, error) {
	if m.GetOrCreateFn != nil {
		return m.GetOrCreateFn(ctx, userID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByUserID(ctx context.Context, userID string) (*domain.Wallet, error) {
	if m.GetByUserIDFn != nil {
		return m.GetByUserIDFn(ctx, userID)
	}
	return nil, context.Canceled
}

func (m *Repo) Debit(ctx context.Context, userID string, amount float64, reason string, invoiceID *string) (*domain.Wallet, error) {
	if m.DebitFn != nil {
		return m.DebitFn(ctx, userID, amount, reason, invoiceID)
	}
	return nil, context.Canceled
}

func (m *Repo) Credit(ctx context.Context, userID string, amount float64, reason string, invoiceID *string) (*domain.Wallet, error) {
	if m.CreditFn != nil {
		return m.CreditFn(ctx, userID, amount, reason, invoiceID)
	}
	return nil, context.Canceled
}

func (m *Repo) Entries(ctx context.Context, userID string) ([]domain.Entry, error) {
	if m.EntriesFn != nil {
		return m.EntriesFn(ctx, userID)
	}
	return nil, nil
}
