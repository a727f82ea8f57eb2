package investmentmock

import (
	"context"

	domain "invofin-backend/internal/domain/investment"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn            func(ctx context.Context, inv *domain.Investment) error
	SaveFn              func(ctx context.Context, inv *domain.Investment) error
	GetByInvestmentIDFn func(ctx context.Context, investmentID string) (*domain.Investment, error)
	GetByInvoiceIDFn    func(ctx context.Context, invoiceNumericID uint64) (*domain.Investment, error)
	ListByInvestorFn    func(ctx context.Context, investorID string) ([]domain.Investment, error)
}

func (m *Repo) Create(ctx context.Context, inv *domain.Investment) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, inv)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, inv *domain.Investment) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, inv)
	}
	return nil
}

func (m *Repo) GetByInvestmentID(ctx context.Context, investmentID string) (*domain.Investment, error) {
	if m.GetByInvestmentIDFn != nil {
		return m.GetByInvestmentIDFn(ctx, investmentID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByInvoiceID(ctx context.Context, invoiceNumericID uint64) (*domain.Investment, error) {
	if m.GetByInvoiceIDFn != nil {
		return m.GetByInvoiceIDFn(ctx, invoiceNumericID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByInvestor(ctx context.Context, investorID string) ([]domain.Investment, error) {
	if m.ListByInvestorFn != nil {
		return m.ListByInvestorFn(ctx, investorID)
	}
	return nil, nil
}
