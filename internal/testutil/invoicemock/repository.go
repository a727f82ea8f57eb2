package invoicemock

import (
	"context"
	"time"

	domain "invofin-backend/internal/domain/invoice"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Fill in the function fields a test needs; unfilled getters return
// context.Canceled so a missing stub fails loudly.
type Repo struct {
	CreateFn                    func(ctx context.Context, inv *domain.Invoice) error
	SaveFn                      func(ctx context.Context, inv *domain.Invoice) error
	GetByInvoiceIDFn            func(ctx context.Context, invoiceID string) (*domain.Invoice, error)
	GetByInvoiceIDForUpdateFn   func(ctx context.Context, invoiceID string) (*domain.Invoice, error)
	GetByNumberFn               func(ctx context.Context, invoiceNumber string) (*domain.Invoice, error)
	ClaimForFundingFn           func(ctx context.Context, invoiceID, investorID string) (bool, error)
	ListByStatusFn              func(ctx context.Context, st domain.Status) ([]domain.Invoice, error)
	ListBySellerFn              func(ctx context.Context, sellerID string) ([]domain.Invoice, error)
	AmountsBySellerInStatusesFn func(ctx context.Context, sellerID string, sts []domain.Status) ([]float64, error)
	CountBySellerSinceFn        func(ctx context.Context, sellerID string, since time.Time) (int64, error)
	CountBySellerFn             func(ctx context.Context, sellerID string) (int64, error)
	CountBySellerInStatusesFn   func(ctx context.Context, sellerID string, sts []domain.Status) (int64, error)
	FindSimilarFn               func(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error)
}

func (m *Repo) Create(ctx context.Context, inv *domain.Invoice) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, inv)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, inv *domain.Invoice) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, inv)
	}
	return nil
}

func (m *Repo) GetByInvoiceID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	if m.GetByInvoiceIDFn != nil {
		return m.GetByInvoiceIDFn(ctx, invoiceID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByInvoiceIDForUpdate(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	if m.GetByInvoiceIDForUpdateFn != nil {
		return m.GetByInvoiceIDForUpdateFn(ctx, invoiceID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByNumber(ctx context.Context, invoiceNumber string) (*domain.Invoice, error) {
	if m.GetByNumberFn != nil {
		return m.GetByNumberFn(ctx, invoiceNumber)
	}
	return nil, context.Canceled
}

func (m *Repo) ClaimForFunding(ctx context.Context, invoiceID, investorID string) (bool, error) {
	if m.ClaimForFundingFn != nil {
		return m.ClaimForFundingFn(ctx, invoiceID, investorID)
	}
	return false, context.Canceled
}

func (m *Repo) ListByStatus(ctx context.Context, st domain.Status) ([]domain.Invoice, error) {
	if m.ListByStatusFn != nil {
		return m.ListByStatusFn(ctx, st)
	}
	return nil, nil
}

func (m *Repo) ListBySeller(ctx context.Context, sellerID string) ([]domain.Invoice, error) {
	if m.ListBySellerFn != nil {
		return m.ListBySellerFn(ctx, sellerID)
	}
	return nil, nil
}

func (m *Repo) AmountsBySellerInStatuses(ctx context.Context, sellerID string, sts []domain.Status) ([]float64, error) {
	if m.AmountsBySellerInStatusesFn != nil {
		return m.AmountsBySellerInStatusesFn(ctx, sellerID, sts)
	}
	return nil, nil
}

func (m *Repo) CountBySellerSince(ctx context.Context, sellerID string, since time.Time) (int64, error) {
	if m.CountBySellerSinceFn != nil {
		return m.CountBySellerSinceFn(ctx, sellerID, since)
	}
	return 0, nil
}

func (m *Repo) CountBySeller(ctx context.Context, sellerID string) (int64, error) {
	if m.CountBySellerFn != nil {
		return m.CountBySellerFn(ctx, sellerID)
	}
	return 0, nil
}

func (m *Repo) CountBySellerInStatuses(ctx context.Context, sellerID string, sts []domain.Status) (int64, error) {
	if m.CountBySellerInStatusesFn != nil {
		return m.CountBySellerInStatusesFn(ctx, sellerID, sts)
	}
	return 0, nil
}

func (m *Repo) FindSimilar(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error) {
	if m.FindSimilarFn != nil {
		return m.FindSimilarFn(ctx, inv)
	}
	return nil, domain.ErrNotFound
}
