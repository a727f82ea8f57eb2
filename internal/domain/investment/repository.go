package investment

import "context"

type Repository interface {
	Create(ctx context.Context, inv *Investment) error
	Save(ctx context.Context, inv *Investment) error
	GetByInvestmentID(ctx context.Context, investmentID string) (*Investment, error)
	GetByInvoiceID(ctx context.Context, invoiceNumericID uint64) (*Investment, error)
	ListByInvestor(ctx context.Context, investorID string) ([]Investment, error)
}
