package invoice

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, inv *Invoice) error
	Save(ctx context.Context, inv *Invoice) error
	GetByInvoiceID(ctx context.Context, invoiceID string) (*Invoice, error)
	// GetByInvoiceIDForUpdate locks the row for the duration of the
	// surrounding transaction.
	GetByInvoiceIDForUpdate(ctx context.Context, invoiceID string) (*Invoice, error)
	GetByNumber(ctx context.Context, invoiceNumber string) (*Invoice, error)

	// ClaimForFunding is the single atomic conditional update that grants
	// exclusive funding rights: it sets investor_id only when the invoice
	// is still fundable and unclaimed. Returns false when the claim did
	// not apply (lost race, wrong status, or missing invoice); the caller
	// re-reads to find out which.
	ClaimForFunding(ctx context.Context, invoiceID, investorID string) (bool, error)

	ListByStatus(ctx context.Context, st Status) ([]Invoice, error)
	ListBySeller(ctx context.Context, sellerID string) ([]Invoice, error)

	// Fraud-detector queries.
	AmountsBySellerInStatuses(ctx context.Context, sellerID string, sts []Status) ([]float64, error)
	CountBySellerSince(ctx context.Context, sellerID string, since time.Time) (int64, error)
	CountBySeller(ctx context.Context, sellerID string) (int64, error)
	CountBySellerInStatuses(ctx context.Context, sellerID string, sts []Status) (int64, error)
	// FindSimilar returns an invoice with the same (seller, buyer, amount,
	// issue date) excluding the given public id; record-not-found when none
	// exists.
	FindSimilar(ctx context.Context, inv *Invoice) (*Invoice, error)
}
