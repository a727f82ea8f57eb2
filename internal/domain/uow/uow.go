package uow

import (
	"context"

	"invofin-backend/internal/domain/investment"
	"invofin-backend/internal/domain/invoice"
	"invofin-backend/internal/domain/wallet"
)

type Repos struct {
	Invoices    invoice.Repository
	Wallets     wallet.Repository
	Investments investment.Repository
}

type UnitOfWork interface {
	// WithinTx runs fn against repositories bound to one transaction;
	// any error rolls the whole unit back.
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// WithinInvoiceTx locks the invoice row first, then passes it in.
	WithinInvoiceTx(ctx context.Context, invoiceID string, fn func(r Repos, inv *invoice.Invoice) error) error
}
