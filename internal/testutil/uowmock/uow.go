package uowmock

import (
	"context"
	"errors"

	"invofin-backend/internal/domain/invoice"
	"invofin-backend/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return
// errUnimplemented.
type UoW struct {
	WithinTxFn        func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinInvoiceTxFn func(ctx context.Context, invoiceID string, fn func(r uow.Repos, inv *invoice.Invoice) error) error
}

// Passthrough builds a UoW whose transactions simply run fn against the
// given repos. Useful when a test cares about behavior, not tx plumbing.
func Passthrough(r uow.Repos, getInvoice func(ctx context.Context, invoiceID string) (*invoice.Invoice, error)) *UoW {
	return &UoW{
		WithinTxFn: func(ctx context.Context, fn func(uow.Repos) error) error {
			return fn(r)
		},
		WithinInvoiceTxFn: func(ctx context.Context, invoiceID string, fn func(uow.Repos, *invoice.Invoice) error) error {
			inv, err := getInvoice(ctx, invoiceID)
			if err != nil {
				return err
			}
			return fn(r, inv)
		},
	}
}

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}

func (m *UoW) WithinInvoiceTx(ctx context.Context, invoiceID string, fn func(r uow.Repos, inv *invoice.Invoice) error) error {
	if m.WithinInvoiceTxFn != nil {
		return m.WithinInvoiceTxFn(ctx, invoiceID, fn)
	}
	return errUnimplemented
}
