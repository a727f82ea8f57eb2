package uowmock

import (
	"context"
	"errors"
	"testing"

	"invofin-backend/internal/domain/invoice"
	"invofin-backend/internal/domain/uow"
	"invofin-backend/internal/testutil/investmentmock"
	"invofin-backend/internal/testutil/invoicemock"
	"invofin-backend/internal/testutil/walletmock"
)

func testRepos() uow.Repos {
	return uow.Repos{
		Invoices:    &invoicemock.Repo{},
		Wallets:     &walletmock.Repo{},
		Investments: &investmentmock.Repo{},
	}
}

func TestUoW_WithinTx_Happy(t *testing.T) {
	ctx := context.Background()
	repos := testRepos()

	innerCalled := false
	m := &UoW{
		WithinTxFn: func(gotCtx context.Context, fn func(r uow.Repos) error) error {
			if gotCtx != ctx {
				t.Fatalf("WithinTx: ctx mismatch")
			}
			if fn == nil {
				t.Fatalf("WithinTx: fn is nil")
			}
			// simulate transaction body
			return fn(repos)
		},
	}

	err := m.WithinTx(ctx, func(r uow.Repos) error {
		innerCalled = true
		if r.Invoices != repos.Invoices || r.Wallets != repos.Wallets || r.Investments != repos.Investments {
			t.Fatalf("WithinTx: repos not forwarded correctly")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithinTx: unexpected err: %v", err)
	}
	if !innerCalled {
		t.Fatalf("WithinTx: inner fn not called")
	}
}

func TestUoW_WithinTx_PropagatesError(t *testing.T) {
	sentinel := errors.New("boom")
	m := &UoW{
		WithinTxFn: func(context.Context, func(uow.Repos) error) error {
			return sentinel
		},
	}
	if err := m.WithinTx(context.Background(), func(uow.Repos) error { return nil }); !errors.Is(err, sentinel) {
		t.Fatalf("WithinTx: want %v, got %v", sentinel, err)
	}
}

func TestUoW_Defaults_Unimplemented(t *testing.T) {
	ctx := context.Background()
	m := &UoW{} // no funcs set
	if err := m.WithinTx(ctx, func(uow.Repos) error { return nil }); !errors.Is(err, errUnimplemented) {
		t.Fatalf("WithinTx default: want errUnimplemented, got %v", err)
	}
	err := m.WithinInvoiceTx(ctx, "abc", func(uow.Repos, *invoice.Invoice) error { return nil })
	if !errors.Is(err, errUnimplemented) {
		t.Fatalf("WithinInvoiceTx default: want errUnimplemented, got %v", err)
	}
}

func TestPassthrough(t *testing.T) {
	ctx := context.Background()
	repos := testRepos()
	locked := &invoice.Invoice{ID: 7, InvoiceID: "abc", Status: invoice.StatusListed}

	m := Passthrough(repos, func(ctx context.Context, invoiceID string) (*invoice.Invoice, error) {
		if invoiceID != "abc" {
			t.Fatalf("getInvoice arg mismatch: %s", invoiceID)
		}
		return locked, nil
	})

	if err := m.WithinTx(ctx, func(r uow.Repos) error { return nil }); err != nil {
		t.Fatalf("WithinTx: %v", err)
	}
	err := m.WithinInvoiceTx(ctx, "abc", func(r uow.Repos, inv *invoice.Invoice) error {
		if inv != locked {
			t.Fatalf("locked invoice not forwarded")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithinInvoiceTx: %v", err)
	}

	// lookup failure short-circuits the transaction body
	sentinel := errors.New("boom")
	m = Passthrough(repos, func(context.Context, string) (*invoice.Invoice, error) {
		return nil, sentinel
	})
	err = m.WithinInvoiceTx(ctx, "abc", func(uow.Repos, *invoice.Invoice) error {
		t.Fatal("body ran despite lookup failure")
		return nil
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("WithinInvoiceTx: want %v, got %v", sentinel, err)
	}
}
