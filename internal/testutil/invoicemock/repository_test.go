package invoicemock

import (
	"context"
	"errors"
	"testing"

	domain "invofin-backend/internal/domain/invoice"
)

func TestRepo_Create(t *testing.T) {
	ctx := context.Background()
	inv := &domain.Invoice{InvoiceID: "abc"}

	// Uses provided func
	called := false
	wantErr := errors.New("boom")
	m := &Repo{
		CreateFn: func(gotCtx context.Context, got *domain.Invoice) error {
			called = true
			if gotCtx != ctx {
				t.Fatalf("Create ctx mismatch")
			}
			if got != inv {
				t.Fatalf("Create arg mismatch")
			}
			return wantErr
		},
	}
	if err := m.Create(ctx, inv); !errors.Is(err, wantErr) {
		t.Fatalf("Create: want %v, got %v", wantErr, err)
	}
	if !called {
		t.Fatalf("CreateFn not called")
	}

	// Default (nil func) → no-op, nil error
	m = &Repo{}
	if err := m.Create(ctx, inv); err != nil {
		t.Fatalf("Create default: want nil, got %v", err)
	}
}

func TestRepo_GetByInvoiceID(t *testing.T) {
	ctx := context.Background()
	want := &domain.Invoice{InvoiceID: "abc"}

	called := false
	m := &Repo{
		GetByInvoiceIDFn: func(gotCtx context.Context, invoiceID string) (*domain.Invoice, error) {
			called = true
			if invoiceID != "abc" {
				t.Fatalf("GetByInvoiceID arg mismatch: %s", invoiceID)
			}
			return want, nil
		},
	}
	got, err := m.GetByInvoiceID(ctx, "abc")
	if err != nil || got != want {
		t.Fatalf("GetByInvoiceID: got (%v, %v)", got, err)
	}
	if !called {
		t.Fatalf("GetByInvoiceIDFn not called")
	}

	// Default (nil func) → loud failure so a missing stub is obvious
	m = &Repo{}
	if _, err := m.GetByInvoiceID(ctx, "abc"); !errors.Is(err, context.Canceled) {
		t.Fatalf("GetByInvoiceID default: want context.Canceled, got %v", err)
	}
}

func TestRepo_ClaimForFunding_Default(t *testing.T) {
	m := &Repo{}
	claimed, err := m.ClaimForFunding(context.Background(), "abc", "def")
	if claimed || !errors.Is(err, context.Canceled) {
		t.Fatalf("ClaimForFunding default: got (%v, %v)", claimed, err)
	}
}

func TestRepo_Lists_DefaultToEmpty(t *testing.T) {
	ctx := context.Background()
	m := &Repo{}

	if got, err := m.ListByStatus(ctx, domain.StatusListed); got != nil || err != nil {
		t.Fatalf("ListByStatus default: got (%v, %v)", got, err)
	}
	if got, err := m.CountBySeller(ctx, "abc"); got != 0 || err != nil {
		t.Fatalf("CountBySeller default: got (%v, %v)", got, err)
	}
}
