package mysql

import (
	"context"
	"errors"
	"testing"

	invoiceDomain "invofin-backend/internal/domain/invoice"
	"invofin-backend/internal/domain/uow"
	walletDomain "invofin-backend/internal/domain/wallet"
	"invofin-backend/pkg/id"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// openUowTestDB migrates every table, so the UoW can orchestrate all repos.
func openUowTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&invoiceSQLite{}, &walletSQLite{}, &walletEntrySQLite{}, &investmentSQLite{}); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func TestGormUoW_WithinTx_Commit(t *testing.T) {
	db := openUowTestDB(t)
	ctx := context.Background()

	guow := NewGormUoW(db)
	invoiceRepo := NewInvoiceRepository(db)
	investmentRepo := NewInvestmentRepository(db)
	walletRepo := NewWalletRepository(db)

	invoiceID := id.NewID32()
	investor := id.NewID32()
	seller := id.NewID32()

	err := guow.WithinTx(ctx, func(r uow.Repos) error {
		inv := makeInvoice(invoiceID, seller, invoiceDomain.StatusListed)
		if err := r.Invoices.Create(ctx, inv); err != nil {
			return err
		}
		if inv.ID == 0 {
			t.Fatalf("invoice auto ID not set")
		}
		if _, err := r.Wallets.Credit(ctx, seller, 47_500, "invoice funded", &invoiceID); err != nil {
			return err
		}
		return r.Investments.Create(ctx, makeInvestment(investor, inv.ID))
	})
	if err != nil {
		t.Fatalf("WithinTx commit err: %v", err)
	}

	// post-commit visibility across all repos
	if _, err := invoiceRepo.GetByInvoiceID(ctx, invoiceID); err != nil {
		t.Fatalf("invoice not visible after commit: %v", err)
	}
	w, err := walletRepo.GetByUserID(ctx, seller)
	if err != nil || w.Balance != 47_500 {
		t.Fatalf("wallet not visible after commit: %+v, %v", w, err)
	}
	if _, err := investmentRepo.ListByInvestor(ctx, investor); err != nil {
		t.Fatalf("investments not visible after commit: %v", err)
	}
}

func TestGormUoW_WithinTx_Rollback(t *testing.T) {
	db := openUowTestDB(t)
	ctx := context.Background()

	guow := NewGormUoW(db)
	invoiceRepo := NewInvoiceRepository(db)
	walletRepo := NewWalletRepository(db)

	invoiceID := id.NewID32()
	seller := id.NewID32()
	sentinel := errors.New("boom")

	_ = guow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Invoices.Create(ctx, makeInvoice(invoiceID, seller, invoiceDomain.StatusListed)); err != nil {
			return err
		}
		if _, err := r.Wallets.Credit(ctx, seller, 47_500, "invoice funded", &invoiceID); err != nil {
			return err
		}
		return sentinel // force rollback
	})

	if _, err := invoiceRepo.GetByInvoiceID(ctx, invoiceID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected invoice not found after rollback, got %v", err)
	}
	if _, err := walletRepo.GetByUserID(ctx, seller); !errors.Is(err, walletDomain.ErrNotFound) {
		t.Fatalf("expected wallet not found after rollback, got %v", err)
	}
}

func TestGormUoW_WithinTx_DebitFailureRollsBackClaim(t *testing.T) {
	db := openUowTestDB(t)
	ctx := context.Background()

	guow := NewGormUoW(db)
	invoiceRepo := NewInvoiceRepository(db)

	invoiceID := id.NewID32()
	investor := id.NewID32()

	if err := invoiceRepo.Create(ctx, makeInvoice(invoiceID, id.NewID32(), invoiceDomain.StatusListed)); err != nil {
		t.Fatalf("Create: %v", err)
	}

	err := guow.WithinTx(ctx, func(r uow.Repos) error {
		claimed, err := r.Invoices.ClaimForFunding(ctx, invoiceID, investor)
		if err != nil {
			return err
		}
		if !claimed {
			t.Fatalf("claim did not apply")
		}
		// investor has no wallet; debit fails and must undo the claim
		_, err = r.Wallets.Debit(ctx, investor, 47_500, "invoice funding", &invoiceID)
		return err
	})
	if !errors.Is(err, walletDomain.ErrNotFound) {
		t.Fatalf("err = %v, want wallet ErrNotFound", err)
	}

	got, err := invoiceRepo.GetByInvoiceID(ctx, invoiceID)
	if err != nil {
		t.Fatalf("GetByInvoiceID: %v", err)
	}
	if got.InvestorID != nil {
		t.Errorf("claim survived rollback: %v", *got.InvestorID)
	}
}
