package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	investmentDomain "invofin-backend/internal/domain/investment"
	"invofin-backend/pkg/id"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type investmentSQLite struct {
	ID             uint64     `gorm:"primaryKey;column:id"`
	InvestmentID   string     `gorm:"size:32;uniqueIndex;column:investment_id"`
	InvoiceID      uint64     `gorm:"uniqueIndex;column:invoice_id"`
	InvestorID     string     `gorm:"size:32;column:investor_id"`
	Amount         float64    `gorm:"column:amount"`
	ExpectedReturn float64    `gorm:"column:expected_return"`
	ActualReturn   float64    `gorm:"column:actual_return"`
	Status         string     `gorm:"type:text;column:status"` // ← no enum
	MaturityDate   time.Time  `gorm:"column:maturity_date"`
	CompletedAt    *time.Time `gorm:"column:completed_at"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at"`
}

func (investmentSQLite) TableName() string { return "investments" }

func openInvestmentTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&investmentSQLite{}); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func makeInvestment(investorID string, invoiceNumericID uint64) *investmentDomain.Investment {
	return &investmentDomain.Investment{
		InvestmentID:   id.NewID32(),
		InvoiceID:      invoiceNumericID,
		InvestorID:     investorID,
		Amount:         47_500,
		ExpectedReturn: 50_000,
		Status:         investmentDomain.StatusActive,
		MaturityDate:   time.Now().UTC().AddDate(0, 0, 60),
	}
}

func TestInvestmentCreateAndLookups(t *testing.T) {
	db := openInvestmentTestDB(t)
	repo := NewInvestmentRepository(db)
	ctx := context.Background()

	investor := id.NewID32()
	inv := makeInvestment(investor, 7)
	if err := repo.Create(ctx, inv); err != nil {
		t.Fatalf("Create: %v", err)
	}

	byID, err := repo.GetByInvestmentID(ctx, inv.InvestmentID)
	if err != nil {
		t.Fatalf("GetByInvestmentID: %v", err)
	}
	if byID.InvestorID != investor {
		t.Errorf("unexpected investment: %+v", byID)
	}

	byInvoice, err := repo.GetByInvoiceID(ctx, 7)
	if err != nil {
		t.Fatalf("GetByInvoiceID: %v", err)
	}
	if byInvoice.InvestmentID != inv.InvestmentID {
		t.Errorf("unexpected investment: %+v", byInvoice)
	}

	if _, err := repo.GetByInvestmentID(ctx, id.NewID32()); !errors.Is(err, investmentDomain.ErrNotFound) {
		t.Errorf("missing investment: err = %v, want ErrNotFound", err)
	}
	if _, err := repo.GetByInvoiceID(ctx, 999); !errors.Is(err, investmentDomain.ErrNotFound) {
		t.Errorf("missing invoice: err = %v, want ErrNotFound", err)
	}
}

func TestInvestmentUniquePerInvoice(t *testing.T) {
	db := openInvestmentTestDB(t)
	repo := NewInvestmentRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, makeInvestment(id.NewID32(), 7)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	// second investment for the same invoice hits the unique index
	if err := repo.Create(ctx, makeInvestment(id.NewID32(), 7)); err == nil {
		t.Fatal("expected unique index violation, got nil")
	}
}

func TestInvestmentSaveAndList(t *testing.T) {
	db := openInvestmentTestDB(t)
	repo := NewInvestmentRepository(db)
	ctx := context.Background()

	investor := id.NewID32()
	first := makeInvestment(investor, 1)
	second := makeInvestment(investor, 2)
	other := makeInvestment(id.NewID32(), 3)
	for _, inv := range []*investmentDomain.Investment{first, second, other} {
		if err := repo.Create(ctx, inv); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	now := time.Now().UTC()
	first.Status = investmentDomain.StatusCompleted
	first.ActualReturn = 50_000
	first.CompletedAt = &now
	if err := repo.Save(ctx, first); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.GetByInvestmentID(ctx, first.InvestmentID)
	if err != nil {
		t.Fatalf("GetByInvestmentID: %v", err)
	}
	if got.Status != investmentDomain.StatusCompleted || got.ActualReturn != 50_000 {
		t.Errorf("update did not persist: %+v", got)
	}

	mine, err := repo.ListByInvestor(ctx, investor)
	if err != nil || len(mine) != 2 {
		t.Errorf("ListByInvestor = (%d, %v), want 2", len(mine), err)
	}
}
