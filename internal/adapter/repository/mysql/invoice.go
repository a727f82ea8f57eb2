package mysql

import (
	"context"
	"time"

	invoiceDomain "invofin-backend/internal/domain/invoice"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InvoiceRepository struct{ db *gorm.DB }

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository { return &InvoiceRepository{db: db} }

func (r *InvoiceRepository) Create(ctx context.Context, inv *invoiceDomain.Invoice) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *InvoiceRepository) Save(ctx context.Context, inv *invoiceDomain.Invoice) error {
	return r.db.WithContext(ctx).Save(inv).Error
}

func (r *InvoiceRepository) GetByInvoiceID(ctx context.Context, invoiceID string) (*invoiceDomain.Invoice, error) {
	var out invoiceDomain.Invoice
	res := r.db.WithContext(ctx).Where("invoice_id = ?", invoiceID).First(&out)
	return &out, res.Error
}

func (r *InvoiceRepository) GetByInvoiceIDForUpdate(ctx context.Context, invoiceID string) (*invoiceDomain.Invoice, error) {
	var out invoiceDomain.Invoice
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("invoice_id = ?", invoiceID).
		First(&out)
	return &out, res.Error
}

func (r *InvoiceRepository) GetByNumber(ctx context.Context, invoiceNumber string) (*invoiceDomain.Invoice, error) {
	var out invoiceDomain.Invoice
	res := r.db.WithContext(ctx).Where("invoice_number = ?", invoiceNumber).First(&out)
	return &out, res.Error
}

// ClaimForFunding grants exclusive funding rights with one conditional
// UPDATE. Two investors racing here cannot both see RowsAffected == 1.
func (r *InvoiceRepository) ClaimForFunding(ctx context.Context, invoiceID, investorID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&invoiceDomain.Invoice{}).
		Where("invoice_id = ? AND investor_id IS NULL AND status IN ?",
			invoiceID, []invoiceDomain.Status{invoiceDomain.StatusConfirmed, invoiceDomain.StatusListed}).
		Update("investor_id", investorID)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *InvoiceRepository) ListByStatus(ctx context.Context, st invoiceDomain.Status) ([]invoiceDomain.Invoice, error) {
	var out []invoiceDomain.Invoice
	res := r.db.WithContext(ctx).
		Where("status = ?", st).
		Order("listed_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}

func (r *InvoiceRepository) ListBySeller(ctx context.Context, sellerID string) ([]invoiceDomain.Invoice, error) {
	var out []invoiceDomain.Invoice
	res := r.db.WithContext(ctx).
		Where("seller_id = ?", sellerID).
		Order("created_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}

func (r *InvoiceRepository) AmountsBySellerInStatuses(ctx context.Context, sellerID string, sts []invoiceDomain.Status) ([]float64, error) {
	var out []float64
	res := r.db.WithContext(ctx).
		Model(&invoiceDomain.Invoice{}).
		Where("seller_id = ? AND status IN ?", sellerID, sts).
		Pluck("amount", &out)
	return out, res.Error
}

func (r *InvoiceRepository) CountBySellerSince(ctx context.Context, sellerID string, since time.Time) (int64, error) {
	var n int64
	res := r.db.WithContext(ctx).
		Model(&invoiceDomain.Invoice{}).
		Where("seller_id = ? AND created_at >= ?", sellerID, since).
		Count(&n)
	return n, res.Error
}

func (r *InvoiceRepository) CountBySeller(ctx context.Context, sellerID string) (int64, error) {
	var n int64
	res := r.db.WithContext(ctx).
		Model(&invoiceDomain.Invoice{}).
		Where("seller_id = ?", sellerID).
		Count(&n)
	return n, res.Error
}

func (r *InvoiceRepository) CountBySellerInStatuses(ctx context.Context, sellerID string, sts []invoiceDomain.Status) (int64, error) {
	var n int64
	res := r.db.WithContext(ctx).
		Model(&invoiceDomain.Invoice{}).
		Where("seller_id = ? AND status IN ?", sellerID, sts).
		Count(&n)
	return n, res.Error
}

func (r *InvoiceRepository) FindSimilar(ctx context.Context, inv *invoiceDomain.Invoice) (*invoiceDomain.Invoice, error) {
	var out invoiceDomain.Invoice
	res := r.db.WithContext(ctx).
		Where("seller_id = ? AND buyer_id = ? AND amount = ? AND issue_date = ? AND invoice_id <> ?",
			inv.SellerID, inv.BuyerID, inv.Amount, inv.IssueDate, inv.InvoiceID).
		First(&out)
	return &out, res.Error
}
