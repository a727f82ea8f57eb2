package mysql

import (
	"context"
	"errors"

	investmentDomain "invofin-backend/internal/domain/investment"

	"gorm.io/gorm"
)

type InvestmentRepository struct{ db *gorm.DB }

func NewInvestmentRepository(db *gorm.DB) *InvestmentRepository {
	return &InvestmentRepository{db: db}
}

func (r *InvestmentRepository) Create(ctx context.Context, inv *investmentDomain.Investment) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *InvestmentRepository) Save(ctx context.Context, inv *investmentDomain.Investment) error {
	return r.db.WithContext(ctx).Save(inv).Error
}

func (r *InvestmentRepository) GetByInvestmentID(ctx context.Context, investmentID string) (*investmentDomain.Investment, error) {
	var out investmentDomain.Investment
	res := r.db.WithContext(ctx).Where("investment_id = ?", investmentID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, investmentDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *InvestmentRepository) GetByInvoiceID(ctx context.Context, invoiceNumericID uint64) (*investmentDomain.Investment, error) {
	var out investmentDomain.Investment
	res := r.db.WithContext(ctx).Where("invoice_id = ?", invoiceNumericID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, investmentDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *InvestmentRepository) ListByInvestor(ctx context.Context, investorID string) ([]investmentDomain.Investment, error) {
	var out []investmentDomain.Investment
	res := r.db.WithContext(ctx).
		Where("investor_id = ?", investorID).
		Order("created_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}
