package mysql

import (
	"context"

	"invofin-backend/internal/domain/invoice"
	"invofin-backend/internal/domain/uow"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func (u *GormUoW) repos(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Invoices:    &InvoiceRepository{db: tx},
		Wallets:     &WalletRepository{db: tx},
		Investments: &InvestmentRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(u.repos(tx))
	})
}

func (u *GormUoW) WithinInvoiceTx(ctx context.Context, invoiceID string, fn func(r uow.Repos, inv *invoice.Invoice) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := u.repos(tx)
		// lock the invoice row up-front to serialize state changes
		inv, err := r.Invoices.GetByInvoiceIDForUpdate(ctx, invoiceID)
		if err != nil {
			return err
		}
		return fn(r, inv)
	})
}
