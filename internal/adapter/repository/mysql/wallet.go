package mysql

import (
	"context"
	"errors"
	"fmt"

	walletDomain "invofin-backend/internal/domain/wallet"
	"invofin-backend/pkg/id"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WalletRepository struct{ db *gorm.DB }

func NewWalletRepository(db *gorm.DB) *WalletRepository { return &WalletRepository{db: db} }

func (r *WalletRepository) GetOrCreate(ctx context.Context, userID string) (*walletDomain.Wallet, error) {
	var w walletDomain.Wallet
	res := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Attrs(walletDomain.Wallet{WalletID: id.NewID32(), UserID: userID}).
		FirstOrCreate(&w)
	return &w, res.Error
}

func (r *WalletRepository) GetByUserID(ctx context.Context, userID string) (*walletDomain.Wallet, error) {
	var w walletDomain.Wallet
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&w)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, walletDomain.ErrNotFound
	}
	return &w, res.Error
}

// Debit is balance-check-then-subtract as one conditional UPDATE; the
// matching ledger entry lands in the same transaction. RowsAffected == 0
// means either no wallet or not enough balance.
func (r *WalletRepository) Debit(ctx context.Context, userID string, amount float64, reason string, invoiceID *string) (*walletDomain.Wallet, error) {
	if amount <= 0 {
		return nil, walletDomain.ErrNonPositiveAmount
	}
	var out *walletDomain.Wallet
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&walletDomain.Wallet{}).
			Where("user_id = ? AND balance >= ?", userID, amount).
			Update("balance", gorm.Expr("balance - ?", amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var w walletDomain.Wallet
			if err := tx.Where("user_id = ?", userID).First(&w).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return walletDomain.ErrNotFound
				}
				return err
			}
			return fmt.Errorf("%w: balance %.2f, need %.2f", walletDomain.ErrInsufficientFunds, w.Balance, amount)
		}
		var w walletDomain.Wallet
		if err := tx.Where("user_id = ?", userID).First(&w).Error; err != nil {
			return err
		}
		entry := walletDomain.Entry{
			EntryID:   uuid.NewString(),
			WalletID:  w.ID,
			Type:      walletDomain.EntryDebit,
			Amount:    amount,
			Reason:    reason,
			InvoiceID: invoiceID,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		out = &w
		return nil
	})
	return out, err
}

func (r *WalletRepository) Credit(ctx context.Context, userID string, amount float64, reason string, invoiceID *string) (*walletDomain.Wallet, error) {
	if amount <= 0 {
		return nil, walletDomain.ErrNonPositiveAmount
	}
	var out *walletDomain.Wallet
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		w, err := (&WalletRepository{db: tx}).GetOrCreate(ctx, userID)
		if err != nil {
			return err
		}
		res := tx.Model(&walletDomain.Wallet{}).
			Where("id = ?", w.ID).
			Update("balance", gorm.Expr("balance + ?", amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: credit leg did not apply for user %s", walletDomain.ErrLedgerInconsistency, userID)
		}
		entry := walletDomain.Entry{
			EntryID:   uuid.NewString(),
			WalletID:  w.ID,
			Type:      walletDomain.EntryCredit,
			Amount:    amount,
			Reason:    reason,
			InvoiceID: invoiceID,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		if err := tx.Where("id = ?", w.ID).First(w).Error; err != nil {
			return err
		}
		out = w
		return nil
	})
	return out, err
}

func (r *WalletRepository) Entries(ctx context.Context, userID string) ([]walletDomain.Entry, error) {
	w, err := r.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	var out []walletDomain.Entry
	res := r.db.WithContext(ctx).
		Where("wallet_id = ?", w.ID).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}
