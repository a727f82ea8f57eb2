package wallet

import (
	"context"
	"errors"
	"time"

	walletDomain "invofin-backend/internal/domain/wallet"
)

var ErrInvalidInput = errors.New("invalid input")

type Usecase struct{ wallets walletDomain.Repository }

func NewUsecase(wallets walletDomain.Repository) *Usecase { return &Usecase{wallets: wallets} }

type EntryDTO struct {
	EntryID   string    `json:"entry_id"`
	Type      string    `json:"type"`
	Amount    float64   `json:"amount"`
	Reason    string    `json:"reason"`
	InvoiceID string    `json:"invoice_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type WalletDTO struct {
	WalletID     string     `json:"wallet_id"`
	UserID       string     `json:"user_id"`
	Balance      float64    `json:"balance"`
	Transactions []EntryDTO `json:"transactions"`
}

// Get returns the wallet read model, lazily provisioning the wallet on a
// user's first financial touch.
func (u *Usecase) Get(ctx context.Context, userID string) (*WalletDTO, error) {
	if len(userID) != 32 {
		return nil, ErrInvalidInput
	}
	w, err := u.wallets.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	entries, err := u.wallets.Entries(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toDTO(w, entries), nil
}

// Deposit credits the wallet from an external source.
func (u *Usecase) Deposit(ctx context.Context, userID string, amount float64) (*WalletDTO, error) {
	if len(userID) != 32 || amount <= 0 {
		return nil, ErrInvalidInput
	}
	if _, err := u.wallets.Credit(ctx, userID, amount, "deposit", nil); err != nil {
		return nil, err
	}
	return u.Get(ctx, userID)
}

func toDTO(w *walletDomain.Wallet, entries []walletDomain.Entry) *WalletDTO {
	dto := &WalletDTO{
		WalletID:     w.WalletID,
		UserID:       w.UserID,
		Balance:      w.Balance,
		Transactions: make([]EntryDTO, 0, len(entries)),
	}
	for _, e := range entries {
		d := EntryDTO{
			EntryID:   e.EntryID,
			Type:      string(e.Type),
			Amount:    e.Amount,
			Reason:    e.Reason,
			CreatedAt: e.CreatedAt,
		}
		if e.InvoiceID != nil {
			d.InvoiceID = *e.InvoiceID
		}
		dto.Transactions = append(dto.Transactions, d)
	}
	return dto
}
