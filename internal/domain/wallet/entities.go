package wallet

import (
	"errors"
	"time"
)

var (
	ErrNotFound            = errors.New("wallet not found")
	ErrInsufficientFunds   = errors.New("insufficient wallet balance")
	ErrNonPositiveAmount   = errors.New("amount must be positive")
	ErrLedgerInconsistency = errors.New("ledger inconsistency")
)

type EntryType string

const (
	EntryCredit EntryType = "credit"
	EntryDebit  EntryType = "debit"
)

// Wallet holds one user's balance. The balance column is only ever moved by
// conditional updates paired with an Entry row in the same transaction, so
// it always equals the running sum of its entries and never goes negative.
type Wallet struct {
	ID        uint64    `gorm:"primaryKey;column:id" json:"-"`
	WalletID  string    `gorm:"size:32;uniqueIndex:ux_wallets_wallet_id" json:"wallet_id"`
	UserID    string    `gorm:"size:32;uniqueIndex:ux_wallets_user_id" json:"user_id"`
	Balance   float64   `gorm:"type:decimal(18,2);default:0" json:"balance"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Wallet) TableName() string { return "wallets" }

// Entry is one append-only ledger line. EntryID doubles as the idempotency
// reference for a money movement.
type Entry struct {
	ID        uint64    `gorm:"primaryKey;column:id" json:"-"`
	EntryID   string    `gorm:"size:36;uniqueIndex:ux_wallet_entries_entry_id" json:"entry_id"`
	WalletID  uint64    `gorm:"index:idx_wallet_entries_wallet;not null" json:"-"`
	Type      EntryType `gorm:"type:enum('credit','debit')" json:"type"`
	Amount    float64   `gorm:"type:decimal(18,2)" json:"amount"`
	Reason    string    `gorm:"size:128" json:"reason"`
	InvoiceID *string   `gorm:"size:32;index:idx_wallet_entries_invoice" json:"invoice_id,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Entry) TableName() string { return "wallet_entries" }
