package wallet

import "context"

type Repository interface {
	// GetOrCreate lazily provisions a wallet on first financial touch.
	GetOrCreate(ctx context.Context, userID string) (*Wallet, error)
	GetByUserID(ctx context.Context, userID string) (*Wallet, error)

	// Debit atomically checks the balance and subtracts amount in a single
	// conditional update, appending the matching ledger entry. Fails with
	// ErrInsufficientFunds without touching anything when the balance is
	// short.
	Debit(ctx context.Context, userID string, amount float64, reason string, invoiceID *string) (*Wallet, error)
	// Credit adds amount, creating the wallet if absent, and appends the
	// matching ledger entry.
	Credit(ctx context.Context, userID string, amount float64, reason string, invoiceID *string) (*Wallet, error)

	Entries(ctx context.Context, userID string) ([]Entry, error)
}
