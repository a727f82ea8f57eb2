package wallet

import (
	"context"
	"errors"
	"testing"

	walletDomain "invofin-backend/internal/domain/wallet"
	"invofin-backend/internal/testutil/walletmock"
)

const userID = "dddddddddddddddddddddddddddddddd"

func TestGet_BuildsReadModel(t *testing.T) {
	ref := "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	repo := &walletmock.Repo{
		GetOrCreateFn: func(ctx context.Context, uid string) (*walletDomain.Wallet, error) {
			return &walletDomain.Wallet{ID: 1, WalletID: "11111111111111111111111111111111", UserID: uid, Balance: 250.50}, nil
		},
		EntriesFn: func(ctx context.Context, uid string) ([]walletDomain.Entry, error) {
			return []walletDomain.Entry{
				{EntryID: "e1", Type: walletDomain.EntryCredit, Amount: 300, Reason: "deposit"},
				{EntryID: "e2", Type: walletDomain.EntryDebit, Amount: 49.50, Reason: "invoice funding", InvoiceID: &ref},
			}, nil
		},
	}
	u := NewUsecase(repo)

	dto, err := u.Get(context.Background(), userID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if dto.Balance != 250.50 || dto.UserID != userID {
		t.Errorf("dto = %+v", dto)
	}
	if len(dto.Transactions) != 2 {
		t.Fatalf("transactions = %d, want 2", len(dto.Transactions))
	}
	if dto.Transactions[1].InvoiceID != ref {
		t.Errorf("invoice ref not mapped: %+v", dto.Transactions[1])
	}
}

func TestGet_InvalidUser(t *testing.T) {
	u := NewUsecase(&walletmock.Repo{})
	if _, err := u.Get(context.Background(), "short"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestDeposit(t *testing.T) {
	var credited float64
	repo := &walletmock.Repo{
		CreditFn: func(ctx context.Context, uid string, amount float64, reason string, invoiceID *string) (*walletDomain.Wallet, error) {
			if reason != "deposit" || invoiceID != nil {
				t.Errorf("credit call = %s/%v", reason, invoiceID)
			}
			credited = amount
			return &walletDomain.Wallet{UserID: uid, Balance: amount}, nil
		},
		GetOrCreateFn: func(ctx context.Context, uid string) (*walletDomain.Wallet, error) {
			return &walletDomain.Wallet{UserID: uid, Balance: credited}, nil
		},
		EntriesFn: func(ctx context.Context, uid string) ([]walletDomain.Entry, error) {
			return nil, nil
		},
	}
	u := NewUsecase(repo)

	dto, err := u.Deposit(context.Background(), userID, 500)
	if err != nil {
		t.Fatalf("Deposit: %v", err)
	}
	if credited != 500 || dto.Balance != 500 {
		t.Errorf("credited=%.2f balance=%.2f, want 500/500", credited, dto.Balance)
	}

	if _, err := u.Deposit(context.Background(), userID, -1); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("negative deposit: err = %v, want ErrInvalidInput", err)
	}
}
