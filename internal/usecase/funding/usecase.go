// Package funding orchestrates the money-moving operations: funding an
// invoice, repaying it at maturity, and marking defaults. Every operation
// runs its validations and mutations inside one unit of work so a failure
// at any step leaves no partial state behind.
package funding

import (
	"context"
	"errors"
	"fmt"
	"time"

	investmentDomain "invofin-backend/internal/domain/investment"
	invoiceDomain "invofin-backend/internal/domain/invoice"
	"invofin-backend/internal/domain/notification"
	"invofin-backend/internal/domain/uow"
	walletDomain "invofin-backend/internal/domain/wallet"
	"invofin-backend/pkg/id"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

var ErrInvalidInput = errors.New("invalid input")

// errClaimConflict marks a funding claim that lost a race without a
// definite cause; it is retried once and then reported as already funded.
var errClaimConflict = errors.New("funding claim conflict")

type Usecase struct {
	uow      uow.UnitOfWork
	machine  *invoiceDomain.Machine
	notifier notification.Notifier
	log      zerolog.Logger
	now      func() time.Time
}

func NewUsecase(u uow.UnitOfWork, machine *invoiceDomain.Machine, notifier notification.Notifier, log zerolog.Logger) *Usecase {
	return &Usecase{
		uow:      u,
		machine:  machine,
		notifier: notifier,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

type FundInput struct {
	InvoiceID   string
	InvestorID  string
	Amount      float64
	KYCVerified bool
}

type FundResult struct {
	Invoice    *invoiceDomain.Invoice
	Investment *investmentDomain.Investment
	// Balance is the investor's wallet balance after the debit.
	Balance float64
}

// Fund gives in.InvestorID exclusive rights over the invoice and moves the
// money: investor debited, seller credited, investment recorded, invoice
// transitioned to funded. All of it commits or none of it does. The
// fixed order is validate, atomic claim, debit, credit, transition; the
// notifications go out only after the commit.
func (u *Usecase) Fund(ctx context.Context, in FundInput) (*FundResult, error) {
	if in.InvoiceID == "" || len(in.InvestorID) != 32 || in.Amount <= 0 {
		return nil, ErrInvalidInput
	}
	if !in.KYCVerified {
		return nil, invoiceDomain.ErrKYCRequired
	}

	res, err := u.fundOnce(ctx, in)
	if errors.Is(err, errClaimConflict) {
		// one transparent retry, then surface the loss
		res, err = u.fundOnce(ctx, in)
		if errors.Is(err, errClaimConflict) {
			err = invoiceDomain.ErrAlreadyFunded
		}
	}
	if err != nil {
		return nil, err
	}

	inv := res.Invoice
	u.log.Info().
		Str("invoice_id", inv.InvoiceID).
		Str("investor_id", in.InvestorID).
		Float64("amount", in.Amount).
		Msg("invoice funded")

	u.notifier.NotifyUser(inv.SellerID, u.event(notification.TypeInvoiceFunded, inv,
		"Invoice funded",
		fmt.Sprintf("Invoice %s was funded for %.2f", inv.InvoiceNumber, in.Amount)))
	u.notifier.NotifyUser(in.InvestorID, u.event(notification.TypeInvestmentCreated, inv,
		"Investment created",
		fmt.Sprintf("You funded invoice %s for %.2f", inv.InvoiceNumber, in.Amount)))
	u.notifier.NotifyRole(notification.RoleInvestor, u.event(notification.TypeListingRemoved, inv,
		"Listing removed",
		fmt.Sprintf("Invoice %s has been funded", inv.InvoiceNumber)))

	return res, nil
}

func (u *Usecase) fundOnce(ctx context.Context, in FundInput) (*FundResult, error) {
	var res FundResult
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		inv, err := r.Invoices.GetByInvoiceID(ctx, in.InvoiceID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return invoiceDomain.ErrNotFound
			}
			return err
		}
		if !inv.Fundable() {
			if inv.InvestorID != nil {
				return invoiceDomain.ErrAlreadyFunded
			}
			return fmt.Errorf("%w: status %s", invoiceDomain.ErrNotFundable, inv.Status)
		}
		// no partial funding: the invoice is funded at exactly the
		// requested financing amount
		if in.Amount != inv.RequestedAmount {
			return fmt.Errorf("%w: amount must equal the requested financing amount", ErrInvalidInput)
		}

		claimed, err := r.Invoices.ClaimForFunding(ctx, in.InvoiceID, in.InvestorID)
		if err != nil {
			return err
		}
		if !claimed {
			// someone beat us to it, or the status moved underneath us
			cur, err := r.Invoices.GetByInvoiceID(ctx, in.InvoiceID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return invoiceDomain.ErrNotFound
				}
				return err
			}
			if cur.InvestorID != nil {
				return invoiceDomain.ErrAlreadyFunded
			}
			if !cur.Fundable() {
				return fmt.Errorf("%w: status %s", invoiceDomain.ErrNotFundable, cur.Status)
			}
			return errClaimConflict
		}
		inv.InvestorID = &in.InvestorID

		invoiceRef := inv.InvoiceID
		w, err := r.Wallets.Debit(ctx, in.InvestorID, in.Amount, "invoice funding", &invoiceRef)
		if err != nil {
			return err
		}
		// insufficient funds reports before self-funding; the rollback
		// undoes the claim and the debit
		if inv.SellerID == in.InvestorID {
			return invoiceDomain.ErrSelfFunding
		}
		if _, err := r.Wallets.Credit(ctx, inv.SellerID, in.Amount, "invoice funded", &invoiceRef); err != nil {
			if errors.Is(err, walletDomain.ErrLedgerInconsistency) {
				u.log.Error().Err(err).
					Str("invoice_id", inv.InvoiceID).
					Str("seller_id", inv.SellerID).
					Msg("credit leg failed, rolling back funding")
			}
			return err
		}

		investment := &investmentDomain.Investment{
			InvestmentID:   id.NewID32(),
			InvoiceID:      inv.ID,
			InvestorID:     in.InvestorID,
			Amount:         in.Amount,
			ExpectedReturn: inv.Amount,
			Status:         investmentDomain.StatusActive,
			MaturityDate:   inv.DueDate,
		}
		if err := r.Investments.Create(ctx, investment); err != nil {
			return err
		}

		if err := u.machine.Transition(inv, invoiceDomain.StatusFunded, in.InvestorID, "funded"); err != nil {
			return err
		}
		inv.FundedAmount = in.Amount
		inv.ExpectedReturn = inv.Amount
		if err := r.Invoices.Save(ctx, inv); err != nil {
			return err
		}

		res = FundResult{Invoice: inv, Investment: investment, Balance: w.Balance}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

type RepayResult struct {
	Invoice    *invoiceDomain.Invoice
	Investment *investmentDomain.Investment
}

// Repay is the mirror operation at maturity: the buyer's wallet is debited
// the face amount, the investor credited, the invoice moves to repaid and
// the investment completes with its actual return recorded.
func (u *Usecase) Repay(ctx context.Context, invoiceID, actorID string) (*RepayResult, error) {
	if invoiceID == "" || len(actorID) != 32 {
		return nil, ErrInvalidInput
	}

	var res RepayResult
	err := u.uow.WithinInvoiceTx(ctx, invoiceID, func(r uow.Repos, inv *invoiceDomain.Invoice) error {
		if inv.BuyerID == "" || inv.BuyerID != actorID {
			return invoiceDomain.ErrNotAuthorized
		}
		if inv.Status != invoiceDomain.StatusFunded {
			return fmt.Errorf("%w: %s -> %s", invoiceDomain.ErrIllegalTransition, inv.Status, invoiceDomain.StatusRepaid)
		}

		investment, err := r.Investments.GetByInvoiceID(ctx, inv.ID)
		if err != nil {
			return err
		}

		invoiceRef := inv.InvoiceID
		if _, err := r.Wallets.Debit(ctx, inv.BuyerID, inv.Amount, "invoice repayment", &invoiceRef); err != nil {
			return err
		}
		if _, err := r.Wallets.Credit(ctx, investment.InvestorID, inv.Amount, "invoice repaid", &invoiceRef); err != nil {
			return err
		}

		now := u.now()
		investment.Status = investmentDomain.StatusCompleted
		investment.ActualReturn = inv.Amount
		investment.CompletedAt = &now
		if err := r.Investments.Save(ctx, investment); err != nil {
			return err
		}

		if err := u.machine.Transition(inv, invoiceDomain.StatusRepaid, actorID, "repaid at maturity"); err != nil {
			return err
		}
		inv.ActualReturn = inv.Amount
		if err := r.Invoices.Save(ctx, inv); err != nil {
			return err
		}

		res = RepayResult{Invoice: inv, Investment: investment}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invoiceDomain.ErrNotFound
		}
		return nil, err
	}

	inv := res.Invoice
	u.log.Info().
		Str("invoice_id", inv.InvoiceID).
		Float64("amount", inv.Amount).
		Msg("invoice repaid")

	u.notifier.NotifyUser(res.Investment.InvestorID, u.event(notification.TypeInvoiceRepaid, inv,
		"Invoice repaid",
		fmt.Sprintf("Invoice %s was repaid; %.2f credited to your wallet", inv.InvoiceNumber, inv.Amount)))
	u.notifier.NotifyUser(inv.SellerID, u.event(notification.TypeInvoiceRepaid, inv,
		"Invoice repaid",
		fmt.Sprintf("Invoice %s was repaid by the buyer", inv.InvoiceNumber)))

	return &res, nil
}

// MarkDefaulted records post-maturity non-payment (external trigger). A
// funded default also marks the investment defaulted.
func (u *Usecase) MarkDefaulted(ctx context.Context, invoiceID, actorID, notes string) (*invoiceDomain.Invoice, error) {
	if invoiceID == "" {
		return nil, ErrInvalidInput
	}

	var out *invoiceDomain.Invoice
	var investorID string
	err := u.uow.WithinInvoiceTx(ctx, invoiceID, func(r uow.Repos, inv *invoiceDomain.Invoice) error {
		// default is a post-maturity event only
		if u.now().Before(inv.DueDate) {
			return invoiceDomain.ErrNotMatured
		}
		wasFunded := inv.Status == invoiceDomain.StatusFunded
		if err := u.machine.Transition(inv, invoiceDomain.StatusDefaulted, actorID, notes); err != nil {
			return err
		}
		if wasFunded {
			investment, err := r.Investments.GetByInvoiceID(ctx, inv.ID)
			if err != nil {
				return err
			}
			investment.Status = investmentDomain.StatusDefaulted
			if err := r.Investments.Save(ctx, investment); err != nil {
				return err
			}
			investorID = investment.InvestorID
		}
		if err := r.Invoices.Save(ctx, inv); err != nil {
			return err
		}
		out = inv
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invoiceDomain.ErrNotFound
		}
		return nil, err
	}

	u.log.Warn().Str("invoice_id", out.InvoiceID).Msg("invoice defaulted")
	u.notifier.NotifyUser(out.SellerID, u.event(notification.TypeInvoiceDefaulted, out,
		"Invoice defaulted",
		fmt.Sprintf("Invoice %s was marked as defaulted", out.InvoiceNumber)))
	if investorID != "" {
		u.notifier.NotifyUser(investorID, u.event(notification.TypeInvoiceDefaulted, out,
			"Investment defaulted",
			fmt.Sprintf("Invoice %s defaulted; your investment is affected", out.InvoiceNumber)))
	}
	return out, nil
}

// Portfolio lists an investor's investments.
func (u *Usecase) Portfolio(ctx context.Context, investorID string) ([]investmentDomain.Investment, error) {
	if len(investorID) != 32 {
		return nil, ErrInvalidInput
	}
	var out []investmentDomain.Investment
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		out, err = r.Investments.ListByInvestor(ctx, investorID)
		return err
	})
	return out, err
}

func (u *Usecase) event(typ string, inv *invoiceDomain.Invoice, title, message string) notification.Event {
	return notification.Event{
		ID:               uuid.NewString(),
		Type:             typ,
		Title:            title,
		Message:          message,
		RelatedInvoiceID: inv.InvoiceID,
		Timestamp:        u.now(),
	}
}
