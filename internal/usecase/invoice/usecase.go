package invoice

import (
	"context"
	"errors"
	"fmt"
	"time"

	invoiceDomain "invofin-backend/internal/domain/invoice"
	"invofin-backend/internal/domain/notification"
	"invofin-backend/internal/domain/risk"
	"invofin-backend/internal/usecase/fraud"
	"invofin-backend/pkg/id"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

var ErrInvalidInput = errors.New("invalid input")

type Usecase struct {
	invoices invoiceDomain.Repository
	machine  *invoiceDomain.Machine
	detector *fraud.Detector
	notifier notification.Notifier
	log      zerolog.Logger
	now      func() time.Time
}

func NewUsecase(invoices invoiceDomain.Repository, machine *invoiceDomain.Machine, detector *fraud.Detector, notifier notification.Notifier, log zerolog.Logger) *Usecase {
	return &Usecase{
		invoices: invoices,
		machine:  machine,
		detector: detector,
		notifier: notifier,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create registers a seller's invoice, runs the fraud battery and the risk
// engine, and moves the invoice to pending buyer confirmation when a buyer
// is named. A failed fraud verdict does not reject the invoice; it is held
// out of auto-listing and flagged for review instead.
func (u *Usecase) Create(ctx context.Context, in CreateInput) (*InvoiceDTO, error) {
	if len(in.SellerID) != 32 || in.InvoiceNumber == "" || in.Amount <= 0 {
		return nil, ErrInvalidInput
	}
	if in.RequestedAmount <= 0 || in.RequestedAmount > in.Amount {
		return nil, fmt.Errorf("%w: requested amount must be positive and at most the face amount", ErrInvalidInput)
	}
	if !in.KYCVerified {
		return nil, invoiceDomain.ErrKYCRequired
	}

	// Reject duplicate business keys up-front; the unique index is the backstop.
	if _, err := u.invoices.GetByNumber(ctx, in.InvoiceNumber); err == nil {
		return nil, invoiceDomain.ErrDuplicateNumber
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := u.now()
	currency := in.Currency
	if currency == "" {
		currency = "INR"
	}
	inv := &invoiceDomain.Invoice{
		InvoiceID:       id.NewID32(),
		InvoiceNumber:   in.InvoiceNumber,
		SellerID:        in.SellerID,
		BuyerID:         in.BuyerID,
		Amount:          in.Amount,
		RequestedAmount: in.RequestedAmount,
		DiscountRate:    in.DiscountRate,
		ExpectedReturn:  in.Amount,
		Currency:        currency,
		Description:     in.Description,
		IssueDate:       in.IssueDate,
		DueDate:         in.DueDate,
		Status:          invoiceDomain.StatusDraft,
		Documents:       in.Documents,
		StatusHistory: []invoiceDomain.StatusChange{
			{Status: invoiceDomain.StatusDraft, Actor: in.SellerID, Notes: "created", At: now},
		},
	}

	u.assess(ctx, inv)

	if in.BuyerID != "" {
		if err := u.machine.Transition(inv, invoiceDomain.StatusPendingBuyer, in.SellerID, "awaiting buyer confirmation"); err != nil {
			return nil, err
		}
	}

	if err := u.invoices.Create(ctx, inv); err != nil {
		return nil, err
	}

	u.log.Info().
		Str("invoice_id", inv.InvoiceID).
		Str("seller_id", inv.SellerID).
		Float64("amount", inv.Amount).
		Int("risk_score", inv.RiskScore).
		Str("fraud_status", string(inv.FraudStatus)).
		Msg("invoice created")

	if inv.BuyerID != "" {
		u.notifier.NotifyUser(inv.BuyerID, u.event(notification.TypeConfirmRequested, inv,
			"Confirmation requested",
			fmt.Sprintf("Invoice %s awaits your confirmation", inv.InvoiceNumber)))
	}
	if inv.FraudStatus == invoiceDomain.FraudFailed {
		u.notifier.NotifyUser(inv.SellerID, u.event(notification.TypeInvoiceHeld, inv,
			"Invoice held for review",
			fmt.Sprintf("Invoice %s is held pending manual review", inv.InvoiceNumber)))
	}
	return toDTO(inv), nil
}

// Confirm is the buyer accepting the invoice as valid. The fraud battery and
// risk score are recomputed with the confirmation in hand, then the invoice
// auto-lists when the score clears the threshold.
func (u *Usecase) Confirm(ctx context.Context, invoiceID, actorID, notes string) (*InvoiceDTO, error) {
	inv, err := u.getByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.BuyerID == "" || inv.BuyerID != actorID {
		return nil, invoiceDomain.ErrNotAuthorized
	}

	if err := u.machine.Transition(inv, invoiceDomain.StatusConfirmed, actorID, notes); err != nil {
		return nil, err
	}
	u.assess(ctx, inv)

	listed, err := u.machine.AutoList(inv, actorID)
	if err != nil {
		return nil, err
	}
	if err := u.invoices.Save(ctx, inv); err != nil {
		return nil, err
	}

	u.notifier.NotifyUser(inv.SellerID, u.event(notification.TypeInvoiceConfirmed, inv,
		"Invoice confirmed",
		fmt.Sprintf("Invoice %s was confirmed by the buyer", inv.InvoiceNumber)))
	if listed {
		u.notifier.NotifyRole(notification.RoleInvestor, u.event(notification.TypeInvoiceListed, inv,
			"New marketplace listing",
			fmt.Sprintf("Invoice %s is open for funding", inv.InvoiceNumber)))
	} else {
		u.notifier.NotifyUser(inv.SellerID, u.event(notification.TypeInvoiceHeld, inv,
			"Invoice held for review",
			fmt.Sprintf("Invoice %s needs manual review before listing", inv.InvoiceNumber)))
	}
	return toDTO(inv), nil
}

// Reject is the buyer declining the invoice; it terminates in cancelled.
func (u *Usecase) Reject(ctx context.Context, invoiceID, actorID, notes string) (*InvoiceDTO, error) {
	inv, err := u.getByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.BuyerID == "" || inv.BuyerID != actorID {
		return nil, invoiceDomain.ErrNotAuthorized
	}
	if inv.Status != invoiceDomain.StatusPendingBuyer {
		return nil, fmt.Errorf("%w: %s -> %s", invoiceDomain.ErrIllegalTransition, inv.Status, invoiceDomain.StatusCancelled)
	}
	if err := u.machine.Transition(inv, invoiceDomain.StatusCancelled, actorID, notes); err != nil {
		return nil, err
	}
	if err := u.invoices.Save(ctx, inv); err != nil {
		return nil, err
	}
	u.notifier.NotifyUser(inv.SellerID, u.event(notification.TypeInvoiceCancelled, inv,
		"Invoice rejected",
		fmt.Sprintf("Invoice %s was rejected by the buyer", inv.InvoiceNumber)))
	return toDTO(inv), nil
}

// Cancel withdraws a pre-funded invoice (seller action).
func (u *Usecase) Cancel(ctx context.Context, invoiceID, actorID, notes string) (*InvoiceDTO, error) {
	inv, err := u.getByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.SellerID != actorID {
		return nil, invoiceDomain.ErrNotAuthorized
	}
	wasListed := inv.Status == invoiceDomain.StatusListed
	if err := u.machine.Transition(inv, invoiceDomain.StatusCancelled, actorID, notes); err != nil {
		return nil, err
	}
	if err := u.invoices.Save(ctx, inv); err != nil {
		return nil, err
	}
	if inv.BuyerID != "" {
		u.notifier.NotifyUser(inv.BuyerID, u.event(notification.TypeInvoiceCancelled, inv,
			"Invoice cancelled",
			fmt.Sprintf("Invoice %s was withdrawn by the seller", inv.InvoiceNumber)))
	}
	if wasListed {
		u.notifier.NotifyRole(notification.RoleInvestor, u.event(notification.TypeListingRemoved, inv,
			"Listing removed",
			fmt.Sprintf("Invoice %s is no longer available", inv.InvoiceNumber)))
	}
	return toDTO(inv), nil
}

func (u *Usecase) Get(ctx context.Context, invoiceID string) (*InvoiceDTO, error) {
	inv, err := u.getByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	return toDTO(inv), nil
}

func (u *Usecase) ListBySeller(ctx context.Context, sellerID string) ([]InvoiceDTO, error) {
	invs, err := u.invoices.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	out := make([]InvoiceDTO, 0, len(invs))
	for i := range invs {
		out = append(out, *toDTO(&invs[i]))
	}
	return out, nil
}

// Marketplace returns all listed invoices as investor-facing listings.
func (u *Usecase) Marketplace(ctx context.Context) ([]Listing, error) {
	invs, err := u.invoices.ListByStatus(ctx, invoiceDomain.StatusListed)
	if err != nil {
		return nil, err
	}
	now := u.now()
	out := make([]Listing, 0, len(invs))
	for i := range invs {
		out = append(out, toListing(&invs[i], now))
	}
	return out, nil
}

// assess recomputes the fraud verdict and risk assessment in that order;
// the verdict is an input to the score, never the reverse.
func (u *Usecase) assess(ctx context.Context, inv *invoiceDomain.Invoice) {
	report, err := u.detector.Check(ctx, inv)
	if err != nil {
		u.log.Warn().Err(err).Str("invoice_id", inv.InvoiceID).Msg("fraud check failed to run")
	} else {
		inv.FraudStatus = report.Status
		inv.FraudScore = report.Score
		inv.FraudFlags = report.Flags
		inv.FraudCheckedAt = &report.CheckedAt
	}

	verdict := risk.VerdictPending
	switch inv.FraudStatus {
	case invoiceDomain.FraudPassed:
		verdict = risk.VerdictPassed
	case invoiceDomain.FraudFailed:
		verdict = risk.VerdictFailed
	}
	a := risk.Score(risk.Input{
		Amount:         inv.Amount,
		DaysToDue:      inv.DaysToDue(u.now()),
		BuyerConfirmed: inv.BuyerConfirmed,
		FraudVerdict:   verdict,
	})
	inv.RiskScore = a.Score
	inv.RiskCategory = invoiceDomain.RiskCategory(a.Category)
	factors := make([]invoiceDomain.RiskFactor, 0, len(a.Factors))
	for _, f := range a.Factors {
		factors = append(factors, invoiceDomain.RiskFactor{Factor: f.Factor, Weight: f.Weight})
	}
	inv.RiskFactors = factors
	inv.RiskAssessedAt = &a.AssessedAt
}

func (u *Usecase) getByID(ctx context.Context, invoiceID string) (*invoiceDomain.Invoice, error) {
	inv, err := u.invoices.GetByInvoiceID(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invoiceDomain.ErrNotFound
		}
		return nil, err
	}
	return inv, nil
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
