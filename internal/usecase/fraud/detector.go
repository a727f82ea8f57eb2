// Package fraud runs the heuristic check battery that gates marketplace
// listing. Each check is independent; the aggregate verdict feeds the risk
// scoring engine, not the other way around.
package fraud

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"invofin-backend/internal/domain/invoice"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type Severity string

const (
	SeverityNone   Severity = "none"
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

const (
	hourlyCreationLimit = 5
	dailyCreationLimit  = 20

	poorSuccessRate    = 50.0
	poorHistoryMinimum = 5
	weakSuccessRate    = 70.0
	weakHistoryMinimum = 10
)

type CheckResult struct {
	Check    string   `json:"check"`
	Flag     bool     `json:"flag"`
	Severity Severity `json:"severity"`
	Reason   string   `json:"reason"`
}

type Report struct {
	Status    invoice.FraudStatus `json:"status"`
	Score     int                 `json:"score"`
	Flags     []string            `json:"flags"`
	Checks    []CheckResult       `json:"checks"`
	CheckedAt time.Time           `json:"checked_at"`
}

type Detector struct {
	invoices invoice.Repository
	log      zerolog.Logger
	now      func() time.Time
}

func NewDetector(invoices invoice.Repository, log zerolog.Logger) *Detector {
	return &Detector{
		invoices: invoices,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Check runs every heuristic against the candidate invoice and aggregates.
// Verdict is failed as soon as any check flags; the check score starts at
// 100 and loses 30 per high, 15 per medium and 5 per low severity flag,
// floored at zero.
func (d *Detector) Check(ctx context.Context, inv *invoice.Invoice) (*Report, error) {
	checks := []CheckResult{
		d.checkDuplicate(ctx, inv),
		d.checkAmountAnomaly(ctx, inv),
		d.checkRapidCreation(ctx, inv.SellerID),
		d.checkSellerHistory(ctx, inv.SellerID),
		d.checkPattern(inv),
	}

	report := &Report{
		Status:    invoice.FraudPassed,
		Score:     100,
		Checks:    checks,
		CheckedAt: d.now(),
	}
	for _, c := range checks {
		if !c.Flag {
			continue
		}
		report.Status = invoice.FraudFailed
		report.Flags = append(report.Flags, c.Reason)
		switch c.Severity {
		case SeverityHigh:
			report.Score -= 30
		case SeverityMedium:
			report.Score -= 15
		case SeverityLow:
			report.Score -= 5
		}
	}
	if report.Score < 0 {
		report.Score = 0
	}
	return report, nil
}

func (d *Detector) checkDuplicate(ctx context.Context, inv *invoice.Invoice) CheckResult {
	const name = "duplicate_invoice"

	dup, err := d.invoices.GetByNumber(ctx, inv.InvoiceNumber)
	switch {
	case err == nil && dup.InvoiceID != inv.InvoiceID:
		return CheckResult{Check: name, Flag: true, Severity: SeverityHigh, Reason: "duplicate invoice number detected"}
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		d.log.Warn().Err(err).Str("invoice_id", inv.InvoiceID).Msg("fraud: duplicate number lookup failed")
		return CheckResult{Check: name, Severity: SeverityNone, Reason: "check failed"}
	}

	_, err = d.invoices.FindSimilar(ctx, inv)
	switch {
	case err == nil:
		return CheckResult{Check: name, Flag: true, Severity: SeverityMedium, Reason: "similar invoice content detected"}
	case !errors.Is(err, gorm.ErrRecordNotFound):
		d.log.Warn().Err(err).Str("invoice_id", inv.InvoiceID).Msg("fraud: similarity lookup failed")
		return CheckResult{Check: name, Severity: SeverityNone, Reason: "check failed"}
	}
	return CheckResult{Check: name, Severity: SeverityNone, Reason: "no duplicates found"}
}

func (d *Detector) checkAmountAnomaly(ctx context.Context, inv *invoice.Invoice) CheckResult {
	const name = "amount_anomaly"

	history := []invoice.Status{invoice.StatusConfirmed, invoice.StatusFunded, invoice.StatusRepaid}
	amounts, err := d.invoices.AmountsBySellerInStatuses(ctx, inv.SellerID, history)
	if err != nil {
		d.log.Warn().Err(err).Str("seller_id", inv.SellerID).Msg("fraud: amount history lookup failed")
		return CheckResult{Check: name, Severity: SeverityNone, Reason: "check failed"}
	}
	if len(amounts) == 0 {
		return CheckResult{Check: name, Severity: SeverityNone, Reason: "no historical data for comparison"}
	}

	var sum float64
	maxAmt := amounts[0]
	minAmt := amounts[0]
	for _, a := range amounts {
		sum += a
		maxAmt = math.Max(maxAmt, a)
		minAmt = math.Min(minAmt, a)
	}
	mean := sum / float64(len(amounts))

	if inv.Amount > mean*5 || inv.Amount > maxAmt*2 {
		return CheckResult{
			Check: name, Flag: true, Severity: SeverityHigh,
			Reason: fmt.Sprintf("unusually high invoice amount (%.2f vs mean %.2f)", inv.Amount, mean),
		}
	}
	if inv.Amount < mean*0.1 && inv.Amount < minAmt*0.5 {
		return CheckResult{
			Check: name, Flag: true, Severity: SeverityMedium,
			Reason: fmt.Sprintf("unusually low invoice amount (%.2f vs mean %.2f)", inv.Amount, mean),
		}
	}
	return CheckResult{Check: name, Severity: SeverityNone, Reason: "amount within normal range"}
}

func (d *Detector) checkRapidCreation(ctx context.Context, sellerID string) CheckResult {
	const name = "rapid_creation"
	now := d.now()

	hourly, err := d.invoices.CountBySellerSince(ctx, sellerID, now.Add(-time.Hour))
	if err != nil {
		d.log.Warn().Err(err).Str("seller_id", sellerID).Msg("fraud: hourly creation count failed")
		return CheckResult{Check: name, Severity: SeverityNone, Reason: "check failed"}
	}
	if hourly > hourlyCreationLimit {
		return CheckResult{
			Check: name, Flag: true, Severity: SeverityHigh,
			Reason: fmt.Sprintf("too many invoices created in the last hour (%d)", hourly),
		}
	}

	daily, err := d.invoices.CountBySellerSince(ctx, sellerID, now.Add(-24*time.Hour))
	if err != nil {
		d.log.Warn().Err(err).Str("seller_id", sellerID).Msg("fraud: daily creation count failed")
		return CheckResult{Check: name, Severity: SeverityNone, Reason: "check failed"}
	}
	if daily > dailyCreationLimit {
		return CheckResult{
			Check: name, Flag: true, Severity: SeverityMedium,
			Reason: fmt.Sprintf("unusually high daily invoice creation (%d)", daily),
		}
	}
	return CheckResult{Check: name, Severity: SeverityNone, Reason: "normal creation rate"}
}

func (d *Detector) checkSellerHistory(ctx context.Context, sellerID string) CheckResult {
	const name = "seller_history"

	total, err := d.invoices.CountBySeller(ctx, sellerID)
	if err != nil {
		d.log.Warn().Err(err).Str("seller_id", sellerID).Msg("fraud: seller total count failed")
		return CheckResult{Check: name, Severity: SeverityNone, Reason: "check failed"}
	}
	if total == 0 {
		return CheckResult{Check: name, Severity: SeverityNone, Reason: "new seller, no history"}
	}

	successful, err := d.invoices.CountBySellerInStatuses(ctx, sellerID,
		[]invoice.Status{invoice.StatusFunded, invoice.StatusRepaid})
	if err != nil {
		d.log.Warn().Err(err).Str("seller_id", sellerID).Msg("fraud: seller success count failed")
		return CheckResult{Check: name, Severity: SeverityNone, Reason: "check failed"}
	}

	rate := float64(successful) / float64(total) * 100
	if rate < poorSuccessRate && total > poorHistoryMinimum {
		return CheckResult{
			Check: name, Flag: true, Severity: SeverityHigh,
			Reason: fmt.Sprintf("poor historical performance (%.0f%% over %d invoices)", rate, total),
		}
	}
	if rate < weakSuccessRate && total > weakHistoryMinimum {
		return CheckResult{
			Check: name, Flag: true, Severity: SeverityMedium,
			Reason: fmt.Sprintf("below average performance (%.0f%% over %d invoices)", rate, total),
		}
	}
	return CheckResult{Check: name, Severity: SeverityNone, Reason: "good historical performance"}
}

func (d *Detector) checkPattern(inv *invoice.Invoice) CheckResult {
	const name = "invoice_pattern"
	now := d.now()

	var flags []string

	termDays := int(inv.DueDate.Sub(inv.IssueDate).Hours() / 24)
	switch {
	case termDays < 1:
		flags = append(flags, "due date is before or same as issue date")
	case termDays > 365:
		flags = append(flags, "due date is more than 1 year from issue date")
	case termDays < 7:
		flags = append(flags, "very short payment term (less than 7 days)")
	}

	if inv.IssueDate.After(now) {
		flags = append(flags, "issue date is in the future")
	}
	if inv.IssueDate.Before(now.AddDate(-1, 0, 0)) {
		flags = append(flags, "issue date is more than 1 year old")
	}

	if inv.Amount >= 100_000 && math.Mod(inv.Amount, 10_000) == 0 {
		flags = append(flags, "amount is a very round number")
	}
	if frac := inv.Amount - math.Trunc(inv.Amount); frac != 0 {
		// more than 4 decimal places is over-precise for an invoice
		if math.Abs(inv.Amount-math.Round(inv.Amount*10_000)/10_000) > 1e-9 {
			flags = append(flags, "unusual decimal precision in amount")
		}
	}

	if len(flags) == 0 {
		return CheckResult{Check: name, Severity: SeverityNone, Reason: "normal invoice pattern"}
	}
	sev := SeverityMedium
	if len(flags) > 2 {
		sev = SeverityHigh
	}
	return CheckResult{
		Check: name, Flag: true, Severity: sev,
		Reason: "pattern anomalies: " + flags[0],
	}
}
