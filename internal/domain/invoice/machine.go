package invoice

import (
	"fmt"
	"time"
)

// DefaultAutoListThreshold is the risk score at or above which a confirmed
// invoice is listed without manual review. Overridable via config.
const DefaultAutoListThreshold = 40

// transitions is the directed status graph. No back-edges; the only exits
// from the happy path are cancellation before funding and default after
// exposure.
var transitions = map[Status][]Status{
	StatusDraft:        {StatusPendingBuyer, StatusCancelled},
	StatusPendingBuyer: {StatusConfirmed, StatusCancelled},
	StatusConfirmed:    {StatusListed, StatusFunded, StatusDefaulted, StatusCancelled},
	StatusListed:       {StatusFunded, StatusDefaulted, StatusCancelled},
	StatusFunded:       {StatusRepaid, StatusDefaulted},
	StatusRepaid:       {},
	StatusDefaulted:    {},
	StatusCancelled:    {},
}

// CanTransition reports whether to is reachable from from in one step.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Machine owns every status mutation of an invoice. Nothing else in the
// codebase assigns Invoice.Status directly.
type Machine struct {
	autoListThreshold int
	now               func() time.Time
}

func NewMachine(autoListThreshold int) *Machine {
	if autoListThreshold <= 0 {
		autoListThreshold = DefaultAutoListThreshold
	}
	return &Machine{autoListThreshold: autoListThreshold, now: func() time.Time { return time.Now().UTC() }}
}

// Transition moves inv to the target status, appends a history entry and
// stamps the status-specific timestamp. It rejects edges not present in the
// graph and refuses to enter funded without an investor assigned.
func (m *Machine) Transition(inv *Invoice, to Status, actor, notes string) error {
	if !CanTransition(inv.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, inv.Status, to)
	}
	if to == StatusFunded && inv.InvestorID == nil {
		return fmt.Errorf("%w: funded requires an investor", ErrIllegalTransition)
	}

	now := m.now()
	inv.Status = to
	inv.StatusHistory = append(inv.StatusHistory, StatusChange{
		Status: to,
		Actor:  actor,
		Notes:  notes,
		At:     now,
	})

	switch to {
	case StatusConfirmed:
		inv.BuyerConfirmed = true
		inv.BuyerConfirmedAt = &now
	case StatusListed:
		inv.ListedAt = &now
	case StatusFunded:
		inv.FundedAt = &now
	case StatusRepaid:
		inv.RepaidAt = &now
	}
	return nil
}

// AutoList advances a confirmed invoice to listed when its risk score
// clears the configured threshold. Returns true when the invoice was
// listed; a confirmed invoice below the threshold stays put for manual
// review.
func (m *Machine) AutoList(inv *Invoice, actor string) (bool, error) {
	if inv.Status != StatusConfirmed {
		return false, nil
	}
	if inv.RiskScore < m.autoListThreshold {
		return false, nil
	}
	if err := m.Transition(inv, StatusListed, actor, "auto-listed on risk score"); err != nil {
		return false, err
	}
	return true, nil
}
