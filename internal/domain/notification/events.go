package notification

import "time"

// Role targets for fan-out; mirrors the roles the auth layer hands us.
const (
	RoleSeller   = "seller"
	RoleBuyer    = "buyer"
	RoleInvestor = "investor"
)

// Event types emitted by the core.
const (
	TypeInvoiceCreated    = "invoice_created"
	TypeConfirmRequested  = "confirm_requested"
	TypeInvoiceConfirmed  = "invoice_confirmed"
	TypeInvoiceListed     = "invoice_listed"
	TypeInvoiceHeld       = "invoice_held_for_review"
	TypeInvoiceFunded     = "invoice_funded"
	TypeInvestmentCreated = "investment_created"
	TypeListingRemoved    = "listing_removed"
	TypeInvoiceRepaid     = "invoice_repaid"
	TypeInvoiceDefaulted  = "invoice_defaulted"
	TypeInvoiceCancelled  = "invoice_cancelled"
)

// Event is ephemeral: delivered at most once to whoever is connected, never
// persisted or replayed. Money and state never depend on delivery.
type Event struct {
	ID               string         `json:"id"`
	Type             string         `json:"type"`
	Title            string         `json:"title"`
	Message          string         `json:"message"`
	RelatedInvoiceID string         `json:"related_invoice_id,omitempty"`
	Payload          map[string]any `json:"payload,omitempty"`
	Timestamp        time.Time      `json:"timestamp"`
}

// Notifier fans events out to connected parties. Implementations must never
// block the caller; delivery is best-effort.
type Notifier interface {
	NotifyUser(userID string, ev Event)
	NotifyRole(role string, ev Event)
	Broadcast(ev Event)
}
