package invoice

import (
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("invoice not found")
	ErrIllegalTransition = errors.New("illegal status transition")
	ErrNotFundable       = errors.New("invoice is not fundable")
	ErrAlreadyFunded     = errors.New("invoice is already funded")
	ErrSelfFunding       = errors.New("seller cannot fund own invoice")
	ErrNotAuthorized     = errors.New("actor not authorized for this invoice")
	ErrKYCRequired       = errors.New("kyc verification required")
	ErrDuplicateNumber   = errors.New("invoice number already exists")
	ErrNotMatured        = errors.New("invoice has not reached maturity")
)

type Status string

const (
	StatusDraft        Status = "draft"
	StatusPendingBuyer Status = "pending_buyer_confirmation"
	StatusConfirmed    Status = "confirmed"
	StatusListed       Status = "listed"
	StatusFunded       Status = "funded"
	StatusRepaid       Status = "repaid"
	StatusDefaulted    Status = "defaulted"
	StatusCancelled    Status = "cancelled"
)

type RiskCategory string

const (
	RiskLow    RiskCategory = "low"
	RiskMedium RiskCategory = "medium"
	RiskHigh   RiskCategory = "high"
)

type FraudStatus string

const (
	FraudPending FraudStatus = "pending"
	FraudPassed  FraudStatus = "passed"
	FraudFailed  FraudStatus = "failed"
)

// StatusChange is one entry of the append-only status history.
type StatusChange struct {
	Status Status    `json:"status"`
	Actor  string    `json:"actor"`
	Notes  string    `json:"notes,omitempty"`
	At     time.Time `json:"at"`
}

// RiskFactor is one weighted adjustment applied by the scoring engine.
type RiskFactor struct {
	Factor string `json:"factor"`
	Weight int    `json:"weight"`
}

// DocumentRef stores attachment metadata only; content lives elsewhere.
type DocumentRef struct {
	Kind     string `json:"kind"`
	Filename string `json:"filename"`
	URL      string `json:"url"`
	Size     int64  `json:"size"`
}

type Invoice struct {
	ID            uint64 `gorm:"primaryKey;column:id" json:"-"`
	InvoiceID     string `gorm:"size:32;uniqueIndex:ux_invoices_invoice_id" json:"invoice_id"`
	InvoiceNumber string `gorm:"size:64;uniqueIndex:ux_invoices_number" json:"invoice_number"`

	SellerID   string  `gorm:"size:32;index:idx_invoices_seller" json:"seller_id"`
	BuyerID    string  `gorm:"size:32;index:idx_invoices_buyer" json:"buyer_id,omitempty"`
	InvestorID *string `gorm:"size:32;index:idx_invoices_investor" json:"investor_id,omitempty"`

	Amount          float64 `gorm:"type:decimal(18,2)" json:"amount"`
	RequestedAmount float64 `gorm:"type:decimal(18,2)" json:"requested_amount"`
	DiscountRate    float64 `gorm:"type:decimal(6,4)" json:"discount_rate"`
	FundedAmount    float64 `gorm:"type:decimal(18,2)" json:"funded_amount"`
	ExpectedReturn  float64 `gorm:"type:decimal(18,2)" json:"expected_return"`
	ActualReturn    float64 `gorm:"type:decimal(18,2)" json:"actual_return"`
	Currency        string  `gorm:"size:8;default:'INR'" json:"currency"`
	Description     string  `gorm:"type:text" json:"description"`

	IssueDate time.Time `gorm:"type:date" json:"issue_date"`
	DueDate   time.Time `gorm:"type:date" json:"due_date"`

	Status         Status `gorm:"type:enum('draft','pending_buyer_confirmation','confirmed','listed','funded','repaid','defaulted','cancelled');default:'draft'" json:"status"`
	BuyerConfirmed bool   `gorm:"default:false" json:"buyer_confirmed"`

	RiskScore      int                               `gorm:"default:0" json:"risk_score"`
	RiskCategory   RiskCategory                      `gorm:"size:8" json:"risk_category"`
	RiskFactors    datatypes.JSONSlice[RiskFactor]   `json:"risk_factors,omitempty"`
	RiskAssessedAt *time.Time                        `json:"risk_assessed_at,omitempty"`
	FraudStatus    FraudStatus                       `gorm:"size:8;default:'pending'" json:"fraud_status"`
	FraudScore     int                               `gorm:"default:0" json:"fraud_score"`
	FraudFlags     datatypes.JSONSlice[string]       `json:"fraud_flags,omitempty"`
	FraudCheckedAt *time.Time                        `json:"fraud_checked_at,omitempty"`
	StatusHistory  datatypes.JSONSlice[StatusChange] `json:"status_history,omitempty"`
	Documents      datatypes.JSONSlice[DocumentRef]  `json:"documents,omitempty"`

	CreatedAt        time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	BuyerConfirmedAt *time.Time     `json:"buyer_confirmed_at,omitempty"`
	ListedAt         *time.Time     `json:"listed_at,omitempty"`
	FundedAt         *time.Time     `json:"funded_at,omitempty"`
	RepaidAt         *time.Time     `json:"repaid_at,omitempty"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Invoice) TableName() string { return "invoices" }

// DaysToDue is the whole number of days between now and the due date,
// rounded up. Past-due invoices yield negative values.
func (i *Invoice) DaysToDue(now time.Time) int {
	d := i.DueDate.Sub(now)
	days := int(d.Hours() / 24)
	if d > 0 && d%(24*time.Hour) != 0 {
		days++
	}
	return days
}

// Fundable reports whether the marketplace may accept a funding claim.
func (i *Invoice) Fundable() bool {
	return i.Status == StatusConfirmed || i.Status == StatusListed
}

// Terminal reports whether the invoice can no longer change status.
func (i *Invoice) Terminal() bool {
	switch i.Status {
	case StatusRepaid, StatusDefaulted, StatusCancelled:
		return true
	}
	return false
}
