package investment

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("investment not found")

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusDefaulted Status = "defaulted"
)

// Investment ties one investor to one invoice-funding event. The unique
// index on the invoice FK is the database-level backstop for the
// at-most-one-funder invariant.
type Investment struct {
	ID           uint64 `gorm:"primaryKey;column:id" json:"-"`
	InvestmentID string `gorm:"size:32;uniqueIndex:ux_investments_investment_id" json:"investment_id"`
	// Numeric FK to invoices.id; at most one investment per invoice.
	InvoiceID      uint64     `gorm:"not null;uniqueIndex:ux_investments_invoice" json:"-"`
	InvestorID     string     `gorm:"size:32;index:idx_investments_investor" json:"investor_id"`
	Amount         float64    `gorm:"type:decimal(18,2)" json:"amount"`
	ExpectedReturn float64    `gorm:"type:decimal(18,2)" json:"expected_return"`
	ActualReturn   float64    `gorm:"type:decimal(18,2);default:0" json:"actual_return"`
	Status         Status     `gorm:"type:enum('active','completed','defaulted');default:'active'" json:"status"`
	MaturityDate   time.Time  `gorm:"type:date" json:"maturity_date"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Investment) TableName() string { return "investments" }
