package invoice

import (
	"time"

	invoiceDomain "invofin-backend/internal/domain/invoice"
)

type CreateInput struct {
	SellerID        string
	BuyerID         string
	InvoiceNumber   string
	Amount          float64
	RequestedAmount float64
	DiscountRate    float64
	Currency        string
	Description     string
	IssueDate       time.Time
	DueDate         time.Time
	KYCVerified     bool
	Documents       []invoiceDomain.DocumentRef
}

type InvoiceDTO struct {
	InvoiceID       string                       `json:"invoice_id"`
	InvoiceNumber   string                       `json:"invoice_number"`
	Status          string                       `json:"status"`
	SellerID        string                       `json:"seller_id"`
	BuyerID         string                       `json:"buyer_id,omitempty"`
	InvestorID      string                       `json:"investor_id,omitempty"`
	Amount          float64                      `json:"amount"`
	RequestedAmount float64                      `json:"requested_amount"`
	DiscountRate    float64                      `json:"discount_rate"`
	FundedAmount    float64                      `json:"funded_amount,omitempty"`
	ExpectedReturn  float64                      `json:"expected_return,omitempty"`
	ActualReturn    float64                      `json:"actual_return,omitempty"`
	RiskScore       int                          `json:"risk_score"`
	RiskCategory    string                       `json:"risk_category"`
	FraudStatus     string                       `json:"fraud_status"`
	FraudFlags      []string                     `json:"fraud_flags,omitempty"`
	IssueDate       time.Time                    `json:"issue_date"`
	DueDate         time.Time                    `json:"due_date"`
	CreatedAt       time.Time                    `json:"created_at"`
	ListedAt        *time.Time                   `json:"listed_at,omitempty"`
	FundedAt        *time.Time                   `json:"funded_at,omitempty"`
	History         []invoiceDomain.StatusChange `json:"status_history,omitempty"`
}

// Listing is the marketplace read model investors browse.
type Listing struct {
	InvoiceID        string     `json:"invoice_id"`
	InvoiceNumber    string     `json:"invoice_number"`
	Amount           float64    `json:"amount"`
	DiscountedAmount float64    `json:"discounted_amount"`
	DiscountRate     float64    `json:"discount_rate"`
	DueDate          time.Time  `json:"due_date"`
	DaysToMaturity   int        `json:"days_to_maturity"`
	ExpectedROI      float64    `json:"expected_roi"`
	RiskScore        int        `json:"risk_score"`
	RiskCategory     string     `json:"risk_category"`
	SellerID         string     `json:"seller_id"`
	ListedAt         *time.Time `json:"listed_at,omitempty"`
}

func toDTO(inv *invoiceDomain.Invoice) *InvoiceDTO {
	dto := &InvoiceDTO{
		InvoiceID:       inv.InvoiceID,
		InvoiceNumber:   inv.InvoiceNumber,
		Status:          string(inv.Status),
		SellerID:        inv.SellerID,
		BuyerID:         inv.BuyerID,
		Amount:          inv.Amount,
		RequestedAmount: inv.RequestedAmount,
		DiscountRate:    inv.DiscountRate,
		FundedAmount:    inv.FundedAmount,
		ExpectedReturn:  inv.ExpectedReturn,
		ActualReturn:    inv.ActualReturn,
		RiskScore:       inv.RiskScore,
		RiskCategory:    string(inv.RiskCategory),
		FraudStatus:     string(inv.FraudStatus),
		FraudFlags:      inv.FraudFlags,
		IssueDate:       inv.IssueDate,
		DueDate:         inv.DueDate,
		CreatedAt:       inv.CreatedAt,
		ListedAt:        inv.ListedAt,
		FundedAt:        inv.FundedAt,
		History:         inv.StatusHistory,
	}
	if inv.InvestorID != nil {
		dto.InvestorID = *inv.InvestorID
	}
	return dto
}

func toListing(inv *invoiceDomain.Invoice, now time.Time) Listing {
	discounted := inv.RequestedAmount
	roi := 0.0
	if discounted > 0 {
		roi = (inv.Amount - discounted) / discounted * 100
	}
	return Listing{
		InvoiceID:        inv.InvoiceID,
		InvoiceNumber:    inv.InvoiceNumber,
		Amount:           inv.Amount,
		DiscountedAmount: discounted,
		DiscountRate:     inv.DiscountRate,
		DueDate:          inv.DueDate,
		DaysToMaturity:   inv.DaysToDue(now),
		ExpectedROI:      roi,
		RiskScore:        inv.RiskScore,
		RiskCategory:     string(inv.RiskCategory),
		SellerID:         inv.SellerID,
		ListedAt:         inv.ListedAt,
	}
}
