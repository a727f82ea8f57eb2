package http

import (
	"net/http"
	"time"

	"invofin-backend/internal/adapter/middleware"
	invoiceDomain "invofin-backend/internal/domain/invoice"
	invoiceUC "invofin-backend/internal/usecase/invoice"

	"github.com/labstack/echo/v4"
)

type InvoiceHandler struct{ uc *invoiceUC.Usecase }

func NewInvoiceHandler(uc *invoiceUC.Usecase) *InvoiceHandler { return &InvoiceHandler{uc: uc} }

type documentReq struct {
	Kind     string `json:"kind"`
	Filename string `json:"filename" validate:"required"`
	URL      string `json:"url" validate:"required,url"`
	Size     int64  `json:"size" validate:"gte=0"`
}

type createInvoiceReq struct {
	InvoiceNumber   string        `json:"invoice_number" validate:"required"`
	BuyerID         string        `json:"buyer_id" validate:"omitempty,hex32"`
	Amount          float64       `json:"amount" validate:"required,gt=0,dec2"`
	RequestedAmount float64       `json:"requested_amount" validate:"required,gt=0,dec2"`
	DiscountRate    float64       `json:"discount_rate" validate:"gte=0,lte=100"`
	Currency        string        `json:"currency" validate:"omitempty,len=3"`
	Description     string        `json:"description"`
	IssueDate       string        `json:"issue_date" validate:"required,datetime=2006-01-02"`
	DueDate         string        `json:"due_date" validate:"required,datetime=2006-01-02"`
	Documents       []documentReq `json:"documents" validate:"dive"`
}

func (h *InvoiceHandler) Create(c echo.Context) error {
	if middleware.Role(c) != "seller" {
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: "only sellers can create invoices"})
	}
	var req createInvoiceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	issue, _ := time.Parse("2006-01-02", req.IssueDate)
	due, _ := time.Parse("2006-01-02", req.DueDate)
	if !due.After(issue) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: []FieldError{
			{Field: "DueDate", Message: "must be after issue_date"},
		}})
	}

	docs := make([]invoiceDomain.DocumentRef, 0, len(req.Documents))
	for _, d := range req.Documents {
		docs = append(docs, invoiceDomain.DocumentRef{Kind: d.Kind, Filename: d.Filename, URL: d.URL, Size: d.Size})
	}
	dto, err := h.uc.Create(c.Request().Context(), invoiceUC.CreateInput{
		SellerID:        middleware.UserID(c),
		BuyerID:         req.BuyerID,
		InvoiceNumber:   req.InvoiceNumber,
		Amount:          req.Amount,
		RequestedAmount: req.RequestedAmount,
		DiscountRate:    req.DiscountRate,
		Currency:        req.Currency,
		Description:     req.Description,
		IssueDate:       issue,
		DueDate:         due,
		KYCVerified:     middleware.KYCVerified(c),
		Documents:       docs,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *InvoiceHandler) Get(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("invoice_id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type actionReq struct {
	Notes string `json:"notes"`
}

func (h *InvoiceHandler) Confirm(c echo.Context) error {
	var req actionReq
	_ = c.Bind(&req)
	dto, err := h.uc.Confirm(c.Request().Context(), c.Param("invoice_id"), middleware.UserID(c), req.Notes)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *InvoiceHandler) Reject(c echo.Context) error {
	var req actionReq
	_ = c.Bind(&req)
	dto, err := h.uc.Reject(c.Request().Context(), c.Param("invoice_id"), middleware.UserID(c), req.Notes)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *InvoiceHandler) Cancel(c echo.Context) error {
	var req actionReq
	_ = c.Bind(&req)
	dto, err := h.uc.Cancel(c.Request().Context(), c.Param("invoice_id"), middleware.UserID(c), req.Notes)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// ListMine returns the authenticated seller's invoices.
func (h *InvoiceHandler) ListMine(c echo.Context) error {
	dtos, err := h.uc.ListBySeller(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"invoices": dtos})
}

// Marketplace returns the open listings investors browse.
func (h *InvoiceHandler) Marketplace(c echo.Context) error {
	listings, err := h.uc.Marketplace(c.Request().Context())
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"listings": listings})
}
