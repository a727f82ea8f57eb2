package http

import (
	"net/http"

	"invofin-backend/internal/adapter/middleware"
	fundingUC "invofin-backend/internal/usecase/funding"

	"github.com/labstack/echo/v4"
)

type FundingHandler struct{ uc *fundingUC.Usecase }

func NewFundingHandler(uc *fundingUC.Usecase) *FundingHandler { return &FundingHandler{uc: uc} }

type fundReq struct {
	Amount float64 `json:"amount" validate:"required,gt=0,dec2"`
}

func (h *FundingHandler) Fund(c echo.Context) error {
	if middleware.Role(c) != "investor" {
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: "only investors can fund invoices"})
	}
	var req fundReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	res, err := h.uc.Fund(c.Request().Context(), fundingUC.FundInput{
		InvoiceID:   c.Param("invoice_id"),
		InvestorID:  middleware.UserID(c),
		Amount:      req.Amount,
		KYCVerified: middleware.KYCVerified(c),
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"invoice":    res.Invoice,
		"investment": res.Investment,
		"balance":    res.Balance,
	})
}

func (h *FundingHandler) Repay(c echo.Context) error {
	res, err := h.uc.Repay(c.Request().Context(), c.Param("invoice_id"), middleware.UserID(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"invoice":    res.Invoice,
		"investment": res.Investment,
	})
}

type defaultReq struct {
	Notes string `json:"notes"`
}

// MarkDefaulted is the operational endpoint for post-maturity non-payment.
func (h *FundingHandler) MarkDefaulted(c echo.Context) error {
	var req defaultReq
	_ = c.Bind(&req)
	inv, err := h.uc.MarkDefaulted(c.Request().Context(), c.Param("invoice_id"), middleware.UserID(c), req.Notes)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, inv)
}

func (h *FundingHandler) Portfolio(c echo.Context) error {
	if middleware.Role(c) != "investor" {
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: "only investors have a portfolio"})
	}
	investments, err := h.uc.Portfolio(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"investments": investments})
}
