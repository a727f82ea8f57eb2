package http

import (
	"net/http"

	"invofin-backend/internal/adapter/middleware"
	walletUC "invofin-backend/internal/usecase/wallet"

	"github.com/labstack/echo/v4"
)

type WalletHandler struct{ uc *walletUC.Usecase }

func NewWalletHandler(uc *walletUC.Usecase) *WalletHandler { return &WalletHandler{uc: uc} }

func (h *WalletHandler) Get(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type depositReq struct {
	Amount float64 `json:"amount" validate:"required,gt=0,dec2"`
}

func (h *WalletHandler) Deposit(c echo.Context) error {
	var req depositReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	dto, err := h.uc.Deposit(c.Request().Context(), middleware.UserID(c), req.Amount)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
