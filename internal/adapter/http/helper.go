package http

import (
	"errors"
	"net/http"

	investmentDomain "invofin-backend/internal/domain/investment"
	invoiceDomain "invofin-backend/internal/domain/invoice"
	walletDomain "invofin-backend/internal/domain/wallet"
	fundingUC "invofin-backend/internal/usecase/funding"
	invoiceUC "invofin-backend/internal/usecase/invoice"
	walletUC "invofin-backend/internal/usecase/wallet"

	"github.com/labstack/echo/v4"
)

// domainError maps domain sentinels to HTTP responses. Ledger
// inconsistencies deliberately come back opaque; the detail lands in the
// logs, not on the caller.
func domainError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, invoiceDomain.ErrNotFound),
		errors.Is(err, investmentDomain.ErrNotFound),
		errors.Is(err, walletDomain.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	case errors.Is(err, invoiceDomain.ErrIllegalTransition):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, invoiceDomain.ErrAlreadyFunded):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: "invoice is already funded"})
	case errors.Is(err, invoiceDomain.ErrNotFundable):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, invoiceDomain.ErrNotMatured):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, invoiceDomain.ErrSelfFunding):
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: "cannot fund your own invoice"})
	case errors.Is(err, invoiceDomain.ErrNotAuthorized):
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: "not authorized"})
	case errors.Is(err, invoiceDomain.ErrKYCRequired):
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: "kyc verification required"})
	case errors.Is(err, invoiceDomain.ErrDuplicateNumber):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: "invoice number already exists"})
	case errors.Is(err, walletDomain.ErrInsufficientFunds):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	case errors.Is(err, invoiceUC.ErrInvalidInput),
		errors.Is(err, fundingUC.ErrInvalidInput),
		errors.Is(err, walletUC.ErrInvalidInput),
		errors.Is(err, walletDomain.ErrNonPositiveAmount):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
