package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	loanDomain "lendpact/internal/domain/loan"
	paymentDomain "lendpact/internal/domain/payment"
	accrualUC "lendpact/internal/usecase/accrual"
	"lendpact/pkg/id"
)

// actorID pulls the authenticated party id from the Ax-Actor-Id header. The
// identity provider in front of this service guarantees the header; here we
// only check shape.
func actorID(c echo.Context) (string, bool) {
	v := strings.TrimSpace(c.Request().Header.Get("Ax-Actor-Id"))
	return v, id.IsID32(v)
}

// writeDomainError maps domain sentinels onto HTTP codes with the shared
// error payload.
func writeDomainError(c echo.Context, err error) error {
	var code int
	switch {
	case errors.Is(err, loanDomain.ErrNotFound), errors.Is(err, paymentDomain.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, loanDomain.ErrUnauthorized):
		code = http.StatusForbidden
	case errors.Is(err, loanDomain.ErrInvalidTransition), errors.Is(err, paymentDomain.ErrNotPending):
		code = http.StatusConflict
	case errors.Is(err, accrualUC.ErrCatchUpInProgress):
		code = http.StatusConflict
	case errors.Is(err, loanDomain.ErrValidation):
		code = http.StatusUnprocessableEntity
	default:
		code = http.StatusBadRequest
	}
	return c.JSON(code, ErrorResponse{Error: err.Error()})
}
