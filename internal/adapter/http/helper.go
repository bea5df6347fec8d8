package http

import (
	"errors"
	"log"
	"net/http"
	"strings"

	accountDomain "watershed-backend/internal/domain/account"
	loanDomain "watershed-backend/internal/domain/loan"

	"github.com/labstack/echo/v4"
)

// CallerHeader carries the authenticated user identity resolved upstream.
const CallerHeader = "Ax-User-Id"

// callerID extracts and validates the caller identity header.
func callerID(c echo.Context) (string, bool) {
	v := strings.TrimSpace(c.Request().Header.Get(CallerHeader))
	return v, reHex32.MatchString(v)
}

// writeDomainError maps domain sentinel errors to HTTP responses. Unknown
// errors are storage/internal failures: logged and surfaced as a generic 500,
// never swallowed.
func writeDomainError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, accountDomain.ErrNotFound), errors.Is(err, loanDomain.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, loanDomain.ErrNotAuthorized):
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})
	case errors.Is(err, accountDomain.ErrAlreadyExists),
		errors.Is(err, loanDomain.ErrAlreadyFunded),
		errors.Is(err, loanDomain.ErrAlreadyActive),
		errors.Is(err, loanDomain.ErrInvalidTransition),
		errors.Is(err, loanDomain.ErrOpenLoanExists),
		errors.Is(err, loanDomain.ErrSelfFunding),
		errors.Is(err, loanDomain.ErrNotDue):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, accountDomain.ErrInvalidAmount),
		errors.Is(err, loanDomain.ErrInvalidAmount),
		errors.Is(err, loanDomain.ErrInvalidBorrower):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, accountDomain.ErrInsufficientFunds),
		errors.Is(err, loanDomain.ErrOverPayment),
		errors.Is(err, loanDomain.ErrFundingClosed),
		errors.Is(err, loanDomain.ErrBelowMinimumUnit),
		errors.Is(err, loanDomain.ErrBelowMinimum),
		errors.Is(err, loanDomain.ErrTermNotExtended):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	default:
		log.Printf("internal error on %s %s: %v", c.Request().Method, c.Path(), err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
