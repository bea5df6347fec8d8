package http

import (
	"net/http"

	"watershed-backend/internal/usecase/refinance"

	"github.com/labstack/echo/v4"
)

type RefinanceHandler struct{ uc *refinance.Usecase }

func NewRefinanceHandler(uc *refinance.Usecase) *RefinanceHandler {
	return &RefinanceHandler{uc: uc}
}

func (h *RefinanceHandler) Quote(c echo.Context) error {
	caller, ok := callerID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing or invalid " + CallerHeader})
	}
	loanID := c.Param("loan_id")
	if !reHex32.MatchString(loanID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_id"})
	}
	q, err := h.uc.Quote(c.Request().Context(), loanID, caller)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, q)
}

type refinanceReq struct {
	NewTerm int    `json:"new_term" validate:"required,gt=0,lte=120"`
	Reason  string `json:"reason"`
}

func (h *RefinanceHandler) Refinance(c echo.Context) error {
	caller, ok := callerID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing or invalid " + CallerHeader})
	}
	loanID := c.Param("loan_id")
	if !reHex32.MatchString(loanID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_id"})
	}
	var req refinanceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	res, err := h.uc.Refinance(c.Request().Context(), refinance.RefinanceInput{
		LoanID:   loanID,
		CallerID: caller,
		NewTerm:  req.NewTerm,
		Reason:   req.Reason,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
