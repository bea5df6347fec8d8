package http

import (
	"net/http"

	loanDomain "watershed-backend/internal/domain/loan"
	"watershed-backend/internal/usecase/payment"

	"github.com/labstack/echo/v4"
)

type PaymentHandler struct{ uc *payment.Usecase }

func NewPaymentHandler(uc *payment.Usecase) *PaymentHandler { return &PaymentHandler{uc: uc} }

type applyPaymentReq struct {
	Amount float64 `json:"amount" validate:"required,gt=0,dec2"`
	Type   string  `json:"type" validate:"required,oneof=scheduled acceleration"`
}

func (h *PaymentHandler) ApplyPayment(c echo.Context) error {
	caller, ok := callerID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing or invalid " + CallerHeader})
	}
	loanID := c.Param("loan_id")
	if !reHex32.MatchString(loanID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid loan_id"})
	}
	var req applyPaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	res, err := h.uc.Apply(c.Request().Context(), payment.ApplyInput{
		LoanID:   loanID,
		CallerID: caller,
		Amount:   req.Amount,
		Type:     loanDomain.PaymentType(req.Type),
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
