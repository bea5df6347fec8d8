package http

import (
	"context"
	"net/http"

	accountDomain "watershed-backend/internal/domain/account"
	"watershed-backend/internal/usecase/account"

	"github.com/labstack/echo/v4"
)

type AccountHandler struct{ uc *account.Usecase }

func NewAccountHandler(uc *account.Usecase) *AccountHandler { return &AccountHandler{uc: uc} }

type openAccountReq struct {
	UserID string `json:"user_id" validate:"required,hex32"`
}

func (h *AccountHandler) OpenAccount(c echo.Context) error {
	var req openAccountReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.Open(c.Request().Context(), req.UserID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *AccountHandler) GetAccount(c echo.Context) error {
	userID := c.Param("user_id")
	if !reHex32.MatchString(userID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid user_id"})
	}
	dto, err := h.uc.Get(c.Request().Context(), userID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type mutateBalanceReq struct {
	Amount      float64 `json:"amount" validate:"required,gt=0,dec2"`
	Type        string  `json:"type" validate:"required"`
	Description string  `json:"description"`
}

func (h *AccountHandler) Credit(c echo.Context) error {
	return h.mutate(c, h.uc.Credit)
}

func (h *AccountHandler) Debit(c echo.Context) error {
	return h.mutate(c, h.uc.Debit)
}

func (h *AccountHandler) mutate(c echo.Context, op func(ctx context.Context, in account.MutationInput) (*account.MutationResult, error)) error {
	userID := c.Param("user_id")
	if !reHex32.MatchString(userID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid user_id"})
	}
	var req mutateBalanceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	txType := accountDomain.TxType(req.Type)
	if !txType.Valid() {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown transaction type"})
	}
	res, err := op(c.Request().Context(), account.MutationInput{
		UserID:      userID,
		Amount:      req.Amount,
		Type:        txType,
		Description: req.Description,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *AccountHandler) ListTransactions(c echo.Context) error {
	userID := c.Param("user_id")
	if !reHex32.MatchString(userID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid user_id"})
	}
	txs, err := h.uc.Statement(c.Request().Context(), userID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"transactions": txs})
}

func (h *AccountHandler) Reconcile(c echo.Context) error {
	userID := c.Param("user_id")
	if !reHex32.MatchString(userID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid user_id"})
	}
	rep, err := h.uc.Reconcile(c.Request().Context(), userID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, rep)
}
