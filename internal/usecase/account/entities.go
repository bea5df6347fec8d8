package account

import (
	"time"

	domain "watershed-backend/internal/domain/account"
)

type MutationInput struct {
	UserID      string
	Amount      float64
	Type        domain.TxType
	Description string
}

type MutationResult struct {
	UserID  string  `json:"user_id"`
	Balance float64 `json:"balance"`
}

type AccountDTO struct {
	AccountID    string    `json:"account_id"`
	UserID       string    `json:"user_id"`
	Balance      float64   `json:"balance"`
	TotalInflow  float64   `json:"total_inflow"`
	TotalOutflow float64   `json:"total_outflow"`
	CreatedAt    time.Time `json:"created_at"`
}

type TransactionDTO struct {
	TxID         string    `json:"tx_id"`
	Type         string    `json:"type"`
	Amount       float64   `json:"amount"`
	BalanceAfter float64   `json:"balance_after"`
	Description  string    `json:"description,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type ReconcileReport struct {
	UserID           string  `json:"user_id"`
	Consistent       bool    `json:"consistent"`
	Balance          float64 `json:"balance"`
	ReplayedBalance  float64 `json:"replayed_balance"`
	TotalInflow      float64 `json:"total_inflow"`
	ReplayedInflow   float64 `json:"replayed_inflow"`
	TotalOutflow     float64 `json:"total_outflow"`
	ReplayedOutflow  float64 `json:"replayed_outflow"`
	TransactionCount int     `json:"transaction_count"`
}

func toAccountDTO(a *domain.Account) *AccountDTO {
	return &AccountDTO{
		AccountID:    a.AccountID,
		UserID:       a.UserID,
		Balance:      a.Balance,
		TotalInflow:  a.TotalInflow,
		TotalOutflow: a.TotalOutflow,
		CreatedAt:    a.CreatedAt,
	}
}

func toTransactionDTO(t *domain.Transaction) TransactionDTO {
	return TransactionDTO{
		TxID:         t.TxID,
		Type:         string(t.Type),
		Amount:       t.Amount,
		BalanceAfter: t.BalanceAfter,
		Description:  t.Description,
		CreatedAt:    t.CreatedAt,
	}
}
