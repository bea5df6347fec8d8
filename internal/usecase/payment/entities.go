package payment

import domain "watershed-backend/internal/domain/loan"

type ApplyInput struct {
	LoanID   string
	CallerID string
	Amount   float64
	Type     domain.PaymentType
}

type ShareholderCredit struct {
	ShareID  string  `json:"share_id"`
	FunderID string  `json:"funder_id"`
	Amount   float64 `json:"amount"`
}

type ApplyResult struct {
	PaymentID          string              `json:"payment_id"`
	LoanID             string              `json:"loan_id"`
	Amount             float64             `json:"amount"`
	Type               string              `json:"type"`
	AppliedToCommunity float64             `json:"applied_to_community"`
	AppliedToSelf      float64             `json:"applied_to_self"`
	RemainingBalance   float64             `json:"remaining_balance"`
	PaymentsRemaining  int                 `json:"payments_remaining"`
	LoanStatus         string              `json:"loan_status"`
	ShareholderCredits []ShareholderCredit `json:"shareholder_credits,omitempty"`
}
