package loan

import (
	"time"

	domain "watershed-backend/internal/domain/loan"
)

type CreateLoanInput struct {
	BorrowerID       string  `json:"borrower_id"`
	Amount           float64 `json:"amount"`
	SelfFundedAmount float64 `json:"self_funded_amount"`
	TermMonths       int     `json:"term_months"`
}

type FundInput struct {
	LoanID   string
	FunderID string
	Amount   float64
}

type FundResult struct {
	LoanID          string  `json:"loan_id"`
	ShareID         string  `json:"share_id"`
	FunderID        string  `json:"funder_id"`
	Amount          float64 `json:"amount"`
	Count           int     `json:"count"`
	Capped          bool    `json:"capped"`
	CommunityFunded float64 `json:"community_funded"`
	LoanStatus      string  `json:"loan_status"`
}

type LoanDTO struct {
	LoanID                    string     `json:"loan_id"`
	BorrowerID                string     `json:"borrower_id"`
	Amount                    float64    `json:"amount"`
	SelfFundedAmount          float64    `json:"self_funded_amount"`
	CommunityFundedAmount     float64    `json:"community_funded_amount"`
	RemainingBalance          float64    `json:"remaining_balance"`
	CommunityRemainingBalance float64    `json:"community_remaining_balance"`
	Status                    string     `json:"status"`
	MonthlyPayment            float64    `json:"monthly_payment"`
	TermMonths                int        `json:"term_months"`
	PaymentsRemaining         int        `json:"payments_remaining"`
	NextPaymentDate           *time.Time `json:"next_payment_date,omitempty"`
	FundingDeadline           time.Time  `json:"funding_deadline"`
	DisbursedAt               *time.Time `json:"disbursed_at,omitempty"`
	CreatedAt                 time.Time  `json:"created_at"`
}

type ShareDTO struct {
	ShareID      string    `json:"share_id"`
	FunderID     string    `json:"funder_id"`
	Amount       float64   `json:"amount"`
	Count        int       `json:"count"`
	IsSelfFunded bool      `json:"is_self_funded"`
	Repaid       float64   `json:"repaid"`
	CreatedAt    time.Time `json:"created_at"`
}

type PaymentDTO struct {
	PaymentID          string    `json:"payment_id"`
	Amount             float64   `json:"amount"`
	Type               string    `json:"type"`
	AppliedToCommunity float64   `json:"applied_to_community"`
	AppliedToSelf      float64   `json:"applied_to_self"`
	PaidAt             time.Time `json:"paid_at"`
}

type LoanDetailDTO struct {
	Loan                     LoanDTO      `json:"loan"`
	Shares                   []ShareDTO   `json:"shares,omitempty"`
	Payments                 []PaymentDTO `json:"payments,omitempty"`
	CommunityFunded          float64      `json:"community_funded"`
	CommunityRemainingToFund float64      `json:"community_remaining_to_fund"`
	FundingProgress          float64      `json:"funding_progress"`
}

func toLoanDTO(l *domain.Loan) *LoanDTO {
	return &LoanDTO{
		LoanID:                    l.LoanID,
		BorrowerID:                l.BorrowerID,
		Amount:                    l.Amount,
		SelfFundedAmount:          l.SelfFundedAmount,
		CommunityFundedAmount:     l.CommunityFundedAmount,
		RemainingBalance:          l.RemainingBalance,
		CommunityRemainingBalance: l.CommunityRemainingBalance,
		Status:                    string(l.Status),
		MonthlyPayment:            l.MonthlyPayment,
		TermMonths:                l.TermMonths,
		PaymentsRemaining:         l.PaymentsRemaining,
		NextPaymentDate:           l.NextPaymentDate,
		FundingDeadline:           l.FundingDeadline,
		DisbursedAt:               l.DisbursedAt,
		CreatedAt:                 l.CreatedAt,
	}
}

func toShareDTO(s *domain.Share) ShareDTO {
	return ShareDTO{
		ShareID:      s.ShareID,
		FunderID:     s.FunderID,
		Amount:       s.Amount,
		Count:        s.Count,
		IsSelfFunded: s.IsSelfFunded,
		Repaid:       s.Repaid,
		CreatedAt:    s.CreatedAt,
	}
}

func toPaymentDTO(p *domain.Payment) PaymentDTO {
	return PaymentDTO{
		PaymentID:          p.PaymentID,
		Amount:             p.Amount,
		Type:               string(p.Type),
		AppliedToCommunity: p.AppliedToCommunity,
		AppliedToSelf:      p.AppliedToSelf,
		PaidAt:             p.PaidAt,
	}
}
