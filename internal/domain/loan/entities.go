package loan

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("loan not found")
	ErrNotAuthorized     = errors.New("caller is not allowed to perform this operation")
	ErrInvalidAmount     = errors.New("amount must be greater than zero")
	ErrInvalidBorrower   = errors.New("invalid borrower id")
	ErrInvalidTransition = errors.New("invalid loan state transition")
	ErrAlreadyFunded     = errors.New("loan community target already met")
	ErrAlreadyActive     = errors.New("loan is not accepting contributions")
	ErrSelfFunding       = errors.New("borrower cannot fund own loan as a shareholder")
	ErrFundingClosed     = errors.New("funding deadline has passed")
	ErrBelowMinimumUnit  = errors.New("contribution below minimum unit")
	ErrOverPayment       = errors.New("payment exceeds remaining balance")
	ErrBelowMinimum      = errors.New("remaining balance below refinance minimum")
	ErrTermNotExtended   = errors.New("new term must extend the current term")
	ErrOpenLoanExists    = errors.New("borrower already has an open loan")
	ErrNotDue            = errors.New("loan is not past due")
)

type Status string

const (
	StatusFunding   Status = "funding"
	StatusActive    Status = "active"
	StatusRepaying  Status = "repaying"
	StatusDefaulted Status = "defaulted"
	StatusCompleted Status = "completed"
)

// transitions is the authoritative state machine: any mutation whose
// precondition does not match the current tag is rejected.
var transitions = map[Status][]Status{
	StatusFunding:   {StatusActive},
	StatusActive:    {StatusRepaying, StatusCompleted, StatusDefaulted},
	StatusRepaying:  {StatusCompleted, StatusDefaulted},
	StatusDefaulted: {StatusRepaying},
	StatusCompleted: {},
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Open reports whether the loan still carries an obligation.
func (s Status) Open() bool { return s != StatusCompleted }

// Loan is a single borrowing instrument. Principal is split between the
// borrower's own stake and the community target raised from shareholders:
// amount == self_funded_amount + community_funded_amount.
type Loan struct {
	ID                        uint64         `gorm:"primaryKey;column:id" json:"-"`
	LoanID                    string         `gorm:"size:32;uniqueIndex:ux_loans_loan_id" json:"loan_id"`
	BorrowerID                string         `gorm:"size:32;index:idx_loans_borrower" json:"borrower_id"`
	Amount                    float64        `gorm:"type:decimal(18,2);not null" json:"amount"`
	SelfFundedAmount          float64        `gorm:"type:decimal(18,2);not null;default:0" json:"self_funded_amount"`
	CommunityFundedAmount     float64        `gorm:"type:decimal(18,2);not null;default:0" json:"community_funded_amount"`
	RemainingBalance          float64        `gorm:"type:decimal(18,2);not null" json:"remaining_balance"`
	CommunityRemainingBalance float64        `gorm:"type:decimal(18,2);not null" json:"community_remaining_balance"`
	Status                    Status         `gorm:"type:varchar(16);not null;default:'funding';index" json:"status"`
	MonthlyPayment            float64        `gorm:"type:decimal(18,2);not null" json:"monthly_payment"`
	TermMonths                int            `gorm:"not null" json:"term_months"`
	PaymentsRemaining         int            `gorm:"not null" json:"payments_remaining"`
	NextPaymentDate           *time.Time     `json:"next_payment_date,omitempty"`
	FundingDeadline           time.Time      `gorm:"not null" json:"funding_deadline"`
	DisbursedAt               *time.Time     `json:"disbursed_at,omitempty"`
	StatusUpdatedAt           time.Time      `gorm:"autoCreateTime" json:"status_updated_at"`
	CreatedAt                 time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt                 time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt                 gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Loan) TableName() string { return "loans" }

// SelfRemainingBalance is the self-funded portion still outstanding.
func (l *Loan) SelfRemainingBalance() float64 {
	return l.RemainingBalance - l.CommunityRemainingBalance
}

// SetStatus applies a transition after checking it against the table.
func (l *Loan) SetStatus(next Status, at time.Time) error {
	if !l.Status.CanTransitionTo(next) {
		return ErrInvalidTransition
	}
	l.Status = next
	l.StatusUpdatedAt = at
	return nil
}

// Share is one funder's stake in a loan. The borrower's own stake is recorded
// with IsSelfFunded=true and excluded from community aggregation.
type Share struct {
	ID           uint64    `gorm:"primaryKey;column:id" json:"-"`
	ShareID      string    `gorm:"size:32;uniqueIndex:ux_loan_shares_share_id" json:"share_id"`
	LoanID       uint64    `gorm:"not null;index:idx_loan_shares_loan" json:"-"`
	FunderID     string    `gorm:"size:32;not null;index:idx_loan_shares_funder" json:"funder_id"`
	Amount       float64   `gorm:"type:decimal(18,2);not null" json:"amount"`
	Count        int       `gorm:"not null" json:"count"`
	IsSelfFunded bool      `gorm:"not null;default:false" json:"is_self_funded"`
	Repaid       float64   `gorm:"type:decimal(18,2);not null;default:0" json:"repaid"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Share) TableName() string { return "loan_shares" }

type PaymentType string

const (
	PaymentScheduled    PaymentType = "scheduled"
	PaymentAcceleration PaymentType = "acceleration"
)

func (t PaymentType) Valid() bool {
	return t == PaymentScheduled || t == PaymentAcceleration
}

// Payment records one repayment event and the waterfall split applied to it:
// applied_to_community + applied_to_self == amount.
type Payment struct {
	ID                 uint64      `gorm:"primaryKey;column:id" json:"-"`
	PaymentID          string      `gorm:"size:32;uniqueIndex:ux_loan_payments_payment_id" json:"payment_id"`
	LoanID             uint64      `gorm:"not null;index:idx_loan_payments_loan" json:"-"`
	Amount             float64     `gorm:"type:decimal(18,2);not null" json:"amount"`
	Type               PaymentType `gorm:"type:varchar(16);not null" json:"type"`
	AppliedToCommunity float64     `gorm:"type:decimal(18,2);not null" json:"applied_to_community"`
	AppliedToSelf      float64     `gorm:"type:decimal(18,2);not null" json:"applied_to_self"`
	PaidAt             time.Time   `gorm:"not null" json:"paid_at"`
	CreatedAt          time.Time   `gorm:"autoCreateTime" json:"created_at"`
}

func (Payment) TableName() string { return "loan_payments" }

// Refinance is the immutable record of one re-terming operation.
type Refinance struct {
	ID              uint64    `gorm:"primaryKey;column:id" json:"-"`
	RefinanceID     string    `gorm:"size:32;uniqueIndex:ux_loan_refinances_refinance_id" json:"refinance_id"`
	LoanID          uint64    `gorm:"not null;index:idx_loan_refinances_loan" json:"-"`
	PreviousPayment float64   `gorm:"type:decimal(18,2);not null" json:"previous_payment"`
	NewPayment      float64   `gorm:"type:decimal(18,2);not null" json:"new_payment"`
	PreviousTerm    int       `gorm:"not null" json:"previous_term"`
	NewTerm         int       `gorm:"not null" json:"new_term"`
	Fee             float64   `gorm:"type:decimal(18,2);not null" json:"fee"`
	Reason          string    `gorm:"type:text" json:"reason,omitempty"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Refinance) TableName() string { return "loan_refinances" }
