package account

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("account not found")
	ErrAlreadyExists     = errors.New("account already exists for user")
	ErrInvalidAmount     = errors.New("amount must be greater than zero")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// TxType tags every ledger entry with the business event that produced it.
type TxType string

const (
	TxAdCredit         TxType = "ad_credit"
	TxContribution     TxType = "contribution"
	TxLoanFunding      TxType = "loan_funding"
	TxLoanDisbursement TxType = "loan_disbursement"
	TxLoanRepayment    TxType = "loan_repayment"
	TxShareRepayment   TxType = "share_repayment"
	TxRefinanceFee     TxType = "refinance_fee"
)

var validTxTypes = map[TxType]bool{
	TxAdCredit:         true,
	TxContribution:     true,
	TxLoanFunding:      true,
	TxLoanDisbursement: true,
	TxLoanRepayment:    true,
	TxShareRepayment:   true,
	TxRefinanceFee:     true,
}

func (t TxType) Valid() bool { return validTxTypes[t] }

// Account is a user's watershed: the spendable balance plus lifetime counters.
// balance == total_inflow - total_outflow holds after every mutation; the
// transaction log is the source of truth and the counters a materialized view.
type Account struct {
	ID           uint64         `gorm:"primaryKey;column:id" json:"-"`
	AccountID    string         `gorm:"size:32;uniqueIndex:ux_accounts_account_id" json:"account_id"`
	UserID       string         `gorm:"size:32;uniqueIndex:ux_accounts_user_id" json:"user_id"`
	Balance      float64        `gorm:"type:decimal(18,2);not null;default:0" json:"balance"`
	TotalInflow  float64        `gorm:"type:decimal(18,2);not null;default:0" json:"total_inflow"`
	TotalOutflow float64        `gorm:"type:decimal(18,2);not null;default:0" json:"total_outflow"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Account) TableName() string { return "accounts" }

// Transaction is one append-only ledger entry. Amount is signed (credits
// positive, debits negative); BalanceAfter snapshots the balance immediately
// after the entry was applied. Replaying all entries in creation order must
// reproduce the current balance exactly.
type Transaction struct {
	ID           uint64    `gorm:"primaryKey;column:id" json:"-"`
	TxID         string    `gorm:"size:32;uniqueIndex:ux_account_transactions_tx_id" json:"tx_id"`
	AccountID    uint64    `gorm:"not null;index:idx_account_transactions_account" json:"-"`
	Type         TxType    `gorm:"type:varchar(32);not null" json:"type"`
	Amount       float64   `gorm:"type:decimal(18,2);not null" json:"amount"`
	BalanceAfter float64   `gorm:"type:decimal(18,2);not null" json:"balance_after"`
	Description  string    `gorm:"type:text" json:"description"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Transaction) TableName() string { return "account_transactions" }
