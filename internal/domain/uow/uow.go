package uow

import (
	"context"

	"watershed-backend/internal/domain/account"
	"watershed-backend/internal/domain/loan"
)

type Repos struct {
	Accounts account.Repository
	Loans    loan.Repository
}

// UnitOfWork runs fn inside a single storage transaction: every repository
// call made through r commits or rolls back together.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the loan row first, then pass it in
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
