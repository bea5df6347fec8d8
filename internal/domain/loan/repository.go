package loan

import "context"

// Repository covers the loan aggregate: the loan row plus its shares,
// payments and refinance records. Children are only ever mutated inside
// their parent loan's transaction.
type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	// GetByLoanIDForUpdate locks the loan row for the duration of the
	// surrounding transaction.
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	GetOpenLoanByBorrowerID(ctx context.Context, borrowerID string) (*Loan, error)
	Save(ctx context.Context, l *Loan) error

	CreateShare(ctx context.Context, s *Share) error
	SaveShare(ctx context.Context, s *Share) error
	ListShares(ctx context.Context, loanID uint64) ([]Share, error)

	CreatePayment(ctx context.Context, p *Payment) error
	ListPayments(ctx context.Context, loanID uint64) ([]Payment, error)

	CreateRefinance(ctx context.Context, r *Refinance) error
	ListRefinances(ctx context.Context, loanID uint64) ([]Refinance, error)
}
