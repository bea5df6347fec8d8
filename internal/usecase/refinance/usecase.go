package refinance

import (
	"context"
	"time"

	accountDomain "watershed-backend/internal/domain/account"
	domain "watershed-backend/internal/domain/loan"
	"watershed-backend/internal/domain/uow"
	accountUC "watershed-backend/internal/usecase/account"
	"watershed-backend/pkg/id"
	"watershed-backend/pkg/money"
)

// Policy carries the deployment-time refinance knobs.
type Policy struct {
	MinBalance float64
	FeePct     float64
	MinFee     float64
	Terms      []int
}

type Usecase struct {
	repo   domain.Repository
	uow    uow.UnitOfWork
	policy Policy
}

func NewUsecase(r domain.Repository, tx uow.UnitOfWork, p Policy) *Usecase {
	return &Usecase{repo: r, uow: tx, policy: p}
}

func (p Policy) fee(remaining float64) float64 {
	fee := money.Round2(remaining * p.FeePct)
	if fee < p.MinFee {
		fee = money.Round2(p.MinFee)
	}
	return fee
}

func refinanceable(s domain.Status) bool {
	return s == domain.StatusActive || s == domain.StatusRepaying || s == domain.StatusDefaulted
}

// Quote runs the refinance arithmetic without mutating anything: a menu of
// candidate terms longer than the current one, each with the fee and the
// monthly payment it would produce.
func (u *Usecase) Quote(ctx context.Context, loanID, callerID string) (*QuoteDTO, error) {
	l, err := u.repo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if callerID != l.BorrowerID {
		return nil, domain.ErrNotAuthorized
	}
	if !refinanceable(l.Status) {
		return nil, domain.ErrInvalidTransition
	}
	if l.RemainingBalance < u.policy.MinBalance-money.Eps {
		return nil, domain.ErrBelowMinimum
	}

	fee := u.policy.fee(l.RemainingBalance)
	q := &QuoteDTO{
		LoanID:           l.LoanID,
		RemainingBalance: l.RemainingBalance,
		CurrentTerm:      l.TermMonths,
		CurrentPayment:   l.MonthlyPayment,
		Fee:              fee,
	}
	for _, term := range u.policy.Terms {
		if term <= l.TermMonths {
			continue
		}
		q.Options = append(q.Options, QuoteOption{
			TermMonths:     term,
			Fee:            fee,
			MonthlyPayment: money.Round2(l.RemainingBalance / float64(term)),
		})
	}
	return q, nil
}

// Refinance re-terms the loan against its current remaining balance for a
// fee debited from the borrower's watershed. The fee debit, the immutable
// refinance record and the loan update commit together; a defaulted loan
// recovers to repaying.
func (u *Usecase) Refinance(ctx context.Context, in RefinanceInput) (*RefinanceDTO, error) {
	var out *RefinanceDTO
	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *domain.Loan) error {
		now := time.Now().UTC()
		if in.CallerID != l.BorrowerID {
			return domain.ErrNotAuthorized
		}
		if !refinanceable(l.Status) {
			return domain.ErrInvalidTransition
		}
		if l.RemainingBalance < u.policy.MinBalance-money.Eps {
			return domain.ErrBelowMinimum
		}
		if in.NewTerm <= l.TermMonths {
			return domain.ErrTermNotExtended
		}

		fee := u.policy.fee(l.RemainingBalance)
		desc := "refinance fee for loan " + l.LoanID
		if _, err := accountUC.ApplyDebit(ctx, r, l.BorrowerID, fee, accountDomain.TxRefinanceFee, desc); err != nil {
			return err
		}

		rec := &domain.Refinance{
			RefinanceID:     id.NewID32(),
			LoanID:          l.ID,
			PreviousPayment: l.MonthlyPayment,
			NewPayment:      money.Round2(l.RemainingBalance / float64(in.NewTerm)),
			PreviousTerm:    l.TermMonths,
			NewTerm:         in.NewTerm,
			Fee:             fee,
			Reason:          in.Reason,
		}
		if err := r.Loans.CreateRefinance(ctx, rec); err != nil {
			return err
		}

		l.TermMonths = in.NewTerm
		l.MonthlyPayment = rec.NewPayment
		l.PaymentsRemaining = in.NewTerm
		// The old due date belongs to the old schedule; a recovered
		// defaulted loan in particular must not stay past due.
		next := now.AddDate(0, 1, 0)
		l.NextPaymentDate = &next
		if l.Status == domain.StatusDefaulted {
			if err := l.SetStatus(domain.StatusRepaying, now); err != nil {
				return err
			}
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}

		out = &RefinanceDTO{
			RefinanceID:     rec.RefinanceID,
			LoanID:          l.LoanID,
			PreviousPayment: rec.PreviousPayment,
			NewPayment:      rec.NewPayment,
			PreviousTerm:    rec.PreviousTerm,
			NewTerm:         rec.NewTerm,
			Fee:             rec.Fee,
			LoanStatus:      string(l.Status),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
