package loan

import (
	"context"
	"errors"
	"fmt"
	"time"

	accountDomain "watershed-backend/internal/domain/account"
	domain "watershed-backend/internal/domain/loan"
	"watershed-backend/internal/domain/uow"
	accountUC "watershed-backend/internal/usecase/account"
	"watershed-backend/pkg/id"
	"watershed-backend/pkg/money"
)

// Policy carries the deployment-time funding knobs.
type Policy struct {
	SharePrice          float64
	MinContribution     float64
	FundingDeadlineDays int
	DefaultGraceDays    int
}

type Usecase struct {
	repo   domain.Repository
	uow    uow.UnitOfWork
	policy Policy
}

func NewUsecase(r domain.Repository, tx uow.UnitOfWork, p Policy) *Usecase {
	return &Usecase{repo: r, uow: tx, policy: p}
}

// Create opens a loan in the funding state. The borrower's own stake is
// debited from their watershed up-front and recorded as a self-funded share;
// a fully self-funded loan activates and disburses immediately.
func (u *Usecase) Create(ctx context.Context, in CreateLoanInput) (*LoanDTO, error) {
	if !id.Valid(in.BorrowerID) {
		return nil, domain.ErrInvalidBorrower
	}
	if in.Amount <= 0 || in.TermMonths <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	if in.SelfFundedAmount < 0 || in.SelfFundedAmount > in.Amount {
		return nil, fmt.Errorf("self-funded amount must be between 0 and %0.2f: %w", in.Amount, domain.ErrInvalidAmount)
	}

	// One open loan per borrower.
	if existing, err := u.repo.GetOpenLoanByBorrowerID(ctx, in.BorrowerID); err == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrOpenLoanExists, existing.LoanID)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	amount := money.Round2(in.Amount)
	selfFunded := money.Round2(in.SelfFundedAmount)
	community := money.Round2(amount - selfFunded)

	l := &domain.Loan{
		LoanID:                    id.NewID32(),
		BorrowerID:                in.BorrowerID,
		Amount:                    amount,
		SelfFundedAmount:          selfFunded,
		CommunityFundedAmount:     community,
		RemainingBalance:          amount,
		CommunityRemainingBalance: community,
		Status:                    domain.StatusFunding,
		MonthlyPayment:            money.Round2(amount / float64(in.TermMonths)),
		TermMonths:                in.TermMonths,
		PaymentsRemaining:         in.TermMonths,
		FundingDeadline:           now.AddDate(0, 0, u.policy.FundingDeadlineDays),
		StatusUpdatedAt:           now,
	}

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}
		if selfFunded > 0 {
			desc := "self-funded stake in loan " + l.LoanID
			if _, err := accountUC.ApplyDebit(ctx, r, l.BorrowerID, selfFunded, accountDomain.TxLoanFunding, desc); err != nil {
				return err
			}
			s := &domain.Share{
				ShareID:      id.NewID32(),
				LoanID:       l.ID,
				FunderID:     l.BorrowerID,
				Amount:       selfFunded,
				Count:        money.Units(selfFunded, u.policy.SharePrice),
				IsSelfFunded: true,
			}
			if err := r.Loans.CreateShare(ctx, s); err != nil {
				return err
			}
		}
		if money.IsZero(community) {
			// Nothing to raise: disburse straight away.
			if err := activate(ctx, r, l, now); err != nil {
				return err
			}
			return r.Loans.Save(ctx, l)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toLoanDTO(l), nil
}

// Fund applies one shareholder contribution: cap to the remaining need,
// debit the funder, record the share, and on full funding activate the loan
// and disburse the principal to the borrower. One atomic unit, loan row
// locked for its duration.
func (u *Usecase) Fund(ctx context.Context, in FundInput) (*FundResult, error) {
	if in.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	if in.Amount < u.policy.MinContribution-money.Eps {
		return nil, domain.ErrBelowMinimumUnit
	}

	var out *FundResult
	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *domain.Loan) error {
		now := time.Now().UTC()
		if l.Status != domain.StatusFunding {
			return domain.ErrAlreadyActive
		}
		if in.FunderID == l.BorrowerID {
			return domain.ErrSelfFunding
		}
		if now.After(l.FundingDeadline) {
			return domain.ErrFundingClosed
		}

		shares, err := r.Loans.ListShares(ctx, l.ID)
		if err != nil {
			return err
		}
		var communityFunded float64
		for i := range shares {
			if !shares[i].IsSelfFunded {
				communityFunded = money.Round2(communityFunded + shares[i].Amount)
			}
		}
		remaining := money.Round2(l.CommunityFundedAmount - communityFunded)
		if remaining < money.Eps {
			return domain.ErrAlreadyFunded
		}

		// Excess is capped, never rejected: a funder can always close the gap.
		actual := money.Round2(in.Amount)
		if actual > remaining {
			actual = remaining
		}

		desc := "contribution to loan " + l.LoanID
		if _, err := accountUC.ApplyDebit(ctx, r, in.FunderID, actual, accountDomain.TxLoanFunding, desc); err != nil {
			return err
		}

		s := &domain.Share{
			ShareID:  id.NewID32(),
			LoanID:   l.ID,
			FunderID: in.FunderID,
			Amount:   actual,
			Count:    money.Units(actual, u.policy.SharePrice),
		}
		if err := r.Loans.CreateShare(ctx, s); err != nil {
			return err
		}

		communityFunded = money.Round2(communityFunded + actual)
		if communityFunded >= l.CommunityFundedAmount-money.Eps {
			if err := activate(ctx, r, l, now); err != nil {
				return err
			}
			if err := r.Loans.Save(ctx, l); err != nil {
				return err
			}
		}

		out = &FundResult{
			LoanID:          l.LoanID,
			ShareID:         s.ShareID,
			FunderID:        in.FunderID,
			Amount:          actual,
			Count:           s.Count,
			Capped:          actual < money.Round2(in.Amount)-money.Eps,
			CommunityFunded: communityFunded,
			LoanStatus:      string(l.Status),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Get aggregates the loan with its shares, payments and funding progress.
func (u *Usecase) Get(ctx context.Context, loanID string) (*LoanDetailDTO, error) {
	l, err := u.repo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	shares, err := u.repo.ListShares(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	payments, err := u.repo.ListPayments(ctx, l.ID)
	if err != nil {
		return nil, err
	}

	detail := &LoanDetailDTO{Loan: *toLoanDTO(l)}
	var communityFunded float64
	for i := range shares {
		if !shares[i].IsSelfFunded {
			communityFunded = money.Round2(communityFunded + shares[i].Amount)
		}
		detail.Shares = append(detail.Shares, toShareDTO(&shares[i]))
	}
	for i := range payments {
		detail.Payments = append(detail.Payments, toPaymentDTO(&payments[i]))
	}
	detail.CommunityFunded = communityFunded
	detail.CommunityRemainingToFund = money.Round2(l.CommunityFundedAmount - communityFunded)
	if detail.CommunityRemainingToFund < 0 {
		detail.CommunityRemainingToFund = 0
	}
	if l.CommunityFundedAmount > 0 {
		detail.FundingProgress = money.Round2(communityFunded / l.CommunityFundedAmount * 100)
	} else {
		detail.FundingProgress = 100
	}
	return detail, nil
}

// MarkDefaulted is the scheduler's entry point: a loan whose scheduled
// payment is past due beyond the grace period moves to defaulted. Refinance
// is the only way back.
func (u *Usecase) MarkDefaulted(ctx context.Context, loanID string) (*LoanDTO, error) {
	var out *LoanDTO
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domain.Loan) error {
		now := time.Now().UTC()
		if l.Status != domain.StatusActive && l.Status != domain.StatusRepaying {
			return domain.ErrInvalidTransition
		}
		if l.NextPaymentDate == nil {
			return domain.ErrNotDue
		}
		due := l.NextPaymentDate.AddDate(0, 0, u.policy.DefaultGraceDays)
		if now.Before(due) {
			return domain.ErrNotDue
		}
		if err := l.SetStatus(domain.StatusDefaulted, now); err != nil {
			return err
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		out = toLoanDTO(l)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// activate flips a fully funded loan to active and credits the borrower the
// full principal inside the caller's transaction.
func activate(ctx context.Context, r uow.Repos, l *domain.Loan, now time.Time) error {
	if err := l.SetStatus(domain.StatusActive, now); err != nil {
		return err
	}
	next := now.AddDate(0, 1, 0)
	l.NextPaymentDate = &next
	l.DisbursedAt = &now

	desc := "principal disbursement for loan " + l.LoanID
	_, err := accountUC.ApplyCredit(ctx, r, l.BorrowerID, l.Amount, accountDomain.TxLoanDisbursement, desc)
	return err
}
