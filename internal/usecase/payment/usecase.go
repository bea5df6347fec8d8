package payment

import (
	"context"
	"fmt"
	"time"

	accountDomain "watershed-backend/internal/domain/account"
	domain "watershed-backend/internal/domain/loan"
	"watershed-backend/internal/domain/uow"
	accountUC "watershed-backend/internal/usecase/account"
	"watershed-backend/pkg/id"
	"watershed-backend/pkg/money"
)

type Usecase struct {
	uow uow.UnitOfWork
}

func NewUsecase(tx uow.UnitOfWork) *Usecase { return &Usecase{uow: tx} }

// Apply runs one repayment through the waterfall: split the amount between
// the self-funded and community-funded remaining balances pro-rata, debit the
// borrower, fan the community slice out to shareholders, and record the
// payment. Everything happens in one transaction with the loan row locked;
// "money owed" and "money paid out" always move together.
func (u *Usecase) Apply(ctx context.Context, in ApplyInput) (*ApplyResult, error) {
	if !in.Type.Valid() {
		return nil, fmt.Errorf("unknown payment type %q", in.Type)
	}
	if in.Amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	var out *ApplyResult
	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *domain.Loan) error {
		now := time.Now().UTC()
		if in.CallerID != l.BorrowerID {
			return domain.ErrNotAuthorized
		}
		if l.Status != domain.StatusActive && l.Status != domain.StatusRepaying {
			return domain.ErrInvalidTransition
		}

		amount := money.Round2(in.Amount)
		if amount > l.RemainingBalance+money.Eps {
			return domain.ErrOverPayment
		}

		appliedToCommunity, appliedToSelf := split(amount, l)

		desc := fmt.Sprintf("%s payment on loan %s", in.Type, l.LoanID)
		if _, err := accountUC.ApplyDebit(ctx, r, l.BorrowerID, amount, accountDomain.TxLoanRepayment, desc); err != nil {
			return err
		}

		l.RemainingBalance = money.Round2(l.RemainingBalance - amount)
		l.CommunityRemainingBalance = money.Round2(l.CommunityRemainingBalance - appliedToCommunity)
		if money.IsZero(l.CommunityRemainingBalance) {
			l.CommunityRemainingBalance = 0
		}

		if in.Type == domain.PaymentScheduled {
			if l.PaymentsRemaining > 0 {
				l.PaymentsRemaining--
			}
			if l.NextPaymentDate != nil {
				// Advances from the previous due date, not from now:
				// a late borrower owes one scheduled payment per
				// missed month and the due date only reaches the
				// future once the backlog is cleared.
				next := l.NextPaymentDate.AddDate(0, 1, 0)
				l.NextPaymentDate = &next
			}
			if l.Status == domain.StatusActive {
				if err := l.SetStatus(domain.StatusRepaying, now); err != nil {
					return err
				}
			}
		}

		credits, err := fanOut(ctx, r, l, appliedToCommunity)
		if err != nil {
			return err
		}

		p := &domain.Payment{
			PaymentID:          id.NewID32(),
			LoanID:             l.ID,
			Amount:             amount,
			Type:               in.Type,
			AppliedToCommunity: appliedToCommunity,
			AppliedToSelf:      appliedToSelf,
			PaidAt:             now,
		}
		if err := r.Loans.CreatePayment(ctx, p); err != nil {
			return err
		}

		if money.IsZero(l.RemainingBalance) {
			l.RemainingBalance = 0
			l.CommunityRemainingBalance = 0
			l.PaymentsRemaining = 0
			l.NextPaymentDate = nil
			if err := l.SetStatus(domain.StatusCompleted, now); err != nil {
				return err
			}
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}

		out = &ApplyResult{
			PaymentID:          p.PaymentID,
			LoanID:             l.LoanID,
			Amount:             amount,
			Type:               string(in.Type),
			AppliedToCommunity: appliedToCommunity,
			AppliedToSelf:      appliedToSelf,
			RemainingBalance:   l.RemainingBalance,
			PaymentsRemaining:  l.PaymentsRemaining,
			LoanStatus:         string(l.Status),
			ShareholderCredits: credits,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// split divides a payment between the community and self portions,
// proportional to each portion's remaining balance at this moment. A fully
// self-funded loan pays 100% to self.
func split(amount float64, l *domain.Loan) (appliedToCommunity, appliedToSelf float64) {
	if l.CommunityFundedAmount == 0 || l.CommunityRemainingBalance <= 0 {
		return 0, amount
	}
	total := l.RemainingBalance
	if total <= 0 {
		return 0, 0
	}

	appliedToCommunity = money.Round2(amount * l.CommunityRemainingBalance / total)
	if appliedToCommunity > l.CommunityRemainingBalance {
		appliedToCommunity = l.CommunityRemainingBalance
	}
	appliedToSelf = money.Round2(amount - appliedToCommunity)

	// Clamp so neither side is driven negative.
	selfRemaining := l.SelfRemainingBalance()
	if appliedToSelf > selfRemaining+money.Eps {
		appliedToSelf = money.Round2(selfRemaining)
		if appliedToSelf < 0 {
			appliedToSelf = 0
		}
		appliedToCommunity = money.Round2(amount - appliedToSelf)
	}
	return appliedToCommunity, appliedToSelf
}

// fanOut distributes the community slice across non-self shares pro-rata by
// contributed amount. The allocation list is computed up-front so the batch
// of credits is all-or-nothing, and rounding remainders land on the final
// share: the credits sum to exactly appliedToCommunity.
func fanOut(ctx context.Context, r uow.Repos, l *domain.Loan, appliedToCommunity float64) ([]ShareholderCredit, error) {
	if money.IsZero(appliedToCommunity) {
		return nil, nil
	}

	shares, err := r.Loans.ListShares(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	var community []domain.Share
	for i := range shares {
		if !shares[i].IsSelfFunded {
			community = append(community, shares[i])
		}
	}
	if len(community) == 0 {
		return nil, nil
	}

	weights := make([]float64, len(community))
	for i := range community {
		weights[i] = community[i].Amount
	}
	slices := money.Allocate(appliedToCommunity, weights)

	credits := make([]ShareholderCredit, 0, len(community))
	for i := range community {
		if money.IsZero(slices[i]) {
			continue
		}
		s := community[i]
		desc := "repayment distribution from loan " + l.LoanID
		if _, err := accountUC.ApplyCredit(ctx, r, s.FunderID, slices[i], accountDomain.TxShareRepayment, desc); err != nil {
			return nil, err
		}
		s.Repaid = money.Round2(s.Repaid + slices[i])
		if err := r.Loans.SaveShare(ctx, &s); err != nil {
			return nil, err
		}
		credits = append(credits, ShareholderCredit{
			ShareID:  s.ShareID,
			FunderID: s.FunderID,
			Amount:   slices[i],
		})
	}
	return credits, nil
}
