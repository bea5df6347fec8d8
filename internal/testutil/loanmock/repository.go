package loanmock

import (
	"context"

	domain "watershed-backend/internal/domain/loan"
)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn                  func(ctx context.Context, l *domain.Loan) error
	GetByLoanIDFn             func(ctx context.Context, loanID string) (*domain.Loan, error)
	GetByLoanIDForUpdateFn    func(ctx context.Context, loanID string) (*domain.Loan, error)
	GetOpenLoanByBorrowerIDFn func(ctx context.Context, borrowerID string) (*domain.Loan, error)
	SaveFn                    func(ctx context.Context, l *domain.Loan) error
	CreateShareFn             func(ctx context.Context, s *domain.Share) error
	SaveShareFn               func(ctx context.Context, s *domain.Share) error
	ListSharesFn              func(ctx context.Context, loanID uint64) ([]domain.Share, error)
	CreatePaymentFn           func(ctx context.Context, p *domain.Payment) error
	ListPaymentsFn            func(ctx context.Context, loanID uint64) ([]domain.Payment, error)
	CreateRefinanceFn         func(ctx context.Context, r *domain.Refinance) error
	ListRefinancesFn          func(ctx context.Context, loanID uint64) ([]domain.Refinance, error)
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, loanID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDForUpdateFn != nil {
		return m.GetByLoanIDForUpdateFn(ctx, loanID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetOpenLoanByBorrowerID(ctx context.Context, borrowerID string) (*domain.Loan, error) {
	if m.GetOpenLoanByBorrowerIDFn != nil {
		return m.GetOpenLoanByBorrowerIDFn(ctx, borrowerID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) Save(ctx context.Context, l *domain.Loan) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, l)
	}
	return nil
}

func (m *Repo) CreateShare(ctx context.Context, s *domain.Share) error {
	if m.CreateShareFn != nil {
		return m.CreateShareFn(ctx, s)
	}
	return nil
}

func (m *Repo) SaveShare(ctx context.Context, s *domain.Share) error {
	if m.SaveShareFn != nil {
		return m.SaveShareFn(ctx, s)
	}
	return nil
}

func (m *Repo) ListShares(ctx context.Context, loanID uint64) ([]domain.Share, error) {
	if m.ListSharesFn != nil {
		return m.ListSharesFn(ctx, loanID)
	}
	return nil, nil
}

func (m *Repo) CreatePayment(ctx context.Context, p *domain.Payment) error {
	if m.CreatePaymentFn != nil {
		return m.CreatePaymentFn(ctx, p)
	}
	return nil
}

func (m *Repo) ListPayments(ctx context.Context, loanID uint64) ([]domain.Payment, error) {
	if m.ListPaymentsFn != nil {
		return m.ListPaymentsFn(ctx, loanID)
	}
	return nil, nil
}

func (m *Repo) CreateRefinance(ctx context.Context, r *domain.Refinance) error {
	if m.CreateRefinanceFn != nil {
		return m.CreateRefinanceFn(ctx, r)
	}
	return nil
}

func (m *Repo) ListRefinances(ctx context.Context, loanID uint64) ([]domain.Refinance, error) {
	if m.ListRefinancesFn != nil {
		return m.ListRefinancesFn(ctx, loanID)
	}
	return nil, nil
}
