package accountmock

import (
	"context"

	domain "watershed-backend/internal/domain/account"
)

// Repo is a function-backed mock that satisfies domain.Repository.
// Fill in the function fields a test needs; unfilled ones fall back to a
// harmless default.
type Repo struct {
	CreateFn               func(ctx context.Context, a *domain.Account) error
	GetByUserIDFn          func(ctx context.Context, userID string) (*domain.Account, error)
	GetByUserIDForUpdateFn func(ctx context.Context, userID string) (*domain.Account, error)
	SaveFn                 func(ctx context.Context, a *domain.Account) error
	AppendTransactionFn    func(ctx context.Context, tx *domain.Transaction) error
	ListTransactionsFn     func(ctx context.Context, accountID uint64) ([]domain.Transaction, error)
}

func (m *Repo) Create(ctx context.Context, a *domain.Account) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	return nil
}

func (m *Repo) GetByUserID(ctx context.Context, userID string) (*domain.Account, error) {
	if m.GetByUserIDFn != nil {
		return m.GetByUserIDFn(ctx, userID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetByUserIDForUpdate(ctx context.Context, userID string) (*domain.Account, error) {
	if m.GetByUserIDForUpdateFn != nil {
		return m.GetByUserIDForUpdateFn(ctx, userID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) Save(ctx context.Context, a *domain.Account) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, a)
	}
	return nil
}

func (m *Repo) AppendTransaction(ctx context.Context, tx *domain.Transaction) error {
	if m.AppendTransactionFn != nil {
		return m.AppendTransactionFn(ctx, tx)
	}
	return nil
}

func (m *Repo) ListTransactions(ctx context.Context, accountID uint64) ([]domain.Transaction, error) {
	if m.ListTransactionsFn != nil {
		return m.ListTransactionsFn(ctx, accountID)
	}
	return nil, nil
}
