package mysql

import (
	"context"
	"errors"

	accountDomain "watershed-backend/internal/domain/account"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AccountRepository struct{ db *gorm.DB }

func NewAccountRepository(db *gorm.DB) *AccountRepository { return &AccountRepository{db: db} }

func (r *AccountRepository) Create(ctx context.Context, a *accountDomain.Account) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *AccountRepository) Save(ctx context.Context, a *accountDomain.Account) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *AccountRepository) GetByUserID(ctx context.Context, userID string) (*accountDomain.Account, error) {
	var out accountDomain.Account
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, accountDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *AccountRepository) GetByUserIDForUpdate(ctx context.Context, userID string) (*accountDomain.Account, error) {
	var out accountDomain.Account
	q := r.db.WithContext(ctx)
	// sqlite has no FOR UPDATE; its write transactions already serialize.
	if q.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	res := q.Where("user_id = ?", userID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, accountDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *AccountRepository) AppendTransaction(ctx context.Context, tx *accountDomain.Transaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

func (r *AccountRepository) ListTransactions(ctx context.Context, accountID uint64) ([]accountDomain.Transaction, error) {
	var out []accountDomain.Transaction
	res := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}
