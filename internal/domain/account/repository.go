package account

import "context"

type Repository interface {
	Create(ctx context.Context, a *Account) error
	GetByUserID(ctx context.Context, userID string) (*Account, error)
	// GetByUserIDForUpdate locks the account row for the duration of the
	// surrounding transaction.
	GetByUserIDForUpdate(ctx context.Context, userID string) (*Account, error)
	Save(ctx context.Context, a *Account) error

	// Transactions are children of the account aggregate: append-only,
	// created only inside the same transaction that moves the balance.
	AppendTransaction(ctx context.Context, tx *Transaction) error
	// ListTransactions returns the account's ledger entries in creation
	// order (replay order).
	ListTransactions(ctx context.Context, accountID uint64) ([]Transaction, error)
}
