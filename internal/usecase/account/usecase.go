package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "watershed-backend/internal/domain/account"
	"watershed-backend/internal/domain/uow"
	"watershed-backend/pkg/id"
	"watershed-backend/pkg/money"
)

type Usecase struct {
	repo domain.Repository
	uow  uow.UnitOfWork
}

func NewUsecase(r domain.Repository, tx uow.UnitOfWork) *Usecase {
	return &Usecase{repo: r, uow: tx}
}

// Open provisions a watershed account for a user. One account per user.
func (u *Usecase) Open(ctx context.Context, userID string) (*AccountDTO, error) {
	if _, err := u.repo.GetByUserID(ctx, userID); err == nil {
		return nil, domain.ErrAlreadyExists
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	a := &domain.Account{
		AccountID: id.NewID32(),
		UserID:    userID,
	}
	if err := u.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return toAccountDTO(a), nil
}

func (u *Usecase) Get(ctx context.Context, userID string) (*AccountDTO, error) {
	a, err := u.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toAccountDTO(a), nil
}

// Credit adds funds to the user's watershed: balance and total_inflow move
// together with the appended ledger entry, in one transaction.
func (u *Usecase) Credit(ctx context.Context, in MutationInput) (*MutationResult, error) {
	var out *MutationResult
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		newBalance, err := ApplyCredit(ctx, r, in.UserID, in.Amount, in.Type, in.Description)
		if err != nil {
			return err
		}
		out = &MutationResult{UserID: in.UserID, Balance: newBalance}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Debit removes funds. A debit that exceeds the balance fails with
// ErrInsufficientFunds before anything is written.
func (u *Usecase) Debit(ctx context.Context, in MutationInput) (*MutationResult, error) {
	var out *MutationResult
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		newBalance, err := ApplyDebit(ctx, r, in.UserID, in.Amount, in.Type, in.Description)
		if err != nil {
			return err
		}
		out = &MutationResult{UserID: in.UserID, Balance: newBalance}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Statement returns the account's ledger, newest entry first.
func (u *Usecase) Statement(ctx context.Context, userID string) ([]TransactionDTO, error) {
	a, err := u.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	txs, err := u.repo.ListTransactions(ctx, a.ID)
	if err != nil {
		return nil, err
	}
	out := make([]TransactionDTO, 0, len(txs))
	for i := len(txs) - 1; i >= 0; i-- {
		out = append(out, toTransactionDTO(&txs[i]))
	}
	return out, nil
}

// Reconcile replays the transaction log from zero and compares the result
// against the stored balance and lifetime counters. The counters are a
// materialized view of the log; drift here means a bug, not a business event.
func (u *Usecase) Reconcile(ctx context.Context, userID string) (*ReconcileReport, error) {
	a, err := u.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	txs, err := u.repo.ListTransactions(ctx, a.ID)
	if err != nil {
		return nil, err
	}

	var replayed, inflow, outflow float64
	for i := range txs {
		replayed = money.Round2(replayed + txs[i].Amount)
		if txs[i].Amount >= 0 {
			inflow = money.Round2(inflow + txs[i].Amount)
		} else {
			outflow = money.Round2(outflow - txs[i].Amount)
		}
	}

	rep := &ReconcileReport{
		UserID:           userID,
		Balance:          a.Balance,
		ReplayedBalance:  replayed,
		TotalInflow:      a.TotalInflow,
		ReplayedInflow:   inflow,
		TotalOutflow:     a.TotalOutflow,
		ReplayedOutflow:  outflow,
		TransactionCount: len(txs),
	}
	rep.Consistent = money.Eq(a.Balance, replayed) &&
		money.Eq(a.TotalInflow, inflow) &&
		money.Eq(a.TotalOutflow, outflow) &&
		money.Eq(a.Balance, a.TotalInflow-a.TotalOutflow)
	if len(txs) > 0 && !money.Eq(txs[len(txs)-1].BalanceAfter, a.Balance) {
		rep.Consistent = false
	}
	return rep, nil
}

// ApplyCredit is the balance-mutation primitive used inside any unit of work
// (standalone credits, loan disbursement, shareholder fan-out). It locks the
// account row, moves balance and total_inflow together and appends the
// matching ledger entry.
func ApplyCredit(ctx context.Context, r uow.Repos, userID string, amount float64, txType domain.TxType, desc string) (float64, error) {
	if amount <= 0 {
		return 0, domain.ErrInvalidAmount
	}
	if !txType.Valid() {
		return 0, fmt.Errorf("unknown transaction type %q", txType)
	}
	amount = money.Round2(amount)

	a, err := r.Accounts.GetByUserIDForUpdate(ctx, userID)
	if err != nil {
		return 0, err
	}

	a.Balance = money.Round2(a.Balance + amount)
	a.TotalInflow = money.Round2(a.TotalInflow + amount)
	if err := r.Accounts.Save(ctx, a); err != nil {
		return 0, err
	}

	entry := &domain.Transaction{
		TxID:         id.NewID32(),
		AccountID:    a.ID,
		Type:         txType,
		Amount:       amount,
		BalanceAfter: a.Balance,
		Description:  desc,
		CreatedAt:    time.Now().UTC(),
	}
	if err := r.Accounts.AppendTransaction(ctx, entry); err != nil {
		return 0, err
	}
	return a.Balance, nil
}

// ApplyDebit mirrors ApplyCredit for outflows. The insufficient-funds check
// happens on the locked row, immediately before the write.
func ApplyDebit(ctx context.Context, r uow.Repos, userID string, amount float64, txType domain.TxType, desc string) (float64, error) {
	if amount <= 0 {
		return 0, domain.ErrInvalidAmount
	}
	if !txType.Valid() {
		return 0, fmt.Errorf("unknown transaction type %q", txType)
	}
	amount = money.Round2(amount)

	a, err := r.Accounts.GetByUserIDForUpdate(ctx, userID)
	if err != nil {
		return 0, err
	}
	if amount > a.Balance+money.Eps {
		return 0, domain.ErrInsufficientFunds
	}

	a.Balance = money.Round2(a.Balance - amount)
	a.TotalOutflow = money.Round2(a.TotalOutflow + amount)
	if err := r.Accounts.Save(ctx, a); err != nil {
		return 0, err
	}

	entry := &domain.Transaction{
		TxID:         id.NewID32(),
		AccountID:    a.ID,
		Type:         txType,
		Amount:       -amount,
		BalanceAfter: a.Balance,
		Description:  desc,
		CreatedAt:    time.Now().UTC(),
	}
	if err := r.Accounts.AppendTransaction(ctx, entry); err != nil {
		return 0, err
	}
	return a.Balance, nil
}
