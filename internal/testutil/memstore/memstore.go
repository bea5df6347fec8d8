// Package memstore provides in-memory repository implementations for
// usecase tests: real aggregate state without a database. Not safe for
// concurrent use; tests drive it from one goroutine.
package memstore

import (
	"context"

	accountDomain "watershed-backend/internal/domain/account"
	loanDomain "watershed-backend/internal/domain/loan"
	"watershed-backend/internal/domain/uow"
)

type Store struct {
	accounts     map[string]*accountDomain.Account // by user id
	transactions []accountDomain.Transaction
	loans        map[string]*loanDomain.Loan // by loan id
	shares       []loanDomain.Share
	payments     []loanDomain.Payment
	refinances   []loanDomain.Refinance
	nextID       uint64
}

func New() *Store {
	return &Store{
		accounts: make(map[string]*accountDomain.Account),
		loans:    make(map[string]*loanDomain.Loan),
	}
}

// Repos bundles the store's repositories for a passthrough unit of work.
func (s *Store) Repos() uow.Repos {
	return uow.Repos{Accounts: &Accounts{s: s}, Loans: &Loans{s: s}}
}

func (s *Store) id() uint64 { s.nextID++; return s.nextID }

// SeedAccount creates an account with a starting balance (recorded as
// inflow so the ledger invariant holds).
func (s *Store) SeedAccount(userID string, balance float64) *accountDomain.Account {
	a := &accountDomain.Account{
		ID:          s.id(),
		AccountID:   userID,
		UserID:      userID,
		Balance:     balance,
		TotalInflow: balance,
	}
	s.accounts[userID] = a
	if balance > 0 {
		s.transactions = append(s.transactions, accountDomain.Transaction{
			ID:           s.id(),
			TxID:         "seed-" + userID,
			AccountID:    a.ID,
			Type:         accountDomain.TxContribution,
			Amount:       balance,
			BalanceAfter: balance,
		})
	}
	return a
}

// SeedLoan registers a loan, assigning its numeric ID.
func (s *Store) SeedLoan(l *loanDomain.Loan) *loanDomain.Loan {
	if l.ID == 0 {
		l.ID = s.id()
	}
	s.loans[l.LoanID] = l
	return l
}

// SeedShare registers a share against a seeded loan.
func (s *Store) SeedShare(sh loanDomain.Share) {
	if sh.ID == 0 {
		sh.ID = s.id()
	}
	s.shares = append(s.shares, sh)
}

func (s *Store) Account(userID string) *accountDomain.Account { return s.accounts[userID] }

func (s *Store) Transactions(accountID uint64) []accountDomain.Transaction {
	var out []accountDomain.Transaction
	for _, tx := range s.transactions {
		if tx.AccountID == accountID {
			out = append(out, tx)
		}
	}
	return out
}

func (s *Store) Shares(loanID uint64) []loanDomain.Share {
	var out []loanDomain.Share
	for _, sh := range s.shares {
		if sh.LoanID == loanID {
			out = append(out, sh)
		}
	}
	return out
}

func (s *Store) Payments(loanID uint64) []loanDomain.Payment {
	var out []loanDomain.Payment
	for _, p := range s.payments {
		if p.LoanID == loanID {
			out = append(out, p)
		}
	}
	return out
}

func (s *Store) Refinances(loanID uint64) []loanDomain.Refinance {
	var out []loanDomain.Refinance
	for _, r := range s.refinances {
		if r.LoanID == loanID {
			out = append(out, r)
		}
	}
	return out
}

// ---- account repository ----

type Accounts struct{ s *Store }

var _ accountDomain.Repository = (*Accounts)(nil)

func (r *Accounts) Create(_ context.Context, a *accountDomain.Account) error {
	if _, ok := r.s.accounts[a.UserID]; ok {
		return accountDomain.ErrAlreadyExists
	}
	a.ID = r.s.id()
	cp := *a
	r.s.accounts[a.UserID] = &cp
	return nil
}

func (r *Accounts) GetByUserID(_ context.Context, userID string) (*accountDomain.Account, error) {
	a, ok := r.s.accounts[userID]
	if !ok {
		return nil, accountDomain.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *Accounts) GetByUserIDForUpdate(ctx context.Context, userID string) (*accountDomain.Account, error) {
	return r.GetByUserID(ctx, userID)
}

func (r *Accounts) Save(_ context.Context, a *accountDomain.Account) error {
	cur, ok := r.s.accounts[a.UserID]
	if !ok {
		return accountDomain.ErrNotFound
	}
	*cur = *a
	return nil
}

func (r *Accounts) AppendTransaction(_ context.Context, tx *accountDomain.Transaction) error {
	tx.ID = r.s.id()
	r.s.transactions = append(r.s.transactions, *tx)
	return nil
}

func (r *Accounts) ListTransactions(_ context.Context, accountID uint64) ([]accountDomain.Transaction, error) {
	return r.s.Transactions(accountID), nil
}

// ---- loan repository ----

type Loans struct{ s *Store }

var _ loanDomain.Repository = (*Loans)(nil)

func (r *Loans) Create(_ context.Context, l *loanDomain.Loan) error {
	l.ID = r.s.id()
	cp := *l
	r.s.loans[l.LoanID] = &cp
	return nil
}

func (r *Loans) GetByLoanID(_ context.Context, loanID string) (*loanDomain.Loan, error) {
	l, ok := r.s.loans[loanID]
	if !ok {
		return nil, loanDomain.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (r *Loans) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	return r.GetByLoanID(ctx, loanID)
}

func (r *Loans) GetOpenLoanByBorrowerID(_ context.Context, borrowerID string) (*loanDomain.Loan, error) {
	for _, l := range r.s.loans {
		if l.BorrowerID == borrowerID && l.Status.Open() {
			cp := *l
			return &cp, nil
		}
	}
	return nil, loanDomain.ErrNotFound
}

func (r *Loans) Save(_ context.Context, l *loanDomain.Loan) error {
	cur, ok := r.s.loans[l.LoanID]
	if !ok {
		return loanDomain.ErrNotFound
	}
	*cur = *l
	return nil
}

func (r *Loans) CreateShare(_ context.Context, sh *loanDomain.Share) error {
	sh.ID = r.s.id()
	r.s.shares = append(r.s.shares, *sh)
	return nil
}

func (r *Loans) SaveShare(_ context.Context, sh *loanDomain.Share) error {
	for i := range r.s.shares {
		if r.s.shares[i].ID == sh.ID {
			r.s.shares[i] = *sh
			return nil
		}
	}
	return loanDomain.ErrNotFound
}

func (r *Loans) ListShares(_ context.Context, loanID uint64) ([]loanDomain.Share, error) {
	return r.s.Shares(loanID), nil
}

func (r *Loans) CreatePayment(_ context.Context, p *loanDomain.Payment) error {
	p.ID = r.s.id()
	r.s.payments = append(r.s.payments, *p)
	return nil
}

func (r *Loans) ListPayments(_ context.Context, loanID uint64) ([]loanDomain.Payment, error) {
	return r.s.Payments(loanID), nil
}

func (r *Loans) CreateRefinance(_ context.Context, ref *loanDomain.Refinance) error {
	ref.ID = r.s.id()
	r.s.refinances = append(r.s.refinances, *ref)
	return nil
}

func (r *Loans) ListRefinances(_ context.Context, loanID uint64) ([]loanDomain.Refinance, error) {
	return r.s.Refinances(loanID), nil
}
