package http

import (
	"encoding/json"
	stdhttp "net/http"
	"testing"
	"time"

	loanDomain "watershed-backend/internal/domain/loan"
	"watershed-backend/internal/testutil/memstore"
	refinanceUC "watershed-backend/internal/usecase/refinance"
	"watershed-backend/pkg/id"
)

func seedRepayingLoan(store *memstore.Store, borrower string, remaining float64) *loanDomain.Loan {
	next := time.Now().UTC().AddDate(0, 1, 0)
	return store.SeedLoan(&loanDomain.Loan{
		LoanID:                    id.NewID32(),
		BorrowerID:                borrower,
		Amount:                    1000,
		SelfFundedAmount:          200,
		CommunityFundedAmount:     800,
		RemainingBalance:          remaining,
		CommunityRemainingBalance: remaining * 0.8,
		Status:                    loanDomain.StatusRepaying,
		MonthlyPayment:            83.33,
		TermMonths:                12,
		PaymentsRemaining:         9,
		NextPaymentDate:           &next,
	})
}

func TestQuote_Success(t *testing.T) {
	e := newEchoWithValidator()
	store := memstore.New()
	l := seedRepayingLoan(store, userID('b'), 600)
	_, _, _, refinances := newHandlers(store)

	rec, c := doJSON(e, stdhttp.MethodGet, "/loans/"+l.LoanID+"/refinance/quote", userID('b'), nil)
	c.SetParamNames("loan_id")
	c.SetParamValues(l.LoanID)
	if err := refinances.Quote(c); err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var q refinanceUC.QuoteDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &q); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if q.Fee != 6 || len(q.Options) != 2 {
		t.Fatalf("quote = %+v", q)
	}
}

func TestQuote_StrangerForbidden(t *testing.T) {
	e := newEchoWithValidator()
	store := memstore.New()
	l := seedRepayingLoan(store, userID('b'), 600)
	_, _, _, refinances := newHandlers(store)

	rec, c := doJSON(e, stdhttp.MethodGet, "/loans/"+l.LoanID+"/refinance/quote", userID('x'), nil)
	c.SetParamNames("loan_id")
	c.SetParamValues(l.LoanID)
	if err := refinances.Quote(c); err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if rec.Code != stdhttp.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestRefinance_Success(t *testing.T) {
	e := newEchoWithValidator()
	store := memstore.New()
	l := seedRepayingLoan(store, userID('b'), 600)
	store.SeedAccount(userID('b'), 100)
	_, _, _, refinances := newHandlers(store)

	rec, c := doJSON(e, stdhttp.MethodPost, "/loans/"+l.LoanID+"/refinance", userID('b'), map[string]any{
		"new_term": 24, "reason": "lower payment",
	})
	c.SetParamNames("loan_id")
	c.SetParamValues(l.LoanID)
	if err := refinances.Refinance(c); err != nil {
		t.Fatalf("Refinance: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var res refinanceUC.RefinanceDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if res.NewTerm != 24 || res.Fee != 6 || res.NewPayment != 25 {
		t.Fatalf("result = %+v", res)
	}
}

func TestRefinance_TermNotExtendedMapsTo422(t *testing.T) {
	e := newEchoWithValidator()
	store := memstore.New()
	l := seedRepayingLoan(store, userID('b'), 600)
	store.SeedAccount(userID('b'), 100)
	_, _, _, refinances := newHandlers(store)

	rec, c := doJSON(e, stdhttp.MethodPost, "/loans/"+l.LoanID+"/refinance", userID('b'), map[string]any{
		"new_term": 6,
	})
	c.SetParamNames("loan_id")
	c.SetParamValues(l.LoanID)
	if err := refinances.Refinance(c); err != nil {
		t.Fatalf("Refinance: %v", err)
	}
	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestRefinance_BelowMinimumMapsTo422(t *testing.T) {
	e := newEchoWithValidator()
	store := memstore.New()
	l := seedRepayingLoan(store, userID('b'), 50)
	store.SeedAccount(userID('b'), 100)
	_, _, _, refinances := newHandlers(store)

	rec, c := doJSON(e, stdhttp.MethodPost, "/loans/"+l.LoanID+"/refinance", userID('b'), map[string]any{
		"new_term": 24,
	})
	c.SetParamNames("loan_id")
	c.SetParamValues(l.LoanID)
	if err := refinances.Refinance(c); err != nil {
		t.Fatalf("Refinance: %v", err)
	}
	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestRefinance_MissingCaller(t *testing.T) {
	e := newEchoWithValidator()
	_, _, _, refinances := newHandlers(memstore.New())

	rec, c := doJSON(e, stdhttp.MethodPost, "/loans/"+userID('f')+"/refinance", "", map[string]any{"new_term": 24})
	c.SetParamNames("loan_id")
	c.SetParamValues(userID('f'))
	if err := refinances.Refinance(c); err != nil {
		t.Fatalf("Refinance: %v", err)
	}
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
