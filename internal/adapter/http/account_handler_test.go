package http

import (
	"encoding/json"
	stdhttp "net/http"
	"testing"

	accountUC "watershed-backend/internal/usecase/account"
	"watershed-backend/internal/testutil/memstore"
)

func TestOpenAccount_Success(t *testing.T) {
	e := newEchoWithValidator()
	store := memstore.New()
	accounts, _, _, _ := newHandlers(store)

	rec, c := doJSON(e, stdhttp.MethodPost, "/accounts", "", map[string]any{"user_id": userID('a')})
	if err := accounts.OpenAccount(c); err != nil {
		t.Fatalf("OpenAccount: %v", err)
	}
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	var got accountUC.AccountDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if got.UserID != userID('a') || got.Balance != 0 {
		t.Fatalf("unexpected dto: %+v", got)
	}
}

func TestOpenAccount_Duplicate(t *testing.T) {
	e := newEchoWithValidator()
	store := memstore.New()
	store.SeedAccount(userID('a'), 0)
	accounts, _, _, _ := newHandlers(store)

	rec, c := doJSON(e, stdhttp.MethodPost, "/accounts", "", map[string]any{"user_id": userID('a')})
	if err := accounts.OpenAccount(c); err != nil {
		t.Fatalf("OpenAccount: %v", err)
	}
	if rec.Code != stdhttp.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestOpenAccount_ValidationError(t *testing.T) {
	e := newEchoWithValidator()
	accounts, _, _, _ := newHandlers(memstore.New())

	rec, c := doJSON(e, stdhttp.MethodPost, "/accounts", "", map[string]any{"user_id": "NOT_HEX"})
	if err := accounts.OpenAccount(c); err != nil {
		t.Fatalf("OpenAccount: %v", err)
	}
	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	var er ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &er)
	if er.Error != "validation failed" || len(er.Details) == 0 {
		t.Fatalf("unexpected error payload: %+v", er)
	}
}

func TestCredit_Handler(t *testing.T) {
	e := newEchoWithValidator()
	store := memstore.New()
	store.SeedAccount(userID('a'), 0)
	accounts, _, _, _ := newHandlers(store)

	rec, c := doJSON(e, stdhttp.MethodPost, "/accounts/"+userID('a')+"/credit", "", map[string]any{
		"amount": 150.25, "type": "ad_credit", "description": "watched ad",
	})
	c.SetParamNames("user_id")
	c.SetParamValues(userID('a'))
	if err := accounts.Credit(c); err != nil {
		t.Fatalf("Credit: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var got accountUC.MutationResult
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if got.Balance != 150.25 {
		t.Fatalf("balance = %v, want 150.25", got.Balance)
	}
}

func TestCredit_UnknownType(t *testing.T) {
	e := newEchoWithValidator()
	store := memstore.New()
	store.SeedAccount(userID('a'), 0)
	accounts, _, _, _ := newHandlers(store)

	rec, c := doJSON(e, stdhttp.MethodPost, "/accounts/"+userID('a')+"/credit", "", map[string]any{
		"amount": 10, "type": "bonus",
	})
	c.SetParamNames("user_id")
	c.SetParamValues(userID('a'))
	if err := accounts.Credit(c); err != nil {
		t.Fatalf("Credit: %v", err)
	}
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestDebit_InsufficientFundsMapsTo422(t *testing.T) {
	e := newEchoWithValidator()
	store := memstore.New()
	store.SeedAccount(userID('a'), 20)
	accounts, _, _, _ := newHandlers(store)

	rec, c := doJSON(e, stdhttp.MethodPost, "/accounts/"+userID('a')+"/debit", "", map[string]any{
		"amount": 100, "type": "contribution",
	})
	c.SetParamNames("user_id")
	c.SetParamValues(userID('a'))
	if err := accounts.Debit(c); err != nil {
		t.Fatalf("Debit: %v", err)
	}
	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestGetAccount_NotFound(t *testing.T) {
	e := newEchoWithValidator()
	accounts, _, _, _ := newHandlers(memstore.New())

	rec, c := doJSON(e, stdhttp.MethodGet, "/accounts/"+userID('z'), "", nil)
	c.SetParamNames("user_id")
	c.SetParamValues(userID('z'))
	if err := accounts.GetAccount(c); err != nil {
		t.Fatalf("GetAccount: %v", err)
	}
	if rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestGetAccount_BadID(t *testing.T) {
	e := newEchoWithValidator()
	accounts, _, _, _ := newHandlers(memstore.New())

	rec, c := doJSON(e, stdhttp.MethodGet, "/accounts/xyz", "", nil)
	c.SetParamNames("user_id")
	c.SetParamValues("xyz")
	if err := accounts.GetAccount(c); err != nil {
		t.Fatalf("GetAccount: %v", err)
	}
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestListTransactionsAndReconcile(t *testing.T) {
	e := newEchoWithValidator()
	store := memstore.New()
	store.SeedAccount(userID('a'), 75)
	accounts, _, _, _ := newHandlers(store)

	rec, c := doJSON(e, stdhttp.MethodGet, "/accounts/"+userID('a')+"/transactions", "", nil)
	c.SetParamNames("user_id")
	c.SetParamValues(userID('a'))
	if err := accounts.ListTransactions(c); err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		Transactions []accountUC.TransactionDTO `json:"transactions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if len(body.Transactions) != 1 {
		t.Fatalf("transactions = %+v", body.Transactions)
	}

	rec, c = doJSON(e, stdhttp.MethodGet, "/accounts/"+userID('a')+"/reconcile", "", nil)
	c.SetParamNames("user_id")
	c.SetParamValues(userID('a'))
	if err := accounts.Reconcile(c); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	var rep accountUC.ReconcileReport
	if err := json.Unmarshal(rec.Body.Bytes(), &rep); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if !rep.Consistent {
		t.Fatalf("expected consistent ledger: %+v", rep)
	}
}
