package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"budget/internal/core"
	"budget/internal/ledger/memory"
	"budget/internal/rates"
	"budget/internal/services"
)

func newTestServer(t *testing.T, ratesClient *rates.Client) *Server {
	t.Helper()
	store := memory.New()
	service := services.NewTransactionService(store, nil)
	srv := NewServer(":0", service, store, ratesClient)
	t.Cleanup(func() { srv.rateLimiter.Stop() })
	return srv
}

func doRequest(srv *Server, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t, nil)
	for _, path := range []string{"/healthz", "/readyz"} {
		rec := doRequest(srv, http.MethodGet, path, "")
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, rec.Code)
		}
	}
}

func TestCreateAndListTransactions(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := doRequest(srv, http.MethodPost, "/api/transactions",
		`{"title":"Salary","amount":1000,"category":"Work","type":"income"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST status = %d, body %s", rec.Code, rec.Body.String())
	}

	var created struct {
		Transaction core.Transaction `json:"transaction"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if created.Transaction.ID == "" {
		t.Error("created transaction has no id")
	}
	if created.Transaction.Title != "Salary" {
		t.Errorf("title = %q, want Salary", created.Transaction.Title)
	}

	// Amount sent as a quoted string must also be accepted.
	rec = doRequest(srv, http.MethodPost, "/api/transactions",
		`{"title":"Groceries","amount":"42.50","category":"Food","type":"EXPENSE"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST string amount status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(srv, http.MethodGet, "/api/transactions", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET status = %d", rec.Code)
	}
	var listed struct {
		Transactions []core.Transaction `json:"transactions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if len(listed.Transactions) != 2 {
		t.Fatalf("len = %d, want 2", len(listed.Transactions))
	}
	// Latest addition leads the list.
	if listed.Transactions[0].Title != "Groceries" {
		t.Errorf("first title = %q, want Groceries", listed.Transactions[0].Title)
	}
	if listed.Transactions[0].Type != core.TypeExpense {
		t.Errorf("type = %q, want %q", listed.Transactions[0].Type, core.TypeExpense)
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	srv := newTestServer(t, nil)

	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{"missing title", `{"title":"  ","amount":5,"category":"Food","type":"expense"}`, "title"},
		{"bad amount", `{"title":"x","amount":"abc","category":"Food","type":"expense"}`, "amount"},
		{"missing category", `{"title":"x","amount":5,"category":"","type":"expense"}`, "category"},
		{"bad type", `{"title":"x","amount":5,"category":"Food","type":"transfer"}`, "type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(srv, http.MethodPost, "/api/transactions", tt.body)
			if rec.Code != http.StatusUnprocessableEntity {
				t.Fatalf("status = %d, want 422, body %s", rec.Code, rec.Body.String())
			}
			var resp ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode error response: %v", err)
			}
			if resp.Field != tt.wantField {
				t.Errorf("field = %q, want %q", resp.Field, tt.wantField)
			}
		})
	}

	rec := doRequest(srv, http.MethodPost, "/api/transactions", `not json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed body status = %d, want 400", rec.Code)
	}
}

func TestDeleteTransactionIdempotent(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := doRequest(srv, http.MethodPost, "/api/transactions",
		`{"title":"Coffee","amount":3,"category":"Food","type":"expense"}`)
	var created struct {
		Transaction core.Transaction `json:"transaction"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}

	for i := 0; i < 2; i++ {
		rec = doRequest(srv, http.MethodDelete, "/api/transactions/"+created.Transaction.ID, "")
		if rec.Code != http.StatusNoContent {
			t.Fatalf("DELETE attempt %d status = %d, want 204", i+1, rec.Code)
		}
	}

	rec = doRequest(srv, http.MethodDelete, "/api/transactions/no-such-id", "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("DELETE unknown id status = %d, want 204", rec.Code)
	}
}

func TestSummaryAndCategoryReport(t *testing.T) {
	store := memory.New()
	// Legacy records can carry an empty category; the API would reject one
	// today, but aggregation still has to group it under Uncategorized.
	if err := store.Replace(context.Background(), []core.Transaction{
		{ID: "t1", Title: "Salary", Amount: 1000, Category: "Work", Type: core.TypeIncome},
		{ID: "t2", Title: "Groceries", Amount: 200, Category: "Food", Type: core.TypeExpense},
		{ID: "t3", Title: "Misc", Amount: 50, Category: "", Type: core.TypeExpense},
	}); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	srv := NewServer(":0", services.NewTransactionService(store, nil), store, nil)
	t.Cleanup(func() { srv.rateLimiter.Stop() })

	rec := doRequest(srv, http.MethodGet, "/api/summary", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET summary status = %d", rec.Code)
	}
	var sum summaryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &sum); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if sum.Income != 1000 || sum.Expense != 250 || sum.Balance != 750 {
		t.Errorf("summary = %+v, want income 1000 expense 250 balance 750", sum.Summary)
	}
	if len(sum.History) != 3 {
		t.Errorf("history len = %d, want 3", len(sum.History))
	}

	rec = doRequest(srv, http.MethodGet, "/api/reports/categories", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET report status = %d", rec.Code)
	}
	var report categoryReportResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.Categories["Food"] != 200 {
		t.Errorf("Food = %v, want 200", report.Categories["Food"])
	}
	if report.Categories[core.Uncategorized] != 50 {
		t.Errorf("Uncategorized = %v, want 50", report.Categories[core.Uncategorized])
	}
}

func TestSettings(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := doRequest(srv, http.MethodGet, "/api/settings", "")
	var got settingsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode settings: %v", err)
	}
	if got.Theme != "light" || got.Currency != "USD" {
		t.Errorf("defaults = %+v, want light/USD", got)
	}

	rec = doRequest(srv, http.MethodPut, "/api/settings", `{"theme":"dark","currency":"EUR"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT settings status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(srv, http.MethodGet, "/api/settings", "")
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode settings: %v", err)
	}
	if got.Theme != "dark" || got.Currency != "EUR" {
		t.Errorf("settings = %+v, want dark/EUR", got)
	}

	rec = doRequest(srv, http.MethodPut, "/api/settings", `{"theme":"sepia"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("invalid theme status = %d, want 422", rec.Code)
	}
	rec = doRequest(srv, http.MethodPut, "/api/settings", `{"currency":"BTC"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("invalid currency status = %d, want 422", rec.Code)
	}
}

func TestRatesEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)
	rec := doRequest(srv, http.MethodGet, "/api/rates", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("no client status = %d, want 503", rec.Code)
	}

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"base":"USD","date":"2025-06-01","rates":{"EUR":0.9}}`))
	}))
	defer upstream.Close()

	srv = newTestServer(t, rates.NewClient(upstream.URL, time.Minute))
	rec = doRequest(srv, http.MethodGet, "/api/rates", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var got rates.Rates
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode rates: %v", err)
	}
	if got.Rates["EUR"] != 0.9 {
		t.Errorf("EUR = %v, want 0.9", got.Rates["EUR"])
	}
}
