package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"budget/internal/core"
	"budget/internal/ledger"
)

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// createTransactionRequest accepts amount as either a JSON number or a
// quoted string, matching what older clients send.
type createTransactionRequest struct {
	Title    string          `json:"title"`
	Amount   json.RawMessage `json:"amount"`
	Category string          `json:"category"`
	Type     string          `json:"type"`
}

func (req *createTransactionRequest) amountText() string {
	raw := strings.TrimSpace(string(req.Amount))
	if raw == "" || raw == "null" {
		return ""
	}
	if unquoted, err := strconv.Unquote(raw); err == nil {
		return unquoted
	}
	return raw
}

type summaryResponse struct {
	core.Summary
	Warnings []core.DataIntegrityWarning `json:"warnings,omitempty"`
}

type categoryReportResponse struct {
	Categories map[string]float64          `json:"categories"`
	Warnings   []core.DataIntegrityWarning `json:"warnings,omitempty"`
}

type settingsResponse struct {
	Theme    string `json:"theme"`
	Currency string `json:"currency"`
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := s.service.List(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"transactions": transactions})
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body", "")
		return
	}

	created, err := s.service.Add(r.Context(), core.AddInput{
		Title:    req.Title,
		Amount:   req.amountText(),
		Category: req.Category,
		Type:     req.Type,
	})
	if err != nil {
		var verr *core.ValidationError
		if errors.As(err, &verr) {
			writeJSONError(w, http.StatusUnprocessableEntity, verr.Reason, verr.Field)
			return
		}
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"transaction": created})
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.service.Remove(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	// Removal is idempotent, an unknown id still returns 204.
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, warnings, err := s.service.Summarize(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaryResponse{Summary: summary, Warnings: warnings})
}

func (s *Server) handleCategoryReport(w http.ResponseWriter, r *http.Request) {
	categories, warnings, err := s.service.CategoryBreakdown(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, categoryReportResponse{Categories: categories, Warnings: warnings})
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	theme, err := s.settings.Setting(r.Context(), ledger.SettingTheme)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	currency, err := s.settings.Setting(r.Context(), ledger.SettingCurrency)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if theme == "" {
		theme = "light"
	}
	if currency == "" {
		currency = "USD"
	}
	writeJSON(w, http.StatusOK, settingsResponse{Theme: theme, Currency: currency})
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsResponse
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body", "")
		return
	}

	if req.Theme != "" {
		if req.Theme != "light" && req.Theme != "dark" {
			writeJSONError(w, http.StatusUnprocessableEntity, "theme must be light or dark", "theme")
			return
		}
		if err := s.settings.PutSetting(r.Context(), ledger.SettingTheme, req.Theme); err != nil {
			writeStoreError(w, err)
			return
		}
	}
	if req.Currency != "" {
		if !validCurrency(req.Currency) {
			writeJSONError(w, http.StatusUnprocessableEntity, "unsupported currency", "currency")
			return
		}
		if err := s.settings.PutSetting(r.Context(), ledger.SettingCurrency, req.Currency); err != nil {
			writeStoreError(w, err)
			return
		}
	}

	s.handleGetSettings(w, r)
}

func validCurrency(code string) bool {
	switch code {
	case "USD", "EUR", "GBP":
		return true
	}
	return false
}

func (s *Server) handleRates(w http.ResponseWriter, r *http.Request) {
	if s.rates == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "rates are not configured", "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 7*time.Second)
	defer cancel()

	latest, err := s.rates.Latest(ctx)
	if err != nil {
		writeJSONError(w, http.StatusBadGateway, "rates upstream unavailable", "")
		return
	}
	writeJSON(w, http.StatusOK, latest)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeJSONError writes a JSON error response.
func writeJSONError(w http.ResponseWriter, status int, message, field string) {
	writeJSON(w, status, ErrorResponse{Error: message, Field: field})
}

func writeStoreError(w http.ResponseWriter, err error) {
	var perr *ledger.PersistenceError
	if errors.As(err, &perr) {
		writeJSONError(w, http.StatusInternalServerError, perr.Error(), "")
		return
	}
	writeJSONError(w, http.StatusInternalServerError, "internal error", "")
}
