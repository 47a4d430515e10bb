package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"fintrack/internal/core"
)

type transactionRequest struct {
	Title    string          `json:"title"`
	Category string          `json:"category"`
	Amount   json.RawMessage `json:"amount"`
	Date     string          `json:"date"`
}

type voiceExpenseRequest struct {
	Text string `json:"text"`
	Date string `json:"date"`
}

type budgetRequest struct {
	Category string          `json:"category"`
	Limit    json.RawMessage `json:"limit"`
	Month    int             `json:"month"`
	Year     int             `json:"year"`
}

type transactionResponse struct {
	ID       string `json:"id"`
	Kind     string `json:"kind"`
	Title    string `json:"title"`
	Category string `json:"category,omitempty"`
	Amount   string `json:"amount"`
	Date     string `json:"date"`
}

type budgetResponse struct {
	ID         string `json:"id"`
	Category   string `json:"category"`
	Limit      string `json:"limit"`
	Month      int    `json:"month"`
	Year       int    `json:"year"`
	AlertLevel string `json:"alertLevel"`
}

func toTransactionResponse(tx core.Transaction) transactionResponse {
	return transactionResponse{
		ID:       tx.ID,
		Kind:     string(tx.Kind),
		Title:    tx.Title,
		Category: tx.Category,
		Amount:   tx.Amount.String(),
		Date:     tx.Date.Format(time.RFC3339),
	}
}

func toBudgetResponse(b core.Budget) budgetResponse {
	return budgetResponse{
		ID:         b.ID,
		Category:   b.Category,
		Limit:      b.Limit.String(),
		Month:      b.Month,
		Year:       b.Year,
		AlertLevel: string(b.AlertLevel),
	}
}

func (s *Server) handleCreateIncome(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	amount, err := decodeAmount(req.Amount)
	if err != nil {
		writeError(w, statusForError(err), "invalid amount")
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.tracker.AddIncome(r.Context(), owner(r), sanitizeInput(req.Title), amount, date)
	if err != nil {
		slog.ErrorContext(r.Context(), "Create income failed", "error", err)
		writeError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionResponse(created))
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	amount, err := decodeAmount(req.Amount)
	if err != nil {
		writeError(w, statusForError(err), "invalid amount")
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.tracker.AddExpense(r.Context(), owner(r),
		sanitizeInput(req.Title), sanitizeInput(req.Category), amount, date)
	if err != nil {
		slog.ErrorContext(r.Context(), "Create expense failed", "error", err)
		writeError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionResponse(created))
}

func (s *Server) handleCreateVoiceExpense(w http.ResponseWriter, r *http.Request) {
	var req voiceExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.tracker.AddVoiceExpense(r.Context(), owner(r), req.Text, date)
	if err != nil {
		slog.WarnContext(r.Context(), "Voice expense failed", "error", err)
		writeError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionResponse(created))
}

func (s *Server) handleListIncomes(w http.ResponseWriter, r *http.Request) {
	s.listTransactions(w, r, core.Income)
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	s.listTransactions(w, r, core.Expense)
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request, kind core.TransactionKind) {
	month, year, err := parseYearMonth(r)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	items, err := s.tracker.ListTransactions(r.Context(), owner(r), kind, month, year)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}

	out := make([]transactionResponse, 0, len(items))
	for _, tx := range items {
		out = append(out, toTransactionResponse(tx))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteIncome(w http.ResponseWriter, r *http.Request) {
	s.deleteTransaction(w, r, core.Income)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	s.deleteTransaction(w, r, core.Expense)
}

func (s *Server) deleteTransaction(w http.ResponseWriter, r *http.Request, kind core.TransactionKind) {
	id := r.PathValue("id")
	if err := s.tracker.DeleteTransaction(r.Context(), owner(r), kind, id); err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	limit, err := decodeAmount(req.Limit)
	if err != nil {
		writeError(w, statusForError(err), "invalid limit")
		return
	}

	// Missing period defaults to the current month.
	now := time.Now()
	if req.Month == 0 {
		req.Month = int(now.Month())
	}
	if req.Year == 0 {
		req.Year = now.Year()
	}

	budget, err := s.tracker.SetBudget(r.Context(), owner(r),
		sanitizeInput(req.Category), req.Month, req.Year, limit)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toBudgetResponse(budget))
}

func (s *Server) handleBudgetStatus(w http.ResponseWriter, r *http.Request) {
	month, year, err := parseYearMonth(r)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	statuses, err := s.tracker.BudgetStatuses(r.Context(), owner(r), month, year)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, statuses)
}

func (s *Server) handleBudgetAlerts(w http.ResponseWriter, r *http.Request) {
	month, year, err := parseYearMonth(r)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	alerts, err := s.tracker.CheckAlerts(r.Context(), owner(r), month, year)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, alerts)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	month, year, err := parseYearMonth(r)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	summary, err := s.tracker.MonthlySummary(r.Context(), owner(r), month, year)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	month, year, err := parseYearMonth(r)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	result, err := s.tracker.Recommend(r.Context(), owner(r), month, year)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}
