package http

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// errorResponse is the JSON body for every non-2xx response.
type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// statusForError maps domain errors onto HTTP statuses: unknown ids are
// 404, bad periods are 400, everything the validator rejects is 422.
func statusForError(err error) int {
	switch {
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrInvalidPeriod):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrEmptyTitle),
		errors.Is(err, core.ErrEmptyCategory),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrZeroDate),
		errors.Is(err, core.ErrTitleTooLong),
		errors.Is(err, core.ErrMissingAmount):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// parseYearMonth extracts month and year from query parameters,
// defaulting to the current month. A present but non-numeric value is
// an invalid period; out-of-range months are left for the service to
// reject.
func parseYearMonth(r *http.Request) (month, year int, err error) {
	now := time.Now()
	month = int(now.Month())
	year = now.Year()

	if v := strings.TrimSpace(r.URL.Query().Get("month")); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, fmt.Errorf("month %q: %w", v, core.ErrInvalidPeriod)
		}
		month = m
	}
	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, fmt.Errorf("year %q: %w", v, core.ErrInvalidPeriod)
		}
		year = y
	}
	return month, year, nil
}

// parseDate parses an optional YYYY-MM-DD request field. Empty means
// "now"; the zero time tells the service to default.
func parseDate(dateStr string) (time.Time, error) {
	if strings.TrimSpace(dateStr) == "" {
		return time.Time{}, nil
	}
	parsed, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", dateStr)
	}
	return parsed.UTC(), nil
}

// decodeAmount accepts a JSON number or string amount without going
// through float64, so "10.05" stays exact.
func decodeAmount(raw json.RawMessage) (decimal.Decimal, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return decimal.Decimal{}, core.ErrInvalidAmount
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	return core.ParseAmount(s)
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}
