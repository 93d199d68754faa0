package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"financas/internal/core"
)

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

// writeError maps domain sentinels to HTTP statuses. Unknown errors become a
// 500 with a generic body; the real cause goes to the log, not the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "Request failed",
			"method", r.Method, "url", r.URL.Path, "error", err)
		writeJSON(w, status, errorResponse{Error: "internal error"})
		return
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadBody):
		return http.StatusBadRequest
	case errors.Is(err, errValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrDuplicateCategory):
		return http.StatusConflict
	case errors.Is(err, core.ErrDefaultCategory):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrEmptyDescription),
		errors.Is(err, core.ErrEmptyCategory),
		errors.Is(err, core.ErrInvalidType),
		errors.Is(err, core.ErrEmptyName),
		errors.Is(err, core.ErrInvalidTarget):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Response bodies carry both the raw magnitude in cents and the formatted
// BRL string so the client never re-implements money formatting.

type moneyJSON struct {
	Cents     int64  `json:"cents"`
	Formatted string `json:"formatted"`
}

func toMoneyJSON(m core.Money) moneyJSON {
	return moneyJSON{Cents: m.Cents, Formatted: core.FormatBRL(m.Cents)}
}

type transactionJSON struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Amount      moneyJSON `json:"amount"`
	Type        string    `json:"type"`
	Category    string    `json:"category"`
	Date        string    `json:"date"`
}

func toTransactionJSON(t core.Transaction) transactionJSON {
	return transactionJSON{
		ID:          t.ID,
		Description: t.Description,
		Amount:      toMoneyJSON(t.Amount),
		Type:        string(t.Type),
		Category:    t.Category,
		Date:        t.Date.String(),
	}
}

type transactionPageJSON struct {
	Items    []transactionJSON `json:"items"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
	Total    int               `json:"total"`
}

type categoryJSON struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Color     string `json:"color"`
	Icon      string `json:"icon"`
	IsDefault bool   `json:"is_default"`
}

func toCategoryJSON(c core.Category) categoryJSON {
	return categoryJSON{
		ID:        c.ID,
		Name:      c.Name,
		Type:      string(c.Type),
		Color:     c.Color,
		Icon:      c.Icon,
		IsDefault: c.IsDefault,
	}
}

type goalJSON struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	CurrentAmount moneyJSON `json:"current_amount"`
	TargetAmount  moneyJSON `json:"target_amount"`
	Progress      float64   `json:"progress"`
	Kind          string    `json:"kind"`
	Color         string    `json:"color"`
	Icon          string    `json:"icon"`
	StartDate     string    `json:"start_date"`
	Deadline      string    `json:"deadline,omitempty"`
	Description   string    `json:"description,omitempty"`
	Finalized     bool      `json:"finalized"`
}

func toGoalJSON(g core.Goal) goalJSON {
	out := goalJSON{
		ID:            g.ID,
		Name:          g.Name,
		CurrentAmount: toMoneyJSON(g.CurrentAmount),
		TargetAmount:  toMoneyJSON(g.TargetAmount),
		Progress:      g.Progress(),
		Kind:          g.Kind,
		Color:         g.Color,
		Icon:          g.Icon,
		StartDate:     g.StartDate.String(),
		Description:   g.Description,
		Finalized:     g.Finalized,
	}
	if !g.Deadline.IsZero() {
		out.Deadline = g.Deadline.String()
	}
	return out
}

type reportJSON struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category,omitempty"`
	Severity    string    `json:"severity"`
	CreatedAt   time.Time `json:"created_at"`
	IsRead      bool      `json:"is_read"`
}

func toReportJSON(r core.ReportItem) reportJSON {
	return reportJSON{
		ID:          r.ID,
		Type:        string(r.Type),
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Severity:    r.Severity,
		CreatedAt:   r.CreatedAt,
		IsRead:      r.IsRead,
	}
}
