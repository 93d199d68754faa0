package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"financas/internal/core"
)

// Request DTOs decode the raw JSON body; amounts arrive as decimal strings
// ("1234.56" or "1234,56") and are parsed to cents before anything touches
// the domain.

const maxBodyBytes = 1 << 20

var (
	errBadBody = errors.New("invalid request body")

	// errValidation marks request-shaping failures that are the client's
	// fault but carry no core sentinel (bad dates, overlong fields).
	errValidation = errors.New("invalid request")
)

func invalidRequest(err error) error {
	return fmt.Errorf("%w: %w", errValidation, err)
}

func decodeBody(r *http.Request, v any) error {
	body := io.LimitReader(r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errBadBody
	}
	return nil
}

type transactionRequest struct {
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	Date        string `json:"date"`
}

func (req transactionRequest) toDomain(id string) (core.Transaction, error) {
	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		return core.Transaction{}, err
	}
	date, err := core.ParseDate(req.Date)
	if err != nil {
		return core.Transaction{}, invalidRequest(err)
	}
	t := core.Transaction{
		ID:          id,
		Description: strings.TrimSpace(req.Description),
		Amount:      core.Money{Cents: cents},
		Type:        core.TransactionType(req.Type),
		Category:    strings.TrimSpace(req.Category),
		Date:        date,
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, invalidRequest(err)
	}
	return t, nil
}

type categoryRequest struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

func (req categoryRequest) toDomain(id string) (core.Category, error) {
	c := core.Category{
		ID:    id,
		Name:  strings.TrimSpace(req.Name),
		Type:  core.TransactionType(req.Type),
		Color: strings.TrimSpace(req.Color),
		Icon:  strings.TrimSpace(req.Icon),
	}
	if c.Color == "" {
		c.Color = core.CategoryColor(c.Name)
	}
	if err := c.Validate(); err != nil {
		return core.Category{}, invalidRequest(err)
	}
	return c, nil
}

type goalRequest struct {
	Name          string `json:"name"`
	CurrentAmount string `json:"current_amount"`
	TargetAmount  string `json:"target_amount"`
	Kind          string `json:"kind"`
	Color         string `json:"color"`
	Icon          string `json:"icon"`
	StartDate     string `json:"start_date"`
	Deadline      string `json:"deadline"`
	Description   string `json:"description"`
}

func (req goalRequest) toDomain(id string) (core.Goal, error) {
	target, err := core.ParseDecimalToCents(req.TargetAmount)
	if err != nil {
		return core.Goal{}, core.ErrInvalidTarget
	}

	current, err := parseStartingAmount(req.CurrentAmount)
	if err != nil {
		return core.Goal{}, err
	}

	startDate, err := core.ParseDate(req.StartDate)
	if err != nil {
		return core.Goal{}, invalidRequest(err)
	}

	var deadline core.Date
	if strings.TrimSpace(req.Deadline) != "" {
		deadline, err = core.ParseDate(req.Deadline)
		if err != nil {
			return core.Goal{}, invalidRequest(err)
		}
	}

	g := core.Goal{
		ID:            id,
		Name:          strings.TrimSpace(req.Name),
		CurrentAmount: core.Money{Cents: current},
		TargetAmount:  core.Money{Cents: target},
		Kind:          strings.TrimSpace(req.Kind),
		Color:         strings.TrimSpace(req.Color),
		Icon:          strings.TrimSpace(req.Icon),
		StartDate:     startDate,
		Deadline:      deadline,
		Description:   strings.TrimSpace(req.Description),
		Finalized:     current >= target,
	}
	if err := g.Validate(); err != nil {
		return core.Goal{}, invalidRequest(err)
	}
	return g, nil
}

// parseStartingAmount accepts what ParseDecimalToCents accepts, plus empty
// and explicit zero: a goal legitimately starts with nothing saved.
func parseStartingAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" || isZeroAmount(s) {
		return 0, nil
	}
	return core.ParseDecimalToCents(s)
}

func isZeroAmount(s string) bool {
	seenDigit := false
	for _, r := range s {
		switch r {
		case '0':
			seenDigit = true
		case '.', ',':
		default:
			return false
		}
	}
	return seenDigit
}

type contributionRequest struct {
	Amount string `json:"amount"`
}

// parseListFilter reads the transaction list query parameters. Unknown or
// malformed values fall back to "all" rather than erroring: the list screen
// should always render.
func parseListFilter(r *http.Request) core.Filter {
	q := r.URL.Query()
	f := core.Filter{Type: core.TypeAll, Period: core.PeriodAll}

	if tf := core.TypeFilter(q.Get("type")); tf.IsValid() {
		f.Type = tf
	}

	switch core.DatePeriod(q.Get("period")) {
	case core.PeriodYear:
		if y, err := strconv.Atoi(q.Get("year")); err == nil {
			f.Period = core.PeriodYear
			f.Year = y
		}
	case core.PeriodMonth:
		y, errY := strconv.Atoi(q.Get("year"))
		m, errM := strconv.Atoi(q.Get("month"))
		if errY == nil && errM == nil && m >= 1 && m <= 12 {
			f.Period = core.PeriodMonth
			f.Year = y
			f.Month = time.Month(m)
		}
	case core.PeriodDay:
		if d, err := core.ParseDate(q.Get("date")); err == nil {
			f.Period = core.PeriodDay
			f.Day = d
		}
	}

	return f
}

func parsePagination(r *http.Request, defaultSize int) (page, pageSize int) {
	q := r.URL.Query()

	page = 1
	if v, err := strconv.Atoi(q.Get("page")); err == nil && v >= 1 {
		page = v
	}

	pageSize = defaultSize
	if v, err := strconv.Atoi(q.Get("page_size")); err == nil && v >= 1 && v <= 100 {
		pageSize = v
	}
	return page, pageSize
}

func parseMonthsParam(r *http.Request, def int) int {
	if v, err := strconv.Atoi(r.URL.Query().Get("months")); err == nil && v >= 1 && v <= 36 {
		return v
	}
	return def
}
