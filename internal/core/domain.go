package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"

	Alert ReportType = "alert"
	Tip   ReportType = "tip"
)

type (
	TransactionType string
	ReportType      string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Transaction is a single dated income or expense record. Amount always
	// holds the unsigned magnitude; the sign is derived from Type at render
	// time, never stored.
	Transaction struct {
		ID          string
		Description string
		Amount      Money
		Type        TransactionType
		Category    string
		Date        Date
	}

	// Category is a user- or system-defined label used to group transactions.
	// Default categories are seeded at startup and cannot be deleted.
	Category struct {
		ID        string
		Name      string
		Type      TransactionType
		Color     string
		Icon      string
		IsDefault bool
	}

	// Goal is a savings target. Finalized flips to true exactly when
	// CurrentAmount reaches TargetAmount and never flips back.
	Goal struct {
		ID            string
		Name          string
		CurrentAmount Money
		TargetAmount  Money
		Kind          string
		Color         string
		Icon          string
		StartDate     Date
		Deadline      Date // zero when the goal has no deadline
		Description   string
		Finalized     bool
	}

	// ReportItem is a generated alert or tip about the user's finances.
	// IsRead is monotonic: once read, an item never becomes unread.
	ReportItem struct {
		ID          string
		Type        ReportType
		Title       string
		Description string
		Category    string
		Severity    string
		CreatedAt   time.Time
		IsRead      bool
	}
)

var (
	ErrNotFound = errors.New("not found")

	ErrInvalidAmount     = errors.New("invalid amount")
	ErrEmptyDescription  = errors.New("empty description")
	ErrEmptyCategory     = errors.New("empty category")
	ErrInvalidType       = errors.New("invalid transaction type")
	ErrEmptyName         = errors.New("empty name")
	ErrInvalidTarget     = errors.New("invalid target amount")
	ErrDuplicateCategory = errors.New("category name already in use for this type")
	ErrDefaultCategory   = errors.New("default categories cannot be deleted")
)

func (tt TransactionType) IsValid() bool {
	return tt == Income || tt == Expense
}

// NewDate creates a Date at day granularity in UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate accepts the formats the client sends: a plain calendar date or a
// full RFC 3339 timestamp. Either way the result is truncated to the day.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return Date{Time: t}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, errors.New("invalid date: " + s)
	}
	return NewDate(t.Year(), int(t.Month()), t.Day()), nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}

// SameMonth reports whether the date falls in the given month AND year.
// Matching the month index alone double-counts across year rollovers.
func (d Date) SameMonth(year int, month time.Month) bool {
	return d.Year() == year && d.Month() == month
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if !t.Type.IsValid() {
		return ErrInvalidType
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

func (c Category) Validate() error {
	if len(strings.TrimSpace(c.Name)) == 0 {
		return ErrEmptyName
	}
	if len(c.Name) > 60 {
		return errors.New("name too long (max 60 characters)")
	}
	if !c.Type.IsValid() {
		return ErrInvalidType
	}
	return nil
}

func (g Goal) Validate() error {
	if len(strings.TrimSpace(g.Name)) == 0 {
		return ErrEmptyName
	}
	if g.TargetAmount.Cents <= 0 {
		return ErrInvalidTarget
	}
	if g.CurrentAmount.Cents < 0 {
		return ErrInvalidAmount
	}
	if err := g.StartDate.Validate(); err != nil {
		return errors.New("invalid start date: " + err.Error())
	}
	if !g.Deadline.IsZero() && g.Deadline.Before(g.StartDate.Time) {
		return errors.New("deadline must be after start date")
	}
	return nil
}
