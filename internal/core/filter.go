package core

import (
	"sort"
	"time"
)

// Transaction list filtering and pagination. Date filters match exact
// calendar fields, not range containment.

const (
	TypeAll     TypeFilter = "all"
	TypeIncome  TypeFilter = "income"
	TypeExpense TypeFilter = "expense"

	PeriodAll   DatePeriod = "all"
	PeriodYear  DatePeriod = "year"
	PeriodMonth DatePeriod = "month"
	PeriodDay   DatePeriod = "day"
)

type (
	TypeFilter string
	DatePeriod string

	Filter struct {
		Type   TypeFilter
		Period DatePeriod
		Year   int        // PeriodYear, PeriodMonth
		Month  time.Month // PeriodMonth
		Day    Date       // PeriodDay
	}
)

func (tf TypeFilter) IsValid() bool {
	return tf == TypeAll || tf == TypeIncome || tf == TypeExpense
}

func (dp DatePeriod) IsValid() bool {
	return dp == PeriodAll || dp == PeriodYear || dp == PeriodMonth || dp == PeriodDay
}

// Match reports whether the transaction satisfies both the type and the date
// predicate. A zero Filter matches everything.
func (f Filter) Match(t Transaction) bool {
	switch f.Type {
	case TypeIncome:
		if t.Type != Income {
			return false
		}
	case TypeExpense:
		if t.Type != Expense {
			return false
		}
	}

	switch f.Period {
	case PeriodYear:
		return t.Date.Year() == f.Year
	case PeriodMonth:
		return t.Date.SameMonth(f.Year, f.Month)
	case PeriodDay:
		return t.Date.Year() == f.Day.Year() &&
			t.Date.Month() == f.Day.Month() &&
			t.Date.Day() == f.Day.Day()
	}
	return true
}

// FilterTransactions returns the subset matching f, preserving input order.
func FilterTransactions(txs []Transaction, f Filter) []Transaction {
	out := make([]Transaction, 0, len(txs))
	for _, t := range txs {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// SortByDateDesc orders newest first, with ID as a tiebreaker so pagination
// is stable across calls.
func SortByDateDesc(txs []Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		if !txs[i].Date.Equal(txs[j].Date.Time) {
			return txs[i].Date.After(txs[j].Date.Time)
		}
		return txs[i].ID > txs[j].ID
	})
}

// Paginate returns the 1-indexed page of the given size. Out-of-range pages
// yield an empty slice, not an error.
func Paginate[T any](items []T, page, pageSize int) []T {
	if page < 1 || pageSize < 1 {
		return []T{}
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
