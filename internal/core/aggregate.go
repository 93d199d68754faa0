package core

import (
	"hash/fnv"
	"sort"
	"time"
)

// Display aggregates derived from the raw transaction list. Every function
// here is pure: same transactions plus same reference time always produce the
// same output, and malformed-but-well-typed input degrades to zero values
// instead of failing. A dashboard rendering zeros beats a dashboard that
// crashes.
type (
	DayActivity struct {
		Weekday time.Weekday
		Income  Money
		Expense Money
	}

	MonthActivity struct {
		Month   string
		Year    int
		Income  Money
		Expense Money
	}

	CategoryExpense struct {
		Name       string
		Amount     Money
		Percentage float64
		Color      string
	}

	MonthBalance struct {
		Month   string
		Year    int
		Balance Money
	}

	Stats struct {
		TotalBalance    Money
		MonthlyIncome   Money
		MonthlyExpenses Money
	}
)

// monthAbbr are pt-BR three-letter month labels, indexed by time.Month-1.
var monthAbbr = [12]string{"Jan", "Fev", "Mar", "Abr", "Mai", "Jun", "Jul", "Ago", "Set", "Out", "Nov", "Dez"}

// chartPalette is the fixed cycle of chart colors. A category's color comes
// from a hash of its name, so it survives re-sorts and re-renders.
var chartPalette = [8]string{
	"#4F8EF7", "#F76E64", "#47C272", "#F7B32B",
	"#9B6EF7", "#2BC5C9", "#F764B0", "#8D99AE",
}

// CategoryColor picks a stable palette color for a category name.
func CategoryColor(name string) string {
	h := fnv.New32a()
	h.Write([]byte(name))
	return chartPalette[h.Sum32()%uint32(len(chartPalette))]
}

// MonthLabel returns the pt-BR abbreviation for a month.
func MonthLabel(m time.Month) string {
	return monthAbbr[int(m)-1]
}

// abs guards against callers that stored signed amounts; aggregation keys on
// Type, never on the stored sign.
func abs(c int64) int64 {
	if c < 0 {
		return -c
	}
	return c
}

// WeeklyActivity buckets the rolling 7-day window ending at now into
// day-of-week slots (Sun=0 .. Sat=6). Each bucket sums income and expense
// magnitudes separately.
func WeeklyActivity(txs []Transaction, now time.Time) [7]DayActivity {
	var days [7]DayActivity
	for i := range days {
		days[i].Weekday = time.Weekday(i)
	}

	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -6)
	end := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())

	for _, t := range txs {
		d := t.Date.Time
		if d.Before(start) || d.After(end) {
			continue
		}
		slot := &days[int(d.Weekday())]
		switch t.Type {
		case Income:
			slot.Income.Cents += abs(t.Amount.Cents)
		case Expense:
			slot.Expense.Cents += abs(t.Amount.Cents)
		}
	}
	return days
}

// MonthlyActivity sums income and expense per calendar month over the
// trailing windowMonths months, current month included. Buckets are
// fixed-length: months without transactions stay at zero.
func MonthlyActivity(txs []Transaction, now time.Time, windowMonths int) []MonthActivity {
	if windowMonths <= 0 {
		return nil
	}
	out := make([]MonthActivity, 0, windowMonths)
	anchor := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	for i := windowMonths - 1; i >= 0; i-- {
		m := anchor.AddDate(0, -i, 0)
		bucket := MonthActivity{Month: MonthLabel(m.Month()), Year: m.Year()}
		for _, t := range txs {
			if !t.Date.SameMonth(m.Year(), m.Month()) {
				continue
			}
			switch t.Type {
			case Income:
				bucket.Income.Cents += abs(t.Amount.Cents)
			case Expense:
				bucket.Expense.Cents += abs(t.Amount.Cents)
			}
		}
		out = append(out, bucket)
	}
	return out
}

// CategoryExpenses breaks the current calendar month's expenses down by
// category: absolute sums, share of the monthly expense total, descending by
// amount, truncated to the top 6. A zero monthly total yields zero
// percentages, never NaN.
func CategoryExpenses(txs []Transaction, now time.Time) []CategoryExpense {
	sums := make(map[string]int64)
	var total int64
	for _, t := range txs {
		if t.Type != Expense || !t.Date.SameMonth(now.Year(), now.Month()) {
			continue
		}
		amount := abs(t.Amount.Cents)
		sums[t.Category] += amount
		total += amount
	}
	if len(sums) == 0 {
		return []CategoryExpense{}
	}

	out := make([]CategoryExpense, 0, len(sums))
	for name, cents := range sums {
		pct := 0.0
		if total > 0 {
			pct = float64(cents) / float64(total) * 100
		}
		out = append(out, CategoryExpense{
			Name:       name,
			Amount:     Money{Cents: cents},
			Percentage: pct,
			Color:      CategoryColor(name),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount.Cents != out[j].Amount.Cents {
			return out[i].Amount.Cents > out[j].Amount.Cents
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > 6 {
		out = out[:6]
	}
	return out
}

// BalanceHistory computes the per-month net (income minus expense) for the
// trailing windowMonths months, current month included. Each entry is an
// independent monthly net, not a running balance, and the window is always
// exactly windowMonths entries long.
func BalanceHistory(txs []Transaction, now time.Time, windowMonths int) []MonthBalance {
	activity := MonthlyActivity(txs, now, windowMonths)
	out := make([]MonthBalance, len(activity))
	for i, a := range activity {
		out[i] = MonthBalance{
			Month:   a.Month,
			Year:    a.Year,
			Balance: Money{Cents: a.Income.Cents - a.Expense.Cents},
		}
	}
	return out
}

// OverallStats mixes two windows on purpose: TotalBalance spans the whole
// transaction history while MonthlyIncome and MonthlyExpenses cover only the
// current calendar month.
func OverallStats(txs []Transaction, now time.Time) Stats {
	var s Stats
	for _, t := range txs {
		amount := abs(t.Amount.Cents)
		current := t.Date.SameMonth(now.Year(), now.Month())
		switch t.Type {
		case Income:
			s.TotalBalance.Cents += amount
			if current {
				s.MonthlyIncome.Cents += amount
			}
		case Expense:
			s.TotalBalance.Cents -= amount
			if current {
				s.MonthlyExpenses.Cents += amount
			}
		}
	}
	return s
}
