package core

import (
	"testing"
	"time"
)

func tx(id string, cents int64, tt TransactionType, category string, y, m, d int) Transaction {
	return Transaction{
		ID:          id,
		Description: id,
		Amount:      Money{Cents: cents},
		Type:        tt,
		Category:    category,
		Date:        NewDate(y, m, d),
	}
}

func TestWeeklyActivityWindowAndBuckets(t *testing.T) {
	now := time.Date(2025, 1, 31, 12, 0, 0, 0, time.UTC) // a Friday

	txs := []Transaction{
		tx("in-window-income", 10000, Income, "Salario", 2025, 1, 27),  // Monday
		tx("in-window-expense", 4000, Expense, "Mercado", 2025, 1, 29), // Wednesday
		tx("same-day", 500, Expense, "Transporte", 2025, 1, 31),        // Friday
		tx("window-start", 200, Income, "Extra", 2025, 1, 25),          // Saturday, 6 days back
		tx("too-old", 99999, Expense, "Mercado", 2025, 1, 24),
		tx("future", 99999, Income, "Salario", 2025, 2, 1),
	}

	days := WeeklyActivity(txs, now)

	if got := days[time.Monday].Income.Cents; got != 10000 {
		t.Fatalf("monday income = %d, want 10000", got)
	}
	if got := days[time.Wednesday].Expense.Cents; got != 4000 {
		t.Fatalf("wednesday expense = %d, want 4000", got)
	}
	if got := days[time.Friday].Expense.Cents; got != 500 {
		t.Fatalf("friday expense = %d, want 500", got)
	}
	if got := days[time.Saturday].Income.Cents; got != 200 {
		t.Fatalf("saturday income = %d, want 200", got)
	}

	// Conservation: bucket totals equal the sum of magnitudes inside the window.
	var sum int64
	for _, d := range days {
		sum += d.Income.Cents + d.Expense.Cents
	}
	if sum != 10000+4000+500+200 {
		t.Fatalf("window sum = %d, want %d", sum, 10000+4000+500+200)
	}
}

func TestWeeklyActivityEmpty(t *testing.T) {
	days := WeeklyActivity(nil, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC))
	for i, d := range days {
		if d.Income.Cents != 0 || d.Expense.Cents != 0 {
			t.Fatalf("bucket %d not zero: %+v", i, d)
		}
		if d.Weekday != time.Weekday(i) {
			t.Fatalf("bucket %d weekday = %v", i, d.Weekday)
		}
	}
}

func TestMonthlyActivityYearRollover(t *testing.T) {
	now := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	txs := []Transaction{
		tx("jan-income", 10000, Income, "Salario", 2025, 1, 5),
		tx("jan-expense", 4000, Expense, "Mercado", 2025, 1, 10),
		tx("dec-prev", 7000, Expense, "Presentes", 2024, 12, 20),
		// Same month index, wrong year: must not leak into the Dez bucket.
		tx("dec-old", 123456, Expense, "Presentes", 2023, 12, 20),
	}

	months := MonthlyActivity(txs, now, 6)
	if len(months) != 6 {
		t.Fatalf("expected 6 buckets, got %d", len(months))
	}

	last := months[5]
	if last.Month != "Jan" || last.Year != 2025 {
		t.Fatalf("last bucket = %s/%d, want Jan/2025", last.Month, last.Year)
	}
	if last.Income.Cents != 10000 || last.Expense.Cents != 4000 {
		t.Fatalf("Jan bucket = %+v", last)
	}

	dec := months[4]
	if dec.Month != "Dez" || dec.Year != 2024 {
		t.Fatalf("bucket 4 = %s/%d, want Dez/2024", dec.Month, dec.Year)
	}
	if dec.Expense.Cents != 7000 {
		t.Fatalf("Dez expense = %d, want 7000", dec.Expense.Cents)
	}

	// Months with no transactions stay present with zeros.
	for _, m := range months[:4] {
		if m.Income.Cents != 0 || m.Expense.Cents != 0 {
			t.Fatalf("expected zero bucket, got %+v", m)
		}
	}
}

func TestCategoryExpenses(t *testing.T) {
	now := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	txs := []Transaction{
		tx("a1", 6000, Expense, "Mercado", 2025, 3, 1),
		tx("a2", 2000, Expense, "Mercado", 2025, 3, 8),
		tx("b", 1500, Expense, "Transporte", 2025, 3, 2),
		tx("c", 500, Expense, "Lazer", 2025, 3, 3),
		tx("income-ignored", 9999, Income, "Salario", 2025, 3, 4),
		tx("other-month", 9999, Expense, "Mercado", 2025, 2, 4),
	}

	cats := CategoryExpenses(txs, now)
	if len(cats) != 3 {
		t.Fatalf("expected 3 categories, got %d", len(cats))
	}
	if cats[0].Name != "Mercado" || cats[0].Amount.Cents != 8000 {
		t.Fatalf("top category = %+v", cats[0])
	}
	if cats[0].Percentage != 80 {
		t.Fatalf("top percentage = %v, want 80", cats[0].Percentage)
	}

	var pct float64
	for _, c := range cats {
		pct += c.Percentage
		if c.Color == "" {
			t.Fatalf("category %s has no color", c.Name)
		}
	}
	if pct < 99.999 || pct > 100.001 {
		t.Fatalf("percentages sum to %v, want 100", pct)
	}
}

func TestCategoryExpensesTopSixTruncation(t *testing.T) {
	now := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	names := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	var txs []Transaction
	for i, n := range names {
		txs = append(txs, tx(n, int64(1000*(i+1)), Expense, n, 2025, 3, 5))
	}

	cats := CategoryExpenses(txs, now)
	if len(cats) != 6 {
		t.Fatalf("expected top-6 truncation, got %d", len(cats))
	}
	if cats[0].Name != "H" {
		t.Fatalf("largest category = %s, want H", cats[0].Name)
	}

	var pct float64
	for _, c := range cats {
		pct += c.Percentage
	}
	if pct > 100 {
		t.Fatalf("truncated percentages sum to %v, must be <= 100", pct)
	}
}

func TestCategoryExpensesEmpty(t *testing.T) {
	cats := CategoryExpenses(nil, time.Now())
	if len(cats) != 0 {
		t.Fatalf("expected empty slice, got %d entries", len(cats))
	}
}

func TestCategoryColorStable(t *testing.T) {
	if CategoryColor("Mercado") != CategoryColor("Mercado") {
		t.Fatal("color must be stable for the same name")
	}
}

func TestBalanceHistoryFixedLength(t *testing.T) {
	now := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	history := BalanceHistory(nil, now, 12)
	if len(history) != 12 {
		t.Fatalf("expected 12 entries, got %d", len(history))
	}
	for _, h := range history {
		if h.Balance.Cents != 0 {
			t.Fatalf("expected zero balance, got %+v", h)
		}
	}
	if history[0].Month != "Fev" || history[0].Year != 2024 {
		t.Fatalf("oldest bucket = %s/%d, want Fev/2024", history[0].Month, history[0].Year)
	}

	txs := []Transaction{
		tx("in", 10000, Income, "Salario", 2025, 1, 5),
		tx("out", 4000, Expense, "Mercado", 2025, 1, 10),
	}
	history = BalanceHistory(txs, now, 12)
	if got := history[11].Balance.Cents; got != 6000 {
		t.Fatalf("Jan balance = %d, want 6000", got)
	}
}

func TestOverallStatsWindowAsymmetry(t *testing.T) {
	now := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)

	txs := []Transaction{
		tx("jan-income", 10000, Income, "Salario", 2025, 1, 5),
		tx("jan-expense", 4000, Expense, "Mercado", 2025, 1, 10),
		tx("old-income", 50000, Income, "Salario", 2024, 6, 1),
		tx("old-expense", 20000, Expense, "Mercado", 2024, 6, 2),
	}

	s := OverallStats(txs, now)
	if s.TotalBalance.Cents != 36000 {
		t.Fatalf("total balance = %d, want 36000", s.TotalBalance.Cents)
	}
	if s.MonthlyIncome.Cents != 10000 {
		t.Fatalf("monthly income = %d, want 10000", s.MonthlyIncome.Cents)
	}
	if s.MonthlyExpenses.Cents != 4000 {
		t.Fatalf("monthly expenses = %d, want 4000", s.MonthlyExpenses.Cents)
	}
}

func TestAggregationIgnoresStoredSign(t *testing.T) {
	// Expenses stored with a negative sign must aggregate by magnitude.
	now := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	txs := []Transaction{
		tx("in", 10000, Income, "Salario", 2025, 1, 5),
		tx("signed-out", -4000, Expense, "Mercado", 2025, 1, 10),
	}
	s := OverallStats(txs, now)
	if s.TotalBalance.Cents != 6000 {
		t.Fatalf("total balance = %d, want 6000", s.TotalBalance.Cents)
	}
	if s.MonthlyExpenses.Cents != 4000 {
		t.Fatalf("monthly expenses = %d, want 4000", s.MonthlyExpenses.Cents)
	}
}
