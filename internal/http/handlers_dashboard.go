package http

import (
	"fmt"
	"net/http"
	"time"

	"financas/internal/core"
)

// Dashboard endpoints recompute aggregations from the full transaction list
// and memoize the result until the next mutation. Cache keys include the
// reference day so a cached value never leaks across a date rollover.

func (s *Server) dayKey(now time.Time) string {
	return now.Format("2006-01-02")
}

type statsJSON struct {
	TotalBalance    moneyJSON `json:"total_balance"`
	MonthlyIncome   moneyJSON `json:"monthly_income"`
	MonthlyExpenses moneyJSON `json:"monthly_expenses"`
}

func (s *Server) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	key := s.dayKey(now)

	stats, ok := s.statsCache.Get(key)
	if !ok {
		txs, err := s.transactions.List(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		stats = core.OverallStats(txs, now)
		s.statsCache.Set(key, stats)
	}

	writeJSON(w, http.StatusOK, statsJSON{
		TotalBalance:    toMoneyJSON(stats.TotalBalance),
		MonthlyIncome:   toMoneyJSON(stats.MonthlyIncome),
		MonthlyExpenses: toMoneyJSON(stats.MonthlyExpenses),
	})
}

type dayActivityJSON struct {
	Weekday string    `json:"weekday"`
	Income  moneyJSON `json:"income"`
	Expense moneyJSON `json:"expense"`
}

func (s *Server) handleDashboardWeekly(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	key := s.dayKey(now)

	days, ok := s.weeklyCache.Get(key)
	if !ok {
		txs, err := s.transactions.List(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		days = core.WeeklyActivity(txs, now)
		s.weeklyCache.Set(key, days)
	}

	out := make([]dayActivityJSON, 0, len(days))
	for _, d := range days {
		out = append(out, dayActivityJSON{
			Weekday: d.Weekday.String()[:3],
			Income:  toMoneyJSON(d.Income),
			Expense: toMoneyJSON(d.Expense),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type monthActivityJSON struct {
	Month   string    `json:"month"`
	Year    int       `json:"year"`
	Income  moneyJSON `json:"income"`
	Expense moneyJSON `json:"expense"`
}

func (s *Server) handleDashboardMonthly(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	months := parseMonthsParam(r, 6)
	key := fmt.Sprintf("%s:%d", s.dayKey(now), months)

	activity, ok := s.monthlyCache.Get(key)
	if !ok {
		txs, err := s.transactions.List(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		activity = core.MonthlyActivity(txs, now, months)
		s.monthlyCache.Set(key, activity)
	}

	out := make([]monthActivityJSON, 0, len(activity))
	for _, m := range activity {
		out = append(out, monthActivityJSON{
			Month:   m.Month,
			Year:    m.Year,
			Income:  toMoneyJSON(m.Income),
			Expense: toMoneyJSON(m.Expense),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type categoryExpenseJSON struct {
	Name       string    `json:"name"`
	Amount     moneyJSON `json:"amount"`
	Percentage float64   `json:"percentage"`
	Color      string    `json:"color"`
}

func (s *Server) handleDashboardCategories(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	key := s.dayKey(now)

	cats, ok := s.categoryCache.Get(key)
	if !ok {
		txs, err := s.transactions.List(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		cats = core.CategoryExpenses(txs, now)
		s.categoryCache.Set(key, cats)
	}

	out := make([]categoryExpenseJSON, 0, len(cats))
	for _, c := range cats {
		out = append(out, categoryExpenseJSON{
			Name:       c.Name,
			Amount:     toMoneyJSON(c.Amount),
			Percentage: c.Percentage,
			Color:      c.Color,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type monthBalanceJSON struct {
	Month   string    `json:"month"`
	Year    int       `json:"year"`
	Balance moneyJSON `json:"balance"`
}

func (s *Server) handleDashboardBalanceHistory(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	months := parseMonthsParam(r, 12)
	key := fmt.Sprintf("%s:%d", s.dayKey(now), months)

	history, ok := s.balanceCache.Get(key)
	if !ok {
		txs, err := s.transactions.List(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		history = core.BalanceHistory(txs, now, months)
		s.balanceCache.Set(key, history)
	}

	out := make([]monthBalanceJSON, 0, len(history))
	for _, h := range history {
		out = append(out, monthBalanceJSON{
			Month:   h.Month,
			Year:    h.Year,
			Balance: toMoneyJSON(h.Balance),
		})
	}
	writeJSON(w, http.StatusOK, out)
}
