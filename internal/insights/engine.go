// Package insights derives the alerts and tips shown on the reports screen.
// Rules are pure functions over the current ledger; every generated item has
// a deterministic ID so re-running a scan never duplicates reports.
package insights

import (
	"fmt"
	"time"

	"financas/internal/core"
)

const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityLow    = "low"

	// Month-over-month expense growth that triggers the spending alert.
	spikeThreshold = 1.2
	// Share of the monthly total above which a single category is flagged.
	dominantShare = 40.0
	// Days before a deadline at which a lagging goal is flagged.
	deadlineWarningDays = 30
	// Progress below which a near-deadline goal counts as lagging.
	laggingProgress = 80.0
)

// Generate runs every rule against the ledger snapshot. The result is
// complete for the given reference time; callers persist with idempotent
// creates and keep earlier items untouched.
func Generate(txs []core.Transaction, goals []core.Goal, now time.Time) []core.ReportItem {
	var items []core.ReportItem
	items = append(items, spendingRules(txs, now)...)
	items = append(items, goalRules(goals, now)...)
	return items
}

func spendingRules(txs []core.Transaction, now time.Time) []core.ReportItem {
	var items []core.ReportItem

	stats := core.OverallStats(txs, now)
	monthTag := now.Format("200601")

	prev := now.AddDate(0, -1, 0)
	prevStats := core.OverallStats(txs, time.Date(prev.Year(), prev.Month(), 15, 0, 0, 0, 0, time.UTC))

	if prevStats.MonthlyExpenses.Cents > 0 &&
		float64(stats.MonthlyExpenses.Cents) > float64(prevStats.MonthlyExpenses.Cents)*spikeThreshold {
		items = append(items, core.ReportItem{
			ID:    "spike-" + monthTag,
			Type:  core.Alert,
			Title: "Gastos acima do mês anterior",
			Description: fmt.Sprintf("Você já gastou %s este mês, contra %s no mês passado.",
				core.FormatBRL(stats.MonthlyExpenses.Cents), core.FormatBRL(prevStats.MonthlyExpenses.Cents)),
			Severity:  SeverityHigh,
			CreatedAt: now,
		})
	}

	if cats := core.CategoryExpenses(txs, now); len(cats) > 0 && cats[0].Percentage >= dominantShare {
		items = append(items, core.ReportItem{
			ID:    "dominant-" + monthTag,
			Type:  core.Alert,
			Title: "Uma categoria concentra seus gastos",
			Description: fmt.Sprintf("%s representa %.0f%% das despesas do mês (%s).",
				cats[0].Name, cats[0].Percentage, core.FormatBRL(cats[0].Amount.Cents)),
			Category:  cats[0].Name,
			Severity:  SeverityMedium,
			CreatedAt: now,
		})
	}

	if stats.MonthlyExpenses.Cents > stats.MonthlyIncome.Cents && stats.MonthlyExpenses.Cents > 0 {
		items = append(items, core.ReportItem{
			ID:    "negative-" + monthTag,
			Type:  core.Alert,
			Title: "Despesas maiores que a renda do mês",
			Description: fmt.Sprintf("Saldo do mês em %s.",
				core.FormatBRL(stats.MonthlyIncome.Cents-stats.MonthlyExpenses.Cents)),
			Severity:  SeverityHigh,
			CreatedAt: now,
		})
	}

	if surplus := stats.MonthlyIncome.Cents - stats.MonthlyExpenses.Cents; surplus > 0 {
		items = append(items, core.ReportItem{
			ID:    "surplus-" + monthTag,
			Type:  core.Tip,
			Title: "Sobrou dinheiro este mês",
			Description: fmt.Sprintf("Que tal guardar %s em uma das suas metas?",
				core.FormatBRL(surplus/10)),
			Severity:  SeverityLow,
			CreatedAt: now,
		})
	}

	return items
}

func goalRules(goals []core.Goal, now time.Time) []core.ReportItem {
	var items []core.ReportItem

	for _, g := range goals {
		if g.Finalized {
			items = append(items, core.ReportItem{
				ID:          "goal-done-" + g.ID,
				Type:        core.Tip,
				Title:       "Meta concluída: " + g.Name,
				Description: fmt.Sprintf("Você alcançou %s. Hora de definir a próxima meta!", core.FormatBRL(g.TargetAmount.Cents)),
				Severity:    SeverityLow,
				CreatedAt:   now,
			})
			continue
		}

		if g.Deadline.IsZero() {
			continue
		}
		remaining := g.Deadline.Sub(now)
		if remaining > 0 && remaining <= deadlineWarningDays*24*time.Hour && g.Progress() < laggingProgress {
			items = append(items, core.ReportItem{
				ID:   "goal-deadline-" + g.ID,
				Type: core.Alert,
				Title: fmt.Sprintf("Meta %s vence em %d dias",
					g.Name, int(remaining.Hours()/24)),
				Description: fmt.Sprintf("Faltam %s para o objetivo de %s.",
					core.FormatBRL(g.TargetAmount.Cents-g.CurrentAmount.Cents), core.FormatBRL(g.TargetAmount.Cents)),
				Severity:  SeverityMedium,
				CreatedAt: now,
			})
		}
	}

	return items
}
