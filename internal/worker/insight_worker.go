// Package worker rescans the ledger and persists generated insight reports.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"financas/internal/amqp"
	"financas/internal/insights"
	"financas/internal/ledger"
)

// InsightWorker regenerates alerts and tips from the current ledger state.
// It runs a full rescan on every trigger: rules are cheap, and idempotent
// report creates make duplicate scans harmless.
type InsightWorker struct {
	transactions ledger.TransactionRepository
	goals        ledger.GoalRepository
	reports      ledger.ReportRepository

	// now is swapped in tests to pin rule windows.
	now func() time.Time
}

func NewInsightWorker(txs ledger.TransactionRepository, goals ledger.GoalRepository, reports ledger.ReportRepository) *InsightWorker {
	return &InsightWorker{
		transactions: txs,
		goals:        goals,
		reports:      reports,
		now:          time.Now,
	}
}

// HandleLedgerEvent reacts to a transaction or goal mutation by rescanning.
// Errors bubble up so the AMQP consumer can nack and requeue.
func (w *InsightWorker) HandleLedgerEvent(ctx context.Context, msg *amqp.LedgerEventMessage) error {
	slog.InfoContext(ctx, "Processing ledger event",
		"entity", msg.Entity,
		"action", msg.Action,
		"entity_id", msg.EntityID)
	return w.Rescan(ctx)
}

// Rescan loads the full ledger, runs every insight rule and persists the
// results. Items generated by earlier scans keep their read state: creates
// are idempotent on the deterministic rule IDs.
func (w *InsightWorker) Rescan(ctx context.Context) error {
	txs, err := w.transactions.ListTransactions(ctx)
	if err != nil {
		return fmt.Errorf("list transactions: %w", err)
	}
	goals, err := w.goals.ListGoals(ctx)
	if err != nil {
		return fmt.Errorf("list goals: %w", err)
	}

	items := insights.Generate(txs, goals, w.now())

	created := 0
	for _, item := range items {
		if err := w.reports.CreateReport(ctx, item); err != nil {
			return fmt.Errorf("create report %s: %w", item.ID, err)
		}
		created++
	}

	slog.InfoContext(ctx, "Insight rescan completed",
		"transactions", len(txs),
		"goals", len(goals),
		"reports", created)
	return nil
}

// RunPeriodic rescans on the given interval until the context is canceled.
// It is the backup path for lost AMQP messages and time-based rules that
// fire without any mutation (deadlines approaching, month rollover).
func (w *InsightWorker) RunPeriodic(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.Rescan(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic rescan failed", "error", err)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
