package worker

import (
	"context"
	"testing"
	"time"

	"financas/internal/amqp"
	"financas/internal/core"
	"financas/internal/ledger/memory"
)

func TestRescanPersistsGeneratedReports(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	if _, err := store.CreateGoal(ctx, core.Goal{
		Name:          "Reserva",
		CurrentAmount: core.Money{Cents: 1000000},
		TargetAmount:  core.Money{Cents: 1000000},
		StartDate:     core.NewDate(2025, 1, 1),
		Finalized:     true,
	}); err != nil {
		t.Fatal(err)
	}

	w := NewInsightWorker(store, store, store)
	w.now = func() time.Time { return time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC) }

	if err := w.Rescan(ctx); err != nil {
		t.Fatalf("rescan: %v", err)
	}

	items, err := store.ListReports(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d reports, want 1", len(items))
	}
	if items[0].Type != core.Tip {
		t.Fatalf("report type = %q", items[0].Type)
	}
}

func TestRescanIsIdempotentAndKeepsReadState(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	goal, err := store.CreateGoal(ctx, core.Goal{
		Name:          "Reserva",
		CurrentAmount: core.Money{Cents: 500000},
		TargetAmount:  core.Money{Cents: 500000},
		StartDate:     core.NewDate(2025, 1, 1),
		Finalized:     true,
	})
	if err != nil {
		t.Fatal(err)
	}

	w := NewInsightWorker(store, store, store)
	w.now = func() time.Time { return time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC) }

	if err := w.Rescan(ctx); err != nil {
		t.Fatal(err)
	}
	if err := store.MarkReportRead(ctx, "goal-done-"+goal.ID); err != nil {
		t.Fatal(err)
	}

	// Second scan re-emits the same deterministic item.
	if err := w.Rescan(ctx); err != nil {
		t.Fatal(err)
	}

	items, _ := store.ListReports(ctx)
	if len(items) != 1 {
		t.Fatalf("got %d reports after rescan, want 1", len(items))
	}
	if !items[0].IsRead {
		t.Fatal("rescan must not reset the read flag")
	}
}

func TestHandleLedgerEventTriggersRescan(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	if _, err := store.CreateGoal(ctx, core.Goal{
		Name:          "Viagem",
		CurrentAmount: core.Money{Cents: 300000},
		TargetAmount:  core.Money{Cents: 300000},
		StartDate:     core.NewDate(2025, 1, 1),
		Finalized:     true,
	}); err != nil {
		t.Fatal(err)
	}

	w := NewInsightWorker(store, store, store)
	w.now = func() time.Time { return time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC) }

	msg := amqp.NewLedgerEventMessage(amqp.EntityGoal, amqp.ActionUpdated, "some-id")
	if err := w.HandleLedgerEvent(ctx, msg); err != nil {
		t.Fatalf("handle event: %v", err)
	}

	items, _ := store.ListReports(ctx)
	if len(items) == 0 {
		t.Fatal("event must trigger a rescan that persists reports")
	}
}
