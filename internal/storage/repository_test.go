package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"financas/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestTransactionRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	created, err := repo.CreateTransaction(ctx, core.Transaction{
		Description: "Mercado da semana",
		Amount:      core.Money{Cents: 23550},
		Type:        core.Expense,
		Category:    "Mercado",
		Date:        core.NewDate(2025, 3, 14),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("create must assign an ID")
	}

	got, err := repo.GetTransaction(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Description != created.Description || got.Amount.Cents != 23550 {
		t.Fatalf("got %+v", got)
	}
	if got.Date.String() != "2025-03-14" {
		t.Fatalf("date round trip = %s", got.Date)
	}

	got.Amount.Cents = 30000
	if err := repo.UpdateTransaction(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ = repo.GetTransaction(ctx, created.ID)
	if got.Amount.Cents != 30000 {
		t.Fatalf("update not persisted: %+v", got)
	}

	if err := repo.DeleteTransaction(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetTransaction(ctx, created.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("get after delete = %v", err)
	}
}

func TestTransactionMissingRowsSurfaceNotFound(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	err := repo.UpdateTransaction(ctx, core.Transaction{
		ID: "missing", Description: "x", Amount: core.Money{Cents: 100},
		Type: core.Expense, Category: "Mercado", Date: core.NewDate(2025, 1, 1),
	})
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("update missing = %v", err)
	}
	if err := repo.DeleteTransaction(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("delete missing = %v", err)
	}
}

func TestListTransactionsNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	for _, d := range []int{10, 20, 15} {
		if _, err := repo.CreateTransaction(ctx, core.Transaction{
			Description: "t", Amount: core.Money{Cents: 100},
			Type: core.Expense, Category: "Mercado", Date: core.NewDate(2025, 1, d),
		}); err != nil {
			t.Fatal(err)
		}
	}

	txs, err := repo.ListTransactions(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(txs) != 3 {
		t.Fatalf("got %d transactions", len(txs))
	}
	if txs[0].Date.Day() != 20 || txs[2].Date.Day() != 10 {
		t.Fatalf("order: %v %v %v", txs[0].Date, txs[1].Date, txs[2].Date)
	}
}

func TestSeededDefaultCategories(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	cats, err := repo.ListCategories(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(cats) != 8 {
		t.Fatalf("seeded %d categories, want 8", len(cats))
	}
	for _, c := range cats {
		if !c.IsDefault {
			t.Fatalf("seeded category %q must be default", c.Name)
		}
		if err := repo.DeleteCategory(ctx, c.ID); !errors.Is(err, core.ErrDefaultCategory) {
			t.Fatalf("delete default %q = %v", c.Name, err)
		}
	}
}

func TestCategoryUniquePerType(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	first, err := repo.CreateCategory(ctx, core.Category{Name: "Educação", Type: core.Expense})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := repo.CreateCategory(ctx, core.Category{Name: "Educação", Type: core.Expense}); !errors.Is(err, core.ErrDuplicateCategory) {
		t.Fatalf("duplicate = %v", err)
	}
	if _, err := repo.CreateCategory(ctx, core.Category{Name: "Educação", Type: core.Income}); err != nil {
		t.Fatalf("same name, other type = %v", err)
	}

	if err := repo.DeleteCategory(ctx, first.ID); err != nil {
		t.Fatalf("delete custom category: %v", err)
	}
}

func TestGoalFinalizedMonotonicInSQL(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	g, err := repo.CreateGoal(ctx, core.Goal{
		Name:          "Reserva",
		CurrentAmount: core.Money{Cents: 1000000},
		TargetAmount:  core.Money{Cents: 1000000},
		StartDate:     core.NewDate(2025, 1, 1),
	})
	if err != nil {
		t.Fatal(err)
	}
	if !g.Finalized {
		t.Fatal("goal at target must be created finalized")
	}

	// An update that claims the goal is open must not unset the flag.
	g.Finalized = false
	g.CurrentAmount.Cents = 500000
	if err := repo.UpdateGoal(ctx, g); err != nil {
		t.Fatal(err)
	}

	stored, err := repo.GetGoal(ctx, g.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !stored.Finalized {
		t.Fatal("finalized flag must stay set")
	}
}

func TestGoalDeadlineNullable(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	noDeadline, err := repo.CreateGoal(ctx, core.Goal{
		Name:          "Sem prazo",
		CurrentAmount: core.Money{Cents: 0},
		TargetAmount:  core.Money{Cents: 100000},
		StartDate:     core.NewDate(2025, 1, 1),
	})
	if err != nil {
		t.Fatal(err)
	}
	withDeadline, err := repo.CreateGoal(ctx, core.Goal{
		Name:          "Com prazo",
		CurrentAmount: core.Money{Cents: 0},
		TargetAmount:  core.Money{Cents: 100000},
		StartDate:     core.NewDate(2025, 1, 1),
		Deadline:      core.NewDate(2025, 12, 31),
	})
	if err != nil {
		t.Fatal(err)
	}

	a, _ := repo.GetGoal(ctx, noDeadline.ID)
	if !a.Deadline.IsZero() {
		t.Fatalf("deadline should stay zero, got %v", a.Deadline)
	}
	b, _ := repo.GetGoal(ctx, withDeadline.ID)
	if b.Deadline.String() != "2025-12-31" {
		t.Fatalf("deadline round trip = %s", b.Deadline)
	}
}

func TestReportCreateIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	item := core.ReportItem{
		ID:          "spike-202503",
		Type:        core.Alert,
		Title:       "t",
		Description: "d",
		Severity:    "high",
		CreatedAt:   time.Date(2025, 3, 20, 10, 0, 0, 0, time.UTC),
	}
	if err := repo.CreateReport(ctx, item); err != nil {
		t.Fatal(err)
	}
	if err := repo.MarkReportRead(ctx, item.ID); err != nil {
		t.Fatal(err)
	}

	// Re-emitting the same deterministic item must not duplicate or reset it.
	if err := repo.CreateReport(ctx, item); err != nil {
		t.Fatal(err)
	}

	items, err := repo.ListReports(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d reports", len(items))
	}
	if !items[0].IsRead {
		t.Fatal("read flag must survive re-emit")
	}
}
