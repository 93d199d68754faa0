package insights

import (
	"strings"
	"testing"
	"time"

	"financas/internal/core"
)

func expense(id string, cents int64, category string, y int, m time.Month, d int) core.Transaction {
	return core.Transaction{
		ID:          id,
		Description: "t",
		Amount:      core.Money{Cents: cents},
		Type:        core.Expense,
		Category:    category,
		Date:        core.NewDate(y, int(m), d),
	}
}

func income(id string, cents int64, y int, m time.Month, d int) core.Transaction {
	return core.Transaction{
		ID:          id,
		Description: "t",
		Amount:      core.Money{Cents: cents},
		Type:        core.Income,
		Category:    "Salário",
		Date:        core.NewDate(y, int(m), d),
	}
}

func findByID(items []core.ReportItem, id string) (core.ReportItem, bool) {
	for _, it := range items {
		if it.ID == id {
			return it, true
		}
	}
	return core.ReportItem{}, false
}

func TestSpendingSpikeAlert(t *testing.T) {
	now := time.Date(2025, time.March, 20, 12, 0, 0, 0, time.UTC)
	txs := []core.Transaction{
		expense("1", 100000, "Mercado", 2025, time.February, 10),
		expense("2", 150000, "Mercado", 2025, time.March, 5),
	}

	items := Generate(txs, nil, now)
	spike, ok := findByID(items, "spike-202503")
	if !ok {
		t.Fatalf("expected spike alert, got %+v", items)
	}
	if spike.Type != core.Alert || spike.Severity != SeverityHigh {
		t.Fatalf("spike = %+v", spike)
	}
	if !strings.Contains(spike.Description, "R$ 1.500,00") {
		t.Fatalf("description = %q", spike.Description)
	}
}

func TestSpikeNeedsPreviousMonthBaseline(t *testing.T) {
	now := time.Date(2025, time.March, 20, 12, 0, 0, 0, time.UTC)
	txs := []core.Transaction{
		expense("1", 150000, "Mercado", 2025, time.March, 5),
	}
	if _, ok := findByID(Generate(txs, nil, now), "spike-202503"); ok {
		t.Fatal("no baseline month, spike must not fire")
	}
}

func TestSpikeNotTriggeredAtThreshold(t *testing.T) {
	now := time.Date(2025, time.March, 20, 12, 0, 0, 0, time.UTC)
	txs := []core.Transaction{
		expense("1", 100000, "Mercado", 2025, time.February, 10),
		expense("2", 120000, "Mercado", 2025, time.March, 5),
	}
	if _, ok := findByID(Generate(txs, nil, now), "spike-202503"); ok {
		t.Fatal("growth at exactly 1.2x must not fire")
	}
}

func TestDominantCategoryAlert(t *testing.T) {
	now := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	txs := []core.Transaction{
		expense("1", 60000, "Lazer", 2025, time.June, 2),
		expense("2", 20000, "Mercado", 2025, time.June, 3),
		expense("3", 20000, "Transporte", 2025, time.June, 4),
	}

	item, ok := findByID(Generate(txs, nil, now), "dominant-202506")
	if !ok {
		t.Fatal("expected dominant category alert")
	}
	if item.Category != "Lazer" {
		t.Fatalf("category = %q", item.Category)
	}
}

func TestNegativeMonthAlertAndNoSurplusTip(t *testing.T) {
	now := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	txs := []core.Transaction{
		income("1", 100000, 2025, time.June, 1),
		expense("2", 130000, "Moradia", 2025, time.June, 5),
	}

	items := Generate(txs, nil, now)
	if _, ok := findByID(items, "negative-202506"); !ok {
		t.Fatal("expected negative month alert")
	}
	if _, ok := findByID(items, "surplus-202506"); ok {
		t.Fatal("deficit month must not produce the savings tip")
	}
}

func TestSurplusTipSuggestsTenPercent(t *testing.T) {
	now := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	txs := []core.Transaction{
		income("1", 500000, 2025, time.June, 1),
		expense("2", 300000, "Moradia", 2025, time.June, 5),
	}

	tip, ok := findByID(Generate(txs, nil, now), "surplus-202506")
	if !ok {
		t.Fatal("expected savings tip")
	}
	if tip.Type != core.Tip {
		t.Fatalf("type = %q", tip.Type)
	}
	if !strings.Contains(tip.Description, "R$ 200,00") {
		t.Fatalf("description = %q", tip.Description)
	}
}

func TestGoalCompletedTip(t *testing.T) {
	now := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	goals := []core.Goal{{
		ID:            "g1",
		Name:          "Reserva",
		CurrentAmount: core.Money{Cents: 1000000},
		TargetAmount:  core.Money{Cents: 1000000},
		Finalized:     true,
	}}

	item, ok := findByID(Generate(nil, goals, now), "goal-done-g1")
	if !ok {
		t.Fatal("expected completed goal tip")
	}
	if item.Type != core.Tip {
		t.Fatalf("type = %q", item.Type)
	}
}

func TestGoalDeadlineAlert(t *testing.T) {
	now := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	lagging := core.Goal{
		ID:            "g1",
		Name:          "Viagem",
		CurrentAmount: core.Money{Cents: 200000},
		TargetAmount:  core.Money{Cents: 1000000},
		Deadline:      core.NewDate(2025, 7, 1),
	}
	onTrack := core.Goal{
		ID:            "g2",
		Name:          "Notebook",
		CurrentAmount: core.Money{Cents: 900000},
		TargetAmount:  core.Money{Cents: 1000000},
		Deadline:      core.NewDate(2025, 7, 1),
	}
	farOff := core.Goal{
		ID:            "g3",
		Name:          "Carro",
		CurrentAmount: core.Money{Cents: 0},
		TargetAmount:  core.Money{Cents: 1000000},
		Deadline:      core.NewDate(2026, 6, 1),
	}

	items := Generate(nil, []core.Goal{lagging, onTrack, farOff}, now)
	if _, ok := findByID(items, "goal-deadline-g1"); !ok {
		t.Fatal("lagging goal near deadline must alert")
	}
	if _, ok := findByID(items, "goal-deadline-g2"); ok {
		t.Fatal("goal at 90% must not alert")
	}
	if _, ok := findByID(items, "goal-deadline-g3"); ok {
		t.Fatal("deadline a year away must not alert")
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	now := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	txs := []core.Transaction{
		income("1", 500000, 2025, time.June, 1),
		expense("2", 300000, "Moradia", 2025, time.June, 5),
	}
	goals := []core.Goal{{ID: "g1", Name: "Reserva", TargetAmount: core.Money{Cents: 100}, CurrentAmount: core.Money{Cents: 100}, Finalized: true}}

	a := Generate(txs, goals, now)
	b := Generate(txs, goals, now)
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			t.Fatalf("order or IDs differ at %d: %q vs %q", i, a[i].ID, b[i].ID)
		}
	}
}
