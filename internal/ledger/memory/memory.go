// Package memory is the mutex-guarded in-memory backend. It is the default
// backend for local development and the fake used by handler and service
// tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"financas/internal/core"
	"financas/internal/ledger"
)

type Store struct {
	mu           sync.Mutex
	transactions []core.Transaction
	categories   []core.Category
	goals        []core.Goal
	reports      []core.ReportItem
}

func New() *Store {
	return &Store{}
}

// NewWithDefaults seeds the system categories a fresh account starts with.
func NewWithDefaults() *Store {
	s := New()
	for _, c := range DefaultCategories() {
		c.ID = ledger.NewID()
		s.categories = append(s.categories, c)
	}
	return s
}

// DefaultCategories returns the seed set. They are flagged IsDefault and can
// never be deleted.
func DefaultCategories() []core.Category {
	return []core.Category{
		{Name: "Salário", Type: core.Income, Color: "#47C272", Icon: "briefcase", IsDefault: true},
		{Name: "Investimentos", Type: core.Income, Color: "#4F8EF7", Icon: "trending-up", IsDefault: true},
		{Name: "Outros", Type: core.Income, Color: "#8D99AE", Icon: "plus-circle", IsDefault: true},
		{Name: "Mercado", Type: core.Expense, Color: "#F7B32B", Icon: "shopping-cart", IsDefault: true},
		{Name: "Moradia", Type: core.Expense, Color: "#9B6EF7", Icon: "home", IsDefault: true},
		{Name: "Transporte", Type: core.Expense, Color: "#2BC5C9", Icon: "bus", IsDefault: true},
		{Name: "Saúde", Type: core.Expense, Color: "#F76E64", Icon: "heart", IsDefault: true},
		{Name: "Lazer", Type: core.Expense, Color: "#F764B0", Icon: "smile", IsDefault: true},
	}
}

func (s *Store) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]core.Transaction(nil), s.transactions...)
	core.SortByDateDesc(out)
	return out, nil
}

func (s *Store) GetTransaction(_ context.Context, id string) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.transactions {
		if t.ID == id {
			return t, nil
		}
	}
	return core.Transaction{}, core.ErrNotFound
}

func (s *Store) CreateTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = ledger.NewID()
	s.transactions = append(s.transactions, t)
	return t, nil
}

func (s *Store) UpdateTransaction(_ context.Context, t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.transactions {
		if s.transactions[i].ID == t.ID {
			s.transactions[i] = t
			return nil
		}
	}
	return core.ErrNotFound
}

func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.transactions {
		if s.transactions[i].ID == id {
			s.transactions = append(s.transactions[:i], s.transactions[i+1:]...)
			return nil
		}
	}
	return core.ErrNotFound
}

func (s *Store) ListCategories(_ context.Context) ([]core.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Category(nil), s.categories...), nil
}

func (s *Store) CreateCategory(_ context.Context, c core.Category) (core.Category, error) {
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.categories {
		if existing.Type == c.Type && existing.Name == c.Name {
			return core.Category{}, core.ErrDuplicateCategory
		}
	}
	c.ID = ledger.NewID()
	c.IsDefault = false
	s.categories = append(s.categories, c)
	return c, nil
}

func (s *Store) UpdateCategory(_ context.Context, c core.Category) error {
	if err := c.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.categories {
		if existing.ID != c.ID && existing.Type == c.Type && existing.Name == c.Name {
			return core.ErrDuplicateCategory
		}
	}
	for i := range s.categories {
		if s.categories[i].ID == c.ID {
			c.IsDefault = s.categories[i].IsDefault
			s.categories[i] = c
			return nil
		}
	}
	return core.ErrNotFound
}

func (s *Store) DeleteCategory(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.categories {
		if s.categories[i].ID == id {
			if s.categories[i].IsDefault {
				return core.ErrDefaultCategory
			}
			s.categories = append(s.categories[:i], s.categories[i+1:]...)
			return nil
		}
	}
	return core.ErrNotFound
}

func (s *Store) ListGoals(_ context.Context) ([]core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Goal(nil), s.goals...), nil
}

func (s *Store) GetGoal(_ context.Context, id string) (core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range s.goals {
		if g.ID == id {
			return g, nil
		}
	}
	return core.Goal{}, core.ErrNotFound
}

func (s *Store) CreateGoal(_ context.Context, g core.Goal) (core.Goal, error) {
	if err := g.Validate(); err != nil {
		return core.Goal{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	g.ID = ledger.NewID()
	if g.CurrentAmount.Cents >= g.TargetAmount.Cents {
		g.Finalized = true
	}
	s.goals = append(s.goals, g)
	return g, nil
}

func (s *Store) UpdateGoal(_ context.Context, g core.Goal) error {
	if err := g.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.goals {
		if s.goals[i].ID == g.ID {
			// Finalized never flips back to false.
			if s.goals[i].Finalized {
				g.Finalized = true
			}
			s.goals[i] = g
			return nil
		}
	}
	return core.ErrNotFound
}

func (s *Store) DeleteGoal(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.goals {
		if s.goals[i].ID == id {
			s.goals = append(s.goals[:i], s.goals[i+1:]...)
			return nil
		}
	}
	return core.ErrNotFound
}

func (s *Store) ListReports(_ context.Context) ([]core.ReportItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]core.ReportItem(nil), s.reports...)
	sortReportsNewestFirst(out)
	return out, nil
}

func (s *Store) CreateReport(_ context.Context, r core.ReportItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == "" {
		r.ID = ledger.NewID()
	}
	for _, existing := range s.reports {
		if existing.ID == r.ID {
			return nil // deterministic re-emit from the worker
		}
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	s.reports = append(s.reports, r)
	return nil
}

func (s *Store) MarkReportRead(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.reports {
		if s.reports[i].ID == id {
			s.reports[i].IsRead = true
			return nil
		}
	}
	return core.ErrNotFound
}

func (s *Store) DeleteReport(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.reports {
		if s.reports[i].ID == id {
			s.reports = append(s.reports[:i], s.reports[i+1:]...)
			return nil
		}
	}
	return core.ErrNotFound
}

func sortReportsNewestFirst(items []core.ReportItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}
