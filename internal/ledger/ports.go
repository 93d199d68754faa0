// Package ledger defines the ports between the HTTP/service layer and the
// storage backends. Both the in-memory store and the SQLite repository
// implement these interfaces.
package ledger

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"financas/internal/core"
)

type (
	TransactionRepository interface {
		// ListTransactions returns every transaction for the session's user,
		// newest first.
		ListTransactions(ctx context.Context) ([]core.Transaction, error)
		GetTransaction(ctx context.Context, id string) (core.Transaction, error)
		// CreateTransaction assigns a new ID and returns the stored value.
		CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
		// UpdateTransaction and DeleteTransaction return core.ErrNotFound when
		// the id is absent; callers decide whether to surface it.
		UpdateTransaction(ctx context.Context, t core.Transaction) error
		DeleteTransaction(ctx context.Context, id string) error
	}

	CategoryRepository interface {
		ListCategories(ctx context.Context) ([]core.Category, error)
		// CreateCategory enforces name uniqueness per type
		// (core.ErrDuplicateCategory on conflict).
		CreateCategory(ctx context.Context, c core.Category) (core.Category, error)
		UpdateCategory(ctx context.Context, c core.Category) error
		// DeleteCategory refuses default categories (core.ErrDefaultCategory).
		DeleteCategory(ctx context.Context, id string) error
	}

	GoalRepository interface {
		ListGoals(ctx context.Context) ([]core.Goal, error)
		GetGoal(ctx context.Context, id string) (core.Goal, error)
		CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error)
		UpdateGoal(ctx context.Context, g core.Goal) error
		DeleteGoal(ctx context.Context, id string) error
	}

	ReportRepository interface {
		ListReports(ctx context.Context) ([]core.ReportItem, error)
		// CreateReport is idempotent on ID so the insights worker can re-emit
		// deterministic items without duplicating them.
		CreateReport(ctx context.Context, r core.ReportItem) error
		// MarkReportRead flips IsRead to true; the flip is monotonic.
		MarkReportRead(ctx context.Context, id string) error
		DeleteReport(ctx context.Context, id string) error
	}
)

// NewID returns a random identifier for newly created entities.
func NewID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("id_%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf)
}
