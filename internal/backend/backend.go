// Package backend wires a storage backend and optional event bus from
// configuration, so both binaries share the same bootstrap.
package backend

import (
	"fmt"
	"log/slog"

	"financas/internal/amqp"
	"financas/internal/config"
	"financas/internal/ledger"
	"financas/internal/ledger/memory"
	"financas/internal/storage"
)

// Store is the full persistence surface: every repository the API and the
// worker need, backed by one implementation.
type Store interface {
	ledger.TransactionRepository
	ledger.CategoryRepository
	ledger.GoalRepository
	ledger.ReportRepository
}

// Result bundles the opened store with its optional AMQP client. Events is
// nil when no AMQP URL is configured; callers treat that as "no bus".
type Result struct {
	Store   Store
	Events  *amqp.Client
	Cleanup func() error
}

// Open builds the backend named by cfg.DataBackend. SQLite gets its schema
// migrated before use; the memory backend starts seeded with the default
// categories.
func Open(cfg *config.Config) (*Result, error) {
	switch cfg.DataBackend {
	case "sqlite":
		return openSQLite(cfg)
	case "memory":
		return openMemory(cfg)
	default:
		return nil, fmt.Errorf("unsupported data backend: %s", cfg.DataBackend)
	}
}

func openSQLite(cfg *config.Config) (*Result, error) {
	// NewSQLiteRepository migrates the schema before returning.
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("initialize sqlite repository: %w", err)
	}

	events := openEvents(cfg)

	slog.Info("Initialized SQLite backend",
		"db_path", cfg.SQLiteDBPath,
		"amqp_enabled", events != nil)

	return &Result{
		Store:  repo,
		Events: events,
		Cleanup: func() error {
			if events != nil {
				if err := events.Close(); err != nil {
					slog.Error("Failed to close AMQP client", "error", err)
				}
			}
			return repo.Close()
		},
	}, nil
}

func openMemory(cfg *config.Config) (*Result, error) {
	events := openEvents(cfg)

	slog.Info("Initialized memory backend", "amqp_enabled", events != nil)

	return &Result{
		Store:  memory.NewWithDefaults(),
		Events: events,
		Cleanup: func() error {
			if events != nil {
				return events.Close()
			}
			return nil
		},
	}, nil
}

// openEvents connects to AMQP when configured. A broker that is down at
// startup only disables event publishing; the API keeps serving.
func openEvents(cfg *config.Config) *amqp.Client {
	if cfg.AMQPURL == "" {
		return nil
	}
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		slog.Warn("Failed to initialize AMQP client, continuing without events", "error", err)
		return nil
	}
	slog.Info("Initialized AMQP client",
		"exchange", cfg.AMQPExchange,
		"queue", cfg.AMQPQueue)
	return client
}
