package services

import (
	"context"
	"fmt"
	"log/slog"

	"financas/internal/amqp"
	"financas/internal/core"
	"financas/internal/ledger"
)

// GoalService applies the contribution and finalize rules and persists the
// result in a single update, so the stored amount and the finalized flag are
// never out of step.
type GoalService struct {
	repo      ledger.GoalRepository
	publisher EventPublisher
}

func NewGoalService(repo ledger.GoalRepository, publisher EventPublisher) *GoalService {
	return &GoalService{repo: repo, publisher: publisher}
}

func (s *GoalService) List(ctx context.Context) ([]core.Goal, error) {
	return s.repo.ListGoals(ctx)
}

func (s *GoalService) Get(ctx context.Context, id string) (core.Goal, error) {
	return s.repo.GetGoal(ctx, id)
}

func (s *GoalService) Create(ctx context.Context, g core.Goal) (core.Goal, error) {
	created, err := s.repo.CreateGoal(ctx, g)
	if err != nil {
		return core.Goal{}, fmt.Errorf("save goal: %w", err)
	}
	s.publish(ctx, amqp.ActionCreated, created.ID)
	return created, nil
}

func (s *GoalService) Update(ctx context.Context, g core.Goal) error {
	if err := s.repo.UpdateGoal(ctx, g); err != nil {
		return err
	}
	s.publish(ctx, amqp.ActionUpdated, g.ID)
	return nil
}

func (s *GoalService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteGoal(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, amqp.ActionDeleted, id)
	return nil
}

// AddContribution loads the goal, applies the amount with the finalize rule,
// and stores the result. Non-positive amounts surface core.ErrInvalidAmount
// before any write happens.
func (s *GoalService) AddContribution(ctx context.Context, id string, amount core.Money) (core.Goal, error) {
	goal, err := s.repo.GetGoal(ctx, id)
	if err != nil {
		return core.Goal{}, err
	}

	updated, err := goal.AddContribution(amount)
	if err != nil {
		return core.Goal{}, err
	}

	if err := s.repo.UpdateGoal(ctx, updated); err != nil {
		return core.Goal{}, fmt.Errorf("save contribution: %w", err)
	}

	slog.InfoContext(ctx, "Contribution applied",
		"goal_id", id,
		"amount_cents", amount.Cents,
		"current_cents", updated.CurrentAmount.Cents,
		"finalized", updated.Finalized)

	s.publish(ctx, amqp.ActionUpdated, id)
	return updated, nil
}

// Finalize fills the remaining gap so the goal closes at exactly its target.
func (s *GoalService) Finalize(ctx context.Context, id string) (core.Goal, error) {
	goal, err := s.repo.GetGoal(ctx, id)
	if err != nil {
		return core.Goal{}, err
	}

	done := goal.FinalizeGap()
	if err := s.repo.UpdateGoal(ctx, done); err != nil {
		return core.Goal{}, fmt.Errorf("save finalize: %w", err)
	}

	s.publish(ctx, amqp.ActionUpdated, id)
	return done, nil
}

func (s *GoalService) publish(ctx context.Context, action, id string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishLedgerEvent(ctx, amqp.EntityGoal, action, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"entity", amqp.EntityGoal,
			"action", action,
			"entity_id", id,
			"error", err)
	}
}
