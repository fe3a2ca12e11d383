// Package goals keeps goal progress in step with the task and timer history
// of the habit each goal tracks.
package goals

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/utils"
	"github.com/julianstephens/habitual/internal/validation"
)

type Service struct {
	store     storage.Provider
	loc       *time.Location
	validator *validation.Validator
}

func New(store storage.Provider, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{store: store, loc: loc, validator: validation.New()}
}

// GoalInput is the user-supplied part of a new goal.
type GoalInput struct {
	Title       string
	HabitID     *string
	TargetValue float64
	StartDate   string // YYYY-MM-DD
	EndDate     *string
}

// CreateGoal validates and stores a new active goal, then computes its
// progress from any history since the start date.
func (s *Service) CreateGoal(ctx context.Context, in GoalInput) (string, error) {
	goal := models.Goal{
		ID:          uuid.New().String(),
		Title:       strings.TrimSpace(in.Title),
		HabitID:     in.HabitID,
		TargetValue: in.TargetValue,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Status:      models.GoalActive,
	}

	result := s.validator.ValidateGoal(goal)
	if err := result.Err(); err != nil {
		return "", err
	}

	if goal.HabitID != nil {
		if _, err := s.store.GetHabit(ctx, *goal.HabitID); err != nil {
			return "", fmt.Errorf("failed to load habit %s: %w", *goal.HabitID, err)
		}
	}

	if err := s.store.SaveGoal(ctx, goal); err != nil {
		return "", err
	}
	if err := s.UpdateGoalProgress(ctx, goal.ID); err != nil {
		return "", err
	}
	return goal.ID, nil
}

// ListActiveGoals returns active goals joined with their habit's title.
func (s *Service) ListActiveGoals(ctx context.Context) ([]models.GoalView, error) {
	return s.store.GetGoals(ctx, models.GoalActive)
}

// ListGoals returns every goal regardless of status.
func (s *Service) ListGoals(ctx context.Context) ([]models.GoalView, error) {
	return s.store.GetGoals(ctx, "")
}

// AbandonGoal marks a goal abandoned. Progress updates never revive it.
func (s *Service) AbandonGoal(ctx context.Context, goalID string) error {
	goal, err := s.store.GetGoal(ctx, goalID)
	if err != nil {
		return fmt.Errorf("failed to load goal %s: %w", goalID, err)
	}
	goal.Status = models.GoalAbandoned
	return s.store.SaveGoal(ctx, goal)
}

func (s *Service) DeleteGoal(ctx context.Context, goalID string) error {
	return s.store.DeleteGoal(ctx, goalID)
}

// UpdateGoalProgress recomputes CurrentValue from the linked habit's history.
// Duration habits count minutes of sessions started on or after the goal's
// start date; other habits count completed tasks dated on or after it. The
// goal is achieved once CurrentValue reaches TargetValue and active
// otherwise; abandoned goals keep their status. Missing goals and goals
// without a habit are left alone.
func (s *Service) UpdateGoalProgress(ctx context.Context, goalID string) error {
	log := logger.For("goals")

	goal, err := s.store.GetGoal(ctx, goalID)
	if errors.Is(err, storage.ErrNotFound) {
		log.Debug("Goal not found, skipping progress update", "goal", goalID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load goal %s: %w", goalID, err)
	}
	if goal.HabitID == nil {
		return nil
	}

	habit, err := s.store.GetHabit(ctx, *goal.HabitID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load habit %s: %w", *goal.HabitID, err)
	}

	current, err := s.progress(ctx, goal, habit)
	if err != nil {
		return err
	}

	goal.CurrentValue = current
	if goal.Status != models.GoalAbandoned {
		if current >= goal.TargetValue {
			goal.Status = models.GoalAchieved
		} else {
			goal.Status = models.GoalActive
		}
	}

	if err := s.store.SaveGoal(ctx, goal); err != nil {
		return err
	}
	log.Debug("Goal progress updated", "goal", goal.ID, "current", current, "target", goal.TargetValue, "status", goal.Status)
	return nil
}

func (s *Service) progress(ctx context.Context, goal models.Goal, habit models.Habit) (float64, error) {
	if habit.Type == models.HabitDuration {
		since, err := utils.ParseDateInLocation(goal.StartDate, s.loc)
		if err != nil {
			return 0, fmt.Errorf("goal %s has invalid start date: %w", goal.ID, err)
		}
		seconds, err := s.store.SumTimerDuration(ctx, storage.SessionFilter{HabitID: habit.ID, Since: since})
		if err != nil {
			return 0, fmt.Errorf("failed to sum sessions for goal %s: %w", goal.ID, err)
		}
		return float64(seconds) / 60, nil
	}

	tasks, err := s.store.GetTasks(ctx, storage.TaskFilter{
		HabitID:  habit.ID,
		FromDate: goal.StartDate,
		Status:   models.StatusCompleted,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count completions for goal %s: %w", goal.ID, err)
	}
	return float64(len(tasks)), nil
}

// RefreshAll recomputes every goal that is not abandoned and returns how
// many were updated.
func (s *Service) RefreshAll(ctx context.Context) (int, error) {
	goals, err := s.store.GetGoals(ctx, "")
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, g := range goals {
		if g.Status == models.GoalAbandoned {
			continue
		}
		if err := s.UpdateGoalProgress(ctx, g.ID); err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}
