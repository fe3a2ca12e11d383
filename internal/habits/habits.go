// Package habits manages habit definitions and their recurrence rules.
package habits

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
	"github.com/julianstephens/habitual/internal/validation"
)

// HabitInput holds the editable fields of a habit.
type HabitInput struct {
	Title       string
	Description string
	Icon        string
	Color       string
	Type        models.HabitType
	TargetValue *float64
	TargetUnit  string
}

type Service struct {
	store     storage.Provider
	validator *validation.Validator
	now       func() time.Time
}

type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(store storage.Provider, opts ...Option) *Service {
	s := &Service{store: store, validator: validation.New(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateHabit validates the habit and writes it together with its schedule.
func (s *Service) CreateHabit(ctx context.Context, in HabitInput, rule models.Recurrence) (models.Habit, error) {
	now := s.now().UTC()
	habit := apply(models.Habit{ID: uuid.New().String(), CreatedAt: now}, in)
	habit.UpdatedAt = now

	result := s.validator.ValidateHabit(habit, rule)
	if err := result.Err(); err != nil {
		return models.Habit{}, err
	}

	err := s.store.WithTx(ctx, func(tx storage.Provider) error {
		if err := tx.SaveHabit(ctx, habit); err != nil {
			return err
		}
		return tx.SaveHabitSchedule(ctx, models.HabitSchedule{
			ID:      uuid.New().String(),
			HabitID: habit.ID,
			Rule:    rule,
		})
	})
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to create habit: %w", err)
	}

	logger.For("habits").Info("Habit created", "habit", habit.ID, "title", habit.Title, "frequency", rule.FrequencyType())
	return habit, nil
}

func (s *Service) ListHabits(ctx context.Context, includeArchived bool) ([]models.Habit, error) {
	return s.store.GetAllHabits(ctx, includeArchived)
}

// GetHabit returns a habit with its recurrence rule. A habit without a
// schedule comes back with a nil rule.
func (s *Service) GetHabit(ctx context.Context, id string) (models.Habit, models.Recurrence, error) {
	habit, err := s.store.GetHabit(ctx, id)
	if err != nil {
		return models.Habit{}, nil, fmt.Errorf("failed to load habit %s: %w", id, err)
	}
	schedule, err := s.store.GetHabitSchedule(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return habit, nil, nil
	}
	if err != nil {
		return models.Habit{}, nil, fmt.Errorf("failed to load schedule for habit %s: %w", id, err)
	}
	return habit, schedule.Rule, nil
}

// UpdateHabit replaces the habit's editable fields. A non-nil rule replaces
// the schedule as well; existing tasks are left untouched.
func (s *Service) UpdateHabit(ctx context.Context, id string, in HabitInput, rule models.Recurrence) (models.Habit, error) {
	var updated models.Habit
	err := s.store.WithTx(ctx, func(tx storage.Provider) error {
		current, err := tx.GetHabit(ctx, id)
		if err != nil {
			return err
		}

		schedule, err := tx.GetHabitSchedule(ctx, id)
		switch {
		case errors.Is(err, storage.ErrNotFound):
			schedule = models.HabitSchedule{ID: uuid.New().String(), HabitID: id}
		case err != nil:
			return err
		}
		if rule != nil {
			schedule.Rule = rule
		}

		updated = apply(current, in)
		updated.UpdatedAt = s.now().UTC()

		result := s.validator.ValidateHabit(updated, schedule.Rule)
		if err := result.Err(); err != nil {
			return err
		}
		if err := tx.SaveHabit(ctx, updated); err != nil {
			return err
		}
		if rule != nil {
			return tx.SaveHabitSchedule(ctx, schedule)
		}
		return nil
	})
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to update habit %s: %w", id, err)
	}
	return updated, nil
}

func (s *Service) Archive(ctx context.Context, id string) error {
	return s.setFlags(ctx, id, func(h *models.Habit) { h.Archived = true })
}

func (s *Service) Unarchive(ctx context.Context, id string) error {
	return s.setFlags(ctx, id, func(h *models.Habit) { h.Archived = false })
}

func (s *Service) Pause(ctx context.Context, id string) error {
	return s.setFlags(ctx, id, func(h *models.Habit) { h.Paused = true })
}

func (s *Service) Resume(ctx context.Context, id string) error {
	return s.setFlags(ctx, id, func(h *models.Habit) { h.Paused = false })
}

func (s *Service) setFlags(ctx context.Context, id string, fn func(*models.Habit)) error {
	habit, err := s.store.GetHabit(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load habit %s: %w", id, err)
	}
	fn(&habit)
	habit.UpdatedAt = s.now().UTC()
	return s.store.SaveHabit(ctx, habit)
}

// DeleteHabit removes the habit with its schedule, tasks, sessions and
// reminders. Goals that tracked it are kept but unlinked.
func (s *Service) DeleteHabit(ctx context.Context, id string) error {
	if err := s.store.DeleteHabit(ctx, id); err != nil {
		return err
	}
	logger.For("habits").Info("Habit deleted", "habit", id)
	return nil
}

// FindHabit resolves a habit by id or, failing that, by case-insensitive
// title.
func (s *Service) FindHabit(ctx context.Context, ref string) (models.Habit, error) {
	habit, err := s.store.GetHabit(ctx, ref)
	if err == nil {
		return habit, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return models.Habit{}, err
	}

	all, err := s.store.GetAllHabits(ctx, true)
	if err != nil {
		return models.Habit{}, err
	}
	var matches []models.Habit
	for _, h := range all {
		if strings.EqualFold(h.Title, ref) {
			matches = append(matches, h)
		}
	}
	switch len(matches) {
	case 0:
		return models.Habit{}, fmt.Errorf("habit %q: %w", ref, storage.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return models.Habit{}, fmt.Errorf("habit title %q is ambiguous, use the id", ref)
	}
}

func apply(h models.Habit, in HabitInput) models.Habit {
	h.Title = strings.TrimSpace(in.Title)
	h.Description = in.Description
	h.Icon = in.Icon
	h.Color = in.Color
	h.Type = in.Type
	h.TargetValue = in.TargetValue
	h.TargetUnit = in.TargetUnit
	return h
}
