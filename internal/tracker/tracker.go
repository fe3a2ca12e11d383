// Package tracker records what happens to materialized tasks: status
// changes, postponements and timed sessions.
package tracker

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
)

// ErrInvalidTransition is returned in strict mode for a status change
// outside pending <-> completed/skipped/postponed.
var ErrInvalidTransition = errors.New("invalid status transition")

// Materializer generates the tasks for a calendar day.
type Materializer interface {
	GenerateTasksForDate(ctx context.Context, date string) (int, error)
}

type Tracker struct {
	store     storage.Provider
	scheduler Materializer
	loc       *time.Location
	now       func() time.Time
	strict    bool
}

type Option func(*Tracker)

// WithStrictTransitions rejects status changes that skip the pending state.
func WithStrictTransitions() Option {
	return func(t *Tracker) { t.strict = true }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

func New(store storage.Provider, scheduler Materializer, loc *time.Location, opts ...Option) *Tracker {
	if loc == nil {
		loc = time.Local
	}
	t := &Tracker{
		store:     store,
		scheduler: scheduler,
		loc:       loc,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// GetTasksForDate returns the tasks of date joined with their habit, ordered by title.
func (t *Tracker) GetTasksForDate(ctx context.Context, date string) ([]models.TaskView, error) {
	if !utils.ValidateDateFormat(date) {
		return nil, fmt.Errorf("invalid date format %q (expected YYYY-MM-DD)", date)
	}
	return t.store.GetTasksForDate(ctx, date)
}

// UpdateTaskStatus sets the task's status. CompletedAt is set to now for
// completed and cleared otherwise; value, when non-nil, replaces the
// completion value. Unknown ids return storage.ErrNotFound.
func (t *Tracker) UpdateTaskStatus(ctx context.Context, taskID string, status models.TaskStatus, value *float64) error {
	if !status.Valid() {
		return fmt.Errorf("invalid task status %q", status)
	}

	if t.strict {
		task, err := t.store.GetTask(ctx, taskID)
		if err != nil {
			return fmt.Errorf("failed to load task %s: %w", taskID, err)
		}
		if !allowedTransition(task.Status, status) {
			return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, task.Status, status)
		}
	}

	var completedAt *time.Time
	if status == models.StatusCompleted {
		now := t.now()
		completedAt = &now
	}

	if err := t.store.UpdateTaskStatus(ctx, taskID, status, value, completedAt); err != nil {
		return err
	}
	logger.For("tracker").Debug("Task status updated", "task", taskID, "status", status)
	return nil
}

// PostponeTask marks the task postponed and materializes the next calendar
// day. No task is carried over: if the habit is not due tomorrow, nothing
// appears there.
func (t *Tracker) PostponeTask(ctx context.Context, taskID string) error {
	task, err := t.store.GetTask(ctx, taskID)
	if err != nil {
		return fmt.Errorf("failed to load task %s: %w", taskID, err)
	}
	if err := t.UpdateTaskStatus(ctx, taskID, models.StatusPostponed, nil); err != nil {
		return err
	}

	next, err := utils.AddDays(task.Date, 1)
	if err != nil {
		return err
	}
	if t.scheduler == nil {
		return nil
	}
	if _, err := t.scheduler.GenerateTasksForDate(ctx, next); err != nil {
		return fmt.Errorf("failed to generate tasks for %s: %w", next, err)
	}
	return nil
}

// UndoTask returns the task to pending.
func (t *Tracker) UndoTask(ctx context.Context, taskID string) error {
	return t.UpdateTaskStatus(ctx, taskID, models.StatusPending, nil)
}

func allowedTransition(from, to models.TaskStatus) bool {
	if from == to {
		return true
	}
	if from == models.StatusPending {
		return to == models.StatusCompleted || to == models.StatusSkipped || to == models.StatusPostponed
	}
	return to == models.StatusPending
}

// TimerInput describes a finished timer session.
type TimerInput struct {
	HabitID   string
	StartTime time.Time
	EndTime   time.Time
	// DurationSec defaults to EndTime - StartTime when zero.
	DurationSec  int64
	WasCompleted bool
	Reflection   string
}

// LogTimerSession stores a session. When it was completed and the habit
// has a task on the session's start date, that task is forced to completed
// regardless of its current status. Both writes share one transaction.
func (t *Tracker) LogTimerSession(ctx context.Context, in TimerInput) (string, error) {
	if in.HabitID == "" {
		return "", fmt.Errorf("habit id is required")
	}
	if in.EndTime.Before(in.StartTime) {
		return "", fmt.Errorf("session ends before it starts")
	}
	duration := in.DurationSec
	if duration == 0 {
		duration = int64(in.EndTime.Sub(in.StartTime) / time.Second)
	}
	if duration < 0 {
		return "", fmt.Errorf("duration cannot be negative")
	}

	session := models.TimerSession{
		ID:           uuid.New().String(),
		HabitID:      in.HabitID,
		StartTime:    in.StartTime,
		EndTime:      in.EndTime,
		DurationSec:  duration,
		WasCompleted: in.WasCompleted,
		Reflection:   strings.TrimSpace(in.Reflection),
	}

	err := t.store.WithTx(ctx, func(tx storage.Provider) error {
		if _, err := tx.GetHabit(ctx, in.HabitID); err != nil {
			return fmt.Errorf("failed to load habit %s: %w", in.HabitID, err)
		}
		if err := tx.SaveTimerSession(ctx, session); err != nil {
			return err
		}
		if !in.WasCompleted {
			return nil
		}

		date := utils.FormatDate(in.StartTime.In(t.loc))
		task, err := tx.GetTaskForHabitOnDate(ctx, in.HabitID, date)
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		now := t.now()
		return tx.UpdateTaskStatus(ctx, task.ID, models.StatusCompleted, nil, &now)
	})
	if err != nil {
		return "", fmt.Errorf("failed to log timer session: %w", err)
	}

	logger.For("tracker").Info("Timer session logged", "habit", in.HabitID, "duration", duration, "completed", in.WasCompleted)
	return session.ID, nil
}

// ListTimerSessions returns a habit's sessions, newest first.
func (t *Tracker) ListTimerSessions(ctx context.Context, habitID string) ([]models.TimerSession, error) {
	return t.store.GetTimerSessions(ctx, storage.SessionFilter{HabitID: habitID})
}

// ListReflections returns session reflections joined with their habit's title, newest first.
func (t *Tracker) ListReflections(ctx context.Context) ([]models.Reflection, error) {
	return t.store.GetReflections(ctx)
}

// AddJournalEntry stores a free-form reflection for a day, optionally tied to a habit.
func (t *Tracker) AddJournalEntry(ctx context.Context, date string, habitID *string, content, mood string) (string, error) {
	if date == "" {
		date = utils.FormatDate(t.now().In(t.loc))
	}
	if !utils.ValidateDateFormat(date) {
		return "", fmt.Errorf("invalid date format %q (expected YYYY-MM-DD)", date)
	}
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("journal entry cannot be empty")
	}

	entry := models.ReflectionEntry{
		ID:      uuid.New().String(),
		Date:    date,
		HabitID: habitID,
		Content: strings.TrimSpace(content),
		Mood:    mood,
	}
	if err := t.store.SaveReflectionEntry(ctx, entry); err != nil {
		return "", err
	}
	return entry.ID, nil
}

// ListJournalEntries returns journal entries, newest date first.
func (t *Tracker) ListJournalEntries(ctx context.Context) ([]models.ReflectionEntry, error) {
	return t.store.GetReflectionEntries(ctx)
}
