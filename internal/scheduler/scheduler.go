package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/utils"
)

// Scheduler materializes the pending tasks for a calendar day from each
// active habit's recurrence rule.
type Scheduler struct {
	store storage.Provider
	loc   *time.Location
}

// New returns a Scheduler that evaluates calendar days in loc.
func New(store storage.Provider, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{store: store, loc: loc}
}

// GenerateTasksForDate creates a pending task for every active habit due on
// date (YYYY-MM-DD) that has no task for that day yet. Existing tasks are
// never modified, so repeated or concurrent calls are safe. It returns the
// number of tasks created.
func (s *Scheduler) GenerateTasksForDate(ctx context.Context, date string) (int, error) {
	day, err := utils.ParseDateInLocation(date, s.loc)
	if err != nil {
		return 0, fmt.Errorf("invalid date format: %w", err)
	}

	log := logger.For("scheduler")
	created := 0

	err = s.store.WithTx(ctx, func(tx storage.Provider) error {
		habits, err := tx.GetActiveScheduledHabits(ctx)
		if err != nil {
			return err
		}

		for _, h := range DueHabits(habits, day, s.loc) {
			task := models.TaskInstance{
				ID:      uuid.New().String(),
				HabitID: h.ID,
				Date:    date,
				Status:  models.StatusPending,
			}
			inserted, err := tx.CreateTaskIfAbsent(ctx, task)
			if err != nil {
				return fmt.Errorf("failed to create task for habit %s: %w", h.ID, err)
			}
			if inserted {
				created++
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to generate tasks for %s: %w", date, err)
	}

	log.Debug("Generated tasks", "date", date, "created", created)
	return created, nil
}

// DueHabits returns the habits among scheduled whose rule is due on day.
// Habits with a rule that cannot be evaluated are logged and skipped.
func DueHabits(scheduled []models.ScheduledHabit, day time.Time, loc *time.Location) []models.Habit {
	log := logger.For("scheduler")

	var due []models.Habit
	for _, sh := range scheduled {
		if !sh.Habit.Active() {
			continue
		}
		if err := utils.CheckRecurrence(sh.Rule); err != nil {
			log.Warn("Skipping habit with invalid schedule", "habit", sh.Habit.ID, "title", sh.Habit.Title, "error", err)
			continue
		}
		if utils.IsDue(sh.Rule, sh.Habit.CreatedAt.In(loc), day) {
			due = append(due, sh.Habit)
		}
	}
	return due
}
