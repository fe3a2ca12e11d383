// Package analytics derives streaks, completion rates, time totals and
// weekly summaries from task and timer history.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/utils"
)

// ErrNotQuota is returned when quota progress is requested for a habit
// whose rule is not a weekly quota.
var ErrNotQuota = errors.New("habit does not have a weekly quota")

type Engine struct {
	store storage.Provider
	loc   *time.Location
	now   func() time.Time
}

type Option func(*Engine)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func New(store storage.Provider, loc *time.Location, opts ...Option) *Engine {
	if loc == nil {
		loc = time.Local
	}
	e := &Engine{store: store, loc: loc, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// today returns midnight of the current day in the configured timezone.
func (e *Engine) today() time.Time {
	return utils.StartOfDay(e.now().In(e.loc))
}

// DayCompletion is one entry of a per-day completion window.
type DayCompletion struct {
	Date      string
	Completed bool
}

func (e *Engine) completedDates(ctx context.Context, habitID string) ([]string, error) {
	tasks, err := e.store.GetTasks(ctx, storage.TaskFilter{HabitID: habitID, Status: models.StatusCompleted})
	if err != nil {
		return nil, err
	}
	dates := make([]string, 0, len(tasks))
	for _, t := range tasks {
		dates = append(dates, t.Date)
	}
	return dates, nil
}

// GetStreak returns the current run of consecutive completed days.
func (e *Engine) GetStreak(ctx context.Context, habitID string) (int, error) {
	dates, err := e.completedDates(ctx, habitID)
	if err != nil {
		return 0, fmt.Errorf("failed to compute streak: %w", err)
	}
	return ComputeStreak(dates, utils.FormatDate(e.today())), nil
}

// GetLongestStreak returns the longest run of consecutive completed days ever recorded.
func (e *Engine) GetLongestStreak(ctx context.Context, habitID string) (int, error) {
	dates, err := e.completedDates(ctx, habitID)
	if err != nil {
		return 0, fmt.Errorf("failed to compute longest streak: %w", err)
	}
	return LongestStreak(dates), nil
}

// GetCompletionRate returns the percentage of tasks completed among all
// tasks dated on or after today - windowDays. A window <= 0 uses the
// default of 30 days.
func (e *Engine) GetCompletionRate(ctx context.Context, habitID string, windowDays int) (float64, error) {
	if windowDays <= 0 {
		windowDays = constants.DefaultCompletionWindowDays
	}
	from := utils.FormatDate(e.today().AddDate(0, 0, -windowDays))

	tasks, err := e.store.GetTasks(ctx, storage.TaskFilter{HabitID: habitID, FromDate: from})
	if err != nil {
		return 0, fmt.Errorf("failed to compute completion rate: %w", err)
	}

	completed := 0
	for _, t := range tasks {
		if t.Status == models.StatusCompleted {
			completed++
		}
	}
	return CompletionRate(completed, len(tasks)), nil
}

// GetTimeSpent returns the seconds logged in sessions started on or after
// the start of today - windowDays. A window <= 0 uses the default of 7 days.
func (e *Engine) GetTimeSpent(ctx context.Context, habitID string, windowDays int) (int64, error) {
	if windowDays <= 0 {
		windowDays = constants.DefaultTimeSpentWindowDays
	}
	since := e.today().AddDate(0, 0, -windowDays)

	total, err := e.store.SumTimerDuration(ctx, storage.SessionFilter{HabitID: habitID, Since: since})
	if err != nil {
		return 0, fmt.Errorf("failed to compute time spent: %w", err)
	}
	return total, nil
}

// GetLast7DaysCompletion returns seven entries, oldest first, ending today.
// Days without a task count as not completed.
func (e *Engine) GetLast7DaysCompletion(ctx context.Context, habitID string) ([]DayCompletion, error) {
	today := e.today()
	from := today.AddDate(0, 0, -(constants.CompletionWindowDays - 1))

	tasks, err := e.store.GetTasks(ctx, storage.TaskFilter{
		HabitID:  habitID,
		FromDate: utils.FormatDate(from),
		ToDate:   utils.FormatDate(today),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load recent tasks: %w", err)
	}

	completed := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		if t.Status == models.StatusCompleted {
			completed[t.Date] = true
		}
	}

	days := make([]DayCompletion, 0, constants.CompletionWindowDays)
	for i := 0; i < constants.CompletionWindowDays; i++ {
		date := utils.FormatDate(from.AddDate(0, 0, i))
		days = append(days, DayCompletion{Date: date, Completed: completed[date]})
	}
	return days, nil
}

// GetSuggestedReminderTime averages the time of day of past completions.
// It returns "" until at least three completions carry a timestamp.
func (e *Engine) GetSuggestedReminderTime(ctx context.Context, habitID string) (string, error) {
	tasks, err := e.store.GetTasks(ctx, storage.TaskFilter{HabitID: habitID, Status: models.StatusCompleted})
	if err != nil {
		return "", fmt.Errorf("failed to load completions: %w", err)
	}

	var times []time.Time
	for _, t := range tasks {
		if t.CompletedAt != nil {
			times = append(times, *t.CompletedAt)
		}
	}
	if len(times) < constants.MinCompletionsForSuggestion {
		return "", nil
	}
	return AverageTimeOfDay(times, e.loc), nil
}

// QuotaProgress compares completions in an ISO week against a weekly quota.
type QuotaProgress struct {
	WeekStart string
	WeekEnd   string
	Completed int
	Target    int
	Remaining int
	Met       bool
}

// GetWeeklyQuotaProgress counts the habit's completions in the Monday to
// Sunday week containing date. Returns ErrNotQuota for other rule kinds.
func (e *Engine) GetWeeklyQuotaProgress(ctx context.Context, habitID, date string) (QuotaProgress, error) {
	day, err := utils.ParseDateInLocation(date, e.loc)
	if err != nil {
		return QuotaProgress{}, fmt.Errorf("invalid date format: %w", err)
	}

	schedule, err := e.store.GetHabitSchedule(ctx, habitID)
	if err != nil {
		return QuotaProgress{}, fmt.Errorf("failed to load schedule: %w", err)
	}
	quota, ok := schedule.Rule.(models.WeeklyQuota)
	if !ok {
		return QuotaProgress{}, ErrNotQuota
	}

	start := utils.StartOfISOWeek(day)
	progress := QuotaProgress{
		WeekStart: utils.FormatDate(start),
		WeekEnd:   utils.FormatDate(start.AddDate(0, 0, 6)),
		Target:    quota.PerWeek,
	}

	tasks, err := e.store.GetTasks(ctx, storage.TaskFilter{
		HabitID:  habitID,
		FromDate: progress.WeekStart,
		ToDate:   progress.WeekEnd,
		Status:   models.StatusCompleted,
	})
	if err != nil {
		return QuotaProgress{}, fmt.Errorf("failed to load week tasks: %w", err)
	}

	progress.Completed = len(tasks)
	progress.Met = progress.Completed >= progress.Target
	if !progress.Met {
		progress.Remaining = progress.Target - progress.Completed
	}
	return progress, nil
}

// HabitStats bundles the per-habit figures shown by the stats command.
type HabitStats struct {
	Habit             models.Habit
	Rule              models.Recurrence
	Streak            int
	LongestStreak     int
	CompletionRate    float64
	TimeSpentSec      int64
	Last7Days         []DayCompletion
	SuggestedReminder string
	Quota             *QuotaProgress
}

func (e *Engine) GetHabitStats(ctx context.Context, habitID string) (HabitStats, error) {
	habit, err := e.store.GetHabit(ctx, habitID)
	if err != nil {
		return HabitStats{}, fmt.Errorf("failed to load habit: %w", err)
	}
	stats := HabitStats{Habit: habit}

	if schedule, err := e.store.GetHabitSchedule(ctx, habitID); err == nil {
		stats.Rule = schedule.Rule
	} else if !errors.Is(err, storage.ErrNotFound) {
		return HabitStats{}, fmt.Errorf("failed to load schedule: %w", err)
	}

	if stats.Streak, err = e.GetStreak(ctx, habitID); err != nil {
		return HabitStats{}, err
	}
	if stats.LongestStreak, err = e.GetLongestStreak(ctx, habitID); err != nil {
		return HabitStats{}, err
	}
	if stats.CompletionRate, err = e.GetCompletionRate(ctx, habitID, constants.DefaultCompletionWindowDays); err != nil {
		return HabitStats{}, err
	}
	if stats.TimeSpentSec, err = e.GetTimeSpent(ctx, habitID, constants.DefaultTimeSpentWindowDays); err != nil {
		return HabitStats{}, err
	}
	if stats.Last7Days, err = e.GetLast7DaysCompletion(ctx, habitID); err != nil {
		return HabitStats{}, err
	}
	if stats.SuggestedReminder, err = e.GetSuggestedReminderTime(ctx, habitID); err != nil {
		return HabitStats{}, err
	}
	if _, ok := stats.Rule.(models.WeeklyQuota); ok {
		quota, err := e.GetWeeklyQuotaProgress(ctx, habitID, utils.FormatDate(e.today()))
		if err != nil {
			return HabitStats{}, err
		}
		stats.Quota = &quota
	}

	return stats, nil
}
