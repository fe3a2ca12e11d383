package storage

import (
	"context"
	"errors"
	"time"

	"github.com/julianstephens/habitual/internal/models"
)

// ErrNotFound is returned when a lookup by id matches no row.
var ErrNotFound = errors.New("not found")

// TaskFilter narrows task queries to one habit and an inclusive date range.
// Empty fields are unbounded.
type TaskFilter struct {
	HabitID  string
	FromDate string // YYYY-MM-DD
	ToDate   string // YYYY-MM-DD
	Status   models.TaskStatus
}

// SessionFilter narrows timer session queries. A zero Since is unbounded.
type SessionFilter struct {
	HabitID string
	Since   time.Time
	Until   time.Time
}

type Provider interface {
	// Lifecycle
	Init(ctx context.Context) error
	Load(ctx context.Context) error
	Close() error

	// WithTx runs fn against a Provider bound to a single transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	// Calling WithTx on a transactional Provider joins the outer transaction.
	WithTx(ctx context.Context, fn func(Provider) error) error

	// Settings
	GetSettings(ctx context.Context) (models.Settings, error)
	SaveSettings(ctx context.Context, settings models.Settings) error

	// Habits
	SaveHabit(ctx context.Context, habit models.Habit) error
	GetHabit(ctx context.Context, id string) (models.Habit, error)
	GetAllHabits(ctx context.Context, includeArchived bool) ([]models.Habit, error)
	DeleteHabit(ctx context.Context, id string) error

	// Habit schedules
	SaveHabitSchedule(ctx context.Context, schedule models.HabitSchedule) error
	GetHabitSchedule(ctx context.Context, habitID string) (models.HabitSchedule, error)
	GetAllHabitSchedules(ctx context.Context) ([]models.HabitSchedule, error)
	// GetActiveScheduledHabits returns every habit that is neither archived
	// nor paused, joined with its recurrence rule.
	GetActiveScheduledHabits(ctx context.Context) ([]models.ScheduledHabit, error)

	// Tasks
	// CreateTaskIfAbsent inserts task unless a task already exists for the
	// same habit and date. It reports whether a row was inserted.
	CreateTaskIfAbsent(ctx context.Context, task models.TaskInstance) (bool, error)
	SaveTask(ctx context.Context, task models.TaskInstance) error
	GetTask(ctx context.Context, id string) (models.TaskInstance, error)
	GetTaskForHabitOnDate(ctx context.Context, habitID, date string) (models.TaskInstance, error)
	GetTasksForDate(ctx context.Context, date string) ([]models.TaskView, error)
	GetTasks(ctx context.Context, filter TaskFilter) ([]models.TaskInstance, error)
	UpdateTaskStatus(ctx context.Context, id string, status models.TaskStatus, value *float64, completedAt *time.Time) error

	// Timer sessions
	SaveTimerSession(ctx context.Context, session models.TimerSession) error
	GetTimerSessions(ctx context.Context, filter SessionFilter) ([]models.TimerSession, error)
	SumTimerDuration(ctx context.Context, filter SessionFilter) (int64, error)
	GetReflections(ctx context.Context) ([]models.Reflection, error)

	// Goals
	SaveGoal(ctx context.Context, goal models.Goal) error
	GetGoal(ctx context.Context, id string) (models.Goal, error)
	GetGoals(ctx context.Context, status models.GoalStatus) ([]models.GoalView, error)
	DeleteGoal(ctx context.Context, id string) error

	// Notification schedules
	SaveNotificationSchedule(ctx context.Context, schedule models.NotificationSchedule) error
	GetNotificationSchedules(ctx context.Context, habitID string) ([]models.NotificationSchedule, error)
	DeleteNotificationSchedule(ctx context.Context, id string) error

	// Reflection entries
	SaveReflectionEntry(ctx context.Context, entry models.ReflectionEntry) error
	GetReflectionEntries(ctx context.Context) ([]models.ReflectionEntry, error)

	// Utils
	GetConfigPath() string
}
