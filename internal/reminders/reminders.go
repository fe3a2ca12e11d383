// Package reminders decides which habit reminders are due at a point in
// time. Delivering them is left to the caller.
package reminders

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/utils"
	"github.com/julianstephens/habitual/internal/validation"
)

// Reminder is one pending task whose reminder time has passed.
// ScheduleID is empty when the default reminder time applied.
type Reminder struct {
	TaskID     string
	HabitID    string
	HabitTitle string
	At         string // HH:MM
	ScheduleID string
}

type Planner struct {
	store     storage.Provider
	loc       *time.Location
	validator *validation.Validator
}

func New(store storage.Provider, loc *time.Location) *Planner {
	if loc == nil {
		loc = time.Local
	}
	return &Planner{store: store, loc: loc, validator: validation.New()}
}

// DueReminders returns reminders for today's pending tasks of active habits
// whose configured time is at or before now. A habit with no notification
// schedule uses the default reminder time; a habit whose schedules are all
// disabled gets none. Nothing is returned when notifications are disabled
// or now falls inside quiet hours.
func (p *Planner) DueReminders(ctx context.Context, now time.Time) ([]Reminder, error) {
	settings, err := p.store.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	if !settings.NotificationsEnabled {
		return nil, nil
	}

	local := now.In(p.loc)
	minute := local.Hour()*60 + local.Minute()
	if quiet, err := inQuietHours(settings.QuietHoursStart, settings.QuietHoursEnd, minute); err != nil {
		logger.For("reminders").Warn("Ignoring malformed quiet hours", "start", settings.QuietHoursStart, "end", settings.QuietHoursEnd, "error", err)
	} else if quiet {
		return nil, nil
	}

	tasks, err := p.store.GetTasksForDate(ctx, utils.FormatDate(local))
	if err != nil {
		return nil, err
	}

	habits, err := p.store.GetAllHabits(ctx, false)
	if err != nil {
		return nil, err
	}
	active := make(map[string]bool, len(habits))
	for _, h := range habits {
		active[h.ID] = h.Active()
	}

	schedules, err := p.store.GetNotificationSchedules(ctx, "")
	if err != nil {
		return nil, err
	}
	byHabit := make(map[string][]models.NotificationSchedule)
	for _, s := range schedules {
		byHabit[s.HabitID] = append(byHabit[s.HabitID], s)
	}

	var due []Reminder
	for _, task := range tasks {
		if task.Status != models.StatusPending || !active[task.HabitID] {
			continue
		}

		configured := byHabit[task.HabitID]
		if len(configured) == 0 {
			if passed(constants.DefaultReminderTime, minute) {
				due = append(due, Reminder{TaskID: task.ID, HabitID: task.HabitID, HabitTitle: task.Title, At: constants.DefaultReminderTime})
			}
			continue
		}

		for _, s := range configured {
			if !s.Enabled || !s.AppliesOn(local) || !passed(s.Time, minute) {
				continue
			}
			due = append(due, Reminder{TaskID: task.ID, HabitID: task.HabitID, HabitTitle: task.Title, At: s.Time, ScheduleID: s.ID})
		}
	}

	sort.SliceStable(due, func(i, j int) bool {
		if due[i].At != due[j].At {
			return due[i].At < due[j].At
		}
		return due[i].HabitTitle < due[j].HabitTitle
	})
	return due, nil
}

// AddSchedule stores a reminder time for a habit and returns its id.
// An empty days list means every day.
func (p *Planner) AddSchedule(ctx context.Context, habitID, at string, days []time.Weekday) (string, error) {
	schedule := models.NotificationSchedule{
		ID:         uuid.New().String(),
		HabitID:    habitID,
		Time:       at,
		DaysOfWeek: days,
		Enabled:    true,
	}
	result := p.validator.ValidateNotificationSchedule(schedule)
	if err := result.Err(); err != nil {
		return "", err
	}
	if _, err := p.store.GetHabit(ctx, habitID); err != nil {
		return "", fmt.Errorf("failed to load habit %s: %w", habitID, err)
	}
	if err := p.store.SaveNotificationSchedule(ctx, schedule); err != nil {
		return "", err
	}
	return schedule.ID, nil
}

// ListSchedules returns the reminder schedules of one habit, or of every
// habit when habitID is empty.
func (p *Planner) ListSchedules(ctx context.Context, habitID string) ([]models.NotificationSchedule, error) {
	return p.store.GetNotificationSchedules(ctx, habitID)
}

func (p *Planner) DeleteSchedule(ctx context.Context, id string) error {
	return p.store.DeleteNotificationSchedule(ctx, id)
}

func passed(at string, minute int) bool {
	m, err := utils.ParseTimeToMinutes(at)
	if err != nil {
		return false
	}
	return m <= minute
}

// inQuietHours reports whether minute lies in [start, end). A range whose
// end is before its start wraps past midnight. Empty bounds disable it.
func inQuietHours(start, end string, minute int) (bool, error) {
	if start == "" || end == "" {
		return false, nil
	}
	s, err := utils.ParseTimeToMinutes(start)
	if err != nil {
		return false, err
	}
	e, err := utils.ParseTimeToMinutes(end)
	if err != nil {
		return false, err
	}
	switch {
	case s == e:
		return false, nil
	case s < e:
		return minute >= s && minute < e, nil
	default:
		return minute >= s || minute < e, nil
	}
}
