package models

import (
	"fmt"
	"time"
)

// NotificationSchedule is a reminder time configured for a habit
type NotificationSchedule struct {
	ID         string         `json:"id"`
	HabitID    string         `json:"habitId"`
	Time       string         `json:"time"` // HH:MM format
	DaysOfWeek []time.Weekday `json:"daysOfWeek"`
	Enabled    bool           `json:"isEnabled"`
}

func (n *NotificationSchedule) Validate() error {
	if n.HabitID == "" {
		return fmt.Errorf("notification schedule requires a habit")
	}
	if _, err := time.Parse("15:04", n.Time); err != nil {
		return fmt.Errorf("invalid time format (expected HH:MM): %w", err)
	}
	for _, d := range n.DaysOfWeek {
		if d < time.Sunday || d > time.Saturday {
			return fmt.Errorf("invalid weekday %d", d)
		}
	}
	return nil
}

// AppliesOn reports whether the schedule fires on the weekday of date.
// An empty weekday list means every day.
func (n *NotificationSchedule) AppliesOn(date time.Time) bool {
	if len(n.DaysOfWeek) == 0 {
		return true
	}
	for _, d := range n.DaysOfWeek {
		if d == date.Weekday() {
			return true
		}
	}
	return false
}

// ReflectionEntry is a free-form journal entry, optionally tied to a habit
type ReflectionEntry struct {
	ID      string  `json:"id"`
	Date    string  `json:"date"` // YYYY-MM-DD format
	HabitID *string `json:"habitId,omitempty"`
	Content string  `json:"content"`
	Mood    string  `json:"mood,omitempty"`
}
