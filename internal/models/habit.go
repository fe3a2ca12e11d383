package models

import (
	"fmt"
	"time"
)

// HabitType describes how a habit is measured
type HabitType string

const (
	HabitBoolean  HabitType = "boolean"
	HabitCount    HabitType = "count"
	HabitDuration HabitType = "duration"
)

// Valid reports whether t is one of the known habit types
func (t HabitType) Valid() bool {
	switch t {
	case HabitBoolean, HabitCount, HabitDuration:
		return true
	}
	return false
}

// ParseHabitType parses a habit type name
func ParseHabitType(s string) (HabitType, error) {
	t := HabitType(s)
	if !t.Valid() {
		return "", fmt.Errorf("invalid habit type %q (expected boolean, count or duration)", s)
	}
	return t, nil
}

// Habit represents a recurring practice to track.
// Color and Icon are carried for display only.
type Habit struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	Color       string    `json:"color,omitempty"`
	Type        HabitType `json:"type"`
	TargetValue *float64  `json:"targetValue,omitempty"`
	TargetUnit  string    `json:"targetUnit,omitempty"`
	Archived    bool      `json:"isArchived"`
	Paused      bool      `json:"isPaused"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Active reports whether the habit may produce new tasks
func (h Habit) Active() bool {
	return !h.Archived && !h.Paused
}

// HabitSchedule is the persisted recurrence rule of a habit
type HabitSchedule struct {
	ID      string     `json:"id"`
	HabitID string     `json:"habitId"`
	Rule    Recurrence `json:"-"`
}

// ScheduledHabit pairs an active habit with its recurrence rule
type ScheduledHabit struct {
	Habit Habit
	Rule  Recurrence
}
