package models

import (
	"fmt"
	"time"
)

// TaskStatus is the state of a materialized task
type TaskStatus string

const (
	StatusPending   TaskStatus = "pending"
	StatusCompleted TaskStatus = "completed"
	StatusSkipped   TaskStatus = "skipped"
	StatusPostponed TaskStatus = "postponed"
)

// Valid reports whether s is a known task status
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusSkipped, StatusPostponed:
		return true
	}
	return false
}

// ParseTaskStatus parses a task status name
func ParseTaskStatus(s string) (TaskStatus, error) {
	status := TaskStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("invalid task status %q", s)
	}
	return status, nil
}

// TaskInstance is the obligation "this habit was due on this date".
// At most one exists per (HabitID, Date).
type TaskInstance struct {
	ID              string     `json:"id"`
	HabitID         string     `json:"habitId"`
	Date            string     `json:"date"` // YYYY-MM-DD format
	Status          TaskStatus `json:"status"`
	CompletionValue *float64   `json:"completionValue,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
}

// TaskView is a task joined with its habit's display fields
type TaskView struct {
	TaskInstance
	Title       string
	Type        HabitType
	TargetValue *float64
	TargetUnit  string
	Color       string
	Icon        string
}

// DayStatus is the status of a habit's task on one date
type DayStatus struct {
	Date   string
	Status TaskStatus
}
