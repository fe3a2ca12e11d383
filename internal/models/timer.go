package models

import "time"

// TimerSession is an append-only record of a timed session for a duration habit
type TimerSession struct {
	ID           string    `json:"id"`
	HabitID      string    `json:"habitId"`
	StartTime    time.Time `json:"startTime"`
	EndTime      time.Time `json:"endTime"`
	DurationSec  int64     `json:"duration"`
	WasCompleted bool      `json:"wasCompleted"`
	Reflection   string    `json:"reflection,omitempty"`
}

// Reflection is a timer session reflection joined with its habit title
type Reflection struct {
	SessionID    string
	HabitID      string
	HabitTitle   string
	StartTime    time.Time
	Text         string
	WasCompleted bool
}
