package models

// GoalStatus is the lifecycle state of a goal
type GoalStatus string

const (
	GoalActive    GoalStatus = "active"
	GoalAchieved  GoalStatus = "achieved"
	GoalAbandoned GoalStatus = "abandoned"
)

// Goal is a target tracked against an optional habit's history.
// CurrentValue is only ever written by the progress updater.
type Goal struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	HabitID      *string    `json:"habitId,omitempty"`
	TargetValue  float64    `json:"targetValue"`
	CurrentValue float64    `json:"currentValue"`
	StartDate    string     `json:"startDate"`         // YYYY-MM-DD format
	EndDate      *string    `json:"endDate,omitempty"` // YYYY-MM-DD format
	Status       GoalStatus `json:"status"`
}

// GoalView is a goal joined with its linked habit's title
type GoalView struct {
	Goal
	HabitTitle string
}
