package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/julianstephens/habitual/internal/models"
)

func hasProblem(result ValidationResult, t ProblemType) bool {
	for _, p := range result.Problems {
		if p.Type == t {
			return true
		}
	}
	return false
}

func TestValidateHabit(t *testing.T) {
	validator := New()
	negative := -1.0
	positive := 20.0

	tests := []struct {
		name  string
		habit models.Habit
		rule  models.Recurrence
		want  []ProblemType
	}{
		{
			name:  "valid",
			habit: models.Habit{Title: "Read", Type: models.HabitDuration, TargetValue: &positive},
			rule:  models.Daily{},
		},
		{
			name:  "empty title",
			habit: models.Habit{Title: "   ", Type: models.HabitBoolean},
			rule:  models.Daily{},
			want:  []ProblemType{ProblemEmptyTitle},
		},
		{
			name:  "negative target",
			habit: models.Habit{Title: "Pushups", Type: models.HabitCount, TargetValue: &negative},
			rule:  models.Daily{},
			want:  []ProblemType{ProblemNegativeTarget},
		},
		{
			name:  "bad type",
			habit: models.Habit{Title: "Mystery", Type: "weekly"},
			rule:  models.Daily{},
			want:  []ProblemType{ProblemInvalidHabitType},
		},
		{
			name:  "zero interval",
			habit: models.Habit{Title: "Water plants", Type: models.HabitBoolean},
			rule:  models.Interval{Every: 0},
			want:  []ProblemType{ProblemInvalidRecurrence},
		},
		{
			name:  "no days",
			habit: models.Habit{Title: "Gym", Type: models.HabitBoolean},
			rule:  models.SpecificDays{},
			want:  []ProblemType{ProblemInvalidRecurrence},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validator.ValidateHabit(tt.habit, tt.rule)
			if len(result.Problems) != len(tt.want) {
				t.Fatalf("expected %d problems, got %d: %s", len(tt.want), len(result.Problems), result.FormatReport())
			}
			for _, want := range tt.want {
				if !hasProblem(result, want) {
					t.Errorf("expected problem %s, got %s", want, result.FormatReport())
				}
			}
			if len(tt.want) > 0 && !errors.Is(result.Err(), ErrInvalid) {
				t.Errorf("expected Err() to wrap ErrInvalid, got %v", result.Err())
			}
			if len(tt.want) == 0 && result.Err() != nil {
				t.Errorf("expected nil Err(), got %v", result.Err())
			}
		})
	}
}

func TestValidateGoal(t *testing.T) {
	validator := New()
	before := "2024-05-01"
	bad := "June 1st"

	tests := []struct {
		name string
		goal models.Goal
		want ProblemType
	}{
		{"empty title", models.Goal{Title: "", TargetValue: 5, StartDate: "2024-06-01"}, ProblemEmptyTitle},
		{"negative target", models.Goal{Title: "Run", TargetValue: -5, StartDate: "2024-06-01"}, ProblemNegativeTarget},
		{"bad start", models.Goal{Title: "Run", TargetValue: 5, StartDate: "06/01/2024"}, ProblemInvalidDate},
		{"bad end", models.Goal{Title: "Run", TargetValue: 5, StartDate: "2024-06-01", EndDate: &bad}, ProblemInvalidDate},
		{"end before start", models.Goal{Title: "Run", TargetValue: 5, StartDate: "2024-06-01", EndDate: &before}, ProblemInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validator.ValidateGoal(tt.goal)
			if !hasProblem(result, tt.want) {
				t.Errorf("expected problem %s, got %s", tt.want, result.FormatReport())
			}
		})
	}

	ok := validator.ValidateGoal(models.Goal{Title: "Read 20 books", TargetValue: 0, StartDate: "2024-01-01"})
	if ok.HasProblems() {
		t.Errorf("expected zero target to be valid, got %s", ok.FormatReport())
	}
}

func TestValidateData(t *testing.T) {
	validator := New()
	unknown := "ghost"

	habits := []models.Habit{
		{ID: "1", Title: "Read"},
		{ID: "2", Title: "read"},
		{ID: "3", Title: "Walk"},
		{ID: "4", Title: "Old", Archived: true},
	}
	schedules := []models.HabitSchedule{
		{ID: "s1", HabitID: "1", Rule: models.Daily{}},
		{ID: "s2", HabitID: "2", Rule: models.Daily{}},
		{ID: "s3", HabitID: "3", Rule: models.InvalidRecurrence{Kind: "fortnightly"}},
	}
	goals := []models.Goal{{ID: "g1", Title: "Orphan", HabitID: &unknown}}

	result := validator.ValidateData(habits, schedules, goals)

	for _, want := range []ProblemType{ProblemDuplicateHabitTitle, ProblemInvalidRecurrence, ProblemMissingSchedule, ProblemUnknownHabit} {
		if !hasProblem(result, want) {
			t.Errorf("expected problem %s, got %s", want, result.FormatReport())
		}
	}
	if len(result.Problems) != 4 {
		t.Errorf("expected 4 problems, got %d: %s", len(result.Problems), result.FormatReport())
	}
	if !strings.HasPrefix(result.FormatReport(), "Problems detected:") {
		t.Errorf("unexpected report: %s", result.FormatReport())
	}
}

func TestFormatReport_NoProblems(t *testing.T) {
	result := ValidationResult{}
	if got := result.FormatReport(); got != "No problems detected." {
		t.Errorf("FormatReport() = %q", got)
	}
}
