package validation

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/utils"
)

// ErrInvalid wraps every error returned by ValidationResult.Err.
var ErrInvalid = errors.New("validation failed")

// ProblemType represents the kind of validation problem
type ProblemType string

const (
	ProblemEmptyTitle          ProblemType = "empty_title"
	ProblemInvalidHabitType    ProblemType = "invalid_habit_type"
	ProblemNegativeTarget      ProblemType = "negative_target"
	ProblemInvalidRecurrence   ProblemType = "invalid_recurrence"
	ProblemInvalidDate         ProblemType = "invalid_date"
	ProblemInvalidTime         ProblemType = "invalid_time"
	ProblemMissingSchedule     ProblemType = "missing_schedule"
	ProblemDuplicateHabitTitle ProblemType = "duplicate_habit_title"
	ProblemUnknownHabit        ProblemType = "unknown_habit"
)

// Problem is a single validation finding
type Problem struct {
	Type        ProblemType
	Description string
	Items       []string // titles involved
	IDs         []string // ids involved
}

// ValidationResult contains all detected problems
type ValidationResult struct {
	Problems []Problem
}

// HasProblems returns true if there are any problems
func (vr *ValidationResult) HasProblems() bool {
	return len(vr.Problems) > 0
}

// FormatReport returns a human-readable report of all problems
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasProblems() {
		return "No problems detected."
	}

	var b strings.Builder
	b.WriteString("Problems detected:\n")
	for _, p := range vr.Problems {
		fmt.Fprintf(&b, "- %s\n", p.Description)
	}
	return b.String()
}

// Err returns nil when there are no problems, and otherwise an error
// wrapping ErrInvalid that lists every problem.
func (vr *ValidationResult) Err() error {
	if !vr.HasProblems() {
		return nil
	}
	descriptions := make([]string, 0, len(vr.Problems))
	for _, p := range vr.Problems {
		descriptions = append(descriptions, p.Description)
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(descriptions, "; "))
}

func (vr *ValidationResult) add(t ProblemType, format string, args ...any) {
	vr.Problems = append(vr.Problems, Problem{Type: t, Description: fmt.Sprintf(format, args...)})
}

// Validator checks creation payloads and stored data
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateHabit checks a habit and the rule it will be scheduled with.
func (v *Validator) ValidateHabit(h models.Habit, rule models.Recurrence) ValidationResult {
	result := ValidationResult{}

	if strings.TrimSpace(h.Title) == "" {
		result.add(ProblemEmptyTitle, "Habit title cannot be empty")
	}
	if !h.Type.Valid() {
		result.add(ProblemInvalidHabitType, "Habit \"%s\" has invalid type: %q", h.Title, h.Type)
	}
	if h.TargetValue != nil && *h.TargetValue < 0 {
		result.add(ProblemNegativeTarget, "Habit \"%s\" has negative target value: %g", h.Title, *h.TargetValue)
	}
	if err := utils.CheckRecurrence(rule); err != nil {
		result.add(ProblemInvalidRecurrence, "Habit \"%s\" has an invalid schedule: %v", h.Title, err)
	}

	return result
}

// ValidateGoal checks a goal before it is created or updated.
func (v *Validator) ValidateGoal(g models.Goal) ValidationResult {
	result := ValidationResult{}

	if strings.TrimSpace(g.Title) == "" {
		result.add(ProblemEmptyTitle, "Goal title cannot be empty")
	}
	if g.TargetValue < 0 {
		result.add(ProblemNegativeTarget, "Goal \"%s\" has negative target value: %g", g.Title, g.TargetValue)
	}
	if !utils.ValidateDateFormat(g.StartDate) {
		result.add(ProblemInvalidDate, "Goal \"%s\" has invalid start date: %q", g.Title, g.StartDate)
	}
	if g.EndDate != nil {
		if !utils.ValidateDateFormat(*g.EndDate) {
			result.add(ProblemInvalidDate, "Goal \"%s\" has invalid end date: %q", g.Title, *g.EndDate)
		} else if utils.ValidateDateFormat(g.StartDate) && *g.EndDate < g.StartDate {
			result.add(ProblemInvalidDate, "Goal \"%s\" ends (%s) before it starts (%s)", g.Title, *g.EndDate, g.StartDate)
		}
	}

	return result
}

// ValidateNotificationSchedule checks a reminder schedule.
func (v *Validator) ValidateNotificationSchedule(n models.NotificationSchedule) ValidationResult {
	result := ValidationResult{}
	if err := n.Validate(); err != nil {
		result.add(ProblemInvalidTime, "Reminder for habit %s is invalid: %v", n.HabitID, err)
	}
	return result
}

// ValidateData checks stored habits, schedules and goals for inconsistencies
// that the database constraints cannot express.
func (v *Validator) ValidateData(habits []models.Habit, schedules []models.HabitSchedule, goals []models.Goal) ValidationResult {
	result := ValidationResult{}

	habitByID := make(map[string]models.Habit, len(habits))
	titleIDs := make(map[string][]string)
	for _, h := range habits {
		habitByID[h.ID] = h
		if h.Archived {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(h.Title))
		if key == "" {
			continue
		}
		titleIDs[key] = append(titleIDs[key], h.ID)
	}

	// Sort for a stable report
	titles := make([]string, 0, len(titleIDs))
	for title := range titleIDs {
		titles = append(titles, title)
	}
	sort.Strings(titles)
	for _, title := range titles {
		ids := titleIDs[title]
		if len(ids) < 2 {
			continue
		}
		result.Problems = append(result.Problems, Problem{
			Type:        ProblemDuplicateHabitTitle,
			Description: fmt.Sprintf("Duplicate habit title: \"%s\" (IDs: %v)", habitByID[ids[0]].Title, ids),
			Items:       []string{habitByID[ids[0]].Title},
			IDs:         ids,
		})
	}

	scheduled := make(map[string]bool)
	for _, sch := range schedules {
		scheduled[sch.HabitID] = true
		h, ok := habitByID[sch.HabitID]
		if !ok {
			continue
		}
		if err := utils.CheckRecurrence(sch.Rule); err != nil {
			result.Problems = append(result.Problems, Problem{
				Type:        ProblemInvalidRecurrence,
				Description: fmt.Sprintf("Habit \"%s\" has an invalid schedule and will never be due: %v", h.Title, err),
				Items:       []string{h.Title},
				IDs:         []string{h.ID},
			})
		}
	}

	for _, h := range habits {
		if !scheduled[h.ID] {
			result.Problems = append(result.Problems, Problem{
				Type:        ProblemMissingSchedule,
				Description: fmt.Sprintf("Habit \"%s\" has no schedule and will never be due", h.Title),
				Items:       []string{h.Title},
				IDs:         []string{h.ID},
			})
		}
	}

	for _, g := range goals {
		if g.HabitID == nil {
			continue
		}
		if _, ok := habitByID[*g.HabitID]; !ok {
			result.Problems = append(result.Problems, Problem{
				Type:        ProblemUnknownHabit,
				Description: fmt.Sprintf("Goal \"%s\" references unknown habit %s", g.Title, *g.HabitID),
				Items:       []string{g.Title},
				IDs:         []string{g.ID},
			})
		}
	}

	return result
}
