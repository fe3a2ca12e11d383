package cli

import (
	"fmt"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/validation"
)

type ValidateCmd struct{}

func (cmd *ValidateCmd) Run(ctx *Context) error {
	ctx.Println("Validating habits, schedules and goals...")
	result, err := validateData(ctx)
	if err != nil {
		return err
	}

	ctx.Println()
	ctx.Println(result.FormatReport())
	return nil
}

func validateData(ctx *Context) (validation.ValidationResult, error) {
	habits, err := ctx.Store.GetAllHabits(ctx.Ctx, true)
	if err != nil {
		return validation.ValidationResult{}, fmt.Errorf("failed to load habits: %w", err)
	}
	schedules, err := ctx.Store.GetAllHabitSchedules(ctx.Ctx)
	if err != nil {
		return validation.ValidationResult{}, fmt.Errorf("failed to load schedules: %w", err)
	}
	views, err := ctx.Store.GetGoals(ctx.Ctx, "")
	if err != nil {
		return validation.ValidationResult{}, fmt.Errorf("failed to load goals: %w", err)
	}
	goals := make([]models.Goal, len(views))
	for i, g := range views {
		goals[i] = g.Goal
	}

	return validation.New().ValidateData(habits, schedules, goals), nil
}
