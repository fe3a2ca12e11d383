package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitual/internal/analytics"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *Context) error {
	ctx.PerformAutomaticBackup()

	p := tea.NewProgram(tui.NewModel(ctx.Ctx, tuiBackend{ctx}, ctx.Today()), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// tuiBackend routes board actions through the same services as the commands.
type tuiBackend struct {
	c *Context
}

func (b tuiBackend) LoadDay(ctx context.Context, date string) ([]models.TaskView, error) {
	if _, err := b.c.Scheduler.GenerateTasksForDate(ctx, date); err != nil {
		return nil, err
	}
	return b.c.Tracker.GetTasksForDate(ctx, date)
}

func (b tuiBackend) SetStatus(ctx context.Context, taskID string, status models.TaskStatus) error {
	if err := b.c.Tracker.UpdateTaskStatus(ctx, taskID, status, nil); err != nil {
		return err
	}
	b.c.refreshGoals()
	return nil
}

func (b tuiBackend) Postpone(ctx context.Context, taskID string) error {
	if err := b.c.Tracker.PostponeTask(ctx, taskID); err != nil {
		return err
	}
	b.c.refreshGoals()
	return nil
}

func (b tuiBackend) Review(ctx context.Context) (analytics.WeeklyReview, error) {
	return b.c.Analytics.GetWeeklyReview(ctx, 0)
}
