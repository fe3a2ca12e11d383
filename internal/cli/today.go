package cli

import (
	"fmt"
	"strings"

	"github.com/julianstephens/habitual/internal/models"
)

type TodayCmd struct {
	Date string `arg:"" optional:"" help:"Date to show (YYYY-MM-DD, 'today' or 'yesterday')."`
}

func (c *TodayCmd) Run(ctx *Context) error {
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}

	if _, err := ctx.Scheduler.GenerateTasksForDate(ctx.Ctx, date); err != nil {
		return err
	}
	tasks, err := ctx.Tracker.GetTasksForDate(ctx.Ctx, date)
	if err != nil {
		return err
	}

	ctx.Println(headerStyle.Render("Habits for " + date))
	if len(tasks) == 0 {
		ctx.Println(mutedStyle.Render("Nothing scheduled. Add a habit with 'habitual habit add'."))
		return nil
	}

	done := 0
	for _, t := range tasks {
		if t.Status == models.StatusCompleted {
			done++
		}
		ctx.Printf("  %s %s%s\n", renderStatus(t.Status), t.Title, describeProgress(t))
	}
	ctx.Printf("\n%d of %d done\n", done, len(tasks))
	return nil
}

func describeProgress(t models.TaskView) string {
	var parts []string
	if t.TargetValue != nil {
		current := 0.0
		if t.CompletionValue != nil {
			current = *t.CompletionValue
		}
		parts = append(parts, strings.TrimSpace(fmt.Sprintf("%g/%g %s", current, *t.TargetValue, t.TargetUnit)))
	}
	if t.Status != models.StatusPending && t.Status != models.StatusCompleted {
		parts = append(parts, string(t.Status))
	}
	if len(parts) == 0 {
		return ""
	}
	return mutedStyle.Render("  (" + strings.Join(parts, ", ") + ")")
}
