package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
)

type DebugCmd struct {
	DBPath    *DebugDBPathCmd    `cmd:"" help:"Show database path."`
	DumpHabit *DebugDumpHabitCmd `cmd:"" help:"Dump a habit and its schedule as JSON."`
	DumpTask  *DebugDumpTaskCmd  `cmd:"" help:"Dump a task as JSON."`
	DumpDay   *DebugDumpDayCmd   `cmd:"" help:"Dump the tasks of a day as JSON."`
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *Context) error {
	return printJSON(ctx, map[string]string{"path": ctx.Store.GetConfigPath()})
}

type DebugDumpHabitCmd struct {
	ID string `arg:"" help:"ID of the habit to dump."`
}

func (cmd *DebugDumpHabitCmd) Run(ctx *Context) error {
	habit, rule, err := ctx.Habits.GetHabit(ctx.Ctx, cmd.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("habit not found: %s", cmd.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to get habit: %w", err)
	}

	out := map[string]any{"habit": habit}
	if rule != nil {
		kind, config, err := models.EncodeRecurrence(rule)
		if err != nil {
			return err
		}
		out["frequencyType"] = kind
		out["frequencyConfig"] = config
	}
	return printJSON(ctx, out)
}

type DebugDumpTaskCmd struct {
	ID string `arg:"" help:"ID of the task to dump."`
}

func (cmd *DebugDumpTaskCmd) Run(ctx *Context) error {
	task, err := ctx.Store.GetTask(ctx.Ctx, cmd.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("task not found: %s", cmd.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to get task: %w", err)
	}
	return printJSON(ctx, task)
}

type DebugDumpDayCmd struct {
	Date string `arg:"" help:"Date to dump (YYYY-MM-DD or 'today')."`
}

func (cmd *DebugDumpDayCmd) Run(ctx *Context) error {
	date, err := ctx.ResolveDate(cmd.Date)
	if err != nil {
		return err
	}
	tasks, err := ctx.Tracker.GetTasksForDate(ctx.Ctx, date)
	if err != nil {
		return fmt.Errorf("failed to get tasks: %w", err)
	}
	return printJSON(ctx, map[string]any{"date": date, "tasks": tasks})
}

func printJSON(ctx *Context, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.Println(string(jsonBytes))
	return nil
}
