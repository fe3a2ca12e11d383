package cli

import (
	"errors"
	"fmt"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/utils"
)

type TaskCmd struct {
	Done     TaskDoneCmd     `cmd:"" help:"Mark a habit done for a day."`
	Skip     TaskSkipCmd     `cmd:"" help:"Skip a habit for a day."`
	Postpone TaskPostponeCmd `cmd:"" help:"Postpone a habit to the next day."`
	Undo     TaskUndoCmd     `cmd:"" help:"Return a task to pending."`
	List     TaskListCmd     `cmd:"" help:"List a habit's task history."`
}

// TaskRef names a task by habit and date, or by task ID.
type TaskRef struct {
	Habit string `arg:"" help:"Habit title or ID, or a task ID."`
	Date  string `help:"Date of the task (YYYY-MM-DD, 'today' or 'yesterday')." short:"d"`
}

// lookup finds the task, materializing the day first so a due habit
// always has a task to act on.
func (r TaskRef) lookup(ctx *Context) (models.TaskInstance, string, error) {
	date, err := ctx.ResolveDate(r.Date)
	if err != nil {
		return models.TaskInstance{}, "", err
	}

	habit, err := ctx.Habits.FindHabit(ctx.Ctx, r.Habit)
	if errors.Is(err, storage.ErrNotFound) {
		task, taskErr := ctx.Store.GetTask(ctx.Ctx, r.Habit)
		if taskErr != nil {
			return models.TaskInstance{}, "", err
		}
		h, err := ctx.Store.GetHabit(ctx.Ctx, task.HabitID)
		if err != nil {
			return models.TaskInstance{}, "", err
		}
		return task, h.Title, nil
	}
	if err != nil {
		return models.TaskInstance{}, "", err
	}

	if _, err := ctx.Scheduler.GenerateTasksForDate(ctx.Ctx, date); err != nil {
		return models.TaskInstance{}, "", err
	}
	task, err := ctx.Store.GetTaskForHabitOnDate(ctx.Ctx, habit.ID, date)
	if errors.Is(err, storage.ErrNotFound) {
		return models.TaskInstance{}, "", fmt.Errorf("%s is not scheduled on %s: %w", habit.Title, date, err)
	}
	if err != nil {
		return models.TaskInstance{}, "", err
	}
	return task, habit.Title, nil
}

type TaskDoneCmd struct {
	TaskRef
	Value *float64 `help:"Completion value (count or minutes)."`
}

func (c *TaskDoneCmd) Run(ctx *Context) error {
	task, title, err := c.lookup(ctx)
	if err != nil {
		return err
	}
	if err := ctx.Tracker.UpdateTaskStatus(ctx.Ctx, task.ID, models.StatusCompleted, c.Value); err != nil {
		return err
	}
	ctx.refreshGoals()
	ctx.Printf("%s %s on %s\n", renderStatus(models.StatusCompleted), title, task.Date)
	return nil
}

type TaskSkipCmd struct {
	TaskRef
}

func (c *TaskSkipCmd) Run(ctx *Context) error {
	task, title, err := c.lookup(ctx)
	if err != nil {
		return err
	}
	if err := ctx.Tracker.UpdateTaskStatus(ctx.Ctx, task.ID, models.StatusSkipped, nil); err != nil {
		return err
	}
	ctx.refreshGoals()
	ctx.Printf("%s Skipped %s on %s\n", renderStatus(models.StatusSkipped), title, task.Date)
	return nil
}

type TaskPostponeCmd struct {
	TaskRef
}

func (c *TaskPostponeCmd) Run(ctx *Context) error {
	task, title, err := c.lookup(ctx)
	if err != nil {
		return err
	}
	if err := ctx.Tracker.PostponeTask(ctx.Ctx, task.ID); err != nil {
		return err
	}
	ctx.refreshGoals()
	ctx.Printf("%s Postponed %s from %s\n", renderStatus(models.StatusPostponed), title, task.Date)
	return nil
}

type TaskUndoCmd struct {
	TaskRef
}

func (c *TaskUndoCmd) Run(ctx *Context) error {
	task, title, err := c.lookup(ctx)
	if err != nil {
		return err
	}
	if err := ctx.Tracker.UndoTask(ctx.Ctx, task.ID); err != nil {
		return err
	}
	ctx.refreshGoals()
	ctx.Printf("%s %s on %s is pending again\n", renderStatus(models.StatusPending), title, task.Date)
	return nil
}

type TaskListCmd struct {
	Habit  string `arg:"" help:"Habit title or ID."`
	From   string `help:"First date (YYYY-MM-DD)."`
	To     string `help:"Last date (YYYY-MM-DD)."`
	Status string `help:"Only tasks with this status." enum:",pending,completed,skipped,postponed" default:""`
}

func (c *TaskListCmd) Run(ctx *Context) error {
	habit, err := ctx.Habits.FindHabit(ctx.Ctx, c.Habit)
	if err != nil {
		return err
	}
	for _, d := range []string{c.From, c.To} {
		if d != "" && !utils.ValidateDateFormat(d) {
			return fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", d)
		}
	}

	tasks, err := ctx.Store.GetTasks(ctx.Ctx, storage.TaskFilter{
		HabitID:  habit.ID,
		FromDate: c.From,
		ToDate:   c.To,
		Status:   models.TaskStatus(c.Status),
	})
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		ctx.Println("No tasks found.")
		return nil
	}

	ctx.Println(headerStyle.Render(habit.Title))
	for _, t := range tasks {
		line := fmt.Sprintf("  %s %s  %s", renderStatus(t.Status), t.Date, t.Status)
		if t.CompletionValue != nil {
			line += fmt.Sprintf("  %g %s", *t.CompletionValue, habit.TargetUnit)
		}
		ctx.Println(line)
	}
	return nil
}
