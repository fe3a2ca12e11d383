package cli

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitual/internal/tracker"
	"github.com/julianstephens/habitual/internal/utils"
)

type TimerCmd struct {
	Log  TimerLogCmd  `cmd:"" help:"Log a finished timer session."`
	List TimerListCmd `cmd:"" help:"List a habit's timer sessions."`
}

type TimerLogCmd struct {
	Habit      string `arg:"" help:"Habit title or ID."`
	Minutes    int    `help:"Session length in minutes." required:"" short:"m"`
	Start      string `help:"Start time (HH:MM today, or RFC3339). Defaults to now minus the session length."`
	Completed  bool   `help:"The session reached its target; marks the day's task completed."`
	Reflection string `help:"Reflection on the session." short:"r"`
}

func (c *TimerLogCmd) Run(ctx *Context) error {
	if c.Minutes <= 0 {
		return fmt.Errorf("--minutes must be positive")
	}
	habit, err := ctx.Habits.FindHabit(ctx.Ctx, c.Habit)
	if err != nil {
		return err
	}

	length := time.Duration(c.Minutes) * time.Minute
	start, err := c.startTime(ctx, length)
	if err != nil {
		return err
	}

	// A completed session completes the day's task, so the day must exist.
	if _, err := ctx.Scheduler.GenerateTasksForDate(ctx.Ctx, utils.FormatDate(start.In(ctx.Loc))); err != nil {
		return err
	}

	id, err := ctx.Tracker.LogTimerSession(ctx.Ctx, tracker.TimerInput{
		HabitID:      habit.ID,
		StartTime:    start,
		EndTime:      start.Add(length),
		WasCompleted: c.Completed,
		Reflection:   c.Reflection,
	})
	if err != nil {
		return err
	}
	ctx.refreshGoals()

	ctx.Printf("Logged %s of %s\n", formatDuration(int64(length/time.Second)), habit.Title)
	ctx.Printf("ID: %s\n", id)
	return nil
}

func (c *TimerLogCmd) startTime(ctx *Context, length time.Duration) (time.Time, error) {
	if c.Start == "" {
		return ctx.Now().Add(-length), nil
	}
	if t, err := time.Parse(time.RFC3339, c.Start); err == nil {
		return t, nil
	}
	clock, err := time.ParseInLocation("15:04", c.Start, ctx.Loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid start time %q (expected HH:MM or RFC3339)", c.Start)
	}
	now := ctx.Now().In(ctx.Loc)
	return time.Date(now.Year(), now.Month(), now.Day(), clock.Hour(), clock.Minute(), 0, 0, ctx.Loc), nil
}

type TimerListCmd struct {
	Habit string `arg:"" help:"Habit title or ID."`
	Limit int    `help:"Maximum number of sessions to show." default:"20"`
}

func (c *TimerListCmd) Run(ctx *Context) error {
	habit, err := ctx.Habits.FindHabit(ctx.Ctx, c.Habit)
	if err != nil {
		return err
	}
	sessions, err := ctx.Tracker.ListTimerSessions(ctx.Ctx, habit.ID)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		ctx.Println("No timer sessions found.")
		return nil
	}

	var total int64
	for _, s := range sessions {
		total += s.DurationSec
	}
	ctx.Printf("%s  %s\n", headerStyle.Render(habit.Title), mutedStyle.Render("total "+formatDuration(total)))
	for i, s := range sessions {
		if c.Limit > 0 && i >= c.Limit {
			ctx.Printf("  %s\n", mutedStyle.Render(fmt.Sprintf("... %d more", len(sessions)-i)))
			break
		}
		mark := " "
		if s.WasCompleted {
			mark = okStyle.Render("✓")
		}
		ctx.Printf("  %s %s  %s\n", mark, s.StartTime.In(ctx.Loc).Format("2006-01-02 15:04"), formatDuration(s.DurationSec))
		if s.Reflection != "" {
			ctx.Printf("      %s\n", mutedStyle.Render(s.Reflection))
		}
	}
	return nil
}
