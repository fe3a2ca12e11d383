package cli

import (
	"strings"
	"time"
)

type RemindersCmd struct {
	Due    RemindersDueCmd    `cmd:"" default:"1" help:"Show reminders that are due now."`
	Add    RemindersAddCmd    `cmd:"" help:"Add a reminder time for a habit."`
	List   RemindersListCmd   `cmd:"" help:"List reminder schedules."`
	Delete RemindersDeleteCmd `cmd:"" help:"Delete a reminder schedule."`
}

type RemindersDueCmd struct{}

func (c *RemindersDueCmd) Run(ctx *Context) error {
	due, err := ctx.Reminders.DueReminders(ctx.Ctx, ctx.Now())
	if err != nil {
		return err
	}
	if len(due) == 0 {
		ctx.Println("No reminders due.")
		return nil
	}
	for _, r := range due {
		ctx.Printf("%s  %s\n", mutedStyle.Render(r.At), r.HabitTitle)
	}
	return nil
}

type RemindersAddCmd struct {
	Habit string `arg:"" help:"Habit title or ID."`
	At    string `arg:"" help:"Reminder time (HH:MM)."`
	Days  string `help:"Comma-separated weekdays. Omit for every day."`
}

func (c *RemindersAddCmd) Run(ctx *Context) error {
	habit, err := ctx.Habits.FindHabit(ctx.Ctx, c.Habit)
	if err != nil {
		return err
	}
	var days []time.Weekday
	if c.Days != "" {
		if days, err = ParseWeekdays(c.Days); err != nil {
			return err
		}
	}

	id, err := ctx.Reminders.AddSchedule(ctx.Ctx, habit.ID, c.At, days)
	if err != nil {
		return err
	}
	ctx.Printf("Reminder for %s at %s%s\n", habit.Title, c.At, formatDays(days))
	ctx.Printf("ID: %s\n", id)
	return nil
}

type RemindersListCmd struct {
	Habit string `arg:"" optional:"" help:"Only this habit's reminders."`
}

func (c *RemindersListCmd) Run(ctx *Context) error {
	habitID := ""
	if c.Habit != "" {
		habit, err := ctx.Habits.FindHabit(ctx.Ctx, c.Habit)
		if err != nil {
			return err
		}
		habitID = habit.ID
	}

	schedules, err := ctx.Reminders.ListSchedules(ctx.Ctx, habitID)
	if err != nil {
		return err
	}
	if len(schedules) == 0 {
		ctx.Println("No reminder schedules.")
		return nil
	}

	habits, err := ctx.Habits.ListHabits(ctx.Ctx, true)
	if err != nil {
		return err
	}
	titles := make(map[string]string, len(habits))
	for _, h := range habits {
		titles[h.ID] = h.Title
	}

	for _, s := range schedules {
		state := ""
		if !s.Enabled {
			state = mutedStyle.Render(" (disabled)")
		}
		ctx.Printf("%s  %s%s%s\n", s.Time, titles[s.HabitID], formatDays(s.DaysOfWeek), state)
		ctx.Printf("    %s\n", mutedStyle.Render(s.ID))
	}
	return nil
}

func formatDays(days []time.Weekday) string {
	if len(days) == 0 {
		return ""
	}
	names := make([]string, len(days))
	for i, d := range days {
		names[i] = d.String()[:3]
	}
	return " on " + strings.Join(names, ",")
}

type RemindersDeleteCmd struct {
	ID string `arg:"" help:"Reminder schedule ID."`
}

func (c *RemindersDeleteCmd) Run(ctx *Context) error {
	if err := ctx.Reminders.DeleteSchedule(ctx.Ctx, c.ID); err != nil {
		return err
	}
	ctx.Println("Reminder deleted.")
	return nil
}
