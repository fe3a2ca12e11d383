package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/julianstephens/habitual/internal/habits"
	"github.com/julianstephens/habitual/internal/models"
)

type HabitCmd struct {
	Add       HabitAddCmd       `cmd:"" help:"Add a new habit."`
	List      HabitListCmd      `cmd:"" help:"List habits."`
	Show      HabitShowCmd      `cmd:"" help:"Show a habit and its schedule."`
	Edit      HabitEditCmd      `cmd:"" help:"Edit a habit."`
	Archive   HabitArchiveCmd   `cmd:"" help:"Archive a habit."`
	Unarchive HabitUnarchiveCmd `cmd:"" help:"Restore an archived habit."`
	Pause     HabitPauseCmd     `cmd:"" help:"Pause a habit so no tasks are generated."`
	Resume    HabitResumeCmd    `cmd:"" help:"Resume a paused habit."`
	Delete    HabitDeleteCmd    `cmd:"" help:"Delete a habit and all of its history."`
}

type HabitFields struct {
	Description string   `help:"Description."`
	Icon        string   `help:"Display icon."`
	Color       string   `help:"Display color."`
	Target      *float64 `help:"Target value per day (count or minutes)."`
	Unit        string   `help:"Unit of the target value."`
}

type HabitAddCmd struct {
	Title string `arg:"" help:"Habit title."`
	Type  string `help:"Habit type." enum:"boolean,count,duration" default:"boolean" short:"t"`
	HabitFields
	RecurrenceFlags
}

func (c *HabitAddCmd) Run(ctx *Context) error {
	rule, err := c.Rule()
	if err != nil {
		return err
	}
	if rule == nil {
		rule = models.Daily{}
	}

	habit, err := ctx.Habits.CreateHabit(ctx.Ctx, habits.HabitInput{
		Title:       c.Title,
		Description: c.Description,
		Icon:        c.Icon,
		Color:       c.Color,
		Type:        models.HabitType(c.Type),
		TargetValue: c.Target,
		TargetUnit:  c.Unit,
	}, rule)
	if err != nil {
		return err
	}

	ctx.Printf("Added habit: %s (%s)\n", habit.Title, FormatRecurrence(rule))
	ctx.Printf("ID: %s\n", habit.ID)
	return nil
}

type HabitListCmd struct {
	Archived bool `help:"Include archived habits."`
}

func (c *HabitListCmd) Run(ctx *Context) error {
	list, err := ctx.Habits.ListHabits(ctx.Ctx, c.Archived)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		ctx.Println("No habits found.")
		return nil
	}

	schedules, err := ctx.Store.GetAllHabitSchedules(ctx.Ctx)
	if err != nil {
		return err
	}
	rules := make(map[string]models.Recurrence, len(schedules))
	for _, s := range schedules {
		rules[s.HabitID] = s.Rule
	}

	for _, h := range list {
		status := ""
		switch {
		case h.Archived:
			status = mutedStyle.Render(" [ARCHIVED]")
		case h.Paused:
			status = warnStyle.Render(" [PAUSED]")
		}
		ctx.Printf("%s%s  %s  %s\n", h.Title, status, mutedStyle.Render(string(h.Type)), mutedStyle.Render(FormatRecurrence(rules[h.ID])))
	}
	return nil
}

type HabitShowCmd struct {
	Habit string `arg:"" help:"Habit title or ID."`
	JSON  bool   `help:"Print as JSON." name:"json"`
}

func (c *HabitShowCmd) Run(ctx *Context) error {
	found, err := ctx.Habits.FindHabit(ctx.Ctx, c.Habit)
	if err != nil {
		return err
	}
	habit, rule, err := ctx.Habits.GetHabit(ctx.Ctx, found.ID)
	if err != nil {
		return err
	}

	if c.JSON {
		data, err := json.MarshalIndent(struct {
			models.Habit
			Schedule string `json:"schedule"`
		}{habit, FormatRecurrence(rule)}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal habit: %w", err)
		}
		ctx.Println(string(data))
		return nil
	}

	ctx.Println(headerStyle.Render(habit.Title))
	ctx.Printf("  ID:        %s\n", habit.ID)
	ctx.Printf("  Type:      %s\n", habit.Type)
	if habit.TargetValue != nil {
		ctx.Printf("  Target:    %g %s\n", *habit.TargetValue, habit.TargetUnit)
	}
	ctx.Printf("  Schedule:  %s\n", FormatRecurrence(rule))
	ctx.Printf("  Created:   %s\n", habit.CreatedAt.In(ctx.Loc).Format("2006-01-02 15:04"))
	ctx.Printf("  Archived:  %v\n", habit.Archived)
	ctx.Printf("  Paused:    %v\n", habit.Paused)
	if habit.Description != "" {
		ctx.Printf("\n  %s\n", habit.Description)
	}
	return nil
}

type HabitEditCmd struct {
	Habit string  `arg:"" help:"Habit title or ID."`
	Title *string `help:"New title."`
	Type  *string `help:"New type (boolean, count or duration)."`
	HabitFields
	RecurrenceFlags
}

func (c *HabitEditCmd) Run(ctx *Context) error {
	habit, err := ctx.Habits.FindHabit(ctx.Ctx, c.Habit)
	if err != nil {
		return err
	}
	rule, err := c.Rule()
	if err != nil {
		return err
	}

	in := habits.HabitInput{
		Title:       habit.Title,
		Description: habit.Description,
		Icon:        habit.Icon,
		Color:       habit.Color,
		Type:        habit.Type,
		TargetValue: habit.TargetValue,
		TargetUnit:  habit.TargetUnit,
	}
	if c.Title != nil {
		in.Title = *c.Title
	}
	if c.Type != nil {
		if in.Type, err = models.ParseHabitType(*c.Type); err != nil {
			return err
		}
	}
	if c.Description != "" {
		in.Description = c.Description
	}
	if c.Icon != "" {
		in.Icon = c.Icon
	}
	if c.Color != "" {
		in.Color = c.Color
	}
	if c.Target != nil {
		in.TargetValue = c.Target
	}
	if c.Unit != "" {
		in.TargetUnit = c.Unit
	}

	updated, err := ctx.Habits.UpdateHabit(ctx.Ctx, habit.ID, in, rule)
	if err != nil {
		return err
	}
	ctx.Printf("Updated habit: %s\n", updated.Title)
	return nil
}

type HabitArchiveCmd struct {
	Habit string `arg:"" help:"Habit title or ID."`
}

func (c *HabitArchiveCmd) Run(ctx *Context) error {
	return setHabitFlag(ctx, c.Habit, ctx.Habits.Archive, "Archived")
}

type HabitUnarchiveCmd struct {
	Habit string `arg:"" help:"Habit title or ID."`
}

func (c *HabitUnarchiveCmd) Run(ctx *Context) error {
	return setHabitFlag(ctx, c.Habit, ctx.Habits.Unarchive, "Unarchived")
}

type HabitPauseCmd struct {
	Habit string `arg:"" help:"Habit title or ID."`
}

func (c *HabitPauseCmd) Run(ctx *Context) error {
	return setHabitFlag(ctx, c.Habit, ctx.Habits.Pause, "Paused")
}

type HabitResumeCmd struct {
	Habit string `arg:"" help:"Habit title or ID."`
}

func (c *HabitResumeCmd) Run(ctx *Context) error {
	return setHabitFlag(ctx, c.Habit, ctx.Habits.Resume, "Resumed")
}

func setHabitFlag(ctx *Context, ref string, fn func(context.Context, string) error, verb string) error {
	habit, err := ctx.Habits.FindHabit(ctx.Ctx, ref)
	if err != nil {
		return err
	}
	if err := fn(ctx.Ctx, habit.ID); err != nil {
		return err
	}
	ctx.Printf("%s habit: %s\n", verb, habit.Title)
	return nil
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit title or ID."`
	Yes   bool   `help:"Skip the confirmation prompt." short:"y"`
}

func (c *HabitDeleteCmd) Run(ctx *Context) error {
	habit, err := ctx.Habits.FindHabit(ctx.Ctx, c.Habit)
	if err != nil {
		return err
	}

	if !c.Yes {
		ok, err := ctx.Confirm(fmt.Sprintf("Delete %q with all of its tasks, sessions and reminders?", habit.Title))
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Delete cancelled.")
			return nil
		}
	}

	if err := ctx.Habits.DeleteHabit(ctx.Ctx, habit.ID); err != nil {
		return err
	}
	ctx.Printf("Deleted habit: %s\n", habit.Title)
	return nil
}
