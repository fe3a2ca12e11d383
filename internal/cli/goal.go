package cli

import (
	"fmt"

	"github.com/julianstephens/habitual/internal/goals"
	"github.com/julianstephens/habitual/internal/models"
)

type GoalCmd struct {
	Add     GoalAddCmd     `cmd:"" help:"Add a goal."`
	List    GoalListCmd    `cmd:"" help:"List goals."`
	Abandon GoalAbandonCmd `cmd:"" help:"Abandon a goal."`
	Delete  GoalDeleteCmd  `cmd:"" help:"Delete a goal."`
	Refresh GoalRefreshCmd `cmd:"" help:"Recompute progress of every goal."`
}

type GoalAddCmd struct {
	Title  string  `arg:"" help:"Goal title."`
	Target float64 `help:"Target value (completions, or minutes for duration habits)." required:""`
	Habit  string  `help:"Habit whose history counts toward the goal."`
	Start  string  `help:"Start date (YYYY-MM-DD). Defaults to today."`
	End    string  `help:"End date (YYYY-MM-DD)."`
}

func (c *GoalAddCmd) Run(ctx *Context) error {
	start, err := ctx.ResolveDate(c.Start)
	if err != nil {
		return err
	}

	in := goals.GoalInput{Title: c.Title, TargetValue: c.Target, StartDate: start}
	if c.End != "" {
		end := c.End
		in.EndDate = &end
	}
	if c.Habit != "" {
		habit, err := ctx.Habits.FindHabit(ctx.Ctx, c.Habit)
		if err != nil {
			return err
		}
		in.HabitID = &habit.ID
	}

	id, err := ctx.Goals.CreateGoal(ctx.Ctx, in)
	if err != nil {
		return err
	}
	ctx.Printf("Added goal: %s\n", c.Title)
	ctx.Printf("ID: %s\n", id)
	return nil
}

type GoalListCmd struct {
	All bool `help:"Include achieved and abandoned goals."`
}

func (c *GoalListCmd) Run(ctx *Context) error {
	var (
		list []models.GoalView
		err  error
	)
	if c.All {
		list, err = ctx.Goals.ListGoals(ctx.Ctx)
	} else {
		list, err = ctx.Goals.ListActiveGoals(ctx.Ctx)
	}
	if err != nil {
		return err
	}
	if len(list) == 0 {
		ctx.Println("No goals found.")
		return nil
	}

	for _, g := range list {
		pct := 0.0
		if g.TargetValue > 0 {
			pct = g.CurrentValue / g.TargetValue * 100
		}
		ctx.Printf("%s %s  %g/%g (%.0f%%)\n", renderGoalStatus(g.Status), g.Title, g.CurrentValue, g.TargetValue, pct)
		meta := "since " + g.StartDate
		if g.EndDate != nil {
			meta += " until " + *g.EndDate
		}
		if g.HabitTitle != "" {
			meta = g.HabitTitle + ", " + meta
		}
		ctx.Printf("    %s\n", mutedStyle.Render(meta))
	}
	return nil
}

func renderGoalStatus(status models.GoalStatus) string {
	switch status {
	case models.GoalAchieved:
		return okStyle.Render("★")
	case models.GoalAbandoned:
		return mutedStyle.Render("×")
	default:
		return "○"
	}
}

type GoalAbandonCmd struct {
	ID string `arg:"" help:"Goal ID."`
}

func (c *GoalAbandonCmd) Run(ctx *Context) error {
	if err := ctx.Goals.AbandonGoal(ctx.Ctx, c.ID); err != nil {
		return err
	}
	ctx.Println("Goal abandoned.")
	return nil
}

type GoalDeleteCmd struct {
	ID  string `arg:"" help:"Goal ID."`
	Yes bool   `help:"Skip the confirmation prompt." short:"y"`
}

func (c *GoalDeleteCmd) Run(ctx *Context) error {
	if !c.Yes {
		ok, err := ctx.Confirm(fmt.Sprintf("Delete goal %s?", c.ID))
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Delete cancelled.")
			return nil
		}
	}
	if err := ctx.Goals.DeleteGoal(ctx.Ctx, c.ID); err != nil {
		return err
	}
	ctx.Println("Goal deleted.")
	return nil
}

type GoalRefreshCmd struct{}

func (c *GoalRefreshCmd) Run(ctx *Context) error {
	n, err := ctx.Goals.RefreshAll(ctx.Ctx)
	if err != nil {
		return err
	}
	ctx.Printf("Refreshed %d goal(s).\n", n)
	return nil
}
