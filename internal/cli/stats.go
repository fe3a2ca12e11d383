package cli

import (
	"fmt"

	"github.com/julianstephens/habitual/internal/analytics"
	"github.com/julianstephens/habitual/internal/constants"
)

type StatsCmd struct {
	Habit string `arg:"" optional:"" help:"Habit title or ID. Omit for a summary of all active habits."`
}

func (c *StatsCmd) Run(ctx *Context) error {
	settings, err := ctx.Store.GetSettings(ctx.Ctx)
	if err != nil {
		return err
	}

	if c.Habit != "" {
		habit, err := ctx.Habits.FindHabit(ctx.Ctx, c.Habit)
		if err != nil {
			return err
		}
		stats, err := ctx.Analytics.GetHabitStats(ctx.Ctx, habit.ID)
		if err != nil {
			return err
		}
		printHabitStats(ctx, stats, settings.StreakVisibility)
		return nil
	}

	habits, err := ctx.Habits.ListHabits(ctx.Ctx, false)
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		ctx.Println("No habits found.")
		return nil
	}
	for _, h := range habits {
		rate, err := ctx.Analytics.GetCompletionRate(ctx.Ctx, h.ID, constants.DefaultCompletionWindowDays)
		if err != nil {
			return err
		}
		last7, err := ctx.Analytics.GetLast7DaysCompletion(ctx.Ctx, h.ID)
		if err != nil {
			return err
		}
		line := fmt.Sprintf("%-24s %s  %s", h.Title, renderWeek(completedFlags(last7)), renderRate(rate))
		if settings.StreakVisibility {
			streak, err := ctx.Analytics.GetStreak(ctx.Ctx, h.ID)
			if err != nil {
				return err
			}
			line += mutedStyle.Render(fmt.Sprintf("  streak %d", streak))
		}
		ctx.Println(line)
	}
	return nil
}

func printHabitStats(ctx *Context, stats analytics.HabitStats, showStreak bool) {
	ctx.Println(headerStyle.Render(stats.Habit.Title))
	ctx.Printf("  Schedule:         %s\n", FormatRecurrence(stats.Rule))
	if showStreak {
		ctx.Printf("  Current streak:   %d\n", stats.Streak)
		ctx.Printf("  Longest streak:   %d\n", stats.LongestStreak)
	}
	ctx.Printf("  Completion (%dd): %s\n", constants.DefaultCompletionWindowDays, renderRate(stats.CompletionRate))
	if stats.TimeSpentSec > 0 {
		ctx.Printf("  Time (%dd):       %s\n", constants.DefaultTimeSpentWindowDays, formatDuration(stats.TimeSpentSec))
	}
	ctx.Printf("  Last 7 days:      %s\n", renderWeek(completedFlags(stats.Last7Days)))
	if stats.Quota != nil {
		q := stats.Quota
		status := warnStyle.Render(fmt.Sprintf("%d to go", q.Remaining))
		if q.Met {
			status = okStyle.Render("met")
		}
		ctx.Printf("  This week:        %d/%d (%s)\n", q.Completed, q.Target, status)
	}
	if stats.SuggestedReminder != "" {
		ctx.Printf("  Usually done at:  %s\n", stats.SuggestedReminder)
	}
}

func completedFlags(days []analytics.DayCompletion) []bool {
	flags := make([]bool, len(days))
	for i, d := range days {
		flags[i] = d.Completed
	}
	return flags
}

func renderRate(rate float64) string {
	s := fmt.Sprintf("%.0f%%", rate)
	switch {
	case rate >= constants.StarThreshold:
		return okStyle.Render(s)
	case rate < constants.AtRiskThreshold:
		return dangerStyle.Render(s)
	default:
		return warnStyle.Render(s)
	}
}

type ReviewCmd struct {
	Offset int `help:"Week offset from the current week (-1 is last week)." default:"0"`
}

func (c *ReviewCmd) Run(ctx *Context) error {
	review, err := ctx.Analytics.GetWeeklyReview(ctx.Ctx, c.Offset)
	if err != nil {
		return err
	}

	ctx.Println(headerStyle.Render(fmt.Sprintf("Week %s to %s", review.WeekStart, review.WeekEnd)))
	if review.Total == 0 {
		ctx.Println(mutedStyle.Render("No tasks this week."))
		return nil
	}
	ctx.Printf("  %d of %d done (%s)", review.Completed, review.Total, renderRate(review.Rate))
	if review.TimeSpentSec > 0 {
		ctx.Printf(", %s tracked", formatDuration(review.TimeSpentSec))
	}
	ctx.Println()

	ctx.Println()
	for _, hw := range review.Habits {
		if hw.Total == 0 {
			ctx.Printf("  %-24s %s\n", hw.Title, mutedStyle.Render(formatDuration(hw.TimeSpentSec)+" tracked"))
			continue
		}
		ctx.Printf("  %-24s %d/%d  %s\n", hw.Title, hw.Completed, hw.Total, renderRate(hw.Rate))
	}

	if len(review.Stars) > 0 {
		ctx.Println()
		ctx.Println(okStyle.Render("Going strong"))
		for _, hw := range review.Stars {
			ctx.Printf("  %s\n", hw.Title)
		}
	}
	if len(review.AtRisk) > 0 {
		ctx.Println()
		ctx.Println(dangerStyle.Render("Needs attention"))
		for _, hw := range review.AtRisk {
			ctx.Printf("  %s\n", hw.Title)
		}
	}
	return nil
}
