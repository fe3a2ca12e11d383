package cli

import (
	"strings"
)

type JournalCmd struct {
	Add         JournalAddCmd         `cmd:"" help:"Write a journal entry."`
	List        JournalListCmd        `cmd:"" help:"List journal entries."`
	Reflections JournalReflectionsCmd `cmd:"" help:"List timer session reflections."`
}

type JournalAddCmd struct {
	Content []string `arg:"" help:"Entry text."`
	Date    string   `help:"Date of the entry (YYYY-MM-DD, 'today' or 'yesterday')." short:"d"`
	Habit   string   `help:"Tie the entry to a habit."`
	Mood    string   `help:"Mood label."`
}

func (c *JournalAddCmd) Run(ctx *Context) error {
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}

	var habitID *string
	if c.Habit != "" {
		habit, err := ctx.Habits.FindHabit(ctx.Ctx, c.Habit)
		if err != nil {
			return err
		}
		habitID = &habit.ID
	}

	id, err := ctx.Tracker.AddJournalEntry(ctx.Ctx, date, habitID, strings.Join(c.Content, " "), c.Mood)
	if err != nil {
		return err
	}
	ctx.Printf("Saved journal entry for %s\n", date)
	ctx.Printf("ID: %s\n", id)
	return nil
}

type JournalListCmd struct{}

func (c *JournalListCmd) Run(ctx *Context) error {
	entries, err := ctx.Tracker.ListJournalEntries(ctx.Ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		ctx.Println("No journal entries.")
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

	for _, e := range entries {
		meta := []string{}
		if e.HabitID != nil {
			meta = append(meta, titles[*e.HabitID])
		}
		if e.Mood != "" {
			meta = append(meta, e.Mood)
		}
		header := headerStyle.Render(e.Date)
		if len(meta) > 0 {
			header += " " + mutedStyle.Render(strings.Join(meta, " · "))
		}
		ctx.Println(header)
		ctx.Printf("  %s\n", e.Content)
	}
	return nil
}

type JournalReflectionsCmd struct{}

func (c *JournalReflectionsCmd) Run(ctx *Context) error {
	reflections, err := ctx.Tracker.ListReflections(ctx.Ctx)
	if err != nil {
		return err
	}
	if len(reflections) == 0 {
		ctx.Println("No reflections yet.")
		return nil
	}
	for _, r := range reflections {
		ctx.Printf("%s %s\n", headerStyle.Render(r.HabitTitle), mutedStyle.Render(r.StartTime.In(ctx.Loc).Format("2006-01-02 15:04")))
		ctx.Printf("  %s\n", r.Text)
	}
	return nil
}
