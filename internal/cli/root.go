package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitual/internal/analytics"
	"github.com/julianstephens/habitual/internal/backup"
	"github.com/julianstephens/habitual/internal/goals"
	"github.com/julianstephens/habitual/internal/habits"
	"github.com/julianstephens/habitual/internal/keyring"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/reminders"
	"github.com/julianstephens/habitual/internal/scheduler"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/tracker"
	"github.com/julianstephens/habitual/internal/utils"
)

// Context carries the storage handle and the services built on it into
// every command.
type Context struct {
	Ctx       context.Context
	Store     storage.Provider
	Loc       *time.Location
	Now       func() time.Time
	Scheduler *scheduler.Scheduler
	Tracker   *tracker.Tracker
	Analytics *analytics.Engine
	Habits    *habits.Service
	Goals     *goals.Service
	Reminders *reminders.Planner
	Backup    *backup.Service
	Vault     *keyring.Vault
	Out       io.Writer
	// Confirm asks a yes/no question. Tests replace it.
	Confirm func(title string) (bool, error)
}

// Options configures NewContext. Zero values fall back to the local
// timezone, the wall clock and stdout.
type Options struct {
	Location          *time.Location
	Now               func() time.Time
	StrictTransitions bool
	Out               io.Writer
	Vault             *keyring.Vault
}

func NewContext(ctx context.Context, store storage.Provider, opts Options) *Context {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	vault := opts.Vault
	if vault == nil {
		vault = keyring.New("")
	}

	sched := scheduler.New(store, loc)
	trackerOpts := []tracker.Option{tracker.WithClock(now)}
	if opts.StrictTransitions {
		trackerOpts = append(trackerOpts, tracker.WithStrictTransitions())
	}

	return &Context{
		Ctx:       ctx,
		Store:     store,
		Loc:       loc,
		Now:       now,
		Scheduler: sched,
		Tracker:   tracker.New(store, sched, loc, trackerOpts...),
		Analytics: analytics.New(store, loc, analytics.WithClock(now)),
		Habits:    habits.New(store, habits.WithClock(now)),
		Goals:     goals.New(store, loc),
		Reminders: reminders.New(store, loc),
		Backup:    backup.New(store, backup.WithClock(now)),
		Vault:     vault,
		Out:       out,
		Confirm:   confirm,
	}
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.Out, args...)
}

// Today returns the current calendar date in the configured timezone.
func (c *Context) Today() string {
	return utils.FormatDate(c.Now().In(c.Loc))
}

// ResolveDate maps "" and "today" to the current date and validates the rest.
func (c *Context) ResolveDate(date string) (string, error) {
	switch date {
	case "", "today":
		return c.Today(), nil
	case "yesterday":
		return utils.AddDays(c.Today(), -1)
	}
	if !utils.ValidateDateFormat(date) {
		return "", fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD, 'today' or 'yesterday')", date)
	}
	return date, nil
}

// BackupManager returns a manager for the backup directory of the current store.
func (c *Context) BackupManager() (*backup.Manager, error) {
	dir, err := backup.DefaultDir(c.Store.GetConfigPath())
	if err != nil {
		return nil, err
	}
	return backup.NewManager(c.Backup, dir), nil
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	mgr, err := c.BackupManager()
	if err == nil {
		_, err = mgr.CreateBackup(c.Ctx)
	}
	if err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// refreshGoals recomputes goal progress after history changed. Failures are
// logged; the change that triggered them already succeeded.
func (c *Context) refreshGoals() {
	if _, err := c.Goals.RefreshAll(c.Ctx); err != nil {
		logger.Warn("Failed to refresh goal progress", "error", err)
	}
}

func confirm(title string) (bool, error) {
	var ok bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	)
	if err := form.Run(); err != nil {
		return false, fmt.Errorf("interactive form error: %w", err)
	}
	return ok, nil
}

// ParseWeekdays parses a comma-separated list of weekdays
func ParseWeekdays(s string) ([]time.Weekday, error) {
	parts := strings.Split(s, ",")
	var weekdays []time.Weekday

	dayMap := map[string]time.Weekday{
		"sun":       time.Sunday,
		"sunday":    time.Sunday,
		"mon":       time.Monday,
		"monday":    time.Monday,
		"tue":       time.Tuesday,
		"tuesday":   time.Tuesday,
		"wed":       time.Wednesday,
		"wednesday": time.Wednesday,
		"thu":       time.Thursday,
		"thursday":  time.Thursday,
		"fri":       time.Friday,
		"friday":    time.Friday,
		"sat":       time.Saturday,
		"saturday":  time.Saturday,
	}

	for _, part := range parts {
		part = strings.TrimSpace(strings.ToLower(part))
		if wd, ok := dayMap[part]; ok {
			weekdays = append(weekdays, wd)
			continue
		}
		// 0=Sunday, 6=Saturday
		num, err := strconv.Atoi(part)
		if err != nil || num < 0 || num > 6 {
			return nil, fmt.Errorf("invalid weekday: %s", part)
		}
		weekdays = append(weekdays, time.Weekday(num))
	}

	return weekdays, nil
}

// FormatRecurrence formats a recurrence rule into a human-readable string
func FormatRecurrence(rule models.Recurrence) string {
	switch r := rule.(type) {
	case models.Daily:
		return "daily"
	case models.Weekdays:
		return "weekdays"
	case models.SpecificDays:
		days := make([]string, 0, len(r.Days))
		for _, wd := range r.Days {
			days = append(days, wd.String()[:3])
		}
		return "on " + strings.Join(days, ",")
	case models.Interval:
		if r.Every == 1 {
			return "every day"
		}
		return fmt.Sprintf("every %d days", r.Every)
	case models.WeeklyQuota:
		return fmt.Sprintf("%d× per week", r.PerWeek)
	case models.InvalidRecurrence:
		return fmt.Sprintf("invalid %s rule", r.Kind)
	case nil:
		return "no schedule"
	default:
		return "unknown"
	}
}

// RecurrenceFlags describe a rule on the command line.
type RecurrenceFlags struct {
	Frequency string `help:"Frequency: daily, weekdays, specific_days, interval or weekly_quota." short:"f"`
	Days      string `help:"Comma-separated weekdays for specific_days (e.g. mon,wed,fri)."`
	Every     int    `help:"Days between occurrences for interval."`
	PerWeek   int    `help:"Completions per week for weekly_quota." name:"per-week"`
}

// Rule builds the rule, or returns nil when no frequency was given.
func (f RecurrenceFlags) Rule() (models.Recurrence, error) {
	switch models.FrequencyType(f.Frequency) {
	case "":
		return nil, nil
	case models.FrequencyDaily:
		return models.Daily{}, nil
	case models.FrequencyWeekdays:
		return models.Weekdays{}, nil
	case models.FrequencySpecificDays:
		if f.Days == "" {
			return nil, fmt.Errorf("--days is required for specific_days")
		}
		days, err := ParseWeekdays(f.Days)
		if err != nil {
			return nil, err
		}
		return models.SpecificDays{Days: days}, nil
	case models.FrequencyInterval:
		return models.Interval{Every: f.Every}, nil
	case models.FrequencyWeeklyQuota:
		return models.WeeklyQuota{PerWeek: f.PerWeek}, nil
	default:
		return nil, fmt.Errorf("unknown frequency %q", f.Frequency)
	}
}

func formatDuration(seconds int64) string {
	d := time.Duration(seconds) * time.Second
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
}
