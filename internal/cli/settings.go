package cli

import (
	"fmt"

	"github.com/julianstephens/habitual/internal/utils"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	Timezone             *string `help:"IANA timezone name, or 'Local' for the system timezone."`
	NotificationsEnabled *bool   `help:"Enable or disable reminders."`
	QuietStart           *string `help:"Start of quiet hours (HH:MM). Empty disables quiet hours."`
	QuietEnd             *string `help:"End of quiet hours (HH:MM)."`
	Language             *string `help:"Display language."`
	StreakVisibility     *bool   `help:"Show streaks in stats."`
	StrictTransitions    *bool   `help:"Reject task status changes that skip the pending state."`
}

func (c *SettingsCmd) Run(ctx *Context) error {
	settings, err := ctx.Store.GetSettings(ctx.Ctx)
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.List {
		quiet := "off"
		if settings.QuietHoursStart != "" {
			quiet = settings.QuietHoursStart + "-" + settings.QuietHoursEnd
		}
		ctx.Println("Current Settings:")
		ctx.Printf("  Timezone:              %s\n", settings.Timezone)
		ctx.Printf("  Language:              %s\n", settings.Language)
		ctx.Printf("  Streak Visibility:     %v\n", settings.StreakVisibility)
		ctx.Printf("  Strict Transitions:    %v\n", settings.StrictTransitions)
		ctx.Println("\nReminder Settings:")
		ctx.Printf("  Notifications Enabled: %v\n", settings.NotificationsEnabled)
		ctx.Printf("  Quiet Hours:           %s\n", quiet)
		return nil
	}

	updated := false
	if c.Timezone != nil {
		if !utils.ValidateTimezone(*c.Timezone) {
			return fmt.Errorf("invalid timezone: %s", *c.Timezone)
		}
		settings.Timezone = *c.Timezone
		updated = true
	}
	if c.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *c.NotificationsEnabled
		updated = true
	}
	if c.QuietStart != nil {
		if *c.QuietStart != "" && !utils.ValidateTimeFormat(*c.QuietStart) {
			return fmt.Errorf("invalid quiet hours start %q (expected HH:MM)", *c.QuietStart)
		}
		settings.QuietHoursStart = *c.QuietStart
		updated = true
	}
	if c.QuietEnd != nil {
		if *c.QuietEnd != "" && !utils.ValidateTimeFormat(*c.QuietEnd) {
			return fmt.Errorf("invalid quiet hours end %q (expected HH:MM)", *c.QuietEnd)
		}
		settings.QuietHoursEnd = *c.QuietEnd
		updated = true
	}
	if c.Language != nil {
		settings.Language = *c.Language
		updated = true
	}
	if c.StreakVisibility != nil {
		settings.StreakVisibility = *c.StreakVisibility
		updated = true
	}
	if c.StrictTransitions != nil {
		settings.StrictTransitions = *c.StrictTransitions
		updated = true
	}

	if !updated {
		ctx.Println("No changes specified. Use --list to view settings or flags to update them.")
		return nil
	}
	if settings.QuietHoursStart != "" && settings.QuietHoursEnd == "" {
		return fmt.Errorf("quiet hours need an end time (--quiet-end)")
	}
	if err := ctx.Store.SaveSettings(ctx.Ctx, settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	ctx.Println("Settings updated successfully.")
	return nil
}
