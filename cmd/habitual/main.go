package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/constants"
	apperrors "github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/keyring"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/storage/postgres"
	"github.com/julianstephens/habitual/internal/storage/sqlite"
	"github.com/julianstephens/habitual/internal/utils"
)

var CLI struct {
	Version  kong.VersionFlag
	Config   string `help:"SQLite database path, PostgreSQL connection string, or 'keyring' to read the connection string from the OS keyring. PostgreSQL credentials must NOT be embedded in the connection string." env:"HABITUAL_CONFIG" default:"${default_config}"`
	Debug    bool   `help:"Log debug output to stderr." env:"HABITUAL_DEBUG"`
	Timezone string `help:"Override the timezone from settings (IANA name)."`

	Init      cli.InitCmd      `cmd:"" help:"Initialize habitual storage."`
	Tui       cli.TuiCmd       `cmd:"" help:"Launch the interactive board." default:"1"`
	Today     cli.TodayCmd     `cmd:"" help:"Show the habits due today."`
	Habit     cli.HabitCmd     `cmd:"" help:"Manage habits."`
	Task      cli.TaskCmd      `cmd:"" help:"Complete, skip or postpone a habit for a day."`
	Timer     cli.TimerCmd     `cmd:"" help:"Log and list timer sessions."`
	Journal   cli.JournalCmd   `cmd:"" help:"Write and read reflections."`
	Stats     cli.StatsCmd     `cmd:"" help:"Show streaks and completion rates."`
	Review    cli.ReviewCmd    `cmd:"" help:"Show the weekly review."`
	Goal      cli.GoalCmd      `cmd:"" help:"Manage goals."`
	Reminders cli.RemindersCmd `cmd:"" help:"Manage habit reminders."`
	Export    cli.ExportCmd    `cmd:"" help:"Export all data as JSON."`
	Import    cli.ImportCmd    `cmd:"" help:"Merge a JSON export into the current data."`
	Backup    cli.BackupCmd    `cmd:"" help:"Manage automatic backups."`
	Settings  cli.SettingsCmd  `cmd:"" help:"Manage application settings."`
	Keyring   cli.KeyringCmd   `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
	Doctor    cli.DoctorCmd    `cmd:"" help:"Run health checks and diagnostics."`
	Validate  cli.ValidateCmd  `cmd:"" help:"Check stored habits, schedules and goals for problems."`
	DebugCmd  cli.DebugCmd     `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit tracker: daily tasks, streaks, timers and goals"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":        constants.Version,
			"default_config": constants.DefaultConfigPath,
		},
	)

	if err := run(kctx); err != nil {
		apperrors.Fatal(err)
	}
}

func run(kctx *kong.Context) error {
	ctx := context.Background()
	command := kctx.Command()
	vault := keyring.New("")

	store, configDir, err := openStore(vault)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: configDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
	}

	opts := cli.Options{Vault: vault}
	if !skipsLoad(command) {
		if err := store.Load(ctx); err != nil {
			return err
		}
		settings, err := store.GetSettings(ctx)
		if err != nil {
			return err
		}
		timezone := settings.Timezone
		if CLI.Timezone != "" {
			timezone = CLI.Timezone
		}
		if opts.Location, err = utils.LoadLocation(timezone); err != nil {
			return fmt.Errorf("invalid timezone %q: %w", timezone, err)
		}
		opts.StrictTransitions = settings.StrictTransitions
	} else if CLI.Timezone != "" {
		loc, err := utils.LoadLocation(CLI.Timezone)
		if err != nil {
			return fmt.Errorf("invalid timezone %q: %w", CLI.Timezone, err)
		}
		opts.Location = loc
	}

	logger.Debug("Running command", "command", command, "store", store.GetConfigPath())
	return kctx.Run(cli.NewContext(ctx, store, opts))
}

// openStore picks the backend from --config and returns the directory that
// holds logs and backups.
func openStore(vault *keyring.Vault) (storage.Provider, string, error) {
	config := CLI.Config
	if config == constants.KeyringConfigValue {
		connStr, err := vault.ConnectionString()
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, "", errors.New("no connection string found in keyring. Use 'habitual keyring set' to store one")
		}
		if err != nil {
			return nil, "", err
		}
		dir, err := utils.ConfigDir("")
		return postgres.New(connStr), dir, err
	}

	if postgres.IsConnString(config) {
		if err := postgres.ValidateConnString(config); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, "", fmt.Errorf("%w. Store it with 'habitual keyring set' and use --config=keyring, or use .pgpass", err)
			}
			return nil, "", err
		}
		dir, err := utils.ConfigDir("")
		return postgres.New(config), dir, err
	}

	path, err := utils.ExpandPath(config)
	if err != nil {
		return nil, "", err
	}
	dir, err := utils.ConfigDir(path)
	return sqlite.New(path), dir, err
}

// skipsLoad reports whether the command works without an initialized store.
func skipsLoad(command string) bool {
	return command == "init" || strings.HasPrefix(command, "keyring")
}
