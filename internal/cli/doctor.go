package cli

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type DoctorCmd struct{}

// schemaReporter is implemented by the SQL-backed stores.
type schemaReporter interface {
	SchemaStatus(ctx context.Context) (current, latest int, err error)
}

type check struct {
	name    string
	run     func(*Context) error
	warning bool
	needsDB bool
}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	checks := []check{
		{name: "Database reachable", run: checkDBReachable},
		{name: "Migrations complete", run: checkMigrationsComplete, needsDB: true},
		{name: "Backups present", run: checkBackupsPresent, warning: true},
		{name: "Data validation", run: checkValidation, needsDB: true},
		{name: "Clock/timezone", run: checkClockTimezone},
	}

	hasError := false
	dbReachable := true
	for i, c := range checks {
		if c.needsDB && !dbReachable {
			ctx.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.Printf("%s %s: OK\n", okStyle.Render("✓"), c.name)
		case c.warning:
			ctx.Printf("%s %s: WARNING\n", warnStyle.Render("⚠"), c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("%s %s: FAIL\n", dangerStyle.Render("❌"), c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
			if i == 0 {
				dbReachable = false
			}
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *Context) error {
	if s, ok := ctx.Store.(interface{ DB() *sql.DB }); ok {
		db := s.DB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRowContext(ctx.Ctx, "SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
		return nil
	}
	if _, err := ctx.Store.GetSettings(ctx.Ctx); err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}
	return nil
}

func checkMigrationsComplete(ctx *Context) error {
	s, ok := ctx.Store.(schemaReporter)
	if !ok {
		return nil
	}
	current, latest, err := s.SchemaStatus(ctx.Ctx)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest)
	}
	return nil
}

func checkBackupsPresent(ctx *Context) error {
	mgr, err := ctx.BackupManager()
	if err != nil {
		return err
	}
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'habitual backup create'")
	}
	return nil
}

func checkValidation(ctx *Context) error {
	result, err := validateData(ctx)
	if err != nil {
		return err
	}
	if result.HasProblems() {
		return fmt.Errorf("%d problem(s) found, run 'habitual validate' for details", len(result.Problems))
	}
	return nil
}

func checkClockTimezone(ctx *Context) error {
	now := ctx.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if ctx.Loc == time.UTC {
		ctx.Printf("   Note: timezone is UTC\n")
	}
	return nil
}
