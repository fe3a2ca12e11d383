package cli

import (
	"fmt"
	"os"
)

type ExportCmd struct {
	Output string `help:"File to write. '-' writes to stdout." short:"o" default:"-"`
}

func (c *ExportCmd) Run(ctx *Context) error {
	if c.Output == "-" {
		return ctx.Backup.WriteTo(ctx.Ctx, ctx.Out)
	}

	f, err := os.Create(c.Output)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	if err := ctx.Backup.WriteTo(ctx.Ctx, f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close export file: %w", err)
	}
	ctx.Printf("Exported data to %s\n", c.Output)
	return nil
}

type ImportCmd struct {
	File string `arg:"" help:"Export file to merge into the current data." type:"existingfile"`
	Yes  bool   `help:"Skip the confirmation prompt." short:"y"`
}

func (c *ImportCmd) Run(ctx *Context) error {
	if !c.Yes {
		ok, err := ctx.Confirm(fmt.Sprintf("Merge %s into the current data? Records with matching IDs are overwritten.", c.File))
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Import cancelled.")
			return nil
		}
	}

	f, err := os.Open(c.File)
	if err != nil {
		return fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()

	summary, err := ctx.Backup.Import(ctx.Ctx, f)
	if err != nil {
		return err
	}
	ctx.refreshGoals()
	printSummary(ctx, "Imported", summary)
	return nil
}
