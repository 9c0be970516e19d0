package cli

import (
	"context"
	"path/filepath"

	"github.com/cruciblehq/bifrost/internal/ops"
)

// Represents the 'bifrost load' command.
type LoadCmd struct {
	ManifestFlags

	Reload bool     `short:"r" help:"Replace an existing load of the workspace."`
	Paths  []string `arg:"" optional:"" help:"Sub-paths of the working directory to load instead of all of it." placeholder:"PATH"`
}

// Executes the load command.
func (c *LoadCmd) Run(ctx context.Context, app *App) error {
	ws, err := app.workspace(c.ManifestFlags, includes(c.Paths))
	if err != nil {
		return err
	}

	info, err := ops.Drive(ctx, ws, ops.Load(app.Env, ops.LoadOptions{Reload: c.Reload}))
	if err != nil {
		return err
	}

	app.printer().Message(info)
	return nil
}

// Normalizes load paths into manifest include entries.
func includes(paths []string) []string {
	var out []string
	for _, p := range paths {
		out = append(out, filepath.ToSlash(filepath.Clean(p)))
	}
	return out
}
