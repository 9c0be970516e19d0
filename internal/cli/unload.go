package cli

import (
	"context"

	"github.com/cruciblehq/bifrost/internal/ops"
)

// Represents the 'bifrost unload' command.
type UnloadCmd struct {
	ManifestFlags
}

// Executes the unload command.
func (c *UnloadCmd) Run(ctx context.Context, app *App) error {
	ws, err := app.workspace(c.ManifestFlags, nil)
	if err != nil {
		return err
	}

	info, err := ops.Drive(ctx, ws, ops.Unload(app.Env))
	if err != nil {
		return err
	}

	app.printer().Message(info)
	return nil
}
