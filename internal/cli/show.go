package cli

import (
	"context"

	"github.com/cruciblehq/bifrost/internal/ops"
)

// Represents the 'bifrost show' command.
type ShowCmd struct {
	ManifestFlags

	All bool `short:"a" help:"Include file sizes and the ignore list."`
}

// Executes the show command.
func (c *ShowCmd) Run(ctx context.Context, app *App) error {
	ws, err := app.workspace(c.ManifestFlags, nil)
	if err != nil {
		return err
	}

	info, err := ops.Drive(ctx, ws, ops.Show(app.Env, ops.ShowOptions{All: c.All}))
	if err != nil {
		return err
	}

	app.printer().Summary(info.Summary)
	return nil
}
