package cli

import (
	"context"

	"github.com/cruciblehq/bifrost/internal/support"
)

// Represents the 'bifrost teardown' command.
type TeardownCmd struct{}

// Executes the teardown command.
//
// Removes the support tree. Loaded workspaces are not touched; unload them
// first.
func (c *TeardownCmd) Run(ctx context.Context, app *App) error {
	home, err := app.home()
	if err != nil {
		return err
	}

	dir, err := support.Teardown(home)
	if err != nil {
		return err
	}

	app.printer().Line("removed %s", dir)
	return nil
}
