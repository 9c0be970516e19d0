package cli

import (
	"context"

	"github.com/cruciblehq/bifrost/internal"
)

// Represents the 'bifrost version' command.
type VersionCmd struct{}

// Executes the version command.
func (c *VersionCmd) Run(ctx context.Context, app *App) error {
	app.printer().Line("%s %s", internal.Name, internal.VersionString())
	return nil
}
