package cli

import (
	"context"
	"os"

	"github.com/cruciblehq/bifrost/internal/fault"
	"github.com/cruciblehq/bifrost/internal/gateway"
	"github.com/cruciblehq/bifrost/internal/manifest"
	"github.com/cruciblehq/bifrost/internal/support"
)

// Represents the 'bifrost setup' command.
type SetupCmd struct {
	Build   bool     `help:"Build the image with docker from the support tree." xor:"image-source"`
	Import  string   `help:"Import an OCI archive as the image through containerd." placeholder:"ARCHIVE" type:"existingfile" xor:"image-source"`
	Package []string `short:"p" help:"Append an apt-get install line for the package (repeatable)." placeholder:"NAME" sep:"none"`
	Image   string   `help:"Image tag to build or import." default:"${image}" placeholder:"TAG"`
}

// Executes the setup command.
//
// Writes the support tree, leaving existing files alone, then builds or
// imports the image when asked.
func (c *SetupCmd) Run(ctx context.Context, app *App) error {
	home, err := app.home()
	if err != nil {
		return err
	}

	res, err := support.Materialize(home)
	if err != nil {
		return err
	}

	p := app.printer()
	for _, path := range res.Created {
		p.Line("created %s", path)
	}
	for _, path := range res.Existing {
		p.Line("kept %s", path)
	}

	if err := support.AddPackages(home, c.Package...); err != nil {
		return err
	}

	switch {
	case c.Build:
		if app.Builder == nil {
			return fault.Wrapf(ErrNoEngine, "cannot build images")
		}
		if err := ready(ctx, app, app.Builder); err != nil {
			return err
		}
		p.Line("building %s - this could take a while...", c.Image)
		if err := app.Builder.Build(ctx, res.Dir, c.Image, app.Stdout, app.Stderr); err != nil {
			return err
		}
		p.Line("built %s", c.Image)

	case c.Import != "":
		if app.Importer == nil {
			return fault.Wrapf(ErrNoEngine, "cannot import images")
		}
		if err := ready(ctx, app, app.Importer); err != nil {
			return err
		}
		if err := app.Importer.ImportImage(ctx, c.Import, c.Image); err != nil {
			return err
		}
		p.Line("imported %s as %s", c.Import, c.Image)
	}

	return nil
}

// Waits for the engine behind v when it can be pinged.
func ready(ctx context.Context, app *App, v any) error {
	pinger, ok := v.(gateway.Pinger)
	if !ok {
		return nil
	}
	return gateway.WaitReady(ctx, pinger, app.Env.Backoff)
}

// Returns the home directory for the support tree.
func (a *App) home() (string, error) {
	if a.Home != "" {
		return a.Home, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fault.Wrap(manifest.ErrConfig, err)
	}
	return home, nil
}
