package cli

import (
	"context"
	"os"

	"github.com/cruciblehq/bifrost/internal/fault"
	"github.com/cruciblehq/bifrost/internal/manifest"
)

// Represents the 'bifrost init' command.
type InitCmd struct {
	ManifestFlags

	Force bool `short:"f" help:"Rewrite an existing manifest with the overrides applied. A malformed manifest is replaced by the default."`
}

// Executes the init command.
//
// Writes the default manifest, with any overrides applied, to the working
// directory. An existing manifest is only rewritten with --force, which also
// replaces one that cannot be parsed.
func (c *InitCmd) Run(ctx context.Context, app *App) error {
	cfg, err := app.resolve(c.ManifestFlags, nil, manifest.Options{Init: true, Repair: c.Force})
	if err != nil {
		return err
	}

	if !cfg.Synthesized() && !c.Force {
		return fault.Wrapf(ErrManifestExist, "%s; use --force to rewrite it", cfg.ManifestPath())
	}

	_, statErr := os.Stat(cfg.ManifestPath())
	existed := statErr == nil

	if err := manifest.Save(cfg.ManifestPath(), cfg.Manifest()); err != nil {
		return err
	}

	p := app.printer()
	if !existed {
		p.Line("Initialized default Bifrost realm in %s", cfg.Cwd())
	} else {
		p.Line("Rewrote %s", cfg.ManifestPath())
	}
	return nil
}
