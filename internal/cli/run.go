package cli

import (
	"context"

	"github.com/cruciblehq/bifrost/internal/ops"
)

// Represents the 'bifrost run' command.
type RunCmd struct {
	ManifestFlags

	Strict bool     `short:"s" help:"Exit with the container command's exit code."`
	Env    []string `short:"e" help:"Set KEY=VALUE in the command environment (repeatable)." placeholder:"KEY=VALUE" sep:"none"`
}

// Executes the run command.
//
// A command failing inside the container is reported in the transcript and
// does not fail the invocation unless --strict is set. Output captured
// before the engine cut a run short is printed before the error.
func (c *RunCmd) Run(ctx context.Context, app *App) error {
	ws, err := app.workspace(c.ManifestFlags, nil)
	if err != nil {
		return err
	}

	info, err := ops.Drive(ctx, ws, ops.Run(app.Env, ops.RunOptions{Env: c.Env}))
	if info != nil {
		app.printer().Transcript(info)
	}
	if err != nil {
		return err
	}

	if c.Strict && !info.Result.OK() {
		return &ExitError{Code: info.Result.ExitCode}
	}
	return nil
}
