package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/cruciblehq/bifrost/internal"
	"github.com/cruciblehq/bifrost/internal/fault"
	"github.com/cruciblehq/bifrost/internal/manifest"
)

// Flags accepted by every command.
type Globals struct {
	Quiet   bool `short:"q" help:"Suppress informational output."`
	Verbose bool `short:"v" help:"Add source locations to log records."`
	Debug   bool `short:"d" help:"Enable debug output."`
}

// Represents the root command for bifrost.
type RootCmd struct {
	Globals

	Init     InitCmd     `cmd:"" help:"Create a Bifrost.toml manifest in the working directory."`
	Load     LoadCmd     `cmd:"" help:"Copy the workspace into its container."`
	Show     ShowCmd     `cmd:"" help:"Describe the workspace and its load status."`
	Run      RunCmd      `cmd:"" help:"Run the manifest commands inside the loaded container."`
	Unload   UnloadCmd   `cmd:"" help:"Remove the workspace container."`
	Setup    SetupCmd    `cmd:"" help:"Create the support tree and optionally provide the image."`
	Teardown TeardownCmd `cmd:"" help:"Remove the support tree."`
	Version  VersionCmd  `cmd:"" help:"Show version information."`
}

// Parses arguments, configures logging, and runs the selected subcommand.
func Execute() error {

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app := NewApp()
	defer app.Close()

	return run(ctx, app, os.Args[1:])
}

// Runs one invocation against app.
func run(ctx context.Context, app *App, args []string) error {
	var root RootCmd

	parser, err := kong.New(&root,
		kong.Name(internal.Name),
		kong.Description("Stage a local directory into a container and run commands in it."),
		kong.Writers(app.Stdout, app.Stderr),
		kong.Vars{
			"version": internal.VersionString(),
			"image":   manifest.DefaultImage,
		},
		kong.BindTo(ctx, (*context.Context)(nil)),
		kong.Bind(app, &root.Globals),
	)
	if err != nil {
		return err
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		var perr *kong.ParseError
		if errors.As(err, &perr) && perr.Context != nil {
			_ = perr.Context.PrintUsage(true)
		}
		return fault.Wrap(ErrUsage, err)
	}

	configureLogger(&root.Globals)

	return kongCtx.Run()
}
