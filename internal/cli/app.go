package cli

import (
	"context"
	"io"
	"os"

	"github.com/cruciblehq/bifrost/internal/gateway"
	"github.com/cruciblehq/bifrost/internal/gateway/docker"
	"github.com/cruciblehq/bifrost/internal/ledger"
	"github.com/cruciblehq/bifrost/internal/manifest"
	"github.com/cruciblehq/bifrost/internal/ops"
	"github.com/cruciblehq/bifrost/internal/runtime"
	"github.com/cruciblehq/bifrost/internal/ui"
	"github.com/cruciblehq/bifrost/internal/workspace"
)

// Builds an image from a directory holding a Dockerfile.
type ImageBuilder interface {
	Build(ctx context.Context, dir, tag string, stdout, stderr io.Writer) error
}

// Imports an OCI archive under an image tag.
type ImageImporter interface {
	ImportImage(ctx context.Context, path, tag string) error
}

// Collaborators of a single invocation.
type App struct {
	Stdout   io.Writer     // Results.
	Stderr   io.Writer     // Image build output.
	Home     string        // Home directory. Empty uses the user's.
	Cwd      string        // Working directory. Empty uses the process's.
	Env      ops.Env       // Gateways, ledger and readiness policy.
	Builder  ImageBuilder  // Used by setup --build. Nil disables it.
	Importer ImageImporter // Used by setup --import. Nil disables it.
}

// Creates the production app talking to the local engines.
//
// The containerd connection is opened lazily, so commands that never reach
// an engine do not need one.
func NewApp() *App {
	dock := docker.New("")
	ctrd := runtime.New(runtime.Options{})

	return &App{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Env: ops.Env{
			Gateways: gateway.NewRegistry(dock, ctrd),
			Ledger:   ledger.Open(""),
			Backoff:  gateway.DefaultBackoff,
		},
		Builder:  dock,
		Importer: ctrd,
	}
}

// Releases engine connections.
func (a *App) Close() error {
	if c, ok := a.Importer.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Returns a printer for results.
func (a *App) printer() *ui.Printer {
	return ui.NewPrinter(a.Stdout)
}

// Resolves the configuration for a workspace command.
func (a *App) configuration(f ManifestFlags, include []string, init bool) (*manifest.Configuration, error) {
	return a.resolve(f, include, manifest.Options{Init: init})
}

// Resolves the configuration with resolution options set by the caller.
func (a *App) resolve(f ManifestFlags, include []string, opts manifest.Options) (*manifest.Configuration, error) {
	opts.Overrides = f.overrides()
	if len(include) > 0 {
		opts.Overrides.Include = include
	}
	opts.Path = f.Manifest
	opts.Home = a.Home
	opts.Cwd = a.Cwd

	return manifest.Resolve(opts)
}

// Resolves the configuration and walks the workspace.
func (a *App) workspace(f ManifestFlags, include []string) (*workspace.Workspace, error) {
	cfg, err := a.configuration(f, include, false)
	if err != nil {
		return nil, err
	}

	ws := workspace.New(cfg)
	if err := ws.Populate(); err != nil {
		return nil, err
	}
	return ws, nil
}
