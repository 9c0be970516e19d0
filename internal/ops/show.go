package ops

import (
	"context"
	"log/slog"

	"github.com/cruciblehq/bifrost/internal/gateway"
	"github.com/cruciblehq/bifrost/internal/snapshot"
	"github.com/cruciblehq/bifrost/internal/workspace"
)

// Controls the show operation.
type ShowOptions struct {
	All bool // Include per-file sizes and the ignore list.
}

// Human-readable description of a workspace.
type Summary struct {
	Project   string          // Project name.
	Workspace string          // Workspace name.
	Container string          // Container profile.
	Image     string          // Container image.
	Shell     string          // Command shell.
	Manifest  string          // Manifest path.
	Ignore    []string        // Ignore patterns.
	Commands  []string        // Runnable commands.
	Roots     []RootSummary   // One entry per snapshot.
	Files     int             // Total files.
	Bytes     int64           // Total content bytes.
	Loaded    *gateway.Handle // Recorded load, nil when not loaded.
	Detailed  bool            // Whether per-file detail was requested.
}

// Description of one snapshot root.
type RootSummary struct {
	Root       string           // Absolute root path.
	Prefix     string           // Location in the build context.
	Entries    []snapshot.Entry // Files in order.
	Unreadable []string         // Errors for subtrees that could not be read.
}

// Show operation.
type showOp struct {
	env  Env
	opts ShowOptions

	loaded *gateway.Handle // Recorded load, if any.
}

// Creates the show operation.
//
// Prepare requires a populated workspace. Build assembles the summary.
// Execute returns it without calling the engine.
func Show(env Env, opts ShowOptions) Operation[*Summary] {
	return &showOp{env: env, opts: opts}
}

func (op *showOp) Name() string {
	return "show"
}

func (op *showOp) Prepare(ctx context.Context, ws *workspace.Workspace) error {
	if !ws.Populated() {
		return ErrNotPopulated
	}

	if op.env.Ledger == nil {
		return nil
	}

	h, ok, err := op.env.Ledger.Lookup(ws.Name())
	switch {
	case err != nil:
		slog.Warn("load status unavailable", "error", err)
	case ok:
		op.loaded = &h
	}

	return nil
}

func (op *showOp) Build(ctx context.Context, ws *workspace.Workspace) (*Summary, error) {
	cfg := ws.Config()

	s := &Summary{
		Project:   cfg.ProjectName(),
		Workspace: ws.Name(),
		Container: cfg.ContainerProfile(),
		Image:     cfg.Image(),
		Shell:     cfg.Shell(),
		Manifest:  cfg.ManifestPath(),
		Ignore:    cfg.Ignore(),
		Commands:  cfg.Runnable(),
		Files:     ws.Files(),
		Bytes:     ws.Size(),
		Loaded:    op.loaded,
		Detailed:  op.opts.All,
	}

	for _, c := range ws.Contents() {
		rs := RootSummary{
			Root:    c.Root(),
			Prefix:  c.Prefix,
			Entries: c.Entries(),
		}
		for _, err := range c.Errors() {
			rs.Unreadable = append(rs.Unreadable, err.Error())
		}
		s.Roots = append(s.Roots, rs)
	}

	return s, nil
}

func (op *showOp) Execute(ctx context.Context, ws *workspace.Workspace, s *Summary) (*Info, error) {
	return &Info{
		Message: ws.Name(),
		Summary: s,
	}, nil
}
