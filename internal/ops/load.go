package ops

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/cruciblehq/bifrost/internal/buildctx"
	"github.com/cruciblehq/bifrost/internal/fault"
	"github.com/cruciblehq/bifrost/internal/gateway"
	"github.com/cruciblehq/bifrost/internal/workspace"
)

// Controls the load operation.
type LoadOptions struct {
	Reload bool // Unload an existing load of the workspace first.
}

// Load operation.
type loadOp struct {
	env  Env
	opts LoadOptions

	gw       gateway.Gateway // Gateway for the configured profile.
	previous *gateway.Handle // Existing load replaced when reloading.
}

// Creates the load operation.
//
// Prepare requires a populated workspace, a gateway for the configured
// container profile, and no existing load unless opts.Reload is set. Build
// archives the workspace contents; an empty workspace is a valid, empty
// archive. Execute waits for the engine, loads the archive and records the
// handle in the ledger.
func Load(env Env, opts LoadOptions) Operation[*buildctx.Context] {
	return &loadOp{env: env, opts: opts}
}

func (op *loadOp) Name() string {
	return "load"
}

func (op *loadOp) Prepare(ctx context.Context, ws *workspace.Workspace) error {
	if !ws.Populated() {
		return ErrNotPopulated
	}

	gw, err := op.env.gateway(ws.Config().ContainerProfile())
	if err != nil {
		return err
	}
	op.gw = gw

	h, ok, err := op.env.lookup(ws.Name())
	if err != nil {
		return err
	}
	if ok {
		if !op.opts.Reload {
			return fault.Wrapf(ErrAlreadyLoaded, "%s in container %s; did you mean to reload?", ws.Name(), h.ID)
		}
		op.previous = &h
	}

	return nil
}

func (op *loadOp) Build(ctx context.Context, ws *workspace.Workspace) (*buildctx.Context, error) {
	return buildctx.Create(ws.Contents(), buildctx.Options{
		Name:    ws.Name(),
		TempDir: op.env.TempDir,
	})
}

func (op *loadOp) Execute(ctx context.Context, ws *workspace.Workspace, bc *buildctx.Context) (*Info, error) {
	if err := gateway.WaitReady(ctx, op.gw, op.env.Backoff); err != nil {
		return nil, err
	}

	if op.previous != nil {
		if err := op.unloadPrevious(ctx); err != nil {
			return nil, err
		}
	}

	h, err := op.gw.Load(ctx, gateway.LoadRequest{
		Workspace: ws.Name(),
		Image:     ws.Config().Image(),
		Context:   bc,
	})
	if err != nil {
		return nil, err
	}

	h.Session = uuid.NewString()
	h.Digest = bc.Digest()
	h.Bytes = bc.PayloadSize()
	h.LoadedAt = op.env.now()

	if err := op.env.Ledger.Record(h); err != nil {
		if uerr := op.gw.Unload(ctx, h); uerr != nil {
			slog.Warn("failed to unload after ledger write failure", "id", h.ID, "error", uerr)
		}
		return nil, err
	}

	return &Info{
		Message: loadedMessage(h.Bytes),
		Handle:  &h,
	}, nil
}

// Tears down the load being replaced.
func (op *loadOp) unloadPrevious(ctx context.Context) error {
	prev := *op.previous

	gw, err := op.env.gateway(prev.Profile)
	if err != nil {
		return err
	}
	if gw != op.gw {
		if err := gateway.WaitReady(ctx, gw, op.env.Backoff); err != nil {
			return err
		}
	}

	if err := gw.Unload(ctx, prev); err != nil {
		return err
	}

	slog.Debug("previous load removed", "workspace", prev.Workspace, "id", prev.ID)
	return op.env.Ledger.Remove(prev.Workspace)
}
