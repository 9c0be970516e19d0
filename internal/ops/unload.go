package ops

import (
	"context"
	"fmt"

	"github.com/cruciblehq/bifrost/internal/gateway"
	"github.com/cruciblehq/bifrost/internal/workspace"
)

// Unload operation.
type unloadOp struct {
	env Env

	gw     gateway.Gateway // Gateway that created the load.
	handle gateway.Handle  // Recorded load.
}

// Creates the unload operation.
//
// Prepare requires a recorded load for the workspace and a gateway for the
// profile that created it. Build produces nothing. Execute removes the
// container and the ledger entry.
func Unload(env Env) Operation[gateway.Handle] {
	return &unloadOp{env: env}
}

func (op *unloadOp) Name() string {
	return "unload"
}

func (op *unloadOp) Prepare(ctx context.Context, ws *workspace.Workspace) error {
	h, err := op.env.loaded(ws.Name())
	if err != nil {
		return err
	}

	gw, err := op.env.gateway(h.Profile)
	if err != nil {
		return err
	}

	op.gw = gw
	op.handle = h
	return nil
}

func (op *unloadOp) Build(ctx context.Context, ws *workspace.Workspace) (gateway.Handle, error) {
	return op.handle, nil
}

func (op *unloadOp) Execute(ctx context.Context, ws *workspace.Workspace, h gateway.Handle) (*Info, error) {
	if err := gateway.WaitReady(ctx, op.gw, op.env.Backoff); err != nil {
		return nil, err
	}

	if err := op.gw.Unload(ctx, h); err != nil {
		return nil, err
	}

	if err := op.env.Ledger.Remove(h.Workspace); err != nil {
		return nil, err
	}

	return &Info{
		Message: fmt.Sprintf("unloaded %s", h.Workspace),
		Handle:  &h,
	}, nil
}
