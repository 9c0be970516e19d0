package ops

import (
	"context"
	"fmt"

	"github.com/cruciblehq/bifrost/internal/fault"
	"github.com/cruciblehq/bifrost/internal/gateway"
	"github.com/cruciblehq/bifrost/internal/workspace"
)

// Controls the run operation.
type RunOptions struct {
	Env []string // Extra KEY=VALUE entries for the command environment.
}

// Run operation.
type runOp struct {
	env  Env
	opts RunOptions

	gw     gateway.Gateway // Gateway that created the load.
	handle gateway.Handle  // Recorded load.
}

// Creates the run operation.
//
// Prepare requires at least one runnable command and a recorded load. Build
// assembles the exec request. Execute runs the commands and returns both
// output streams; a command that fails inside the container is reported in
// the result, not as an error. A sequence the engine cuts short returns its
// partial output together with the error.
func Run(env Env, opts RunOptions) Operation[gateway.ExecRequest] {
	return &runOp{env: env, opts: opts}
}

func (op *runOp) Name() string {
	return "run"
}

func (op *runOp) Prepare(ctx context.Context, ws *workspace.Workspace) error {
	if len(ws.Config().Runnable()) == 0 {
		return fault.Wrapf(ErrNoCommands, "edit [command] cmds in %s", ws.Config().ManifestPath())
	}

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

func (op *runOp) Build(ctx context.Context, ws *workspace.Workspace) (gateway.ExecRequest, error) {
	return gateway.ExecRequest{
		Commands: ws.Config().Runnable(),
		Shell:    ws.Config().Shell(),
		Env:      op.opts.Env,
	}, nil
}

func (op *runOp) Execute(ctx context.Context, ws *workspace.Workspace, req gateway.ExecRequest) (*Info, error) {
	if err := gateway.WaitReady(ctx, op.gw, op.env.Backoff); err != nil {
		return nil, err
	}

	res, err := op.gw.Exec(ctx, op.handle, req)
	if err != nil {
		if res == nil {
			return nil, err
		}
		return &Info{
			Message: fmt.Sprintf("interrupted %d command(s) in %s", len(req.Commands), op.handle.Workdir),
			Handle:  &op.handle,
			Result:  res,
		}, err
	}

	msg := fmt.Sprintf("ran %d command(s) in %s", len(req.Commands), op.handle.Workdir)
	if !res.OK() {
		msg = fmt.Sprintf("%s, exit code %d", msg, res.ExitCode)
	}

	return &Info{
		Message: msg,
		Handle:  &op.handle,
		Result:  res,
	}, nil
}
