package ops

import (
	"context"
	"io"
	"log/slog"

	"github.com/cruciblehq/bifrost/internal/workspace"
)

// Lifecycle stage of an operation.
type Stage int

const (
	StageNew Stage = iota
	StagePrepared
	StageBuilt
	StageExecuted
)

// Returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageNew:
		return "new"
	case StagePrepared:
		return "prepared"
	case StageBuilt:
		return "built"
	case StageExecuted:
		return "executed"
	default:
		return "unknown"
	}
}

// One lifecycle operation producing an artifact of type A.
//
// Implementations keep whatever they learn in Prepare (the resolved gateway,
// a recorded handle) for the later steps, so a value is good for one run.
type Operation[A any] interface {

	// Returns the operation name, for logs and results.
	Name() string

	// Checks preconditions. Nothing observable may change.
	Prepare(ctx context.Context, ws *workspace.Workspace) error

	// Produces the artifact Execute consumes.
	Build(ctx context.Context, ws *workspace.Workspace) (A, error)

	// Performs the operation. A failed operation may still return an Info
	// describing what it got done.
	Execute(ctx context.Context, ws *workspace.Workspace, artifact A) (*Info, error)
}

// Operation bound to a workspace, stage new.
type Space[A any] struct {
	ws   *workspace.Workspace
	op   Operation[A]
	used bool
}

// Operation whose preconditions hold.
type Prepared[A any] struct {
	ws   *workspace.Workspace
	op   Operation[A]
	used bool
}

// Operation with its artifact built, ready to execute.
type Built[A any] struct {
	ws       *workspace.Workspace
	op       Operation[A]
	artifact A
	used     bool
}

// Binds an operation to a workspace.
func NewSpace[A any](ws *workspace.Workspace, op Operation[A]) *Space[A] {
	return &Space[A]{ws: ws, op: op}
}

// Returns [StageNew].
func (s *Space[A]) Stage() Stage {
	return StageNew
}

// Checks the operation's preconditions.
//
// The space is consumed whether or not the check succeeds.
func (s *Space[A]) Prepare(ctx context.Context) (*Prepared[A], error) {
	if s == nil || s.used {
		return nil, ErrOutOfOrder
	}
	s.used = true

	if err := s.op.Prepare(ctx, s.ws); err != nil {
		return nil, err
	}

	slog.Debug("operation prepared", "op", s.op.Name(), "workspace", s.ws.Name())
	return &Prepared[A]{ws: s.ws, op: s.op}, nil
}

// Returns [StagePrepared].
func (p *Prepared[A]) Stage() Stage {
	return StagePrepared
}

// Builds the operation's artifact.
//
// The prepared value is consumed whether or not the build succeeds.
func (p *Prepared[A]) Build(ctx context.Context) (*Built[A], error) {
	if p == nil || p.used {
		return nil, ErrOutOfOrder
	}
	p.used = true

	artifact, err := p.op.Build(ctx, p.ws)
	if err != nil {
		release(p.op.Name(), artifact)
		return nil, err
	}

	slog.Debug("operation built", "op", p.op.Name(), "workspace", p.ws.Name())
	return &Built[A]{ws: p.ws, op: p.op, artifact: artifact}, nil
}

// Returns [StageBuilt].
func (b *Built[A]) Stage() Stage {
	return StageBuilt
}

// Performs the operation and releases the artifact.
//
// On failure the Info is nil unless the operation reported partial
// progress, such as output captured before a run was cut short.
func (b *Built[A]) Execute(ctx context.Context) (*Info, error) {
	if b == nil || b.used {
		return nil, ErrOutOfOrder
	}
	b.used = true
	defer release(b.op.Name(), b.artifact)

	info, err := b.op.Execute(ctx, b.ws, b.artifact)
	if info == nil {
		return nil, err
	}

	info.Op = b.op.Name()
	info.Workspace = b.ws.Name()

	if err != nil {
		return info, err
	}

	slog.Debug("operation executed", "op", info.Op, "workspace", info.Workspace)
	return info, nil
}

// Releases the artifact without executing. Safe to call after Execute.
func (b *Built[A]) Discard() {
	if b == nil || b.used {
		return
	}
	b.used = true
	release(b.op.Name(), b.artifact)
}

// Closes an artifact that holds resources.
func release(op string, artifact any) {
	c, ok := artifact.(io.Closer)
	if !ok {
		return
	}
	if err := c.Close(); err != nil {
		slog.Warn("failed to release artifact", "op", op, "error", err)
	}
}

// Runs an operation through every stage.
func Drive[A any](ctx context.Context, ws *workspace.Workspace, op Operation[A]) (*Info, error) {
	prepared, err := NewSpace(ws, op).Prepare(ctx)
	if err != nil {
		return nil, err
	}

	built, err := prepared.Build(ctx)
	if err != nil {
		return nil, err
	}
	defer built.Discard()

	return built.Execute(ctx)
}
