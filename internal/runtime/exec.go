package runtime

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	containerd "github.com/containerd/containerd/v2/client"
	"github.com/containerd/containerd/v2/pkg/cio"
	specs "github.com/opencontainers/runtime-spec/specs-go"

	"github.com/cruciblehq/bifrost/internal/fault"
	"github.com/cruciblehq/bifrost/internal/gateway"
)

// Sequence counter for exec process identifiers.
var execSeq atomic.Uint64

// Returns a unique exec process identifier.
func nextExecID() string {
	return fmt.Sprintf("bifrost-exec-%d", execSeq.Add(1))
}

// Streams connected to an exec process. Nil fields are disconnected.
type streams struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// Runs args inside the container and returns the exit code.
//
// The process inherits the container spec's environment with env merged on
// top, and runs in workdir when set. A non-zero exit code is not an error.
func (c *container) exec(ctx context.Context, s streams, env []string, workdir string, args ...string) (int, error) {
	pspec, err := c.processSpec(ctx, env, workdir, args...)
	if err != nil {
		return 0, fault.Wrap(gateway.ErrRuntime, err)
	}

	task, err := c.loadTask(ctx)
	if err != nil {
		return 0, err
	}

	if s.stdout == nil {
		s.stdout = io.Discard
	}
	if s.stderr == nil {
		s.stderr = io.Discard
	}

	var stdinDone <-chan struct{}
	if s.stdin != nil {
		er := newEOFReader(s.stdin)
		s.stdin = er
		stdinDone = er.done
	}

	process, err := task.Exec(ctx, nextExecID(), pspec, cio.NewCreator(
		cio.WithStreams(s.stdin, s.stdout, s.stderr),
	))
	if err != nil {
		return 0, fault.Wrap(gateway.ErrRuntime, err)
	}

	return await(ctx, process, stdinDone)
}

// Runs args and fails with desc if the process exits non-zero.
func (c *container) mustExec(ctx context.Context, desc string, stdin io.Reader, args ...string) error {
	var stderr bytes.Buffer
	code, err := c.exec(ctx, streams{stdin: stdin, stderr: &stderr}, nil, "", args...)
	if err != nil {
		return err
	}
	if code != 0 {
		return fault.Wrapf(gateway.ErrNonZeroExit, "%s failed with exit code %d (%s)", desc, code, strings.TrimSpace(stderr.String()))
	}
	return nil
}

// Builds an OCI process spec from the container's own spec.
//
// Terminal mode is always off. env entries override matching keys and
// workdir replaces the working directory when non-empty.
func (c *container) processSpec(ctx context.Context, env []string, workdir string, args ...string) (*specs.Process, error) {
	ctr, err := c.client.LoadContainer(ctx, c.id)
	if err != nil {
		return nil, err
	}

	spec, err := ctr.Spec(ctx)
	if err != nil {
		return nil, err
	}

	pspec := *spec.Process
	pspec.Terminal = false
	pspec.Args = args

	if len(env) > 0 {
		pspec.Env = mergeEnv(pspec.Env, env)
	}
	if workdir != "" {
		pspec.Cwd = workdir
	}

	return &pspec, nil
}

// Merges KEY=VALUE overrides on top of a base environment.
//
// Base order is kept; overridden keys keep their position and new keys are
// appended in the order given. Entries without "=" are dropped.
func mergeEnv(base, overrides []string) []string {
	values := make(map[string]string, len(base)+len(overrides))
	var order []string

	for _, list := range [][]string{base, overrides} {
		for _, entry := range list {
			k, v, ok := strings.Cut(entry, "=")
			if !ok {
				continue
			}
			if _, seen := values[k]; !seen {
				order = append(order, k)
			}
			values[k] = v
		}
	}

	merged := make([]string, 0, len(order))
	for _, k := range order {
		merged = append(merged, k+"="+values[k])
	}
	return merged
}

// Starts an exec process, waits for it to exit, and returns the exit code.
//
// When stdinDone is non-nil the process stdin is closed once it fires; the
// shim keeps both ends of the stdin FIFO open and would never deliver EOF
// otherwise. The process is always deleted before returning.
func await(ctx context.Context, process containerd.Process, stdinDone <-chan struct{}) (int, error) {
	statusC, err := process.Wait(ctx)
	if err != nil {
		process.Delete(ctx)
		return 0, fault.Wrap(gateway.ErrRuntime, err)
	}

	if err := process.Start(ctx); err != nil {
		process.Delete(ctx)
		return 0, fault.Wrap(gateway.ErrRuntime, err)
	}

	if stdinDone != nil {
		go func() {
			<-stdinDone
			process.CloseIO(ctx, containerd.WithStdinCloser)
		}()
	}

	status := <-statusC
	process.Delete(ctx)

	code, _, err := status.Result()
	if err != nil {
		return 0, fault.Wrap(gateway.ErrRuntime, err)
	}
	return int(code), nil
}
