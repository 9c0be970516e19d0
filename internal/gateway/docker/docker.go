package docker

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/cruciblehq/bifrost/internal/fault"
	"github.com/cruciblehq/bifrost/internal/gateway"
)

const (

	// Profile name served by this gateway.
	Profile = "docker"

	// Binary used when none is configured.
	defaultBinary = "docker"

	// Label attached to every container bifrost starts.
	labelWorkspace = "dev.bifrost.workspace"
)

// Gateway backed by the docker command line.
type Gateway struct {
	binary string // Docker binary name or path.
	run    Runner // Process runner.
}

// Configures a [Gateway].
type Option func(*Gateway)

// Replaces the process runner.
func WithRunner(r Runner) Option {
	return func(g *Gateway) {
		g.run = r
	}
}

// Creates a gateway that invokes binary, or "docker" when empty.
func New(binary string, opts ...Option) *Gateway {
	if binary == "" {
		binary = defaultBinary
	}
	g := &Gateway{binary: binary, run: execRunner}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Returns the profile name.
func (g *Gateway) Profile() string {
	return Profile
}

// Checks that the docker daemon answers.
func (g *Gateway) Ping(ctx context.Context) error {
	var stderr bytes.Buffer
	code, err := g.run(ctx, g.binary, Command{
		Args:   []string{"info", "--format", "{{.ServerVersion}}"},
		Stderr: &stderr,
	})
	if err != nil {
		return fault.Wrap(gateway.ErrUnreachable, err)
	}
	if code != 0 {
		return fault.Wrapf(gateway.ErrUnreachable, "docker info exited %d: %s", code, strings.TrimSpace(stderr.String()))
	}
	return nil
}

// Starts a container and copies the build context into it.
//
// A stale container with the same name is removed first. If any step after
// the container starts fails, the container is removed again before the
// error is returned.
func (g *Gateway) Load(ctx context.Context, req gateway.LoadRequest) (gateway.Handle, error) {
	h := gateway.Handle{
		Profile:   Profile,
		ID:        gateway.ContainerID(req.Workspace),
		Workspace: req.Workspace,
		Workdir:   gateway.Workdir(req.Workspace),
		Image:     req.Image,
	}

	g.remove(ctx, h.ID)

	if err := g.mustRun(ctx, "docker run", nil,
		"run", "-d",
		"--name", h.ID,
		"--label", labelWorkspace+"="+req.Workspace,
		req.Image,
		"sleep", "infinity",
	); err != nil {
		return gateway.Handle{}, err
	}

	if err := g.populate(ctx, h, req); err != nil {
		g.remove(ctx, h.ID)
		return gateway.Handle{}, err
	}

	slog.Debug("container loaded", "profile", Profile, "id", h.ID, "image", h.Image)
	return h, nil
}

// Creates the workspace directory and extracts the build context into it.
func (g *Gateway) populate(ctx context.Context, h gateway.Handle, req gateway.LoadRequest) error {
	if err := g.mustRun(ctx, "mkdir", nil, "exec", h.ID, "mkdir", "-p", h.Workdir); err != nil {
		return err
	}

	if req.Context == nil {
		return nil
	}

	r, err := req.Context.Reader()
	if err != nil {
		return fault.Wrap(gateway.ErrRuntime, err)
	}

	return g.mustRun(ctx, "docker cp", r, "cp", "-", h.ID+":"+h.Workdir)
}

// Removes the container. A container that no longer exists is not an error.
func (g *Gateway) Unload(ctx context.Context, h gateway.Handle) error {
	var stderr bytes.Buffer
	code, err := g.run(ctx, g.binary, Command{
		Args:   []string{"rm", "-f", h.ID},
		Stderr: &stderr,
	})
	if err != nil {
		return fault.Wrap(gateway.ErrUnreachable, err)
	}
	if code != 0 && !isNoSuchContainer(stderr.String()) {
		return fault.Wrapf(gateway.ErrNonZeroExit, "docker rm exited %d: %s", code, strings.TrimSpace(stderr.String()))
	}

	slog.Debug("container unloaded", "profile", Profile, "id", h.ID)
	return nil
}

// Runs the command sequence in the workspace directory.
//
// The commands' exit code is returned in the result; only failing to run
// docker itself is an error. Output captured before such a failure is kept.
func (g *Gateway) Exec(ctx context.Context, h gateway.Handle, req gateway.ExecRequest) (*gateway.ExecResult, error) {
	var stdout, stderr bytes.Buffer
	code, err := g.run(ctx, g.binary, Command{
		Args:   execArgs(h, req),
		Stdout: &stdout,
		Stderr: &stderr,
	})
	if err != nil {
		return gateway.Interrupted(ctx, stdout.String(), stderr.String(), err)
	}

	return &gateway.ExecResult{
		ExitCode: code,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}, nil
}

// Builds an image from the build definition in dir.
//
// Build output is streamed to the given writers.
func (g *Gateway) Build(ctx context.Context, dir, tag string, stdout, stderr io.Writer) error {
	code, err := g.run(ctx, g.binary, Command{
		Args:   []string{"build", "-t", tag, dir},
		Stdout: stdout,
		Stderr: stderr,
	})
	if err != nil {
		return fault.Wrap(gateway.ErrUnreachable, err)
	}
	if code != 0 {
		return fault.Wrapf(gateway.ErrNonZeroExit, "docker build exited %d", code)
	}
	return nil
}

// Builds the arguments for a docker exec of the command sequence.
func execArgs(h gateway.Handle, req gateway.ExecRequest) []string {
	args := []string{"exec", "-w", h.Workdir}
	for _, kv := range req.Env {
		args = append(args, "-e", kv)
	}
	return append(args, h.ID, req.Shell, "-c", req.Script())
}

// Removes a container, ignoring any failure.
func (g *Gateway) remove(ctx context.Context, id string) {
	code, err := g.run(ctx, g.binary, Command{Args: []string{"rm", "-f", id}})
	if err != nil || code != 0 {
		slog.Debug("container removal skipped", "id", id, "code", code, "error", err)
	}
}

// Runs docker and fails with desc if it exits non-zero.
func (g *Gateway) mustRun(ctx context.Context, desc string, stdin io.Reader, args ...string) error {
	var stderr bytes.Buffer
	code, err := g.run(ctx, g.binary, Command{Args: args, Stdin: stdin, Stderr: &stderr})
	if err != nil {
		return fault.Wrap(gateway.ErrUnreachable, err)
	}
	if code != 0 {
		return fault.Wrapf(gateway.ErrNonZeroExit, "%s failed with exit code %d (%s)", desc, code, strings.TrimSpace(stderr.String()))
	}
	return nil
}

// Whether docker reported that the container does not exist.
func isNoSuchContainer(stderr string) bool {
	return strings.Contains(strings.ToLower(stderr), "no such container")
}
