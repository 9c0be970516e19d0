package runtime

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/cruciblehq/bifrost/internal/fault"
	"github.com/cruciblehq/bifrost/internal/gateway"
)

// Returns the container handle for an ID.
func (rt *Runtime) container(id string) (*container, error) {
	client, err := rt.connect()
	if err != nil {
		return nil, err
	}
	return &container{client: client, id: id, snapshotter: rt.opts.Snapshotter}, nil
}

// Starts a container from the image tag and extracts the build context into
// the workspace directory.
//
// The image must already be imported (see [Runtime.ImportImage]). If any step
// after the container starts fails, the container is destroyed before the
// error is returned.
func (rt *Runtime) Load(ctx context.Context, req gateway.LoadRequest) (gateway.Handle, error) {
	h := gateway.Handle{
		Profile:   Profile,
		ID:        gateway.ContainerID(req.Workspace),
		Workspace: req.Workspace,
		Workdir:   gateway.Workdir(req.Workspace),
		Image:     req.Image,
	}

	c, err := rt.container(h.ID)
	if err != nil {
		return gateway.Handle{}, err
	}

	image, err := resolveImage(ctx, c.client, req.Image, hostPlatform())
	if err != nil {
		return gateway.Handle{}, fault.Wrapf(gateway.ErrRuntime, "image %s: %w", req.Image, err)
	}

	if err := c.start(ctx, image, h.Workdir); err != nil {
		return gateway.Handle{}, err
	}

	if err := populate(ctx, c, h, req); err != nil {
		if derr := c.destroy(ctx); derr != nil {
			slog.Warn("failed to destroy container after load failure", "id", h.ID, "error", derr)
		}
		return gateway.Handle{}, err
	}

	slog.Debug("container loaded", "profile", Profile, "id", h.ID, "image", h.Image)
	return h, nil
}

// Creates the workspace directory and extracts the build context into it.
func populate(ctx context.Context, c *container, h gateway.Handle, req gateway.LoadRequest) error {
	if err := c.mkdirAll(ctx, h.Workdir); err != nil {
		return err
	}

	if req.Context == nil {
		return nil
	}

	r, err := req.Context.Reader()
	if err != nil {
		return fault.Wrap(gateway.ErrRuntime, err)
	}

	return c.copyTo(ctx, r, h.Workdir)
}

// Destroys the container behind the handle.
func (rt *Runtime) Unload(ctx context.Context, h gateway.Handle) error {
	c, err := rt.container(h.ID)
	if err != nil {
		return err
	}

	if err := c.destroy(ctx); err != nil {
		return err
	}

	slog.Debug("container unloaded", "profile", Profile, "id", h.ID)
	return nil
}

// Runs the command sequence through the shell in the workspace directory.
func (rt *Runtime) Exec(ctx context.Context, h gateway.Handle, req gateway.ExecRequest) (*gateway.ExecResult, error) {
	c, err := rt.container(h.ID)
	if err != nil {
		return nil, err
	}

	var stdout, stderr bytes.Buffer
	code, err := c.exec(ctx, streams{stdout: &stdout, stderr: &stderr}, req.Env, h.Workdir, req.Shell, "-c", req.Script())
	if err != nil {
		return gateway.Interrupted(ctx, stdout.String(), stderr.String(), err)
	}

	return &gateway.ExecResult{
		ExitCode: code,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}, nil
}
