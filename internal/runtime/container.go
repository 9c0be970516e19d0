package runtime

import (
	"context"
	"log/slog"
	"syscall"

	containerd "github.com/containerd/containerd/v2/client"
	"github.com/containerd/containerd/v2/pkg/cio"
	"github.com/containerd/containerd/v2/pkg/oci"
	"github.com/containerd/errdefs"
	specs "github.com/opencontainers/runtime-spec/specs-go"

	"github.com/cruciblehq/bifrost/internal/fault"
	"github.com/cruciblehq/bifrost/internal/gateway"
)

// A workspace container with a long-running task.
type container struct {
	client      *containerd.Client // Connected client.
	id          string             // Containerd container ID.
	snapshotter string             // Snapshotter holding the container filesystem.
}

// Creates the container from image and starts its task.
//
// Any existing container with the same ID is removed first.
func (c *container) start(ctx context.Context, image containerd.Image, workdir string) error {
	c.remove(ctx)

	ctr, err := c.client.NewContainer(ctx, c.id,
		containerd.WithImage(image),
		containerd.WithSnapshotter(c.snapshotter),
		containerd.WithNewSnapshot(c.id, image),
		containerd.WithRuntime(ociRuntime, nil),
		containerd.WithNewSpec(
			oci.WithDefaultSpecForPlatform(hostPlatform()),
			oci.WithImageConfig(image),
			oci.WithHostNamespace(specs.NetworkNamespace),
			oci.WithHostResolvconf,
			oci.WithProcessArgs("sleep", "infinity"),
			oci.WithProcessCwd("/"),
		),
	)
	if err != nil {
		return fault.Wrap(gateway.ErrRuntime, err)
	}

	task, err := ctr.NewTask(ctx, cio.NullIO)
	if err != nil {
		ctr.Delete(ctx, containerd.WithSnapshotCleanup)
		return fault.Wrap(gateway.ErrRuntime, err)
	}

	if err := task.Start(ctx); err != nil {
		task.Delete(ctx)
		ctr.Delete(ctx, containerd.WithSnapshotCleanup)
		return fault.Wrap(gateway.ErrRuntime, err)
	}

	slog.Debug("container started", "id", c.id, "workdir", workdir)
	return nil
}

// Kills the task and deletes the container with its snapshot.
//
// A container that no longer exists is not an error.
func (c *container) destroy(ctx context.Context) error {
	ctr, err := c.client.LoadContainer(ctx, c.id)
	if err != nil {
		if errdefs.IsNotFound(err) {
			return nil
		}
		return fault.Wrap(gateway.ErrRuntime, err)
	}

	if task, err := ctr.Task(ctx, nil); err == nil {
		task.Kill(ctx, syscall.SIGKILL)
		if _, err := task.Delete(ctx, containerd.WithProcessKill); err != nil && !errdefs.IsNotFound(err) {
			slog.Warn("failed to delete task", "id", c.id, "error", err)
		}
	}

	if err := ctr.Delete(ctx, containerd.WithSnapshotCleanup); err != nil && !errdefs.IsNotFound(err) {
		return fault.Wrap(gateway.ErrRuntime, err)
	}

	return nil
}

// Removes a stale container with this ID, ignoring failures.
func (c *container) remove(ctx context.Context) {
	if err := c.destroy(ctx); err != nil {
		slog.Debug("stale container not removed", "id", c.id, "error", err)
	}
}

// Loads the container's running task.
func (c *container) loadTask(ctx context.Context) (containerd.Task, error) {
	ctr, err := c.client.LoadContainer(ctx, c.id)
	if err != nil {
		return nil, fault.Wrap(gateway.ErrRuntime, err)
	}

	task, err := ctr.Task(ctx, nil)
	if err != nil {
		return nil, fault.Wrap(gateway.ErrRuntime, err)
	}

	return task, nil
}
