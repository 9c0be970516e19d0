package runtime

import (
	"context"
	"log/slog"
	"os"
	goruntime "runtime"
	"sync"

	containerd "github.com/containerd/containerd/v2/client"
	"github.com/containerd/containerd/v2/core/images"
	"github.com/containerd/errdefs"
	"github.com/containerd/platforms"

	"github.com/cruciblehq/bifrost/internal/fault"
	"github.com/cruciblehq/bifrost/internal/gateway"
)

const (

	// Profile name served by this gateway.
	Profile = "containerd"

	// Socket used when none is configured.
	DefaultAddress = "/run/containerd/containerd.sock"

	// Namespace scoping every containerd object bifrost creates.
	DefaultNamespace = "bifrost"

	// Snapshotter used when none is configured.
	DefaultSnapshotter = "overlayfs"

	// OCI runtime shim for running containers.
	ociRuntime = "io.containerd.runc.v2"
)

// Connection settings for a [Runtime].
type Options struct {
	Address     string // Containerd socket. Empty uses DefaultAddress.
	Namespace   string // Containerd namespace. Empty uses DefaultNamespace.
	Snapshotter string // Snapshotter for container filesystems. Empty uses DefaultSnapshotter.
}

// Gateway backed by a containerd daemon.
type Runtime struct {
	opts Options

	mu     sync.Mutex
	client *containerd.Client // Connected on first use.
}

// Creates a runtime. No connection is made until the first call.
func New(opts Options) *Runtime {
	if opts.Address == "" {
		opts.Address = DefaultAddress
	}
	if opts.Namespace == "" {
		opts.Namespace = DefaultNamespace
	}
	if opts.Snapshotter == "" {
		opts.Snapshotter = DefaultSnapshotter
	}
	return &Runtime{opts: opts}
}

// Returns the profile name.
func (rt *Runtime) Profile() string {
	return Profile
}

// Closes the containerd connection, if one was made.
func (rt *Runtime) Close() error {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	if rt.client == nil {
		return nil
	}
	err := rt.client.Close()
	rt.client = nil
	return err
}

// Returns the connected client, connecting if needed.
func (rt *Runtime) connect() (*containerd.Client, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	if rt.client != nil {
		return rt.client, nil
	}

	if _, err := os.Stat(rt.opts.Address); err != nil {
		return nil, fault.Wrap(gateway.ErrUnreachable, err)
	}

	client, err := containerd.New(rt.opts.Address, containerd.WithDefaultNamespace(rt.opts.Namespace))
	if err != nil {
		return nil, fault.Wrap(gateway.ErrUnreachable, err)
	}

	rt.client = client
	return client, nil
}

// Checks that the daemon is serving requests.
func (rt *Runtime) Ping(ctx context.Context) error {
	client, err := rt.connect()
	if err != nil {
		return err
	}

	serving, err := client.IsServing(ctx)
	if err != nil {
		return fault.Wrap(gateway.ErrUnreachable, err)
	}
	if !serving {
		return fault.Wrapf(gateway.ErrUnreachable, "containerd at %s is not serving", rt.opts.Address)
	}
	return nil
}

// Imports an OCI archive, tags it under the given name, and unpacks it for
// the host platform.
func (rt *Runtime) ImportImage(ctx context.Context, path, tag string) error {
	client, err := rt.connect()
	if err != nil {
		return err
	}

	source, err := importArchive(ctx, client, path)
	if err != nil {
		return fault.Wrap(gateway.ErrRuntime, err)
	}

	if err := tagImage(ctx, client, source, tag); err != nil {
		return fault.Wrap(gateway.ErrRuntime, err)
	}

	image, err := resolveImage(ctx, client, tag, hostPlatform())
	if err != nil {
		return fault.Wrap(gateway.ErrRuntime, err)
	}

	if err := image.Unpack(ctx, rt.opts.Snapshotter); err != nil {
		return fault.Wrap(gateway.ErrRuntime, err)
	}

	slog.Debug("image imported", "path", path, "tag", tag)
	return nil
}

// Imports an OCI archive into the content store.
//
// The archive must contain exactly one image. A multi-platform archive is a
// single index entry, so it is accepted; platform selection happens when the
// image is resolved.
func importArchive(ctx context.Context, client *containerd.Client, path string) (images.Image, error) {
	fh, err := os.Open(path)
	if err != nil {
		return images.Image{}, err
	}
	defer fh.Close()

	imported, err := client.Import(ctx, fh)
	if err != nil {
		return images.Image{}, err
	}

	switch len(imported) {
	case 0:
		return images.Image{}, ErrEmptyArchive
	case 1:
		return imported[0], nil
	default:
		return images.Image{}, ErrMultipleImages
	}
}

// Points tag at the imported image.
//
// Updates the tag if it already exists. Removes the source record when its
// name differs from the tag to avoid duplicates.
func tagImage(ctx context.Context, client *containerd.Client, source images.Image, tag string) error {
	is := client.ImageService()

	img := images.Image{
		Name:   tag,
		Target: source.Target,
	}

	if _, err := is.Create(ctx, img); err != nil {
		if !errdefs.IsAlreadyExists(err) {
			return err
		}
		if _, err := is.Update(ctx, img, "target"); err != nil {
			return err
		}
	}

	if source.Name != tag {
		_ = is.Delete(ctx, source.Name)
	}

	return nil
}

// Looks up a tagged image restricted to one platform.
func resolveImage(ctx context.Context, client *containerd.Client, tag, platform string) (containerd.Image, error) {
	p, err := platforms.Parse(platform)
	if err != nil {
		return nil, err
	}

	img, err := client.ImageService().Get(ctx, tag)
	if err != nil {
		return nil, err
	}

	return containerd.NewImageWithPlatform(client, img, platforms.Only(p)), nil
}

// Returns the OCI platform for the host architecture.
func hostPlatform() string {
	return "linux/" + goruntime.GOARCH
}
