// Package gatewaytest provides an in-memory [gateway.Gateway] for tests.
package gatewaytest

import (
	"archive/tar"
	"context"
	"io"
	"slices"
	"sync"

	"github.com/cruciblehq/bifrost/internal/fault"
	"github.com/cruciblehq/bifrost/internal/gateway"
)

// Container loaded into the fake engine.
type Container struct {
	Handle gateway.Handle    // Handle returned by Load.
	Names  []string          // Archive entry names in order.
	Files  map[string]string // Regular file contents by name.
}

// In-memory gateway recording every call.
//
// Fields ending in Err make the corresponding call fail. The zero value is
// not usable; create one with [New].
type Gateway struct {
	PingErr   error // Returned by Ping after PingFailures is exhausted.
	LoadErr   error // Returned by Load.
	UnloadErr error // Returned by Unload.
	ExecErr   error // Returned by Exec, with ExecFunc's result as partial output when set.

	// Number of leading pings that fail with gateway.ErrUnreachable.
	PingFailures int

	// Produces Exec output. Nil returns an empty, successful result.
	ExecFunc func(h gateway.Handle, req gateway.ExecRequest) *gateway.ExecResult

	mu         sync.Mutex
	profile    string
	pings      int
	containers map[string]*Container
	unloaded   []string
	execs      []gateway.ExecRequest
}

// Creates a fake gateway serving the given profile.
func New(profile string) *Gateway {
	return &Gateway{
		profile:    profile,
		containers: map[string]*Container{},
	}
}

// Returns the profile name.
func (g *Gateway) Profile() string {
	return g.profile
}

// Counts the ping and fails while PingFailures remain.
func (g *Gateway) Ping(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.pings++
	if g.pings <= g.PingFailures {
		return fault.Wrapf(gateway.ErrUnreachable, "ping %d refused", g.pings)
	}
	return g.PingErr
}

// Reads the build context into memory and records a container.
func (g *Gateway) Load(ctx context.Context, req gateway.LoadRequest) (gateway.Handle, error) {
	if g.LoadErr != nil {
		return gateway.Handle{}, g.LoadErr
	}

	ctr := &Container{
		Handle: gateway.Handle{
			Profile:   g.profile,
			ID:        gateway.ContainerID(req.Workspace),
			Workspace: req.Workspace,
			Workdir:   gateway.Workdir(req.Workspace),
			Image:     req.Image,
		},
		Files: map[string]string{},
	}

	if req.Context != nil {
		r, err := req.Context.Reader()
		if err != nil {
			return gateway.Handle{}, fault.Wrap(gateway.ErrRuntime, err)
		}
		if err := ctr.extract(r); err != nil {
			return gateway.Handle{}, fault.Wrap(gateway.ErrRuntime, err)
		}
	}

	g.mu.Lock()
	g.containers[ctr.Handle.ID] = ctr
	g.mu.Unlock()

	return ctr.Handle, nil
}

// Forgets the container behind the handle.
func (g *Gateway) Unload(ctx context.Context, h gateway.Handle) error {
	if g.UnloadErr != nil {
		return g.UnloadErr
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.containers, h.ID)
	g.unloaded = append(g.unloaded, h.ID)
	return nil
}

// Records the request and returns ExecFunc's result.
func (g *Gateway) Exec(ctx context.Context, h gateway.Handle, req gateway.ExecRequest) (*gateway.ExecResult, error) {
	g.mu.Lock()
	g.execs = append(g.execs, req)
	g.mu.Unlock()

	if g.ExecFunc == nil {
		if g.ExecErr != nil {
			return nil, g.ExecErr
		}
		return &gateway.ExecResult{}, nil
	}
	return g.ExecFunc(h, req), g.ExecErr
}

// Returns the number of pings received.
func (g *Gateway) Pings() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pings
}

// Returns the loaded container with the given ID.
func (g *Gateway) Container(id string) (*Container, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	c, ok := g.containers[id]
	return c, ok
}

// Returns the IDs of unloaded containers in call order.
func (g *Gateway) Unloaded() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.unloaded)
}

// Returns the exec requests in call order.
func (g *Gateway) Execs() []gateway.ExecRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.execs)
}

// Reads a tar stream into the container's file map.
func (c *Container) extract(r io.Reader) error {
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		c.Names = append(c.Names, hdr.Name)
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		data, err := io.ReadAll(tr)
		if err != nil {
			return err
		}
		c.Files[hdr.Name] = string(data)
	}
}
