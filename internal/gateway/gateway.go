package gateway

import (
	"context"
	"path"
	"strings"
	"time"

	"github.com/opencontainers/go-digest"

	"github.com/cruciblehq/bifrost/internal/buildctx"
	"github.com/cruciblehq/bifrost/internal/fault"
)

// Directory inside the container under which workspaces are placed.
const WorkspaceRoot = "/bifrost"

// Container engine boundary.
type Gateway interface {

	// Returns the profile name this gateway serves (for example "docker").
	Profile() string

	// Checks that the engine is reachable.
	Ping(ctx context.Context) error

	// Starts a container and copies the build context into the workspace
	// directory.
	Load(ctx context.Context, req LoadRequest) (Handle, error)

	// Removes the container behind the handle.
	Unload(ctx context.Context, h Handle) error

	// Runs a command sequence in the handle's workspace directory. When the
	// sequence starts but does not run to completion, the output captured so
	// far is returned with [ExitInterrupted] alongside an error matching
	// [ErrInterrupted].
	Exec(ctx context.Context, h Handle, req ExecRequest) (*ExecResult, error)
}

// Input to [Gateway.Load].
type LoadRequest struct {
	Workspace string            // Workspace name.
	Image     string            // Image the container is started from.
	Context   *buildctx.Context // Archive extracted into the workspace directory.
}

// Reference to a loaded container, persisted between invocations.
type Handle struct {
	Profile   string        `yaml:"profile"`          // Gateway profile that created the handle.
	ID        string        `yaml:"id"`               // Engine container identifier.
	Session   string        `yaml:"session"`          // Unique identifier of this load.
	Workspace string        `yaml:"workspace"`        // Workspace name.
	Workdir   string        `yaml:"workdir"`          // Workspace directory inside the container.
	Image     string        `yaml:"image"`            // Image the container was started from.
	Digest    digest.Digest `yaml:"digest,omitempty"` // Digest of the loaded build context.
	Bytes     int64         `yaml:"bytes"`            // Content bytes of the loaded build context.
	LoadedAt  time.Time     `yaml:"loaded_at"`        // When the load completed.
}

// Input to [Gateway.Exec].
type ExecRequest struct {
	Commands []string // Commands, run in order, stopping at the first failure.
	Shell    string   // Shell that interprets the joined commands.
	Env      []string // Extra KEY=VALUE environment entries.
}

// Joins the commands into a single shell script.
func (r ExecRequest) Script() string {
	return strings.Join(r.Commands, " && ")
}

// Exit code of a command sequence that did not run to completion.
const ExitInterrupted = -1

// Output of [Gateway.Exec].
type ExecResult struct {
	ExitCode int    // Exit code of the shell, or ExitInterrupted.
	Stdout   string // Captured standard output.
	Stderr   string // Captured standard error.
}

// Whether the command sequence succeeded.
func (r *ExecResult) OK() bool {
	return r.ExitCode == 0
}

// Returns the partial result of a sequence cut short by err.
//
// A sequence that produced no output and was not cancelled is taken to have
// never started, and err is classified as the engine being unreachable.
func Interrupted(ctx context.Context, stdout, stderr string, err error) (*ExecResult, error) {
	res := &ExecResult{ExitCode: ExitInterrupted, Stdout: stdout, Stderr: stderr}
	if stdout == "" && stderr == "" && ctx.Err() == nil {
		return res, fault.Wrap(ErrUnreachable, err)
	}
	return res, fault.Wrap(ErrInterrupted, err)
}

// Returns the workspace directory inside the container.
func Workdir(workspace string) string {
	return path.Join(WorkspaceRoot, workspace)
}

// Returns the container name used for a workspace.
func ContainerID(workspace string) string {
	return "bifrost-" + workspace
}
