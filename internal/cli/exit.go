package cli

import (
	"errors"
	"fmt"

	"github.com/cruciblehq/bifrost/internal/gateway"
	"github.com/cruciblehq/bifrost/internal/manifest"
	"github.com/cruciblehq/bifrost/internal/ops"
	"github.com/cruciblehq/bifrost/internal/snapshot"
	"github.com/cruciblehq/bifrost/internal/support"
)

// Process exit codes.
const (
	ExitOK           = 0 // Success.
	ExitFailure      = 1 // Unclassified failure.
	ExitConfig       = 2 // Manifest or override problem, including an empty command list.
	ExitWalk         = 3 // Workspace tree could not be read.
	ExitState        = 4 // Operation stage used out of order.
	ExitRuntime      = 5 // Container engine unreachable, timed out or failed.
	ExitPrecondition = 6 // Workspace not loaded, already loaded, not walked, or unknown profile.
	ExitUsage        = 7 // Command line could not be parsed.
)

// Error carrying an explicit exit code, for run --strict.
type ExitError struct {
	Code int
}

// Returns a description of the exit code.
func (e *ExitError) Error() string {
	return fmt.Sprintf("command exited with code %d", e.Code)
}

// Returns the process exit code for an error returned by [Execute].
//
// Categories are checked from the most specific so that an error matching
// several (a missing command list is also a configuration error) maps to
// one stable code.
func ExitCode(err error) int {
	var exit *ExitError

	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &exit):
		return exit.Code
	case errors.Is(err, ErrUsage):
		return ExitUsage
	case errors.Is(err, ops.ErrState):
		return ExitState
	case errors.Is(err, ops.ErrPrecondition), errors.Is(err, support.ErrNotSetUp):
		return ExitPrecondition
	case errors.Is(err, manifest.ErrConfig):
		return ExitConfig
	case errors.Is(err, snapshot.ErrWalk):
		return ExitWalk
	case errors.Is(err, gateway.ErrRuntime):
		return ExitRuntime
	default:
		return ExitFailure
	}
}
