package ops

import (
	"fmt"
	"strings"

	"github.com/cruciblehq/bifrost/internal/fault"
	"github.com/cruciblehq/bifrost/internal/gateway"
)

// Outcome of an executed operation.
type Info struct {
	Op        string              // Operation name.
	Workspace string              // Workspace name.
	Message   string              // One-line summary for the user.
	Handle    *gateway.Handle     // Handle created by load or removed by unload.
	Summary   *Summary            // Workspace description produced by show.
	Result    *gateway.ExecResult // Captured output of run.
}

// Returns the precondition error for a missing load.
func notLoaded(workspace string) error {
	return fault.Wrapf(ErrNotLoaded, "%s; run load first", workspace)
}

// Returns the precondition error for a profile with no gateway.
func unknownProfile(reg *gateway.Registry, profile string) error {
	var known []string
	if reg != nil {
		known = reg.Profiles()
	}
	return fault.Wrapf(ErrUnknownProfile, "%q (known profiles: %s)", profile, strings.Join(known, ", "))
}

// Formats the load message.
func loadedMessage(bytes int64) string {
	return fmt.Sprintf("loaded %d bytes", bytes)
}
