package ops

import (
	"time"

	"github.com/cruciblehq/bifrost/internal/gateway"
	"github.com/cruciblehq/bifrost/internal/ledger"
)

// Collaborators shared by every operation.
type Env struct {
	Gateways *gateway.Registry // Gateways by profile name.
	Ledger   *ledger.Ledger    // Loaded workspace handles. Required by load, run and unload.
	Backoff  gateway.Backoff   // Readiness policy applied before engine calls.
	Clock    func() time.Time  // Time source. Nil uses time.Now.
	TempDir  string            // Directory for build context archives. Empty uses the system default.
}

// Returns the current time from the configured clock.
func (e Env) now() time.Time {
	if e.Clock == nil {
		return time.Now()
	}
	return e.Clock()
}

// Returns the gateway serving profile.
func (e Env) gateway(profile string) (gateway.Gateway, error) {
	if e.Gateways != nil {
		if gw, ok := e.Gateways.Lookup(profile); ok {
			return gw, nil
		}
	}
	return nil, unknownProfile(e.Gateways, profile)
}

// Returns the recorded handle for a workspace, failing with ErrNoLedger when
// no ledger is configured.
func (e Env) lookup(workspace string) (gateway.Handle, bool, error) {
	if e.Ledger == nil {
		return gateway.Handle{}, false, ErrNoLedger
	}
	return e.Ledger.Lookup(workspace)
}

// Returns the handle recorded for a workspace, or ErrNotLoaded.
func (e Env) loaded(workspace string) (gateway.Handle, error) {
	h, ok, err := e.lookup(workspace)
	if err != nil {
		return gateway.Handle{}, err
	}
	if !ok {
		return gateway.Handle{}, notLoaded(workspace)
	}
	return h, nil
}
