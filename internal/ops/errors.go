package ops

import (
	"errors"

	"github.com/cruciblehq/bifrost/internal/fault"
	"github.com/cruciblehq/bifrost/internal/manifest"
)

var (
	ErrState      = errors.New("state error")
	ErrOutOfOrder = fault.Kind(ErrState, "operation stage used out of order")

	ErrPrecondition   = errors.New("precondition failed")
	ErrNotPopulated   = fault.Kind(ErrPrecondition, "workspace has not been walked")
	ErrNotLoaded      = fault.Kind(ErrPrecondition, "workspace is not loaded")
	ErrAlreadyLoaded  = fault.Kind(ErrPrecondition, "workspace is already loaded")
	ErrUnknownProfile = fault.Kind(ErrPrecondition, "unknown container profile")
	ErrNoLedger       = fault.Kind(ErrPrecondition, "no load ledger configured")

	ErrNoCommands = fault.Kind(manifest.ErrConfig, "no commands to run")
)
