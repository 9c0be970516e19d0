package gateway

import (
	"errors"

	"github.com/cruciblehq/bifrost/internal/fault"
)

var (
	ErrRuntime     = errors.New("runtime error")
	ErrUnreachable = fault.Kind(ErrRuntime, "runtime unreachable")
	ErrTimeout     = fault.Kind(ErrRuntime, "runtime readiness timed out")
	ErrNonZeroExit = fault.Kind(ErrRuntime, "runtime command failed")
	ErrInterrupted = fault.Kind(ErrRuntime, "command interrupted")
)
