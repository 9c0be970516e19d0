package cli

import (
	"errors"

	"github.com/cruciblehq/bifrost/internal/fault"
	"github.com/cruciblehq/bifrost/internal/ops"
)

var (
	ErrUsage         = errors.New("usage error")
	ErrManifestExist = fault.Kind(ops.ErrPrecondition, "manifest already exists")
	ErrNoEngine      = errors.New("no engine for this command")
)
