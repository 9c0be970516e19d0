package manifest

import (
	"errors"

	"github.com/cruciblehq/bifrost/internal/fault"
)

var (
	ErrConfig      = errors.New("configuration error")
	ErrNotFound    = fault.Kind(ErrConfig, "manifest not found")
	ErrMalformed   = fault.Kind(ErrConfig, "malformed manifest")
	ErrInvalidRoot = fault.Kind(ErrConfig, "invalid workspace root")
)
