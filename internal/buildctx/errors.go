package buildctx

import "errors"

var (
	ErrBuildContext = errors.New("build context error")
	ErrClosed       = errors.New("build context closed")
)
