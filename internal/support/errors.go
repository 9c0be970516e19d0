package support

import "errors"

var (
	ErrSupport        = errors.New("support tree error")
	ErrInvalidPackage = errors.New("invalid package name")
	ErrNotSetUp       = errors.New("support tree not found; run setup first")
)
