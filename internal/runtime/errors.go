package runtime

import (
	"github.com/cruciblehq/bifrost/internal/fault"
	"github.com/cruciblehq/bifrost/internal/gateway"
)

var (
	ErrEmptyArchive   = fault.Kind(gateway.ErrRuntime, "archive holds no image")
	ErrMultipleImages = fault.Kind(gateway.ErrRuntime, "archive holds more than one image")
)
