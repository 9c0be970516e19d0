package ledger

import (
	"errors"

	"github.com/cruciblehq/bifrost/internal/fault"
)

var (
	ErrLedger  = errors.New("ledger error")
	ErrCorrupt = fault.Kind(ErrLedger, "ledger corrupt")
)
