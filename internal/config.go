package internal

import (
	"strconv"
	"sync"
)

// Logging defaults baked in at build time.
type Mode struct {
	Quiet   bool // Warnings and errors only.
	Debug   bool // Debug records.
	Verbose bool // Source locations on records.
}

// Parses the linker flags once.
//
// The rawQuiet, rawDebug, and rawVerbose variables should be set via ldflags
// during the build process. Values that do not parse as booleans are false.
var defaults = sync.OnceValue(func() Mode {
	return Mode{
		Quiet:   parseBool(rawQuiet),
		Debug:   parseBool(rawDebug),
		Verbose: parseBool(rawVerbose),
	}
})

// Returns the build-time logging defaults.
func Defaults() Mode {
	return defaults()
}

// Returns true if quiet mode is enabled by default.
func IsQuiet() bool {
	return defaults().Quiet
}

// Returns true if debug mode is enabled by default.
func IsDebug() bool {
	return defaults().Debug
}

// Returns true if verbose logging is enabled by default.
func IsVerbose() bool {
	return defaults().Verbose
}

func parseBool(s string) bool {
	v, err := strconv.ParseBool(s)
	return err == nil && v
}
