package cli

import (
	"io"
	"log/slog"
	"os"

	"github.com/cruciblehq/bifrost/internal"
)

// Level shared by every logger this package creates.
var logLevel = new(slog.LevelVar)

// Creates the program logger writing text records to w.
//
// The level starts from the build-time defaults and is adjusted by
// configureLogger once flags are parsed.
func NewLogger(w io.Writer) *slog.Logger {
	logLevel.Set(level(internal.IsDebug(), internal.IsQuiet()))
	return newLogger(w, internal.IsVerbose())
}

func newLogger(w io.Writer, source bool) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     logLevel,
		AddSource: source,
	})
	return slog.New(handler).WithGroup(internal.Name)
}

// Configures the global logger based on CLI flags.
func configureLogger(g *Globals) {
	debug := g.Debug || internal.IsDebug()
	quiet := g.Quiet || internal.IsQuiet()
	verbose := g.Verbose || internal.IsVerbose()

	logLevel.Set(level(debug, quiet))

	if verbose {
		slog.SetDefault(newLogger(os.Stderr, true))
	}
}

// Debug wins over quiet.
func level(debug, quiet bool) slog.Level {
	switch {
	case debug:
		return slog.LevelDebug
	case quiet:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
