package ui

import (
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/cruciblehq/bifrost/internal/gateway"
	"github.com/cruciblehq/bifrost/internal/ops"
	"github.com/cruciblehq/bifrost/internal/snapshot"
)

// Writes results to an output stream.
type Printer struct {
	out   io.Writer
	theme Theme
}

// Creates a printer for out, styled when out is a terminal.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out, theme: NewTheme(!IsTerminal(out))}
}

// Creates a printer with an explicit theme.
func NewPrinterWithTheme(out io.Writer, theme Theme) *Printer {
	return &Printer{out: out, theme: theme}
}

// Writes a single line.
func (p *Printer) Line(format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, format+"\n", args...)
}

// Writes the one-line outcome of an operation.
func (p *Printer) Message(info *ops.Info) {
	p.Line("%s %s", p.theme.paint(p.theme.OK, info.Op+":"), info.Message)
}

// Writes a workspace summary.
//
// Paths are listed as they appear in the build context. A detailed summary
// adds per-file sizes and the ignore list.
func (p *Printer) Summary(s *ops.Summary) {
	t := NewTable(p.out)
	t.Row(p.label("project"), s.Project)
	t.Row(p.label("workspace"), s.Workspace)
	t.Row(p.label("container"), fmt.Sprintf("%s (image %s, shell %s)", s.Container, s.Image, s.Shell))
	t.Row(p.label("manifest"), s.Manifest)
	t.Row(p.label("commands"), commands(s.Commands))
	t.Row(p.label("loaded"), p.loaded(s.Loaded))
	if s.Detailed {
		t.Row(p.label("ignore"), orNone(strings.Join(s.Ignore, ", ")))
	}
	_ = t.Flush()

	p.Line("")
	p.Line("%s", p.theme.paint(p.theme.Heading, fmt.Sprintf("files (%d, %d bytes):", s.Files, s.Bytes)))

	if s.Files == 0 {
		p.Line("  %s", p.theme.paint(p.theme.Dim, "(none)"))
	}

	if s.Detailed {
		t = NewTable(p.out)
		for _, r := range s.Roots {
			for _, e := range r.Entries {
				t.Row("  "+entryName(r.Prefix, e), size(e))
			}
		}
		_ = t.Flush()
	} else {
		for _, r := range s.Roots {
			for _, e := range r.Entries {
				p.Line("  %s", entryName(r.Prefix, e))
			}
		}
	}

	for _, r := range s.Roots {
		for _, msg := range r.Unreadable {
			p.Line("%s %s", p.theme.paint(p.theme.Failed, "unreadable:"), msg)
		}
	}
}

// Writes the transcript of a run.
//
// Both stream sections are always present. A non-zero exit code is written
// after them, or a note that the run was interrupted.
func (p *Printer) Transcript(info *ops.Info) {
	res := info.Result
	if res == nil {
		res = &gateway.ExecResult{}
	}

	header := "run " + info.Workspace
	if info.Handle != nil {
		header += " (" + info.Handle.Workdir + ")"
	}
	p.Line("%s", p.theme.paint(p.theme.Heading, header))

	p.stream("stdout:", res.Stdout)
	p.stream("stderr:", res.Stderr)

	switch {
	case res.ExitCode == gateway.ExitInterrupted:
		p.Line("%s", p.theme.paint(p.theme.Failed, "interrupted"))
	case !res.OK():
		p.Line("%s", p.theme.paint(p.theme.Failed, fmt.Sprintf("exit code %d", res.ExitCode)))
	}
}

// Writes one labeled output stream, newline terminated.
func (p *Printer) stream(label, data string) {
	p.Line("%s", p.label(label))
	if data == "" {
		return
	}
	_, _ = io.WriteString(p.out, data)
	if !strings.HasSuffix(data, "\n") {
		_, _ = io.WriteString(p.out, "\n")
	}
}

func (p *Printer) label(s string) string {
	return p.theme.paint(p.theme.Label, s)
}

// Describes the recorded load.
func (p *Printer) loaded(h *gateway.Handle) string {
	if h == nil {
		return p.theme.paint(p.theme.Dim, "no")
	}
	return fmt.Sprintf("%s via %s, %d bytes, %s, %s (%s)",
		h.ID, h.Profile, h.Bytes, h.Digest,
		h.LoadedAt.Local().Format(time.DateTime), humanize.Time(h.LoadedAt))
}

// Returns the build context name of an entry under prefix.
func entryName(prefix string, e snapshot.Entry) string {
	if prefix == "" || prefix == "." {
		return e.Path
	}
	return path.Join(prefix, e.Path)
}

// Returns the displayed size of an entry.
func size(e snapshot.Entry) string {
	if e.IsSymlink() {
		return "link"
	}
	return fmt.Sprintf("%d", e.Size)
}

func commands(cmds []string) string {
	return orNone(strings.Join(cmds, " && "))
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
