package ui

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Rows of data in aligned columns.
type Table struct {
	w *tabwriter.Writer
}

// Creates a table writing to out. Headers are written first when given.
func NewTable(out io.Writer, headers ...string) *Table {
	t := &Table{w: tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)}
	if len(headers) > 0 {
		_, _ = fmt.Fprintln(t.w, strings.Join(headers, "\t"))
	}
	return t
}

// Appends a row of values.
func (t *Table) Row(values ...any) {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	_, _ = fmt.Fprintln(t.w, strings.Join(parts, "\t"))
}

// Writes the buffered rows.
func (t *Table) Flush() error {
	return t.w.Flush()
}
