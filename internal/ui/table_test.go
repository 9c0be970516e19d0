package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestTableAligns(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTable(&buf, "PATH", "SIZE")
	tbl.Row("main.c", 200)
	tbl.Row("src/avl.c", 78)
	if err := tbl.Flush(); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3 (header + 2 rows)", len(lines))
	}

	col := strings.Index(lines[0], "SIZE")
	for _, line := range lines[1:] {
		if strings.IndexAny(line, "0123456789") != col {
			t.Errorf("row %q not aligned at column %d", line, col)
		}
	}
}

func TestTableWithoutHeaders(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTable(&buf)
	tbl.Row("a", "b")
	if err := tbl.Flush(); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "a  b\n" {
		t.Fatalf("output = %q, want %q", got, "a  b\n")
	}
}
