package snapshot

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
)

// Records every directory read so tests can assert pruning.
type countingFS struct {
	fstest.MapFS
	reads map[string]int
}

func (c *countingFS) ReadDir(name string) ([]fs.DirEntry, error) {
	c.reads[name]++
	return c.MapFS.ReadDir(name)
}

// Fails to read the listed directories.
type deniedFS struct {
	fstest.MapFS
	denied map[string]bool
}

func (d *deniedFS) ReadDir(name string) ([]fs.DirEntry, error) {
	if d.denied[name] {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrPermission}
	}
	return d.MapFS.ReadDir(name)
}

func file(data string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(data), Mode: 0644}
}

func TestWalkIgnoresGitDirectory(t *testing.T) {
	fsys := fstest.MapFS{
		"main.c":      file("int main() { return 0; }\n"),
		".git/config": file("[core]\n"),
	}

	snap, err := Walk(fsys, "/work/jupiter", []string{".git"})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}

	if diff := cmp.Diff([]string{"main.c"}, snap.Paths()); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
	if got := snap.Root(); got != "/work/jupiter" {
		t.Fatalf("Root = %q, want %q", got, "/work/jupiter")
	}
}

func TestWalkOrderIsLexicographic(t *testing.T) {
	fsys := fstest.MapFS{
		"b.txt":   file("b"),
		"a/z.txt": file("z"),
		"a.c":     file("ac"),
		"a/b/c":   file("c"),
		"A":       file("A"),
	}

	snap, err := Walk(fsys, "root", nil)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}

	want := []string{"A", "a.c", "a/b/c", "a/z.txt", "b.txt"}
	if diff := cmp.Diff(want, snap.Paths()); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
}

func TestWalkDeterministic(t *testing.T) {
	fsys := fstest.MapFS{
		"src/main.go":      file("package main"),
		"src/util/u.go":    file("package util"),
		"target/debug/bin": file("\x7fELF"),
		"README":           file("hello"),
	}
	ignore := []string{"target"}

	first, err := Walk(fsys, "root", ignore)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	second, err := Walk(fsys, "root", ignore)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}

	if diff := cmp.Diff(first.Entries(), second.Entries()); diff != "" {
		t.Fatalf("walks differ (-first +second):\n%s", diff)
	}
}

func TestWalkPrunesBeforeReading(t *testing.T) {
	fsys := &countingFS{
		MapFS: fstest.MapFS{
			"main.c":                file("x"),
			"target/debug/deps/a.o": file("obj"),
			"target/release/b.o":    file("obj"),
			"src/lib.c":             file("y"),
		},
		reads: map[string]int{},
	}

	snap, err := Walk(fsys, "root", []string{"target"})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}

	for dir := range fsys.reads {
		if dir == "target" || strings.HasPrefix(dir, "target/") {
			t.Fatalf("ignored directory %q was read", dir)
		}
	}
	if fsys.reads["src"] != 1 {
		t.Fatalf("src reads = %d, want 1", fsys.reads["src"])
	}
	if diff := cmp.Diff([]string{"main.c", "src/lib.c"}, snap.Paths()); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
}

func TestWalkNestedIgnore(t *testing.T) {
	fsys := fstest.MapFS{
		"app/build/out.bin": file("bin"),
		"app/main.c":        file("main"),
		"build/keep.txt":    file("keep"),
	}

	snap, err := Walk(fsys, "root", []string{"./app/build/"})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}

	want := []string{"app/main.c", "build/keep.txt"}
	if diff := cmp.Diff(want, snap.Paths()); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
}

func TestWalkSymlinkIsLeaf(t *testing.T) {
	fsys := fstest.MapFS{
		"real/data.txt": file("data"),
		"loop":          &fstest.MapFile{Data: []byte("."), Mode: fs.ModeSymlink | 0777},
	}

	snap, err := Walk(fsys, "root", nil)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}

	entries := snap.Entries()
	if len(entries) != 2 {
		t.Fatalf("entries = %v, want 2", snap.Paths())
	}
	if entries[0].Path != "loop" || !entries[0].IsSymlink() {
		t.Fatalf("entries[0] = %+v, want symlink leaf %q", entries[0], "loop")
	}
	if entries[0].Size != 0 {
		t.Fatalf("symlink size = %d, want 0", entries[0].Size)
	}
}

func TestWalkUnreadableSubdirectory(t *testing.T) {
	fsys := &deniedFS{
		MapFS: fstest.MapFS{
			"a.txt":         file("a"),
			"secret/key":    file("k"),
			"z/visible.txt": file("v"),
		},
		denied: map[string]bool{"secret": true},
	}

	snap, err := Walk(fsys, "root", nil)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}

	if diff := cmp.Diff([]string{"a.txt", "z/visible.txt"}, snap.Paths()); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}

	errs := snap.Errors()
	if len(errs) != 1 {
		t.Fatalf("Errors = %v, want one", errs)
	}
	if !errors.Is(errs[0], ErrUnreadable) || !errors.Is(errs[0], ErrWalk) {
		t.Fatalf("err = %v, want ErrUnreadable", errs[0])
	}
	if !errors.Is(errs[0], fs.ErrPermission) {
		t.Fatalf("err = %v, want cause fs.ErrPermission", errs[0])
	}
	var pe *PathError
	if !errors.As(errs[0], &pe) || pe.Path != "secret" {
		t.Fatalf("err = %#v, want PathError for %q", errs[0], "secret")
	}
}

func TestWalkUnreadableRoot(t *testing.T) {
	fsys := &deniedFS{
		MapFS:  fstest.MapFS{"a.txt": file("a")},
		denied: map[string]bool{".": true},
	}

	_, err := Walk(fsys, "root", nil)
	if !errors.Is(err, ErrUnreadable) {
		t.Fatalf("err = %v, want ErrUnreadable", err)
	}
}

func TestWalkRootMissing(t *testing.T) {
	root := filepath.Join(t.TempDir(), "absent")

	_, err := Walk(os.DirFS(root), root, nil)
	if !errors.Is(err, ErrRootMissing) {
		t.Fatalf("err = %v, want ErrRootMissing", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("err = %v, want cause fs.ErrNotExist", err)
	}
}

func TestWalkSizeCountsRegularFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"a":    file("12345"),
		"b/c":  file("123"),
		"link": &fstest.MapFile{Data: []byte("a"), Mode: fs.ModeSymlink | 0777},
	}

	snap, err := Walk(fsys, "root", nil)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if got := snap.Size(); got != 8 {
		t.Fatalf("Size = %d, want 8", got)
	}
	if got := snap.Len(); got != 3 {
		t.Fatalf("Len = %d, want 3", got)
	}
}

func TestWalkOnDisk(t *testing.T) {
	root := t.TempDir()
	write := func(rel, data string) {
		t.Helper()
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(data), 0644); err != nil {
			t.Fatal(err)
		}
	}
	write("main.c", "int main;")
	write(".git/HEAD", "ref")
	write("lib/avl.c", "avl")

	if err := os.Symlink("main.c", filepath.Join(root, "alias.c")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	snap, err := Walk(os.DirFS(root), root, []string{".git"})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}

	want := []string{"alias.c", "lib/avl.c", "main.c"}
	if diff := cmp.Diff(want, snap.Paths()); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}

	target, err := snap.Readlink(snap.Entries()[0])
	if err != nil {
		t.Fatalf("Readlink: %v", err)
	}
	if target != "main.c" {
		t.Fatalf("Readlink = %q, want %q", target, "main.c")
	}

	f, err := snap.Open(snap.Entries()[2])
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "int main;" {
		t.Fatalf("content = %q, want %q", data, "int main;")
	}
}

func TestWalkSingleFileRoot(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "main.c")
	if err := os.WriteFile(root, []byte("int main;"), 0644); err != nil {
		t.Fatal(err)
	}

	snap, err := WalkFile(os.DirFS(dir), root, "main.c")
	if err != nil {
		t.Fatalf("WalkFile: %v", err)
	}

	if !snap.IsFile() {
		t.Fatal("IsFile = false, want true")
	}
	if diff := cmp.Diff([]string{"main.c"}, snap.Paths()); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
	if got := snap.Size(); got != 9 {
		t.Fatalf("Size = %d, want 9", got)
	}

	f, err := snap.Open(snap.Entries()[0])
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "int main;" {
		t.Fatalf("content = %q, want %q", data, "int main;")
	}
}

func TestWalkFileNested(t *testing.T) {
	fsys := fstest.MapFS{
		"src/lib/avl.c": {Data: []byte("tree")},
		"src/lib/bst.c": {Data: []byte("other")},
	}

	snap, err := WalkFile(fsys, "/w/src/lib/avl.c", "src/lib/avl.c")
	if err != nil {
		t.Fatalf("WalkFile: %v", err)
	}

	if diff := cmp.Diff([]string{"avl.c"}, snap.Paths()); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
	if got := snap.Size(); got != 4 {
		t.Fatalf("Size = %d, want 4", got)
	}

	f, err := snap.Open(snap.Entries()[0])
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()
	data, _ := io.ReadAll(f)
	if string(data) != "tree" {
		t.Fatalf("content = %q, want %q", data, "tree")
	}
}

func TestWalkFileFailures(t *testing.T) {
	fsys := fstest.MapFS{
		"src/avl.c": {Data: []byte("tree")},
	}

	tests := []struct {
		name string
		kind error
	}{
		{"src/missing.c", ErrRootMissing},
		{"src", ErrUnreadable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := WalkFile(fsys, tt.name, tt.name)
			if !errors.Is(err, tt.kind) {
				t.Fatalf("err = %v, want %v", err, tt.kind)
			}
		})
	}
}

func TestWalkRejectsFileRoot(t *testing.T) {
	sub, err := fs.Sub(fstest.MapFS{"main.c": {Data: []byte("x")}}, "main.c")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Walk(sub, "main.c", nil); !errors.Is(err, ErrUnreadable) {
		t.Fatalf("err = %v, want ErrUnreadable", err)
	}
}
