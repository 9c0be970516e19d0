package buildctx

import (
	"archive/tar"
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	"github.com/opencontainers/go-digest"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"

	"github.com/cruciblehq/bifrost/internal/snapshot"
	"github.com/cruciblehq/bifrost/internal/workspace"
)

// Walks fsys into a single content placed under prefix.
func content(t *testing.T, fsys fs.FS, prefix string, ignore ...string) workspace.Content {
	t.Helper()
	snap, err := snapshot.Walk(fsys, "root", ignore)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	return workspace.Content{Snapshot: snap, Prefix: prefix}
}

// Reads back every header name and regular file body.
func readArchive(t *testing.T, bc *Context) (names []string, bodies map[string]string) {
	t.Helper()

	r, err := bc.Reader()
	if err != nil {
		t.Fatalf("Reader: %v", err)
	}

	bodies = map[string]string{}
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		names = append(names, hdr.Name)
		if hdr.Typeflag == tar.TypeReg {
			data, err := io.ReadAll(tr)
			if err != nil {
				t.Fatal(err)
			}
			bodies[hdr.Name] = string(data)
		}
	}
	return names, bodies
}

func create(t *testing.T, contents ...workspace.Content) *Context {
	t.Helper()
	bc, err := Create(contents, Options{Name: "shattuck", TempDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { bc.Close() })
	return bc
}

func TestCreateArchivesEntriesInOrder(t *testing.T) {
	fsys := fstest.MapFS{
		"main.c":      {Data: []byte("int main;")},
		"lib/avl.c":   {Data: []byte("avl")},
		"lib/x/y.h":   {Data: []byte("y")},
		".git/config": {Data: []byte("ignored")},
	}

	bc := create(t, content(t, fsys, ".", ".git"))

	names, bodies := readArchive(t, bc)
	want := []string{"lib/", "lib/avl.c", "lib/x/", "lib/x/y.h", "main.c"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if bodies["main.c"] != "int main;" {
		t.Fatalf("main.c = %q, want %q", bodies["main.c"], "int main;")
	}
	if got := bc.Files(); got != 3 {
		t.Fatalf("Files = %d, want 3", got)
	}
}

func TestCreatePayloadSize(t *testing.T) {
	fsys := fstest.MapFS{
		"main.c": {Data: []byte(strings.Repeat("a", 200))},
		"avl.c":  {Data: []byte(strings.Repeat("b", 78))},
	}

	bc := create(t, content(t, fsys, "."))

	if got := bc.PayloadSize(); got != 278 {
		t.Fatalf("PayloadSize = %d, want 278", got)
	}
	if bc.Size() <= bc.PayloadSize() {
		t.Fatalf("Size = %d, want more than payload %d", bc.Size(), bc.PayloadSize())
	}

	info, err := os.Stat(bc.Path())
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Size() != bc.Size() {
		t.Fatalf("file size = %d, want %d", info.Size(), bc.Size())
	}
}

func TestCreateEmpty(t *testing.T) {
	bc := create(t, content(t, fstest.MapFS{}, "."))

	names, _ := readArchive(t, bc)
	if len(names) != 0 {
		t.Fatalf("names = %v, want none", names)
	}
	if got := bc.PayloadSize(); got != 0 {
		t.Fatalf("PayloadSize = %d, want 0", got)
	}
}

func TestCreateDeterministic(t *testing.T) {
	fsys := fstest.MapFS{
		"b.txt":   {Data: []byte("b"), Mode: 0600},
		"a/c.txt": {Data: []byte("c")},
	}

	first := create(t, content(t, fsys, "."))
	second := create(t, content(t, fsys, "."))

	if first.Digest() != second.Digest() {
		t.Fatalf("digests differ: %s vs %s", first.Digest(), second.Digest())
	}
	if err := first.Digest().Validate(); err != nil {
		t.Fatalf("Digest invalid: %v", err)
	}
	if first.Digest().Algorithm() != digest.Canonical {
		t.Fatalf("Algorithm = %s, want %s", first.Digest().Algorithm(), digest.Canonical)
	}
}

func TestCreateDigestMatchesBytes(t *testing.T) {
	bc := create(t, content(t, fstest.MapFS{"f": {Data: []byte("data")}}, "."))

	data, err := os.ReadFile(bc.Path())
	if err != nil {
		t.Fatal(err)
	}
	if got := digest.FromBytes(data); got != bc.Digest() {
		t.Fatalf("Digest = %s, want %s", bc.Digest(), got)
	}
}

func TestCreatePrefixesAndDuplicates(t *testing.T) {
	src := fstest.MapFS{"lib.c": {Data: []byte("lib")}}
	top := fstest.MapFS{
		"main.c":    {Data: []byte("main")},
		"src/lib.c": {Data: []byte("other")},
	}

	bc := create(t, content(t, src, "src"), content(t, top, "."))

	names, bodies := readArchive(t, bc)
	want := []string{"src/", "src/lib.c", "main.c"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if bodies["src/lib.c"] != "lib" {
		t.Fatalf("src/lib.c = %q, want first content to win", bodies["src/lib.c"])
	}
	if got := bc.PayloadSize(); got != 7 {
		t.Fatalf("PayloadSize = %d, want 7", got)
	}
}

func TestCreateSymlink(t *testing.T) {
	fsys := fstest.MapFS{
		"main.c":  {Data: []byte("x")},
		"alias.c": {Data: []byte("main.c"), Mode: fs.ModeSymlink | 0777},
	}

	bc := create(t, content(t, fsys, "."))

	r, err := bc.Reader()
	if err != nil {
		t.Fatal(err)
	}
	hdr, err := tar.NewReader(r).Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if hdr.Name != "alias.c" || hdr.Typeflag != tar.TypeSymlink || hdr.Linkname != "main.c" {
		t.Fatalf("header = %q type %c link %q, want symlink alias.c -> main.c", hdr.Name, hdr.Typeflag, hdr.Linkname)
	}
	if got := bc.PayloadSize(); got != 1 {
		t.Fatalf("PayloadSize = %d, want 1", got)
	}
}

func TestDescriptor(t *testing.T) {
	bc := create(t, content(t, fstest.MapFS{"f": {Data: []byte("data")}}, "."))

	d := bc.Descriptor()
	if d.MediaType != ocispec.MediaTypeImageLayer {
		t.Fatalf("MediaType = %q, want %q", d.MediaType, ocispec.MediaTypeImageLayer)
	}
	if d.Digest != bc.Digest() || d.Size != bc.Size() {
		t.Fatalf("descriptor = %s/%d, want %s/%d", d.Digest, d.Size, bc.Digest(), bc.Size())
	}
	if got := d.Annotations[AnnotationWorkspace]; got != "shattuck" {
		t.Fatalf("workspace annotation = %q, want %q", got, "shattuck")
	}
}

func TestReaderIsRepeatable(t *testing.T) {
	bc := create(t, content(t, fstest.MapFS{"f": {Data: []byte("data")}}, "."))

	first, _ := readArchive(t, bc)
	second, _ := readArchive(t, bc)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("second read differs (-first +second):\n%s", diff)
	}
}

func TestCloseRemovesFile(t *testing.T) {
	bc := create(t, content(t, fstest.MapFS{"f": {Data: []byte("data")}}, "."))

	if err := bc.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := os.Stat(bc.Path()); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("Stat after Close = %v, want not exist", err)
	}
	if err := bc.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if _, err := bc.Reader(); !errors.Is(err, ErrClosed) {
		t.Fatalf("Reader after Close = %v, want ErrClosed", err)
	}
}

func TestCreateFailureRemovesFile(t *testing.T) {
	dir := t.TempDir()
	fsys := &vanishingFS{MapFS: fstest.MapFS{"f": {Data: []byte("data")}}}
	snap, err := snapshot.Walk(fsys, "root", nil)
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	fsys.gone = true

	_, err = Create([]workspace.Content{{Snapshot: snap, Prefix: "."}}, Options{TempDir: dir})
	if !errors.Is(err, ErrBuildContext) {
		t.Fatalf("err = %v, want ErrBuildContext", err)
	}

	left, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(left) != 0 {
		t.Fatalf("temp dir holds %d files after failure, want 0", len(left))
	}
}

// Fails every open once gone is set, simulating a file removed after the walk.
type vanishingFS struct {
	fstest.MapFS
	gone bool
}

func (v *vanishingFS) Open(name string) (fs.File, error) {
	if v.gone && name != "." {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return v.MapFS.Open(name)
}
