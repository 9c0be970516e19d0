package workspace

import (
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"

	"github.com/cruciblehq/bifrost/internal/manifest"
	"github.com/cruciblehq/bifrost/internal/snapshot"
)

// Opens the filesystem rooted at an absolute directory path.
type Opener func(dir string) fs.FS

// Configures a [Workspace].
type Option func(*Workspace)

// Replaces the filesystem opener, which defaults to [os.DirFS].
func WithOpener(open Opener) Option {
	return func(w *Workspace) {
		w.open = open
	}
}

// One walked root together with its location in the build context.
type Content struct {
	*snapshot.Snapshot

	Prefix string // Slash-separated directory the entries are placed under, "." for the top.
}

// Returns the build context path of an entry.
func (c Content) Name(e snapshot.Entry) string {
	if c.Prefix == "." || c.Prefix == "" {
		return e.Path
	}
	return c.Prefix + "/" + e.Path
}

// A configuration plus, once populated, its directory snapshots.
type Workspace struct {
	config   *manifest.Configuration // Resolved configuration, never modified.
	open     Opener                  // Filesystem opener for snapshot roots.
	contents []Content               // Nil until populated.
}

// Creates a workspace with no contents.
func New(cfg *manifest.Configuration, opts ...Option) *Workspace {
	w := &Workspace{
		config: cfg,
		open:   os.DirFS,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Returns the configuration the workspace was created from.
func (w *Workspace) Config() *manifest.Configuration {
	return w.config
}

// Returns the workspace name.
func (w *Workspace) Name() string {
	return w.config.WorkspaceName()
}

// Whether [Workspace.Populate] has completed successfully.
func (w *Workspace) Populated() bool {
	return w.contents != nil
}

// Walks every configured root and replaces the workspace contents.
//
// The working directory is opened once and every root is reached through
// it. Roots are walked in order with the configuration's ignore patterns; a
// root naming a single file is snapshotted on its own. If any root fails,
// the previous contents are kept and the error is returned. Unreadable
// subdirectories do not fail the walk; they are logged and remain available
// through each snapshot's Errors.
func (w *Workspace) Populate() error {
	roots := w.config.Roots()
	ignore := w.config.Ignore()
	fsys := w.open(w.config.Cwd())
	contents := make([]Content, 0, len(roots))

	for _, root := range roots {
		snap, err := w.walk(fsys, root, ignore)
		if err != nil {
			return err
		}

		for _, e := range snap.Errors() {
			slog.Warn("skipped unreadable path", "root", root, "error", e)
		}

		contents = append(contents, Content{
			Snapshot: snap,
			Prefix:   w.prefix(root, snap),
		})
	}

	w.contents = contents

	slog.Debug("workspace populated",
		"workspace", w.Name(),
		"roots", len(contents),
		"files", w.Files(),
		"bytes", w.Size(),
	)

	return nil
}

// Snapshots one root found under the working directory filesystem.
func (w *Workspace) walk(fsys fs.FS, root string, ignore []string) (*snapshot.Snapshot, error) {
	rel := w.rel(root)
	if rel == "." {
		return snapshot.Walk(fsys, root, ignore)
	}

	if info, err := fs.Stat(fsys, rel); err == nil && !info.IsDir() {
		return snapshot.WalkFile(fsys, root, rel)
	}

	sub, err := fs.Sub(fsys, rel)
	if err != nil {
		return nil, &snapshot.PathError{Kind: snapshot.ErrUnreadable, Path: root, Err: err}
	}
	return snapshot.Walk(sub, root, ignore)
}

// Returns the snapshots, or nil if the workspace has not been populated.
func (w *Workspace) Contents() []Content {
	return slices.Clone(w.contents)
}

// Returns the number of files across all snapshots.
func (w *Workspace) Files() int {
	n := 0
	for _, c := range w.contents {
		n += c.Len()
	}
	return n
}

// Returns the total size in bytes of regular files across all snapshots.
func (w *Workspace) Size() int64 {
	var n int64
	for _, c := range w.contents {
		n += c.Size()
	}
	return n
}

// Returns where a root's entries go in the build context.
//
// A directory root maps to its path relative to the working directory. A
// single-file root already names itself in its entry, so it maps to the
// parent of that relative path.
func (w *Workspace) prefix(root string, snap *snapshot.Snapshot) string {
	rel := w.rel(root)
	if snap.IsFile() {
		rel = path.Dir(rel)
	}
	return rel
}

// Returns a root relative to the working directory, slash separated.
func (w *Workspace) rel(root string) string {
	rel, err := filepath.Rel(w.config.Cwd(), root)
	if err != nil {
		return "."
	}
	return filepath.ToSlash(rel)
}
