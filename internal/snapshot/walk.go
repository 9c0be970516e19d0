package snapshot

import (
	"errors"
	"io/fs"
	"log/slog"
	"path"
	"slices"
	"strings"
)

// Accumulates results for a single walk.
type walker struct {
	fsys    fs.FS
	match   *Matcher
	entries []Entry
	errs    []error
	size    int64
}

// Walks the tree of fsys and returns an ignore-filtered snapshot.
//
// The root argument names the directory fsys is rooted at; it is recorded
// for display and is never used to access the filesystem. A missing root
// fails with [ErrRootMissing] and an unreadable root, or one that is not a
// directory, with [ErrUnreadable]. Single files are snapshotted with
// [WalkFile]. Unreadable subdirectories do not fail the walk; they are
// reported through [Snapshot.Errors].
func Walk(fsys fs.FS, root string, ignore []string) (*Snapshot, error) {
	m := NewMatcher(ignore)

	info, err := fs.Stat(fsys, ".")
	if err != nil {
		return nil, rootError(root, err)
	}
	if !info.IsDir() {
		return nil, &PathError{Kind: ErrUnreadable, Path: root, Err: errNotDir}
	}

	snap := &Snapshot{
		root:   root,
		fsys:   fsys,
		ignore: m.Patterns(),
	}

	w := &walker{fsys: fsys, match: m}
	if err := w.walkDir("."); err != nil {
		return nil, &PathError{Kind: ErrUnreadable, Path: root, Err: err}
	}

	sortEntries(w.entries)

	snap.entries = w.entries
	snap.errs = w.errs
	snap.size = w.size

	slog.Debug("walk complete",
		"root", root,
		"files", len(snap.entries),
		"bytes", snap.size,
		"unreadable", len(snap.errs),
	)

	return snap, nil
}

// Snapshots a single file.
//
// fsys holds the file under the slash-separated name; root is the file's
// path for display. The snapshot has one entry named after the file's base
// name. Ignore patterns do not apply: naming a file is an explicit choice.
func WalkFile(fsys fs.FS, root, name string) (*Snapshot, error) {
	info, err := fs.Stat(fsys, name)
	if err != nil {
		return nil, rootError(root, err)
	}
	if info.IsDir() {
		return nil, &PathError{Kind: ErrUnreadable, Path: root, Err: errIsDir}
	}

	e := Entry{
		Path: path.Base(name),
		Size: regularSize(info),
		Mode: info.Mode(),
	}

	slog.Debug("file snapshot", "root", root, "bytes", e.Size)

	return &Snapshot{
		root:    root,
		fsys:    fsys,
		name:    name,
		entries: []Entry{e},
		size:    e.Size,
	}, nil
}

// Classifies a failure to stat a root.
func rootError(root string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return &PathError{Kind: ErrRootMissing, Path: root, Err: err}
	}
	return &PathError{Kind: ErrUnreadable, Path: root, Err: err}
}

// Visits one directory depth-first.
//
// Ignored children are pruned before they are read. Returns an error only
// when dir itself cannot be read and dir is the root; deeper failures are
// recorded and the walk continues with the siblings.
func (w *walker) walkDir(dir string) error {
	children, err := fs.ReadDir(w.fsys, dir)
	if err != nil {
		if dir == "." {
			return err
		}
		slog.Debug("skipping unreadable directory", "path", dir, "error", err)
		w.errs = append(w.errs, &PathError{Kind: ErrUnreadable, Path: dir, Err: err})
		return nil
	}

	for _, d := range children {
		rel := join(dir, d.Name())

		if w.match.Match(rel) {
			slog.Debug("pruned", "path", rel)
			continue
		}

		switch t := d.Type(); {
		case t&fs.ModeSymlink != 0:
			w.entries = append(w.entries, Entry{Path: rel, Mode: fs.ModeSymlink | 0777})

		case d.IsDir():
			if err := w.walkDir(rel); err != nil {
				return err
			}

		case t.IsRegular():
			info, err := d.Info()
			if err != nil {
				w.errs = append(w.errs, &PathError{Kind: ErrUnreadable, Path: rel, Err: err})
				continue
			}
			w.entries = append(w.entries, Entry{Path: rel, Size: info.Size(), Mode: info.Mode()})
			w.size += info.Size()

		default:
			slog.Debug("skipping special file", "path", rel, "mode", t.String())
		}
	}

	return nil
}

// Joins a directory and a name into a slash-separated relative path.
func join(dir, name string) string {
	if dir == "." {
		return name
	}
	return dir + "/" + name
}

// Returns the size of a regular file, zero otherwise.
func regularSize(info fs.FileInfo) int64 {
	if info.Mode().IsRegular() {
		return info.Size()
	}
	return 0
}

// Sorts entries by relative path, byte-wise.
func sortEntries(entries []Entry) {
	slices.SortFunc(entries, func(a, b Entry) int {
		return strings.Compare(a.Path, b.Path)
	})
}
