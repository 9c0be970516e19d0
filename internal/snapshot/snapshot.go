package snapshot

import (
	"io/fs"
	"slices"
)

// One file found under a snapshot root.
type Entry struct {
	Path string      // Slash-separated path relative to the root.
	Size int64       // Size in bytes; zero for symbolic links.
	Mode fs.FileMode // Type and permission bits.
}

// Whether the entry is a symbolic link.
func (e Entry) IsSymlink() bool {
	return e.Mode&fs.ModeSymlink != 0
}

// Ignore-filtered enumeration of one directory tree.
//
// Entries are sorted by relative path, so walking an unchanged tree twice
// produces identical snapshots. A snapshot is never modified after [Walk]
// returns it.
type Snapshot struct {
	root    string  // Root the snapshot was taken from, for display.
	fsys    fs.FS   // Filesystem rooted at root.
	name    string  // Path of the file within fsys when the root is a single file.
	entries []Entry // Files in lexicographic order of Path.
	ignore  []string
	errs    []error // Subtrees that could not be read.
	size    int64   // Sum of entry sizes.
}

// Returns the root the snapshot was taken from.
func (s *Snapshot) Root() string {
	return s.root
}

// Returns the entries in lexicographic order of their relative path.
func (s *Snapshot) Entries() []Entry {
	return slices.Clone(s.entries)
}

// Returns the relative paths of all entries, in order.
func (s *Snapshot) Paths() []string {
	paths := make([]string, len(s.entries))
	for i, e := range s.entries {
		paths[i] = e.Path
	}
	return paths
}

// Returns the number of entries.
func (s *Snapshot) Len() int {
	return len(s.entries)
}

// Returns the total size in bytes of all regular files.
func (s *Snapshot) Size() int64 {
	return s.size
}

// Returns the normalized ignore patterns the walk applied.
func (s *Snapshot) Ignore() []string {
	return slices.Clone(s.ignore)
}

// Returns the per-subtree failures encountered during the walk.
//
// Each error is a [*PathError] matching [ErrUnreadable].
func (s *Snapshot) Errors() []error {
	return slices.Clone(s.errs)
}

// Whether the root is a single file rather than a directory.
func (s *Snapshot) IsFile() bool {
	return s.name != ""
}

// Opens the file for an entry.
func (s *Snapshot) Open(e Entry) (fs.File, error) {
	if s.name != "" {
		return s.fsys.Open(s.name)
	}
	return s.fsys.Open(e.Path)
}

// Returns the target of a symbolic link entry.
func (s *Snapshot) Readlink(e Entry) (string, error) {
	if s.name != "" {
		return fs.ReadLink(s.fsys, s.name)
	}
	return fs.ReadLink(s.fsys, e.Path)
}
