// Enumerates a directory tree into a deterministic, ignore-filtered list.
//
// [Walk] traverses a root depth-first through an [io/fs.FS], which keeps
// the traversal independent of the real disk: production code passes
// [os.DirFS], tests pass a [testing/fstest.MapFS] or any other virtual
// filesystem. Before a directory is descended into, its relative path is
// checked against the ignore patterns; a matching directory is pruned and
// its contents are never read.
//
// Patterns match a relative path exactly, or as a directory prefix, so
// "target" excludes "target" and everything beneath it but not "targets".
// Patterns containing glob metacharacters (*, ?, [) are matched with
// [path.Match] against the full relative path and against the entry name.
//
// Symbolic links are never followed. They are recorded as leaf entries so
// the walk cannot loop. A directory that cannot be read is recorded in the
// snapshot's errors and skipped; only an unreadable or missing root aborts
// the walk.
//
// Example usage:
//
//	snap, err := snapshot.Walk(os.DirFS(root), root, []string{".git", "target"})
//	if err != nil {
//	    return err
//	}
//	for _, p := range snap.Paths() {
//	    fmt.Println(p)
//	}
package snapshot
