package buildctx

import (
	"archive/tar"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/cruciblehq/bifrost/internal/snapshot"
	"github.com/cruciblehq/bifrost/internal/workspace"
)

// Permission bits for directories synthesized for entry parents.
const dirMode = 0755

// Fixed modification time for every header.
var epoch = time.Unix(0, 0).UTC()

// Totals gathered while writing an archive.
type archiveStats struct {
	files   int
	payload int64
}

// Tracks what has already been written to a tar stream.
type archiveWriter struct {
	tw    *tar.Writer
	dirs  map[string]bool // Directory headers written.
	names map[string]bool // File and link headers written.
	stats archiveStats
}

// Writes every content entry to w as a tar stream.
func writeArchive(w io.Writer, contents []workspace.Content) (archiveStats, error) {
	aw := &archiveWriter{
		tw:    tar.NewWriter(w),
		dirs:  map[string]bool{},
		names: map[string]bool{},
	}

	for _, c := range contents {
		for _, e := range c.Entries() {
			if err := aw.writeEntry(c, e); err != nil {
				return archiveStats{}, err
			}
		}
	}

	if err := aw.tw.Close(); err != nil {
		return archiveStats{}, err
	}

	return aw.stats, nil
}

// Writes one entry and any parent directories not yet in the archive.
func (aw *archiveWriter) writeEntry(c workspace.Content, e snapshot.Entry) error {
	name := c.Name(e)
	if aw.names[name] {
		return nil
	}

	if err := aw.writeParents(name); err != nil {
		return err
	}

	if e.IsSymlink() {
		target, err := c.Readlink(e)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if err := aw.tw.WriteHeader(header(name, tar.TypeSymlink, 0777, 0, target)); err != nil {
			return err
		}
		aw.names[name] = true
		aw.stats.files++
		return nil
	}

	if err := aw.tw.WriteHeader(header(name, tar.TypeReg, int64(e.Mode.Perm()), e.Size, "")); err != nil {
		return err
	}

	f, err := c.Open(e)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	defer f.Close()

	// The header already declares e.Size bytes.
	if _, err := io.CopyN(aw.tw, f, e.Size); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	aw.names[name] = true
	aw.stats.files++
	aw.stats.payload += e.Size
	return nil
}

// Writes directory headers for every ancestor of name, outermost first.
func (aw *archiveWriter) writeParents(name string) error {
	dir := path.Dir(name)
	if dir == "." || aw.dirs[dir] {
		return nil
	}

	var missing []string
	for d := dir; d != "." && !aw.dirs[d]; d = path.Dir(d) {
		missing = append(missing, d)
	}

	for i := len(missing) - 1; i >= 0; i-- {
		d := missing[i]
		if err := aw.tw.WriteHeader(header(d+"/", tar.TypeDir, dirMode, 0, "")); err != nil {
			return err
		}
		aw.dirs[d] = true
	}

	return nil
}

// Returns a header with normalized ownership and timestamps.
func header(name string, typ byte, mode, size int64, link string) *tar.Header {
	return &tar.Header{
		Typeflag: typ,
		Name:     strings.TrimPrefix(name, "/"),
		Linkname: link,
		Mode:     mode,
		Size:     size,
		ModTime:  epoch,
		Format:   tar.FormatPAX,
	}
}
