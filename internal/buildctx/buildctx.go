package buildctx

import (
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/opencontainers/go-digest"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"

	"github.com/cruciblehq/bifrost/internal/fault"
	"github.com/cruciblehq/bifrost/internal/workspace"
)

// Prefix of the temporary archive file name.
const tempPattern = "bifrost-context-*.tar"

// Annotation recording the workspace a build context was created for.
const AnnotationWorkspace = "dev.bifrost.workspace"

// Controls build context creation.
type Options struct {
	Name    string // Workspace name, recorded as the descriptor title.
	TempDir string // Directory for the archive. Empty uses [os.TempDir].
}

// Archive of workspace contents backed by a temporary file.
type Context struct {
	mu      sync.Mutex
	file    *os.File      // Open archive, nil once closed.
	path    string        // Location of the archive on disk.
	name    string        // Workspace name.
	digest  digest.Digest // Canonical digest of the archive bytes.
	size    int64         // Archive size in bytes.
	payload int64         // Sum of regular file sizes.
	files   int           // Number of file and symlink entries.
}

// Writes contents into a new build context.
//
// Entries are archived in the order the contents list them, each under its
// content's prefix. An entry whose archive name was already written by an
// earlier content is skipped. On failure the temporary file is removed.
func Create(contents []workspace.Content, opts Options) (*Context, error) {
	f, err := os.CreateTemp(opts.TempDir, tempPattern)
	if err != nil {
		return nil, fault.Wrap(ErrBuildContext, err)
	}

	bc := &Context{file: f, path: f.Name(), name: opts.Name}

	digester := digest.Canonical.Digester()
	counter := &countingWriter{w: io.MultiWriter(f, digester.Hash())}

	stats, err := writeArchive(counter, contents)
	if err != nil {
		bc.Close()
		return nil, fault.Wrap(ErrBuildContext, err)
	}

	if err := f.Sync(); err != nil {
		bc.Close()
		return nil, fault.Wrap(ErrBuildContext, err)
	}

	bc.digest = digester.Digest()
	bc.size = counter.n
	bc.payload = stats.payload
	bc.files = stats.files

	slog.Debug("build context created",
		"path", bc.path,
		"digest", bc.digest,
		"files", bc.files,
		"payload", bc.payload,
		"size", bc.size,
	)

	return bc, nil
}

// Returns the workspace name the context was created for.
func (bc *Context) Name() string {
	return bc.name
}

// Returns the location of the archive on disk.
func (bc *Context) Path() string {
	return bc.path
}

// Returns the canonical digest of the archive.
func (bc *Context) Digest() digest.Digest {
	return bc.digest
}

// Returns the archive size in bytes, including tar headers and padding.
func (bc *Context) Size() int64 {
	return bc.size
}

// Returns the number of content bytes, the sum of all regular file sizes.
func (bc *Context) PayloadSize() int64 {
	return bc.payload
}

// Returns the number of archived files and symbolic links.
func (bc *Context) Files() int {
	return bc.files
}

// Returns an OCI layer descriptor for the archive.
func (bc *Context) Descriptor() ocispec.Descriptor {
	d := ocispec.Descriptor{
		MediaType: ocispec.MediaTypeImageLayer,
		Digest:    bc.digest,
		Size:      bc.size,
	}
	if bc.name != "" {
		d.Annotations = map[string]string{
			ocispec.AnnotationTitle: bc.name + ".tar",
			AnnotationWorkspace:     bc.name,
		}
	}
	return d
}

// Returns a reader over the whole archive.
//
// Each call returns an independent reader starting at the first byte, so
// the archive can be streamed more than once. Fails with [ErrClosed] after
// [Context.Close].
func (bc *Context) Reader() (io.Reader, error) {
	bc.mu.Lock()
	defer bc.mu.Unlock()

	if bc.file == nil {
		return nil, ErrClosed
	}
	return io.NewSectionReader(bc.file, 0, bc.size), nil
}

// Closes and removes the archive. Safe to call more than once.
func (bc *Context) Close() error {
	if bc == nil {
		return nil
	}

	bc.mu.Lock()
	defer bc.mu.Unlock()

	if bc.file == nil {
		return nil
	}

	err := bc.file.Close()
	bc.file = nil

	if rmErr := os.Remove(bc.path); rmErr != nil && !os.IsNotExist(rmErr) {
		slog.Warn("failed to remove build context", "path", bc.path, "error", rmErr)
		if err == nil {
			err = rmErr
		}
	}

	return fault.Wrap(ErrBuildContext, err)
}

// Counts bytes passed to the underlying writer.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
