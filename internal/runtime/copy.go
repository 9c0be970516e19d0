package runtime

import (
	"context"
	"io"
	"sync"
)

// Creates a directory inside the container, including parents.
func (c *container) mkdirAll(ctx context.Context, dir string) error {
	return c.mustExec(ctx, "mkdir", nil, "mkdir", "-p", dir)
}

// Extracts a tar stream into destDir inside the container.
func (c *container) copyTo(ctx context.Context, r io.Reader, destDir string) error {
	return c.mustExec(ctx, "tar extract", r, "tar", "xf", "-", "-C", destDir)
}

// Reader that closes done on the first [io.EOF].
type eofReader struct {
	r    io.Reader
	once sync.Once
	done chan struct{}
}

func newEOFReader(r io.Reader) *eofReader {
	return &eofReader{r: r, done: make(chan struct{})}
}

func (e *eofReader) Read(p []byte) (int, error) {
	n, err := e.r.Read(p)
	if err == io.EOF {
		e.once.Do(func() { close(e.done) })
	}
	return n, err
}
