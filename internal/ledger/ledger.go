package ledger

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cruciblehq/bifrost/internal/fault"
	"github.com/cruciblehq/bifrost/internal/gateway"
	"github.com/cruciblehq/bifrost/internal/paths"
)

// Current ledger file format version.
const version = 1

// On-disk ledger layout.
type File struct {
	Version int                       `yaml:"version"`
	Loads   map[string]gateway.Handle `yaml:"loads"`
}

// Ledger file at a fixed path.
type Ledger struct {
	path string
}

// Opens the ledger at path, or at [paths.Ledger] when path is empty.
//
// The file is not read until the first call; a missing file is an empty
// ledger.
func Open(path string) *Ledger {
	if path == "" {
		path = paths.Ledger()
	}
	return &Ledger{path: path}
}

// Returns the ledger file path.
func (l *Ledger) Path() string {
	return l.path
}

// Returns the handle recorded for a workspace.
func (l *Ledger) Lookup(workspace string) (gateway.Handle, bool, error) {
	f, err := l.read()
	if err != nil {
		return gateway.Handle{}, false, err
	}
	h, ok := f.Loads[workspace]
	return h, ok, nil
}

// Records a handle under its workspace name, replacing any previous one.
func (l *Ledger) Record(h gateway.Handle) error {
	f, err := l.read()
	if err != nil {
		return err
	}
	f.Loads[h.Workspace] = h
	return l.write(f)
}

// Removes the handle for a workspace. Removing an absent entry is a no-op.
func (l *Ledger) Remove(workspace string) error {
	f, err := l.read()
	if err != nil {
		return err
	}
	if _, ok := f.Loads[workspace]; !ok {
		return nil
	}
	delete(f.Loads, workspace)
	return l.write(f)
}

// Returns every recorded handle ordered by workspace name.
func (l *Ledger) List() ([]gateway.Handle, error) {
	f, err := l.read()
	if err != nil {
		return nil, err
	}

	handles := make([]gateway.Handle, 0, len(f.Loads))
	for _, h := range f.Loads {
		handles = append(handles, h)
	}
	slices.SortFunc(handles, func(a, b gateway.Handle) int {
		return strings.Compare(a.Workspace, b.Workspace)
	})
	return handles, nil
}

// Parses ledger content.
func Parse(data []byte) (*File, error) {
	f, err := decode(data)
	if err != nil {
		return nil, fault.Wrap(ErrCorrupt, err)
	}
	return f, nil
}

// Decodes ledger content without categorizing the error.
func decode(data []byte) (*File, error) {
	f := &File{}
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, err
	}
	if f.Version > version {
		return nil, fmt.Errorf("unsupported ledger version %d", f.Version)
	}
	if f.Loads == nil {
		f.Loads = map[string]gateway.Handle{}
	}
	return f, nil
}

// Reads the ledger file. A missing file is an empty ledger.
func (l *Ledger) read() (*File, error) {
	data, err := os.ReadFile(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return &File{Version: version, Loads: map[string]gateway.Handle{}}, nil
	}
	if err != nil {
		return nil, fault.Wrap(ErrLedger, err)
	}

	f, err := decode(data)
	if err != nil {
		return nil, fault.Wrapf(ErrCorrupt, "%s: %w", l.path, err)
	}
	return f, nil
}

// Writes the ledger through a temporary file and a rename.
func (l *Ledger) write(f *File) error {
	f.Version = version

	data, err := yaml.Marshal(f)
	if err != nil {
		return fault.Wrap(ErrLedger, err)
	}

	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, paths.DefaultDirMode); err != nil {
		return fault.Wrap(ErrLedger, err)
	}

	tmp, err := os.CreateTemp(dir, ".loads-*.yaml")
	if err != nil {
		return fault.Wrap(ErrLedger, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fault.Wrap(ErrLedger, err)
	}
	if err := tmp.Close(); err != nil {
		return fault.Wrap(ErrLedger, err)
	}
	if err := os.Chmod(tmp.Name(), paths.DefaultFileMode); err != nil {
		return fault.Wrap(ErrLedger, err)
	}
	if err := os.Rename(tmp.Name(), l.path); err != nil {
		return fault.Wrap(ErrLedger, err)
	}

	slog.Debug("ledger written", "path", l.path, "loads", len(f.Loads))
	return nil
}
