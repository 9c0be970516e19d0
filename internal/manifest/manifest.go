package manifest

import (
	"bytes"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"slices"

	"github.com/BurntSushi/toml"
	"github.com/cruciblehq/bifrost/internal/fault"
	"github.com/cruciblehq/bifrost/internal/paths"
)

const (

	// Project name written by init when none is given.
	PlaceholderProject = "project name"

	// Workspace name written by init. Resolves to the working directory's
	// base name.
	PlaceholderWorkspace = "name of workspace"

	// Command written by init. Must be replaced before run can succeed.
	PlaceholderCommand = "command string(s)"

	// Container profile used when none is given.
	DefaultContainer = "docker"

	// Image tag built by setup and used when none is given.
	DefaultImage = "bifrost:0.1"

	// Shell used to run the command sequence when none is given.
	DefaultShell = "/bin/sh"
)

// Ignore patterns written by init.
var defaultIgnore = []string{"target", ".git", ".gitignore"}

// Persisted workspace configuration, stored as Bifrost.toml.
type Manifest struct {
	Project   Project   `toml:"project"`
	Container Container `toml:"container"`
	Workspace Workspace `toml:"workspace"`
	Command   Command   `toml:"command"`
}

// Identifies the project.
type Project struct {
	Name string `toml:"name"` // Human-readable project name.
}

// Identifies the container profile and image.
type Container struct {
	Name  string `toml:"name"`            // Runtime profile (e.g., "docker", "containerd").
	Image string `toml:"image,omitempty"` // Image tag the container is started from.
	Shell string `toml:"shell,omitempty"` // Shell used to run commands inside the container.
}

// Describes which files make up the workspace.
type Workspace struct {
	Name    string   `toml:"name"`              // Workspace name, also the directory name inside the container.
	Ignore  []string `toml:"ignore"`            // Relative paths excluded from the walk.
	Include []string `toml:"include,omitempty"` // Relative sub-paths to load instead of the whole directory.
}

// Ordered commands executed inside the container.
type Command struct {
	Cmds []string `toml:"cmds"`
}

// Returns the manifest synthesized by init.
//
// The placeholder names and command are meant to be edited. The workspace
// name placeholder resolves to the working directory's base name, while the
// command placeholder keeps run from doing anything until it is replaced.
func Default() Manifest {
	return Manifest{
		Project: Project{Name: PlaceholderProject},
		Container: Container{
			Name:  DefaultContainer,
			Image: DefaultImage,
		},
		Workspace: Workspace{
			Name:   PlaceholderWorkspace,
			Ignore: slices.Clone(defaultIgnore),
		},
		Command: Command{Cmds: []string{PlaceholderCommand}},
	}
}

// Parses manifest content.
//
// Syntax and type errors are reported as [ErrMalformed]. Keys that do not
// belong to the manifest are logged and otherwise ignored.
func Parse(data []byte) (*Manifest, error) {
	m, err := decode(data)
	if err != nil {
		return nil, fault.Wrap(ErrMalformed, err)
	}
	return m, nil
}

// Decodes TOML into a manifest, logging keys the manifest does not define.
func decode(data []byte) (*Manifest, error) {
	var m Manifest
	meta, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&m)
	if err != nil {
		return nil, err
	}

	for _, key := range meta.Undecoded() {
		slog.Warn("unknown manifest key", "key", key.String())
	}

	return &m, nil
}

// Encodes the manifest as TOML.
func Encode(m Manifest) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(m); err != nil {
		return nil, fault.Wrap(ErrMalformed, err)
	}
	return buf.Bytes(), nil
}

// Reads and parses the manifest at path.
//
// Returns [ErrNotFound] if no file exists at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fault.Wrapf(ErrNotFound, "%s", path)
		}
		return nil, fault.Wrap(ErrConfig, err)
	}

	m, err := decode(data)
	if err != nil {
		return nil, fault.Wrapf(ErrMalformed, "%s: %w", path, err)
	}
	return m, nil
}

// Writes the manifest to path, replacing any existing file.
func Save(path string, m Manifest) error {
	data, err := Encode(m)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, paths.DefaultFileMode); err != nil {
		return fault.Wrap(ErrConfig, err)
	}
	return nil
}

// Returns a deep copy of the manifest.
func (m Manifest) clone() Manifest {
	m.Workspace.Ignore = slices.Clone(m.Workspace.Ignore)
	m.Workspace.Include = slices.Clone(m.Workspace.Include)
	m.Command.Cmds = slices.Clone(m.Command.Cmds)
	return m
}
