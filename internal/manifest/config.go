package manifest

import (
	"path/filepath"
	"slices"
	"strings"
)

// Resolved, immutable configuration for one invocation.
//
// Combines the merged manifest with the user's home and working directories.
// All accessors return copies, so a configuration can be handed to a
// workspace without the caller being able to change it afterwards.
type Configuration struct {
	home        string   // Absolute home directory.
	cwd         string   // Absolute working directory.
	path        string   // Absolute manifest path.
	manifest    Manifest // Merged manifest.
	synthesized bool     // Whether the manifest was synthesized rather than read.
}

// Returns the absolute path to the user's home directory.
func (c *Configuration) Home() string {
	return c.home
}

// Returns the absolute path to the working directory.
func (c *Configuration) Cwd() string {
	return c.cwd
}

// Returns the path the manifest was (or would be) read from.
func (c *Configuration) ManifestPath() string {
	return c.path
}

// Whether the manifest was synthesized because none existed on disk.
func (c *Configuration) Synthesized() bool {
	return c.synthesized
}

// Returns a copy of the merged manifest.
func (c *Configuration) Manifest() Manifest {
	return c.manifest.clone()
}

// Returns the project name.
func (c *Configuration) ProjectName() string {
	return c.manifest.Project.Name
}

// Returns the workspace name.
//
// An empty or placeholder name resolves to the base name of the working
// directory.
func (c *Configuration) WorkspaceName() string {
	name := strings.TrimSpace(c.manifest.Workspace.Name)
	if name == "" || name == PlaceholderWorkspace {
		return filepath.Base(c.cwd)
	}
	return name
}

// Returns the container profile name.
func (c *Configuration) ContainerProfile() string {
	return c.manifest.Container.Name
}

// Returns the image the container is started from.
func (c *Configuration) Image() string {
	if c.manifest.Container.Image == "" {
		return DefaultImage
	}
	return c.manifest.Container.Image
}

// Returns the shell used to run commands.
func (c *Configuration) Shell() string {
	if c.manifest.Container.Shell == "" {
		return DefaultShell
	}
	return c.manifest.Container.Shell
}

// Returns the ignore patterns.
func (c *Configuration) Ignore() []string {
	return slices.Clone(c.manifest.Workspace.Ignore)
}

// Returns the absolute snapshot roots.
//
// Each include entry yields one root under the working directory. Without
// includes, the working directory itself is the single root.
func (c *Configuration) Roots() []string {
	if len(c.manifest.Workspace.Include) == 0 {
		return []string{c.cwd}
	}

	roots := make([]string, 0, len(c.manifest.Workspace.Include))
	for _, inc := range c.manifest.Workspace.Include {
		roots = append(roots, filepath.Join(c.cwd, filepath.FromSlash(inc)))
	}
	return roots
}

// Returns the command sequence as written in the manifest.
func (c *Configuration) Commands() []string {
	return slices.Clone(c.manifest.Command.Cmds)
}

// Returns the commands that can actually be run.
//
// Blank entries and the init placeholder are dropped. An empty result means
// the manifest has nothing to run.
func (c *Configuration) Runnable() []string {
	var cmds []string
	for _, cmd := range c.manifest.Command.Cmds {
		cmd = strings.TrimSpace(cmd)
		if cmd == "" || cmd == PlaceholderCommand {
			continue
		}
		cmds = append(cmds, cmd)
	}
	return cmds
}
