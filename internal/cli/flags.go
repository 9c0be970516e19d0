package cli

import (
	"github.com/cruciblehq/bifrost/internal/manifest"
)

// Manifest location and overrides shared by the workspace commands.
//
// Pointer and slice fields stay nil when the flag is absent, so only the
// flags actually given replace persisted values.
type ManifestFlags struct {
	Manifest  string   `short:"m" help:"Path to the manifest." placeholder:"PATH" type:"path"`
	Project   *string  `help:"Override the project name." placeholder:"NAME"`
	Workspace *string  `short:"w" help:"Override the workspace name." placeholder:"NAME"`
	Container *string  `short:"c" help:"Override the container profile (docker, containerd)." placeholder:"PROFILE"`
	Image     *string  `help:"Override the container image." placeholder:"TAG"`
	Shell     *string  `help:"Override the shell that runs commands." placeholder:"PATH"`
	Ignore    []string `help:"Replace the ignore list (repeatable)." placeholder:"PATTERN" sep:"none"`
	Command   []string `help:"Replace the command list (repeatable)." placeholder:"CMD" sep:"none"`
}

// Returns the overrides the flags express.
func (f ManifestFlags) overrides() manifest.Overrides {
	return manifest.Overrides{
		Project:   f.Project,
		Workspace: f.Workspace,
		Container: f.Container,
		Image:     f.Image,
		Shell:     f.Shell,
		Ignore:    f.Ignore,
		Commands:  f.Command,
	}
}
