package manifest

import "slices"

// Values supplied at invocation time that take precedence over the
// persisted manifest.
//
// A nil field means "not supplied" and leaves the persisted value in place.
// A non-nil list replaces the persisted list wholesale, even when empty.
type Overrides struct {
	Project   *string  // Replaces [project] name.
	Container *string  // Replaces [container] name.
	Image     *string  // Replaces [container] image.
	Shell     *string  // Replaces [container] shell.
	Workspace *string  // Replaces [workspace] name.
	Ignore    []string // Replaces [workspace] ignore.
	Include   []string // Replaces [workspace] include.
	Commands  []string // Replaces [command] cmds.
}

// Reports whether no override was supplied.
func (o Overrides) Empty() bool {
	return o.Project == nil &&
		o.Container == nil &&
		o.Image == nil &&
		o.Shell == nil &&
		o.Workspace == nil &&
		o.Ignore == nil &&
		o.Include == nil &&
		o.Commands == nil
}

// Returns a copy of m with every supplied override applied.
//
// The merge is field by field, last writer wins. The input manifest is not
// modified.
func (o Overrides) Apply(m Manifest) Manifest {
	m = m.clone()

	setString(&m.Project.Name, o.Project)
	setString(&m.Container.Name, o.Container)
	setString(&m.Container.Image, o.Image)
	setString(&m.Container.Shell, o.Shell)
	setString(&m.Workspace.Name, o.Workspace)
	setList(&m.Workspace.Ignore, o.Ignore)
	setList(&m.Workspace.Include, o.Include)
	setList(&m.Command.Cmds, o.Commands)

	return m
}

// Assigns *v to dst when v is non-nil.
func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// Replaces dst with a copy of v when v is non-nil.
func setList(dst *[]string, v []string) {
	if v != nil {
		*dst = slices.Clone(v)
	}
}
