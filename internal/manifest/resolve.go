package manifest

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cruciblehq/bifrost/internal/fault"
	"github.com/cruciblehq/bifrost/internal/paths"
)

// Names that cannot be used as a workspace name. They collide with the
// support tree layout inside the container.
var reservedNames = []string{".bifrost", "container", "bifrost", ".bifrost_config", "tmp"}

// Controls manifest resolution.
type Options struct {
	Path      string    // Manifest path. Empty uses Bifrost.toml in the working directory.
	Overrides Overrides // Invocation-time values that win over the persisted manifest.
	Init      bool      // Synthesize a default manifest when none exists.
	Repair    bool      // Synthesize the default in place of a malformed or invalid manifest. Implies Init.
	Home      string    // Home directory. Empty uses [os.UserHomeDir].
	Cwd       string    // Working directory. Empty uses [os.Getwd].
}

// Resolves the manifest and the environment into a [Configuration].
//
// The manifest is read from opts.Path (default Bifrost.toml in the working
// directory). A missing manifest is an [ErrNotFound] unless opts.Init is set,
// in which case [Default] is used. Overrides are then applied field by
// field and the result is validated. With opts.Repair, a manifest that
// cannot be parsed or validated is replaced by [Default] before the
// overrides are applied. Either a complete configuration is returned or an
// error; there is no partial result.
func Resolve(opts Options) (*Configuration, error) {
	home, cwd, err := environment(opts)
	if err != nil {
		return nil, err
	}

	if err := checkRoot(home, cwd); err != nil {
		return nil, err
	}

	path := opts.Path
	if path == "" {
		path = paths.Manifest(cwd)
	} else if !filepath.IsAbs(path) {
		path = filepath.Join(cwd, path)
	}

	base, synthesized, err := readOrSynthesize(path, opts.Init || opts.Repair)
	if err != nil && !(opts.Repair && errors.Is(err, ErrMalformed)) {
		return nil, err
	}

	var merged Manifest
	if err == nil {
		merged = opts.Overrides.Apply(base)
		err = validate(merged)
	}
	if err != nil {
		if !opts.Repair || synthesized {
			return nil, err
		}
		slog.Warn("replacing manifest with the default", "manifest", path, "error", err)
		synthesized = true
		merged = opts.Overrides.Apply(Default())
		if err := validate(merged); err != nil {
			return nil, err
		}
	}

	cfg := &Configuration{
		home:        home,
		cwd:         cwd,
		path:        path,
		manifest:    merged,
		synthesized: synthesized,
	}

	slog.Debug("configuration resolved",
		"manifest", path,
		"synthesized", synthesized,
		"workspace", cfg.WorkspaceName(),
		"container", merged.Container.Name,
	)

	return cfg, nil
}

// Returns the absolute home and working directories.
func environment(opts Options) (home, cwd string, err error) {
	home = opts.Home
	if home == "" {
		if home, err = os.UserHomeDir(); err != nil {
			return "", "", fault.Wrap(ErrConfig, err)
		}
	}

	cwd = opts.Cwd
	if cwd == "" {
		if cwd, err = os.Getwd(); err != nil {
			return "", "", fault.Wrap(ErrConfig, err)
		}
	}

	if home, err = filepath.Abs(home); err != nil {
		return "", "", fault.Wrap(ErrConfig, err)
	}
	if cwd, err = filepath.Abs(cwd); err != nil {
		return "", "", fault.Wrap(ErrConfig, err)
	}

	return home, cwd, nil
}

// Rejects working directories that must never become a workspace: the
// filesystem root, the home directory, and the support tree itself.
func checkRoot(home, cwd string) error {
	forbidden := []string{
		string(filepath.Separator),
		home,
		paths.Support(home),
		filepath.Dir(paths.Container(home)),
		paths.Container(home),
	}
	if slices.Contains(forbidden, filepath.Clean(cwd)) {
		return fault.Wrapf(ErrInvalidRoot, "cannot use %s as a workspace", cwd)
	}
	return nil
}

// Checks a workspace name.
func validateName(name string) error {
	if slices.Contains(reservedNames, name) {
		return fault.Wrapf(ErrMalformed, "workspace name %q is reserved", name)
	}
	if strings.ContainsAny(name, `/\`) {
		return fault.Wrapf(ErrMalformed, "workspace name %q must not contain path separators", name)
	}
	if name == "." || name == ".." || !filepath.IsLocal(name) {
		return fault.Wrapf(ErrMalformed, "workspace name %q is not a valid directory name", name)
	}
	return nil
}

// Loads the manifest at path, or synthesizes the default when allowed.
func readOrSynthesize(path string, init bool) (Manifest, bool, error) {
	m, err := Load(path)
	if err == nil {
		return *m, false, nil
	}
	if init && errors.Is(err, ErrNotFound) {
		return Default(), true, nil
	}
	return Manifest{}, false, err
}

// Checks the merged manifest for values no operation can work with.
//
// The workspace name becomes a directory under the container's workspace
// root, so it must be a single local path element. An empty name or the
// placeholder falls back to the working directory's base name and is not
// checked here.
func validate(m Manifest) error {
	name := strings.TrimSpace(m.Workspace.Name)
	if name != "" && name != PlaceholderWorkspace {
		if err := validateName(name); err != nil {
			return err
		}
	}
	if strings.TrimSpace(m.Container.Name) == "" {
		return fault.Wrapf(ErrMalformed, "container name is empty")
	}

	for _, inc := range m.Workspace.Include {
		if !filepath.IsLocal(filepath.FromSlash(inc)) {
			return fault.Wrapf(ErrInvalidRoot, "include %q escapes the working directory", inc)
		}
	}

	return nil
}
