// Parses, merges, and persists the Bifrost.toml workspace manifest.
//
// A [Manifest] is the human-edited record describing the project, the
// container profile, the workspace (name, ignore list, included roots), and
// the command sequence to run inside the container. [Resolve] reads the
// persisted manifest, applies caller-supplied [Overrides] field by field,
// and combines the result with the user's home and working directories
// into an immutable [Configuration].
//
// Overrides replace persisted values wholesale. List fields (ignore,
// include, commands) are never concatenated: an override list replaces the
// persisted list entirely.
//
// Example usage:
//
//	name := "scratch"
//	cfg, err := manifest.Resolve(manifest.Options{
//	    Overrides: manifest.Overrides{Workspace: &name},
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(cfg.WorkspaceName(), cfg.Commands())
package manifest
