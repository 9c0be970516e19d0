// Owns a resolved configuration and the snapshots that make up a build context.
//
// A [Workspace] is created from a [manifest.Configuration] with no contents.
// [Workspace.Populate] walks every root the configuration names (the working
// directory, or each included path beneath it) with the configuration's
// ignore patterns and stores one [snapshot.Snapshot] per root. Contents are
// replaced only by an explicit call to Populate; nothing refreshes them
// implicitly.
//
// Example usage:
//
//	ws := workspace.New(cfg)
//	if err := ws.Populate(); err != nil {
//	    return err
//	}
//	fmt.Println(ws.Name(), ws.Files(), ws.Size())
package workspace
