// Persists the handles of loaded workspaces between invocations.
//
// The ledger is a YAML file, by default under the XDG state directory, that
// maps each workspace name to the [gateway.Handle] its last successful load
// returned. Load records a handle, unload removes it, and run and unload use
// it to tell whether a workspace is loaded at all. Writes go through a
// temporary file and a rename, so a crash never leaves a half-written
// ledger.
//
// Example usage:
//
//	l := ledger.Open("")
//	h, ok, err := l.Lookup("demo")
//	if err != nil {
//	    return err
//	}
//	if !ok {
//	    return errors.New("demo is not loaded")
//	}
package ledger
