// Materializes the support tree that holds the container build definition.
//
// The support tree lives under ~/.bifrost. Its container directory holds a
// Dockerfile from which the default image is built. [Materialize] writes the
// embedded defaults without touching files that already exist, so running
// setup twice is harmless and local edits survive.
//
// Example usage:
//
//	res, err := support.Materialize(home)
//	if err != nil {
//	    return err
//	}
//	for _, path := range res.Created {
//	    fmt.Println("created", path)
//	}
//
// Extra packages are appended to the Dockerfile as apt-get lines:
//
//	if err := support.AddPackages(home, "valgrind", "gdb"); err != nil {
//	    return err
//	}
//
// [Teardown] removes the whole tree again.
package support
