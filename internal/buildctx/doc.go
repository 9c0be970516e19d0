// Serializes workspace contents into a build context archive.
//
// A build context is an uncompressed tar archive of every snapshot entry,
// written to a temporary file in lexicographic order with normalized
// ownership and timestamps, so an unchanged tree always produces the same
// bytes and the same digest. The archive is described as an OCI layer
// [ocispec.Descriptor] and can be streamed into a container any number of
// times until it is closed. Closing removes the temporary file.
//
// Example usage:
//
//	bc, err := buildctx.Create(ws.Contents(), buildctx.Options{Name: ws.Name()})
//	if err != nil {
//	    return err
//	}
//	defer bc.Close()
//
//	fmt.Println(bc.Digest(), bc.PayloadSize())
package buildctx
