// Runs workspaces in containers managed by containerd.
//
// A [Runtime] is a [gateway.Gateway] for the "containerd" profile. It
// connects to the daemon on first use, so constructing one never fails even
// when containerd is not installed. Load starts a container from a
// previously imported image tag with a long-running task, then extracts the
// build context into the workspace directory by piping it to "tar xf -"
// inside the container. Exec attaches an additional process to that task
// with captured output. Unload kills the task and deletes the container
// together with its snapshot.
//
// Images are made available with [Runtime.ImportImage], which imports an
// OCI archive, tags it and unpacks it for the host platform.
//
// Example usage:
//
//	rt := runtime.New(runtime.Options{})
//	defer rt.Close()
//
//	if err := rt.ImportImage(ctx, "bifrost.tar", "bifrost:0.1"); err != nil {
//	    return err
//	}
//	h, err := rt.Load(ctx, gateway.LoadRequest{Workspace: "demo", Image: "bifrost:0.1", Context: bc})
//	if err != nil {
//	    return err
//	}
//	defer rt.Unload(ctx, h)
//
//	res, err := rt.Exec(ctx, h, gateway.ExecRequest{Commands: []string{"make"}, Shell: "/bin/sh"})
package runtime
