// Boundary between bifrost and a container engine.
//
// A [Gateway] accepts a build context and returns a [Handle] for the loaded
// container, tears a handle down, and runs a command sequence inside a
// handle's container with captured output. Implementations are selected by
// profile name through a [Registry]; the manifest's container name picks
// the profile.
//
// A command that exits non-zero inside the container is reported through
// [ExecResult.ExitCode] and is not an error. Errors are reserved for failures
// of the engine itself and match [ErrRuntime].
//
// Engines that start asynchronously are awaited with [WaitReady], which
// pings with bounded exponential backoff and gives up with [ErrTimeout].
//
// Example usage:
//
//	reg := gateway.NewRegistry(docker.New(""), containerdGateway)
//	gw, ok := reg.Lookup(cfg.ContainerProfile())
//	if !ok {
//	    return gateway.ErrUnknownProfile
//	}
//	if err := gateway.WaitReady(ctx, gw, gateway.DefaultBackoff); err != nil {
//	    return err
//	}
//	h, err := gw.Load(ctx, gateway.LoadRequest{Workspace: "demo", Image: "bifrost:0.1", Context: bc})
package gateway
