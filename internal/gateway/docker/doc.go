// Drives the docker command line as a [gateway.Gateway].
//
// Every engine call is one invocation of the docker binary. Load starts a
// long-running container from the configured image, creates the workspace
// directory and streams the build context into it with "docker cp -". Exec
// runs the joined command sequence through the configured shell with
// "docker exec -w". Unload removes the container with "docker rm -f".
//
// The process runner is injectable with [WithRunner], so argument
// construction and error mapping are tested without a docker daemon.
//
// Example usage:
//
//	gw := docker.New("")
//	h, err := gw.Load(ctx, gateway.LoadRequest{Workspace: "demo", Image: "bifrost:0.1", Context: bc})
//	if err != nil {
//	    return err
//	}
//	res, err := gw.Exec(ctx, h, gateway.ExecRequest{Commands: []string{"make"}, Shell: "/bin/sh"})
package docker
