package docker

import (
	"context"
	"errors"
	"io"
	"os/exec"
)

// One docker invocation.
type Command struct {
	Args   []string  // Arguments after the binary name.
	Stdin  io.Reader // Optional standard input.
	Stdout io.Writer // Optional standard output sink.
	Stderr io.Writer // Optional standard error sink.
}

// Runs a docker invocation and returns its exit code.
//
// A process that starts and exits non-zero is not an error; err is reserved
// for failing to run the binary at all.
type Runner func(ctx context.Context, binary string, cmd Command) (int, error)

// Runs the binary as a subprocess.
func execRunner(ctx context.Context, binary string, c Command) (int, error) {
	cmd := exec.CommandContext(ctx, binary, c.Args...)
	cmd.Stdin = c.Stdin
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && ctx.Err() == nil {
		return exitErr.ExitCode(), nil
	}
	return 0, err
}
