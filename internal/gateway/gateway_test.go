package gateway_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/cruciblehq/bifrost/internal/gateway"
	"github.com/cruciblehq/bifrost/internal/gateway/gatewaytest"
)

// Backoff short enough for tests.
var quick = gateway.Backoff{
	Attempts: 4,
	Initial:  time.Millisecond,
	Max:      2 * time.Millisecond,
	Timeout:  time.Second,
}

func TestScript(t *testing.T) {
	tests := []struct {
		name string
		cmds []string
		want string
	}{
		{name: "single", cmds: []string{"make"}, want: "make"},
		{name: "sequence", cmds: []string{"gcc main.c -o main", "./main"}, want: "gcc main.c -o main && ./main"},
		{name: "empty", cmds: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := gateway.ExecRequest{Commands: tt.cmds}.Script()
			if got != tt.want {
				t.Fatalf("Script = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWorkdir(t *testing.T) {
	if got := gateway.Workdir("shattuck"); got != "/bifrost/shattuck" {
		t.Fatalf("Workdir = %q, want %q", got, "/bifrost/shattuck")
	}
	if got := gateway.ContainerID("shattuck"); got != "bifrost-shattuck" {
		t.Fatalf("ContainerID = %q, want %q", got, "bifrost-shattuck")
	}
}

func TestWaitReadyImmediate(t *testing.T) {
	gw := gatewaytest.New("docker")

	if err := gateway.WaitReady(context.Background(), gw, quick); err != nil {
		t.Fatalf("WaitReady: %v", err)
	}
	if got := gw.Pings(); got != 1 {
		t.Fatalf("Pings = %d, want 1", got)
	}
}

func TestWaitReadyAfterFailures(t *testing.T) {
	gw := gatewaytest.New("docker")
	gw.PingFailures = 2

	if err := gateway.WaitReady(context.Background(), gw, quick); err != nil {
		t.Fatalf("WaitReady: %v", err)
	}
	if got := gw.Pings(); got != 3 {
		t.Fatalf("Pings = %d, want 3", got)
	}
}

func TestWaitReadyExhausted(t *testing.T) {
	gw := gatewaytest.New("docker")
	gw.PingFailures = 100

	err := gateway.WaitReady(context.Background(), gw, quick)
	if !errors.Is(err, gateway.ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
	if !errors.Is(err, gateway.ErrUnreachable) {
		t.Fatalf("err = %v, want last cause ErrUnreachable", err)
	}
	if !errors.Is(err, gateway.ErrRuntime) {
		t.Fatalf("err = %v, want ErrRuntime", err)
	}
	if got := gw.Pings(); got != quick.Attempts {
		t.Fatalf("Pings = %d, want %d", got, quick.Attempts)
	}
}

func TestWaitReadyDeadline(t *testing.T) {
	gw := gatewaytest.New("docker")
	gw.PingFailures = 100

	b := gateway.Backoff{Attempts: 1000, Initial: 20 * time.Millisecond, Max: 20 * time.Millisecond, Timeout: 50 * time.Millisecond}

	start := time.Now()
	err := gateway.WaitReady(context.Background(), gw, b)
	if !errors.Is(err, gateway.ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("WaitReady took %s, want bounded by the deadline", elapsed)
	}
}

func TestWaitReadyZeroAttempts(t *testing.T) {
	gw := gatewaytest.New("docker")
	gw.PingFailures = 1

	err := gateway.WaitReady(context.Background(), gw, gateway.Backoff{})
	if !errors.Is(err, gateway.ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
	if got := gw.Pings(); got != 1 {
		t.Fatalf("Pings = %d, want 1", got)
	}
}

func TestInterrupted(t *testing.T) {
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name   string
		ctx    context.Context
		stdout string
		want   error
	}{
		{name: "output captured", ctx: context.Background(), stdout: "compiled\n", want: gateway.ErrInterrupted},
		{name: "cancelled", ctx: cancelled, want: gateway.ErrInterrupted},
		{name: "never started", ctx: context.Background(), want: gateway.ErrUnreachable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := gateway.Interrupted(tt.ctx, tt.stdout, "", errors.New("signal: killed"))
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if res.ExitCode != gateway.ExitInterrupted || res.Stdout != tt.stdout {
				t.Fatalf("result = %+v, want interrupted with stdout %q", res, tt.stdout)
			}
			if res.OK() {
				t.Fatal("OK = true for an interrupted result")
			}
		})
	}
}

func TestRegistry(t *testing.T) {
	docker := gatewaytest.New("docker")
	ctrd := gatewaytest.New("containerd")
	reg := gateway.NewRegistry(docker, ctrd)

	gw, ok := reg.Lookup(" Docker ")
	if !ok || gw != docker {
		t.Fatalf("Lookup(Docker) = %v, %v, want docker gateway", gw, ok)
	}
	if _, ok := reg.Lookup("podman"); ok {
		t.Fatal("Lookup(podman) found a gateway")
	}
	if diff := cmp.Diff([]string{"containerd", "docker"}, reg.Profiles()); diff != "" {
		t.Fatalf("Profiles mismatch (-want +got):\n%s", diff)
	}

	replacement := gatewaytest.New("docker")
	reg.Register(replacement)
	if gw, _ := reg.Lookup("docker"); gw != replacement {
		t.Fatal("Register did not replace the docker gateway")
	}
}
