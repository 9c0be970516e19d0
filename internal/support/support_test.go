package support

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/cruciblehq/bifrost/internal/paths"
)

func TestDefaultDockerfile(t *testing.T) {
	data := string(DefaultDockerfile())

	for _, want := range []string{"FROM ubuntu", "build-essential", "curl"} {
		if !strings.Contains(data, want) {
			t.Errorf("Dockerfile missing %q", want)
		}
	}
}

func TestMaterialize(t *testing.T) {
	home := t.TempDir()

	res, err := Materialize(home)
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}

	file := filepath.Join(paths.Container(home), Dockerfile)
	if res.Dir != paths.Container(home) {
		t.Fatalf("Dir = %q, want %q", res.Dir, paths.Container(home))
	}
	if diff := cmp.Diff([]string{file}, res.Created); diff != "" {
		t.Fatalf("Created mismatch (-want +got):\n%s", diff)
	}
	if len(res.Existing) != 0 {
		t.Fatalf("Existing = %v, want none", res.Existing)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != string(DefaultDockerfile()) {
		t.Fatal("written Dockerfile differs from the default")
	}
}

func TestMaterializeKeepsExistingFiles(t *testing.T) {
	home := t.TempDir()
	file := filepath.Join(paths.Container(home), Dockerfile)

	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(file, []byte("FROM alpine\n"), 0644); err != nil {
		t.Fatal(err)
	}

	res, err := Materialize(home)
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	if len(res.Created) != 0 {
		t.Fatalf("Created = %v, want none", res.Created)
	}
	if diff := cmp.Diff([]string{file}, res.Existing); diff != "" {
		t.Fatalf("Existing mismatch (-want +got):\n%s", diff)
	}

	data, _ := os.ReadFile(file)
	if string(data) != "FROM alpine\n" {
		t.Fatalf("Dockerfile = %q, want local edit preserved", data)
	}
}

func TestMaterializeIsIdempotent(t *testing.T) {
	home := t.TempDir()

	if _, err := Materialize(home); err != nil {
		t.Fatalf("first Materialize: %v", err)
	}
	res, err := Materialize(home)
	if err != nil {
		t.Fatalf("second Materialize: %v", err)
	}
	if len(res.Created) != 0 || len(res.Existing) != 1 {
		t.Fatalf("second run created %v, kept %v", res.Created, res.Existing)
	}
}

func TestMaterializeUnwritableHome(t *testing.T) {
	home := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(home, nil, 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Materialize(home); !errors.Is(err, ErrSupport) {
		t.Fatalf("err = %v, want ErrSupport", err)
	}
}

func TestAddPackages(t *testing.T) {
	home := t.TempDir()
	if _, err := Materialize(home); err != nil {
		t.Fatal(err)
	}

	if err := AddPackages(home, "valgrind", "g++"); err != nil {
		t.Fatalf("AddPackages: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(paths.Container(home), Dockerfile))
	if err != nil {
		t.Fatal(err)
	}

	got := string(data)
	if !strings.HasPrefix(got, string(DefaultDockerfile())) {
		t.Fatal("default content was rewritten")
	}
	for _, want := range []string{
		"RUN apt-get install -y build-essential valgrind\n",
		"RUN apt-get install -y build-essential g++\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Dockerfile missing %q", want)
		}
	}
}

func TestAddPackagesRejectsInvalidNames(t *testing.T) {
	home := t.TempDir()
	if _, err := Materialize(home); err != nil {
		t.Fatal(err)
	}

	tests := []string{"", "Valgrind", "gdb; rm -rf /", "-y", "a b"}
	for _, pkg := range tests {
		if err := AddPackages(home, pkg); !errors.Is(err, ErrInvalidPackage) {
			t.Errorf("AddPackages(%q) = %v, want ErrInvalidPackage", pkg, err)
		}
	}
}

func TestAddPackagesWithoutSetup(t *testing.T) {
	if err := AddPackages(t.TempDir(), "gdb"); !errors.Is(err, ErrSupport) {
		t.Fatalf("err = %v, want ErrSupport", err)
	}
}

func TestTeardown(t *testing.T) {
	home := t.TempDir()
	if _, err := Materialize(home); err != nil {
		t.Fatal(err)
	}

	dir, err := Teardown(home)
	if err != nil {
		t.Fatalf("Teardown: %v", err)
	}
	if dir != paths.Support(home) {
		t.Fatalf("dir = %q, want %q", dir, paths.Support(home))
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Fatalf("support tree still present: %v", err)
	}

	if _, err := Teardown(home); !errors.Is(err, ErrNotSetUp) {
		t.Fatalf("second Teardown = %v, want ErrNotSetUp", err)
	}
}
