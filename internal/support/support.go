package support

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/cruciblehq/bifrost/internal/fault"
	"github.com/cruciblehq/bifrost/internal/paths"
)

// Name of the build definition inside the container directory.
const Dockerfile = "Dockerfile"

//go:embed defaults/*
var defaults embed.FS

// Debian package names: lowercase alphanumerics plus . + -, starting with an
// alphanumeric.
var packageName = regexp.MustCompile(`^[a-z0-9][a-z0-9.+-]*$`)

// Outcome of [Materialize].
type Result struct {
	Dir      string   // Container directory.
	Created  []string // Files written by this call.
	Existing []string // Files left untouched because they already existed.
}

// Returns the embedded default Dockerfile.
func DefaultDockerfile() []byte {
	data, err := defaults.ReadFile(path.Join("defaults", Dockerfile))
	if err != nil {
		panic(err) // Embedded at build time.
	}
	return data
}

// Writes the embedded defaults into the container directory under home.
//
// Missing directories are created. Files that already exist are reported in
// [Result.Existing] and left as they are.
func Materialize(home string) (*Result, error) {
	dir := paths.Container(home)
	if err := os.MkdirAll(dir, paths.DefaultDirMode); err != nil {
		return nil, fault.Wrap(ErrSupport, err)
	}

	res := &Result{Dir: dir}

	err := fs.WalkDir(defaults, "defaults", func(name string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}

		rel := strings.TrimPrefix(name, "defaults/")
		dst := filepath.Join(dir, filepath.FromSlash(rel))

		data, err := defaults.ReadFile(name)
		if err != nil {
			return err
		}

		created, err := writeNew(dst, data)
		if err != nil {
			return err
		}
		if created {
			res.Created = append(res.Created, dst)
		} else {
			res.Existing = append(res.Existing, dst)
		}
		return nil
	})
	if err != nil {
		return nil, fault.Wrap(ErrSupport, err)
	}

	slog.Debug("support tree materialized", "dir", dir, "created", len(res.Created), "existing", len(res.Existing))
	return res, nil
}

// Appends one apt-get line per package to the Dockerfile under home.
//
// The Dockerfile must exist; run [Materialize] first.
func AddPackages(home string, pkgs ...string) error {
	for _, pkg := range pkgs {
		if !packageName.MatchString(pkg) {
			return fault.Wrapf(ErrInvalidPackage, "%q", pkg)
		}
	}
	if len(pkgs) == 0 {
		return nil
	}

	file := filepath.Join(paths.Container(home), Dockerfile)
	f, err := os.OpenFile(file, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return fault.Wrap(ErrSupport, err)
	}
	defer f.Close()

	var b strings.Builder
	for _, pkg := range pkgs {
		fmt.Fprintf(&b, "\n# Bifrost appended:\nRUN apt-get install -y build-essential %s\n", pkg)
	}

	if _, err := f.WriteString(b.String()); err != nil {
		return fault.Wrap(ErrSupport, err)
	}

	slog.Debug("packages appended", "dockerfile", file, "packages", pkgs)
	return nil
}

// Removes the support tree under home.
//
// A missing tree is an [ErrNotSetUp]. The load ledger is not part of the
// tree and is left alone.
func Teardown(home string) (string, error) {
	dir := paths.Support(home)

	if _, err := os.Lstat(dir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return dir, fault.Wrapf(ErrNotSetUp, "%s", dir)
		}
		return dir, fault.Wrap(ErrSupport, err)
	}

	if err := os.RemoveAll(dir); err != nil {
		return dir, fault.Wrap(ErrSupport, err)
	}

	slog.Debug("support tree removed", "dir", dir)
	return dir, nil
}

// Writes data to path unless it exists. Reports whether it was written.
func writeNew(path string, data []byte) (bool, error) {
	if err := os.MkdirAll(filepath.Dir(path), paths.DefaultDirMode); err != nil {
		return false, err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, paths.DefaultFileMode)
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return false, err
	}
	return true, f.Close()
}
