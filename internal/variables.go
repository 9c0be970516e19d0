package internal

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

const (

	// Program name, used for the CLI, log group, and directory naming.
	Name = "bifrost"

	// String to indicate an undefined variable
	defaultUndefined = "(undefined)"

	// String to indicate a local (non-pipeline) build
	defaultLocalBuild = "(local)"

	// Version the go tool reports for an unversioned main module
	develVersion = "(devel)"

	// Main branch name used in version strings
	mainBranch = "main"
)

var (
	version   = "" // Version number (e.g., "1.2.3")
	stage     = "" // Development stage or git branch (e.g., "staging", "main")
	gitCommit = "" // Git commit hash (e.g., "a1b2c3d4")

	rawQuiet   = "false" // Whether to enable quiet mode
	rawDebug   = "false" // Whether to enable debug mode
	rawVerbose = "false" // Whether to enable verbose logging
)

// Returns the current version.
//
// If the version is not set, returns "(undefined)". A leading "v" is
// stripped, so "v1.0.0" and "1.0.0" print the same.
func Version() string {
	return normalizeVersion(version)
}

// Returns the development stage, the git branch the pipeline built from
// (e.g., "staging"), or "(undefined)".
func Stage() string {
	return strings.ToLower(orUndefined(stage))
}

// Returns the git commit hash, or "(undefined)".
func GitCommit() string {
	return orUndefined(gitCommit)
}

// Returns the build architecture.
func Arch() string {
	return runtime.GOARCH
}

// Whether any of version, commit or stage was left unset at link time.
func IsLocal() bool {
	for _, v := range []string{version, gitCommit, stage} {
		if orUndefined(v) == defaultUndefined {
			return true
		}
	}
	return false
}

// Returns a detailed version string.
//
// Pipeline builds print "<version>+<stage> <git-commit> [<arch>]", with the
// stage omitted on the main branch. A local build installed with
// "go install module@version" prints that module version; any other local
// build prints "(local)".
func VersionString() string {
	if IsLocal() {
		return localVersion(moduleVersion())
	}
	return formatVersion(Version(), Stage(), GitCommit(), Arch())
}

// Formats a pipeline version string.
func formatVersion(version, stage, commit, arch string) string {
	if stage == mainBranch {
		stage = ""
	} else {
		stage = "+" + stage
	}
	return fmt.Sprintf("%s%s %s [%s]", version, stage, commit, arch)
}

// Describes a local build from its module version.
func localVersion(module string) string {
	if module == "" || module == develVersion {
		return defaultLocalBuild
	}
	return fmt.Sprintf("%s %s [%s]", normalizeVersion(module), defaultLocalBuild, Arch())
}

// Returns the main module version recorded by the go tool, if any.
func moduleVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	return info.Main.Version
}

// Lowercases v and drops a leading "v".
func normalizeVersion(v string) string {
	return strings.TrimPrefix(strings.ToLower(orUndefined(v)), "v")
}

// Returns s trimmed, or "(undefined)" when blank.
func orUndefined(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return defaultUndefined
	}
	return s
}
