// Parses flags, configures logging and drives workspace operations.
//
// Every invocation follows the same path: resolve the manifest with any
// overrides given on the command line, walk the working directory into a
// workspace, then drive the selected operation through its stages. Results
// go to stdout; logs go to stderr.
//
// Global flags:
//
//	-q, --quiet     Suppress informational output.
//	-v, --verbose   Add source locations to log records.
//	-d, --debug     Enable debug output.
//
// Workspace commands (load, show, run, unload, init) also accept the
// manifest overrides --manifest, --project, --workspace, --container,
// --image, --shell, --ignore and --command. An override that is present
// replaces the persisted value wholesale.
//
// Errors map to stable exit codes; see [ExitCode].
package cli
