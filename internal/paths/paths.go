package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (

	// Name used for directory and file naming.
	appName = "bifrost"

	// Default name of the workspace manifest.
	ManifestFile = "Bifrost.toml"

	// Name of the ledger file recording loaded workspaces.
	ledgerFile = "loads.yaml"

	// Default permission mode for directories.
	DefaultDirMode os.FileMode = 0755

	// Default permission mode for files.
	DefaultFileMode os.FileMode = 0644
)

// Path to the directory for persistent state.
//
//	Linux:   $XDG_STATE_HOME/bifrost or ~/.local/state/bifrost
//	macOS:   ~/Library/Application Support/bifrost
func State() string {
	return filepath.Join(xdg.StateHome, appName)
}

// Default path to the load ledger.
//
//	Linux:   $XDG_STATE_HOME/bifrost/loads.yaml
//	macOS:   ~/Library/Application Support/bifrost/loads.yaml
func Ledger() string {
	return filepath.Join(State(), ledgerFile)
}

// Root of the support tree under the given home directory (~/.bifrost).
func Support(home string) string {
	return filepath.Join(home, "."+appName)
}

// Directory holding the container build definition
// (~/.bifrost/container/bifrost).
func Container(home string) string {
	return filepath.Join(Support(home), "container", appName)
}

// Path of the manifest inside dir.
func Manifest(dir string) string {
	return filepath.Join(dir, ManifestFile)
}
