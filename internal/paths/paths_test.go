package paths

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestSupportTree(t *testing.T) {
	home := filepath.FromSlash("/home/user")

	if got, want := Support(home), filepath.FromSlash("/home/user/.bifrost"); got != want {
		t.Fatalf("Support = %q, want %q", got, want)
	}
	if got, want := Container(home), filepath.FromSlash("/home/user/.bifrost/container/bifrost"); got != want {
		t.Fatalf("Container = %q, want %q", got, want)
	}
}

func TestLedgerUnderState(t *testing.T) {
	if !strings.HasPrefix(Ledger(), State()) {
		t.Fatalf("Ledger %q is not under State %q", Ledger(), State())
	}
	if filepath.Base(Ledger()) != ledgerFile {
		t.Fatalf("Ledger base = %q, want %q", filepath.Base(Ledger()), ledgerFile)
	}
}

func TestManifest(t *testing.T) {
	if got := Manifest("dir"); got != filepath.Join("dir", "Bifrost.toml") {
		t.Fatalf("Manifest = %q", got)
	}
}
