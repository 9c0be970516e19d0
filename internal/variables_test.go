package internal

import (
	"runtime"
	"testing"
)

func TestFormatVersion(t *testing.T) {
	tests := []struct {
		stage string
		want  string
	}{
		{stage: "main", want: "1.2.3 a1b2c3d4 [amd64]"},
		{stage: "staging", want: "1.2.3+staging a1b2c3d4 [amd64]"},
	}

	for _, tt := range tests {
		if got := formatVersion("1.2.3", tt.stage, "a1b2c3d4", "amd64"); got != tt.want {
			t.Errorf("formatVersion(%q) = %q, want %q", tt.stage, got, tt.want)
		}
	}
}

func TestLocalVersion(t *testing.T) {
	tests := []struct {
		module string
		want   string
	}{
		{module: "", want: "(local)"},
		{module: "(devel)", want: "(local)"},
		{module: "v0.3.1", want: "0.3.1 (local) [" + runtime.GOARCH + "]"},
	}

	for _, tt := range tests {
		if got := localVersion(tt.module); got != tt.want {
			t.Errorf("localVersion(%q) = %q, want %q", tt.module, got, tt.want)
		}
	}
}

func TestNormalizeVersion(t *testing.T) {
	tests := map[string]string{
		"":         "(undefined)",
		" v1.0.0 ": "1.0.0",
		"V2.1.0":   "2.1.0",
		"3.0.0":    "3.0.0",
	}

	for in, want := range tests {
		if got := normalizeVersion(in); got != want {
			t.Errorf("normalizeVersion(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestUnsetVariables(t *testing.T) {
	if !IsLocal() {
		t.Fatal("IsLocal = false without linker flags")
	}
	if Stage() != "(undefined)" || GitCommit() != "(undefined)" {
		t.Fatalf("Stage, GitCommit = %q, %q, want undefined", Stage(), GitCommit())
	}
}

func TestDefaults(t *testing.T) {
	if got := Defaults(); got != (Mode{}) {
		t.Fatalf("Defaults = %+v, want all false", got)
	}
	if parseBool("yes") || !parseBool("1") || !parseBool("true") {
		t.Fatal("parseBool does not follow strconv.ParseBool")
	}
}
