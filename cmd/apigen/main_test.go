package main

import (
	"os"
	"path/filepath"
	"runtime/debug"
	"slices"
	"strings"
	"testing"
)

func TestExpandInputs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a_openapi.yaml", "b_openapi.yaml", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	a := filepath.Join(dir, "a_openapi.yaml")

	got, err := expandInputs([]string{a, filepath.Join(dir, "*_openapi.yaml"), "missing.yaml"})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{a, filepath.Join(dir, "b_openapi.yaml"), "missing.yaml"}
	if !slices.Equal(got, want) {
		t.Errorf("expandInputs = %v, want %v", got, want)
	}

	_, err = expandInputs([]string{filepath.Join(dir, "*.json")})
	if err == nil || !strings.Contains(err.Error(), "no documents match") {
		t.Errorf("unmatched pattern error = %v", err)
	}
}

func TestVersion(t *testing.T) {
	if v := Version(); !strings.Contains(v, "0.1.0") && !strings.HasPrefix(v, "v") {
		t.Errorf("Version() = %q", v)
	}
}

func TestFormatVersion(t *testing.T) {
	rev := "0123456789abcdef"
	tests := []struct {
		name string
		info *debug.BuildInfo
		want string
	}{
		{"no build info", nil, "0.1.0"},
		{"installed", &debug.BuildInfo{Main: debug.Module{Version: "v0.2.0"}}, "v0.2.0"},
		{"devel without vcs", &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}, "devel-0.1.0"},
		{"devel clean", &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}, Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: rev},
			{Key: "vcs.modified", Value: "false"},
		}}, "devel-0.1.0+0123456"},
		{"devel dirty", &debug.BuildInfo{Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: rev},
			{Key: "vcs.modified", Value: "true"},
		}}, "devel-0.1.0+0123456-dirty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatVersion("0.1.0", tt.info); got != tt.want {
				t.Errorf("formatVersion = %q, want %q", got, tt.want)
			}
		})
	}
}
