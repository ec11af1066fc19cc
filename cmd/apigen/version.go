package main

import (
	_ "embed"
	"runtime/debug"
	"strings"
)

//go:embed VERSION
var embeddedVersion string

// Version reports the apigen build: the module version for `go install`
// builds, otherwise "devel-" plus VERSION and the short VCS revision.
func Version() string {
	info, _ := debug.ReadBuildInfo()
	return formatVersion(strings.TrimSpace(embeddedVersion), info)
}

// formatVersion marks revisions built from a modified tree with "-dirty".
func formatVersion(base string, info *debug.BuildInfo) string {
	if info == nil {
		return base
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		return v
	}
	settings := make(map[string]string, len(info.Settings))
	for _, s := range info.Settings {
		settings[s.Key] = s.Value
	}
	v := "devel-" + base
	if rev := settings["vcs.revision"]; len(rev) >= 7 {
		v += "+" + rev[:7]
		if settings["vcs.modified"] == "true" {
			v += "-dirty"
		}
	}
	return v
}
