package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func withVars(t *testing.T, v, c, d string) {
	t.Helper()
	oldV, oldC, oldD := Version, Commit, Date
	Version, Commit, Date = v, c, d
	t.Cleanup(func() { Version, Commit, Date = oldV, oldC, oldD })
}

func TestFillFromBuildInfo(t *testing.T) {
	info := &debug.BuildInfo{
		Main: debug.Module{Path: "github.com/omnimad/omt", Version: "v0.3.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
		},
	}

	t.Run("unset values are filled", func(t *testing.T) {
		withVars(t, "dev", "none", "unknown")
		fillFromBuildInfo(info, true)
		if Version != "v0.3.1" || Commit != "abc123" || Date != "2026-01-02T03:04:05Z" {
			t.Errorf("got %q %q %q", Version, Commit, Date)
		}
	})

	t.Run("ldflags win", func(t *testing.T) {
		withVars(t, "v1.0.0", "fff", "today")
		fillFromBuildInfo(info, true)
		if Version != "v1.0.0" || Commit != "fff" || Date != "today" {
			t.Errorf("ldflags values were overwritten: %q %q %q", Version, Commit, Date)
		}
	})

	t.Run("devel builds keep dev", func(t *testing.T) {
		withVars(t, "dev", "none", "unknown")
		fillFromBuildInfo(&debug.BuildInfo{Main: debug.Module{Version: "(devel)"}}, true)
		if Version != "dev" {
			t.Errorf("Version = %q, want dev", Version)
		}
	})

	t.Run("no build info", func(t *testing.T) {
		withVars(t, "dev", "none", "unknown")
		fillFromBuildInfo(nil, false)
		if Version != "dev" {
			t.Errorf("Version = %q, want dev", Version)
		}
	})
}

func TestTemplate(t *testing.T) {
	withVars(t, "v1.2.3", "deadbeef", "2026-10-15")

	tpl := Template()
	for _, want := range []string{"{{.Name}} version v1.2.3", "commit: deadbeef", "built: 2026-10-15"} {
		if !strings.Contains(tpl, want) {
			t.Errorf("Template() = %q, missing %q", tpl, want)
		}
	}
	if !strings.HasPrefix(String(), "version: v1.2.3") {
		t.Errorf("String() = %q", String())
	}
}
