package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func reset(t *testing.T, v, c, d string) {
	t.Helper()
	oldV, oldC, oldD := Version, Commit, Date
	Version, Commit, Date = v, c, d
	t.Cleanup(func() { Version, Commit, Date = oldV, oldC, oldD })
}

func TestFill(t *testing.T) {
	info := &debug.BuildInfo{
		Main: debug.Module{Version: "v0.3.1"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
		},
	}

	tests := []struct {
		name                string
		v, c, d             string
		wantV, wantC, wantD string
	}{
		{"unset", "dev", "none", "unknown", "v0.3.1", "abc123", "2026-01-02T03:04:05Z"},
		{"ldflags win", "v1.0.0", "fff", "today", "v1.0.0", "fff", "today"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reset(t, tt.v, tt.c, tt.d)
			fill(info)
			if Version != tt.wantV || Commit != tt.wantC || Date != tt.wantD {
				t.Errorf("fill() = %s %s %s, want %s %s %s", Version, Commit, Date, tt.wantV, tt.wantC, tt.wantD)
			}
		})
	}
}

func TestFillDevelVersion(t *testing.T) {
	reset(t, "dev", "none", "unknown")
	fill(&debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})
	if Version != "dev" {
		t.Errorf("Version = %q, want dev", Version)
	}
}

func TestTemplate(t *testing.T) {
	reset(t, "v2.0.0", "deadbeef", "2026-10-19")
	for _, want := range []string{"{{.Name}} version v2.0.0", "commit: deadbeef", "built: 2026-10-19"} {
		if !strings.Contains(Template(), want) {
			t.Errorf("Template() missing %q: %s", want, Template())
		}
	}
	if !strings.HasPrefix(String(), "version: v2.0.0") {
		t.Errorf("String() = %q", String())
	}
}
