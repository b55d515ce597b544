package version

import (
	"runtime/debug"
	"strings"
	"testing"
	"time"
)

func saveAndRestore() func() {
	origVersion, origCommit, origBranch, origBuildTime := Version, GitCommit, GitBranch, BuildTime
	return func() {
		Version = origVersion
		GitCommit = origCommit
		GitBranch = origBranch
		BuildTime = origBuildTime
	}
}

func TestGetVersionInfoDefaults(t *testing.T) {
	defer saveAndRestore()()
	Version, GitCommit, GitBranch, BuildTime = "dev", "", "", ""

	info := GetVersionInfo()
	if info.Version != "dev" {
		t.Errorf("expected version 'dev', got %q", info.Version)
	}
	if info.IsRelease {
		t.Error("dev should not be a release")
	}
}

func TestGetVersionInfoLinkTimeValues(t *testing.T) {
	defer saveAndRestore()()
	Version = "1.2.0"
	GitCommit = "abc1234def5678"
	GitBranch = "main"
	BuildTime = "2026-01-15T10:30:00Z"

	info := GetVersionInfo()
	if !info.IsRelease {
		t.Error("1.2.0 should be a release")
	}
	if info.GitCommit != "abc1234" {
		t.Errorf("expected shortened commit 'abc1234', got %q", info.GitCommit)
	}
	if info.BuildDate.Year() != 2026 {
		t.Errorf("expected build year 2026, got %d", info.BuildDate.Year())
	}
}

func TestGetVersionInfoDirtyVersion(t *testing.T) {
	defer saveAndRestore()()
	Version = "1.2.0-dirty"

	if GetVersionInfo().IsRelease {
		t.Error("dirty version should not be a release")
	}
}

func TestApplyBuildInfo(t *testing.T) {
	info := &Info{Version: "dev"}
	info.applyBuildInfo(&debug.BuildInfo{
		GoVersion: "go1.26.0",
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.modified", Value: "true"},
			{Key: "vcs.time", Value: "2026-03-01T08:00:00Z"},
		},
	})

	if info.GoVersion != "go1.26.0" {
		t.Errorf("expected go1.26.0, got %q", info.GoVersion)
	}
	if info.GitCommit != "0123456" {
		t.Errorf("expected 0123456, got %q", info.GitCommit)
	}
	if !info.IsDirty {
		t.Error("expected dirty")
	}
	if info.BuildDate.Month() != time.March {
		t.Errorf("expected March build date, got %v", info.BuildDate)
	}
}

func TestApplyBuildInfoKeepsLinkTimeValues(t *testing.T) {
	built := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	info := &Info{GitCommit: "fixed00", BuildDate: built}
	info.applyBuildInfo(&debug.BuildInfo{Settings: []debug.BuildSetting{
		{Key: "vcs.revision", Value: "ffffffffff"},
		{Key: "vcs.time", Value: "2026-03-01T08:00:00Z"},
	}})

	if info.GitCommit != "fixed00" || !info.BuildDate.Equal(built) {
		t.Errorf("link-time values were overwritten: %+v", info)
	}
}

func TestShort(t *testing.T) {
	tests := []struct {
		info Info
		want string
	}{
		{Info{Version: "dev"}, "dev"},
		{Info{Version: "1.2.0", GitCommit: "abc1234"}, "1.2.0-abc1234"},
		{Info{Version: "1.2.0", GitCommit: "abc1234", IsDirty: true}, "1.2.0-abc1234-dirty"},
	}
	for _, tc := range tests {
		if got := tc.info.Short(); got != tc.want {
			t.Errorf("Short() = %q, want %q", got, tc.want)
		}
	}
}

func TestString(t *testing.T) {
	info := Info{
		Version:   "1.2.0",
		GitCommit: "abc1234",
		GitBranch: "feature/hooks",
		GoVersion: "go1.26.0",
		BuildDate: time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC),
	}
	s := info.String()
	for _, want := range []string{"1.2.0-abc1234", "feature/hooks", "built 2026-01-15T10:30:00Z", "go1.26.0"} {
		if !strings.Contains(s, want) {
			t.Errorf("expected %q in %q", want, s)
		}
	}

	info.GitBranch = "main"
	if strings.Contains(info.String(), "main") {
		t.Errorf("main branch should not appear, got %q", info.String())
	}
}

func TestLogFields(t *testing.T) {
	fields := (&Info{Version: "1.2.0", GitCommit: "abc1234", GoVersion: "go1.26.0"}).LogFields()
	if fields["version"] != "1.2.0" || fields["git_commit"] != "abc1234" || fields["go_version"] != "go1.26.0" {
		t.Errorf("unexpected fields %v", fields)
	}
}
