package buildinfo

import (
	"strings"
	"testing"
)

func TestShortCommit(t *testing.T) {
	orig := Commit
	defer func() { Commit = orig }()

	tests := []struct {
		commit string
		want   string
	}{
		{"none", "none"},
		{"0123456789abcdef", "0123456"},
		{"abcdefg", "abcdefg"},
	}
	for _, tt := range tests {
		Commit = tt.commit
		if got := ShortCommit(); got != tt.want {
			t.Errorf("ShortCommit() with %q = %q, want %q", tt.commit, got, tt.want)
		}
	}
}

func TestGet(t *testing.T) {
	info := Get()
	if info.Version != Version {
		t.Errorf("Version = %q, want %q", info.Version, Version)
	}
	if !strings.HasPrefix(info.GoVersion, "go") && !strings.HasPrefix(info.GoVersion, "devel") {
		t.Errorf("GoVersion = %q, want go prefix", info.GoVersion)
	}
}

func TestTemplate(t *testing.T) {
	if !strings.Contains(Template(), "{{.Name}}") {
		t.Error("Template() should reference the command name")
	}
	if !strings.Contains(String(), "version: "+Version) {
		t.Errorf("String() = %q, missing version", String())
	}
}
