package osutil

import (
	"strings"
	"testing"
)

func TestEnv(t *testing.T) {
	t.Setenv("OSUTIL_TEST_SET", "value")

	if got := Env("OSUTIL_TEST_SET"); got != "value" {
		t.Errorf("Expected 'value', got %q", got)
	}
	if got := Env("OSUTIL_TEST_SET", "fallback"); got != "value" {
		t.Errorf("Expected set variable to win over the default, got %q", got)
	}
	if got := Env("OSUTIL_TEST_UNSET", "fallback"); got != "fallback" {
		t.Errorf("Expected the default, got %q", got)
	}
	if got := Env("OSUTIL_TEST_UNSET"); got != "" {
		t.Errorf("Expected empty string without a default, got %q", got)
	}
}

func TestExpandHome(t *testing.T) {
	home := HomeDir()
	if home == "" {
		t.Skip("no home directory available")
	}

	if got := ExpandHome("~/projects"); got != home+"/projects" {
		t.Errorf("Expected tilde expansion, got %q", got)
	}
	if got := ExpandHome("$HOME/projects"); got != home+"/projects" {
		t.Errorf("Expected $HOME expansion, got %q", got)
	}
	if got := ExpandHome("/absolute/path"); got != "/absolute/path" {
		t.Errorf("Expected plain paths untouched, got %q", got)
	}
	if !strings.HasPrefix(ExpandHome("~"), "/") {
		t.Errorf("Expected bare tilde to expand, got %q", ExpandHome("~"))
	}
}
