package tui

import (
	"bytes"
	"os"
	"testing"
)

func envFrom(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestDetectMode_Overrides(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"PEP263_NON_INTERACTIVE", map[string]string{EnvNonInteractive: "1"}},
		{"CI", map[string]string{"CI": "true"}},
		{"NO_COLOR", map[string]string{"NO_COLOR": "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectMode(envFrom(tt.env), true, true); got != ModeNonInteractive {
				t.Errorf("detectMode() = %d, want ModeNonInteractive", got)
			}
		})
	}
}

func TestDetectMode_WrongValueFallsThrough(t *testing.T) {
	// Only "1" triggers non-interactive, not "true" or "yes"
	env := envFrom(map[string]string{EnvNonInteractive: "true"})

	if got := detectMode(env, true, true); got != ModeInteractive {
		t.Errorf("detectMode() = %d, want ModeInteractive", got)
	}
}

func TestDetectMode_Terminals(t *testing.T) {
	env := envFrom(nil)

	tests := []struct {
		stdin, stderr bool
		want          Mode
	}{
		{true, true, ModeInteractive},
		{false, true, ModeNonInteractive},
		{true, false, ModeNonInteractive},
		{false, false, ModeNonInteractive},
	}
	for _, tt := range tests {
		if got := detectMode(env, tt.stdin, tt.stderr); got != tt.want {
			t.Errorf("detectMode(stdin=%v, stderr=%v) = %d, want %d", tt.stdin, tt.stderr, got, tt.want)
		}
	}
}

func TestDetectMode_NoTerminal(t *testing.T) {
	// In test context, stdin/stderr are not terminals
	t.Setenv(EnvNonInteractive, "")
	t.Setenv("CI", "")
	t.Setenv("NO_COLOR", "")

	if !IsTerminal(os.Stdin) && DetectMode() != ModeNonInteractive {
		t.Error("DetectMode() should be non-interactive without a terminal")
	}
}

func TestIsTerminal_NonFile(t *testing.T) {
	if IsTerminal(&bytes.Buffer{}) {
		t.Error("a buffer is never a terminal")
	}
}
