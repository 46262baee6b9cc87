package tui

import (
	"os"

	"golang.org/x/term"
)

// Mode represents the interaction mode for pep263.
type Mode int

const (
	// ModeNonInteractive is used for CI/CD pipelines, scripts, and piped input.
	ModeNonInteractive Mode = iota
	// ModeInteractive is used when a human is at the terminal.
	ModeInteractive
)

// EnvNonInteractive forces non-interactive mode when set to "1".
const EnvNonInteractive = "PEP263_NON_INTERACTIVE"

// DetectMode determines whether pep263 should run in interactive or non-interactive mode.
//
// Returns ModeNonInteractive if:
//   - PEP263_NON_INTERACTIVE=1 is set
//   - CI is set (common CI/CD convention)
//   - NO_COLOR is set (accessibility/automation indicator)
//   - stdin is not a terminal (piped input, CI/CD)
//   - stderr is not a terminal (prompts and the spinner are drawn there)
//
// Returns ModeInteractive otherwise. Stdout is not consulted, so redirecting
// the per-file report to a file keeps prompts working.
func DetectMode() Mode {
	return detectMode(os.Getenv, IsTerminal(os.Stdin), IsTerminal(os.Stderr))
}

func detectMode(getenv func(string) string, stdinTTY, stderrTTY bool) Mode {
	if getenv(EnvNonInteractive) == "1" {
		return ModeNonInteractive
	}
	if getenv("CI") != "" {
		return ModeNonInteractive
	}
	if getenv("NO_COLOR") != "" {
		return ModeNonInteractive
	}
	if !stdinTTY || !stderrTTY {
		return ModeNonInteractive
	}
	return ModeInteractive
}

// IsInteractive is a convenience function that returns true if running in interactive mode.
func IsInteractive() bool {
	return DetectMode() == ModeInteractive
}

// IsTerminal reports whether v is an *os.File attached to a terminal.
func IsTerminal(v interface{}) bool {
	f, ok := v.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
