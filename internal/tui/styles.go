package tui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/vvka-141/pep263/pkg/pep263"
)

// Color palette - keeping it minimal and accessible.
var (
	ColorPrimary = lipgloss.Color("39")  // Blue
	ColorSuccess = lipgloss.Color("34")  // Green
	ColorWarning = lipgloss.Color("214") // Orange
	ColorError   = lipgloss.Color("196") // Red
	ColorMuted   = lipgloss.Color("240") // Dark gray
)

// Symbols for visual feedback.
const (
	SymbolCheck = "✓"
	SymbolCross = "✗"
)

// ColorMode is the value of the --color flag.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParseColorMode validates a --color value.
func ParseColorMode(s string) (ColorMode, error) {
	switch m := ColorMode(s); m {
	case ColorAuto, ColorAlways, ColorNever:
		return m, nil
	}
	return "", fmt.Errorf("invalid argument %q for --color: want auto, always or never", s)
}

// Enabled decides whether output written to out should be coloured.
// In auto mode colour requires a terminal and an unset NO_COLOR.
func (m ColorMode) Enabled(out io.Writer) bool {
	switch m {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return IsTerminal(out)
}

// Styles renders report output for one writer.
type Styles struct {
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Spinner lipgloss.Style
}

// NewStyles builds styles bound to out. With color false every style renders
// plain text.
func NewStyles(out io.Writer, color bool) Styles {
	r := lipgloss.NewRenderer(out)
	if color {
		r.SetColorProfile(termenv.ANSI256)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}

	return Styles{
		Success: r.NewStyle().Foreground(ColorSuccess),
		Warning: r.NewStyle().Foreground(ColorWarning),
		Error:   r.NewStyle().Foreground(ColorError).Bold(true),
		Muted:   r.NewStyle().Foreground(ColorMuted),
		Spinner: r.NewStyle().Foreground(ColorPrimary),
	}
}

// ForCategory returns the style for a report category: green for a valid
// declaration, orange for a missing one and red for everything else.
func (s Styles) ForCategory(c pep263.Category) lipgloss.Style {
	switch c {
	case pep263.CategoryOK:
		return s.Success
	case pep263.CategoryDeclarationNotFound:
		return s.Warning
	default:
		return s.Error
	}
}

// FormatReport renders "path: status" with the status coloured by category.
func (s Styles) FormatReport(r pep263.FileReport) string {
	return r.Path + ": " + s.ForCategory(r.Category).Render(r.Status())
}
