package handlers

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorGreen = lipgloss.Color("#22c55e")
	colorBlue  = lipgloss.Color("#3b82f6")
	colorDim   = lipgloss.Color("#6b7280")
	colorWhite = lipgloss.Color("#f9fafb")
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	keyStyle     = lipgloss.NewStyle().Foreground(colorBlue)
	dimStyle     = lipgloss.NewStyle().Foreground(colorDim)
	successStyle = lipgloss.NewStyle().Foreground(colorGreen)
)

// Handler output streams. Tests replace them.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

func printSuccess(format string, args ...any) {
	fmt.Fprintln(stdout, successStyle.Render("✓ "+fmt.Sprintf(format, args...)))
}

func printField(name, value string) {
	fmt.Fprintf(stdout, "  %s %s\n", keyStyle.Render(name+":"), value)
}
