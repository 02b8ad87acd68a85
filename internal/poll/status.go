package poll

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#3b82f6")).Bold(true)

// StatusLine prints elapsed/timeout progress. On a terminal the line is
// rewritten in place; otherwise every update is its own line.
type StatusLine struct {
	w     io.Writer
	tty   bool
	dirty bool
}

// NewStatusLine wraps w. A nil writer produces no output.
func NewStatusLine(w io.Writer) *StatusLine {
	return newStatusLine(w, isTerminal(w))
}

func newStatusLine(w io.Writer, tty bool) *StatusLine {
	if w == nil {
		w = io.Discard
	}
	return &StatusLine{w: w, tty: tty}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Update writes the current progress.
func (s *StatusLine) Update(label string, elapsed, timeout time.Duration) {
	text := FormatProgress(elapsed, timeout)
	if s.tty {
		_, _ = fmt.Fprintf(s.w, "\r%s %s", labelStyle.Render(label), text)
		s.dirty = true
		return
	}
	_, _ = fmt.Fprintf(s.w, "%s %s\n", label, text)
}

// Finish terminates an in-place line so following output starts clean.
func (s *StatusLine) Finish() {
	if s.tty && s.dirty {
		_, _ = fmt.Fprintln(s.w)
		s.dirty = false
	}
}

// FormatProgress renders "Time spent / timeout (  30s / 3600s)".
func FormatProgress(elapsed, timeout time.Duration) string {
	return fmt.Sprintf("Time spent / timeout (%4ds / %4ds)",
		int(elapsed/time.Second), int(timeout/time.Second))
}
