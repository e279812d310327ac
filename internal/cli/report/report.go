// Package report renders command output with semantic terminal
// styles. Colors switch off automatically when stdout is not a tty.
package report

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Semantic styles used by command output
var (
	Success = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "28", Dark: "78"})
	Failure = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "124", Dark: "203"})
	Header = lipgloss.NewStyle().Bold(true).Underline(true)
	Name = lipgloss.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "26", Dark: "75"})
	Dim = lipgloss.NewStyle().Faint(true)
)

// Writer renders styled lines to an output stream
type Writer struct {
	out     io.Writer
	colored bool
}

// NewWriter creates a writer for out. Styling applies only when out
// is os.Stdout or os.Stderr on a terminal.
func NewWriter(out io.Writer) *Writer {
	colored := false
	if f, ok := out.(*os.File); ok {
		colored = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Writer{out: out, colored: colored}
}

// Printf writes a plain formatted line
func (w *Writer) Printf(format string, args ...interface{}) {
	fmt.Fprintf(w.out, format, args...)
}

// Styled renders text with the style when the stream is a terminal
func (w *Writer) Styled(style lipgloss.Style, text string) string {
	if !w.colored {
		return text
	}
	return style.Render(text)
}

// Successf writes a success-styled line
func (w *Writer) Successf(format string, args ...interface{}) {
	fmt.Fprintln(w.out, w.Styled(Success, fmt.Sprintf(format, args...)))
}

// Failuref writes a failure-styled line
func (w *Writer) Failuref(format string, args ...interface{}) {
	fmt.Fprintln(w.out, w.Styled(Failure, fmt.Sprintf(format, args...)))
}

// Headerf writes a header-styled line
func (w *Writer) Headerf(format string, args ...interface{}) {
	fmt.Fprintln(w.out, w.Styled(Header, fmt.Sprintf(format, args...)))
}
