// Package output formats CLI output. Colors are applied only when
// writing to a terminal.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Styles holds the lipgloss styles used for CLI output.
type Styles struct {
	Heading lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Dim     lipgloss.Style
	Score   lipgloss.Style
	Path    lipgloss.Style
}

func defaultStyles() Styles {
	return Styles{
		Heading: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("75")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("78")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		Dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
		Score:   lipgloss.NewStyle().Foreground(lipgloss.Color("178")),
		Path:    lipgloss.NewStyle().Foreground(lipgloss.Color("110")),
	}
}

// Writer renders CLI output with optional color.
type Writer struct {
	out      io.Writer
	styles   Styles
	useColor bool
}

// New creates a Writer, enabling color when out is a terminal.
func New(out io.Writer) *Writer {
	return &Writer{
		out:      out,
		styles:   defaultStyles(),
		useColor: isTerminal(out),
	}
}

// NewPlain creates a Writer with color disabled, used for tests and
// piped output.
func NewPlain(out io.Writer) *Writer {
	return &Writer{out: out, styles: defaultStyles()}
}

func isTerminal(out io.Writer) bool {
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (w *Writer) render(s lipgloss.Style, text string) string {
	if !w.useColor {
		return text
	}
	return s.Render(text)
}

// Printf writes formatted output with no styling.
func (w *Writer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(w.out, format, args...)
}

// Println writes a plain line.
func (w *Writer) Println(msg string) {
	_, _ = fmt.Fprintln(w.out, msg)
}

// Heading writes a bold section heading.
func (w *Writer) Heading(msg string) {
	_, _ = fmt.Fprintln(w.out, w.render(w.styles.Heading, msg))
}

// Success writes a success line.
func (w *Writer) Success(msg string) {
	_, _ = fmt.Fprintln(w.out, w.render(w.styles.Success, "✓ "+msg))
}

// Successf writes a formatted success line.
func (w *Writer) Successf(format string, args ...any) {
	w.Success(fmt.Sprintf(format, args...))
}

// Warning writes a warning line.
func (w *Writer) Warning(msg string) {
	_, _ = fmt.Fprintln(w.out, w.render(w.styles.Warning, "! "+msg))
}

// Warningf writes a formatted warning line.
func (w *Writer) Warningf(format string, args ...any) {
	w.Warning(fmt.Sprintf(format, args...))
}

// Error writes an error line.
func (w *Writer) Error(msg string) {
	_, _ = fmt.Fprintln(w.out, w.render(w.styles.Error, "✗ "+msg))
}

// Errorf writes a formatted error line.
func (w *Writer) Errorf(format string, args ...any) {
	w.Error(fmt.Sprintf(format, args...))
}

// Dim writes a de-emphasized line.
func (w *Writer) Dim(msg string) {
	_, _ = fmt.Fprintln(w.out, w.render(w.styles.Dim, msg))
}

// Result writes one search result: heading and path on the first
// line, score dimmed, then the excerpt indented.
func (w *Writer) Result(rank int, heading, path string, score float64, excerpt string) {
	title := heading
	if title == "" {
		title = "(preamble)"
	}
	_, _ = fmt.Fprintf(w.out, "%2d. %s  %s %s\n",
		rank,
		w.render(w.styles.Heading, title),
		w.render(w.styles.Path, path),
		w.render(w.styles.Score, fmt.Sprintf("(%.2f)", score)))
	if excerpt != "" {
		for _, line := range splitLines(excerpt) {
			_, _ = fmt.Fprintf(w.out, "    %s\n", w.render(w.styles.Dim, line))
		}
	}
}

// Newline writes an empty line.
func (w *Writer) Newline() {
	_, _ = fmt.Fprintln(w.out)
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}
