// Package output renders the run summary and fatal errors on stderr.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	serrors "github.com/Aman-CERP/pfind/internal/errors"
	"github.com/Aman-CERP/pfind/internal/finder"
)

// ColorMode selects when output is styled.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // terminal without NO_COLOR
	ColorAlways ColorMode = "always" // always styled
	ColorNever  ColorMode = "never"  // plain text
)

// Writer prints human-facing diagnostics.
type Writer struct {
	out    io.Writer
	styles Styles
	color  bool
}

// New creates a Writer on out. Styling follows mode.
func New(out io.Writer, mode ColorMode) *Writer {
	color := false
	switch ColorMode(strings.ToLower(string(mode))) {
	case ColorAlways:
		color = true
	case ColorNever:
	default:
		color = IsTTY(out) && !DetectNoColor()
	}

	r := lipgloss.NewRenderer(out)
	if color {
		r.SetColorProfile(termenv.ANSI256)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}

	return &Writer{out: out, styles: newStyles(r), color: color}
}

// Color reports whether the Writer styles its output.
func (w *Writer) Color() bool {
	return w.color
}

// Summary prints the completion line and the run counters.
// Errors from writing are intentionally ignored for console output.
func (w *Writer) Summary(stats *finder.Stats) {
	if stats == nil {
		return
	}

	headline := fmt.Sprintf("Search completed in %d ms using %d threads",
		stats.Duration.Milliseconds(), stats.Workers)
	_, _ = fmt.Fprintln(w.out, w.render(w.styles.Header, headline))

	counts := fmt.Sprintf("%s %s, %s %s scanned",
		humanize.Comma(stats.Matches), plural(stats.Matches, "match", "matches"),
		humanize.Comma(stats.Directories), plural(stats.Directories, "directory", "directories"))
	if stats.Ignored > 0 {
		counts += fmt.Sprintf(", %s ignored", humanize.Comma(stats.Ignored))
	}
	_, _ = fmt.Fprintln(w.out, w.render(w.styles.Label, counts))

	if stats.AccessErrors > 0 {
		warn := fmt.Sprintf("%s %s could not be read",
			humanize.Comma(stats.AccessErrors), plural(stats.AccessErrors, "directory", "directories"))
		_, _ = fmt.Fprintln(w.out, w.render(w.styles.Warning, warn))
	}
}

// Error prints err in the CLI error format. Errors without a code, such as
// flag parsing failures, get a single line.
func (w *Writer) Error(err error) {
	if err == nil {
		return
	}
	if serrors.GetCode(err) == "" {
		_, _ = fmt.Fprintln(w.out, w.render(w.styles.Error, "Error: "+err.Error()))
		return
	}
	msg := strings.TrimRight(serrors.FormatForCLI(err), "\n")
	first, rest, _ := strings.Cut(msg, "\n")
	_, _ = fmt.Fprintln(w.out, w.render(w.styles.Error, first))
	if rest != "" {
		_, _ = fmt.Fprintln(w.out, rest)
	}
}

// Warning prints a single warning line.
func (w *Writer) Warning(msg string) {
	_, _ = fmt.Fprintln(w.out, w.render(w.styles.Warning, msg))
}

func (w *Writer) render(style lipgloss.Style, s string) string {
	if !w.color {
		return s
	}
	return style.Render(s)
}

func plural(n int64, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// IsTTY checks if output is a terminal.
func IsTTY(w io.Writer) bool {
	if w == nil {
		return false
	}
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

// DetectNoColor checks if the NO_COLOR environment variable is set.
func DetectNoColor() bool {
	_, exists := os.LookupEnv("NO_COLOR")
	return exists
}
