// Package printer renders warnings for terminals: a severity-colored
// header line plus the offending source line with an underline.
package printer

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"polygraph/internal/model"
	"polygraph/internal/urlutil"
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	codeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	caretStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// SourceLookup returns the text of a file by resolved URL, so the
// printer can underline ranges. Warnings whose file is unknown render
// without a snippet.
type SourceLookup func(url urlutil.ResolvedURL) (string, bool)

type Printer struct {
	out    io.Writer
	lookup SourceLookup
	// Color disables styling when false (piped output).
	Color bool
}

func New(out io.Writer, lookup SourceLookup) *Printer {
	return &Printer{out: out, lookup: lookup, Color: true}
}

func (p *Printer) PrintAll(warnings []model.Warning) {
	for _, w := range warnings {
		p.Print(w)
	}
}

func (p *Printer) Print(w model.Warning) {
	header := fmt.Sprintf("%s:%d:%d  %s  [%s]  %s",
		w.Range.File, w.Range.Start.Line+1, w.Range.Start.Column+1,
		w.Severity, w.Code, w.Message)
	if p.Color {
		header = fmt.Sprintf("%s:%d:%d  %s  %s  %s",
			w.Range.File, w.Range.Start.Line+1, w.Range.Start.Column+1,
			p.severityStyle(w.Severity).Render(w.Severity.String()),
			codeStyle.Render("["+w.Code+"]"),
			w.Message)
	}
	fmt.Fprintln(p.out, header)

	if snippet := p.snippet(w); snippet != "" {
		fmt.Fprintln(p.out, snippet)
	}
}

func (p *Printer) severityStyle(s model.Severity) lipgloss.Style {
	switch s {
	case model.SeverityError:
		return errorStyle
	case model.SeverityWarning:
		return warningStyle
	default:
		return infoStyle
	}
}

// snippet renders the first line of the range with tildes underneath.
func (p *Printer) snippet(w model.Warning) string {
	if p.lookup == nil {
		return ""
	}
	text, ok := p.lookup(w.Range.File)
	if !ok {
		return ""
	}

	lines := strings.Split(text, "\n")
	if w.Range.Start.Line >= len(lines) {
		return ""
	}
	line := strings.TrimRight(lines[w.Range.Start.Line], "\r")

	start := w.Range.Start.Column
	if start > len(line) {
		start = len(line)
	}
	end := len(line)
	if w.Range.End.Line == w.Range.Start.Line && w.Range.End.Column < end {
		end = w.Range.End.Column
	}
	if end < start {
		end = start
	}

	width := end - start
	if width == 0 {
		width = 1
	}
	underline := strings.Repeat(" ", start) + strings.Repeat("~", width)
	if p.Color {
		underline = strings.Repeat(" ", start) + caretStyle.Render(strings.Repeat("~", width))
	}
	return "    " + line + "\n    " + underline
}
