package main

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dhamidi/blueprint/lsp"
)

var (
	colorError   = lipgloss.Color("#EF4444")
	colorWarning = lipgloss.Color("#F59E0B")
	colorMuted   = lipgloss.Color("#6B7280")
	colorSuccess = lipgloss.Color("#10B981")
)

type styles struct {
	enabled  bool
	location lipgloss.Style
	err      lipgloss.Style
	warning  lipgloss.Style
	source   lipgloss.Style
	ok       lipgloss.Style
}

func newStyles(color bool) styles {
	return styles{
		enabled:  color,
		location: lipgloss.NewStyle().Bold(true),
		err:      lipgloss.NewStyle().Foreground(colorError).Bold(true),
		warning:  lipgloss.NewStyle().Foreground(colorWarning).Bold(true),
		source:   lipgloss.NewStyle().Foreground(colorMuted).TabWidth(lipgloss.NoTabConversion),
		ok:       lipgloss.NewStyle().Foreground(colorSuccess),
	}
}

// paint renders text with st, or returns it untouched when color is off.
func (s styles) paint(st lipgloss.Style, text string) string {
	if !s.enabled {
		return text
	}
	return st.Render(text)
}

// diagPrinter renders diagnostics in the file:line:col form compilers use,
// followed by the offending source line and a caret.
type diagPrinter struct {
	w      io.Writer
	styles styles
}

func newDiagPrinter(w io.Writer, color bool) *diagPrinter {
	return &diagPrinter{w: w, styles: newStyles(color)}
}

func (p *diagPrinter) Print(name string, content []byte, diags []lsp.Diagnostic) {
	for _, d := range diags {
		p.print(name, content, d)
	}
}

func (p *diagPrinter) print(name string, content []byte, d lsp.Diagnostic) {
	st := p.styles
	label := st.paint(st.err, "error:")
	if d.Severity == lsp.SeverityWarning {
		label = st.paint(st.warning, "warning:")
	}
	loc := fmt.Sprintf("%s:%d:%d:", name, d.Span.Start.Line, d.Span.Start.Column)
	fmt.Fprintf(p.w, "%s %s %s\n", st.paint(st.location, loc), label, d.Message)

	line, ok := sourceLine(content, d.Span.Start.Line)
	if !ok {
		return
	}
	fmt.Fprintf(p.w, "  %s\n", st.paint(st.source, line))

	width := 1
	if d.Span.End.Line == d.Span.Start.Line && d.Span.End.Column > d.Span.Start.Column {
		width = d.Span.End.Column - d.Span.Start.Column
	}
	caret := strings.Repeat("^", width)
	if d.Severity == lsp.SeverityWarning {
		caret = st.paint(st.warning, caret)
	} else {
		caret = st.paint(st.err, caret)
	}
	fmt.Fprintf(p.w, "  %s%s\n", caretIndent(line, d.Span.Start.Column), caret)
}

// sourceLine returns the 1-based line n of content with tabs kept and the
// line terminator removed.
func sourceLine(content []byte, n int) (string, bool) {
	if n < 1 {
		return "", false
	}
	lines := bytes.Split(content, []byte("\n"))
	if n > len(lines) {
		return "", false
	}
	return strings.TrimRight(string(lines[n-1]), "\r"), true
}

// caretIndent reproduces the whitespace before column col so the caret
// lines up under tab-indented sources.
func caretIndent(line string, col int) string {
	var b strings.Builder
	for i := 0; i < col-1 && i < len(line); i++ {
		if line[i] == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}
