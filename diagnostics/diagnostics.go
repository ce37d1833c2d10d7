// Package diagnostics renders the error values produced by the scanner,
// parser, resolver and interpreter (spec component J) into messages a
// terminal or a log file can show. It never changes what a report says,
// only how it's decorated — a colorized run and a piped, NO_COLOR run
// report byte-identical information.
package diagnostics

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/chroma"
	"github.com/alecthomas/chroma/formatters"
	"github.com/alecthomas/chroma/lexers"
	"github.com/alecthomas/chroma/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Kind distinguishes which pipeline stage raised a Report, per spec §3.1.
type Kind string

const (
	Scan    Kind = "scan"
	Parse   Kind = "parse"
	Resolve Kind = "resolve"
	Runtime Kind = "runtime"
)

// Report is the uniform shape every error-producing component's errors
// are converted to before rendering.
type Report struct {
	Kind    Kind
	Line    int
	Lexeme  string // empty if the error has no specific offending token
	Message string
}

func (r Report) String() string {
	at := "at end"
	if r.Lexeme != "" {
		at = fmt.Sprintf("at '%s'", r.Lexeme)
	}
	return fmt.Sprintf("[line %d] %s error %s: %s", r.Line, r.Kind, at, r.Message)
}

var loxLexer = chroma.MustNewLexer(
	&chroma.Config{
		Name:      "Lox",
		Aliases:   []string{"lox"},
		Filenames: []string{"*.lox"},
		MimeTypes: []string{"text/x-lox"},
	},
	chroma.Rules{
		"root": {
			{Pattern: `//.*`, Type: chroma.CommentSingle},
			{Pattern: `/\*`, Type: chroma.CommentMultiline, Mutator: chroma.Push("comment")},
			{Pattern: `"[^"]*"`, Type: chroma.LiteralString},
			{Pattern: `\d+(\.\d+)?`, Type: chroma.LiteralNumber},
			{Pattern: `\b(and|class|else|false|fun|for|if|nil|or|print|return|super|this|true|var|while|break)\b`, Type: chroma.Keyword},
			{Pattern: `[A-Za-z_][A-Za-z0-9_]*`, Type: chroma.Name},
			{Pattern: `[(){},.;+\-*/=!<>]+`, Type: chroma.Punctuation},
			{Pattern: `\s+`, Type: chroma.Whitespace},
			{Pattern: `.`, Type: chroma.Error},
		},
		"comment": {
			{Pattern: `[^*/]+`, Type: chroma.CommentMultiline},
			{Pattern: `\*/`, Type: chroma.CommentMultiline, Mutator: chroma.Pop(1)},
			{Pattern: `[*/]`, Type: chroma.CommentMultiline},
		},
	},
)

func init() {
	lexers.Register(loxLexer)
}

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	caretStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
)

// Printer renders Reports to a stream, optionally in color and with the
// offending source line highlighted underneath.
type Printer struct {
	out    io.Writer
	color  bool
	source string // full program source, for source-line context; may be empty
}

// New builds a Printer. color is resolved by the caller (driver) from
// -no-color, NO_COLOR, and whether out is a terminal — see UseColor.
func New(out io.Writer, color bool, source string) *Printer {
	return &Printer{out: out, color: color, source: source}
}

// UseColor applies the spec §4.J precedence: an explicit -no-color flag
// or NO_COLOR wins outright; otherwise color follows whether out looks
// like a terminal.
func UseColor(noColorFlag bool, out *os.File) bool {
	if noColorFlag {
		return false
	}
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return false
	}
	return isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd())
}

// Print renders one report, followed by the offending source line and a
// caret underneath it when source context is available.
func (p *Printer) Print(r Report) {
	heading := r.String()
	if p.color {
		heading = headingStyle.Render(heading)
	}
	fmt.Fprintln(p.out, heading)

	line := sourceLine(p.source, r.Line)
	if line == "" {
		return
	}

	if p.color {
		fmt.Fprintln(p.out, p.highlight(line))
	} else {
		fmt.Fprintln(p.out, line)
	}

	col := strings.Index(line, r.Lexeme)
	if r.Lexeme == "" || col < 0 {
		return
	}
	caret := strings.Repeat(" ", col) + "^"
	if p.color {
		caret = caretStyle.Render(caret)
	}
	fmt.Fprintln(p.out, caret)
}

// highlight renders one source line through the registered Lox lexer and
// a 256-color terminal formatter, falling back to the plain line if
// either step fails — decoration is best-effort, content is not.
func (p *Printer) highlight(line string) string {
	iter, err := loxLexer.Tokenise(nil, line)
	if err != nil {
		return line
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		return line
	}
	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, style, iter); err != nil {
		return line
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

func sourceLine(source string, line int) string {
	if source == "" || line <= 0 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return ""
	}
	return lines[line-1]
}
