// Package termstyle paints highlighted lines for a terminal.
package termstyle

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"zone/internal/highlight"
)

// ColorEnabled resolves a --color mode ("auto", "always", "never") for w.
// Auto means w is a terminal and NO_COLOR is unset.
func ColorEnabled(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

type Painter struct {
	styles map[string]lipgloss.Style
	color  bool
}

func New(w io.Writer, color bool) *Painter {
	r := lipgloss.NewRenderer(w)
	if color {
		r.SetColorProfile(termenv.ANSI256)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	s := r.NewStyle
	return &Painter{
		color: color,
		styles: map[string]lipgloss.Style{
			"h1":                       s().Bold(true).Foreground(lipgloss.Color("13")),
			"h2":                       s().Bold(true).Foreground(lipgloss.Color("12")),
			"h3":                       s().Bold(true).Foreground(lipgloss.Color("14")),
			"h4":                       s().Bold(true),
			"h5":                       s().Bold(true),
			"h6":                       s().Bold(true),
			highlight.TypeBlockQuote:   s().Italic(true).Foreground(lipgloss.Color("7")),
			highlight.TypeMarker:       s().Foreground(lipgloss.Color("8")),
			highlight.TypeTodo:         s().Foreground(lipgloss.Color("11")),
			highlight.TypeTodoProgress: s().Foreground(lipgloss.Color("14")),
			highlight.TypeTodoDone:     s().Foreground(lipgloss.Color("8")).Strikethrough(true),
			highlight.TypeBold:         s().Bold(true),
			highlight.TypeItalic:       s().Italic(true),
			highlight.TypeCode:         s().Foreground(lipgloss.Color("10")),
			highlight.TypeRef:          s().Foreground(lipgloss.Color("5")),
			highlight.TypeLinkText:     s().Foreground(lipgloss.Color("12")).Underline(true),
			highlight.TypeLinkURL:      s().Foreground(lipgloss.Color("8")),
		},
	}
}

// Paint renders every line and joins them with newlines. Each leaf takes
// its own style and inherits whatever its ancestors set.
func (p *Painter) Paint(lines []highlight.Span) string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		var b strings.Builder
		line.Walk(func(span highlight.Span, parents []string) {
			if len(span.Children) > 0 {
				return
			}
			if span.Class == highlight.TypeEmpty {
				return
			}
			b.WriteString(p.leaf(span, parents))
		})
		out = append(out, b.String())
	}
	return strings.Join(out, "\n")
}

func (p *Painter) leaf(span highlight.Span, parents []string) string {
	if !p.color || span.Text == "" {
		return span.Text
	}
	style, styled := p.styles[span.Class]
	for i := len(parents) - 1; i >= 0; i-- {
		parent, ok := p.styles[parents[i]]
		if !ok {
			continue
		}
		if !styled {
			style, styled = parent, true
			continue
		}
		style = style.Inherit(parent)
	}
	if !styled {
		return span.Text
	}
	return style.Render(span.Text)
}
