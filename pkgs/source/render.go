package source

import (
	"fmt"
	"strings"
)

// RenderSpan renders a Clang/Rust-style caret snippet pointing at span
// within input. It is the minimal, real implementation of the terminal
// error-formatter the core passes treat as an external collaborator: every
// pass's error type calls this to produce the "here" half of its message.
func RenderSpan(input string, span Span) string {
	lines := strings.Split(input, "\n")
	if span.Start.Line < 1 || span.Start.Line > len(lines) {
		return ""
	}
	line := lines[span.Start.Line-1]

	var b strings.Builder
	fmt.Fprintf(&b, "  --> %s\n", span.Start.String())
	b.WriteString("   |\n")
	fmt.Fprintf(&b, "%3d | %s\n", span.Start.Line, line)
	b.WriteString("    | ")
	if span.Start.Column >= 0 && span.Start.Column <= len(line) {
		b.WriteString(strings.Repeat(" ", span.Start.Column))
		width := 1
		if span.End.Line == span.Start.Line && span.End.Column > span.Start.Column {
			width = span.End.Column - span.Start.Column
		}
		b.WriteString(strings.Repeat("^", width))
	}
	return b.String()
}

// RenderMessage renders a single "here" diagnostic: a headline plus the
// underlined source snippet.
func RenderMessage(input, headline string, span Span) string {
	return fmt.Sprintf("%s\n%s", headline, RenderSpan(input, span))
}

// RenderRelated renders a two-part "here ... defined there ..." diagnostic,
// the shape used for duplicate-symbol and access-control failures where a
// second location needs pointing at alongside the primary one.
func RenderRelated(input, hereMsg string, here Span, thereMsg string, there Span) string {
	return fmt.Sprintf("%s\n%s\n\n%s\n%s",
		hereMsg, RenderSpan(input, here),
		thereMsg, RenderSpan(input, there))
}
