package parser

import (
	"fmt"
	"strings"

	"github.com/aledsdavies/lox/pkgs/token"
)

// snippet renders a Rust/Clang-style source excerpt with a caret under the
// offending column, the same shape the reference parser's formatError used
// (" --> line:col", a "|" gutter, and a "^" pointer line).
func snippet(src string, tok token.Token) string {
	if src == "" || tok.Line <= 0 {
		return ""
	}
	lines := strings.Split(src, "\n")
	if tok.Line > len(lines) {
		return ""
	}
	lineContent := lines[tok.Line-1]

	var b strings.Builder
	fmt.Fprintf(&b, "  --> %d:%d\n", tok.Line, tok.Column)
	b.WriteString("   |\n")
	fmt.Fprintf(&b, "%2d | %s\n", tok.Line, lineContent)
	b.WriteString("   | ")
	if tok.Column > 0 && tok.Column <= len(lineContent)+1 {
		b.WriteString(strings.Repeat(" ", tok.Column-1) + "^")
	}
	return b.String()
}
