// Package css renders CSS rules for userstyles. Declaration blocks come
// verbatim from filter lists, they are only split into declarations so they
// could be consistently terminated.
package css

import (
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// Declarations splits declaration block on top level semicolons. Semicolons
// inside strings, url() or other functions do not split. Declarations are
// trimmed, empty ones dropped; no other validation is done.
func Declarations(block string) []string {
	var (
		out   []string
		cur   strings.Builder
		depth int
	)
	flush := func() {
		if d := strings.TrimSpace(cur.String()); len(d) > 0 {
			out = append(out, d)
		}
		cur.Reset()
	}

	l := css.NewLexer(parse.NewInputString(block))
	for {
		tt, data := l.Next()
		switch tt {
		case css.ErrorToken:
			if l.Err() != io.EOF {
				// lexer gave up, keep what is left as is
				return []string{strings.TrimSpace(block)}
			}
			flush()
			return out
		case css.SemicolonToken:
			if depth == 0 {
				flush()
				continue
			}
		case css.FunctionToken, css.LeftParenthesisToken, css.LeftBracketToken, css.LeftBraceToken:
			depth++
		case css.RightParenthesisToken, css.RightBracketToken, css.RightBraceToken:
			if depth > 0 {
				depth--
			}
		}
		cur.Write(data)
	}
}

// NormalizeBlock joins declarations with "; " and always terminates the last
// one. Returns empty string for blocks without declarations.
func NormalizeBlock(block string) string {
	decls := Declarations(block)
	if len(decls) == 0 {
		return ""
	}
	return strings.Join(decls, "; ") + ";"
}
