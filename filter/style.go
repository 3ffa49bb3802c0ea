package filter

import (
	"errors"
	"strings"
)

var (
	errStyleUnbalanced = errors.New("unbalanced parentheses in :style()")
	errStyleTrailing   = errors.New("unexpected text after :style()")
	errStyleSelector   = errors.New("empty selector before :style()")
	errStyleEmpty      = errors.New("empty :style() declaration")
)

// splitStyle separates "selector:style(declarations)" into its parts. CSS
// functions (url(), calc(), rgb()) may have their own parentheses so the
// closing one is found by tracking nesting depth. The wrapper must end the
// text.
func splitStyle(s string) (selector, declaration string, err error) {
	start := strings.Index(s, styleOpen)
	if start < 0 {
		return s, "", nil
	}
	selector = strings.TrimSpace(s[:start])
	body := s[start+len(styleOpen):]

	depth, end := 1, -1
	for i := 0; i < len(body) && end < 0; i++ {
		switch body[i] {
		case '(':
			depth++
		case ')':
			if depth--; depth == 0 {
				end = i
			}
		}
	}

	switch {
	case end < 0:
		return "", "", errStyleUnbalanced
	case end != len(body)-1:
		return "", "", errStyleTrailing
	case len(selector) == 0:
		return "", "", errStyleSelector
	}

	declaration = strings.TrimSpace(body[:end])
	if len(declaration) == 0 {
		return "", "", errStyleEmpty
	}
	return selector, declaration, nil
}
