package css

import (
	"strings"
)

// Rule is a CSS rule with one or more selectors sharing declaration block.
type Rule struct {
	Selectors []string
	Block     string
}

// Format renders rule prefixed with indent. Multiple selectors are placed on
// separate lines. Block is normalized with NormalizeBlock.
func (r Rule) Format(indent string) string {
	var b strings.Builder
	b.WriteString(indent)
	b.WriteString(strings.Join(r.Selectors, ",\n"+indent))
	b.WriteString(" { ")
	b.WriteString(NormalizeBlock(r.Block))
	b.WriteString(" }")
	return b.String()
}

// String renders rule without indentation.
func (r Rule) String() string {
	return r.Format("")
}

// MergeByBlock folds rules sharing identical blocks into single rule
// keeping order of first appearance of each block.
func MergeByBlock(rules []Rule) []Rule {
	out := make([]Rule, 0, len(rules))
	index := make(map[string]int, len(rules))
	for _, r := range rules {
		key := NormalizeBlock(r.Block)
		if i, ok := index[key]; ok {
			out[i].Selectors = append(out[i].Selectors, r.Selectors...)
			continue
		}
		index[key] = len(out)
		out = append(out, Rule{Selectors: append([]string(nil), r.Selectors...), Block: r.Block})
	}
	return out
}
