package rules

import (
	"u2s/css"
)

// CSS converts rules into CSS rules preserving order. When merge is set
// selectors sharing the same declaration block are folded into a single rule
// placed where the block was first seen.
func CSS(rs []Rule, merge bool) []css.Rule {
	out := make([]css.Rule, 0, len(rs))
	for _, r := range rs {
		out = append(out, css.Rule{Selectors: []string{r.Selector}, Block: r.Declaration})
	}
	if merge {
		return css.MergeByBlock(out)
	}
	return out
}
