// Package rules groups classified cosmetic filters by domain.
package rules

import (
	"iter"
	"slices"
	"sort"

	"github.com/maruel/natural"

	"u2s/filter"
	"u2s/utils/debug"
)

// Global is the reserved key for rules applied everywhere. Domains are never
// empty after classification so it could not collide with real domain.
const Global = ""

// Rule is single CSS rule produced from cosmetic filter.
type Rule struct {
	Selector    string
	Declaration string
	Styled      bool
}

// Group maps domain keys to ordered rules. Keys keep order in which domains
// were first seen, global key is always reported last.
type Group struct {
	keys  []string
	rules map[string][]Rule
}

func New() *Group {
	return &Group{rules: make(map[string][]Rule)}
}

// Build folds classification results into a new group, non cosmetic results
// are ignored.
func Build(results iter.Seq[filter.Result]) *Group {
	g := New()
	for res := range results {
		g.Add(res)
	}
	return g
}

// Add appends rule from res to every domain it lists (or to the global key).
// Multi-domain filters duplicate their rule into each domain independently.
func (g *Group) Add(res filter.Result) {
	if !res.Kind.Cosmetic() {
		return
	}
	r := Rule{Selector: res.Selector, Declaration: res.Declaration, Styled: res.Styled}
	if res.Kind == filter.KindGlobal {
		g.append(Global, r)
		return
	}
	for _, d := range res.Domains {
		g.append(d, r)
	}
}

func (g *Group) append(key string, r Rule) {
	if _, ok := g.rules[key]; !ok && key != Global {
		g.keys = append(g.keys, key)
	}
	g.rules[key] = append(g.rules[key], r)
}

// Len returns number of keys including global one.
func (g *Group) Len() int {
	return len(g.rules)
}

// Empty reports if group has no rules at all.
func (g *Group) Empty() bool {
	return len(g.rules) == 0
}

// HasGlobal reports if there are rules for every site.
func (g *Group) HasGlobal() bool {
	_, ok := g.rules[Global]
	return ok
}

// Domains returns domain keys in their current order, global key excluded.
func (g *Group) Domains() []string {
	return slices.Clone(g.keys)
}

// Keys returns all keys in order, global key (if present) is the last one.
func (g *Group) Keys() []string {
	keys := slices.Clone(g.keys)
	if g.HasGlobal() {
		keys = append(keys, Global)
	}
	return keys
}

// Rules returns rules for the key in input order.
func (g *Group) Rules(key string) []Rule {
	return g.rules[key]
}

// All iterates over keys in order together with their rules.
func (g *Group) All() iter.Seq2[string, []Rule] {
	return func(yield func(string, []Rule) bool) {
		for _, k := range g.Keys() {
			if !yield(k, g.rules[k]) {
				return
			}
		}
	}
}

// Dedupe removes repeated identical rules within every key keeping the first
// occurrence, so order of the remaining rules does not change.
func (g *Group) Dedupe() {
	for k, rules := range g.rules {
		seen := make(map[Rule]struct{}, len(rules))
		out := rules[:0]
		for _, r := range rules {
			if _, ok := seen[r]; ok {
				continue
			}
			seen[r] = struct{}{}
			out = append(out, r)
		}
		g.rules[k] = out
	}
}

// SortDomains orders domain keys naturally ("a2.com" before "a10.com"). Rules
// inside domains keep input order.
func (g *Group) SortDomains() {
	sort.Sort(natural.StringSlice(g.keys))
}

// RuleCount returns total number of rules across all keys.
func (g *Group) RuleCount() int {
	n := 0
	for _, rules := range g.rules {
		n += len(rules)
	}
	return n
}

// String returns a readable tree of the group for debugging.
func (g *Group) String() string {
	tw := debug.NewTreeWriter()
	tw.Line(0, "Group: %d keys, %d rules", g.Len(), g.RuleCount())
	for k, rules := range g.All() {
		if k == Global {
			tw.Line(1, "Global (%d)", len(rules))
		} else {
			tw.Line(1, "Domain[%q] (%d)", k, len(rules))
		}
		styled := 0
		for _, r := range rules {
			if r.Styled {
				styled++
			}
		}
		tw.Counters(2, "rules", "hidden", len(rules)-styled, "styled", styled)
		for _, r := range rules {
			tw.TextBlock(2, "selector", r.Selector)
			tw.TextBlock(3, "declaration", r.Declaration)
		}
	}
	return tw.String()
}
