package filter

import (
	"iter"
)

// Stats holds counters for a single pass over filter list. Every non-empty,
// non-comment line increments exactly one of Rules, Network or Invalid.
type Stats struct {
	Rules   int // accepted cosmetic rules, domain specific and global
	Domains int // distinct domains, global rules are not counted
	Global  int
	Styles  int // rules with :style() injection
	Network int
	Invalid int
}

// Counted returns number of lines which contributed to the statistics.
func (s Stats) Counted() int {
	return s.Rules + s.Network + s.Invalid
}

// ComputeStats replays classification over all lines. It has no side effects
// and is cheap enough to be called on every change of the input.
func ComputeStats(lines iter.Seq[string]) Stats {
	var (
		s       Stats
		domains = make(map[string]struct{})
	)
	for line := range lines {
		res := Classify(line)
		switch res.Kind {
		case KindNetwork:
			s.Network++
		case KindInvalid:
			s.Invalid++
		case KindGlobal, KindDomain:
			s.Rules++
			if res.Kind == KindGlobal {
				s.Global++
			}
			if res.Styled {
				s.Styles++
			}
			for _, d := range res.Domains {
				domains[d] = struct{}{}
			}
		}
	}
	s.Domains = len(domains)
	return s
}
