package filter

import (
	"slices"
	"strings"
	"testing"
)

func TestComputeStats_Example(t *testing.T) {
	input := "example.com##.ad-banner\n" +
		"example.com##.popup:style(display: none !important; opacity: 0)\n" +
		"||tracking.com/pixel.gif$image\n" +
		"##.global-advertisement"

	got := ComputeStats(slices.Values(strings.Split(input, "\n")))
	want := Stats{Rules: 3, Domains: 1, Global: 1, Styles: 1, Network: 1, Invalid: 0}
	if got != want {
		t.Errorf("ComputeStats() = %+v, want %+v", got, want)
	}
}

func TestComputeStats_CountsEveryLineOnce(t *testing.T) {
	lines := []string{
		"! comment",
		"",
		"   ",
		"a.com,b.com##.x",
		"b.com,c.com##.y:style(color: red)",
		"##.global",
		"##.other:style(top: 0)",
		"@@||example.com^",
		"||ads.example.com^",
		"/regex/",
		"no separator here",
		"d.com##div:style(broken",
		"e.com#@#.exception",
		"e.com#@##exception",
		"#@##sponsored",
	}

	got := ComputeStats(slices.Values(lines))
	want := Stats{Rules: 4, Domains: 3, Global: 2, Styles: 2, Network: 3, Invalid: 5}
	if got != want {
		t.Errorf("ComputeStats() = %+v, want %+v", got, want)
	}

	counted := 0
	for _, l := range lines {
		if k := Classify(l).Kind; k != KindEmpty && k != KindComment {
			counted++
		}
	}
	if got.Counted() != counted {
		t.Errorf("Counted() = %d, want %d non-blank non-comment lines", got.Counted(), counted)
	}
}

func TestComputeStats_Empty(t *testing.T) {
	if got := ComputeStats(slices.Values([]string(nil))); got != (Stats{}) {
		t.Errorf("ComputeStats(nil) = %+v, want zero", got)
	}
}

func TestComputeStats_PlainRuleIsNotStyled(t *testing.T) {
	got := ComputeStats(slices.Values([]string{"d.com##.x"}))
	if got.Styles != 0 {
		t.Errorf("plain rule counted as style: %+v", got)
	}
	got = ComputeStats(slices.Values([]string{"d.com##div:style(color:red)"}))
	if got.Styles != 1 {
		t.Errorf("style rule not counted: %+v", got)
	}
}

func TestComputeStats_ExceptionWithIDSelector(t *testing.T) {
	got := ComputeStats(slices.Values([]string{"example.com#@##ad", "#@##x"}))
	want := Stats{Invalid: 2}
	if got != want {
		t.Errorf("ComputeStats() = %+v, want %+v", got, want)
	}
}
