package rules

import (
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"u2s/filter"
)

func buildFromLines(lines ...string) *Group {
	results := make([]filter.Result, 0, len(lines))
	for _, l := range lines {
		results = append(results, filter.Classify(l))
	}
	return Build(slices.Values(results))
}

func TestBuild_MultiDomainDuplicates(t *testing.T) {
	g := buildFromLines("a.com,b.com##.x")

	want := []Rule{{Selector: ".x", Declaration: filter.DefaultDeclaration}}
	for _, d := range []string{"a.com", "b.com"} {
		if diff := cmp.Diff(want, g.Rules(d)); diff != "" {
			t.Errorf("Rules(%q) mismatch (-want +got):\n%s", d, diff)
		}
	}
	if g.HasGlobal() {
		t.Error("HasGlobal() = true without global rules")
	}
}

func TestBuild_OrderAndKeys(t *testing.T) {
	g := buildFromLines(
		"##.g1",
		"b.com##.b1",
		"! comment",
		"a.com##.a1",
		"||ads.example.com^",
		"b.com##.b2:style(color: red)",
		"garbage",
		"##.g2",
	)

	if diff := cmp.Diff([]string{"b.com", "a.com", Global}, g.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"b.com", "a.com"}, g.Domains()); diff != "" {
		t.Errorf("Domains() mismatch (-want +got):\n%s", diff)
	}

	wantB := []Rule{
		{Selector: ".b1", Declaration: filter.DefaultDeclaration},
		{Selector: ".b2", Declaration: "color: red", Styled: true},
	}
	if diff := cmp.Diff(wantB, g.Rules("b.com")); diff != "" {
		t.Errorf("Rules(b.com) mismatch (-want +got):\n%s", diff)
	}

	wantG := []Rule{
		{Selector: ".g1", Declaration: filter.DefaultDeclaration},
		{Selector: ".g2", Declaration: filter.DefaultDeclaration},
	}
	if diff := cmp.Diff(wantG, g.Rules(Global)); diff != "" {
		t.Errorf("Rules(Global) mismatch (-want +got):\n%s", diff)
	}
	if g.Len() != 3 || g.RuleCount() != 5 {
		t.Errorf("Len() = %d, RuleCount() = %d, want 3 and 5", g.Len(), g.RuleCount())
	}
}

func TestBuild_CaseSensitiveDomains(t *testing.T) {
	g := buildFromLines("Example.com##.x", "example.com##.y")
	if diff := cmp.Diff([]string{"Example.com", "example.com"}, g.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_Empty(t *testing.T) {
	g := buildFromLines("! only comments", "", "||net^")
	if !g.Empty() {
		t.Error("Empty() = false for group without cosmetic rules")
	}
	if len(g.Keys()) != 0 {
		t.Errorf("Keys() = %v, want none", g.Keys())
	}
}

func TestGroup_Dedupe(t *testing.T) {
	g := buildFromLines(
		"a.com##.x",
		"a.com##.y",
		"a.com,b.com##.x",
		"a.com##.y:style(color: red)",
		"##.g",
		"##.g",
	)
	g.Dedupe()

	want := []Rule{
		{Selector: ".x", Declaration: filter.DefaultDeclaration},
		{Selector: ".y", Declaration: filter.DefaultDeclaration},
		{Selector: ".y", Declaration: "color: red", Styled: true},
	}
	if diff := cmp.Diff(want, g.Rules("a.com")); diff != "" {
		t.Errorf("Rules(a.com) after Dedupe mismatch (-want +got):\n%s", diff)
	}
	if n := len(g.Rules(Global)); n != 1 {
		t.Errorf("global rules after Dedupe = %d, want 1", n)
	}
}

func TestGroup_SortDomains(t *testing.T) {
	g := buildFromLines("site10.com##.x", "##.g", "site2.com##.x", "alpha.com##.x")
	g.SortDomains()

	if diff := cmp.Diff([]string{"alpha.com", "site2.com", "site10.com", Global}, g.Keys()); diff != "" {
		t.Errorf("Keys() after SortDomains mismatch (-want +got):\n%s", diff)
	}
}

func TestGroup_All(t *testing.T) {
	g := buildFromLines("a.com##.x", "##.g")

	var keys []string
	for k, rules := range g.All() {
		keys = append(keys, k)
		if len(rules) != 1 {
			t.Errorf("rules for %q = %d, want 1", k, len(rules))
		}
	}
	if diff := cmp.Diff([]string{"a.com", Global}, keys); diff != "" {
		t.Errorf("All() keys mismatch (-want +got):\n%s", diff)
	}

	// early stop
	for range g.All() {
		break
	}
}

func TestGroup_String(t *testing.T) {
	g := buildFromLines("a.com##.x", "##.g:style(color: red)")
	out := g.String()
	for _, want := range []string{
		"Group: 2 keys, 2 rules",
		`Domain["a.com"] (1)`,
		"Global (1)",
		"rules: hidden=1 styled=0",
		"rules: hidden=0 styled=1",
		`selector: ".g"`,
		`declaration: "color: red"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("String() does not contain %q:\n%s", want, out)
		}
	}
}
