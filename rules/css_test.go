package rules

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"u2s/css"
)

func TestCSS(t *testing.T) {
	rs := []Rule{
		{Selector: ".a", Declaration: "display: none !important;"},
		{Selector: ".b", Declaration: "color: red", Styled: true},
		{Selector: ".c", Declaration: "display: none !important;"},
	}

	t.Run("plain", func(t *testing.T) {
		want := []css.Rule{
			{Selectors: []string{".a"}, Block: "display: none !important;"},
			{Selectors: []string{".b"}, Block: "color: red"},
			{Selectors: []string{".c"}, Block: "display: none !important;"},
		}
		if diff := cmp.Diff(want, CSS(rs, false)); diff != "" {
			t.Errorf("CSS() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("merged", func(t *testing.T) {
		want := []css.Rule{
			{Selectors: []string{".a", ".c"}, Block: "display: none !important;"},
			{Selectors: []string{".b"}, Block: "color: red"},
		}
		if diff := cmp.Diff(want, CSS(rs, true)); diff != "" {
			t.Errorf("CSS() mismatch (-want +got):\n%s", diff)
		}
	})
}
