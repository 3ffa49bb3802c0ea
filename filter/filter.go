// Package filter classifies single lines of uBlock Origin filter lists.
//
// Only cosmetic (element hiding and style injection) filters are accepted for
// conversion. Network filters are recognized so they could be reported
// separately, everything else which does not look like a cosmetic filter is
// invalid. Classification never fails: every line gets exactly one Kind.
package filter

import (
	"strings"
)

// Kind is the outcome of classifying a single line.
type Kind int

const (
	KindEmpty Kind = iota
	KindComment
	KindNetwork
	KindGlobal
	KindDomain
	KindInvalid
)

var kindNames = [...]string{"empty", "comment", "network", "global", "domain", "invalid"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Cosmetic reports if lines of this kind produce CSS rules.
func (k Kind) Cosmetic() bool {
	return k == KindGlobal || k == KindDomain
}

// DefaultDeclaration hides elements matched by cosmetic filters without
// style injection.
const DefaultDeclaration = "display: none !important;"

const (
	cosmeticSep       = "##"
	cosmeticExceptSep = "#@#"
	styleOpen         = ":style("
)

// Result describes classified line. Domains, Selector and Declaration are only
// set for cosmetic kinds, Reason explains network and invalid outcomes.
type Result struct {
	Kind        Kind
	Domains     []string
	Selector    string
	Declaration string
	// Styled is true when Declaration came from ":style(...)" rather than
	// being default element hiding.
	Styled bool
	Reason string
}

func invalid(reason string) Result {
	return Result{Kind: KindInvalid, Reason: reason}
}

func network(reason string) Result {
	return Result{Kind: KindNetwork, Reason: reason}
}

// Classify determines what kind of filter the line is and extracts cosmetic
// rule parts. It is pure and safe for concurrent use.
func Classify(line string) Result {
	line = strings.TrimSpace(line)
	switch {
	case len(line) == 0:
		return Result{Kind: KindEmpty}
	case strings.HasPrefix(line, "!"), strings.HasPrefix(line, "["):
		// comments and list headers like "[Adblock Plus 2.0]"
		return Result{Kind: KindComment}
	}

	// network filters take precedence, "$" and "||" are only meaningful
	// before cosmetic separator since selectors may contain them
	// (a[href$=".pdf"])
	left, right, cosmetic := strings.Cut(line, cosmeticSep)
	switch {
	case strings.HasPrefix(line, "@@"):
		return network("exception network filter")
	case strings.HasPrefix(line, "|"):
		return network("anchored network filter")
	case strings.HasPrefix(line, "/"):
		return network("regular expression network filter")
	case strings.Contains(left, "||"):
		return network("domain anchored network filter")
	case strings.Contains(left, "$"):
		return network("network filter with options")
	}

	// "example.com#@##ad" contains "##" too, exception separator wins when
	// it starts first
	if i := strings.Index(line, cosmeticExceptSep); i >= 0 && (!cosmetic || i < len(left)) {
		return invalid("cosmetic exception filters are not supported")
	}
	if !cosmetic {
		return invalid("missing ## separator")
	}

	var domains []string
	if left = strings.TrimSpace(left); len(left) > 0 {
		for d := range strings.SplitSeq(left, ",") {
			if d = strings.TrimSpace(d); len(d) > 0 {
				domains = append(domains, d)
			}
		}
		if len(domains) == 0 {
			return invalid("empty domain list")
		}
	}

	right = strings.TrimSpace(right)
	if len(right) == 0 {
		return invalid("empty selector")
	}

	res := Result{Kind: KindDomain, Domains: domains}
	if len(domains) == 0 {
		res.Kind = KindGlobal
	}

	if strings.Contains(right, styleOpen) {
		selector, declaration, err := splitStyle(right)
		if err != nil {
			return invalid(err.Error())
		}
		res.Selector, res.Declaration, res.Styled = selector, declaration, true
		return res
	}

	res.Selector, res.Declaration = right, DefaultDeclaration
	return res
}
