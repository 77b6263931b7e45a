// Package classify turns extracted page text into classification keys.
//
// Each variant of the splitter owns a Classifier: an ordered list of regex
// matchers tried first-match-wins against the full page text. A page that
// matches no rule classifies as Unknown; the grouping policy decides what
// happens to it.
package classify

import (
	"regexp"
	"strings"
)

// Key is a per-page classification key, e.g. "2104" or "123V".
type Key string

// Unknown is the sentinel key for pages where no matcher fired.
const Unknown Key = "UNKNOWN"

// IsUnknown reports whether the key is the Unknown sentinel.
func (k Key) IsUnknown() bool { return k == Unknown }

// Matcher is a single named extraction rule. The first capture group of the
// pattern is the extracted key.
type Matcher struct {
	Name    string
	pattern *regexp.Regexp
}

// Match runs the rule against the page text and returns the first occurrence.
func (m Matcher) Match(text string) (Key, bool) {
	sub := m.pattern.FindStringSubmatch(text)
	if len(sub) < 2 {
		return Unknown, false
	}
	return Key(sub[1]), true
}

// Classifier is an ordered list of matchers for one document variant.
// Rules are tried in order; the first match wins. No scoring, no
// best-of-many-matches logic.
type Classifier struct {
	// Kind names what the classifier looks for ("Depot ID", "Shipping
	// Point") for diagnostics and operator messages.
	Kind     string
	matchers []Matcher
}

// Classify maps page text to a key. Total: empty or unmatched text yields
// Unknown, never an error.
func (c Classifier) Classify(text string) Key {
	if text == "" {
		return Unknown
	}
	for _, m := range c.matchers {
		if key, ok := m.Match(text); ok {
			return key
		}
	}
	return Unknown
}

// Matchers returns the ordered rules, mainly so tests can exercise each rule
// on its own.
func (c Classifier) Matchers() []Matcher { return c.matchers }

var (
	// The call list layout places the 4-digit depot ID at the end of the
	// line above the "Depot ID" label, glued to an unrelated value
	// (e.g. "1:342104"). The primary rule depends on that adjacency; if the
	// report layout ever changes, the rule can still match a well-formed but
	// wrong numeral. Label matching is case-insensitive, the digits are not.
	depotBeforeLabel = regexp.MustCompile(`(\d{4})\s*[\r\n]+\s*(?i:Depot ID)`)
	depotAfterLabel  = regexp.MustCompile(`(?i:Depot ID)\D+(\d{4})`)

	// Group list pages carry a line like "Shipping Point  :  123V Messer
	// St Hubert". Exactly 3 digits + literal "V"; a malformed value (say
	// "12V") is no match at all, not a partial one.
	shippingPointLabel = regexp.MustCompile(`(?i:Shipping Point)\s*:\s*([0-9]{3}V)`)
)

// DepotID returns the call list classifier: 4-digit depot ID before the
// "Depot ID" label, falling back to the first 4-digit run after it.
func DepotID() Classifier {
	return Classifier{
		Kind: "Depot ID",
		matchers: []Matcher{
			{Name: "depot-before-label", pattern: depotBeforeLabel},
			{Name: "depot-after-label", pattern: depotAfterLabel},
		},
	}
}

// ShippingPoint returns the group list classifier. No fallback rule exists
// for this variant.
func ShippingPoint() Classifier {
	return Classifier{
		Kind: "Shipping Point",
		matchers: []Matcher{
			{Name: "shipping-point-label", pattern: shippingPointLabel},
		},
	}
}

// Formatter derives an output document filename from a group's key.
type Formatter func(Key) string

// DepotFilename converts a depot ID to a call list filename:
// "2104" -> "104V_CL.pdf" (drop the first digit, append "V").
// Unknown or non-numeric keys are used verbatim: "UNKNOWN_CL.pdf".
func DepotFilename(key Key) string {
	stem := string(key)
	if !key.IsUnknown() && isDigits(stem) && len(stem) >= 2 {
		stem = stem[1:] + "V"
	}
	return stem + "_CL.pdf"
}

// GroupFilename converts a shipping point to a group list filename:
// "123V" -> "123V_Group.pdf". The key is used as-is.
func GroupFilename(key Key) string {
	return string(key) + "_Group.pdf"
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	return strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' }) == -1
}
