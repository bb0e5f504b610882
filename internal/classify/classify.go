package classify

import "strings"

// CategoryMixed is the fallback category when no keyword matches.
const CategoryMixed = "mixed"

// rule maps a keyword to a litter category. Rules are evaluated in declared
// order: the first keyword contained in any detected label wins, so broader
// keywords (tire before can, glass before bottle) must be declared first.
type rule struct {
	keyword  string
	category string
}

var rules = []rule{
	// Bulk waste first: a tire is also rubber and often labeled "Can"-adjacent
	// scrap, but it needs bulk pickup.
	{"tire", "bulk"},
	{"tyre", "bulk"},
	{"furniture", "bulk"},
	{"mattress", "bulk"},
	{"appliance", "bulk"},

	{"plastic", "plastic"},
	{"styrofoam", "plastic"},

	// Glass before bottle so "Glass Bottle" is not claimed by the plastic
	// bottle keyword below.
	{"glass", "glass"},
	{"bottle", "plastic"},

	{"can", "metal"},
	{"metal", "metal"},
	{"aluminium", "metal"},
	{"aluminum", "metal"},
	{"scrap", "metal"},

	{"paper", "paper"},
	{"cardboard", "paper"},
	{"newspaper", "paper"},

	{"cigarette", "cigarette"},

	{"food", "organic"},
	{"leaf", "organic"},
	{"wood", "organic"},
}

// Categorize maps detected image labels to a single litter category.
// Matching is case-insensitive substring containment against the rule table;
// the first rule whose keyword appears in any label wins. No match returns
// "mixed". Deterministic, no side effects.
func Categorize(labels []string) string {
	normalized := make([]string, len(labels))
	for i, label := range labels {
		normalized[i] = strings.ToLower(label)
	}

	for _, r := range rules {
		for _, label := range normalized {
			if strings.Contains(label, r.keyword) {
				return r.category
			}
		}
	}
	return CategoryMixed
}
