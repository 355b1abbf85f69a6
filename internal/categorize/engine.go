// Package categorize provides a high-throughput, whole-ledger
// categorization pass on top of the per-row rules in package clean: an
// Aho-Corasick automaton matches every bank's keyword patterns against a
// description in a single O(n+m) scan instead of one regexp per rule, and a
// bleve index offers free-text lookup over merchant/category assignments
// for interactive mapping tools built on top of this package.
package categorize

import (
	"strings"

	"github.com/cloudflare/ahocorasick"

	"github.com/hisaabflow/ledger/internal/bankconfig"
)

// patternEntry keeps the lowercase pattern fed to the matcher and its target
// category.
type patternEntry struct {
	lower    string
	category string
}

// Engine is a precompiled multi-pattern categorizer built from every
// configured bank's categorization_rules and default_category_rules.
type Engine struct {
	matcher  *ahocorasick.Matcher
	patterns []patternEntry
}

// Build compiles an Engine from every bank's categorization rules. Patterns
// are deduplicated so repeated keywords across banks (e.g. "uber" defined
// in both a US and EU config) only cost one automaton state.
func Build(banks []*bankconfig.BankConfig) *Engine {
	seen := map[string]string{} // lowercase pattern -> category
	for _, b := range banks {
		for _, r := range b.CategorizationRules {
			addIfAbsent(seen, r.Pattern, r.Category)
		}
		for _, r := range b.DefaultCategoryRules {
			addIfAbsent(seen, r.Pattern, r.Category)
		}
	}

	entries := make([]patternEntry, 0, len(seen))
	raw := make([]string, 0, len(seen))
	for lower, category := range seen {
		entries = append(entries, patternEntry{lower: lower, category: category})
		raw = append(raw, lower)
	}

	return &Engine{
		matcher:  ahocorasick.NewStringMatcher(raw),
		patterns: entries,
	}
}

func addIfAbsent(seen map[string]string, pattern, category string) {
	lower := strings.ToLower(pattern)
	if _, exists := seen[lower]; !exists {
		seen[lower] = category
	}
}

// IsEmpty reports whether the engine has no patterns to match against.
func (e *Engine) IsEmpty() bool { return e == nil || len(e.patterns) == 0 }

// PatternCount returns how many distinct patterns were compiled.
func (e *Engine) PatternCount() int {
	if e == nil {
		return 0
	}
	return len(e.patterns)
}

// Match returns the category for the longest pattern that matches
// description, or "" if nothing matched. Longest-wins mirrors the
// categorizer in package clean, but unlike clean.Categorize patterns here
// match as plain case-insensitive substrings: no word boundaries are
// applied and patterns are not treated as regular expressions.
func (e *Engine) Match(description string) string {
	if e.IsEmpty() {
		return ""
	}
	lower := strings.ToLower(description)
	hits := e.matcher.Match([]byte(lower))

	best := ""
	bestLen := -1
	for _, idx := range hits {
		p := e.patterns[idx]
		if len(p.lower) > bestLen {
			bestLen = len(p.lower)
			best = p.category
		}
	}
	return best
}

// MatchBatch categorizes many descriptions in one pass, convenient for
// re-categorizing an entire parsed ledger after rule changes.
func (e *Engine) MatchBatch(descriptions []string) []string {
	out := make([]string, len(descriptions))
	for i, d := range descriptions {
		out[i] = e.Match(d)
	}
	return out
}
