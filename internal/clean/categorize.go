package clean

import (
	"regexp"
	"strings"
	"sync"

	"github.com/hisaabflow/ledger/internal/bankconfig"
)

// Categorize matches a transaction's description against a bank's
// categorization_rules and default_category_rules using word-boundary
// matching, preferring the longest matching pattern when more than one
// rule matches (spec §4.7 step 9). Returns "" if nothing matches.
func Categorize(cfg *bankconfig.BankConfig, description string) string {
	rules := append(append([]bankconfig.CategoryRule{}, cfg.CategorizationRules...), cfg.DefaultCategoryRules...)
	if cat, ok := bestMatch(rules, description); ok {
		return cat
	}
	return ""
}

func bestMatch(rules []bankconfig.CategoryRule, description string) (string, bool) {
	var bestPattern string
	var bestCategory string
	found := false

	for _, rule := range rules {
		re, err := wordBoundaryPattern(rule.Pattern)
		if err != nil {
			continue
		}
		if re.MatchString(description) && len(rule.Pattern) > len(bestPattern) {
			bestPattern = rule.Pattern
			bestCategory = rule.Category
			found = true
		}
	}
	return bestCategory, found
}

// patternCache memoizes compiled patterns across calls. Categorize runs
// inside Normalize, which ParseMany executes on multiple goroutines at
// once, so the cache needs its own lock rather than relying on the
// bare-map, single-writer assumption Go's map type otherwise makes.
var (
	patternCacheMu sync.RWMutex
	patternCache   = map[string]*regexp.Regexp{}
)

func wordBoundaryPattern(pattern string) (*regexp.Regexp, error) {
	patternCacheMu.RLock()
	re, ok := patternCache[pattern]
	patternCacheMu.RUnlock()
	if ok {
		return re, nil
	}

	// Patterns already containing regex metacharacters are used verbatim;
	// plain keywords are wrapped with word boundaries to avoid matching
	// inside unrelated words (e.g. "art" inside "Starbucks").
	expr := pattern
	if !containsRegexMeta(pattern) {
		expr = `(?i)\b` + regexp.QuoteMeta(pattern) + `\b`
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}

	patternCacheMu.Lock()
	patternCache[pattern] = re
	patternCacheMu.Unlock()
	return re, nil
}

func containsRegexMeta(s string) bool {
	return strings.ContainsAny(s, `.*+?()[]{}|^$\`)
}
