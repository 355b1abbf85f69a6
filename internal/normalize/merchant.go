// Package normalize assembles a canonical ledger.Transaction from a cleaned
// row plus bank configuration: merchant name sanitization, user-override
// application, and final account/category resolution.
package normalize

import (
	"regexp"
	"strings"
)

// MerchantPattern recognizes a raw description and rewrites it to a clean
// display name plus a default category/subcategory, independent of any
// bank's own categorization_rules.
type MerchantPattern struct {
	Pattern     *regexp.Regexp
	Name        string
	Category    string
	Subcategory string
}

// MerchantSanitizer rewrites noisy transaction descriptions ("POS
// 4829  AMZN MKTP US*2F8S92  WA" style strings) into a clean display name.
type MerchantSanitizer struct {
	patterns []MerchantPattern
}

// NewMerchantSanitizer builds a sanitizer seeded with the default merchant
// pattern table.
func NewMerchantSanitizer() *MerchantSanitizer {
	return &MerchantSanitizer{patterns: defaultMerchantPatterns()}
}

// AddPattern registers an additional merchant pattern, checked before the
// defaults (so bank-specific overrides can take priority).
func (s *MerchantSanitizer) AddPattern(p MerchantPattern) {
	s.patterns = append([]MerchantPattern{p}, s.patterns...)
}

// MerchantInfo is the sanitized result for one description.
type MerchantInfo struct {
	Name        string
	Category    string
	Subcategory string
	Matched     bool
}

// Sanitize finds the first matching pattern and returns its clean name, or
// falls back to a generic whitespace/reference-number cleanup when nothing
// matches.
func (s *MerchantSanitizer) Sanitize(description string) MerchantInfo {
	for _, p := range s.patterns {
		if p.Pattern.MatchString(description) {
			return MerchantInfo{Name: p.Name, Category: p.Category, Subcategory: p.Subcategory, Matched: true}
		}
	}
	return MerchantInfo{Name: cleanMerchantName(description)}
}

var (
	leadingCodePrefix = regexp.MustCompile(`(?i)^(POS|ATM|PURCHASE|PAYMENT TO|TRANSFER TO|DD|SO)\s+\d*\s*`)
	trailingRefNumber = regexp.MustCompile(`\s*[*#]\S{4,}$`)
	trailingDateStamp = regexp.MustCompile(`\s+\d{2}[/-]\d{2}[/-]?\d{0,4}$`)
	repeatedSpaces    = regexp.MustCompile(`\s+`)
)

func cleanMerchantName(description string) string {
	name := leadingCodePrefix.ReplaceAllString(description, "")
	name = trailingRefNumber.ReplaceAllString(name, "")
	name = trailingDateStamp.ReplaceAllString(name, "")
	name = repeatedSpaces.ReplaceAllString(name, " ")
	name = strings.TrimSpace(name)
	return titleCase(name)
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		if len(w) == 0 {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// defaultMerchantPatterns covers common EU/US merchants seen across the
// bundled bank exports, supplementing each bank's own categorization_rules
// rather than replacing them.
func defaultMerchantPatterns() []MerchantPattern {
	raw := []struct{ pattern, name, category, sub string }{
		{`(?i)uber\s*eats`, "Uber Eats", "Food & Dining", "Delivery"},
		{`(?i)\buber\b`, "Uber", "Transport", "Rideshare"},
		{`(?i)\bnetflix\b`, "Netflix", "Entertainment", "Streaming"},
		{`(?i)\bspotify\b`, "Spotify", "Entertainment", "Streaming"},
		{`(?i)\bamazon\b|amzn mktp`, "Amazon", "Shopping", "Online"},
		{`(?i)\bstarbucks\b`, "Starbucks", "Food & Dining", "Coffee"},
		{`(?i)\bmcdonald'?s\b`, "McDonald's", "Food & Dining", "Fast Food"},
		{`(?i)\bwalmart\b`, "Walmart", "Shopping", "Groceries"},
		{`(?i)\bcontinente\b`, "Continente", "Shopping", "Groceries"},
		{`(?i)\bgalp\b|\bbp\b fuel`, "Fuel Station", "Transport", "Fuel"},
		{`(?i)\bnetflix\.com\b`, "Netflix", "Entertainment", "Streaming"},
		{`(?i)\bvodafone\b`, "Vodafone", "Utilities", "Telecom"},
		{`(?i)\bedp\b`, "EDP", "Utilities", "Electricity"},
	}
	patterns := make([]MerchantPattern, 0, len(raw))
	for _, r := range raw {
		patterns = append(patterns, MerchantPattern{
			Pattern:     regexp.MustCompile(r.pattern),
			Name:        r.name,
			Category:    r.category,
			Subcategory: r.sub,
		})
	}
	return patterns
}
