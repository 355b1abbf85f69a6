package clean

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hisaabflow/ledger/internal/bankconfig"
)

// Description applies a bank's description-cleaning rules in declaration
// order: each rule either replaces a literal substring with the rule's
// replacement (an empty replacement removes it) or substitutes a regex
// match (spec §4.7 step 6).
func Description(cfg *bankconfig.BankConfig, raw string) string {
	desc := raw
	for _, rule := range cfg.DataCleaning.DescriptionCleaning {
		if rule.IsRegex {
			re, err := regexp.Compile(rule.Pattern)
			if err != nil {
				continue
			}
			desc = re.ReplaceAllString(desc, rule.Replacement)
		} else {
			desc = strings.ReplaceAll(desc, rule.Pattern, rule.Replacement)
		}
	}
	return strings.TrimSpace(collapseSpaces(desc))
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Override is the outcome of applying a bank's conditional overrides to a
// row: any zero-value field was not touched by the matching override.
type Override struct {
	Description string
	Category    string
	Note        string
	Matched     bool
}

// RowFields is the minimal row shape conditional-override predicates need
// to evaluate against (spec §3/§4.7 step 8).
type RowFields struct {
	Description string
	Note        string
	Amount      decimal.Decimal
}

// ApplyConditionalOverrides evaluates each override in declaration order
// and returns the first rule whose predicates all match. A rule's
// predicates are ANDed together (spec §3: "ordered list of rules each with
// predicates"), not a single condition, and rules themselves are
// first-fully-matching-wins, not cumulative.
func ApplyConditionalOverrides(cfg *bankconfig.BankConfig, row RowFields) Override {
	for _, ov := range cfg.DataCleaning.ConditionalOverrides {
		if allPredicatesMatch(ov.Predicates, row) {
			return Override{Description: ov.Description, Category: ov.Category, Note: ov.Note, Matched: true}
		}
	}
	return Override{}
}

// allPredicatesMatch reports whether every predicate in preds matches row.
// A rule with no predicates never matches — an unconditional override
// would otherwise fire on every row.
func allPredicatesMatch(preds []bankconfig.Predicate, row RowFields) bool {
	if len(preds) == 0 {
		return false
	}
	for _, p := range preds {
		if !predicateMatches(p, row) {
			return false
		}
	}
	return true
}

func predicateMatches(p bankconfig.Predicate, row RowFields) bool {
	switch p.Kind {
	case bankconfig.PredicateDescriptionContains:
		return strings.Contains(strings.ToLower(row.Description), strings.ToLower(p.Str))
	case bankconfig.PredicateDescriptionEquals:
		return strings.EqualFold(strings.TrimSpace(row.Description), strings.TrimSpace(p.Str))
	case bankconfig.PredicateDescriptionRegex:
		re, err := regexp.Compile(p.Str)
		if err != nil {
			return false
		}
		return re.MatchString(row.Description)
	case bankconfig.PredicateAmountMin:
		return row.Amount.GreaterThanOrEqual(decimal.NewFromFloat(p.Number))
	case bankconfig.PredicateAmountMax:
		return row.Amount.LessThanOrEqual(decimal.NewFromFloat(p.Number))
	case bankconfig.PredicateAmountLessThan:
		return row.Amount.LessThan(decimal.NewFromFloat(p.Number))
	case bankconfig.PredicateAmountGreaterThan:
		return row.Amount.GreaterThan(decimal.NewFromFloat(p.Number))
	case bankconfig.PredicateAmountEquals:
		return row.Amount.Equal(decimal.NewFromFloat(p.Number))
	case bankconfig.PredicateNoteEquals:
		return strings.EqualFold(strings.TrimSpace(row.Note), strings.TrimSpace(p.Str))
	case bankconfig.PredicateNoteContains:
		return strings.Contains(strings.ToLower(row.Note), strings.ToLower(p.Str))
	default:
		return false
	}
}
