// Package bankconfig loads and represents per-bank configuration: detection
// signatures, CSV dialect hints, column mapping, data-cleaning rules, and
// categorization patterns. Configuration lives in INI-style .conf files, one
// per bank plus a shared app.conf, matching the declarative configuration
// style the original ingestion system used (see unified_config_service in
// the prior implementation).
package bankconfig

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"
)

// DetectionConfig holds the signals used by the bank detector (spec §4.6).
type DetectionConfig struct {
	FilenamePatterns      []string
	FilenameRegexPatterns []string
	ContentSignatures     []string
	ExpectedHeaders       []string
	ConfidenceWeight      float64
}

// CSVConfig captures CSV-dialect hints a bank's export is known to use,
// parsed from [csv_config]. The runtime dialect detector does not read them.
type CSVConfig struct {
	Delimiter   string
	HasHeader   bool
	SkipRows    int
	Encoding    string
}

// DescriptionCleaningRule is one regex-substitution or literal-replacement rule
// applied to a transaction's raw description (spec §4.7 step 6).
type DescriptionCleaningRule struct {
	Pattern     string
	Replacement string
	IsRegex     bool
}

// PredicateKind names one condition a conditional-override rule checks,
// parsed from an "if_*" key in a conditional_override_<name> section
// (spec §3/§4.7 step 8).
type PredicateKind string

const (
	PredicateDescriptionContains PredicateKind = "description_contains"
	PredicateDescriptionEquals   PredicateKind = "description_equals"
	PredicateDescriptionRegex    PredicateKind = "description_regex"
	PredicateAmountMin           PredicateKind = "amount_min"
	PredicateAmountMax           PredicateKind = "amount_max"
	PredicateAmountLessThan      PredicateKind = "amount_less_than"
	PredicateAmountGreaterThan   PredicateKind = "amount_greater_than"
	PredicateAmountEquals        PredicateKind = "amount_equals"
	PredicateNoteEquals          PredicateKind = "note_equals"
	PredicateNoteContains        PredicateKind = "note_contains"
)

// amountPredicateKinds is the set of PredicateKinds whose "if_*" value is a
// number rather than a string.
var amountPredicateKinds = map[PredicateKind]bool{
	PredicateAmountMin:         true,
	PredicateAmountMax:         true,
	PredicateAmountLessThan:    true,
	PredicateAmountGreaterThan: true,
	PredicateAmountEquals:      true,
}

// Predicate is one typed condition of a ConditionalOverride. Str holds the
// argument for string-valued predicates (description/note checks); Number
// holds the parsed float argument for amount predicates.
type Predicate struct {
	Kind   PredicateKind
	Str    string
	Number float64
}

// ConditionalOverride rewrites a row's description (and optionally category
// and note) when every one of its predicates matches — an AND across all
// predicates, not a single condition, evaluated in declaration order, first
// fully-matching rule wins (spec §3/§4.7 step 8).
type ConditionalOverride struct {
	Name        string
	Predicates  []Predicate
	Description string
	Category    string
	Note        string
}

// DataCleaningConfig captures numeric/date cleaning rules (spec §4.7).
type DataCleaningConfig struct {
	CurrencySymbols      []string
	DateFormats          []string
	DecimalSeparator     string
	ThousandSeparator    string
	EuropeanNumberFormat bool
	DescriptionCleaning  []DescriptionCleaningRule
	ConditionalOverrides []ConditionalOverride
}

// CategoryRule maps a keyword/regex pattern to a category, used by the
// word-boundary longest-match categorizer (spec §4.7 step 9).
type CategoryRule struct {
	Pattern  string
	Category string
}

// BankConfig is the full declarative description of one bank's CSV export
// (spec §3 BankConfig).
type BankConfig struct {
	Name            string
	DisplayName     string
	PrimaryCurrency string
	CashewAccount   string

	Detection      DetectionConfig
	CSV            CSVConfig
	ColumnMapping  map[string]string
	AccountMapping map[string]string
	DataCleaning   DataCleaningConfig

	OutgoingPatterns []string
	IncomingPatterns []string

	CategorizationRules    []CategoryRule
	DefaultCategoryRules   []CategoryRule
}

// ParseBankConfig reads one bank's .conf file.
func ParseBankConfig(path string) (*BankConfig, error) {
	file, err := ini.LoadSources(ini.LoadOptions{AllowBooleanKeys: true}, path)
	if err != nil {
		return nil, fmt.Errorf("bankconfig: load %s: %w", path, err)
	}

	cfg := &BankConfig{
		ColumnMapping:  map[string]string{},
		AccountMapping: map[string]string{},
	}

	info := file.Section("bank_info")
	cfg.Name = info.Key("name").String()
	cfg.DisplayName = info.Key("display_name").String()
	cfg.PrimaryCurrency = strings.ToUpper(info.Key("currency_primary").String())
	cfg.CashewAccount = info.Key("cashew_account").String()

	cfg.Detection = DetectionConfig{
		FilenamePatterns:      splitList(info.Key("file_patterns").String()),
		FilenameRegexPatterns: splitList(info.Key("filename_regex_patterns").String()),
		ContentSignatures:     splitList(info.Key("detection_content_signatures").String()),
		ExpectedHeaders:       splitList(info.Key("expected_headers").String()),
		ConfidenceWeight:      info.Key("confidence_weight").MustFloat64(1.0),
	}

	csvSec := file.Section("csv_config")
	cfg.CSV = CSVConfig{
		Delimiter: csvSec.Key("delimiter").MustString(","),
		HasHeader: csvSec.Key("has_header").MustBool(true),
		SkipRows:  csvSec.Key("skip_rows").MustInt(0),
		Encoding:  csvSec.Key("encoding").String(),
	}

	for _, key := range file.Section("column_mapping").Keys() {
		cfg.ColumnMapping[key.Name()] = key.String()
	}
	for _, key := range file.Section("account_mapping").Keys() {
		cfg.AccountMapping[key.Name()] = key.String()
	}

	cleaning := file.Section("data_cleaning")
	cfg.DataCleaning = DataCleaningConfig{
		CurrencySymbols:      splitList(cleaning.Key("currency_symbols").String()),
		DateFormats:          splitList(cleaning.Key("date_formats").String()),
		DecimalSeparator:     cleaning.Key("decimal_separator").MustString("."),
		ThousandSeparator:    cleaning.Key("thousand_separator").MustString(","),
		EuropeanNumberFormat: cleaning.Key("european_format").MustBool(false),
	}

	for _, key := range file.Section("description_cleaning").Keys() {
		rule := DescriptionCleaningRule{Pattern: key.Name(), Replacement: key.String()}
		rule.IsRegex = strings.HasPrefix(rule.Pattern, "/") && strings.HasSuffix(rule.Pattern, "/")
		if rule.IsRegex {
			rule.Pattern = strings.TrimSuffix(strings.TrimPrefix(rule.Pattern, "/"), "/")
		}
		cfg.DataCleaning.DescriptionCleaning = append(cfg.DataCleaning.DescriptionCleaning, rule)
	}

	for _, sec := range file.Sections() {
		if !strings.HasPrefix(sec.Name(), "conditional_override_") {
			continue
		}
		name := strings.TrimPrefix(sec.Name(), "conditional_override_")
		ov := ConditionalOverride{
			Name:        name,
			Description: sec.Key("set_description").String(),
			Category:    sec.Key("set_category").String(),
			Note:        sec.Key("set_note").String(),
		}
		for _, key := range sec.Keys() {
			if !strings.HasPrefix(key.Name(), "if_") {
				continue
			}
			kind := PredicateKind(strings.TrimPrefix(key.Name(), "if_"))
			pred := Predicate{Kind: kind}
			if amountPredicateKinds[kind] {
				n, err := strconv.ParseFloat(strings.TrimSpace(key.String()), 64)
				if err != nil {
					continue
				}
				pred.Number = n
			} else {
				pred.Str = key.String()
			}
			ov.Predicates = append(ov.Predicates, pred)
		}
		cfg.DataCleaning.ConditionalOverrides = append(cfg.DataCleaning.ConditionalOverrides, ov)
	}

	cfg.OutgoingPatterns = collectValues(file.Section("outgoing_patterns"))
	cfg.IncomingPatterns = collectValues(file.Section("incoming_patterns"))

	for _, key := range file.Section("categorization").Keys() {
		cfg.CategorizationRules = append(cfg.CategorizationRules, CategoryRule{
			Pattern:  key.Name(),
			Category: key.String(),
		})
	}
	for _, key := range file.Section("default_category_rules").Keys() {
		cfg.DefaultCategoryRules = append(cfg.DefaultCategoryRules, CategoryRule{
			Pattern:  key.Name(),
			Category: key.String(),
		})
	}

	return cfg, nil
}

// splitList parses a comma-separated INI value into a trimmed slice,
// dropping empty entries.
func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// collectValues returns every key's value in a section regardless of key
// name, matching the original config format where outgoing/incoming
// transfer patterns are declared as `pattern_1 = ...`, `pattern_2 = ...`.
func collectValues(sec *ini.Section) []string {
	var out []string
	for _, key := range sec.Keys() {
		if v := key.String(); v != "" {
			out = append(out, v)
		}
	}
	return out
}
