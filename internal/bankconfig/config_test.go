package bankconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleWiseConf = `[bank_info]
name = wise
display_name = Wise
currency_primary = USD
cashew_account = Wise
file_patterns = wise,transferwise
detection_content_signatures = Exchange To Amount,TransferWise
expected_headers = Date,Amount,Description,Exchange To Amount
confidence_weight = 1.0

[csv_config]
delimiter = ,
has_header = true

[column_mapping]
date = Date
amount = Amount
description = Description

[data_cleaning]
currency_symbols = $,£,€
date_formats = 2006-01-02,01/02/2006
decimal_separator = .
thousand_separator = ,
european_format = false

[description_cleaning]
/^Card transaction of /  =
/\s+/ = " "

[outgoing_patterns]
pattern_1 = Sent money to (.+)

[incoming_patterns]
pattern_1 = Received money from (.+)

[categorization]
uber = Transport
netflix = Entertainment

[conditional_override_ride_hailing]
if_description_contains = Outgoing fund transfer to
if_amount_min = -2000
if_amount_max = -0.01
if_note_equals = Raast Out
set_description = Ride Hailing Services
`

func writeConf(t *testing.T, name, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestParseBankConfig(t *testing.T) {
	path := writeConf(t, "wise.conf", sampleWiseConf)

	cfg, err := ParseBankConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "wise", cfg.Name)
	assert.Equal(t, "Wise", cfg.DisplayName)
	assert.Equal(t, "USD", cfg.PrimaryCurrency)
	assert.ElementsMatch(t, []string{"wise", "transferwise"}, cfg.Detection.FilenamePatterns)
	assert.ElementsMatch(t, []string{"Exchange To Amount", "TransferWise"}, cfg.Detection.ContentSignatures)
	assert.Len(t, cfg.DataCleaning.DescriptionCleaning, 2)
	assert.True(t, cfg.DataCleaning.DescriptionCleaning[0].IsRegex)
	assert.Len(t, cfg.OutgoingPatterns, 1)
	assert.Len(t, cfg.IncomingPatterns, 1)
	assert.Len(t, cfg.CategorizationRules, 2)
	require.Len(t, cfg.DataCleaning.ConditionalOverrides, 1)
	override := cfg.DataCleaning.ConditionalOverrides[0]
	assert.Equal(t, "Ride Hailing Services", override.Description)
	require.Len(t, override.Predicates, 4)
	kinds := make([]PredicateKind, len(override.Predicates))
	for i, p := range override.Predicates {
		kinds[i] = p.Kind
	}
	assert.ElementsMatch(t, []PredicateKind{
		PredicateDescriptionContains, PredicateAmountMin, PredicateAmountMax, PredicateNoteEquals,
	}, kinds)
}

func TestDetect_WeightedScore(t *testing.T) {
	path := writeConf(t, "wise.conf", sampleWiseConf)
	cfg, err := ParseBankConfig(path)
	require.NoError(t, err)

	results := Detect([]*BankConfig{cfg}, "wise_statement.csv", "TransferWise Exchange To Amount 100", []string{"Date", "Amount", "Description", "Exchange To Amount"})
	require.Len(t, results, 1)
	assert.Equal(t, "wise", results[0].BankName)
	assert.True(t, results[0].IsConfident(), "expected confidence >= 0.5, got %f", results[0].Confidence)
}

func TestDetect_NoMatch(t *testing.T) {
	path := writeConf(t, "wise.conf", sampleWiseConf)
	cfg, err := ParseBankConfig(path)
	require.NoError(t, err)

	results := Detect([]*BankConfig{cfg}, "unrelated.csv", "nothing matches here", []string{"Foo", "Bar"})
	assert.Empty(t, results)
}

func TestRegistry_LoadAndGet(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wise.conf"), []byte(sampleWiseConf), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.conf"), []byte("[general]\nuser_name=Test\n"), 0o644))

	reg, err := NewRegistry(dir)
	require.NoError(t, err)

	all := reg.All()
	require.Len(t, all, 1)

	bank, ok := reg.Get("wise")
	require.True(t, ok)
	assert.Equal(t, "Wise", bank.DisplayName)

	_, ok = reg.Get("app")
	assert.False(t, ok)
}

func TestQuickFilenameMatch_LongestWins(t *testing.T) {
	short := &BankConfig{Name: "a", Detection: DetectionConfig{FilenamePatterns: []string{"bank"}}}
	long := &BankConfig{Name: "b", Detection: DetectionConfig{FilenamePatterns: []string{"bank_export"}}}

	got := QuickFilenameMatch([]*BankConfig{short, long}, "my_bank_export_2024.csv")
	require.NotNil(t, got)
	assert.Equal(t, "b", got.Name)
}
