package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hisaabflow/ledger/internal/bankconfig"
	"github.com/hisaabflow/ledger/internal/normalize"
	"github.com/hisaabflow/ledger/pkg/config"
)

const sampleWiseConf = `
[bank_info]
name = wise
display_name = Wise
currency_primary = USD
cashew_account = Wise
file_patterns = wise
expected_headers = Date,Amount,Description

[csv_config]
delimiter = ,
has_header = true

[column_mapping]
date = Date
amount = Amount
description = Description

[categorization]
uber = Transport
`

func newTestPipeline(t *testing.T) *Pipeline {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wise.conf"), []byte(sampleWiseConf), 0o644))

	registry, err := bankconfig.NewRegistry(dir)
	require.NoError(t, err)

	return New(registry, config.Defaults(), normalize.NewMemOverrideStore())
}

func TestParse_HappyPath(t *testing.T) {
	p := newTestPipeline(t)
	csv := "Date,Amount,Description\n2024-01-15,-25.50,UBER TRIP\n2024-01-16,100.00,Salary\n"

	result, err := p.Parse(File{Name: "wise_statement.csv", Content: []byte(csv)}, Options{})
	require.NoError(t, err)
	assert.Equal(t, "wise", result.Bank)
	assert.True(t, result.BankConfident)
	require.Len(t, result.Transactions, 2)
	assert.Equal(t, "Transport", result.Transactions[0].Category)
}

func TestParse_StrictModeRejectsUnknownBank(t *testing.T) {
	p := newTestPipeline(t)
	csv := "Col1,Col2\nfoo,bar\n"

	_, err := p.Parse(File{Name: "unknown.csv", Content: []byte(csv)}, Options{StrictBankDetection: true})
	require.Error(t, err)
	assert.True(t, ErrNoBankDetected(err))
}

func TestParse_UnknownBankDefaultsCurrencyToUSD(t *testing.T) {
	p := newTestPipeline(t)
	csv := "Data,Descrição,Valor\n2024-01-15,Some Purchase,-12.34\n"

	result, err := p.Parse(File{Name: "unknown.csv", Content: []byte(csv)}, Options{})
	require.NoError(t, err)
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, "USD", result.Transactions[0].Currency)
}

func TestParseMany_PreservesOrder(t *testing.T) {
	p := newTestPipeline(t)
	files := []File{
		{Name: "wise_1.csv", Content: []byte("Date,Amount,Description\n2024-01-15,-10.00,A\n")},
		{Name: "wise_2.csv", Content: []byte("Date,Amount,Description\n2024-01-16,-20.00,B\n")},
	}

	results, err := p.ParseMany(context.Background(), files, Options{})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "wise_1.csv", results[0].File)
	assert.Equal(t, "wise_2.csv", results[1].File)
}

func TestParseMany_ReindexesAcrossFiles(t *testing.T) {
	p := newTestPipeline(t)
	files := []File{
		{Name: "wise_1.csv", Content: []byte(
			"Date,Amount,Description\n2024-01-15,-10.00,A\n2024-01-15,-11.00,B\n")},
		{Name: "wise_2.csv", Content: []byte(
			"Date,Amount,Description\n2024-01-16,-20.00,C\n2024-01-16,-21.00,D\n")},
	}

	results, err := p.ParseMany(context.Background(), files, Options{})
	require.NoError(t, err)
	require.Len(t, results, 2)

	seen := map[int]bool{}
	for _, r := range results {
		for _, txn := range r.Transactions {
			assert.False(t, seen[txn.TransactionIndex], "duplicate TransactionIndex %d", txn.TransactionIndex)
			seen[txn.TransactionIndex] = true
		}
	}
	assert.Equal(t, map[int]bool{1: true, 2: true, 3: true, 4: true}, seen)
}

func TestPreview_DoesNotNormalize(t *testing.T) {
	p := newTestPipeline(t)
	csv := "Date,Amount,Description\n2024-01-15,-25.50,UBER TRIP\n"

	preview, err := p.Preview(File{Name: "wise_statement.csv", Content: []byte(csv)}, Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, preview.Sample.HeaderRowIndex)
	assert.NotEmpty(t, preview.Detections)
	assert.Equal(t, "wise", preview.Detections[0].BankName)
}

func TestTransform_MergesPairCategorization(t *testing.T) {
	p := newTestPipeline(t)
	parsed, err := p.Parse(File{Name: "wise_statement.csv", Content: []byte(
		"Date,Amount,Description\n2024-01-15,-10.00,Converted 10.00 USD to 9.20 EUR\n2024-01-15,9.20,Converted 10.00 USD to 9.20 EUR\n",
	)}, Options{})
	require.NoError(t, err)

	merged, result := p.Transform(parsed.Transactions, nil)
	require.Len(t, result.Pairs, 1)
	require.Len(t, merged, 2)
	for _, txn := range merged {
		assert.Equal(t, "Balance Correction", txn.Category)
	}
}
