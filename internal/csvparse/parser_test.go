package csvparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hisaabflow/ledger/internal/csvdialect"
)

func TestParse_GoCSVStrategySucceedsOnWellFormedCSV(t *testing.T) {
	text := "Date,Amount,Description\n2024-01-01,10.00,Coffee\n2024-01-02,20.00,Lunch\n"
	d := csvdialect.Detect(text)

	res := Parse(text, d, Options{})
	require.NoError(t, res.Err)
	assert.Equal(t, StrategyGoCSV, res.StrategyUsed)
	assert.Equal(t, []string{"Date", "Amount", "Description"}, res.Header)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, "Coffee", res.Rows[0][2])
}

func TestParse_SemicolonDelimiter(t *testing.T) {
	text := "Date;Amount;Description\n2024-01-01;10,00;Kaffee\n"
	d := csvdialect.Detect(text)

	res := Parse(text, d, Options{})
	require.NoError(t, res.Err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "Kaffee", res.Rows[0][2])
}

func TestParse_MaxRows(t *testing.T) {
	text := "Date,Amount\n1,1\n2,2\n3,3\n"
	d := csvdialect.Detect(text)

	res := Parse(text, d, Options{MaxRows: 2})
	require.NoError(t, res.Err)
	assert.Len(t, res.Rows, 2)
}

func TestParseManual_HandlesStrayQuotes(t *testing.T) {
	d := csvdialect.Dialect{Delimiter: ','}
	text := "Date,Amount,Description\n2024-01-01,10.00,Bob's \"Diner\"\n"

	res := parseManual(text, d, Options{})
	require.NoError(t, res.Err)
	require.Len(t, res.Rows, 1)
	assert.Contains(t, res.Rows[0][2], "Diner")
}

func TestParse_EmptyTextFails(t *testing.T) {
	d := csvdialect.Dialect{Delimiter: ','}
	res := Parse("", d, Options{})
	assert.Error(t, res.Err)
}

func TestSkipLines(t *testing.T) {
	text := "preamble\nmore preamble\nDate,Amount\n1,1\n"
	out := skipLines(text, 2)
	assert.Equal(t, "Date,Amount\n1,1", out)
}
