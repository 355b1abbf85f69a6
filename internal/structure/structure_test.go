package structure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindHeaderRow_WithPreamble(t *testing.T) {
	rows := [][]string{
		{"Account Statement"},
		{"Generated on 2024-01-01"},
		{""},
		{"Date", "Amount", "Description", "Balance"},
		{"2024-01-01", "10.00", "Coffee", "990.00"},
	}
	idx := FindHeaderRow(rows)
	assert.Equal(t, 3, idx)
}

func TestFindHeaderRow_NoPreamble(t *testing.T) {
	rows := [][]string{
		{"Date", "Amount", "Description"},
		{"2024-01-01", "10.00", "Coffee"},
	}
	assert.Equal(t, 0, FindHeaderRow(rows))
}

func TestFindHeaderRow_MultilingualHeader(t *testing.T) {
	rows := [][]string{
		{"Data", "Valor", "Descrição", "Saldo"},
		{"2024-01-01", "10,00", "Café", "990,00"},
	}
	assert.Equal(t, 0, FindHeaderRow(rows))
}

func TestFindHeaderRow_Headerless(t *testing.T) {
	rows := [][]string{
		{"2024-01-01", "10.00", "999"},
		{"2024-01-02", "20.00", "998"},
	}
	assert.Equal(t, -1, FindHeaderRow(rows))
}

func TestBuildSample(t *testing.T) {
	rows := [][]string{
		{"Preamble"},
		{"Date", "Amount", "Description"},
		{"2024-01-01", "10.00", "Coffee"},
		{"2024-01-02", "20.00", "Lunch"},
	}
	s := BuildSample(rows)
	require.Equal(t, 1, s.HeaderRowIndex)
	assert.Len(t, s.PreHeaderRows, 1)
	assert.Len(t, s.PostHeaderRows, 2)
}

func TestSuggestColumns_SingleAmount(t *testing.T) {
	cs := SuggestColumns([]string{"Date", "Description", "Amount", "Category"})
	assert.Equal(t, 0, cs.DateCol)
	assert.Equal(t, 1, cs.DescriptionCol)
	assert.Equal(t, 2, cs.AmountCol)
	assert.Equal(t, 3, cs.CategoryCol)
	assert.False(t, cs.IsDoubleEntry)
}

func TestSuggestColumns_DoubleEntry(t *testing.T) {
	cs := SuggestColumns([]string{"Date", "Description", "Debit", "Credit", "Balance"})
	assert.Equal(t, 2, cs.DebitCol)
	assert.Equal(t, 3, cs.CreditCol)
	assert.True(t, cs.IsDoubleEntry)
}
