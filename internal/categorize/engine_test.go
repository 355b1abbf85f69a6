package categorize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hisaabflow/ledger/internal/bankconfig"
)

func sampleBanks() []*bankconfig.BankConfig {
	return []*bankconfig.BankConfig{
		{
			Name: "wise",
			CategorizationRules: []bankconfig.CategoryRule{
				{Pattern: "uber eats", Category: "Food & Dining"},
				{Pattern: "uber", Category: "Transport"},
			},
		},
		{
			Name: "revolut",
			DefaultCategoryRules: []bankconfig.CategoryRule{
				{Pattern: "netflix", Category: "Entertainment"},
			},
		},
	}
}

func TestBuild_LongestPatternWins(t *testing.T) {
	e := Build(sampleBanks())
	require.False(t, e.IsEmpty())
	assert.Equal(t, 3, e.PatternCount())

	assert.Equal(t, "Food & Dining", e.Match("UBER EATS ORDER 123"))
	assert.Equal(t, "Transport", e.Match("UBER TRIP 456"))
}

func TestBuild_NoMatch(t *testing.T) {
	e := Build(sampleBanks())
	assert.Equal(t, "", e.Match("unrelated purchase"))
}

func TestBuild_CrossBankPatterns(t *testing.T) {
	e := Build(sampleBanks())
	assert.Equal(t, "Entertainment", e.Match("NETFLIX.COM MONTHLY"))
}

func TestMatchBatch(t *testing.T) {
	e := Build(sampleBanks())
	got := e.MatchBatch([]string{"uber eats", "netflix", "nothing here"})
	assert.Equal(t, []string{"Food & Dining", "Entertainment", ""}, got)
}

func TestEmptyEngine(t *testing.T) {
	e := Build(nil)
	assert.True(t, e.IsEmpty())
	assert.Equal(t, "", e.Match("anything"))
}
