package normalize

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize_KnownMerchant(t *testing.T) {
	s := NewMerchantSanitizer()
	info := s.Sanitize("POS 4829 UBER EATS SAN FRANCISCO")
	assert.True(t, info.Matched)
	assert.Equal(t, "Uber Eats", info.Name)
	assert.Equal(t, "Food & Dining", info.Category)
}

func TestSanitize_UnknownFallsBackToCleanup(t *testing.T) {
	s := NewMerchantSanitizer()
	info := s.Sanitize("POS 1234  some random shop   12/05")
	assert.False(t, info.Matched)
	assert.NotContains(t, info.Name, "POS")
	assert.NotContains(t, info.Name, "1234")
}

func TestAddPattern_TakesPriorityOverDefaults(t *testing.T) {
	s := NewMerchantSanitizer()
	s.AddPattern(MerchantPattern{
		Pattern:  regexp.MustCompile(`(?i)uber`),
		Name:     "Custom Uber Label",
		Category: "Custom",
	})
	info := s.Sanitize("UBER TRIP 123")
	assert.Equal(t, "Custom Uber Label", info.Name)
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Coffee Shop", titleCase("coffee shop"))
	assert.Equal(t, "", titleCase(""))
}
