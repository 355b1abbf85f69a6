package transfer

import (
	"strings"
	"time"

	"github.com/hisaabflow/ledger/internal/ledger"
)

const maxConfidence = 1.0

// crossBankConfidence implements spec §4.8.4's scoring formula: base 0.5,
// plus bonuses for cross-bank, exchange-strategy match, same-day dates, and
// a shared mention of the configured user name.
func crossBankConfidence(outgoing, incoming ledger.Transaction, isExchangeMatch bool, userName string) float64 {
	confidence := 0.5
	if outgoing.SourceBank != incoming.SourceBank {
		confidence += 0.2
	}
	if isExchangeMatch {
		confidence += 0.3
	}
	if sameCalendarDay(outgoing.Date, incoming.Date) {
		confidence += 0.2
	}
	if userName != "" && bothContain(outgoing.Description, incoming.Description, userName) {
		confidence += 0.1
	}
	return capConfidence(confidence)
}

// conversionConfidence implements spec §4.8.2's scoring formula for an
// intra-bank currency-conversion pair.
func conversionConfidence(outgoing, incoming ledger.Transaction, conv1, conv2 conversionInfo) float64 {
	confidence := 0.5

	outAmount := outgoing.Amount.Abs()
	inAmount := incoming.Amount.Abs()
	if decimalWithin(outAmount, conv1.FromAmount, 0.01) && decimalWithin(inAmount, conv1.ToAmount, 0.01) {
		confidence += 0.3
	}
	if sameCalendarDay(outgoing.Date, incoming.Date) {
		confidence += 0.2
	}
	if bothContain(outgoing.Description, incoming.Description, "converted") {
		confidence += 0.2
	}
	if conv1.Equals(conv2) {
		confidence += 0.1
	}
	return capConfidence(confidence)
}

func capConfidence(c float64) float64 {
	if c > maxConfidence {
		return maxConfidence
	}
	return c
}

func bothContain(a, b, substr string) bool {
	substr = strings.ToLower(substr)
	return strings.Contains(strings.ToLower(a), substr) && strings.Contains(strings.ToLower(b), substr)
}

func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
