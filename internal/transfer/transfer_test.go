package transfer

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hisaabflow/ledger/internal/ledger"
)

func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestDetect_CurrencyConversionPair(t *testing.T) {
	date := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	txns := []ledger.Transaction{
		{TransactionIndex: 1, Date: date, Amount: mustDecimal("-100.00"), Currency: "USD", Description: "Converted 100.00 USD to 92.50 EUR", SourceBank: "wise"},
		{TransactionIndex: 2, Date: date, Amount: mustDecimal("92.50"), Currency: "EUR", Description: "Converted 100.00 USD to 92.50 EUR", SourceBank: "wise"},
	}

	result := Detect(txns, Options{UserName: "Jane Doe"}, nil)
	require.Len(t, result.Pairs, 1)
	assert.Equal(t, "currency_conversion", result.Pairs[0].MatchStrategy)
	assert.GreaterOrEqual(t, result.Pairs[0].Confidence, 0.8)
	assert.Equal(t, "Balance Correction", result.Pairs[0].Outgoing.Category)
}

func TestDetect_CrossBankExchangeAmountMatch(t *testing.T) {
	date := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	exch := mustDecimal("5000.00")
	txns := []ledger.Transaction{
		{
			TransactionIndex: 1, Date: date, Amount: mustDecimal("-50.00"), Currency: "USD",
			Description: "Sent money to Jane Doe", SourceBank: "wise",
			ExchangeAmount: &exch, ExchangeCurrency: "PKR",
		},
		{
			TransactionIndex: 2, Date: date.Add(2 * time.Hour), Amount: mustDecimal("5000.00"), Currency: "PKR",
			Description: "Incoming fund transfer from Jane Doe", SourceBank: "nayapay",
		},
	}

	result := Detect(txns, Options{UserName: "Jane Doe", ConfidenceThreshold: 0.7}, nil)
	require.Len(t, result.Pairs, 1)
	assert.Equal(t, "exchange_amount", result.Pairs[0].MatchStrategy)
	assert.GreaterOrEqual(t, result.Pairs[0].Confidence, 0.9)
}

func TestDetect_NoMatchOutsideDateTolerance(t *testing.T) {
	date := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	txns := []ledger.Transaction{
		{TransactionIndex: 1, Date: date, Amount: mustDecimal("-50.00"), Currency: "USD", Description: "transfer to someone", SourceBank: "wise"},
		{TransactionIndex: 2, Date: date.Add(100 * time.Hour), Amount: mustDecimal("50.00"), Currency: "USD", Description: "transfer from someone", SourceBank: "nayapay"},
	}

	result := Detect(txns, Options{DateToleranceHours: 72}, nil)
	assert.Len(t, result.Pairs, 0)
}

func TestDetect_ConflictOnTiedMatches(t *testing.T) {
	date := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	txns := []ledger.Transaction{
		{TransactionIndex: 1, Date: date, Amount: mustDecimal("-100.00"), Currency: "USD", Description: "Sent money to Jane Doe", SourceBank: "wise"},
		{TransactionIndex: 2, Date: date, Amount: mustDecimal("100.00"), Currency: "USD", Description: "Incoming fund transfer from Jane Doe", SourceBank: "nayapay"},
		{TransactionIndex: 3, Date: date, Amount: mustDecimal("100.00"), Currency: "USD", Description: "Incoming fund transfer from Jane Doe", SourceBank: "meezan"},
	}

	result := Detect(txns, Options{UserName: "Jane Doe"}, nil)
	assert.Len(t, result.Pairs, 0)
	require.Len(t, result.Conflicts, 1)
	assert.Len(t, result.Conflicts[0].Candidates, 2)
}

func TestDetect_FlagsLargeUnmatchedNonCandidate(t *testing.T) {
	date := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	txns := []ledger.Transaction{
		{TransactionIndex: 1, Date: date, Amount: mustDecimal("-15000.00"), Currency: "USD", Description: "Large exchange settlement", SourceBank: "wise"},
	}

	result := Detect(txns, Options{}, nil)
	require.Len(t, result.FlaggedForReview, 1)
}

func TestDetect_ManualPairsCategorized(t *testing.T) {
	date := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	outgoing := ledger.Transaction{TransactionIndex: 1, Date: date, Amount: mustDecimal("-10.00"), Category: "Shopping"}
	incoming := ledger.Transaction{TransactionIndex: 2, Date: date, Amount: mustDecimal("10.00"), Category: "Shopping"}

	result := Detect(nil, Options{}, []Pair{{Outgoing: outgoing, Incoming: incoming, MatchStrategy: "manual"}})
	require.Len(t, result.Pairs, 1)
	assert.Equal(t, "Balance Correction", result.Pairs[0].Outgoing.Category)
	assert.Contains(t, result.Pairs[0].Outgoing.Note, "Transfer outgoing")
}
