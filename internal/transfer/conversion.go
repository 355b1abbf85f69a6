package transfer

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hisaabflow/ledger/internal/ledger"
)

// conversionInfo is a parsed "Converted X USD to Y EUR"-style descriptor.
type conversionInfo struct {
	FromAmount   decimal.Decimal
	FromCurrency string
	ToAmount     decimal.Decimal
	ToCurrency   string
}

func (c conversionInfo) Equals(o conversionInfo) bool {
	return c.FromAmount.Equal(o.FromAmount) && c.ToAmount.Equal(o.ToAmount) &&
		c.FromCurrency == o.FromCurrency && c.ToCurrency == o.ToCurrency
}

// conversionPatterns extract (from_amount, from_currency, to_amount,
// to_currency) from a conversion description, tried in order from most to
// least specific.
var conversionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)converted\s+([\d,.]+)\s+(\w{3})\s+(?:from\s+\w{3}\s+balance\s+)?to\s+([\d,.]+)\s*(\w{3})`),
	regexp.MustCompile(`(?i)converted\s+([\d,.]+)\s+(\w{3}).*?to\s+([\d,.]+)\s*(\w{3})`),
}

// extractConversionInfo parses a currency-conversion descriptor out of a
// description, or returns ok=false if none of the conversion patterns
// match.
func extractConversionInfo(description string) (conversionInfo, bool) {
	for _, pattern := range conversionPatterns {
		m := pattern.FindStringSubmatch(description)
		if m == nil {
			continue
		}
		fromAmount, err1 := parseDecimalLoose(m[1])
		toAmount, err2 := parseDecimalLoose(m[3])
		if err1 != nil || err2 != nil {
			continue
		}
		return conversionInfo{
			FromAmount:   fromAmount,
			FromCurrency: strings.ToUpper(m[2]),
			ToAmount:     toAmount,
			ToCurrency:   strings.ToUpper(m[4]),
		}, true
	}
	return conversionInfo{}, false
}

func parseDecimalLoose(raw string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(raw, ",", "")
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return decimal.NewFromFloat(f), nil
}

// conversionCandidate is a transaction paired with its parsed conversion
// descriptor.
type conversionCandidate struct {
	Transaction ledger.Transaction
	Info        conversionInfo
}

// matchCurrencyConversions pairs intra-bank currency-conversion
// transactions (spec §4.8.2): two candidates whose descriptors agree,
// opposite amount signs, same-or-near date, each absolute amount equal to
// either side of the descriptor.
func matchCurrencyConversions(candidates []ledger.Transaction, opts Options, matched map[int]bool) []Pair {
	var conversionCandidates []conversionCandidate
	for _, c := range candidates {
		if matched[c.TransactionIndex] {
			continue
		}
		if info, ok := extractConversionInfo(strings.ToLower(c.Description)); ok {
			conversionCandidates = append(conversionCandidates, conversionCandidate{Transaction: c, Info: info})
		}
	}

	var pairs []Pair
	for i := 0; i < len(conversionCandidates); i++ {
		c1 := conversionCandidates[i]
		if matched[c1.Transaction.TransactionIndex] {
			continue
		}
		for j := i + 1; j < len(conversionCandidates); j++ {
			c2 := conversionCandidates[j]
			if matched[c2.Transaction.TransactionIndex] {
				continue
			}
			if !isMatchingConversion(c1, c2) {
				continue
			}
			if !datesWithinTolerance(c1.Transaction.Date, c2.Transaction.Date, opts.DateToleranceHours) {
				continue
			}

			outgoing, incoming := c1, c2
			if outgoing.Transaction.Amount.IsPositive() {
				outgoing, incoming = c2, c1
			}
			if !outgoing.Transaction.Amount.IsNegative() || !incoming.Transaction.Amount.IsPositive() {
				continue
			}

			confidence := conversionConfidence(outgoing.Transaction, incoming.Transaction, outgoing.Info, incoming.Info)

			pairs = append(pairs, Pair{
				Outgoing:      outgoing.Transaction,
				Incoming:      incoming.Transaction,
				Amount:        decimalToFloat(outgoing.Transaction.Amount.Abs()),
				MatchedAmount: decimalToFloat(outgoing.Info.FromAmount),
				Confidence:    confidence,
				TransferType:  "currency_conversion",
				MatchStrategy: "currency_conversion",
				MatchDetails:  "Currency conversion " + outgoing.Info.FromCurrency + " -> " + outgoing.Info.ToCurrency,
			})

			matched[outgoing.Transaction.TransactionIndex] = true
			matched[incoming.Transaction.TransactionIndex] = true
			break
		}
	}
	return pairs
}

// isMatchingConversion reports whether two conversion descriptors describe
// the same conversion: matching from/to amounts within 0.01 and matching
// currencies, with each transaction's own absolute amount equal to one
// side of its own descriptor.
func isMatchingConversion(a, b conversionCandidate) bool {
	if !decimalWithin(a.Info.FromAmount, b.Info.FromAmount, 0.01) ||
		!decimalWithin(a.Info.ToAmount, b.Info.ToAmount, 0.01) ||
		a.Info.FromCurrency != b.Info.FromCurrency ||
		a.Info.ToCurrency != b.Info.ToCurrency {
		return false
	}
	if a.Transaction.Amount.Sign() == b.Transaction.Amount.Sign() {
		return false
	}
	return amountMatchesEitherSide(a) && amountMatchesEitherSide(b)
}

func amountMatchesEitherSide(c conversionCandidate) bool {
	abs := c.Transaction.Amount.Abs()
	return decimalWithin(abs, c.Info.FromAmount, 0.01) || decimalWithin(abs, c.Info.ToAmount, 0.01)
}

func decimalToFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
