package transfer

import (
	"fmt"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/shopspring/decimal"

	"github.com/hisaabflow/ledger/internal/ledger"
)

// matchKind identifies which cross-bank strategy produced a candidate
// match.
type matchKind struct {
	strategy      string
	confidence    float64
	matchedAmount decimal.Decimal
	details       string
}

// matchCrossBank pairs remaining candidates across banks (spec §4.8.3)
// after currency-conversion pairing has removed its matches. It returns
// every committed pair plus any ties flagged as conflicts (spec §4.8.5).
func matchCrossBank(candidates, allTxns []ledger.Transaction, opts Options, matched map[int]bool) ([]Pair, []Conflict) {
	var outgoing []ledger.Transaction
	for _, c := range candidates {
		if !matched[c.TransactionIndex] && c.Amount.IsNegative() {
			outgoing = append(outgoing, c)
		}
	}

	incomingPool := func() []ledger.Transaction {
		var out []ledger.Transaction
		for _, t := range allTxns {
			if !matched[t.TransactionIndex] && t.Amount.IsPositive() {
				out = append(out, t)
			}
		}
		return out
	}

	var pairs []Pair
	var conflicts []Conflict

	for _, out := range outgoing {
		if matched[out.TransactionIndex] {
			continue
		}

		type scoredMatch struct {
			incoming ledger.Transaction
			match    matchKind
		}
		var scored []scoredMatch

		for _, in := range incomingPool() {
			if matched[in.TransactionIndex] || in.SourceBank == out.SourceBank {
				continue
			}
			if !datesWithinTolerance(out.Date, in.Date, opts.DateToleranceHours) {
				continue
			}
			if !nameGatePasses(out, in, opts.UserName) {
				continue
			}

			if m, ok := bestStrategyMatch(out, in, opts.UserName); ok {
				scored = append(scored, scoredMatch{incoming: in, match: m})
			}
		}

		if len(scored) == 0 {
			continue
		}

		best := scored[0]
		for _, s := range scored[1:] {
			if s.match.confidence > best.match.confidence {
				best = s
			}
		}

		var tied []scoredMatch
		for _, s := range scored {
			if abs(s.match.confidence-best.match.confidence) <= conflictEpsilon {
				tied = append(tied, s)
			}
		}

		if len(tied) > 1 {
			var scoredIncoming []ScoredIncoming
			for _, t := range tied {
				scoredIncoming = append(scoredIncoming, ScoredIncoming{Incoming: t.incoming, Confidence: t.match.confidence})
			}
			conflicts = append(conflicts, Conflict{Outgoing: out, Candidates: scoredIncoming})
			continue
		}

		if best.match.confidence < opts.ConfidenceThreshold {
			continue
		}

		pairs = append(pairs, Pair{
			Outgoing:      out,
			Incoming:      best.incoming,
			Amount:        decimalToFloat(out.Amount.Abs()),
			MatchedAmount: decimalToFloat(best.match.matchedAmount),
			Confidence:    best.match.confidence,
			TransferType:  "cross_bank_" + best.match.strategy,
			MatchStrategy: best.match.strategy,
			MatchDetails:  best.match.details,
		})
		matched[out.TransactionIndex] = true
		matched[best.incoming.TransactionIndex] = true
	}

	return pairs, conflicts
}

// bestStrategyMatch evaluates strategies A (exchange-amount), B
// (traditional same-amount), and C (user-name flexible) in that priority
// order and returns the strongest one that applies (spec §4.8.3).
func bestStrategyMatch(out, in ledger.Transaction, userName string) (matchKind, bool) {
	var matches []matchKind

	if out.HasExchangeInfo() && currencyMatchesBank(out.ExchangeCurrency, in) {
		if decimalWithin(*out.ExchangeAmount, in.Amount, 0.01) {
			matches = append(matches, matchKind{
				strategy:      "exchange_amount",
				confidence:    crossBankConfidence(out, in, true, userName),
				matchedAmount: *out.ExchangeAmount,
				details:       fmt.Sprintf("Exchange %s %s", out.ExchangeAmount.String(), out.ExchangeCurrency),
			})
		}
	}

	if decimalWithin(out.Amount.Abs(), in.Amount, 0.01) {
		matches = append(matches, matchKind{
			strategy:      "traditional",
			confidence:    crossBankConfidence(out, in, false, userName),
			matchedAmount: out.Amount.Abs(),
			details:       fmt.Sprintf("Traditional %s", out.Amount.Abs().String()),
		})
	}

	// Strategy C relies on the user name; nameGatePasses has already checked
	// that both descriptions mention it when one is configured.
	if len(matches) == 0 && strings.TrimSpace(userName) != "" {
		pctDiff := percentDiff(out.Amount.Abs(), in.Amount)
		if pctDiff < 1.0 {
			confidence := crossBankConfidence(out, in, false, userName) - 0.1
			if confidence < 0.7 {
				confidence = 0.7
			}
			matches = append(matches, matchKind{
				strategy:      "flexible",
				confidence:    confidence,
				matchedAmount: in.Amount,
				details:       fmt.Sprintf("Flexible transfer with currency conversion %s %s -> %s %s", out.Amount.Abs().String(), out.Currency, in.Amount.String(), in.Currency),
			})
		}
	}

	if len(matches) == 0 {
		return matchKind{}, false
	}

	best := matches[0]
	for _, m := range matches[1:] {
		if m.confidence > best.confidence {
			best = m
		}
	}
	return best, true
}

// currencyMatchesBank reports whether currency matches the incoming
// transaction's own currency. A transaction with no currency set allows
// the match by default rather than blocking it (mirrors the leniency of
// the exchange-analyzer's original fallback).
func currencyMatchesBank(currency string, t ledger.Transaction) bool {
	if t.Currency == "" {
		return true
	}
	return strings.EqualFold(currency, t.Currency)
}

// percentDiff returns |a-b| / max(|a|,|b|) as a plain float64, matching
// spec §4.8.3 strategy C's "percentage difference" literal.
func percentDiff(a, b decimal.Decimal) float64 {
	denom := a
	if b.Abs().GreaterThan(a.Abs()) {
		denom = b
	}
	if denom.IsZero() {
		return 0
	}
	diff := a.Sub(b).Abs()
	f, _ := diff.Div(denom.Abs()).Float64()
	return f
}

// nameGatePasses implements the cross-bank name-based gate (spec §4.8.3):
// before any strategy applies, the outgoing/incoming description pair must
// reference the configured user in a "sent to"/"transfer from" shape, in
// either direction. Name comparisons use fuzzy subsequence matching
// (github.com/lithammer/fuzzysearch) to tolerate minor spelling variants of
// the user's name across banks that spell it differently.
func nameGatePasses(out, in ledger.Transaction, userName string) bool {
	if strings.TrimSpace(userName) == "" {
		return true // no configured name: gate is a no-op, strategies decide alone
	}

	outDesc := strings.ToLower(out.Description)
	inDesc := strings.ToLower(in.Description)
	name := strings.ToLower(userName)

	sentToUser := strings.Contains(outDesc, "sent") && strings.Contains(outDesc, "to") && mentionsName(outDesc, name)
	transferFromUser := strings.Contains(inDesc, "transfer from") && mentionsName(inDesc, name)
	incomingFundFromUser := strings.Contains(inDesc, "incoming") && strings.Contains(inDesc, "transfer") && strings.Contains(inDesc, "from") && mentionsName(inDesc, name)

	if sentToUser && (transferFromUser || incomingFundFromUser) {
		return true
	}

	// Reverse direction: outgoing "transfer to <user>", incoming "sent"/"received ... from <user>".
	transferToUser := strings.Contains(outDesc, "transfer to") && mentionsName(outDesc, name)
	receivedFromUser := (strings.Contains(inDesc, "received") || strings.Contains(inDesc, "sent")) && strings.Contains(inDesc, "from") && mentionsName(inDesc, name)

	return transferToUser && receivedFromUser
}

// mentionsName reports whether desc contains the user's name exactly, or a
// close fuzzy variant of it (handles "Ammar" vs "Ammar Qazi" vs a typo'd
// bank-truncated spelling).
func mentionsName(desc, name string) bool {
	if strings.Contains(desc, name) {
		return true
	}
	for _, word := range strings.Fields(desc) {
		if len(word) >= 3 && fuzzy.MatchFold(word, name) {
			return true
		}
	}
	return false
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
