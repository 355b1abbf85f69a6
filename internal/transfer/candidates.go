package transfer

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hisaabflow/ledger/internal/ledger"
)

var largeUnmatchedDecimal = decimal.NewFromInt(largeUnmatchedThreshold)

// genericTransferPatterns match regardless of the configured user's name —
// these fire for any bank's generic transfer language.
var genericTransferPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)converted\s+[\d,.]+\s+[a-z]{3}\s+(from\s+[a-z]{3}\s+balance\s+)?to\s+[\d,.]+\s*[a-z]{3}`),
	regexp.MustCompile(`(?i)converted\s+[\d,.]+\s+[a-z]{3}`),
	regexp.MustCompile(`(?i)balance\s+after\s+converting`),
	regexp.MustCompile(`(?i)exchange\s+from\s+[a-z]{3}\s+to\s+[a-z]{3}`),
	regexp.MustCompile(`(?i)transfer\s+to\s+\w+`),
	regexp.MustCompile(`(?i)transfer\s+from\s+\w+`),
	regexp.MustCompile(`(?i)incoming\s+fund\s+transfer`),
	regexp.MustCompile(`(?i)fund\s+transfer\s+from`),
}

// userNamedPatterns builds the patterns that reference the configured
// user's display name (spec §4.8.1 "User-named" group). Returns nil if no
// user name is configured.
func userNamedPatterns(userName string) []*regexp.Regexp {
	if strings.TrimSpace(userName) == "" {
		return nil
	}
	name := regexp.QuoteMeta(strings.ToLower(userName))
	return []*regexp.Regexp{
		regexp.MustCompile(`(?i)sent\s+(money\s+)?to\s+` + name),
		regexp.MustCompile(`(?i)transfer\s+to\s+` + name),
		regexp.MustCompile(`(?i)transfer\s+from\s+` + name),
		regexp.MustCompile(`(?i)incoming.*transfer\s+from\s+` + name),
	}
}

// candidateDescription picks the first non-empty of Description/Note, the
// two free-text fields a transfer pattern could plausibly appear in.
func candidateDescription(t ledger.Transaction) string {
	if t.Description != "" {
		return t.Description
	}
	return t.Note
}

// isTransferCandidate reports whether t's description matches any transfer
// pattern (spec §4.8.1).
func isTransferCandidate(t ledger.Transaction, userName string) bool {
	desc := strings.ToLower(candidateDescription(t))
	for _, p := range userNamedPatterns(userName) {
		if p.MatchString(desc) {
			return true
		}
	}
	for _, p := range genericTransferPatterns {
		if p.MatchString(desc) {
			return true
		}
	}
	return false
}

// findCandidates returns every transaction whose description matches a
// transfer pattern, preserving input order.
func findCandidates(txns []ledger.Transaction, userName string) []ledger.Transaction {
	var out []ledger.Transaction
	for _, t := range txns {
		if isTransferCandidate(t, userName) {
			out = append(out, t)
		}
	}
	return out
}

// largeUnmatchedKeywords are the description keywords that make a
// non-candidate, large-amount transaction worth flagging for manual review
// (spec §4.8.5).
var largeUnmatchedKeywords = []string{"transfer", "convert", "exchange", "send"}

func containsLargeUnmatchedKeyword(description string) bool {
	lower := strings.ToLower(description)
	for _, kw := range largeUnmatchedKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// flagForReview returns every transaction that should be surfaced for
// manual attention: transfer candidates that never matched a pair, plus
// large non-candidate transactions whose description hints at a transfer.
func flagForReview(all, candidates []ledger.Transaction, matched map[int]bool, userName string) []ledger.Transaction {
	candidateIdx := map[int]bool{}
	for _, c := range candidates {
		candidateIdx[c.TransactionIndex] = true
	}

	var out []ledger.Transaction
	for _, c := range candidates {
		if !matched[c.TransactionIndex] {
			out = append(out, c)
		}
	}
	for _, t := range all {
		if candidateIdx[t.TransactionIndex] || matched[t.TransactionIndex] {
			continue
		}
		if t.Amount.Abs().GreaterThanOrEqual(largeUnmatchedDecimal) && containsLargeUnmatchedKeyword(candidateDescription(t)) {
			out = append(out, t)
		}
	}
	return out
}
