// Package transfer detects internal, cross-bank, and cross-currency
// transfers across a set of already-normalized ledger.Transaction values.
// It runs as a single-threaded reduce over the full transaction set after
// every file's per-row pipeline has completed (see package ingest) — pair
// commitment mutates a shared matched-index set, so it is never safe to
// parallelize across transactions.
package transfer

import (
	"fmt"

	"github.com/hisaabflow/ledger/internal/ledger"
)

// Options configures one detection run. UserName, DateToleranceHours, and
// ConfidenceThreshold mirror the AppConfig fields in package config.
type Options struct {
	UserName            string
	DateToleranceHours  int
	ConfidenceThreshold float64
	DefaultPairCategory string
}

// conflictEpsilon is the tie-break tolerance for two incoming candidates
// both scoring the same confidence against one outgoing transaction.
const conflictEpsilon = 0.01

// largeUnmatchedThreshold flags large non-candidate transactions for
// manual review even when no transfer pattern matched their description.
const largeUnmatchedThreshold = 10000

// Pair is one committed transfer: an outgoing (negative-amount) and
// incoming (positive-amount) transaction judged to be the two sides of a
// single transfer.
type Pair struct {
	Outgoing      ledger.Transaction
	Incoming      ledger.Transaction
	Amount        float64 // absolute value of the outgoing amount
	MatchedAmount float64
	Confidence    float64
	PairID        string
	TransferType  string // "currency_conversion" or "cross_bank_<strategy>"
	MatchStrategy string // "currency_conversion", "exchange_amount", "traditional", "flexible"
	MatchDetails  string
}

// ScoredIncoming is one candidate incoming transaction considered (and
// rejected) for a conflicted outgoing transaction.
type ScoredIncoming struct {
	Incoming   ledger.Transaction
	Confidence float64
}

// Conflict records an outgoing transaction with two or more incoming
// candidates tied for the best match — neither side is committed, and the
// decision is deferred to manual review.
type Conflict struct {
	Outgoing   ledger.Transaction
	Candidates []ScoredIncoming
}

// Summary is the aggregate count block returned alongside detection
// results, mirroring the external-facing JSON summary shape.
type Summary struct {
	TotalTransactions    int
	TransferPairsFound   int
	CurrencyConversions  int
	CrossBankTransfers   int
	PotentialTransfers   int
	Conflicts            int
	FlaggedForReview     int
}

// Result is the full output of a detection run.
type Result struct {
	Pairs               []Pair
	PotentialCandidates []ledger.Transaction
	Conflicts           []Conflict
	FlaggedForReview    []ledger.Transaction
	Summary             Summary
}

// Detect runs the full transfer-detection pipeline (§4.8.1–4.8.6 of the
// system's design) over txns: candidate identification, intra-bank
// currency-conversion pairing, cross-bank pairing, conflict detection, and
// final categorization of every committed pair. manualPairs are
// caller-confirmed pairs interleaved with auto-detected ones in the same
// categorization pass (spec'd precedent: a human's pairing decision is
// trusted exactly like an auto-detected one once supplied).
func Detect(txns []ledger.Transaction, opts Options, manualPairs []Pair) Result {
	opts = withDefaults(opts)
	matched := map[int]bool{}

	for _, p := range manualPairs {
		matched[p.Outgoing.TransactionIndex] = true
		matched[p.Incoming.TransactionIndex] = true
	}

	candidates := findCandidates(txns, opts.UserName)

	conversionPairs := matchCurrencyConversions(candidates, opts, matched)

	crossBankPairs, conflicts := matchCrossBank(candidates, txns, opts, matched)

	allPairs := make([]Pair, 0, len(manualPairs)+len(conversionPairs)+len(crossBankPairs))
	allPairs = append(allPairs, manualPairs...)
	allPairs = append(allPairs, conversionPairs...)
	allPairs = append(allPairs, crossBankPairs...)

	for i := range allPairs {
		allPairs[i].PairID = fmt.Sprintf("pair_%d", i)
		categorizePair(&allPairs[i], opts.DefaultPairCategory)
	}

	potential := unmatchedCandidates(candidates, matched)
	flagged := flagForReview(txns, candidates, matched, opts.UserName)

	return Result{
		Pairs:               allPairs,
		PotentialCandidates: potential,
		Conflicts:           conflicts,
		FlaggedForReview:    flagged,
		Summary: Summary{
			TotalTransactions:   len(txns),
			TransferPairsFound:  len(allPairs),
			CurrencyConversions: len(conversionPairs),
			CrossBankTransfers:  len(crossBankPairs),
			PotentialTransfers:  len(potential),
			Conflicts:           len(conflicts),
			FlaggedForReview:    len(flagged),
		},
	}
}

func withDefaults(opts Options) Options {
	if opts.DateToleranceHours == 0 {
		opts.DateToleranceHours = 72
	}
	if opts.ConfidenceThreshold == 0 {
		opts.ConfidenceThreshold = 0.7
	}
	if opts.DefaultPairCategory == "" {
		opts.DefaultPairCategory = "Balance Correction"
	}
	return opts
}

// categorizePair supersedes any earlier keyword categorization on both
// member transactions of a committed pair (§4.8.6): the category becomes
// the configured default pair category, and a transfer tag is appended to
// each side's note.
func categorizePair(p *Pair, defaultCategory string) {
	p.Outgoing.Category = defaultCategory
	p.Incoming.Category = defaultCategory

	p.Outgoing.Note = appendNote(p.Outgoing.Note, fmt.Sprintf("Transfer outgoing (Pair: %s, Strategy: %s)", p.PairID, p.MatchStrategy))
	p.Incoming.Note = appendNote(p.Incoming.Note, fmt.Sprintf("Transfer incoming (Pair: %s, Strategy: %s)", p.PairID, p.MatchStrategy))
}

func appendNote(existing, tag string) string {
	if existing == "" {
		return tag
	}
	return existing + " | " + tag
}

func unmatchedCandidates(candidates []ledger.Transaction, matched map[int]bool) []ledger.Transaction {
	var out []ledger.Transaction
	for _, c := range candidates {
		if !matched[c.TransactionIndex] {
			out = append(out, c)
		}
	}
	return out
}
