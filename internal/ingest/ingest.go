// Package ingest orchestrates the full per-file pipeline — encoding
// detection, dialect detection, structure analysis, parsing, row
// processing, bank detection, and normalization — and fans it out across
// multiple input files concurrently. It is the library-level surface
// described as "the core as library" request boundary: Preview, Parse,
// ParseMany, Transform, DetectTransfersOnly.
package ingest

import (
	"fmt"

	"github.com/hisaabflow/ledger/internal/bankconfig"
	"github.com/hisaabflow/ledger/internal/ledger"
	"github.com/hisaabflow/ledger/pkg/config"
	"github.com/hisaabflow/ledger/internal/normalize"
	"github.com/hisaabflow/ledger/internal/transfer"
)

// File is one input to the pipeline: a filename (used for bank detection
// and account-name fallback) and its raw bytes.
type File struct {
	Name    string
	Content []byte
}

// Options tunes one pipeline run.
type Options struct {
	MaxRows  int // 0 = unlimited; non-zero enables preview-style truncation
	UserID   string
	StrictBankDetection bool // if true, ParseMany rejects a file whose best bank match isn't confident
}

// ParseResult is the outcome of running the full per-row pipeline over one
// file.
type ParseResult struct {
	File             string
	Bank             string
	BankConfident    bool
	DetectionResult  []bankconfig.DetectionResult
	Transactions     []ledger.Transaction
	RowErrors        []string
}

// Pipeline holds the shared, immutable collaborators every file's run
// reads from: the bank config registry and app-level settings. A Pipeline
// is safe for concurrent use.
type Pipeline struct {
	Registry  *bankconfig.Registry
	AppConfig *config.Config
	Overrides normalize.OverrideStore
}

// New creates a Pipeline. overrides may be normalize.NewMemOverrideStore()
// when no persistent store is wired in.
func New(registry *bankconfig.Registry, appConfig *config.Config, overrides normalize.OverrideStore) *Pipeline {
	if overrides == nil {
		overrides = normalize.NewMemOverrideStore()
	}
	return &Pipeline{Registry: registry, AppConfig: appConfig, Overrides: overrides}
}

// Transform runs transfer detection over a batch of already-normalized
// transactions and merges the resulting pair categorization back into the
// transaction list, matching spec's "transform" request-boundary
// operation: the caller gets back both the full transfer analysis and the
// updated canonical rows in one call.
func (p *Pipeline) Transform(txns []ledger.Transaction, manualPairs []transfer.Pair) ([]ledger.Transaction, transfer.Result) {
	opts := p.transferOptions()
	result := transfer.Detect(txns, opts, manualPairs)

	byIndex := make(map[int]ledger.Transaction, len(txns))
	for _, t := range txns {
		byIndex[t.TransactionIndex] = t
	}
	for _, pair := range result.Pairs {
		byIndex[pair.Outgoing.TransactionIndex] = pair.Outgoing
		byIndex[pair.Incoming.TransactionIndex] = pair.Incoming
	}

	merged := make([]ledger.Transaction, 0, len(txns))
	for _, t := range txns {
		merged = append(merged, byIndex[t.TransactionIndex])
	}

	return merged, result
}

// DetectTransfersOnly runs transfer detection without merging results back
// into the transaction set, for callers that already hold a previously
// transformed batch and just want the raw analysis (spec's
// "detect_transfers_only" operation).
func (p *Pipeline) DetectTransfersOnly(txns []ledger.Transaction, manualPairs []transfer.Pair) transfer.Result {
	return transfer.Detect(txns, p.transferOptions(), manualPairs)
}

func (p *Pipeline) transferOptions() transfer.Options {
	if p.AppConfig == nil {
		return transfer.Options{}
	}
	return transfer.Options{
		UserName:            p.AppConfig.UserName,
		DateToleranceHours:  p.AppConfig.DateToleranceHours,
		ConfidenceThreshold: p.AppConfig.ConfidenceThreshold,
		DefaultPairCategory: p.AppConfig.DefaultPairCategory,
	}
}

// errNoBankDetected is returned by Parse when StrictBankDetection is set
// and no bank clears bankconfig.ConfidentThreshold.
var errNoBankDetected = fmt.Errorf("ingest: no bank detected at confidence >= %.2f", bankconfig.ConfidentThreshold)

// ErrNoBankDetected reports whether err is the strict-mode detection
// failure, for callers mapping errors to the CLI's exit code 3.
func ErrNoBankDetected(err error) bool { return err == errNoBankDetected }
