package ingest

import (
	"github.com/hisaabflow/ledger/internal/bankconfig"
	"github.com/hisaabflow/ledger/internal/csvdialect"
	"github.com/hisaabflow/ledger/internal/csvparse"
	"github.com/hisaabflow/ledger/internal/ledger"
	"github.com/hisaabflow/ledger/internal/normalize"
	"github.com/hisaabflow/ledger/internal/rowset"
	"github.com/hisaabflow/ledger/internal/structure"
	"github.com/hisaabflow/ledger/internal/textenc"
)

// dialectSampleBytes caps how much decoded text dialect detection inspects;
// a few KB is enough to see consistent delimiter/quote behavior.
const dialectSampleBytes = 64 * 1024

// Parse runs the full single-file pipeline: encoding detection, dialect
// detection, parsing-strategy fallback, row processing, bank detection,
// and normalization. It never returns an error for a merely low-confidence
// bank match — callers decide what StrictBankDetection means via
// BankConfident on the result, except when opts.StrictBankDetection is set,
// in which case Parse itself returns errNoBankDetected.
func (p *Pipeline) Parse(file File, opts Options) (ParseResult, error) {
	enc := textenc.Detect(file.Content)

	sample := enc.Text
	if len(sample) > dialectSampleBytes {
		sample = sample[:dialectSampleBytes]
	}
	dialect := csvdialect.Detect(sample)

	parsed := csvparse.Parse(enc.Text, dialect, csvparse.Options{MaxRows: opts.MaxRows})
	if parsed.Err != nil {
		return ParseResult{File: file.Name}, parsed.Err
	}

	rows := rowset.Process(parsed.Header, parsed.Rows)

	banks := p.Registry.All()
	detections := bankconfig.Detect(banks, file.Name, enc.Text, parsed.Header)

	var bankName string
	var confident bool
	var cfg *bankconfig.BankConfig
	if len(detections) > 0 {
		bankName = detections[0].BankName
		confident = detections[0].IsConfident()
		cfg, _ = p.Registry.Get(bankName)
	}

	if opts.StrictBankDetection && !confident {
		return ParseResult{File: file.Name, DetectionResult: detections}, errNoBankDetected
	}

	if cfg == nil {
		cfg = &bankconfig.BankConfig{Name: "unknown", ColumnMapping: guessColumnMapping(parsed.Header)}
	}

	normalizer := normalize.New(p.Overrides)

	var txns []ledger.Transaction
	var rowErrors []string
	for i, row := range rows {
		txn, err := normalizer.Normalize(cfg, row, file.Name, i+1, opts.UserID)
		if err != nil {
			rowErrors = append(rowErrors, err.Error())
			continue
		}
		txns = append(txns, txn)
	}

	return ParseResult{
		File:            file.Name,
		Bank:            bankName,
		BankConfident:   confident,
		DetectionResult: detections,
		Transactions:    txns,
		RowErrors:       rowErrors,
	}, nil
}

// guessColumnMapping builds a best-effort column mapping for files with no
// matching bank config, using the structure package's role-suggestion
// heuristic so an unrecognized bank still produces usable transactions.
func guessColumnMapping(header []string) map[string]string {
	suggestions := structure.SuggestColumns(header)
	mapping := map[string]string{}
	assign := func(role string, idx int) {
		if idx >= 0 && idx < len(header) {
			mapping[role] = header[idx]
		}
	}
	assign("date", suggestions.DateCol)
	assign("description", suggestions.DescriptionCol)
	assign("amount", suggestions.AmountCol)
	assign("debit", suggestions.DebitCol)
	assign("credit", suggestions.CreditCol)
	assign("category", suggestions.CategoryCol)
	assign("balance", suggestions.BalanceCol)
	return mapping
}
