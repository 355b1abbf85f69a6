package ingest

import (
	"github.com/hisaabflow/ledger/internal/bankconfig"
	"github.com/hisaabflow/ledger/internal/csvdialect"
	"github.com/hisaabflow/ledger/internal/csvparse"
	"github.com/hisaabflow/ledger/internal/structure"
	"github.com/hisaabflow/ledger/internal/textenc"
)

// defaultPreviewRows is how many data rows Preview returns when the caller
// doesn't specify MaxRows.
const defaultPreviewRows = 20

// PreviewResult is a lightweight look at a file before committing to a
// full parse: detected encoding, dialect, header guess, and the bank
// detector's best candidates, without running normalization.
type PreviewResult struct {
	Encoding    textenc.Result
	Dialect     csvdialect.Dialect
	Sample      structure.Sample
	Suggestions structure.ColumnSuggestions
	Detections  []bankconfig.DetectionResult
	TotalRows   int
}

// Preview inspects a file without normalizing any rows, matching spec's
// "preview" request-boundary operation.
func (p *Pipeline) Preview(file File, opts Options) (PreviewResult, error) {
	maxRows := opts.MaxRows
	if maxRows == 0 {
		maxRows = defaultPreviewRows
	}

	enc := textenc.Detect(file.Content)

	sample := enc.Text
	if len(sample) > dialectSampleBytes {
		sample = sample[:dialectSampleBytes]
	}
	dialect := csvdialect.Detect(sample)

	parsed := csvparse.Parse(enc.Text, dialect, csvparse.Options{MaxRows: maxRows})
	if parsed.Err != nil {
		return PreviewResult{Encoding: enc, Dialect: dialect}, parsed.Err
	}

	allRows := append([][]string{parsed.Header}, parsed.Rows...)
	structureSample := structure.BuildSample(allRows)
	suggestions := structure.SuggestColumns(parsed.Header)

	banks := p.Registry.All()
	detections := bankconfig.Detect(banks, file.Name, enc.Text, parsed.Header)

	return PreviewResult{
		Encoding:    enc,
		Dialect:     dialect,
		Sample:      structureSample,
		Suggestions: suggestions,
		Detections:  detections,
		TotalRows:   len(parsed.Rows),
	}, nil
}
