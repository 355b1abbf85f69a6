// Package csvparse turns decoded CSV text into rows using a three-strategy
// fallback chain: a struct-tag/library decode first, a configured stdlib
// reader second, and a hand-rolled character scanner last, for the files
// that defeat both (embedded stray quotes, inconsistent field counts).
package csvparse

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/gocarina/gocsv"

	"github.com/hisaabflow/ledger/internal/csvdialect"
)

// Strategy names the parsing approach that produced a Result.
type Strategy string

const (
	StrategyGoCSV  Strategy = "gocsv"
	StrategyStdlib Strategy = "stdlib"
	StrategyManual Strategy = "manual"
)

// Result is the outcome of one parse attempt.
type Result struct {
	Header       []string
	Rows         [][]string
	StrategyUsed Strategy
	Err          error
}

// Options configures how many rows to read, useful for preview mode.
type Options struct {
	MaxRows  int // 0 = unlimited
	StartRow int // skip this many rows before the header
}

// Parse runs the fallback chain against already-decoded text, returning the
// first strategy that succeeds.
func Parse(text string, dialect csvdialect.Dialect, opts Options) Result {
	if opts.StartRow > 0 {
		text = skipLines(text, opts.StartRow)
	}

	if res := parseWithGoCSV(text, dialect, opts); res.Err == nil {
		return res
	}
	if res := parseWithStdlib(text, dialect, opts); res.Err == nil {
		return res
	}
	return parseManual(text, dialect, opts)
}

// gocsvMu serializes access to gocsv's process-wide CSVReader hook, which is
// not safe to reconfigure from concurrent per-file goroutines.
var gocsvMu sync.Mutex

func parseWithGoCSV(text string, dialect csvdialect.Dialect, opts Options) Result {
	gocsvMu.Lock()
	defer gocsvMu.Unlock()

	defer func() { gocsv.SetCSVReader(gocsv.DefaultCSVReader) }()
	gocsv.SetCSVReader(func(r io.Reader) gocsv.CSVReader {
		cr := csv.NewReader(r)
		cr.Comma = dialect.Delimiter
		cr.LazyQuotes = true
		cr.FieldsPerRecord = -1
		return cr
	})

	maps, err := gocsv.CSVToMaps(strings.NewReader(text))
	if err != nil {
		return Result{Err: fmt.Errorf("gocsv: %w", err)}
	}
	if len(maps) == 0 {
		return Result{Err: fmt.Errorf("gocsv: no rows")}
	}

	header := orderedHeaderFromFirstLine(text, dialect.Delimiter)
	rows := make([][]string, 0, len(maps))
	for _, m := range maps {
		row := make([]string, len(header))
		for i, h := range header {
			row[i] = m[h]
		}
		rows = append(rows, row)
		if opts.MaxRows > 0 && len(rows) >= opts.MaxRows {
			break
		}
	}
	return Result{Header: header, Rows: rows, StrategyUsed: StrategyGoCSV}
}

func parseWithStdlib(text string, dialect csvdialect.Dialect, opts Options) Result {
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = dialect.Delimiter
	r.LazyQuotes = true
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	all, err := r.ReadAll()
	if err != nil {
		return Result{Err: fmt.Errorf("stdlib csv: %w", err)}
	}
	if len(all) == 0 {
		return Result{Err: fmt.Errorf("stdlib csv: no rows")}
	}

	header := all[0]
	rows := all[1:]
	if opts.MaxRows > 0 && len(rows) > opts.MaxRows {
		rows = rows[:opts.MaxRows]
	}
	return Result{Header: header, Rows: rows, StrategyUsed: StrategyStdlib}
}

// parseManual is a hand-rolled character scanner for files whose quoting is
// too irregular for encoding/csv's strict RFC 4180 state machine (stray
// quotes, mismatched quote counts). Only '"' is treated as a quote, a
// doubled '"' inside quotes is a literal quote, and every delimiter outside
// quotes ends a field.
func parseManual(text string, dialect csvdialect.Dialect, opts Options) Result {
	var rows [][]string
	var field strings.Builder
	var row []string
	inQuotes := false

	flushField := func() {
		row = append(row, field.String())
		field.Reset()
	}
	flushRow := func() {
		flushField()
		rows = append(rows, row)
		row = nil
	}

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case inQuotes:
			if c == '"' {
				if i+1 < len(runes) && runes[i+1] == '"' {
					field.WriteRune('"')
					i++
				} else {
					inQuotes = false
				}
			} else {
				field.WriteRune(c)
			}
		case c == '"':
			inQuotes = true
		case c == dialect.Delimiter:
			flushField()
		case c == '\n':
			flushRow()
		case c == '\r':
			// consumed; paired \n (if any) handled on the next iteration
		default:
			field.WriteRune(c)
		}
	}
	if field.Len() > 0 || len(row) > 0 {
		flushRow()
	}

	if len(rows) == 0 {
		return Result{Err: fmt.Errorf("manual: no rows")}
	}

	header := rows[0]
	dataRows := rows[1:]
	if opts.MaxRows > 0 && len(dataRows) > opts.MaxRows {
		dataRows = dataRows[:opts.MaxRows]
	}
	return Result{Header: header, Rows: dataRows, StrategyUsed: StrategyManual}
}

func orderedHeaderFromFirstLine(text string, delim rune) []string {
	line, _, _ := strings.Cut(text, "\n")
	line = strings.TrimSuffix(line, "\r")
	fields := strings.Split(line, string(delim))
	for i, f := range fields {
		fields[i] = strings.Trim(strings.TrimSpace(f), `"`)
	}
	return fields
}

func skipLines(text string, n int) string {
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	var kept []string
	skipped := 0
	for scanner.Scan() {
		if skipped < n {
			skipped++
			continue
		}
		kept = append(kept, scanner.Text())
	}
	return strings.Join(kept, "\n")
}
