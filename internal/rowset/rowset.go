// Package rowset turns a raw [][]string CSV body plus a header row into a
// slice of ordered-key maps, the shape every later pipeline stage operates
// on. It normalizes ragged column counts, drops blank rows, and sanitizes
// NaN/null placeholders some banks leave in empty cells.
package rowset

import "strings"

var nullPlaceholders = map[string]bool{
	"nan": true, "null": true, "none": true, "n/a": true, "na": true, "-": true,
}

// Row is an ordered-key view over one data row: Values preserves the raw
// column order while Named provides name-based lookup.
type Row struct {
	Values []string
	Named  map[string]string
}

// Process converts raw rows into named Rows, padding/truncating to the
// header's column count and synthesizing "Column_N" names for any header
// cell that is blank.
func Process(header []string, rows [][]string) []Row {
	names := resolveNames(header)
	out := make([]Row, 0, len(rows))

	for _, r := range rows {
		if isBlankRow(r) {
			continue
		}
		values := normalizeWidth(r, len(names))
		named := make(map[string]string, len(names))
		for i, name := range names {
			named[name] = sanitize(values[i])
		}
		out = append(out, Row{Values: values, Named: named})
	}
	return out
}

func resolveNames(header []string) []string {
	names := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			h = columnFallbackName(i)
		}
		names[i] = h
	}
	return names
}

func columnFallbackName(i int) string {
	return "Column_" + itoa(i+1)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	pos := len(buf)
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[pos:])
}

func normalizeWidth(row []string, width int) []string {
	if len(row) == width {
		return row
	}
	out := make([]string, width)
	copy(out, row)
	return out
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func sanitize(cell string) string {
	trimmed := strings.TrimSpace(cell)
	if nullPlaceholders[strings.ToLower(trimmed)] {
		return ""
	}
	return trimmed
}
