// Package structure locates the header row inside a raw CSV sample (bank
// exports routinely carry a handful of preamble rows: account summaries,
// report titles, blank separators) and suggests which column plays which
// canonical role.
package structure

import (
	"strings"
)

// headerKeywords lists finance-statement header terms across the languages
// seen in the bundled configs (English, Portuguese, Spanish), so a
// multilingual export still scores its header row correctly.
var headerKeywords = map[string]int{
	"date": 3, "data": 3, "fecha": 3,
	"amount": 3, "valor": 3, "montante": 3, "importe": 3,
	"description": 3, "descrição": 3, "descricao": 3, "descripción": 3, "descripcion": 3,
	"debit": 2, "débito": 2, "debito": 2,
	"credit": 2, "crédito": 2, "credito": 2,
	"balance": 2, "saldo": 2,
	"category": 2, "categoria": 2, "categoría": 2,
	"currency": 2, "moeda": 2, "divisa": 2,
	"account": 1, "conta": 1, "cuenta": 1,
	"reference": 1, "referência": 1, "referencia": 1,
	"type": 1, "tipo": 1,
}

// Sample is a window of rows captured around a candidate header row.
type Sample struct {
	PreHeaderRows  [][]string
	HeaderRow      []string
	HeaderRowIndex int
	PostHeaderRows [][]string
}

// ColumnSuggestions maps canonical roles to column indices in HeaderRow, -1
// when a role could not be found.
type ColumnSuggestions struct {
	DateCol        int
	DescriptionCol int
	AmountCol      int
	DebitCol       int
	CreditCol      int
	CategoryCol    int
	BalanceCol     int
	IsDoubleEntry  bool
}

const (
	maxPreHeaderScan  = 15
	postHeaderContext = 5
)

// FindHeaderRow scores each of the first maxPreHeaderScan rows by keyword
// matches plus a bonus for having mostly non-numeric cells (a real header
// row rarely looks like a data row), and returns the best-scoring index.
// A headerless file (no row scores above zero) returns -1.
func FindHeaderRow(rows [][]string) int {
	best := -1
	bestScore := 0
	limit := len(rows)
	if limit > maxPreHeaderScan {
		limit = maxPreHeaderScan
	}
	for i := 0; i < limit; i++ {
		score := scoreHeaderRow(rows[i])
		if score > bestScore {
			bestScore = score
			best = i
		}
	}
	return best
}

func scoreHeaderRow(row []string) int {
	score := 0
	nonNumeric := 0
	for _, cell := range row {
		cleaned := strings.ToLower(strings.TrimSpace(cell))
		if cleaned == "" {
			continue
		}
		for kw, points := range headerKeywords {
			if strings.Contains(cleaned, kw) {
				score += points
				break
			}
		}
		if !looksNumeric(cleaned) {
			nonNumeric++
		}
	}
	if len(row) > 0 && nonNumeric == len(row) {
		score++
	}
	return score
}

func looksNumeric(s string) bool {
	if s == "" {
		return false
	}
	digits := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return float64(digits)/float64(len(s)) > 0.5
}

// BuildSample extracts the header row plus surrounding context for a
// structural preview.
func BuildSample(rows [][]string) Sample {
	idx := FindHeaderRow(rows)
	if idx < 0 {
		return Sample{HeaderRowIndex: -1}
	}

	s := Sample{HeaderRowIndex: idx, HeaderRow: rows[idx]}
	if idx > 0 {
		s.PreHeaderRows = rows[:idx]
	}
	end := idx + 1 + postHeaderContext
	if end > len(rows) {
		end = len(rows)
	}
	if idx+1 < end {
		s.PostHeaderRows = rows[idx+1 : end]
	}
	return s
}

var roleKeywords = map[string][]string{
	"date":        {"date", "data", "fecha"},
	"description": {"description", "descrição", "descricao", "descripción", "descripcion", "merchant", "memo", "narrative"},
	"amount":      {"amount", "valor", "montante", "importe"},
	"debit":       {"debit", "débito", "debito", "withdrawal"},
	"credit":      {"credit", "crédito", "credito", "deposit"},
	"category":    {"category", "categoria", "categoría"},
	"balance":     {"balance", "saldo"},
}

// SuggestColumns maps a header row's columns to canonical roles, and
// detects whether the file uses a single signed Amount column or a
// double-entry Debit/Credit pair.
func SuggestColumns(header []string) ColumnSuggestions {
	cs := ColumnSuggestions{DateCol: -1, DescriptionCol: -1, AmountCol: -1, DebitCol: -1, CreditCol: -1, CategoryCol: -1, BalanceCol: -1}

	for i, col := range header {
		lower := strings.ToLower(strings.TrimSpace(col))
		switch {
		case cs.DateCol < 0 && matchesAny(lower, roleKeywords["date"]):
			cs.DateCol = i
		case cs.DescriptionCol < 0 && matchesAny(lower, roleKeywords["description"]):
			cs.DescriptionCol = i
		case cs.DebitCol < 0 && matchesAny(lower, roleKeywords["debit"]):
			cs.DebitCol = i
		case cs.CreditCol < 0 && matchesAny(lower, roleKeywords["credit"]):
			cs.CreditCol = i
		case cs.AmountCol < 0 && matchesAny(lower, roleKeywords["amount"]):
			cs.AmountCol = i
		case cs.CategoryCol < 0 && matchesAny(lower, roleKeywords["category"]):
			cs.CategoryCol = i
		case cs.BalanceCol < 0 && matchesAny(lower, roleKeywords["balance"]):
			cs.BalanceCol = i
		}
	}

	cs.IsDoubleEntry = cs.AmountCol < 0 && cs.DebitCol >= 0 && cs.CreditCol >= 0
	return cs
}

func matchesAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
