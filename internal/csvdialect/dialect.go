// Package csvdialect infers the delimiter, quote character, quoting style,
// and line terminator of a raw CSV sample, the way a human skimming the
// file would, so the parser can be configured before a single row is read.
package csvdialect

import (
	"regexp"
	"strings"
)

var delimiterCandidates = []rune{',', ';', '\t', '|', ':'}
var quoteCandidates = []rune{'"', '\''}

// QuotingMode classifies how aggressively a file quotes its fields.
type QuotingMode int

const (
	QuoteMinimal QuotingMode = iota
	QuoteAll
)

// Dialect is the inferred shape of a CSV file.
type Dialect struct {
	Delimiter      rune
	DelimiterConf  float64
	Quote          rune
	QuotingMode    QuotingMode
	LineTerminator string
}

// Detect infers the dialect of a CSV sample (the first several KB of a
// file are enough; callers typically pass up to 64KB).
func Detect(sample string) Dialect {
	delim, delimConf := detectDelimiter(sample)
	quote := detectQuote(sample, delim)
	mode := detectQuotingMode(sample, delim, quote)
	term := detectLineTerminator([]byte(sample))

	return Dialect{
		Delimiter:      delim,
		DelimiterConf:  delimConf,
		Quote:          quote,
		QuotingMode:    mode,
		LineTerminator: term,
	}
}

// detectDelimiter scores each candidate by occurrence count weighted by
// how consistent that count is across lines (a true delimiter appears a
// similar number of times on every data line).
func detectDelimiter(sample string) (rune, float64) {
	lines := strings.Split(sample, "\n")
	nonEmpty := make([]string, 0, len(lines))
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			nonEmpty = append(nonEmpty, l)
		}
	}
	if len(nonEmpty) == 0 {
		return ',', 0
	}

	type scored struct {
		delim rune
		score float64
	}
	var scores []scored
	total := 0.0

	for _, d := range delimiterCandidates {
		counts := make([]int, 0, len(nonEmpty))
		sum := 0
		for _, line := range nonEmpty {
			c := strings.Count(line, string(d))
			counts = append(counts, c)
			sum += c
		}
		if sum == 0 {
			continue
		}
		mean := float64(sum) / float64(len(counts))
		variance := 0.0
		for _, c := range counts {
			diff := float64(c) - mean
			variance += diff * diff
		}
		variance /= float64(len(counts))
		consistency := 1.0
		if mean > 0 {
			consistency = 1.0 - (variance / (mean * mean))
			if consistency < 0 {
				consistency = 0
			}
		}
		score := float64(sum) * (1 + consistency)
		scores = append(scores, scored{delim: d, score: score})
		total += score
	}

	if len(scores) == 0 {
		return ',', 0
	}

	best := scores[0]
	for _, s := range scores[1:] {
		if s.score > best.score {
			best = s
		}
	}
	conf := 0.0
	if total > 0 {
		conf = best.score / total
	}
	return best.delim, conf
}

// detectQuote scores quote candidates by how often they appear in matched
// pairs, with a bonus when the candidate delimiter appears inside a quoted
// span (the classic "a field, with a comma" case).
func detectQuote(sample string, delim rune) rune {
	type scored struct {
		quote rune
		score int
	}
	var scores []scored
	for _, q := range quoteCandidates {
		count := strings.Count(sample, string(q))
		pairs := count / 2
		score := pairs
		re := regexp.MustCompile(regexp.QuoteMeta(string(q)) + `[^` + regexp.QuoteMeta(string(q)) + `]*` + regexp.QuoteMeta(string(delim)))
		if re.MatchString(sample) {
			score += 5
		}
		if score > 0 {
			scores = append(scores, scored{quote: q, score: score})
		}
	}
	if len(scores) == 0 {
		return '"'
	}
	best := scores[0]
	for _, s := range scores[1:] {
		if s.score > best.score {
			best = s
		}
	}
	return best.quote
}

// detectQuotingMode classifies a file as QuoteAll when most lines quote
// nearly every field, versus QuoteMinimal when only fields containing the
// delimiter are quoted.
func detectQuotingMode(sample string, delim, quote rune) QuotingMode {
	lines := strings.Split(sample, "\n")
	var dataLines []string
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			dataLines = append(dataLines, l)
		}
	}
	if len(dataLines) == 0 {
		return QuoteMinimal
	}

	q := regexp.QuoteMeta(string(quote))
	d := regexp.QuoteMeta(string(delim))
	re := regexp.MustCompile(q + `[^` + q + `]*` + q + `(` + d + `|$)`)

	quotedLineCount := 0
	for _, line := range dataLines {
		fieldCount := strings.Count(line, string(delim)) + 1
		threshold := 4.0
		if f := 0.8 * float64(fieldCount); f > threshold {
			threshold = f
		}
		if float64(len(re.FindAllString(line, -1))) >= threshold {
			quotedLineCount++
		}
	}

	if float64(quotedLineCount)/float64(len(dataLines)) >= 0.75 {
		return QuoteAll
	}
	return QuoteMinimal
}

// detectLineTerminator tallies terminator byte sequences over a sample,
// correctly attributing compound sequences like \r\n rather than double
// counting the standalone \r and \n that make it up.
func detectLineTerminator(sample []byte) string {
	if len(sample) > 8192 {
		sample = sample[:8192]
	}

	var crlf, lfcr, crcr, lfOnly, crOnly int
	for i := 0; i < len(sample); i++ {
		switch sample[i] {
		case '\r':
			if i+1 < len(sample) && sample[i+1] == '\n' {
				crlf++
				i++
			} else if i+1 < len(sample) && sample[i+1] == '\r' {
				crcr++
				i++
			} else {
				crOnly++
			}
		case '\n':
			if i+1 < len(sample) && sample[i+1] == '\r' {
				lfcr++
				i++
			} else {
				lfOnly++
			}
		}
	}

	counts := map[string]int{
		"\r\n": crlf,
		"\n\r": lfcr,
		"\r\r": crcr,
		"\n":   lfOnly,
		"\r":   crOnly,
	}
	best := "\n"
	bestCount := -1
	for term, c := range counts {
		if c > bestCount {
			best = term
			bestCount = c
		}
	}
	return best
}
