package bankconfig

import (
	"regexp"
	"strings"
)

const (
	filenameWeight = 0.2
	contentWeight  = 0.4
	headerWeight   = 0.4

	// ConfidentThreshold is the total confidence at or above which a
	// detection is treated as reliable rather than merely "best guess".
	ConfidentThreshold = 0.5
)

// DetectionResult is the outcome of scoring one bank's config against an
// input file (spec §4.6).
type DetectionResult struct {
	BankName   string
	Confidence float64
	Reasons    []string
}

// IsConfident reports whether the detection clears ConfidentThreshold.
func (r DetectionResult) IsConfident() bool { return r.Confidence >= ConfidentThreshold }

// Detect scores every configured bank against the given filename, a content
// sample, and the parsed headers, returning candidates sorted by descending
// confidence. The best match is candidates[0]; "unknown" is never
// synthesized here — callers decide what to do with an empty/low-confidence
// result.
func Detect(banks []*BankConfig, filename, content string, headers []string) []DetectionResult {
	results := make([]DetectionResult, 0, len(banks))
	for _, b := range banks {
		conf, reasons := calculateConfidence(b, filename, content, headers)
		if conf > 0 {
			results = append(results, DetectionResult{BankName: b.Name, Confidence: conf, Reasons: reasons})
		}
	}
	sortByConfidenceDesc(results)
	return results
}

func sortByConfidenceDesc(results []DetectionResult) {
	for i := 1; i < len(results); i++ {
		for j := i; j > 0 && results[j].Confidence > results[j-1].Confidence; j-- {
			results[j], results[j-1] = results[j-1], results[j]
		}
	}
}

func calculateConfidence(b *BankConfig, filename, content string, headers []string) (float64, []string) {
	weight := b.Detection.ConfidenceWeight
	if weight == 0 {
		weight = 1.0
	}

	var confidence float64
	var reasons []string

	if score := filenameScore(filename, b.Detection.FilenamePatterns, b.Detection.FilenameRegexPatterns); score > 0 {
		confidence += score * filenameWeight * weight
		reasons = append(reasons, "filename_match")
	}
	if score := contentScore(content, b.Detection.ContentSignatures); score > 0 {
		confidence += score * contentWeight * weight
		reasons = append(reasons, "content_signature")
	}
	if score := headerScore(headers, b.Detection.ExpectedHeaders); score > 0 {
		confidence += score * headerWeight * weight
		reasons = append(reasons, "header_match")
	}

	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence, reasons
}

func filenameScore(filename string, substrings, regexes []string) float64 {
	lower := strings.ToLower(filename)
	for _, pattern := range substrings {
		if strings.Contains(lower, strings.ToLower(pattern)) {
			return 1.0
		}
	}
	for _, pattern := range regexes {
		if re, err := regexp.Compile(pattern); err == nil && re.MatchString(filename) {
			return 1.0
		}
	}
	return 0.0
}

func contentScore(content string, signatures []string) float64 {
	if len(signatures) == 0 {
		return 0.0
	}
	lower := strings.ToLower(content)
	matches := 0
	for _, sig := range signatures {
		if strings.Contains(lower, strings.ToLower(sig)) {
			matches++
		}
	}
	return float64(matches) / float64(len(signatures))
}

func headerScore(headers, required []string) float64 {
	if len(required) == 0 || len(headers) == 0 {
		return 0.0
	}
	lowerHeaders := make([]string, len(headers))
	for i, h := range headers {
		lowerHeaders[i] = strings.ToLower(strings.TrimSpace(h))
	}

	matches := 0
	for _, req := range required {
		reqLower := strings.ToLower(strings.TrimSpace(req))
		found := false
		for _, h := range lowerHeaders {
			if h == reqLower || strings.Contains(h, reqLower) || strings.Contains(reqLower, h) {
				found = true
				break
			}
		}
		if found {
			matches++
		}
	}
	return float64(matches) / float64(len(required))
}

// QuickFilenameMatch returns the bank whose filename substring match is
// longest, used for a fast pre-filter before the full weighted score runs
// (the longest match wins ties between banks whose patterns both appear).
func QuickFilenameMatch(banks []*BankConfig, filename string) *BankConfig {
	lower := strings.ToLower(filename)
	var best *BankConfig
	bestLen := 0
	for _, b := range banks {
		for _, pattern := range b.Detection.FilenamePatterns {
			p := strings.ToLower(pattern)
			if strings.Contains(lower, p) && len(p) > bestLen {
				best = b
				bestLen = len(p)
			}
		}
	}
	return best
}
