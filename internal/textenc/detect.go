// Package textenc detects the text encoding of a raw CSV file and decodes it
// to UTF-8. Detection follows the same chain the original ingestion system
// used: BOM sniffing first, then a manual chain of common encodings scored
// by how "clean" the decoded text looks, with a combined scoring function
// that rewards CSV-like structure and penalizes replacement characters.
package textenc

import (
	"bytes"
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

const (
	// HighConfidenceThreshold is the score at or above which a manual-chain
	// candidate is accepted without trying the rest of the chain.
	HighConfidenceThreshold = 0.80
	replacementRune         = '�'
)

// Result describes the detected encoding and the decoded text.
type Result struct {
	Encoding   string
	Text       string
	Confidence float64
}

var bomCandidates = []struct {
	bom  []byte
	name string
}{
	{[]byte{0xEF, 0xBB, 0xBF}, "utf-8-sig"},
	{[]byte{0xFF, 0xFE}, "utf-16-le"},
	{[]byte{0xFE, 0xFF}, "utf-16-be"},
}

// chain is the manual fallback order, matching the original detector:
// utf-16 variants first (accepted only with a byte order mark), then
// utf-8, then the Western European single-byte encodings, then ascii.
var chain = []string{"utf-16", "utf-8-sig", "utf-8", "windows-1252", "iso-8859-1", "ascii"}

// Detect decodes raw bytes into UTF-8 text, returning the encoding name used
// and a confidence score in [0,1].
func Detect(raw []byte) Result {
	if len(raw) == 0 {
		return Result{Encoding: "utf-8", Text: "", Confidence: 0.7}
	}

	if name, text, ok := detectByBOM(raw); ok {
		return Result{Encoding: name, Text: text, Confidence: 0.95}
	}

	var best Result
	for _, name := range chain {
		text, err := decodeWith(raw, name)
		if err != nil {
			continue
		}
		score := scoreText(text)
		if score >= HighConfidenceThreshold {
			return Result{Encoding: name, Text: text, Confidence: score}
		}
		if score > best.Confidence {
			best = Result{Encoding: name, Text: text, Confidence: score}
		}
	}
	if best.Encoding != "" {
		return best
	}

	return Result{Encoding: "utf-8", Text: string(raw), Confidence: 0.1}
}

func detectByBOM(raw []byte) (string, string, bool) {
	for _, c := range bomCandidates {
		if len(raw) >= len(c.bom) && string(raw[:len(c.bom)]) == string(c.bom) {
			text, err := decodeWith(raw, c.name)
			if err == nil {
				return c.name, text, true
			}
		}
	}
	return "", "", false
}

func decodeWith(raw []byte, name string) (string, error) {
	switch name {
	case "utf-8", "ascii":
		if !utf8.Valid(raw) {
			return "", errors.New("textenc: invalid utf-8")
		}
		return string(raw), nil
	case "utf-8-sig":
		if !bytes.HasPrefix(raw, bomCandidates[0].bom) {
			return "", errors.New("textenc: missing utf-8 byte order mark")
		}
		dec := unicode.UTF8BOM.NewDecoder()
		out, err := dec.Bytes(raw)
		return string(out), err
	case "utf-16", "utf-16-le":
		dec := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()
		out, err := dec.Bytes(raw)
		return string(out), err
	case "utf-16-be":
		dec := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()
		out, err := dec.Bytes(raw)
		return string(out), err
	case "windows-1252":
		out, err := charmap.Windows1252.NewDecoder().Bytes(raw)
		return string(out), err
	case "iso-8859-1":
		out, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
		return string(out), err
	default:
		return string(raw), nil
	}
}

// scoreText combines a base confidence with CSV-indicator density, a
// replacement-character penalty, and printable-character ratio, mirroring
// the original _test_encoding scoring.
func scoreText(text string) float64 {
	if text == "" {
		return 0
	}
	score := 0.5

	indicators := strings.Count(text, ",") + strings.Count(text, ";") + strings.Count(text, "\t")
	density := float64(indicators) / float64(len(text))
	bonus := density * 50
	if bonus > 0.3 {
		bonus = 0.3
	}
	score += bonus

	replacementCount := strings.Count(text, string(replacementRune))
	if replacementCount > 0 {
		score -= 0.4
	}

	printable := 0
	total := 0
	for _, r := range text {
		total++
		if r == '\n' || r == '\r' || r == '\t' || (r >= 0x20 && r != replacementRune && utf8.ValidRune(r)) {
			printable++
		}
	}
	if total > 0 {
		ratio := float64(printable) / float64(total)
		printableBonus := ratio * 0.2
		if printableBonus > 0.2 {
			printableBonus = 0.2
		}
		score += printableBonus
	}

	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return score
}
