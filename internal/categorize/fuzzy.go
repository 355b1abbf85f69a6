package categorize

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// MerchantIndex supports approximate merchant-name lookup, for suggesting a
// known merchant when a cleaned description is a typo'd or abbreviated
// variant of one the user has already taught (e.g. "AMZN Mktp" vs "Amazon").
type MerchantIndex struct {
	names []string
}

// NewMerchantIndex builds an index over a set of known merchant names.
func NewMerchantIndex(names []string) *MerchantIndex {
	cp := make([]string, len(names))
	copy(cp, names)
	return &MerchantIndex{names: cp}
}

// Suggestion is one ranked fuzzy-match candidate.
type Suggestion struct {
	Name  string
	Score int
}

// Suggest returns up to limit known merchant names ranked by fuzzy-match
// closeness to query, best first. An empty result means no name in the
// index shares enough characters in order with query to be a plausible
// match.
func (idx *MerchantIndex) Suggest(query string, limit int) []Suggestion {
	query = strings.TrimSpace(query)
	if query == "" || len(idx.names) == 0 {
		return nil
	}

	ranks := fuzzy.RankFindFold(query, idx.names)
	sort.Sort(ranks)

	out := make([]Suggestion, 0, limit)
	for _, r := range ranks {
		out = append(out, Suggestion{Name: r.Target, Score: r.Distance})
		if len(out) == limit {
			break
		}
	}
	return out
}

// BestMatch returns the single closest known merchant name to query, and
// whether anything matched at all.
func (idx *MerchantIndex) BestMatch(query string) (string, bool) {
	suggestions := idx.Suggest(query, 1)
	if len(suggestions) == 0 {
		return "", false
	}
	return suggestions[0].Name, true
}
