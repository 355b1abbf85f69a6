package categorize

import (
	"fmt"

	"github.com/blevesearch/bleve/v2"
)

// indexedOverride is the document shape stored in the bleve index: one
// per taught merchant override, searchable by merchant name or category.
type indexedOverride struct {
	UserID   string `json:"user_id"`
	Pattern  string `json:"pattern"`
	Merchant string `json:"merchant"`
	Category string `json:"category"`
}

// SearchIndex is an in-memory full-text index over taught merchant
// overrides, used by interactive tools that let a user search "what have I
// categorized like Starbucks before?" rather than scan the raw rule list.
type SearchIndex struct {
	idx bleve.Index
}

// NewSearchIndex builds an empty in-memory bleve index with the default
// text-analysis mapping.
func NewSearchIndex() (*SearchIndex, error) {
	mapping := bleve.NewIndexMapping()
	idx, err := bleve.NewMemOnly(mapping)
	if err != nil {
		return nil, fmt.Errorf("categorize: new search index: %w", err)
	}
	return &SearchIndex{idx: idx}, nil
}

// Index adds or replaces one override document under a stable id (callers
// typically use the override's own ID).
func (s *SearchIndex) Index(id, userID, pattern, merchant, category string) error {
	return s.idx.Index(id, indexedOverride{
		UserID:   userID,
		Pattern:  pattern,
		Merchant: merchant,
		Category: category,
	})
}

// Delete removes a previously indexed override.
func (s *SearchIndex) Delete(id string) error {
	return s.idx.Delete(id)
}

// Hit is one search result: the document id and its relevance score.
type Hit struct {
	ID    string
	Score float64
}

// Search runs a free-text query across all indexed fields (user id,
// pattern, merchant and category),
// returning up to limit hits ordered by descending relevance.
func (s *SearchIndex) Search(query string, limit int) ([]Hit, error) {
	q := bleve.NewQueryStringQuery(query)
	req := bleve.NewSearchRequestOptions(q, limit, 0, false)

	result, err := s.idx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("categorize: search: %w", err)
	}

	hits := make([]Hit, 0, len(result.Hits))
	for _, h := range result.Hits {
		hits = append(hits, Hit{ID: h.ID, Score: h.Score})
	}
	return hits, nil
}

// Close releases the index's in-memory resources.
func (s *SearchIndex) Close() error {
	return s.idx.Close()
}
