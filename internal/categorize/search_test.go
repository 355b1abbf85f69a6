package categorize

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSearchIndex_IndexAndSearch(t *testing.T) {
	idx, err := NewSearchIndex()
	require.NoError(t, err)
	defer idx.Close()

	require.NoError(t, idx.Index("1", "user-1", "starbucks", "Starbucks Coffee", "Food & Dining"))
	require.NoError(t, idx.Index("2", "user-1", "netflix", "Netflix", "Entertainment"))

	hits, err := idx.Search("coffee", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	require.Equal(t, "1", hits[0].ID)
}

func TestSearchIndex_Delete(t *testing.T) {
	idx, err := NewSearchIndex()
	require.NoError(t, err)
	defer idx.Close()

	require.NoError(t, idx.Index("1", "user-1", "starbucks", "Starbucks Coffee", "Food & Dining"))
	require.NoError(t, idx.Delete("1"))

	hits, err := idx.Search("starbucks", 10)
	require.NoError(t, err)
	require.Len(t, hits, 0)
}
