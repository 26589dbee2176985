package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPipeline() (*Pipeline, *fakeStore, *fakeIndex) {
	st := newFakeStore()
	idx := newFakeIndex()
	return NewPipeline(st, idx, &stubEmbedder{dimension: 4}), st, idx
}

func TestSearchRejectsEmptyQuery(t *testing.T) {
	pipeline, _, _ := newTestPipeline()

	for _, query := range []string{"", "   ", "\t\n"} {
		_, err := pipeline.Search(context.Background(), query, 5)
		assert.ErrorIs(t, err, ErrInvalidQuery)
	}
}

func TestSearchPropagatesEmbeddingFailure(t *testing.T) {
	st := newFakeStore()
	idx := newFakeIndex()
	pipeline := NewPipeline(st, idx, &stubEmbedder{dimension: 4, fail: true})

	_, err := pipeline.Search(context.Background(), "containerization", 5)
	assert.ErrorIs(t, err, ErrEmbeddingUnavailable)
}

func TestSearchHydratesAndLogsHistory(t *testing.T) {
	pipeline, st, idx := newTestPipeline()

	st.tools["a"] = Tool{ID: "a", Name: "A"}
	st.tools["b"] = Tool{ID: "b", Name: "B"}
	idx.queryResults = []IndexResult{
		{ID: "b", Score: 0.9},
		{ID: "a", Score: 0.5},
	}

	matches, err := pipeline.Search(context.Background(), "anything", 5)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "b", matches[0].Tool.ID)
	assert.Equal(t, float32(0.9), matches[0].Score)
	assert.Equal(t, "a", matches[1].Tool.ID)

	require.Len(t, st.history, 1)
	entry := st.history[0]
	assert.Equal(t, "anything", entry.Query)
	assert.Equal(t, []string{"b", "a"}, entry.ResultIDs)
	assert.NotEmpty(t, entry.ID)
	assert.False(t, entry.ExecutedAt.IsZero())
}

func TestSearchSkipsUnhydratableIDs(t *testing.T) {
	pipeline, st, idx := newTestPipeline()

	// "ghost" is in the index but gone from the record store: the
	// transient window between an index write and a record delete.
	st.tools["a"] = Tool{ID: "a", Name: "A"}
	idx.queryResults = []IndexResult{
		{ID: "ghost", Score: 0.95},
		{ID: "a", Score: 0.5},
	}

	matches, err := pipeline.Search(context.Background(), "anything", 5)
	require.NoError(t, err)

	// Shorter than limit, never padded.
	require.Len(t, matches, 1)
	assert.Equal(t, "a", matches[0].Tool.ID)

	// History records the post-skip sequence.
	require.Len(t, st.history, 1)
	assert.Equal(t, []string{"a"}, st.history[0].ResultIDs)
}

func TestSearchSurvivesHistoryFailure(t *testing.T) {
	pipeline, st, idx := newTestPipeline()

	st.tools["a"] = Tool{ID: "a", Name: "A"}
	st.failHistory = true
	idx.queryResults = []IndexResult{{ID: "a", Score: 0.5}}

	matches, err := pipeline.Search(context.Background(), "anything", 5)
	require.NoError(t, err)
	assert.Len(t, matches, 1)
	assert.Empty(t, st.history)
}

func TestSearchDefaultsLimit(t *testing.T) {
	pipeline, st, idx := newTestPipeline()

	for i := 0; i < 10; i++ {
		id := string(rune('a' + i))
		st.tools[id] = Tool{ID: id}
		idx.queryResults = append(idx.queryResults, IndexResult{ID: id, Score: 1 - float32(i)/10})
	}

	matches, err := pipeline.Search(context.Background(), "anything", 0)
	require.NoError(t, err)
	assert.Len(t, matches, DefaultSearchLimit)
}
