package reindex

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenlab/harvest/ai/mock"
	"github.com/listenlab/harvest/core"
	"github.com/listenlab/harvest/index"
	badgerindex "github.com/listenlab/harvest/index/badger"
	"github.com/listenlab/harvest/storage"
)

func fastConfig() *Config {
	return &Config{
		ReportInterval: 1,
		MaxRetries:     3,
		RetryDelay:     time.Millisecond,
	}
}

func TestReindexerRun(t *testing.T) {
	paths := storage.NewPaths(t.TempDir())
	chunks := []core.Chunk{
		{ChunkID: "c1", ParentID: "p1", SourceType: "blog", Text: "first"},
		{ChunkID: "c2", ParentID: "p1", SourceType: "blog", Text: "second"},
	}
	require.NoError(t, storage.SaveChunks(paths.ChunksPath(core.KindBlog), chunks))

	idx, err := badgerindex.NewMemoryIndex()
	require.NoError(t, err)
	defer idx.Close()

	// Pre-seed c1 with a stale vector; reindexing must replace it.
	stale := index.Document{ID: "c1", Text: "first", Metadata: map[string]string{}}
	require.NoError(t, idx.Upsert(context.Background(), "blogs", stale, []float32{9, 9, 9}))

	embedder := mock.NewMockEmbedder()
	embedder.EmbedDocumentFunc = func(context.Context, string) ([]float32, error) {
		return []float32{1, 0, 0}, nil
	}

	var progress bytes.Buffer
	r := NewReindexer(embedder, idx, paths, fastConfig(), &progress)

	stats, err := r.Run(context.Background(), core.KindBlog)
	require.NoError(t, err)
	assert.Equal(t, Stats{Total: 2, Succeeded: 2}, stats)
	assert.Equal(t, 2, embedder.DocumentCalls())
	assert.Contains(t, progress.String(), "reindexed 2/2 chunks")

	matches, err := idx.Query(context.Background(), "blogs", []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	// The stale vector is gone: both entries now match the query
	// vector exactly.
	for _, match := range matches {
		assert.InDelta(t, 0, match.Distance, 1e-6)
	}
}

func TestReindexerRetriesThenCounts(t *testing.T) {
	paths := storage.NewPaths(t.TempDir())
	require.NoError(t, storage.SaveChunks(paths.ChunksPath(core.KindBlog), []core.Chunk{
		{ChunkID: "c1", ParentID: "p1", SourceType: "blog", Text: "flaky"},
		{ChunkID: "c2", ParentID: "p1", SourceType: "blog", Text: "broken"},
	}))

	idx, err := badgerindex.NewMemoryIndex()
	require.NoError(t, err)
	defer idx.Close()

	flakyCalls := 0
	embedder := mock.NewMockEmbedder()
	embedder.EmbedDocumentFunc = func(_ context.Context, text string) ([]float32, error) {
		switch text {
		case "flaky":
			flakyCalls++
			if flakyCalls < 2 {
				return nil, fmt.Errorf("transient")
			}
			return []float32{1, 0}, nil
		default:
			return nil, fmt.Errorf("permanent")
		}
	}

	r := NewReindexer(embedder, idx, paths, fastConfig(), nil)

	stats, err := r.Run(context.Background(), core.KindBlog)
	require.NoError(t, err)
	assert.Equal(t, Stats{Total: 2, Succeeded: 1, Failed: 1}, stats)
	assert.Equal(t, 2, flakyCalls)
}

func TestReindexerEmptyChunks(t *testing.T) {
	paths := storage.NewPaths(t.TempDir())

	idx, err := badgerindex.NewMemoryIndex()
	require.NoError(t, err)
	defer idx.Close()

	r := NewReindexer(mock.NewMockEmbedder(), idx, paths, nil, nil)

	stats, err := r.Run(context.Background(), core.KindEpisode)
	require.NoError(t, err)
	assert.Equal(t, Stats{}, stats)
}

func TestProgressTracker(t *testing.T) {
	var out bytes.Buffer
	p := NewProgressTracker(&out, 3, 2)
	p.Start()
	p.Increment()
	p.Increment()
	p.Increment()
	p.Finish()

	assert.Contains(t, out.String(), "reindexing 0/3 chunks")
	assert.Contains(t, out.String(), "reindexing 2/3 chunks")
	assert.Contains(t, out.String(), "reindexing 3/3 chunks")
	assert.Contains(t, out.String(), "reindexed 3/3 chunks")
}

func TestProgressTrackerNilWriter(t *testing.T) {
	p := NewProgressTracker(nil, 2, 1)
	p.Start()
	p.Increment()
	p.Finish()
}
