package ingestion

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenlab/harvest/ai"
	"github.com/listenlab/harvest/ai/mock"
	"github.com/listenlab/harvest/core"
	badgerindex "github.com/listenlab/harvest/index/badger"
	"github.com/listenlab/harvest/registry"
	"github.com/listenlab/harvest/storage"
)

func seedRegistry(t *testing.T, paths storage.Paths, kind core.Kind, items ...*core.Item) {
	t.Helper()
	byID := make(map[string]*core.Item, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	require.NoError(t, registry.Save(paths.RegistryPath(kind), byID))
}

func loadRegistry(t *testing.T, paths storage.Paths, kind core.Kind) map[string]*core.Item {
	t.Helper()
	items, err := registry.Load(paths.RegistryPath(kind))
	require.NoError(t, err)
	return items
}

func TestBlogAcquirerRun(t *testing.T) {
	paths := storage.NewPaths(t.TempDir())
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://example.com/blog/good": `<html><body>
			<h1>Good Post</h1>
			<article><p>The body of the good post.</p></article>
		</body></html>`,
		// /blog/empty serves a page with nothing extractable.
		"https://example.com/blog/empty": `<html><body></body></html>`,
	}}

	seedRegistry(t, paths, core.KindBlog,
		&core.Item{ID: "good", Kind: core.KindBlog, SourceURL: "https://example.com/blog/good", State: core.StateDiscovered},
		&core.Item{ID: "empty", Kind: core.KindBlog, SourceURL: "https://example.com/blog/empty", State: core.StateDiscovered},
		&core.Item{ID: "missing", Kind: core.KindBlog, SourceURL: "https://example.com/blog/missing", State: core.StateDiscovered},
		&core.Item{ID: "done", Kind: core.KindBlog, SourceURL: "https://example.com/blog/done", State: core.StateFetchedRaw},
	)

	acquirer, err := NewBlogAcquirer(fetcher, paths, nil)
	require.NoError(t, err)

	report, err := acquirer.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Report{Processed: 3, Succeeded: 1, Failed: 2, Skipped: 1}, report)

	items := loadRegistry(t, paths, core.KindBlog)
	assert.Equal(t, core.StateFetchedRaw, items["good"].State)
	assert.Equal(t, core.StateFailedRaw, items["empty"].State)
	assert.Equal(t, core.StateFailedRaw, items["missing"].State)
	assert.Equal(t, core.StateFetchedRaw, items["done"].State)

	raws, err := storage.LoadRawContents(paths.RawDir(core.KindBlog))
	require.NoError(t, err)
	require.Len(t, raws, 1)
	assert.Equal(t, "good", raws[0].ID)
	assert.Equal(t, "Good Post", raws[0].Title)
	assert.Contains(t, raws[0].Body, "The body of the good post.")
}

func TestBlogAcquirerRunIsIdempotent(t *testing.T) {
	paths := storage.NewPaths(t.TempDir())
	fetcher := &fakeFetcher{pages: map[string]string{
		"https://example.com/blog/good": `<article><h1>T</h1><p>Body.</p></article>`,
	}}

	seedRegistry(t, paths, core.KindBlog,
		&core.Item{ID: "good", Kind: core.KindBlog, SourceURL: "https://example.com/blog/good", State: core.StateDiscovered},
	)

	acquirer, err := NewBlogAcquirer(fetcher, paths, nil)
	require.NoError(t, err)

	_, err = acquirer.Run(context.Background())
	require.NoError(t, err)

	// Second run finds nothing eligible and fetches nothing new.
	fetched := len(fetcher.fetched)
	report, err := acquirer.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, report.Processed)
	assert.Equal(t, fetched, len(fetcher.fetched))
}

func TestAudioDownloaderRun(t *testing.T) {
	payload := []byte("fake mp3 bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ep1.mp3":
			assert.NotEmpty(t, r.Header.Get("User-Agent"))
			assert.NotEmpty(t, r.Header.Get("Accept"))
			w.Write(payload)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	paths := storage.NewPaths(t.TempDir())
	seedRegistry(t, paths, core.KindEpisode,
		&core.Item{ID: "ep1", Kind: core.KindEpisode, AudioURL: server.URL + "/ep1.mp3", SourceURL: server.URL + "/ep1", State: core.StateDiscovered},
		&core.Item{ID: "ep2", Kind: core.KindEpisode, AudioURL: server.URL + "/gone.mp3", SourceURL: server.URL + "/gone", State: core.StateDiscovered},
		&core.Item{ID: "ep3", Kind: core.KindEpisode, AudioURL: server.URL + "/gone.mp3", State: core.StateAudioFailed, Retries: MaxRetries},
		&core.Item{ID: "ep4", Kind: core.KindEpisode, State: core.StateTranscribed},
	)

	downloader, err := NewAudioDownloader(paths, nil)
	require.NoError(t, err)

	report, err := downloader.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Report{Processed: 2, Succeeded: 1, Failed: 1, Skipped: 2}, report)

	data, err := os.ReadFile(paths.AudioPath("ep1"))
	require.NoError(t, err)
	assert.Equal(t, payload, data)

	items := loadRegistry(t, paths, core.KindEpisode)
	assert.Equal(t, core.StateAudioDownloaded, items["ep1"].State)
	assert.Zero(t, items["ep1"].Retries)
	assert.Equal(t, core.StateAudioFailed, items["ep2"].State)
	assert.Equal(t, 1, items["ep2"].Retries)
	// Exhausted and terminal items are untouched.
	assert.Equal(t, MaxRetries, items["ep3"].Retries)
	assert.Equal(t, core.StateTranscribed, items["ep4"].State)
}

func TestAudioDownloaderSkipsExistingFile(t *testing.T) {
	paths := storage.NewPaths(t.TempDir())
	dest := paths.AudioPath("ep1")
	require.NoError(t, os.MkdirAll(paths.AudioDir(), 0o755))
	require.NoError(t, os.WriteFile(dest, []byte("already here"), 0o644))

	seedRegistry(t, paths, core.KindEpisode,
		&core.Item{ID: "ep1", Kind: core.KindEpisode, AudioURL: "https://unreachable.invalid/ep1.mp3", State: core.StateDiscovered},
	)

	downloader, err := NewAudioDownloader(paths, nil)
	require.NoError(t, err)

	report, err := downloader.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Succeeded)

	items := loadRegistry(t, paths, core.KindEpisode)
	assert.Equal(t, core.StateAudioDownloaded, items["ep1"].State)
}

func TestAudioDownloaderMaxEpisodes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("audio"))
	}))
	defer server.Close()

	paths := storage.NewPaths(t.TempDir())
	seedRegistry(t, paths, core.KindEpisode,
		&core.Item{ID: "a", Kind: core.KindEpisode, AudioURL: server.URL + "/a.mp3", State: core.StateDiscovered},
		&core.Item{ID: "b", Kind: core.KindEpisode, AudioURL: server.URL + "/b.mp3", State: core.StateDiscovered},
		&core.Item{ID: "c", Kind: core.KindEpisode, AudioURL: server.URL + "/c.mp3", State: core.StateDiscovered},
	)

	downloader, err := NewAudioDownloader(paths, nil, WithMaxEpisodes(2))
	require.NoError(t, err)

	report, err := downloader.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Processed)
}

func TestTranscribeStageRun(t *testing.T) {
	paths := storage.NewPaths(t.TempDir())
	require.NoError(t, os.MkdirAll(paths.AudioDir(), 0o755))
	require.NoError(t, os.WriteFile(paths.AudioPath("ep1"), []byte("audio"), 0o644))
	require.NoError(t, os.WriteFile(paths.AudioPath("ep2"), []byte("audio"), 0o644))

	seedRegistry(t, paths, core.KindEpisode,
		&core.Item{ID: "ep1", Kind: core.KindEpisode, Title: "One", SourceURL: "https://e.com/ep1", AudioURL: "https://e.com/ep1.mp3", State: core.StateAudioDownloaded},
		&core.Item{ID: "ep2", Kind: core.KindEpisode, Title: "Two", State: core.StateAudioDownloaded},
		&core.Item{ID: "ep3", Kind: core.KindEpisode, Title: "Missing", State: core.StateAudioDownloaded},
	)

	transcriber := mock.NewMockTranscriber()
	transcriber.TranscribeFunc = func(_ context.Context, audioPath string) ([]ai.Segment, error) {
		if audioPath == paths.AudioPath("ep2") {
			return nil, fmt.Errorf("decode error")
		}
		return []ai.Segment{
			{Text: "Hello there.", Start: 0, End: 2},
			{Text: "General remarks.", Start: 2, End: 4},
		}, nil
	}

	stage, err := NewTranscribeStage(transcriber, paths, nil)
	require.NoError(t, err)

	report, err := stage.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Report{Processed: 2, Succeeded: 1, Failed: 1, Skipped: 1}, report)

	items := loadRegistry(t, paths, core.KindEpisode)
	assert.Equal(t, core.StateTranscribed, items["ep1"].State)
	assert.Equal(t, core.StateAudioDownloaded, items["ep2"].State)
	assert.Equal(t, 1, items["ep2"].Retries)
	// Missing audio leaves state and retries untouched.
	assert.Equal(t, core.StateAudioDownloaded, items["ep3"].State)
	assert.Zero(t, items["ep3"].Retries)

	raws, err := storage.LoadRawContents(paths.RawDir(core.KindEpisode))
	require.NoError(t, err)
	require.Len(t, raws, 1)
	assert.Equal(t, "ep1", raws[0].ID)
	assert.Equal(t, "Hello there. General remarks.", raws[0].Body)

	// Audio is deleted on success, kept on failure.
	_, err = os.Stat(paths.AudioPath("ep1"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(paths.AudioPath("ep2"))
	assert.NoError(t, err)
}

func TestTranscribeStageEmptyTranscriptFails(t *testing.T) {
	paths := storage.NewPaths(t.TempDir())
	require.NoError(t, os.MkdirAll(paths.AudioDir(), 0o755))
	require.NoError(t, os.WriteFile(paths.AudioPath("ep1"), []byte("audio"), 0o644))

	seedRegistry(t, paths, core.KindEpisode,
		&core.Item{ID: "ep1", Kind: core.KindEpisode, State: core.StateAudioDownloaded},
	)

	transcriber := mock.NewMockTranscriber()
	transcriber.TranscribeFunc = func(context.Context, string) ([]ai.Segment, error) {
		return []ai.Segment{{Text: "   "}}, nil
	}

	stage, err := NewTranscribeStage(transcriber, paths, nil)
	require.NoError(t, err)

	report, err := stage.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)

	items := loadRegistry(t, paths, core.KindEpisode)
	assert.Equal(t, core.StateAudioDownloaded, items["ep1"].State)
	assert.Equal(t, 1, items["ep1"].Retries)
}

func TestTranscriptEmptyIsSentinelError(t *testing.T) {
	paths := storage.NewPaths(t.TempDir())

	transcriber := mock.NewMockTranscriber()
	transcriber.TranscribeFunc = func(context.Context, string) ([]ai.Segment, error) {
		return []ai.Segment{{Text: "  "}, {Text: ""}}, nil
	}

	stage, err := NewTranscribeStage(transcriber, paths, nil)
	require.NoError(t, err)

	_, err = stage.transcript(context.Background(), "unused.mp3")
	assert.ErrorIs(t, err, ErrEmptyTranscript)
}

func TestIndexerRun(t *testing.T) {
	paths := storage.NewPaths(t.TempDir())
	chunks := []core.Chunk{
		{ChunkID: "c1", ParentID: "p1", SourceType: "blog", Title: "T", SourceURL: "u", ChunkIndex: 0, Text: "first chunk"},
		{ChunkID: "c2", ParentID: "p1", SourceType: "blog", Title: "T", SourceURL: "u", ChunkIndex: 1, Text: "second chunk"},
	}
	require.NoError(t, storage.SaveChunks(paths.ChunksPath(core.KindBlog), chunks))

	idx, err := badgerindex.NewMemoryIndex()
	require.NoError(t, err)
	defer idx.Close()

	embedder := mock.NewMockEmbedder()
	indexer, err := NewIndexer(embedder, idx, paths, nil, WithEmbedBackoff(0))
	require.NoError(t, err)

	report, err := indexer.Run(context.Background(), core.KindBlog)
	require.NoError(t, err)
	assert.Equal(t, Report{Processed: 2, Succeeded: 2}, report)

	existing, err := idx.ExistingIDs(context.Background(), "blogs")
	require.NoError(t, err)
	assert.Len(t, existing, 2)

	// Re-running skips everything already indexed.
	embedder.Reset()
	report, err = indexer.Run(context.Background(), core.KindBlog)
	require.NoError(t, err)
	assert.Equal(t, Report{Skipped: 2}, report)
	assert.Zero(t, embedder.DocumentCalls())
}

func TestIndexerRetriesEmbedding(t *testing.T) {
	paths := storage.NewPaths(t.TempDir())
	require.NoError(t, storage.SaveChunks(paths.ChunksPath(core.KindBlog), []core.Chunk{
		{ChunkID: "c1", ParentID: "p1", SourceType: "blog", Text: "text"},
	}))

	idx, err := badgerindex.NewMemoryIndex()
	require.NoError(t, err)
	defer idx.Close()

	embedder := mock.NewMockEmbedder()
	calls := 0
	embedder.EmbedDocumentFunc = func(context.Context, string) ([]float32, error) {
		calls++
		if calls < 3 {
			return nil, fmt.Errorf("rate limited")
		}
		return []float32{0.1, 0.2, 0.3}, nil
	}

	indexer, err := NewIndexer(embedder, idx, paths, nil, WithEmbedBackoff(time.Millisecond))
	require.NoError(t, err)

	report, err := indexer.Run(context.Background(), core.KindBlog)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, 3, calls)
}

func TestIndexerCountsExhaustedFailures(t *testing.T) {
	paths := storage.NewPaths(t.TempDir())
	require.NoError(t, storage.SaveChunks(paths.ChunksPath(core.KindBlog), []core.Chunk{
		{ChunkID: "c1", ParentID: "p1", SourceType: "blog", Text: "bad"},
		{ChunkID: "c2", ParentID: "p1", SourceType: "blog", Text: "good"},
	}))

	idx, err := badgerindex.NewMemoryIndex()
	require.NoError(t, err)
	defer idx.Close()

	embedder := mock.NewMockEmbedder()
	embedder.EmbedDocumentFunc = func(_ context.Context, text string) ([]float32, error) {
		if text == "bad" {
			return nil, fmt.Errorf("permanent failure")
		}
		return []float32{1, 0}, nil
	}

	indexer, err := NewIndexer(embedder, idx, paths, nil, WithEmbedBackoff(0))
	require.NoError(t, err)

	report, err := indexer.Run(context.Background(), core.KindBlog)
	require.NoError(t, err)
	assert.Equal(t, Report{Processed: 2, Succeeded: 1, Failed: 1}, report)
}

func TestPipelineRegisterKeepsExistingState(t *testing.T) {
	paths := storage.NewPaths(t.TempDir())
	seedRegistry(t, paths, core.KindBlog,
		&core.Item{ID: "known", Kind: core.KindBlog, SourceURL: "https://e.com/blog/known", State: core.StateFetchedRaw, Retries: 1},
	)

	idx, err := badgerindex.NewMemoryIndex()
	require.NoError(t, err)
	defer idx.Close()

	pipeline, err := NewPipeline(PipelineConfig{
		Paths:       paths,
		Fetcher:     &fakeFetcher{},
		Transcriber: mock.NewMockTranscriber(),
		Embedder:    mock.NewMockEmbedder(),
		Index:       idx,
	})
	require.NoError(t, err)

	added, err := pipeline.register(core.KindBlog, []core.Item{
		{ID: "known", Kind: core.KindBlog, SourceURL: "https://e.com/blog/known", State: core.StateDiscovered},
		{ID: "new", Kind: core.KindBlog, SourceURL: "https://e.com/blog/new", State: core.StateDiscovered},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	items := loadRegistry(t, paths, core.KindBlog)
	require.Len(t, items, 2)
	assert.Equal(t, core.StateFetchedRaw, items["known"].State)
	assert.Equal(t, 1, items["known"].Retries)
	assert.Equal(t, core.StateDiscovered, items["new"].State)
}
