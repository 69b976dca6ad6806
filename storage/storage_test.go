package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenlab/harvest/core"
)

func TestPathsLayout(t *testing.T) {
	p := NewPaths("/data")

	assert.Equal(t, filepath.Join("/data", "registry", "blogs.json"), p.RegistryPath(core.KindBlog))
	assert.Equal(t, filepath.Join("/data", "registry", "podcasts.json"), p.RegistryPath(core.KindEpisode))
	assert.Equal(t, filepath.Join("/data", "raw", "blogs"), p.RawDir(core.KindBlog))
	assert.Equal(t, filepath.Join("/data", "raw", "podcasts", "ep1.json"), p.RawPath(core.KindEpisode, "ep1"))
	assert.Equal(t, filepath.Join("/data", "audio", "podcasts", "ep1.mp3"), p.AudioPath("ep1"))
	assert.Equal(t, filepath.Join("/data", "processed", "podcasts", "chunks.json"), p.ChunksPath(core.KindEpisode))
	assert.Equal(t, filepath.Join("/data", "embeddings"), p.IndexDir())
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "file.json")

	require.NoError(t, WriteFileAtomic(path, []byte("one")))
	require.NoError(t, WriteFileAtomic(path, []byte("two")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))

	entries, err := os.ReadDir(filepath.Join(dir, "sub"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRawContentRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "raw", "blogs")

	raw := &core.RawContent{
		ID:         "abc123",
		Kind:       core.KindBlog,
		Title:      "A Post",
		SourceURL:  "https://example.com/blog/a-post",
		Body:       "First paragraph.\nSecond paragraph.",
		AcquiredAt: time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, SaveRawContent(dir, raw))

	items, err := LoadRawContents(dir)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, raw, items[0])
}

func TestLoadRawContentsSkipsCorruptFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, SaveRawContent(dir, &core.RawContent{ID: "good", Kind: core.KindBlog, Body: "text"}))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	items, err := LoadRawContents(dir)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "good", items[0].ID)
}

func TestLoadRawContentsMissingDir(t *testing.T) {
	items, err := LoadRawContents(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestChunksRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processed", "blogs", "chunks.json")

	chunks := []core.Chunk{
		{ChunkID: "c0", ParentID: "p", SourceType: "blog", ChunkIndex: 0, Text: "alpha"},
		{ChunkID: "c1", ParentID: "p", SourceType: "blog", ChunkIndex: 1, Text: "beta"},
	}
	require.NoError(t, SaveChunks(path, chunks))

	loaded, err := LoadChunks(path)
	require.NoError(t, err)
	assert.Equal(t, chunks, loaded)
}

func TestLoadChunksMissingFile(t *testing.T) {
	chunks, err := LoadChunks(filepath.Join(t.TempDir(), "chunks.json"))
	require.NoError(t, err)
	assert.Nil(t, chunks)
}
