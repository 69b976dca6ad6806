package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDFromContent(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		a := IDFromContent("https://example.com/blog/post-one")
		b := IDFromContent("https://example.com/blog/post-one")
		assert.Equal(t, a, b)
	})

	t.Run("distinct inputs produce distinct ids", func(t *testing.T) {
		a := IDFromContent("https://example.com/blog/post-one")
		b := IDFromContent("https://example.com/blog/post-two")
		assert.NotEqual(t, a, b)
	})

	t.Run("hex encoded", func(t *testing.T) {
		id := IDFromContent("anything")
		assert.Len(t, id, idDigestSize*2)
	})
}

func TestChunkID(t *testing.T) {
	a := ChunkID("parent", 0, "some chunk text")
	b := ChunkID("parent", 0, "some chunk text")
	require.Equal(t, a, b)

	// Any component changing must change the identity.
	assert.NotEqual(t, a, ChunkID("other", 0, "some chunk text"))
	assert.NotEqual(t, a, ChunkID("parent", 1, "some chunk text"))
	assert.NotEqual(t, a, ChunkID("parent", 0, "other chunk text"))
}

func TestKindSourceType(t *testing.T) {
	assert.Equal(t, "blog", KindBlog.SourceType())
	assert.Equal(t, "podcast", KindEpisode.SourceType())
}

func TestValidateItem(t *testing.T) {
	valid := func() *Item {
		return &Item{
			ID:        "abc",
			Kind:      KindBlog,
			Title:     "A Post",
			SourceURL: "https://example.com/blog/a-post",
			State:     StateDiscovered,
		}
	}

	t.Run("valid blog", func(t *testing.T) {
		assert.NoError(t, ValidateItem(valid()))
	})

	t.Run("nil item", func(t *testing.T) {
		assert.ErrorIs(t, ValidateItem(nil), ErrInvalidItem)
	})

	t.Run("empty id", func(t *testing.T) {
		item := valid()
		item.ID = ""
		assert.ErrorIs(t, ValidateItem(item), ErrEmptyID)
	})

	t.Run("unknown kind", func(t *testing.T) {
		item := valid()
		item.Kind = "video"
		assert.ErrorIs(t, ValidateItem(item), ErrUnknownKind)
	})

	t.Run("unknown state", func(t *testing.T) {
		item := valid()
		item.State = "PENDING"
		assert.ErrorIs(t, ValidateItem(item), ErrUnknownState)
	})

	t.Run("episode without audio url", func(t *testing.T) {
		item := valid()
		item.Kind = KindEpisode
		assert.ErrorIs(t, ValidateItem(item), ErrMissingAudioURL)
	})

	t.Run("episode with audio url", func(t *testing.T) {
		item := valid()
		item.Kind = KindEpisode
		item.AudioURL = "https://cdn.example.com/ep1.mp3"
		assert.NoError(t, ValidateItem(item))
	})
}
