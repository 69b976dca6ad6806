package core

//go:generate go run ../cmd/musgen

import (
	"encoding/hex"
	"strconv"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// Kind identifies the type of a discovered content item.
type Kind string

const (
	// KindBlog is a long-form article discovered on a blog listing.
	KindBlog Kind = "blog"
	// KindEpisode is a podcast episode discovered in an RSS feed.
	KindEpisode Kind = "podcast_episode"
)

// SourceType returns the short source label attached to chunks and
// index metadata ("blog" or "podcast").
func (k Kind) SourceType() string {
	if k == KindEpisode {
		return "podcast"
	}
	return string(k)
}

// State is the lifecycle state of an item in the ingestion pipeline.
type State string

const (
	// StateDiscovered means the item was found but nothing has been fetched yet.
	StateDiscovered State = "DISCOVERED"
	// StateFetchedRaw means the article body was extracted and persisted.
	StateFetchedRaw State = "FETCHED_RAW"
	// StateFailedRaw means article extraction failed. Terminal; there is
	// no automatic path back to retry.
	StateFailedRaw State = "FAILED_RAW"
	// StateAudioDownloaded means the episode audio is on local disk.
	StateAudioDownloaded State = "AUDIO_DOWNLOADED"
	// StateAudioFailed means the audio download failed and may be retried.
	StateAudioFailed State = "AUDIO_FAILED"
	// StateTranscribed means the transcript was persisted and the local
	// audio file removed. Terminal.
	StateTranscribed State = "TRANSCRIBED"
)

// Item is the registry record for one discovered content unit.
// Items are mutated only through Apply; stages never edit State or
// Retries directly.
type Item struct {
	ID          string    `json:"id"`
	Kind        Kind      `json:"kind"`
	Title       string    `json:"title"`
	SourceURL   string    `json:"source_url"`
	AudioURL    string    `json:"audio_url,omitempty"`
	PublishedAt string    `json:"published_at,omitempty"`
	State       State     `json:"state"`
	Retries     int       `json:"retries,omitempty"`
	LastChecked time.Time `json:"last_checked"`
}

// RawContent is the acquired, unchunked text for an item: the extracted
// article body for blogs, the transcript for episodes. Written once per
// item on first successful acquisition and immutable afterward.
//
// Both kinds share one persisted shape: for episodes, SourceURL holds
// the episode page URL and Body holds the transcript under the same
// body_text key blogs use.
type RawContent struct {
	ID          string    `json:"id"`
	Kind        Kind      `json:"kind"`
	Title       string    `json:"title"`
	SourceURL   string    `json:"source_url"`
	AudioURL    string    `json:"audio_url,omitempty"`
	PublishedAt string    `json:"published_at,omitempty"`
	Body        string    `json:"body_text"`
	AcquiredAt  time.Time `json:"acquired_at"`
}

// Chunk is a bounded, overlapping slice of raw content prepared for
// embedding. ChunkIndex reflects the splitter's enumeration before
// empty-chunk filtering, so indices may have gaps; renumbering would
// change the content-addressed ChunkID on unchanged input.
type Chunk struct {
	ChunkID    string `json:"chunk_id"`
	ParentID   string `json:"parent_id"`
	SourceType string `json:"source_type"`
	Title      string `json:"title"`
	SourceURL  string `json:"source_url"`
	ChunkIndex int    `json:"chunk_index"`
	Text       string `json:"text"`
}

// IndexedDocument is the record stored in the vector index backend:
// a chunk's text and metadata alongside its embedding vector.
type IndexedDocument struct {
	ID       string
	Text     string
	Metadata map[string]string
	Vector   []float32
}

const idDigestSize = 20

// IDFromContent generates a deterministic identifier from arbitrary
// content using BLAKE2b hashing. Identical content always produces the
// same identifier.
func IDFromContent(content string) string {
	h, _ := blake2b.New(idDigestSize, nil)
	h.Write([]byte(content))
	return hex.EncodeToString(h.Sum(nil))
}

// ChunkID derives the content-addressed identity of a chunk from its
// parent, position and text. Re-chunking identical raw content yields
// identical IDs, which is what makes index dedup safe.
func ChunkID(parentID string, chunkIndex int, text string) string {
	return IDFromContent(parentID + ":" + strconv.Itoa(chunkIndex) + ":" + text)
}
