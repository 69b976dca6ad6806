package ai

import (
	"context"
	"strings"
)

// Embedder generates vector embeddings from text for semantic
// similarity search. Implementations must be safe for concurrent use.
type Embedder interface {
	// EmbedDocument generates an embedding for text that will be stored
	// in the index. Providers may optimize document-side embeddings
	// differently from query-side ones.
	EmbedDocument(ctx context.Context, text string) ([]float32, error)

	// EmbedQuery generates an embedding for free-text search input.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Segment is one timed piece of a transcript.
type Segment struct {
	// Text is the transcribed text of the segment.
	Text string
	// Start is the segment start offset in seconds.
	Start float64
	// End is the segment end offset in seconds.
	End float64
}

// Transcriber converts a local audio file into an ordered sequence of
// transcript segments.
type Transcriber interface {
	// Transcribe runs speech-to-text over the audio file at audioPath.
	// Returns the segments in playback order. An empty result is valid
	// output; callers decide whether it counts as failure.
	Transcribe(ctx context.Context, audioPath string) ([]Segment, error)
}

// JoinSegments concatenates segment texts with single spaces, trimming
// each segment and dropping empty ones. This is the canonical
// transcript form persisted as raw content.
func JoinSegments(segments []Segment) string {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if text := strings.TrimSpace(seg.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}
