// Copyright 2026 Listenlab
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package reindex

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/listenlab/harvest/ai"
	"github.com/listenlab/harvest/core"
	"github.com/listenlab/harvest/index"
	"github.com/listenlab/harvest/ingestion"
	"github.com/listenlab/harvest/storage"
)

// Config holds knobs for a reindex run.
type Config struct {
	// ReportInterval is how often to report progress (number of chunks).
	ReportInterval int

	// MaxRetries is the maximum number of embedding attempts per chunk.
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff.
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Stats summarizes one reindex run.
type Stats struct {
	Total     int
	Succeeded int
	Failed    int
}

// Reindexer re-embeds every persisted chunk of a kind and overwrites
// its index entry. Unlike incremental indexing it does not consult the
// set of already-indexed ids; every chunk gets a fresh vector.
type Reindexer struct {
	embedder ai.Embedder
	idx      index.Index
	paths    storage.Paths
	config   *Config
	progress io.Writer
}

// NewReindexer creates a reindexer.
// progress: where to write progress output (typically os.Stderr)
func NewReindexer(embedder ai.Embedder, idx index.Index, paths storage.Paths, config *Config, progress io.Writer) *Reindexer {
	if config == nil {
		config = DefaultConfig()
	}
	return &Reindexer{
		embedder: embedder,
		idx:      idx,
		paths:    paths,
		config:   config,
		progress: progress,
	}
}

// Run reindexes the kind's whole chunk file. Chunks that still fail
// after all retries are counted and skipped; the run continues.
func (r *Reindexer) Run(ctx context.Context, kind core.Kind) (Stats, error) {
	chunks, err := storage.LoadChunks(r.paths.ChunksPath(kind))
	if err != nil {
		return Stats{}, fmt.Errorf("loading chunks: %w", err)
	}

	stats := Stats{Total: len(chunks)}
	if len(chunks) == 0 {
		return stats, nil
	}

	collection := ingestion.CollectionFor(kind)
	tracker := NewProgressTracker(r.progress, len(chunks), r.config.ReportInterval)
	tracker.Start()
	defer tracker.Finish()

	for _, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if err := r.reindexChunk(ctx, collection, chunk); err != nil {
			stats.Failed++
		} else {
			stats.Succeeded++
		}
		tracker.Increment()
	}
	return stats, nil
}

func (r *Reindexer) reindexChunk(ctx context.Context, collection string, chunk core.Chunk) error {
	vector, err := r.embedWithRetry(ctx, chunk.Text)
	if err != nil {
		return err
	}
	doc := index.Document{
		ID:   chunk.ChunkID,
		Text: chunk.Text,
		Metadata: map[string]string{
			"parent_id":   chunk.ParentID,
			"source_type": chunk.SourceType,
			"title":       chunk.Title,
			"source_url":  chunk.SourceURL,
			"chunk_index": fmt.Sprintf("%d", chunk.ChunkIndex),
		},
	}
	return r.idx.Upsert(ctx, collection, doc, vector)
}

// embedWithRetry doubles the delay after each failed attempt.
func (r *Reindexer) embedWithRetry(ctx context.Context, text string) ([]float32, error) {
	delay := r.config.RetryDelay
	var lastErr error
	for attempt := 1; attempt <= r.config.MaxRetries; attempt++ {
		vector, err := r.embedder.EmbedDocument(ctx, text)
		if err == nil {
			return vector, nil
		}
		lastErr = err
		if attempt == r.config.MaxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return nil, fmt.Errorf("embedding failed after %d attempts: %w", r.config.MaxRetries, lastErr)
}
