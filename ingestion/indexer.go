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

package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/listenlab/harvest/ai"
	"github.com/listenlab/harvest/core"
	"github.com/listenlab/harvest/index"
	"github.com/listenlab/harvest/storage"
)

const (
	embedAttempts       = 3
	defaultEmbedBackoff = 2 * time.Second
)

// CollectionFor maps a content kind to its index collection name.
func CollectionFor(kind core.Kind) string {
	if kind == core.KindEpisode {
		return "podcasts"
	}
	return "blogs"
}

// Indexer embeds chunks and upserts them into the vector index. It
// never touches the item registry; chunk ids alone decide what is
// already indexed.
type Indexer struct {
	embedder ai.Embedder
	idx      index.Index
	paths    storage.Paths
	backoff  time.Duration
	logger   *slog.Logger
}

// IndexerOption configures an Indexer.
type IndexerOption func(*Indexer) error

// WithEmbedBackoff sets the base delay between embedding retries.
// Attempt n waits n times this value.
func WithEmbedBackoff(d time.Duration) IndexerOption {
	return func(ix *Indexer) error {
		if d < 0 {
			return fmt.Errorf("backoff must not be negative, got %s", d)
		}
		ix.backoff = d
		return nil
	}
}

// NewIndexer creates the indexing stage.
func NewIndexer(embedder ai.Embedder, idx index.Index, paths storage.Paths, logger *slog.Logger, opts ...IndexerOption) (*Indexer, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if idx == nil {
		return nil, ErrIndexRequired
	}
	if logger == nil {
		logger = slog.Default()
	}
	ix := &Indexer{
		embedder: embedder,
		idx:      idx,
		paths:    paths,
		backoff:  defaultEmbedBackoff,
		logger:   logger.With("component", "indexer"),
	}
	for _, opt := range opts {
		if err := opt(ix); err != nil {
			return nil, err
		}
	}
	return ix, nil
}

// Run indexes every chunk of kind that the collection does not hold
// yet. A chunk that fails after all embedding attempts is counted and
// left for the next run; indexing continues with the rest.
func (ix *Indexer) Run(ctx context.Context, kind core.Kind) (Report, error) {
	chunks, err := storage.LoadChunks(ix.paths.ChunksPath(kind))
	if err != nil {
		return Report{}, fmt.Errorf("loading chunks: %w", err)
	}
	if len(chunks) == 0 {
		ix.logger.Info("no chunks to index", "kind", kind)
		return Report{}, nil
	}

	collection := CollectionFor(kind)
	existing, err := ix.idx.ExistingIDs(ctx, collection)
	if err != nil {
		return Report{}, fmt.Errorf("listing indexed ids: %w", err)
	}

	var report Report
	for _, chunk := range chunks {
		if ctx.Err() != nil {
			break
		}
		if _, ok := existing[chunk.ChunkID]; ok {
			report.Skipped++
			continue
		}
		report.Processed++

		if err := ix.indexChunk(ctx, collection, chunk); err != nil {
			ix.logger.Warn("indexing chunk failed",
				"chunk_id", chunk.ChunkID,
				"parent_id", chunk.ParentID,
				"error", err)
			report.Failed++
			continue
		}
		report.Succeeded++
	}

	ix.logger.Info("indexing complete",
		"kind", kind,
		"collection", collection,
		"indexed", report.Succeeded,
		"failed", report.Failed,
		"skipped", report.Skipped)
	return report, nil
}

func (ix *Indexer) indexChunk(ctx context.Context, collection string, chunk core.Chunk) error {
	vector, err := ix.embedWithRetry(ctx, chunk.Text)
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
	return ix.idx.Upsert(ctx, collection, doc, vector)
}

// embedWithRetry embeds text with a small linear backoff between
// attempts, which is usually enough to ride out provider rate limits.
func (ix *Indexer) embedWithRetry(ctx context.Context, text string) ([]float32, error) {
	var lastErr error
	for attempt := 1; attempt <= embedAttempts; attempt++ {
		vector, err := ix.embedder.EmbedDocument(ctx, text)
		if err == nil {
			return vector, nil
		}
		lastErr = err
		if attempt == embedAttempts {
			break
		}

		delay := time.Duration(attempt) * ix.backoff
		ix.logger.Debug("embedding attempt failed",
			"attempt", attempt,
			"delay", delay,
			"error", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
	return nil, fmt.Errorf("embedding failed after %d attempts: %w", embedAttempts, lastErr)
}
