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

package chunker

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/listenlab/harvest/core"
	"github.com/listenlab/harvest/storage"
)

const defaultPoolSize = 4

// Chunker splits every raw file of a source kind into chunks and
// writes the combined chunk file. Raw items are split concurrently on
// a worker pool; output order follows raw item order regardless of
// completion order.
type Chunker struct {
	splitter *Splitter
	paths    storage.Paths
	poolSize int
	logger   *slog.Logger
}

// Option configures a Chunker.
type Option func(*Chunker) error

// WithPoolSize sets the number of concurrent split workers.
func WithPoolSize(size int) Option {
	return func(c *Chunker) error {
		if size <= 0 {
			return fmt.Errorf("pool size must be positive, got %d", size)
		}
		c.poolSize = size
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Chunker) error {
		if logger == nil {
			return fmt.Errorf("logger must not be nil")
		}
		c.logger = logger
		return nil
	}
}

// NewChunker creates a Chunker rooted at the given data layout.
func NewChunker(paths storage.Paths, opts ...Option) (*Chunker, error) {
	splitter, err := NewSplitter()
	if err != nil {
		return nil, fmt.Errorf("creating splitter: %w", err)
	}

	c := &Chunker{
		splitter: splitter,
		paths:    paths,
		poolSize: defaultPoolSize,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	c.logger = c.logger.With("component", "chunker")
	return c, nil
}

// ProcessKind loads every raw file of kind, splits each into chunks,
// and rewrites the kind's chunk file from scratch. Re-running on
// unchanged raw files produces an identical chunk file.
func (c *Chunker) ProcessKind(kind core.Kind) (int, error) {
	raws, err := storage.LoadRawContents(c.paths.RawDir(kind))
	if err != nil {
		return 0, fmt.Errorf("loading raw content: %w", err)
	}
	if len(raws) == 0 {
		c.logger.Info("no raw content to chunk", "kind", kind)
		return 0, nil
	}

	pool, err := ants.NewPool(c.poolSize)
	if err != nil {
		return 0, fmt.Errorf("creating worker pool: %w", err)
	}
	defer pool.Release()

	results := make([][]core.Chunk, len(raws))
	errs := make([]error, len(raws))

	var wg sync.WaitGroup
	for i, raw := range raws {
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			results[i], errs[i] = c.splitter.Split(SplitInput{
				Text:       raw.Body,
				ParentID:   raw.ID,
				SourceType: kind.SourceType(),
				Title:      raw.Title,
				SourceURL:  raw.SourceURL,
			})
		})
		if submitErr != nil {
			wg.Done()
			errs[i] = submitErr
		}
	}
	wg.Wait()

	chunks := make([]core.Chunk, 0, len(raws))
	for i, raw := range raws {
		if errs[i] != nil {
			c.logger.Error("splitting raw content failed",
				"id", raw.ID,
				"error", errs[i])
			continue
		}
		chunks = append(chunks, results[i]...)
	}

	if err := storage.SaveChunks(c.paths.ChunksPath(kind), chunks); err != nil {
		return 0, fmt.Errorf("saving chunks: %w", err)
	}
	c.logger.Info("chunking complete",
		"kind", kind,
		"parents", len(raws),
		"chunks", len(chunks))
	return len(chunks), nil
}

// Stats summarizes token lengths across a chunk set.
type Stats struct {
	Chunks    int
	Parents   int
	MinTokens int
	MaxTokens int
	AvgTokens float64
	Over      int // chunks exceeding the configured token budget
}

// Stat computes token-length statistics for a chunk set.
func (c *Chunker) Stat(chunks []core.Chunk) Stats {
	if len(chunks) == 0 {
		return Stats{}
	}

	parents := make(map[string]struct{}, len(chunks))
	lengths := make([]int, len(chunks))
	total := 0
	over := 0
	for i, chunk := range chunks {
		parents[chunk.ParentID] = struct{}{}
		n := c.splitter.TokenLen(chunk.Text)
		lengths[i] = n
		total += n
		if n > ChunkSize {
			over++
		}
	}
	sort.Ints(lengths)

	return Stats{
		Chunks:    len(chunks),
		Parents:   len(parents),
		MinTokens: lengths[0],
		MaxTokens: lengths[len(lengths)-1],
		AvgTokens: float64(total) / float64(len(chunks)),
		Over:      over,
	}
}
