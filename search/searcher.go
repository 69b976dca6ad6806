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

package search

import (
	"context"
	"log/slog"
	"strings"

	"github.com/listenlab/harvest/ai"
	"github.com/listenlab/harvest/core"
	"github.com/listenlab/harvest/index"
	"github.com/listenlab/harvest/ingestion"
)

// DefaultTopK is the result count used when the caller passes a
// non-positive topK.
const DefaultTopK = 5

// Result is one retrieved chunk.
type Result struct {
	// Text is the chunk text.
	Text string
	// Metadata carries parent_id, source_type, title, source_url and
	// chunk_index.
	Metadata map[string]string
	// Distance is the cosine distance to the query; smaller is closer.
	Distance float32
}

// Searcher embeds queries and retrieves the nearest chunks from the
// vector index.
type Searcher struct {
	embedder ai.Embedder
	idx      index.Index
	logger   *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(embedder ai.Embedder, idx index.Index, opts ...Option) (*Searcher, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if idx == nil {
		return nil, ErrIndexRequired
	}

	s := &Searcher{
		embedder: embedder,
		idx:      idx,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Retrieve returns up to topK chunks from the kind's collection ranked
// by ascending distance to the query. A non-positive topK means
// DefaultTopK.
func (s *Searcher) Retrieve(ctx context.Context, query string, kind core.Kind, topK int) ([]Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	vector, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		s.logger.Error("embedding query failed", "error", err)
		return nil, err
	}

	collection := ingestion.CollectionFor(kind)
	matches, err := s.idx.Query(ctx, collection, vector, topK)
	if err != nil {
		s.logger.Error("index query failed", "collection", collection, "error", err)
		return nil, err
	}

	results := make([]Result, len(matches))
	for i, match := range matches {
		results[i] = Result{
			Text:     match.Document.Text,
			Metadata: match.Document.Metadata,
			Distance: match.Distance,
		}
	}
	s.logger.Debug("retrieval complete",
		"collection", collection,
		"results", len(results))
	return results, nil
}
