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

// Package harvest assembles the content pipeline and search surface
// over one data directory.
package harvest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/listenlab/harvest/ai"
	"github.com/listenlab/harvest/ai/googleai"
	"github.com/listenlab/harvest/ai/whisper"
	"github.com/listenlab/harvest/index"
	badgerindex "github.com/listenlab/harvest/index/badger"
	"github.com/listenlab/harvest/ingestion"
	"github.com/listenlab/harvest/search"
	"github.com/listenlab/harvest/storage"
)

// Config selects the data directory, content sources, and provider
// settings for a Harvest instance.
type Config struct {
	// DataDir is the root of the data tree: registries, raw content,
	// audio, chunks and the vector index all live under it.
	DataDir string

	// BlogBaseURL is the site to crawl for posts. Empty disables blog
	// discovery.
	BlogBaseURL string

	// FeedURL is the podcast RSS feed. Empty disables episode
	// discovery.
	FeedURL string

	// MaxEpisodes caps episodes handled per download run. Zero means
	// no cap.
	MaxEpisodes int

	// AI holds embedding provider settings. Nil means defaults with
	// the API key taken from the environment by the provider client.
	AI *ai.Config

	// Whisper holds transcription settings. The zero value uses the
	// bundled defaults.
	Whisper whisper.Config

	// Logger is the root logger. Nil means slog.Default().
	Logger *slog.Logger
}

// Harvest owns the vector index handle and the wired pipeline. Close
// it when done.
type Harvest struct {
	paths    storage.Paths
	idx      index.Index
	embedder ai.Embedder
	pipeline *ingestion.Pipeline
	logger   *slog.Logger
}

// Open wires a Harvest instance from config. It opens the vector
// index under the data directory and constructs the embedding and
// transcription clients.
func Open(ctx context.Context, cfg Config) (*Harvest, error) {
	if cfg.DataDir == "" {
		return nil, fmt.Errorf("data directory is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	paths := storage.NewPaths(cfg.DataDir)

	aiConfig := cfg.AI
	if aiConfig == nil {
		aiConfig = ai.DefaultConfig()
	}
	embedder, err := googleai.NewEmbedder(ctx, aiConfig)
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}

	idx, err := badgerindex.NewIndex(paths.IndexDir())
	if err != nil {
		return nil, fmt.Errorf("opening vector index: %w", err)
	}

	fetcher := ingestion.NewHTTPFetcher()

	var blogSource *ingestion.BlogSource
	if cfg.BlogBaseURL != "" {
		blogSource, err = ingestion.NewBlogSource(fetcher, cfg.BlogBaseURL, logger)
		if err != nil {
			idx.Close()
			return nil, err
		}
	}

	var podcastSource *ingestion.PodcastSource
	if cfg.FeedURL != "" {
		podcastSource, err = ingestion.NewPodcastSource(ingestion.NewRSSFeedSource(), cfg.FeedURL, logger)
		if err != nil {
			idx.Close()
			return nil, err
		}
	}

	pipeline, err := ingestion.NewPipeline(ingestion.PipelineConfig{
		Paths:         paths,
		BlogSource:    blogSource,
		PodcastSource: podcastSource,
		Fetcher:       fetcher,
		Transcriber:   whisper.NewTranscriber(cfg.Whisper),
		Embedder:      embedder,
		Index:         idx,
		MaxEpisodes:   cfg.MaxEpisodes,
		Logger:        logger,
	})
	if err != nil {
		idx.Close()
		return nil, err
	}

	return &Harvest{
		paths:    paths,
		idx:      idx,
		embedder: embedder,
		pipeline: pipeline,
		logger:   logger,
	}, nil
}

// Pipeline returns the wired ingestion pipeline.
func (h *Harvest) Pipeline() *ingestion.Pipeline {
	return h.pipeline
}

// Searcher creates a searcher over the instance's index.
func (h *Harvest) Searcher() (*search.Searcher, error) {
	return search.NewSearcher(h.embedder, h.idx, search.WithLogger(h.logger))
}

// Paths exposes the data tree layout.
func (h *Harvest) Paths() storage.Paths {
	return h.paths
}

// Index exposes the vector index for maintenance tooling.
func (h *Harvest) Index() index.Index {
	return h.idx
}

// Embedder exposes the embedding client for maintenance tooling.
func (h *Harvest) Embedder() ai.Embedder {
	return h.embedder
}

// Close releases the vector index.
func (h *Harvest) Close() error {
	return h.idx.Close()
}
