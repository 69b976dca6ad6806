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

	"github.com/listenlab/harvest/ai"
	"github.com/listenlab/harvest/chunker"
	"github.com/listenlab/harvest/core"
	"github.com/listenlab/harvest/index"
	"github.com/listenlab/harvest/registry"
	"github.com/listenlab/harvest/storage"
)

// Report counts what one stage run did. Skipped items were ineligible
// or already done.
type Report struct {
	Processed int
	Succeeded int
	Failed    int
	Skipped   int
}

// PipelineConfig carries the dependencies and sources for a Pipeline.
// Sources may be nil; stages for an absent source are unavailable.
type PipelineConfig struct {
	Paths         storage.Paths
	BlogSource    *BlogSource
	PodcastSource *PodcastSource
	Fetcher       PageFetcher
	Transcriber   ai.Transcriber
	Embedder      ai.Embedder
	Index         index.Index
	MaxEpisodes   int
	Logger        *slog.Logger
}

// Pipeline wires the harvest stages over one data directory. Stages
// can run individually or chained end to end; every stage is safe to
// re-run.
type Pipeline struct {
	paths         storage.Paths
	blogSource    *BlogSource
	podcastSource *PodcastSource
	blogAcquirer  *BlogAcquirer
	audio         *AudioDownloader
	transcribe    *TranscribeStage
	chunk         *chunker.Chunker
	indexer       *Indexer
	logger        *slog.Logger
}

// NewPipeline creates a pipeline from config. Fetcher, Transcriber,
// Embedder and Index are required.
func NewPipeline(cfg PipelineConfig) (*Pipeline, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	blogAcquirer, err := NewBlogAcquirer(cfg.Fetcher, cfg.Paths, logger)
	if err != nil {
		return nil, err
	}

	var audioOpts []AudioOption
	if cfg.MaxEpisodes > 0 {
		audioOpts = append(audioOpts, WithMaxEpisodes(cfg.MaxEpisodes))
	}
	audio, err := NewAudioDownloader(cfg.Paths, logger, audioOpts...)
	if err != nil {
		return nil, err
	}

	transcribe, err := NewTranscribeStage(cfg.Transcriber, cfg.Paths, logger)
	if err != nil {
		return nil, err
	}

	chunk, err := chunker.NewChunker(cfg.Paths, chunker.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	indexer, err := NewIndexer(cfg.Embedder, cfg.Index, cfg.Paths, logger)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		paths:         cfg.Paths,
		blogSource:    cfg.BlogSource,
		podcastSource: cfg.PodcastSource,
		blogAcquirer:  blogAcquirer,
		audio:         audio,
		transcribe:    transcribe,
		chunk:         chunk,
		indexer:       indexer,
		logger:        logger.With("component", "pipeline"),
	}, nil
}

// DiscoverBlogs crawls the blog source and registers posts not seen
// before. Returns how many new items were added.
func (p *Pipeline) DiscoverBlogs(ctx context.Context) (int, error) {
	if p.blogSource == nil {
		return 0, fmt.Errorf("no blog source configured")
	}
	found, err := p.blogSource.Discover(ctx)
	if err != nil {
		return 0, err
	}
	return p.register(core.KindBlog, found)
}

// DiscoverPodcasts parses the podcast feed and registers episodes not
// seen before. Returns how many new items were added.
func (p *Pipeline) DiscoverPodcasts(ctx context.Context) (int, error) {
	if p.podcastSource == nil {
		return 0, fmt.Errorf("no podcast source configured")
	}
	found, err := p.podcastSource.Discover(ctx)
	if err != nil {
		return 0, err
	}
	return p.register(core.KindEpisode, found)
}

// register merges discovered items into the kind's registry. Known
// items keep their state and retry count untouched.
func (p *Pipeline) register(kind core.Kind, found []core.Item) (int, error) {
	regPath := p.paths.RegistryPath(kind)
	items, err := registry.Load(regPath)
	if err != nil {
		return 0, err
	}

	added := 0
	for _, item := range found {
		if _, known := items[item.ID]; known {
			continue
		}
		item := item
		items[item.ID] = &item
		added++
	}
	if added > 0 {
		if err := registry.Save(regPath, items); err != nil {
			return 0, err
		}
	}
	p.logger.Info("discovery registered",
		"kind", kind,
		"found", len(found),
		"new", added)
	return added, nil
}

// AcquireBlogs runs the blog acquisition stage.
func (p *Pipeline) AcquireBlogs(ctx context.Context) (Report, error) {
	return p.blogAcquirer.Run(ctx)
}

// DownloadAudio runs the episode audio download stage.
func (p *Pipeline) DownloadAudio(ctx context.Context) (Report, error) {
	return p.audio.Run(ctx)
}

// Transcribe runs the transcription stage.
func (p *Pipeline) Transcribe(ctx context.Context) (Report, error) {
	return p.transcribe.Run(ctx)
}

// Chunk splits the kind's raw content into chunk files. Returns the
// chunk count.
func (p *Pipeline) Chunk(kind core.Kind) (int, error) {
	return p.chunk.ProcessKind(kind)
}

// ChunkStats computes token statistics over the kind's current chunk
// file.
func (p *Pipeline) ChunkStats(kind core.Kind) (chunker.Stats, error) {
	chunks, err := storage.LoadChunks(p.paths.ChunksPath(kind))
	if err != nil {
		return chunker.Stats{}, err
	}
	return p.chunk.Stat(chunks), nil
}

// IndexChunks runs the indexing stage for the kind.
func (p *Pipeline) IndexChunks(ctx context.Context, kind core.Kind) (Report, error) {
	return p.indexer.Run(ctx, kind)
}

// RunBlogs runs the full blog chain: discover, acquire, chunk, index.
func (p *Pipeline) RunBlogs(ctx context.Context) error {
	if p.blogSource != nil {
		if _, err := p.DiscoverBlogs(ctx); err != nil {
			return fmt.Errorf("discovering blogs: %w", err)
		}
	}
	if _, err := p.AcquireBlogs(ctx); err != nil {
		return fmt.Errorf("acquiring blogs: %w", err)
	}
	if _, err := p.Chunk(core.KindBlog); err != nil {
		return fmt.Errorf("chunking blogs: %w", err)
	}
	if _, err := p.IndexChunks(ctx, core.KindBlog); err != nil {
		return fmt.Errorf("indexing blogs: %w", err)
	}
	return nil
}

// RunPodcasts runs the full podcast chain: discover, download,
// transcribe, chunk, index.
func (p *Pipeline) RunPodcasts(ctx context.Context) error {
	if p.podcastSource != nil {
		if _, err := p.DiscoverPodcasts(ctx); err != nil {
			return fmt.Errorf("discovering podcasts: %w", err)
		}
	}
	if _, err := p.DownloadAudio(ctx); err != nil {
		return fmt.Errorf("downloading audio: %w", err)
	}
	if _, err := p.Transcribe(ctx); err != nil {
		return fmt.Errorf("transcribing: %w", err)
	}
	if _, err := p.Chunk(core.KindEpisode); err != nil {
		return fmt.Errorf("chunking podcasts: %w", err)
	}
	if _, err := p.IndexChunks(ctx, core.KindEpisode); err != nil {
		return fmt.Errorf("indexing podcasts: %w", err)
	}
	return nil
}

// Run runs both chains. Blog and podcast pipelines are independent;
// a failure in one does not stop the other.
func (p *Pipeline) Run(ctx context.Context) error {
	var firstErr error
	if err := p.RunBlogs(ctx); err != nil {
		p.logger.Error("blog pipeline failed", "error", err)
		firstErr = err
	}
	if err := p.RunPodcasts(ctx); err != nil {
		p.logger.Error("podcast pipeline failed", "error", err)
		if firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
