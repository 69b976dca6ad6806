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

package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/listenlab/harvest"
	"github.com/listenlab/harvest/ai"
	"github.com/listenlab/harvest/core"
	"github.com/listenlab/harvest/ingestion"
	"github.com/listenlab/harvest/reindex"
)

func main() {
	app := &cli.App{
		Name:  "harvest",
		Usage: "Incremental blog and podcast ingestion for semantic search",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "data-dir",
				Aliases: []string{"d"},
				Usage:   "Root of the harvest data directory",
				Value:   "./data",
			},
			&cli.StringFlag{
				Name:  "blog-url",
				Usage: "Base URL of the blog site to crawl",
			},
			&cli.StringFlag{
				Name:  "feed-url",
				Usage: "Podcast RSS feed URL",
			},
			&cli.IntFlag{
				Name:  "max-episodes",
				Usage: "Cap on episodes handled per download run (0 = no cap)",
			},
			&cli.StringFlag{
				Name:    "api-key",
				Usage:   "Embedding provider API key",
				EnvVars: []string{"GOOGLE_API_KEY"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "discover",
				Usage:  "Find new blog posts and podcast episodes",
				Action: discoverCommand,
				Flags:  []cli.Flag{kindFlag()},
			},
			{
				Name:   "acquire",
				Usage:  "Fetch article text for discovered blog posts",
				Action: acquireCommand,
			},
			{
				Name:   "download",
				Usage:  "Download audio for discovered podcast episodes",
				Action: downloadCommand,
			},
			{
				Name:   "transcribe",
				Usage:  "Transcribe downloaded episode audio",
				Action: transcribeCommand,
			},
			{
				Name:   "chunk",
				Usage:  "Split raw content into embeddable chunks",
				Action: chunkCommand,
				Flags: []cli.Flag{
					kindFlag(),
					&cli.BoolFlag{
						Name:  "stats",
						Usage: "Print token statistics for the chunk file",
					},
				},
			},
			{
				Name:   "index",
				Usage:  "Embed and index chunks not yet in the vector index",
				Action: indexCommand,
				Flags:  []cli.Flag{kindFlag()},
			},
			{
				Name:   "run",
				Usage:  "Run the full pipeline end to end",
				Action: runCommand,
				Flags:  []cli.Flag{kindFlag()},
			},
			{
				Name:   "reindex",
				Usage:  "Re-embed every chunk, replacing existing vectors",
				Action: reindexCommand,
				Flags: []cli.Flag{
					kindFlag(),
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N chunks",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum embedding attempts per chunk",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func kindFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "kind",
		Aliases: []string{"k"},
		Usage:   "Content kind: blogs, podcasts, or all",
		Value:   "all",
	}
}

// kinds resolves the --kind flag into the kinds to act on.
func kinds(c *cli.Context) ([]core.Kind, error) {
	switch strings.ToLower(c.String("kind")) {
	case "blogs", "blog":
		return []core.Kind{core.KindBlog}, nil
	case "podcasts", "podcast":
		return []core.Kind{core.KindEpisode}, nil
	case "all", "":
		return []core.Kind{core.KindBlog, core.KindEpisode}, nil
	default:
		return nil, fmt.Errorf("invalid kind %q: must be blogs, podcasts, or all", c.String("kind"))
	}
}

func open(c *cli.Context) (*harvest.Harvest, error) {
	var aiConfig *ai.Config
	if key := c.String("api-key"); key != "" {
		aiConfig = ai.NewConfig(ai.WithAPIKey(key))
	}
	return harvest.Open(c.Context, harvest.Config{
		DataDir:     c.String("data-dir"),
		BlogBaseURL: c.String("blog-url"),
		FeedURL:     c.String("feed-url"),
		MaxEpisodes: c.Int("max-episodes"),
		AI:          aiConfig,
	})
}

func discoverCommand(c *cli.Context) error {
	h, err := open(c)
	if err != nil {
		return err
	}
	defer h.Close()

	wanted, err := kinds(c)
	if err != nil {
		return err
	}
	for _, kind := range wanted {
		switch kind {
		case core.KindBlog:
			if c.String("blog-url") == "" {
				continue
			}
			added, err := h.Pipeline().DiscoverBlogs(c.Context)
			if err != nil {
				return err
			}
			fmt.Printf("blogs: %d new\n", added)
		case core.KindEpisode:
			if c.String("feed-url") == "" {
				continue
			}
			added, err := h.Pipeline().DiscoverPodcasts(c.Context)
			if err != nil {
				return err
			}
			fmt.Printf("podcasts: %d new\n", added)
		}
	}
	return nil
}

func acquireCommand(c *cli.Context) error {
	h, err := open(c)
	if err != nil {
		return err
	}
	defer h.Close()

	report, err := h.Pipeline().AcquireBlogs(c.Context)
	if err != nil {
		return err
	}
	printReport("acquire", report)
	return nil
}

func downloadCommand(c *cli.Context) error {
	h, err := open(c)
	if err != nil {
		return err
	}
	defer h.Close()

	report, err := h.Pipeline().DownloadAudio(c.Context)
	if err != nil {
		return err
	}
	printReport("download", report)
	return nil
}

func transcribeCommand(c *cli.Context) error {
	h, err := open(c)
	if err != nil {
		return err
	}
	defer h.Close()

	report, err := h.Pipeline().Transcribe(c.Context)
	if err != nil {
		return err
	}
	printReport("transcribe", report)
	return nil
}

func chunkCommand(c *cli.Context) error {
	h, err := open(c)
	if err != nil {
		return err
	}
	defer h.Close()

	wanted, err := kinds(c)
	if err != nil {
		return err
	}
	for _, kind := range wanted {
		if c.Bool("stats") {
			stats, err := h.Pipeline().ChunkStats(kind)
			if err != nil {
				return err
			}
			fmt.Printf("%s: %d chunks from %d parents, tokens min=%d max=%d avg=%.1f over-budget=%d\n",
				kind.SourceType(), stats.Chunks, stats.Parents,
				stats.MinTokens, stats.MaxTokens, stats.AvgTokens, stats.Over)
			continue
		}
		count, err := h.Pipeline().Chunk(kind)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %d chunks\n", kind.SourceType(), count)
	}
	return nil
}

func indexCommand(c *cli.Context) error {
	h, err := open(c)
	if err != nil {
		return err
	}
	defer h.Close()

	wanted, err := kinds(c)
	if err != nil {
		return err
	}
	for _, kind := range wanted {
		report, err := h.Pipeline().IndexChunks(c.Context, kind)
		if err != nil {
			return err
		}
		printReport("index "+kind.SourceType(), report)
	}
	return nil
}

func runCommand(c *cli.Context) error {
	h, err := open(c)
	if err != nil {
		return err
	}
	defer h.Close()

	wanted, err := kinds(c)
	if err != nil {
		return err
	}
	for _, kind := range wanted {
		switch kind {
		case core.KindBlog:
			if err := h.Pipeline().RunBlogs(c.Context); err != nil {
				return err
			}
		case core.KindEpisode:
			if err := h.Pipeline().RunPodcasts(c.Context); err != nil {
				return err
			}
		}
	}
	return nil
}

func reindexCommand(c *cli.Context) error {
	h, err := open(c)
	if err != nil {
		return err
	}
	defer h.Close()

	config := &reindex.Config{
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	r := reindex.NewReindexer(h.Embedder(), h.Index(), h.Paths(), config, os.Stderr)

	wanted, err := kinds(c)
	if err != nil {
		return err
	}
	for _, kind := range wanted {
		stats, err := r.Run(c.Context, kind)
		if err != nil {
			return err
		}
		fmt.Printf("reindex %s: %d succeeded, %d failed of %d\n",
			kind.SourceType(), stats.Succeeded, stats.Failed, stats.Total)
	}
	return nil
}

func printReport(stage string, report ingestion.Report) {
	fmt.Printf("%s: %d processed, %d succeeded, %d failed, %d skipped\n",
		stage, report.Processed, report.Succeeded, report.Failed, report.Skipped)
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
