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
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/listenlab/harvest"
	"github.com/listenlab/harvest/core"
	"github.com/listenlab/harvest/search"
)

func init() {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})
	slog.SetDefault(slog.New(handler))
}

func main() {
	app := &cli.App{
		Name:      "searcher",
		Usage:     "Query the harvested content index",
		ArgsUsage: "<query terms>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "data-dir",
				Aliases: []string{"d"},
				Usage:   "Root of the harvest data directory",
				Value:   "./data",
			},
			&cli.StringFlag{
				Name:    "kind",
				Aliases: []string{"k"},
				Usage:   "Collection to query: blogs or podcasts",
				Value:   "blogs",
			},
			&cli.IntFlag{
				Name:    "top-k",
				Aliases: []string{"n"},
				Usage:   "Number of results",
				Value:   search.DefaultTopK,
			},
		},
		Action: searchCommand,
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func searchCommand(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if query == "" {
		return fmt.Errorf("query terms are required")
	}

	var kind core.Kind
	switch strings.ToLower(c.String("kind")) {
	case "blogs", "blog":
		kind = core.KindBlog
	case "podcasts", "podcast":
		kind = core.KindEpisode
	default:
		return fmt.Errorf("invalid kind %q: must be blogs or podcasts", c.String("kind"))
	}

	ctx := context.Background()
	h, err := harvest.Open(ctx, harvest.Config{DataDir: c.String("data-dir")})
	if err != nil {
		return err
	}
	defer h.Close()

	searcher, err := h.Searcher()
	if err != nil {
		return err
	}

	results, err := searcher.Retrieve(ctx, query, kind, c.Int("top-k"))
	if err != nil {
		return err
	}

	fmt.Printf("Found %d hits\n", len(results))
	for i, hit := range results {
		fmt.Printf("%d: %s [%0.3f]\n", i+1, hit.Metadata["title"], hit.Distance)
		fmt.Printf("   %s\n", hit.Metadata["source_url"])
		fmt.Printf("   %s\n", snippet(hit.Text, 200))
	}
	return nil
}

func snippet(text string, max int) string {
	text = strings.Join(strings.Fields(text), " ")
	if len(text) <= max {
		return text
	}
	return text[:max] + "..."
}
