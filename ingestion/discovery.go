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
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/listenlab/harvest/core"
)

const defaultMaxCrawlPages = 50

var (
	articlePathPattern    = regexp.MustCompile(`^/blog/[^/]+/?$`)
	paginationPathPattern = regexp.MustCompile(`^/blog(?:/previous/\d+)?/?$`)
)

// excludedSlugs are /blog/<slug> paths that are navigation, not posts.
var excludedSlugs = map[string]bool{
	"archives": true,
	"author":   true,
	"previous": true,
}

// BlogSource discovers blog posts by crawling a site's blog listing
// pages, following "previous" pagination until exhausted.
type BlogSource struct {
	fetcher  PageFetcher
	baseURL  string
	maxPages int
	logger   *slog.Logger
}

// NewBlogSource creates a blog discovery source for the site at
// baseURL (scheme and host, no trailing path).
func NewBlogSource(fetcher PageFetcher, baseURL string, logger *slog.Logger) (*BlogSource, error) {
	if fetcher == nil {
		return nil, ErrFetcherRequired
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BlogSource{
		fetcher:  fetcher,
		baseURL:  strings.TrimRight(baseURL, "/"),
		maxPages: defaultMaxCrawlPages,
		logger:   logger.With("component", "blog_discovery"),
	}, nil
}

// Discover crawls the blog listing and returns one DISCOVERED item per
// post found. Items are returned in first-seen order.
func (b *BlogSource) Discover(ctx context.Context) ([]core.Item, error) {
	now := time.Now().UTC()
	seen := make(map[string]bool)
	visited := make(map[string]bool)
	queue := []string{b.baseURL + "/blog"}

	var items []core.Item
	for len(queue) > 0 && len(visited) < b.maxPages {
		pageURL := queue[0]
		queue = queue[1:]
		if visited[pageURL] {
			continue
		}
		visited[pageURL] = true

		doc, err := b.fetcher.Fetch(ctx, pageURL)
		if err != nil {
			// Pagination often runs past the last page; log and move on.
			b.logger.Warn("crawl page failed", "url", pageURL, "error", err)
			continue
		}

		doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
			href, _ := sel.Attr("href")
			resolved, ok := b.resolve(pageURL, href)
			if !ok {
				return
			}

			path := pathOf(resolved)
			switch {
			case isArticlePath(path):
				if seen[resolved] {
					return
				}
				seen[resolved] = true
				items = append(items, core.Item{
					ID:          core.IDFromContent(resolved),
					Kind:        core.KindBlog,
					Title:       strings.TrimSpace(sel.Text()),
					SourceURL:   resolved,
					State:       core.StateDiscovered,
					LastChecked: now,
				})
			case paginationPathPattern.MatchString(path):
				if !visited[resolved] {
					queue = append(queue, resolved)
				}
			}
		})
	}

	b.logger.Info("blog crawl complete",
		"pages", len(visited),
		"posts", len(items))
	return items, nil
}

// resolve turns href into a normalized absolute URL on the source's
// host. Off-host and unparsable links are rejected.
func (b *BlogSource) resolve(pageURL, href string) (string, bool) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return "", false
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", false
	}
	abs := base.ResolveReference(ref)
	if abs.Host != base.Host || (abs.Scheme != "http" && abs.Scheme != "https") {
		return "", false
	}
	// Fragments and query strings never distinguish posts.
	normalized := abs.Scheme + "://" + abs.Host + strings.TrimRight(abs.Path, "/")
	return normalized, true
}

func pathOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Path
}

func isArticlePath(path string) bool {
	if !articlePathPattern.MatchString(path) {
		return false
	}
	slug := strings.Trim(strings.TrimPrefix(path, "/blog/"), "/")
	return !excludedSlugs[slug]
}

// FeedSource retrieves and parses a podcast RSS feed.
type FeedSource interface {
	Fetch(ctx context.Context, feedURL string) (*gofeed.Feed, error)
}

// RSSFeedSource fetches feeds over HTTP.
type RSSFeedSource struct {
	parser *gofeed.Parser
}

// NewRSSFeedSource creates a feed source.
func NewRSSFeedSource() *RSSFeedSource {
	return &RSSFeedSource{parser: gofeed.NewParser()}
}

// Fetch retrieves and parses the feed at feedURL.
func (r *RSSFeedSource) Fetch(ctx context.Context, feedURL string) (*gofeed.Feed, error) {
	return r.parser.ParseURLWithContext(feedURL, ctx)
}

// PodcastSource discovers podcast episodes from an RSS feed.
type PodcastSource struct {
	feed    FeedSource
	feedURL string
	logger  *slog.Logger
}

// NewPodcastSource creates an episode discovery source for the feed at
// feedURL.
func NewPodcastSource(feed FeedSource, feedURL string, logger *slog.Logger) (*PodcastSource, error) {
	if feed == nil {
		return nil, ErrFeedSourceRequired
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PodcastSource{
		feed:    feed,
		feedURL: feedURL,
		logger:  logger.With("component", "podcast_discovery"),
	}, nil
}

// Discover parses the feed and returns one DISCOVERED item per episode
// that carries an audio enclosure. Episodes without audio are skipped.
func (p *PodcastSource) Discover(ctx context.Context) ([]core.Item, error) {
	feed, err := p.feed.Fetch(ctx, p.feedURL)
	if err != nil {
		return nil, fmt.Errorf("parsing feed %s: %w", p.feedURL, err)
	}

	now := time.Now().UTC()
	items := make([]core.Item, 0, len(feed.Items))
	for _, entry := range feed.Items {
		audioURL := firstAudioEnclosure(entry)
		if audioURL == "" {
			p.logger.Debug("episode has no audio enclosure", "title", entry.Title)
			continue
		}

		id := entry.GUID
		if id == "" {
			id = core.IDFromContent(audioURL)
		}

		item := core.Item{
			ID:          id,
			Kind:        core.KindEpisode,
			Title:       strings.TrimSpace(entry.Title),
			SourceURL:   strings.TrimSuffix(audioURL, ".mp3"),
			AudioURL:    audioURL,
			State:       core.StateDiscovered,
			LastChecked: now,
		}
		if entry.PublishedParsed != nil {
			item.PublishedAt = entry.PublishedParsed.UTC().Format(time.RFC3339)
		}
		items = append(items, item)
	}

	p.logger.Info("feed parsed",
		"url", p.feedURL,
		"episodes", len(items))
	return items, nil
}

func firstAudioEnclosure(entry *gofeed.Item) string {
	for _, enc := range entry.Enclosures {
		if enc.URL == "" {
			continue
		}
		if strings.HasPrefix(enc.Type, "audio/") || enc.Type == "" {
			return enc.URL
		}
	}
	return ""
}
