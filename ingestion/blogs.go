package ingestion

import (
	"context"
	"log/slog"
	"time"

	"github.com/listenlab/harvest/core"
	"github.com/listenlab/harvest/registry"
	"github.com/listenlab/harvest/storage"
)

// BlogAcquirer fetches the page of every DISCOVERED blog item,
// extracts its article text, and persists it as raw content.
type BlogAcquirer struct {
	fetcher PageFetcher
	paths   storage.Paths
	logger  *slog.Logger
}

// NewBlogAcquirer creates the blog acquisition stage.
func NewBlogAcquirer(fetcher PageFetcher, paths storage.Paths, logger *slog.Logger) (*BlogAcquirer, error) {
	if fetcher == nil {
		return nil, ErrFetcherRequired
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BlogAcquirer{
		fetcher: fetcher,
		paths:   paths,
		logger:  logger.With("component", "blog_acquirer"),
	}, nil
}

// Run processes every eligible blog item in the registry. The registry
// is saved even when individual items fail, so progress survives
// partial runs.
func (a *BlogAcquirer) Run(ctx context.Context) (Report, error) {
	regPath := a.paths.RegistryPath(core.KindBlog)
	items, err := registry.Load(regPath)
	if err != nil {
		return Report{}, err
	}

	var report Report
	for _, id := range registry.SortedIDs(items) {
		if ctx.Err() != nil {
			break
		}
		item := items[id]
		if item.State != core.StateDiscovered {
			report.Skipped++
			continue
		}
		report.Processed++

		outcome := a.acquire(ctx, item)
		if err := item.Apply(outcome, time.Now()); err != nil {
			a.logger.Error("applying outcome", "id", id, "error", err)
			report.Failed++
			continue
		}
		if outcome == core.OutcomeSuccess {
			report.Succeeded++
		} else {
			report.Failed++
		}
	}

	if err := registry.Save(regPath, items); err != nil {
		return report, err
	}
	a.logger.Info("blog acquisition complete",
		"processed", report.Processed,
		"succeeded", report.Succeeded,
		"failed", report.Failed,
		"skipped", report.Skipped)
	return report, nil
}

func (a *BlogAcquirer) acquire(ctx context.Context, item *core.Item) core.Outcome {
	doc, err := a.fetcher.Fetch(ctx, item.SourceURL)
	if err != nil {
		a.logger.Warn("fetch failed", "id", item.ID, "url", item.SourceURL, "error", err)
		return core.OutcomeFailure
	}

	title, body, err := extractArticle(doc)
	if err != nil {
		a.logger.Warn("extraction failed", "id", item.ID, "url", item.SourceURL, "error", err)
		return core.OutcomeFailure
	}
	if title == "" {
		title = item.Title
	}

	raw := &core.RawContent{
		ID:          item.ID,
		Kind:        core.KindBlog,
		Title:       title,
		SourceURL:   item.SourceURL,
		PublishedAt: item.PublishedAt,
		Body:        body,
		AcquiredAt:  time.Now().UTC(),
	}
	if err := storage.SaveRawContent(a.paths.RawDir(core.KindBlog), raw); err != nil {
		a.logger.Error("saving raw content", "id", item.ID, "error", err)
		return core.OutcomeFailure
	}
	return core.OutcomeSuccess
}
