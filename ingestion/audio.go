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
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/listenlab/harvest/core"
	"github.com/listenlab/harvest/registry"
	"github.com/listenlab/harvest/storage"
)

// MaxRetries is the retry budget for failure-retriable stages. An item
// whose retry count reaches this value is no longer eligible.
const MaxRetries = 3

const downloadTimeout = 60 * time.Second

// AudioDownloader downloads episode audio for DISCOVERED and
// retriable AUDIO_FAILED items.
type AudioDownloader struct {
	client      *http.Client
	paths       storage.Paths
	maxEpisodes int
	logger      *slog.Logger
}

// AudioOption configures an AudioDownloader.
type AudioOption func(*AudioDownloader) error

// WithMaxEpisodes caps how many episodes one run will process. Zero
// means no cap. Useful for small development runs.
func WithMaxEpisodes(n int) AudioOption {
	return func(d *AudioDownloader) error {
		if n < 0 {
			return fmt.Errorf("max episodes must not be negative, got %d", n)
		}
		d.maxEpisodes = n
		return nil
	}
}

// WithHTTPClient replaces the download client.
func WithHTTPClient(client *http.Client) AudioOption {
	return func(d *AudioDownloader) error {
		if client == nil {
			return fmt.Errorf("http client must not be nil")
		}
		d.client = client
		return nil
	}
}

// NewAudioDownloader creates the audio download stage.
func NewAudioDownloader(paths storage.Paths, logger *slog.Logger, opts ...AudioOption) (*AudioDownloader, error) {
	if logger == nil {
		logger = slog.Default()
	}
	d := &AudioDownloader{
		client: &http.Client{Timeout: downloadTimeout},
		paths:  paths,
		logger: logger.With("component", "audio_downloader"),
	}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// eligible reports whether the item should be attempted this run.
func (d *AudioDownloader) eligible(item *core.Item) bool {
	switch item.State {
	case core.StateDiscovered:
		return true
	case core.StateAudioFailed:
		return item.Retries < MaxRetries
	default:
		return false
	}
}

// Run downloads audio for every eligible episode. An audio file
// already on disk counts as success without re-downloading, which
// makes interrupted runs resumable.
func (d *AudioDownloader) Run(ctx context.Context) (Report, error) {
	regPath := d.paths.RegistryPath(core.KindEpisode)
	items, err := registry.Load(regPath)
	if err != nil {
		return Report{}, err
	}

	var report Report
	for _, id := range registry.SortedIDs(items) {
		if ctx.Err() != nil {
			break
		}
		if d.maxEpisodes > 0 && report.Processed >= d.maxEpisodes {
			break
		}
		item := items[id]
		if !d.eligible(item) {
			report.Skipped++
			continue
		}
		report.Processed++

		outcome := d.download(ctx, item)
		if err := item.Apply(outcome, time.Now()); err != nil {
			d.logger.Error("applying outcome", "id", id, "error", err)
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
	d.logger.Info("audio download complete",
		"processed", report.Processed,
		"succeeded", report.Succeeded,
		"failed", report.Failed,
		"skipped", report.Skipped)
	return report, nil
}

func (d *AudioDownloader) download(ctx context.Context, item *core.Item) core.Outcome {
	if item.AudioURL == "" {
		d.logger.Warn("episode has no audio url", "id", item.ID)
		return core.OutcomeFailure
	}

	dest := d.paths.AudioPath(item.ID)
	if _, err := os.Stat(dest); err == nil {
		d.logger.Debug("audio already on disk", "id", item.ID)
		return core.OutcomeSuccess
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, item.AudioURL, nil)
	if err != nil {
		d.logger.Warn("building request", "id", item.ID, "error", err)
		return core.OutcomeFailure
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", acceptAudio)
	req.Header.Set("Referer", item.SourceURL)

	resp, err := d.client.Do(req)
	if err != nil {
		d.logger.Warn("download failed", "id", item.ID, "url", item.AudioURL, "error", err)
		return core.OutcomeFailure
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		d.logger.Warn("download rejected",
			"id", item.ID,
			"url", item.AudioURL,
			"status", resp.StatusCode)
		return core.OutcomeFailure
	}

	if err := streamToFile(dest, resp.Body); err != nil {
		d.logger.Warn("writing audio", "id", item.ID, "error", err)
		return core.OutcomeFailure
	}
	d.logger.Info("audio downloaded", "id", item.ID, "path", dest)
	return core.OutcomeSuccess
}

// streamToFile streams body to a temp file in the destination
// directory, then renames it into place. A partial download never
// leaves a file at the final path.
func streamToFile(dest string, body io.Reader) error {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(dest)+".tmp-*")
	if err != nil {
		return err
	}
	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), dest)
}
