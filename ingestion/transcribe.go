package ingestion

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/listenlab/harvest/ai"
	"github.com/listenlab/harvest/core"
	"github.com/listenlab/harvest/registry"
	"github.com/listenlab/harvest/storage"
)

// TranscribeStage converts downloaded episode audio into raw transcript
// content.
type TranscribeStage struct {
	transcriber ai.Transcriber
	paths       storage.Paths
	keepAudio   bool
	logger      *slog.Logger
}

// TranscribeOption configures a TranscribeStage.
type TranscribeOption func(*TranscribeStage)

// WithKeepAudio disables deletion of audio files after successful
// transcription.
func WithKeepAudio() TranscribeOption {
	return func(t *TranscribeStage) {
		t.keepAudio = true
	}
}

// NewTranscribeStage creates the transcription stage.
func NewTranscribeStage(transcriber ai.Transcriber, paths storage.Paths, logger *slog.Logger, opts ...TranscribeOption) (*TranscribeStage, error) {
	if transcriber == nil {
		return nil, ErrTranscriberRequired
	}
	if logger == nil {
		logger = slog.Default()
	}
	t := &TranscribeStage{
		transcriber: transcriber,
		paths:       paths,
		logger:      logger.With("component", "transcriber"),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Run transcribes every AUDIO_DOWNLOADED episode with retry budget
// left. Episodes whose audio file is missing from disk are skipped
// without a state change; a later download run restores the file.
func (t *TranscribeStage) Run(ctx context.Context) (Report, error) {
	regPath := t.paths.RegistryPath(core.KindEpisode)
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
		if item.State != core.StateAudioDownloaded || item.Retries >= MaxRetries {
			report.Skipped++
			continue
		}

		audioPath := t.paths.AudioPath(item.ID)
		if _, err := os.Stat(audioPath); err != nil {
			t.logger.Warn("audio file missing, skipping", "id", item.ID, "path", audioPath)
			report.Skipped++
			continue
		}
		report.Processed++

		outcome := t.transcribe(ctx, item, audioPath)
		if err := item.Apply(outcome, time.Now()); err != nil {
			t.logger.Error("applying outcome", "id", id, "error", err)
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
	t.logger.Info("transcription complete",
		"processed", report.Processed,
		"succeeded", report.Succeeded,
		"failed", report.Failed,
		"skipped", report.Skipped)
	return report, nil
}

func (t *TranscribeStage) transcribe(ctx context.Context, item *core.Item, audioPath string) core.Outcome {
	text, err := t.transcript(ctx, audioPath)
	if err != nil {
		t.logger.Warn("transcription failed", "id", item.ID, "error", err)
		return core.OutcomeFailure
	}

	raw := &core.RawContent{
		ID:          item.ID,
		Kind:        core.KindEpisode,
		Title:       item.Title,
		SourceURL:   item.SourceURL,
		AudioURL:    item.AudioURL,
		PublishedAt: item.PublishedAt,
		Body:        text,
		AcquiredAt:  time.Now().UTC(),
	}
	if err := storage.SaveRawContent(t.paths.RawDir(core.KindEpisode), raw); err != nil {
		t.logger.Error("saving transcript", "id", item.ID, "error", err)
		return core.OutcomeFailure
	}

	if !t.keepAudio {
		if err := os.Remove(audioPath); err != nil {
			// Transcript is safe; the orphaned audio just wastes disk.
			t.logger.Warn("removing audio file", "id", item.ID, "error", err)
		}
	}
	return core.OutcomeSuccess
}

// transcript runs the ASR engine and joins the segments. An empty
// joined transcript is ErrEmptyTranscript.
func (t *TranscribeStage) transcript(ctx context.Context, audioPath string) (string, error) {
	segments, err := t.transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		return "", err
	}
	text := ai.JoinSegments(segments)
	if text == "" {
		return "", ErrEmptyTranscript
	}
	return text, nil
}
