// Package whisper provides an ai.Transcriber backed by the
// faster-whisper CLI. Transcription runs as a subprocess with fixed
// decoding parameters and the transcript is read back from the JSON
// output file the tool writes next to its working directory.
package whisper

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/listenlab/harvest/ai"
)

// Transcriber implements ai.Transcriber by invoking the faster-whisper
// CLI on local audio files.
type Transcriber struct {
	cfg           Config
	logger        *slog.Logger
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// newTranscriber is an internal constructor that returns the concrete type.
func newTranscriber(cfg Config) *Transcriber {
	return &Transcriber{
		cfg:    cfg.withDefaults(),
		logger: slog.Default().With("component", "whisper-transcriber"),
	}
}

// NewTranscriber creates a transcriber with the given configuration.
//
// Returns ai.Transcriber interface to enforce abstraction.
func NewTranscriber(cfg Config) ai.Transcriber {
	return newTranscriber(cfg)
}

// WithCommandRunner sets a custom command runner (for testing).
func (t *Transcriber) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	t.commandRunner = runner
}

// Transcribe runs the whisper CLI on the audio file and returns the
// transcript segments in playback order. Output files are written to a
// temporary directory and removed before returning.
func (t *Transcriber) Transcribe(ctx context.Context, audioPath string) ([]ai.Segment, error) {
	if audioPath == "" {
		return nil, fmt.Errorf("transcribe: audio path required")
	}

	outputDir, err := os.MkdirTemp("", "whisper-*")
	if err != nil {
		return nil, fmt.Errorf("transcribe: create output dir: %w", err)
	}
	defer os.RemoveAll(outputDir)

	t.logger.Debug("transcribing", "audio", audioPath, "model", t.cfg.Model)

	args := t.buildArgs(audioPath, outputDir)
	if err := t.run(ctx, t.cfg.Binary, args...); err != nil {
		return nil, fmt.Errorf("whisper: %w", err)
	}

	baseName := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	jsonPath := filepath.Join(outputDir, baseName+".json")

	segments, err := loadSegments(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("whisper: %w", err)
	}
	return segments, nil
}

// run executes a command, using the custom runner if set.
func (t *Transcriber) run(ctx context.Context, name string, args ...string) error {
	if t.commandRunner != nil {
		return t.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// buildArgs constructs the CLI arguments for one transcription run.
func (t *Transcriber) buildArgs(audioPath, outputDir string) []string {
	return []string{
		audioPath,
		"--model", t.cfg.Model,
		"--device", t.cfg.Device,
		"--compute_type", t.cfg.ComputeType,
		"--language", Language,
		"--beam_size", BeamSize,
		"--vad_filter", "True",
		"--condition_on_previous_text", "False",
		"--output_format", OutputFormat,
		"--output_dir", outputDir,
	}
}

// segment mirrors one entry of the whisper JSON output.
type segment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// whisperPayload is the JSON structure the CLI writes.
type whisperPayload struct {
	Segments []segment `json:"segments"`
}

// loadSegments loads segments from a whisper JSON output file.
func loadSegments(jsonPath string) ([]ai.Segment, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, err
	}
	var payload whisperPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parse whisper json: %w", err)
	}

	segments := make([]ai.Segment, 0, len(payload.Segments))
	for _, seg := range payload.Segments {
		segments = append(segments, ai.Segment{
			Text:  seg.Text,
			Start: seg.Start,
			End:   seg.End,
		})
	}
	return segments, nil
}
