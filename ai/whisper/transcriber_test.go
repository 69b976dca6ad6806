package whisper

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildArgs(t *testing.T) {
	tr := newTranscriber(Config{Model: "tiny.en"})
	args := tr.buildArgs("/audio/ep1.mp3", "/tmp/out")

	assert.Equal(t, "/audio/ep1.mp3", args[0])
	assert.Contains(t, args, "--model")
	assert.Contains(t, args, "tiny.en")
	assert.Contains(t, args, "--beam_size")
	assert.Contains(t, args, "1")
	assert.Contains(t, args, "--vad_filter")
	assert.Contains(t, args, "--condition_on_previous_text")
	assert.Contains(t, args, "--language")
	assert.Contains(t, args, "en")
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	assert.Equal(t, DefaultBinary, cfg.Binary)
	assert.Equal(t, DefaultModel, cfg.Model)
	assert.Equal(t, DefaultDevice, cfg.Device)
	assert.Equal(t, DefaultComputeType, cfg.ComputeType)

	custom := Config{Model: "small.en", Device: "cuda"}.withDefaults()
	assert.Equal(t, "small.en", custom.Model)
	assert.Equal(t, "cuda", custom.Device)
}

func TestTranscribeParsesSegments(t *testing.T) {
	tr := newTranscriber(Config{})

	// The fake runner stands in for the CLI and writes the JSON output
	// file the real tool would produce.
	tr.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		var outputDir string
		for i, arg := range args {
			if arg == "--output_dir" && i+1 < len(args) {
				outputDir = args[i+1]
			}
		}
		require.NotEmpty(t, outputDir)

		payload := map[string]any{
			"segments": []map[string]any{
				{"text": " Hello there. ", "start": 0.0, "end": 1.4},
				{"text": " General audience. ", "start": 1.4, "end": 3.0},
			},
		}
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		return os.WriteFile(filepath.Join(outputDir, "ep1.json"), data, 0o644)
	})

	segments, err := tr.Transcribe(context.Background(), "/audio/ep1.mp3")
	require.NoError(t, err)
	require.Len(t, segments, 2)
	assert.Equal(t, " Hello there. ", segments[0].Text)
	assert.Equal(t, 1.4, segments[1].Start)
}

func TestTranscribeEmptyPath(t *testing.T) {
	tr := newTranscriber(Config{})
	_, err := tr.Transcribe(context.Background(), "")
	assert.Error(t, err)
}

func TestTranscribeCommandFailure(t *testing.T) {
	tr := newTranscriber(Config{})
	tr.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		return assert.AnError
	})

	_, err := tr.Transcribe(context.Background(), "/audio/ep1.mp3")
	assert.ErrorIs(t, err, assert.AnError)
}
