package whisper

// Config captures runtime settings for the faster-whisper CLI.
type Config struct {
	// Binary is the transcription command to invoke.
	Binary string
	// Model is the whisper model to use (e.g. "tiny.en").
	Model string
	// Device selects the compute device ("cpu" or "cuda").
	Device string
	// ComputeType selects the quantization ("int8", "float16", ...).
	ComputeType string
}

// Fixed decoding parameters. Chosen for reproducibility and to bound
// per-run compute cost: deterministic beam search, voice-activity
// filtering, no cross-segment conditioning, English only.
const (
	DefaultBinary      = "whisper-ctranslate2"
	DefaultModel       = "tiny.en"
	DefaultDevice      = "cpu"
	DefaultComputeType = "int8"

	Language     = "en"
	BeamSize     = "1"
	OutputFormat = "json"
)

// withDefaults fills unset fields with the default settings.
func (c Config) withDefaults() Config {
	if c.Binary == "" {
		c.Binary = DefaultBinary
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Device == "" {
		c.Device = DefaultDevice
	}
	if c.ComputeType == "" {
		c.ComputeType = DefaultComputeType
	}
	return c
}
