package mock

import (
	"context"

	"github.com/listenlab/harvest/ai"
)

// MockTranscriber is a test double for ai.Transcriber.
// It allows custom behavior injection via function fields.
type MockTranscriber struct {
	// TranscribeFunc is called by Transcribe if set.
	// If nil, returns a fixed two-segment transcript.
	TranscribeFunc func(ctx context.Context, audioPath string) ([]ai.Segment, error)

	callCount int
}

// NewMockTranscriber creates a mock transcriber with default behavior.
// Returns the concrete type to allow test assertions.
func NewMockTranscriber() *MockTranscriber {
	return &MockTranscriber{}
}

// Transcribe returns the injected result, or a fixed transcript.
func (m *MockTranscriber) Transcribe(ctx context.Context, audioPath string) ([]ai.Segment, error) {
	m.callCount++

	if m.TranscribeFunc != nil {
		return m.TranscribeFunc(ctx, audioPath)
	}

	return []ai.Segment{
		{Text: "This is a test transcript.", Start: 0, End: 2.5},
		{Text: "It has two segments.", Start: 2.5, End: 4.0},
	}, nil
}

// CallCount returns the number of Transcribe invocations.
func (m *MockTranscriber) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockTranscriber) Reset() {
	m.callCount = 0
	m.TranscribeFunc = nil
}
