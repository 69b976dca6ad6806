package mock

import (
	"context"
	"hash/fnv"
	"math"
)

// MockEmbedder is a test double for ai.Embedder.
// It allows custom behavior injection via function fields.
type MockEmbedder struct {
	// EmbedDocumentFunc is called by EmbedDocument if set.
	// If nil, uses default deterministic behavior.
	EmbedDocumentFunc func(ctx context.Context, text string) ([]float32, error)

	// EmbedQueryFunc is called by EmbedQuery if set.
	// If nil, uses default deterministic behavior.
	EmbedQueryFunc func(ctx context.Context, text string) ([]float32, error)

	documentCalls int
	queryCalls    int
}

// NewMockEmbedder creates a mock embedder with default deterministic
// behavior. Returns the concrete type to allow test assertions.
func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{}
}

// EmbedDocument generates a deterministic embedding based on text hash.
func (m *MockEmbedder) EmbedDocument(ctx context.Context, text string) ([]float32, error) {
	m.documentCalls++

	if m.EmbedDocumentFunc != nil {
		return m.EmbedDocumentFunc(ctx, text)
	}

	return generateDeterministicVector(text, 384), nil
}

// EmbedQuery generates a deterministic embedding based on text hash.
func (m *MockEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	m.queryCalls++

	if m.EmbedQueryFunc != nil {
		return m.EmbedQueryFunc(ctx, text)
	}

	return generateDeterministicVector(text, 384), nil
}

// DocumentCalls returns the number of EmbedDocument invocations.
func (m *MockEmbedder) DocumentCalls() int {
	return m.documentCalls
}

// QueryCalls returns the number of EmbedQuery invocations.
func (m *MockEmbedder) QueryCalls() int {
	return m.queryCalls
}

// Reset clears call counts and injected behavior.
func (m *MockEmbedder) Reset() {
	m.documentCalls = 0
	m.queryCalls = 0
	m.EmbedDocumentFunc = nil
	m.EmbedQueryFunc = nil
}

// generateDeterministicVector creates a deterministic embedding vector
// from text. It uses FNV hash so the same text always produces the
// same vector.
func generateDeterministicVector(text string, dim int) []float32 {
	h := fnv.New32a()
	h.Write([]byte(text))
	seed := h.Sum32()

	vector := make([]float32, dim)
	for i := 0; i < dim; i++ {
		seed = seed*1664525 + 1013904223 // LCG constants
		vector[i] = float32(seed%1000) / 1000.0
	}

	// Normalize to unit vector
	var sumSquares float64
	for _, v := range vector {
		sumSquares += float64(v) * float64(v)
	}
	if sumSquares > 0 {
		norm := float32(1.0 / math.Sqrt(sumSquares))
		for i := range vector {
			vector[i] *= norm
		}
	}

	return vector
}
