// Package googleai implements the ai.Embedder interface using the
// Gemini embedding API through the langchaingo client. Document-side
// and query-side embeddings go through the client's separate document
// and query entry points so the provider can apply its task-specific
// optimizations.
package googleai
