package search

import "errors"

var (
	// ErrEmbedderRequired is returned when a nil embedder is supplied.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrIndexRequired is returned when a nil vector index is supplied.
	ErrIndexRequired = errors.New("vector index is required")

	// ErrEmptyQuery is returned for a blank query string.
	ErrEmptyQuery = errors.New("query must not be empty")
)
