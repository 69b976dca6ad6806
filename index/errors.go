package index

import "errors"

var (
	// ErrEmptyDocumentID indicates an upsert without a document id.
	ErrEmptyDocumentID = errors.New("document id required")

	// ErrEmptyCollection indicates an operation without a collection name.
	ErrEmptyCollection = errors.New("collection name required")

	// ErrEmptyVector indicates an upsert or query without a vector.
	ErrEmptyVector = errors.New("vector required")

	// ErrIndexClosed indicates the backend has been closed.
	ErrIndexClosed = errors.New("index is closed")
)
