package index

import "context"

// Document is one indexable record: a chunk's text plus the metadata
// returned with search hits.
type Document struct {
	// ID is the chunk's content-addressed identity.
	ID string
	// Text is the chunk text that was embedded.
	Text string
	// Metadata carries parent_id, source_type, title and source_url.
	Metadata map[string]string
}

// Match is one ranked result from a vector query.
type Match struct {
	Document Document
	// Distance is the cosine distance to the query vector; smaller is
	// closer.
	Distance float32
}

// Index stores embedding vectors keyed by chunk identity within named
// collections and answers nearest-neighbor queries.
// Implementations must be safe for concurrent use.
type Index interface {
	// ExistingIDs returns the set of document ids the collection
	// currently holds. Used by the indexing stage to skip chunks that
	// are already ingested.
	ExistingIDs(ctx context.Context, collection string) (map[string]struct{}, error)

	// Upsert stores a document and its embedding vector, replacing any
	// previous entry with the same id.
	Upsert(ctx context.Context, collection string, doc Document, vector []float32) error

	// Query returns up to topK documents ranked by ascending cosine
	// distance from the query vector.
	Query(ctx context.Context, collection string, vector []float32, topK int) ([]Match, error)

	// Close releases the backend.
	Close() error
}
