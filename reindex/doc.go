// Package reindex rebuilds the vector index from the persisted chunk
// files, re-embedding every chunk.
//
// Use it after switching embedding models, when incremental indexing
// would otherwise leave the index with vectors from mixed models.
// Progress is reported while running and failed chunks are retried
// with exponential backoff.
package reindex
