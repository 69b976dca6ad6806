// Copyright 2026 Listenlab
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package badger implements the index.Index interface on an embedded
// BadgerDB store. Documents are MUS-serialized under per-collection key
// prefixes; queries do an exhaustive cosine scan over the collection,
// which is plenty for single-machine corpora of chunked articles and
// transcripts.
package badger

import (
	"bytes"
	"context"
	"log/slog"
	"math"
	"slices"

	badgerdb "github.com/dgraph-io/badger/v4"

	"github.com/listenlab/harvest/core"
	"github.com/listenlab/harvest/index"
	"github.com/listenlab/harvest/storage"
)

// Index is the BadgerDB-backed vector index.
type Index struct {
	backend *backend
	logger  *slog.Logger
}

var _ index.Index = (*Index)(nil)

// NewIndex opens (or creates) a vector index at the given directory.
//
// Returns index.Index interface to enforce abstraction.
func NewIndex(path string) (index.Index, error) {
	backend, err := openBackend(path, false)
	if err != nil {
		return nil, err
	}
	return &Index{backend: backend, logger: slog.Default().With("component", "badger-index")}, nil
}

// NewMemoryIndex creates an in-memory index for tests.
func NewMemoryIndex() (index.Index, error) {
	backend, err := openBackend("", true)
	if err != nil {
		return nil, err
	}
	return &Index{backend: backend, logger: slog.Default().With("component", "badger-index")}, nil
}

// ExistingIDs returns the set of document ids in the collection using a
// keys-only scan; values are never fetched.
func (ix *Index) ExistingIDs(ctx context.Context, collection string) (map[string]struct{}, error) {
	if collection == "" {
		return nil, index.ErrEmptyCollection
	}
	if ix.backend.isClosed() {
		return nil, index.ErrIndexClosed
	}

	prefix := makeCollectionPrefix(collection)
	ids := make(map[string]struct{})

	err := ix.backend.db.View(func(tx *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			ids[string(bytes.TrimPrefix(key, prefix))] = struct{}{}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Upsert stores a document and its vector, replacing any previous entry
// with the same id.
func (ix *Index) Upsert(ctx context.Context, collection string, doc index.Document, vector []float32) error {
	if collection == "" {
		return index.ErrEmptyCollection
	}
	if doc.ID == "" {
		return index.ErrEmptyDocumentID
	}
	if len(vector) == 0 {
		return index.ErrEmptyVector
	}
	if ix.backend.isClosed() {
		return index.ErrIndexClosed
	}

	stored := &core.IndexedDocument{
		ID:       doc.ID,
		Text:     doc.Text,
		Metadata: doc.Metadata,
		Vector:   vector,
	}
	data := storage.MarshalIndexedDocument(stored)

	return ix.backend.db.Update(func(tx *badgerdb.Txn) error {
		return tx.Set(makeDocumentKey(collection, doc.ID), data)
	})
}

// Query scans the collection and returns up to topK documents ranked by
// ascending cosine distance from the query vector.
func (ix *Index) Query(ctx context.Context, collection string, vector []float32, topK int) ([]index.Match, error) {
	if collection == "" {
		return nil, index.ErrEmptyCollection
	}
	if len(vector) == 0 {
		return nil, index.ErrEmptyVector
	}
	if ix.backend.isClosed() {
		return nil, index.ErrIndexClosed
	}

	var matches []index.Match

	err := ix.backend.db.View(func(tx *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.Prefix = makeCollectionPrefix(collection)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var doc *core.IndexedDocument
			err := iter.Item().Value(func(val []byte) error {
				var err error
				doc, err = storage.UnmarshalIndexedDocument(val)
				return err
			})
			if err != nil {
				return err
			}
			if doc == nil || len(doc.Vector) == 0 {
				continue
			}

			matches = append(matches, index.Match{
				Document: index.Document{
					ID:       doc.ID,
					Text:     doc.Text,
					Metadata: doc.Metadata,
				},
				Distance: cosineDistance(vector, doc.Vector),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Sort by distance ascending
	slices.SortFunc(matches, func(a, b index.Match) int {
		if a.Distance < b.Distance {
			return -1
		}
		if a.Distance > b.Distance {
			return 1
		}
		return 0
	})

	if topK > 0 && len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// Close closes the underlying store.
func (ix *Index) Close() error {
	return ix.backend.close()
}

// cosineDistance computes 1 - cosine similarity. Stored vectors are not
// assumed to be normalized.
func cosineDistance(a, b []float32) float32 {
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < minLen; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return float32(1 - dot/(math.Sqrt(normA)*math.Sqrt(normB)))
}
