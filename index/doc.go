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


// Package index defines the vector index abstraction the pipeline
// delegates nearest-neighbor storage and search to.
//
// The ingestion side only ever needs three operations: list the ids a
// collection already holds (for dedup), upsert a document with its
// vector, and query by vector. The Index interface captures exactly
// that, keyed by chunk id within named collections.
//
// # Constructor Return Type Pattern
//
// Backend constructors return the Index interface to enforce
// abstraction; a hosted vector database can replace the bundled
// BadgerDB backend by implementing the same three operations.
package index
