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


// Package storage handles the on-disk layout of the harvest data
// directory and the JSON file formats the pipeline persists.
//
// Three kinds of files live under the data root:
//
//   - registry files: one JSON array of items per content kind,
//     owned by the registry package
//   - raw content files: one JSON object per acquired item, named by
//     the item id
//   - chunk files: one JSON array of chunks per content kind
//
// Paths centralizes the directory layout so every stage derives file
// locations the same way. Writes that must survive a crash mid-write go
// through WriteFileAtomic (write to a temp file in the target
// directory, then rename).
//
// The package also provides MUS serialization wrappers for the
// documents stored in the vector index backend. The marshaling code for
// core types is generated; run `go generate ./core` before building.
package storage
