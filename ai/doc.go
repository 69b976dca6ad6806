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


// Package ai provides abstractions for the external model services the
// pipeline depends on: text embeddings and speech-to-text.
//
// The package defines two interfaces:
//
//   - Embedder: generates vector embeddings from text, with separate
//     document-side and query-side entry points because hosted
//     providers optimize the two differently
//   - Transcriber: converts a local audio file into timed text segments
//
// Implementations are explicitly constructed and injected into the
// stages that need them; there is no process-wide model or client
// state. Implementation sub-packages:
//
//   - ai/googleai: embeddings via the Gemini embedding API (langchaingo)
//   - ai/whisper: transcription by invoking a local faster-whisper CLI
//   - ai/mock: test doubles with deterministic default behavior
package ai
