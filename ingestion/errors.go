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

package ingestion

import "errors"

var (
	// ErrFetcherRequired is returned when a nil page fetcher is supplied.
	ErrFetcherRequired = errors.New("page fetcher is required")

	// ErrFeedSourceRequired is returned when a nil feed source is supplied.
	ErrFeedSourceRequired = errors.New("feed source is required")

	// ErrEmbedderRequired is returned when a nil embedder is supplied.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrTranscriberRequired is returned when a nil transcriber is supplied.
	ErrTranscriberRequired = errors.New("transcriber is required")

	// ErrIndexRequired is returned when a nil vector index is supplied.
	ErrIndexRequired = errors.New("vector index is required")

	// ErrUnexpectedStatus is returned for non-2xx HTTP responses.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")

	// ErrNoContent is returned when extraction produces no usable text.
	ErrNoContent = errors.New("no extractable content")

	// ErrEmptyTranscript is returned when transcription yields no text.
	ErrEmptyTranscript = errors.New("transcription produced no text")
)
