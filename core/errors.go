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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidItem indicates an Item failed validation.
	ErrInvalidItem = errors.New("invalid item")

	// ErrEmptyID indicates the ID field is empty.
	ErrEmptyID = errors.New("id cannot be empty")

	// ErrEmptySourceURL indicates the SourceURL field is empty.
	ErrEmptySourceURL = errors.New("source url cannot be empty")

	// ErrMissingAudioURL indicates an episode item has no audio URL.
	ErrMissingAudioURL = errors.New("episode has no audio url")

	// ErrUnknownKind indicates an unrecognized Kind value.
	ErrUnknownKind = errors.New("unknown content kind")

	// ErrUnknownState indicates an unrecognized State value.
	ErrUnknownState = errors.New("unknown lifecycle state")

	// ErrIllegalTransition indicates a state transition not present in
	// the transition table.
	ErrIllegalTransition = errors.New("illegal state transition")
)
