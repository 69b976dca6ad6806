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

import "fmt"

// ValidateKind checks that k is one of the known content kinds.
func ValidateKind(k Kind) error {
	switch k {
	case KindBlog, KindEpisode:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, k)
	}
}

// ValidateState checks that s is one of the known lifecycle states.
func ValidateState(s State) error {
	switch s {
	case StateDiscovered, StateFetchedRaw, StateFailedRaw,
		StateAudioDownloaded, StateAudioFailed, StateTranscribed:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownState, s)
	}
}

// ValidateItem validates an Item according to domain rules.
//
// Validation rules:
//   - ID must not be empty (identity must be assigned at discovery)
//   - Kind and State must be known values
//   - SourceURL must not be empty
//   - episodes must carry an audio URL
//
// NOT validated:
//   - Title (feeds and pages may genuinely lack one)
//   - Retries (0 is the common case; stages own the counter via Apply)
func ValidateItem(item *Item) error {
	if item == nil {
		return fmt.Errorf("%w: item is nil", ErrInvalidItem)
	}

	if item.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidItem, ErrEmptyID)
	}

	if err := ValidateKind(item.Kind); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidItem, err)
	}

	if err := ValidateState(item.State); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidItem, err)
	}

	if item.SourceURL == "" {
		return fmt.Errorf("%w: %w", ErrInvalidItem, ErrEmptySourceURL)
	}

	if item.Kind == KindEpisode && item.AudioURL == "" {
		return fmt.Errorf("%w: %w", ErrInvalidItem, ErrMissingAudioURL)
	}

	return nil
}
