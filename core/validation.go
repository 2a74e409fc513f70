// Copyright 2025 Poiesic Systems
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

import (
	"fmt"
	"time"
)

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - Slug must not be empty
//   - Body must not be empty
//   - Date must not be in the future
//
// NOT validated (populated by the library on insert):
//   - Title (defaulted from the slug by content loaders)
//   - InsertedAt / UpdatedAt
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if doc.Slug == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptySlug)
	}

	if doc.Body == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyBody)
	}

	if !doc.Date.IsZero() && !IsValidDate(doc.Date) {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrInvalidDate)
	}

	return nil
}

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - Content must not be empty
//   - DocumentSlug must not be empty
//   - Ordinal must not be negative
//
// NOT validated (advisory or derived):
//   - TokenCount (estimator-dependent)
//   - Id (derived from Identity by the chunker)
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.Content == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyContent)
	}

	if chunk.DocumentSlug == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptySlug)
	}

	if chunk.Ordinal < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrNegativeOrdinal)
	}

	return nil
}

// IsValidDate checks if a document date is valid (not in the future).
func IsValidDate(ts time.Time) bool {
	return !ts.After(time.Now())
}
