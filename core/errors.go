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
	"errors"
	"fmt"
)

// Domain validation errors
var (
	// ErrInvalidDocument indicates a Document failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrEmptySlug indicates the Slug field is empty.
	ErrEmptySlug = errors.New("slug cannot be empty")

	// ErrEmptyBody indicates the Body field is empty.
	ErrEmptyBody = errors.New("body cannot be empty")

	// ErrEmptyContent indicates the chunk Content field is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrInvalidDate indicates a document date is in the future.
	ErrInvalidDate = errors.New("date cannot be in the future")

	// ErrNegativeOrdinal indicates a chunk ordinal is below zero.
	ErrNegativeOrdinal = errors.New("ordinal cannot be negative")
)

// ContentParseError reports a malformed source document. It is non-fatal
// during a build: the document is skipped and the error collected into the
// build report rather than aborting the whole batch.
type ContentParseError struct {
	Slug   string // Best-effort identifier, may be a file path
	Reason string
	Err    error
}

func (e *ContentParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse %s: %s: %v", e.Slug, e.Reason, e.Err)
	}
	return fmt.Sprintf("parse %s: %s", e.Slug, e.Reason)
}

func (e *ContentParseError) Unwrap() error {
	return e.Err
}
