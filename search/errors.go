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


package search

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrBundleRequired is returned when an index bundle is not provided.
	ErrBundleRequired = errors.New("index bundle required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")
)

// ConfigurationMismatchError reports an embedder that does not match what
// the index bundle was built with. Scoring vectors from different models
// against each other produces garbage rankings, so construction refuses.
type ConfigurationMismatchError struct {
	Field string // "model" or "dimension"
	Want  string // recorded in the bundle summary
	Got   string // reported by the embedder
}

func (e *ConfigurationMismatchError) Error() string {
	return fmt.Sprintf("configuration mismatch: index built with %s %q, embedder provides %q", e.Field, e.Want, e.Got)
}

// QueryTimeoutError reports a query pipeline stage that exceeded its
// deadline. It is surfaced to the caller and never retried automatically.
type QueryTimeoutError struct {
	Stage   string // pipeline stage that timed out, e.g. "embed"
	Elapsed time.Duration
	Err     error
}

func (e *QueryTimeoutError) Error() string {
	return fmt.Sprintf("query %s stage timed out after %s", e.Stage, e.Elapsed.Round(time.Millisecond))
}

func (e *QueryTimeoutError) Unwrap() error {
	return e.Err
}
