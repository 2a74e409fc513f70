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


package index

import (
	"errors"
	"fmt"
)

var (
	// ErrBundleNotFound indicates that no bundle exists at the store's
	// location. A fresh deployment that has never run a build reports this.
	ErrBundleNotFound = errors.New("index bundle not found")

	// ErrInvalidMagic indicates the artifact does not start with the bundle
	// magic number and is not a bundle at all.
	ErrInvalidMagic = errors.New("invalid magic number")

	// ErrInvalidVersion indicates the artifact was written by an
	// incompatible format version.
	ErrInvalidVersion = errors.New("unsupported bundle version")
)

// ValidationError reports a bundle that cannot be served: structural
// corruption discovered while decoding, or an internal inconsistency such
// as a chunk/vector count mismatch. It is fatal; callers must not fall
// back to a partially decoded bundle.
type ValidationError struct {
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid index bundle: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid index bundle: %s", e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ChecksumMismatchError is returned when the stored checksum does not match
// the checksum recomputed over the bundle's section bytes.
type ChecksumMismatchError struct {
	Expected uint32
	Actual   uint32
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("checksum mismatch: expected 0x%08x, got 0x%08x", e.Expected, e.Actual)
}

// IsChecksumMismatch reports whether err is, or wraps, a checksum mismatch.
func IsChecksumMismatch(err error) bool {
	var mismatch *ChecksumMismatchError
	return errors.As(err, &mismatch)
}
