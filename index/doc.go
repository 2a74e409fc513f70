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


// Package index defines the serving artifact of a build: an immutable
// bundle holding the chunk corpus, its embedding vectors, and the keyword
// statistics, plus the stores that persist it.
//
// A bundle is written once by the build pipeline and loaded whole by the
// search layer; there is no incremental mutation. Updating the corpus
// means building a new bundle and swapping it in.
//
// # Binary format
//
// Bundles serialize to a versioned binary format: a fixed 64-byte header
// (magic, version, flags, section lengths) followed by four
// zstd-compressed sections (summary, chunks, vectors, keyword statistics)
// and a CRC32 footer covering the section bytes. A truncated or corrupted
// artifact fails checksum or structural verification at load time and is
// refused with a ValidationError rather than served.
//
// # Stores
//
// The Store interface abstracts where the artifact lives:
//
//   - LocalStore writes to a filesystem path via an atomic
//     temp-file-and-rename protocol, so readers never observe a partial
//     bundle
//   - s3.Store (subpackage) keeps the artifact in an S3 object
//   - MemoryStore holds the encoded bytes in process, for tests
//
// # Usage
//
//	store := index.NewLocalStore("/var/lib/recall/index.bundle")
//	if err := store.Save(ctx, bundle); err != nil {
//	    log.Fatal(err)
//	}
//
//	bundle, err := store.Load(ctx)
//	if errors.Is(err, index.ErrBundleNotFound) {
//	    // no build has run yet
//	}
package index
