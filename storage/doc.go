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


// Package storage provides the document library abstraction for recall.
//
// The library is the durable home of ingested source documents. Index
// builds read the full corpus from it, and the tags and status surfaces
// answer from it without re-parsing markdown. The serving index itself is
// a separate artifact (see the index package); the library never serves
// queries directly.
//
// This package defines repository interfaces that decouple storage
// implementation from business logic, allowing different backends
// (BadgerDB, in-memory, etc.) to be used interchangeably.
//
// # Architecture
//
//   - Repository: lifecycle and transaction operations common to all
//     repositories
//   - DocumentRepository: slug-keyed upsert, lookup, and roster operations
//     over source documents
//
// # Usage
//
// Create a repository instance:
//
//	backend, err := badger.OpenBackend("/path/to/db", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	library, err := badger.NewDocumentRepository(backend)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
// Use in tests with in-memory storage:
//
//	library, backend, err := badger.NewMemoryRepository()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation
// and timeout support. Pass context.Background() for operations
// without specific timeout requirements.
package storage
