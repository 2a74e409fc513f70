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


package content

import (
	"context"
	"errors"

	"github.com/poiesic/recall/core"
)

var (
	// ErrDirRequired is returned when a directory source is created without
	// a directory path.
	ErrDirRequired = errors.New("content directory required")

	// ErrRepositoryRequired is returned when a library source is created
	// without a document repository.
	ErrRepositoryRequired = errors.New("document repository required")
)

// Source supplies the documents an index build runs over. Implementations
// return the full collection on every call; incremental loading is not part
// of the contract, since a rebuild always re-reads everything.
type Source interface {
	Load(ctx context.Context) ([]core.Document, error)
}
