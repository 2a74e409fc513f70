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


// Package search ranks index bundle chunks against natural-language queries.
//
// The Searcher type runs two rankings over the same tag-filtered candidate
// universe:
//   - Dense: cosine similarity between the query embedding and chunk vectors
//   - Sparse: BM25 keyword relevance
//
// The two rankings are merged with reciprocal rank fusion, truncated to the
// requested result count, and optionally reordered by a term-coverage rerank
// that never changes which chunks made the cut.
//
// A Searcher is bound to one immutable bundle at construction and verifies
// that the embedder matches the model the bundle was built with. It is safe
// for concurrent use; rebuilding an index means constructing a new Searcher
// over the new bundle.
package search
