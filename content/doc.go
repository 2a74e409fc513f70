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


// Package content loads documents for indexing.
//
// DirSource reads a flat directory of markdown posts with optional YAML
// frontmatter (title, date, tags, category) between "---" fences, deriving
// slug and date from "YYYY-MM-DD-slug.md" filenames. LibrarySource reads
// the same documents out of the storage-backed document library.
//
// Both implement Source, the collaborator an index rebuild pulls documents
// from. Malformed files are skipped and reported rather than failing the
// load.
package content
