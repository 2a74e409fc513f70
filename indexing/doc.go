// Package indexing builds search bundles from document collections.
//
// The Builder type manages the build workflow, including:
//   - Chunking documents into retrieval-sized sections
//   - Embedding chunk text in parallel batches
//   - Computing lexical statistics for keyword ranking
//
// Embedding requests run concurrently across a worker pool with retry and
// exponential backoff. Documents that fail to parse are skipped and reported;
// embedding failures abort the build, since a bundle with missing vectors
// would silently degrade every search against it.
//
// The Watcher type monitors a content directory and triggers rebuilds when
// markdown files settle after a change.
package indexing
