// Package sparse computes keyword-frequency ranking statistics over a chunk
// corpus and scores queries against them using BM25.
//
// Statistics are built in one pass over the full corpus and are immutable
// afterwards, so concurrent scoring needs no locking. Corpus indexing and
// query scoring share one tokenizer, Tokenize; using anything else on the
// query side silently degrades ranking quality without raising an error.
package sparse
