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


package recall

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/poiesic/recall/ai"
	"github.com/poiesic/recall/chunker"
	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/index"
	"github.com/poiesic/recall/index/s3"
	"github.com/poiesic/recall/indexing"
	"github.com/poiesic/recall/search"
	"github.com/poiesic/recall/storage"
	"github.com/poiesic/recall/storage/badger"
)

var (
	// ErrNoIndex is returned by search operations before any bundle has
	// been built and published.
	ErrNoIndex = errors.New("no index has been built")

	// ErrBundlePathRequired is returned when the configuration names no
	// bundle location.
	ErrBundlePathRequired = errors.New("bundle path required")
)

// Engine ties the document library, the embedding provider, the bundle
// store, and the searcher together behind one handle. Searches are served
// lock-free from the active searcher; Rebuild publishes a new bundle and
// swaps it in atomically, so concurrent searches keep the old index until
// the swap completes.
type Engine struct {
	backend  *badger.Backend
	library  storage.DocumentRepository
	embedder ai.Embedder
	store    index.Store
	builder  *indexing.Builder
	logger   *slog.Logger

	mu     sync.Mutex // serializes cold loads and rebuild swaps
	active atomic.Pointer[search.Searcher]
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	logger         *slog.Logger
	embedder       ai.Embedder
	store          index.Store
	progressWriter io.Writer
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(o *engineOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithEmbedder injects an embedding provider, bypassing the configured one.
func WithEmbedder(embedder ai.Embedder) EngineOption {
	return func(o *engineOptions) {
		o.embedder = embedder
	}
}

// WithStore injects a bundle store, bypassing the configured location.
func WithStore(store index.Store) EngineOption {
	return func(o *engineOptions) {
		o.store = store
	}
}

// WithProgressWriter streams embedding progress during rebuilds, typically
// to os.Stderr.
func WithProgressWriter(w io.Writer) EngineOption {
	return func(o *engineOptions) {
		o.progressWriter = w
	}
}

// NewEngine wires the engine from configuration.
func NewEngine(ctx context.Context, cfg *Config, opts ...EngineOption) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	options := &engineOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(cfg.LibraryPath, cfg.LibraryPath == "")
	if err != nil {
		return nil, fmt.Errorf("failed to open document library: %w", err)
	}

	library, err := badger.NewDocumentRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	embedder := options.embedder
	if embedder == nil {
		embedder, err = NewEmbedder(ctx, cfg.AIConfig())
		if err != nil {
			backend.Close()
			return nil, err
		}
	}

	store := options.store
	if store == nil {
		store, err = newStore(ctx, cfg)
		if err != nil {
			backend.Close()
			return nil, err
		}
	}

	ck, err := chunker.New(chunker.WithLogger(options.logger))
	if err != nil {
		backend.Close()
		return nil, err
	}

	builderOpts := []indexing.Option{indexing.WithLogger(options.logger)}
	if cfg.Embedding.BatchSize > 0 {
		builderOpts = append(builderOpts, indexing.WithBatchSize(cfg.Embedding.BatchSize))
	}
	if options.progressWriter != nil {
		builderOpts = append(builderOpts, indexing.WithProgressWriter(options.progressWriter))
	}

	builder, err := indexing.NewBuilder(ck, embedder, builderOpts...)
	if err != nil {
		backend.Close()
		return nil, err
	}

	return &Engine{
		backend:  backend,
		library:  library,
		embedder: embedder,
		store:    store,
		builder:  builder,
		logger:   options.logger,
	}, nil
}

// newStore selects the bundle store from the configured location: a local
// file path, or "s3://bucket/key".
func newStore(ctx context.Context, cfg *Config) (index.Store, error) {
	path := cfg.BundlePath
	if path == "" {
		return nil, ErrBundlePathRequired
	}

	if strings.HasPrefix(path, "s3://") {
		bucket, key, ok := parseS3URL(path)
		if !ok {
			return nil, fmt.Errorf("invalid s3 bundle location %q, want s3://bucket/key", path)
		}
		return s3.NewStoreFromRegion(ctx, bucket, key, cfg.AWSRegion)
	}

	return index.NewLocalStore(path), nil
}

func parseS3URL(raw string) (bucket, key string, ok bool) {
	rest := strings.TrimPrefix(raw, "s3://")
	bucket, key, found := strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}

// searcher returns the active searcher, loading the published bundle on
// first use. Load failures are returned rather than cached, so a transient
// store outage does not poison every later query.
func (e *Engine) searcher(ctx context.Context) (*search.Searcher, error) {
	if s := e.active.Load(); s != nil {
		return s, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if s := e.active.Load(); s != nil {
		return s, nil
	}

	bundle, err := e.store.Load(ctx)
	if err != nil {
		if errors.Is(err, index.ErrBundleNotFound) {
			return nil, ErrNoIndex
		}
		return nil, err
	}

	s, err := search.NewSearcher(bundle, e.embedder, search.WithLogger(e.logger))
	if err != nil {
		return nil, err
	}

	e.active.Store(s)
	return s, nil
}

// Search runs a hybrid query against the published index.
func (e *Engine) Search(ctx context.Context, query string, opts ...search.SearchOption) ([]core.SearchResult, error) {
	s, err := e.searcher(ctx)
	if err != nil {
		return nil, err
	}
	return s.Search(ctx, query, opts...)
}

// SearchWithMonitor runs a query with stage-level observability.
func (e *Engine) SearchWithMonitor(ctx context.Context, query string, monitor search.SearchMonitor, opts ...search.SearchOption) ([]core.SearchResult, error) {
	s, err := e.searcher(ctx)
	if err != nil {
		return nil, err
	}
	return s.SearchWithMonitor(ctx, query, monitor, opts...)
}

// References builds the citation mapping for a result set.
func (e *Engine) References(results []core.SearchResult) []core.Reference {
	return search.References(results)
}

// Rebuild builds a bundle from the documents, publishes it to the store,
// and swaps the active searcher. In-flight searches finish against the
// previous index.
func (e *Engine) Rebuild(ctx context.Context, docs []core.Document) (*indexing.Report, error) {
	bundle, report, err := e.builder.Build(ctx, docs)
	if err != nil {
		return nil, err
	}

	if err := e.store.Save(ctx, bundle); err != nil {
		return nil, fmt.Errorf("failed to publish bundle: %w", err)
	}

	s, err := search.NewSearcher(bundle, e.embedder, search.WithLogger(e.logger))
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.active.Store(s)
	e.mu.Unlock()

	e.logger.Info("index swapped in",
		"buildId", bundle.Summary.BuildId,
		"documents", bundle.Summary.DocumentCount,
		"chunks", bundle.Summary.ChunkCount)

	return report, nil
}

// Status describes the deployment: the published bundle's summary, when
// one exists, and the document library size.
type Status struct {
	Indexed          bool
	Summary          core.IndexSummary // zero value when Indexed is false
	LibraryDocuments int
}

// Status reports the published bundle summary and library counts.
func (e *Engine) Status(ctx context.Context) (*Status, error) {
	st := &Status{}

	count, err := e.library.CountDocuments(ctx)
	if err != nil {
		return nil, err
	}
	st.LibraryDocuments = count

	exists, err := e.store.Exists(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		return st, nil
	}

	bundle, err := e.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	st.Indexed = true
	st.Summary = bundle.Summary
	return st, nil
}

// Tags returns the library's tag roster with per-tag document counts.
func (e *Engine) Tags(ctx context.Context) (map[string]int, error) {
	return e.library.Tags(ctx)
}

// Library exposes the document repository for ingestion flows.
func (e *Engine) Library() storage.DocumentRepository {
	return e.library
}

// Close releases the engine's resources.
func (e *Engine) Close() error {
	e.builder.Release()

	if err := e.library.Close(); err != nil {
		e.logger.Error("error closing document library", "err", err)
		return err
	}

	if err := e.backend.Close(); err != nil {
		e.logger.Error("error closing storage backend", "err", err)
		return err
	}
	return nil
}
