package indexing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"golang.org/x/sync/errgroup"

	"github.com/poiesic/recall/ai"
	"github.com/poiesic/recall/chunker"
	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/index"
	"github.com/poiesic/recall/sparse"
)

const (
	// DefaultBatchSize is how many chunk texts go to the provider per
	// embedding call.
	DefaultBatchSize = 32

	// DefaultMaxRetries bounds attempts per embedding batch.
	DefaultMaxRetries = 3

	// DefaultRetryBaseDelay is the first backoff delay; it doubles on each
	// subsequent attempt.
	DefaultRetryBaseDelay = 500 * time.Millisecond
)

// Builder runs the offline side of the index lifecycle: chunk every
// document, embed the chunks in parallel batches, accumulate keyword
// statistics, and assemble an immutable bundle ready for a store.
type Builder struct {
	chunker  *chunker.Chunker
	embedder ai.Embedder
	logger   *slog.Logger

	pool           *ants.Pool
	batchSize      int
	maxRetries     int
	retryBaseDelay time.Duration
	progressWriter io.Writer
}

// Option configures a Builder.
type Option func(*Builder) error

// WithWorkers sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithWorkers(size int) Option {
	return func(b *Builder) error {
		if size < 1 {
			size = 1
		}

		if b.pool != nil {
			b.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}

		b.pool = pool
		return nil
	}
}

// WithBatchSize sets how many chunk texts are embedded per provider call.
// Default is DefaultBatchSize.
func WithBatchSize(size int) Option {
	return func(b *Builder) error {
		if size < 1 {
			return fmt.Errorf("batch size must be positive, got %d", size)
		}
		b.batchSize = size
		return nil
	}
}

// WithMaxRetries sets the attempt budget per embedding batch.
// Default is DefaultMaxRetries.
func WithMaxRetries(attempts int) Option {
	return func(b *Builder) error {
		if attempts < 1 {
			return fmt.Errorf("max retries must be positive, got %d", attempts)
		}
		b.maxRetries = attempts
		return nil
	}
}

// WithRetryBaseDelay sets the first backoff delay between batch attempts.
// Default is DefaultRetryBaseDelay.
func WithRetryBaseDelay(delay time.Duration) Option {
	return func(b *Builder) error {
		if delay <= 0 {
			return fmt.Errorf("retry base delay must be positive, got %s", delay)
		}
		b.retryBaseDelay = delay
		return nil
	}
}

// WithProgressWriter enables embedding progress reporting to the writer,
// typically os.Stderr during CLI builds.
func WithProgressWriter(w io.Writer) Option {
	return func(b *Builder) error {
		b.progressWriter = w
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) error {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
		return nil
	}
}

// NewBuilder creates a build pipeline over the given chunker and embedder.
func NewBuilder(ck *chunker.Chunker, embedder ai.Embedder, opts ...Option) (*Builder, error) {
	if ck == nil {
		return nil, ErrChunkerRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	// Default pool size
	workers := runtime.NumCPU() / 2
	if workers < 1 {
		workers = 1
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, err
	}

	b := &Builder{
		chunker:        ck,
		embedder:       embedder,
		logger:         slog.Default(),
		pool:           pool,
		batchSize:      DefaultBatchSize,
		maxRetries:     DefaultMaxRetries,
		retryBaseDelay: DefaultRetryBaseDelay,
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(b); err != nil {
			b.Release()
			return nil, err
		}
	}

	return b, nil
}

// Release frees the worker pool.
// The builder should not be used after calling Release.
func (b *Builder) Release() {
	if b.pool != nil {
		b.pool.Release()
	}
}

// Build assembles a complete index bundle from the documents. Malformed
// documents are skipped and collected into the report, never aborting the
// batch; an embedding failure that survives its retries aborts the build.
func (b *Builder) Build(ctx context.Context, docs []core.Document) (*index.Bundle, *Report, error) {
	start := time.Now()
	report := &Report{}

	// 1. Chunk every document, collecting parse failures.
	var chunks []core.Chunk
	tagSet := make(map[string]struct{})
	for i := range docs {
		doc := &docs[i]

		docChunks, err := b.chunker.ChunkDocument(doc)
		if err != nil {
			var parseErr *core.ContentParseError
			if errors.As(err, &parseErr) {
				b.logger.Warn("skipping malformed document", "slug", parseErr.Slug, "reason", parseErr.Reason)
				report.Skipped = append(report.Skipped, SkippedDocument{
					Slug:   parseErr.Slug,
					Reason: parseErr.Reason,
					Err:    err,
				})
				continue
			}
			return nil, nil, err
		}

		chunks = append(chunks, docChunks...)
		report.Documents++
		for _, tag := range doc.Tags {
			tagSet[tag] = struct{}{}
		}
	}
	report.Chunks = len(chunks)

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}

	// 2. Embed in parallel batches.
	vectors := make([][]float32, len(chunks))
	if err := b.embedAll(ctx, texts, vectors); err != nil {
		return nil, nil, err
	}

	// 3. Keyword statistics over the full corpus.
	stats, err := sparse.Build(texts)
	if err != nil {
		return nil, nil, err
	}

	tags := make([]string, 0, len(tagSet))
	for tag := range tagSet {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	// 4. Assemble and validate the bundle.
	bundle := &index.Bundle{
		Summary: core.IndexSummary{
			BuildId:       uuid.NewString(),
			ModelId:       b.embedder.ModelId(),
			Dimension:     b.embedder.Dimension(),
			BuiltAt:       time.Now().UTC(),
			DocumentCount: report.Documents,
			ChunkCount:    len(chunks),
			Tags:          tags,
		},
		Chunks:  chunks,
		Vectors: vectors,
		Sparse:  stats,
	}

	if err := bundle.Validate(); err != nil {
		return nil, nil, err
	}

	report.Elapsed = time.Since(start)
	b.logger.Info("index build complete",
		"buildId", bundle.Summary.BuildId,
		"documents", report.Documents,
		"chunks", report.Chunks,
		"skipped", len(report.Skipped),
		"elapsed", report.Elapsed)

	return bundle, report, nil
}

// embedAll embeds texts in batches across the worker pool, writing
// normalized vectors into the shared slice. The first batch failure
// cancels the remaining batches through the group context.
func (b *Builder) embedAll(ctx context.Context, texts []string, vectors [][]float32) error {
	if len(texts) == 0 {
		return nil
	}

	var tracker *ProgressTracker
	if b.progressWriter != nil {
		tracker = NewProgressTracker(b.progressWriter, len(texts), b.batchSize)
		tracker.Start()
	}

	g, gctx := errgroup.WithContext(ctx)

	for start := 0; start < len(texts); start += b.batchSize {
		end := start + b.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batchTexts := texts[start:end]
		batchVectors := vectors[start:end]

		g.Go(func() error {
			done := make(chan error, 1)
			if err := b.pool.Submit(func() {
				done <- b.embedBatch(gctx, batchTexts, batchVectors)
			}); err != nil {
				return err
			}

			select {
			case err := <-done:
				if err != nil {
					return err
				}
				if tracker != nil {
					tracker.Increment(len(batchTexts))
				}
				return nil
			case <-gctx.Done():
				return gctx.Err()
			}
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	if tracker != nil {
		tracker.Finish()
	}
	return nil
}

// embedBatch embeds one batch with retries and writes unit-length vectors
// into out. A count mismatch from the provider is terminal: silently
// misaligned vectors would corrupt every ranking built on them.
func (b *Builder) embedBatch(ctx context.Context, texts []string, out [][]float32) error {
	var batch [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var embedErr error
		batch, embedErr = b.embedder.EmbedTexts(ctx, texts)
		return embedErr
	}, b.maxRetries, b.retryBaseDelay)
	if err != nil {
		b.logger.Error("embedding batch failed", "texts", len(texts), "err", err)
		return err
	}

	if len(batch) != len(texts) {
		return fmt.Errorf("embedding result mismatch: sent %d texts, received %d vectors", len(texts), len(batch))
	}

	for i, vec := range batch {
		out[i] = normalize(vec)
	}
	return nil
}
