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


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"sync"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/recall"
	"github.com/poiesic/recall/content"
	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/indexing"
	"github.com/poiesic/recall/search"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "recall",
		Usage: "Hybrid search over markdown content",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to TOML configuration file",
			},
		},
		Before:   setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "index",
				Usage:  "Build the search index from a markdown content directory",
				Action: indexCommand,
				Flags:  append(storageFlags(), embeddingFlags()...),
			},
			{
				Name:      "search",
				Usage:     "Query the index and print ranked results",
				ArgsUsage: "QUERY...",
				Action:    searchCommand,
				Flags: append([]cli.Flag{
					&cli.StringSliceFlag{
						Name:    "tag",
						Aliases: []string{"t"},
						Usage:   "Only return chunks from documents carrying this tag (repeatable)",
					},
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Number of results to return",
						Value: search.DefaultTopK,
					},
					&cli.BoolFlag{
						Name:  "rerank",
						Usage: "Rerank fused candidates by direct similarity to the query",
					},
					&cli.BoolFlag{
						Name:    "verbose",
						Aliases: []string{"v"},
						Usage:   "Print pipeline stage diagnostics to stderr",
					},
				}, append(storageFlags(), embeddingFlags()...)...),
			},
			{
				Name:   "tags",
				Usage:  "List document tags with usage counts",
				Action: tagsCommand,
				Flags:  storageFlags(),
			},
			{
				Name:   "status",
				Usage:  "Show index summary and library counts",
				Action: statusCommand,
				Flags:  append(storageFlags(), embeddingFlags()...),
			},
			{
				Name:   "watch",
				Usage:  "Rebuild the index whenever content changes",
				Action: watchCommand,
				Flags: append([]cli.Flag{
					&cli.DurationFlag{
						Name:  "debounce",
						Usage: "Quiet period after a change before rebuilding",
						Value: indexing.DefaultDebounce,
					},
				}, append(storageFlags(), embeddingFlags()...)...),
			},
		},
	}
}

func storageFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "content",
			Usage: "Markdown content directory",
		},
		&cli.StringFlag{
			Name:    "db",
			Aliases: []string{"d"},
			Usage:   "Path to the BadgerDB document library",
		},
		&cli.StringFlag{
			Name:    "bundle",
			Aliases: []string{"b"},
			Usage:   "Index bundle location: a file path or s3://bucket/key",
		},
	}
}

func embeddingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "provider",
			Usage: "Embedding provider (openai, ollama, bedrock, mock)",
		},
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
		},
		&cli.IntFlag{
			Name:  "dimension",
			Usage: "Embedding vector length",
		},
		&cli.IntFlag{
			Name:  "batch-size",
			Usage: "Number of chunks to embed in each provider request",
		},
	}
}

// engineConfig layers CLI flags over the config file and environment.
// Flags win, but only when actually set.
func engineConfig(c *cli.Context) (*recall.Config, error) {
	cfg, err := recall.LoadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}

	if c.IsSet("content") {
		cfg.ContentDir = c.String("content")
	}
	if c.IsSet("db") {
		cfg.LibraryPath = c.String("db")
	}
	if c.IsSet("bundle") {
		cfg.BundlePath = c.String("bundle")
	}
	if c.IsSet("provider") {
		cfg.Embedding.Provider = c.String("provider")
	}
	if c.IsSet("embedding-host") {
		cfg.Embedding.Host = c.String("embedding-host")
	}
	if c.IsSet("embedding-model") {
		cfg.Embedding.Model = c.String("embedding-model")
	}
	if c.IsSet("dimension") {
		cfg.Embedding.Dimension = c.Int("dimension")
	}
	if c.IsSet("batch-size") {
		cfg.Embedding.BatchSize = c.Int("batch-size")
	}

	return cfg, nil
}

// loadAndRebuild pulls documents from the content directory, upserts them
// into the library, and publishes a fresh bundle.
func loadAndRebuild(ctx context.Context, engine *recall.Engine, dir string) (*indexing.Report, error) {
	source, err := content.NewDirSource(dir, content.WithLogger(slog.Default()))
	if err != nil {
		return nil, err
	}

	docs, err := source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load content: %w", err)
	}

	ptrs := make([]*core.Document, len(docs))
	for i := range docs {
		ptrs[i] = &docs[i]
	}
	if _, err := engine.Library().PutDocuments(ctx, ptrs...); err != nil {
		return nil, fmt.Errorf("failed to store documents: %w", err)
	}

	report, err := engine.Rebuild(ctx, docs)
	if err != nil {
		return nil, fmt.Errorf("rebuild failed: %w", err)
	}
	return report, nil
}

func indexCommand(c *cli.Context) error {
	ctx := context.Background()

	cfg, err := engineConfig(c)
	if err != nil {
		return err
	}

	engine, err := recall.NewEngine(ctx, cfg, recall.WithProgressWriter(os.Stderr))
	if err != nil {
		return err
	}
	defer engine.Close()

	fmt.Fprintf(os.Stderr, "Content: %s\n", cfg.ContentDir)
	fmt.Fprintf(os.Stderr, "Library: %s\n", libraryLabel(cfg.LibraryPath))
	fmt.Fprintf(os.Stderr, "Bundle: %s\n", cfg.BundlePath)
	fmt.Fprintln(os.Stderr)

	report, err := loadAndRebuild(ctx, engine, cfg.ContentDir)
	if err != nil {
		return err
	}

	printReport(os.Stdout, report)
	return nil
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("query is required")
	}

	cfg, err := engineConfig(c)
	if err != nil {
		return err
	}
	if !c.IsSet("db") {
		// Search never reads the library. An in-memory one avoids
		// contending for the badger lock with a concurrent watch.
		cfg.LibraryPath = ""
	}

	engine, err := recall.NewEngine(ctx, cfg)
	if err != nil {
		return err
	}
	defer engine.Close()

	opts := []search.SearchOption{
		search.WithTopK(c.Int("top-k")),
		search.WithRerank(c.Bool("rerank")),
	}
	if tags := c.StringSlice("tag"); len(tags) > 0 {
		opts = append(opts, search.WithTags(tags...))
	}

	var results []core.SearchResult
	if c.Bool("verbose") {
		results, err = engine.SearchWithMonitor(ctx, query, newStageMonitor(os.Stderr), opts...)
	} else {
		results, err = engine.Search(ctx, query, opts...)
	}
	if err != nil {
		return err
	}

	printResults(os.Stdout, results)
	return nil
}

func tagsCommand(c *cli.Context) error {
	ctx := context.Background()

	cfg, err := engineConfig(c)
	if err != nil {
		return err
	}

	engine, err := recall.NewEngine(ctx, cfg)
	if err != nil {
		return err
	}
	defer engine.Close()

	counts, err := engine.Tags(ctx)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintf(os.Stdout, "%4d  %s\n", counts[name], name)
	}
	return nil
}

func statusCommand(c *cli.Context) error {
	ctx := context.Background()

	cfg, err := engineConfig(c)
	if err != nil {
		return err
	}

	engine, err := recall.NewEngine(ctx, cfg)
	if err != nil {
		return err
	}
	defer engine.Close()

	st, err := engine.Status(ctx)
	if err != nil {
		return err
	}

	printStatus(os.Stdout, cfg, st)
	return nil
}

func watchCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := engineConfig(c)
	if err != nil {
		return err
	}

	engine, err := recall.NewEngine(ctx, cfg, recall.WithProgressWriter(os.Stderr))
	if err != nil {
		return err
	}
	defer engine.Close()

	report, err := loadAndRebuild(ctx, engine, cfg.ContentDir)
	if err != nil {
		return err
	}
	printReport(os.Stderr, report)

	// Serialize rebuilds: a burst of changes past the debounce window must
	// not run two builds at once.
	var mu sync.Mutex
	rebuild := func(path string) {
		mu.Lock()
		defer mu.Unlock()
		report, err := loadAndRebuild(ctx, engine, cfg.ContentDir)
		if err != nil {
			slog.Error("rebuild failed", "trigger", path, "err", err)
			return
		}
		printReport(os.Stderr, report)
	}

	watcher, err := indexing.NewWatcher(cfg.ContentDir, rebuild,
		indexing.WithDebounce(c.Duration("debounce")))
	if err != nil {
		return err
	}
	watcher.Start()
	defer watcher.Stop()

	fmt.Fprintf(os.Stderr, "Watching %s for changes, Ctrl-C to stop\n", cfg.ContentDir)
	<-ctx.Done()
	return nil
}

func libraryLabel(path string) string {
	if path == "" {
		return "(in-memory)"
	}
	return path
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
