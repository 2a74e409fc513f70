package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/poiesic/recall/core"
)

var _ Source = (*DirSource)(nil)

// DirSource loads documents from a flat directory of markdown posts named
// "YYYY-MM-DD-slug.md". Malformed files are skipped and logged, never
// aborting a load: one broken post should not take down the whole rebuild.
type DirSource struct {
	dir    string
	logger *slog.Logger
}

// DirOption configures a DirSource.
type DirOption func(*DirSource) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) DirOption {
	return func(s *DirSource) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewDirSource creates a source over an existing directory.
func NewDirSource(dir string, opts ...DirOption) (*DirSource, error) {
	if dir == "" {
		return nil, ErrDirRequired
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("content directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("content path %s is not a directory", dir)
	}

	s := &DirSource{
		dir:    dir,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Load reads every markdown file in the directory. Files that fail to parse
// are reported through the logger and dropped from the result.
func (s *DirSource) Load(ctx context.Context) ([]core.Document, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read content directory: %w", err)
	}

	docs := make([]core.Document, 0, len(entries))
	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".md") {
			continue
		}

		doc, err := s.ParseFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			var parseErr *core.ContentParseError
			if errors.As(err, &parseErr) {
				s.logger.Warn("skipping malformed content file",
					"file", entry.Name(), "reason", parseErr.Reason)
				continue
			}
			return nil, err
		}

		docs = append(docs, *doc)
	}

	s.logger.Debug("loaded content directory", "dir", s.dir, "documents", len(docs))
	return docs, nil
}

// ParseFile reads one markdown post into a Document. Parse failures come
// back as *core.ContentParseError; anything else is an I/O failure.
func (s *DirSource) ParseFile(path string) (*core.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	slug, fileDate := parseFilename(filepath.Base(path))

	meta, body, err := splitFrontmatter(string(raw))
	if err != nil {
		return nil, &core.ContentParseError{Slug: slug, Reason: "unterminated frontmatter", Err: err}
	}

	fm, err := parseMeta(meta)
	if err != nil {
		return nil, &core.ContentParseError{Slug: slug, Reason: "invalid frontmatter", Err: err}
	}

	body = strings.TrimSpace(body)
	if body == "" {
		return nil, &core.ContentParseError{Slug: slug, Reason: "empty body"}
	}

	title := fm.Title
	if title == "" {
		title = titleFromSlug(slug)
	}

	category := fm.Category
	if category == "" {
		category = DefaultCategory
	}

	// Date precedence: frontmatter, then filename, then file modification
	// time, mirroring how posts have historically been stamped.
	date := parseDate(fm.Date)
	if date.IsZero() {
		date = fileDate
	}
	if date.IsZero() {
		if info, statErr := os.Stat(path); statErr == nil {
			date = info.ModTime().UTC()
		}
	}

	doc := &core.Document{
		Slug:     slug,
		Title:    title,
		Date:     date,
		Category: category,
		Tags:     fm.Tags,
		Body:     body,
	}

	if err := core.ValidateDocument(doc); err != nil {
		return nil, &core.ContentParseError{Slug: slug, Reason: "invalid document", Err: err}
	}

	return doc, nil
}
