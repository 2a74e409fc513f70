package content

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"gopkg.in/yaml.v3"
)

// frontmatter carries the metadata block at the top of a post file.
type frontmatter struct {
	Title    string   `yaml:"title"`
	Date     string   `yaml:"date"`
	Tags     []string `yaml:"tags"`
	Category string   `yaml:"category"`
}

// DefaultCategory is assigned when a post declares none.
const DefaultCategory = "general"

var datedNamePattern = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})-(.+)$`)

// splitFrontmatter separates a leading metadata block fenced by "---" lines
// from the markdown body. Files without a fence are all body.
func splitFrontmatter(raw string) (meta, body string, err error) {
	lines := strings.Split(raw, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return "", raw, nil
	}

	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			meta = strings.Join(lines[1:i], "\n")
			body = strings.Join(lines[i+1:], "\n")
			return meta, body, nil
		}
	}

	return "", "", fmt.Errorf("unterminated frontmatter fence")
}

// parseMeta decodes the metadata block. Quoted scalars and flow lists
// ("tags: [go, search]") both work; an empty block is fine.
func parseMeta(meta string) (*frontmatter, error) {
	var fm frontmatter
	if err := yaml.Unmarshal([]byte(meta), &fm); err != nil {
		return nil, err
	}
	return &fm, nil
}

// parseDate accepts the date forms posts actually use: plain dates and full
// timestamps. The zero time signals "not stated", letting the caller fall
// back to the filename or file modification time.
func parseDate(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}

	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// parseFilename extracts the slug and authoring date from a post filename.
// "2025-03-14-go-concurrency.md" yields "go-concurrency" and March 14th;
// names without a date prefix become the slug as-is with a zero date.
func parseFilename(name string) (slug string, date time.Time) {
	base := strings.TrimSuffix(name, ".md")

	if m := datedNamePattern.FindStringSubmatch(base); m != nil {
		if t, err := time.Parse("2006-01-02", m[1]); err == nil {
			return normalizeSlug(m[2]), t.UTC()
		}
	}

	return normalizeSlug(base), time.Time{}
}

// normalizeSlug lowercases and replaces spaces and underscores with dashes.
func normalizeSlug(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "_", "-")
	return s
}

// titleFromSlug turns "go-concurrency" into "Go Concurrency" for posts that
// omit an explicit title.
func titleFromSlug(slug string) string {
	words := strings.Split(slug, "-")
	for i, word := range words {
		if word == "" {
			continue
		}
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
