package core

import (
	"strings"
	"testing"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantSame bool
	}{
		{
			name:     "same content produces same ID",
			content:  "test content",
			wantSame: true,
		},
		{
			name:     "empty string",
			content:  "",
			wantSame: true,
		},
		{
			name:     "long content",
			content:  "This is a much longer piece of content that should still hash consistently",
			wantSame: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if tt.wantSame && id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent("content1")
	id2 := IDFromContent("content2")

	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestChunk_Identity(t *testing.T) {
	tests := []struct {
		name  string
		chunk Chunk
		want  string
	}{
		{
			name: "short content",
			chunk: Chunk{
				DocumentSlug: "intro-to-search",
				Ordinal:      2,
				Content:      "BM25 basics",
			},
			want: "intro-to-search:2:BM25 basics",
		},
		{
			name: "empty content",
			chunk: Chunk{
				DocumentSlug: "empty",
				Ordinal:      0,
				Content:      "",
			},
			want: "empty:0:",
		},
		{
			name: "long content is truncated to a prefix",
			chunk: Chunk{
				DocumentSlug: "long",
				Ordinal:      1,
				Content:      strings.Repeat("a", 200),
			},
			want: "long:1:" + strings.Repeat("a", 50),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.chunk.Identity()
			if got != tt.want {
				t.Errorf("Chunk.Identity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestChunk_IdentityStable(t *testing.T) {
	c := Chunk{DocumentSlug: "post", Ordinal: 3, Content: "stable section text"}

	id1 := IDFromContent(c.Identity())
	id2 := IDFromContent(c.Identity())
	if id1 != id2 {
		t.Errorf("identity hashing not stable: %d vs %d", id1, id2)
	}

	changed := c
	changed.Content = "different section text"
	if IDFromContent(changed.Identity()) == id1 {
		t.Errorf("different content produced the same chunk ID")
	}
}

func TestMatchSource_String(t *testing.T) {
	tests := []struct {
		source MatchSource
		want   string
	}{
		{MatchSourceDense, "dense"},
		{MatchSourceSparse, "sparse"},
		{MatchSourceHybrid, "hybrid"},
		{MatchSource(0), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.source.String(); got != tt.want {
			t.Errorf("MatchSource(%d).String() = %v, want %v", tt.source, got, tt.want)
		}
	}
}

func TestReferenceURL(t *testing.T) {
	tests := []struct {
		name  string
		chunk Chunk
		want  string
	}{
		{
			name:  "with fragment",
			chunk: Chunk{DocumentSlug: "hybrid-search", Fragment: "#rank-fusion"},
			want:  "/hybrid-search#rank-fusion",
		},
		{
			name:  "preamble has no fragment",
			chunk: Chunk{DocumentSlug: "hybrid-search"},
			want:  "/hybrid-search",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReferenceURL(&tt.chunk); got != tt.want {
				t.Errorf("ReferenceURL() = %v, want %v", got, tt.want)
			}
		})
	}
}
