package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/poiesic/recall"
	"github.com/poiesic/recall/core"
	"github.com/poiesic/recall/indexing"
	"github.com/poiesic/recall/search"
)

const snippetLength = 160

// printResults renders ranked hits for a terminal. fatih/color disables
// itself for non-TTY output and NO_COLOR environments.
func printResults(w io.Writer, results []core.SearchResult) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No results.")
		return
	}

	title := color.New(color.FgCyan, color.Bold).SprintFunc()
	heading := color.New(color.FgCyan).SprintFunc()
	score := color.New(color.FgYellow).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()

	for i, r := range results {
		line := fmt.Sprintf("%2d. %s", i+1, title(r.Chunk.DocumentTitle))
		if r.Chunk.Heading != "" {
			line += " > " + heading(r.Chunk.Heading)
		}
		line += "  " + score(fmt.Sprintf("%.4f", r.Score))
		line += faint(" (" + sourceLabel(r.Source) + ")")
		fmt.Fprintln(w, line)
		fmt.Fprintf(w, "    %s\n", faint(core.ReferenceURL(r.Chunk)))
		fmt.Fprintf(w, "    %s\n", snippet(r.Chunk.Content, snippetLength))
	}
}

func sourceLabel(s core.MatchSource) string {
	switch s {
	case core.MatchSourceDense:
		return "dense"
	case core.MatchSourceSparse:
		return "keyword"
	case core.MatchSourceHybrid:
		return "hybrid"
	default:
		return "unknown"
	}
}

// snippet flattens whitespace and truncates at a word boundary.
func snippet(content string, max int) string {
	flat := strings.Join(strings.Fields(content), " ")
	runes := []rune(flat)
	if len(runes) <= max {
		return flat
	}
	cut := string(runes[:max])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return cut + "..."
}

func printReport(w io.Writer, report *indexing.Report) {
	green := color.New(color.FgGreen).SprintfFunc()
	yellow := color.New(color.FgYellow).SprintfFunc()

	fmt.Fprintln(w, green("Indexed %d documents (%d chunks) in %s",
		report.Documents, report.Chunks, report.Elapsed.Round(time.Millisecond)))
	for _, skip := range report.Skipped {
		fmt.Fprintln(w, yellow("Skipped %s: %s", skip.Slug, skip.Reason))
	}
}

func printStatus(w io.Writer, cfg *recall.Config, st *recall.Status) {
	if !st.Indexed {
		fmt.Fprintln(w, color.YellowString("No index published at %s", cfg.BundlePath))
		fmt.Fprintf(w, "Library:   %d documents\n", st.LibraryDocuments)
		return
	}

	s := st.Summary
	fmt.Fprintf(w, "Bundle:    %s\n", cfg.BundlePath)
	fmt.Fprintf(w, "Build:     %s at %s\n", s.BuildId, s.BuiltAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Model:     %s (%d dimensions)\n", s.ModelId, s.Dimension)
	fmt.Fprintf(w, "Documents: %d\n", s.DocumentCount)
	fmt.Fprintf(w, "Chunks:    %d\n", s.ChunkCount)
	fmt.Fprintf(w, "Tags:      %d\n", len(s.Tags))
	fmt.Fprintf(w, "Library:   %d documents\n", st.LibraryDocuments)
}

// stageMonitor narrates the search pipeline for --verbose queries.
type stageMonitor struct {
	w     io.Writer
	start time.Time
}

var _ search.SearchMonitor = (*stageMonitor)(nil)

func newStageMonitor(w io.Writer) *stageMonitor {
	return &stageMonitor{w: w}
}

func (m *stageMonitor) Start(query string) {
	m.start = time.Now()
	fmt.Fprintf(m.w, "query %q\n", query)
}

func (m *stageMonitor) AfterCandidateFilter(tags []string, candidates uint64) {
	if len(tags) == 0 {
		fmt.Fprintf(m.w, "candidates: %d chunks\n", candidates)
		return
	}
	fmt.Fprintf(m.w, "candidates: %d chunks tagged %s\n", candidates, strings.Join(tags, ", "))
}

func (m *stageMonitor) AfterEmbedding(elapsed time.Duration) {
	fmt.Fprintf(m.w, "query embedded in %s\n", elapsed.Round(time.Millisecond))
}

func (m *stageMonitor) AfterDenseRanking(hits []search.RankedChunk) {
	fmt.Fprintf(m.w, "dense ranking: %d hits\n", len(hits))
}

func (m *stageMonitor) AfterSparseRanking(hits []search.RankedChunk) {
	fmt.Fprintf(m.w, "keyword ranking: %d hits\n", len(hits))
}

func (m *stageMonitor) AfterFusion(hits []search.RankedChunk) {
	fmt.Fprintf(m.w, "fused: %d candidates\n", len(hits))
}

func (m *stageMonitor) AfterRerank(hits []search.RankedChunk) {
	fmt.Fprintf(m.w, "reranked: %d candidates\n", len(hits))
}

func (m *stageMonitor) Finish(results []core.SearchResult) {
	fmt.Fprintf(m.w, "%d results in %s\n\n", len(results), time.Since(m.start).Round(time.Millisecond))
}
