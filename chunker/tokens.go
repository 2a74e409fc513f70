package chunker

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is the tokenizer encoding used for exact token counts.
const DefaultEncoding = "cl100k_base"

// TokenCounter estimates the token count of a piece of text. Counts drive
// chunk sizing decisions only; they are advisory metadata on the chunks
// themselves.
type TokenCounter interface {
	Count(text string) int
}

// EstimateTokens is the heuristic approximation used when no tokenizer is
// available: roughly four characters per token.
func EstimateTokens(text string) int {
	return len(text) / 4
}

type heuristicCounter struct{}

func (heuristicCounter) Count(text string) int {
	return EstimateTokens(text)
}

// NewHeuristicCounter returns the character-based token counter.
func NewHeuristicCounter() TokenCounter {
	return heuristicCounter{}
}

type tiktokenCounter struct {
	enc *tiktoken.Tiktoken
}

// NewTiktokenCounter returns a counter backed by the given tiktoken
// encoding. Loading an encoding may fetch its vocabulary on first use, so
// callers typically fall back to NewHeuristicCounter on error.
func NewTiktokenCounter(encoding string) (TokenCounter, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("load %s encoding: %w", encoding, err)
	}
	return &tiktokenCounter{enc: enc}, nil
}

func (c *tiktokenCounter) Count(text string) int {
	return len(c.enc.Encode(text, nil, nil))
}
