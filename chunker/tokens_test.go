package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, EstimateTokens(""))
	assert.Equal(t, 2, EstimateTokens("12345678"))
	assert.Equal(t, 25, EstimateTokens(strings.Repeat("x", 100)))
}

func TestHeuristicCounter(t *testing.T) {
	counter := NewHeuristicCounter()
	assert.Equal(t, EstimateTokens("some chunk text"), counter.Count("some chunk text"))
}
