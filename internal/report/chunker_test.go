package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkRoundTrip(t *testing.T) {
	widths := Widths(Fields)
	total := 0
	for _, w := range widths {
		total += w
	}
	require.Equal(t, LineWidth, total)

	line := strings.Repeat("abcdefghij", LineWidth/10)
	chunks := Chunk(line, widths)
	assert.Len(t, chunks, len(Fields))
	assert.Equal(t, line, strings.Join(chunks, ""))
}

func TestChunkShortInput(t *testing.T) {
	// Input ends inside the Title field: the chunker truncates the final
	// chunk instead of reading past the end.
	line := strings.Repeat("x", 30)
	chunks := Chunk(line, Widths(Fields))

	assert.Equal(t, []string{
		"xxxxx", "xxxxx", "xxxxxx", "xxxx", "xx", "xxxx", "xx", "xx",
	}, chunks)
	assert.Equal(t, line, strings.Join(chunks, ""))
}

func TestChunkCyclesWidths(t *testing.T) {
	chunks := Chunk("aabbbaabbb", []int{2, 3})
	assert.Equal(t, []string{"aa", "bbb", "aa", "bbb"}, chunks)
}

func TestChunkEmpty(t *testing.T) {
	assert.Nil(t, Chunk("", Widths(Fields)))
	assert.Nil(t, Chunk("anything", nil))
}

func TestPadLine(t *testing.T) {
	assert.Len(t, padLine("short"), LineWidth)
	assert.Equal(t, "short", strings.TrimRight(padLine("short"), " "))

	long := strings.Repeat("y", LineWidth+25)
	assert.Equal(t, long[:LineWidth], padLine(long))
}
