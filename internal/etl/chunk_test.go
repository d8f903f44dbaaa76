package etl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkText(t *testing.T) {
	tests := []struct {
		name           string
		text           string
		cfg            ChunkerConfig
		expectedChunks []string
	}{
		{
			name:           "Empty input",
			text:           "",
			cfg:            ChunkerConfig{MaxTokens: 400, OverlapTokens: 50},
			expectedChunks: nil,
		},
		{
			name:           "Whitespace only",
			text:           "   \n\t   ",
			cfg:            ChunkerConfig{MaxTokens: 400, OverlapTokens: 50},
			expectedChunks: nil,
		},
		{
			name: "Single sentence fits",
			text: "Hello world.",
			cfg: ChunkerConfig{
				MaxTokens:     10,
				OverlapTokens: 0,
			},
			expectedChunks: []string{"Hello world."},
		},
		{
			name: "Two sentences fit in one chunk",
			text: "Hello world. How are you?",
			cfg: ChunkerConfig{
				MaxTokens:     10,
				OverlapTokens: 0,
			},
			expectedChunks: []string{"Hello world. How are you?"},
		},
		{
			name: "Split by sentence without overlap",
			text: "First sentence. Second sentence.",
			cfg: ChunkerConfig{
				// "First sentence." is 3 tokens: [First][ sentence][.]
				MaxTokens:     3,
				OverlapTokens: 0,
			},
			expectedChunks: []string{
				"First sentence.",
				"Second sentence.",
			},
		},
		{
			name: "Split by sentence with overlap",
			text: "Sentence one. Sentence two. Sentence three.",
			cfg: ChunkerConfig{
				// Each sentence is 3 tokens, two per chunk plus a
				// one-sentence overlap.
				MaxTokens:     6,
				OverlapTokens: 3,
			},
			expectedChunks: []string{
				"Sentence one. Sentence two.",
				"Sentence two. Sentence three.",
			},
		},
		{
			name: "Paragraph break starts new sentence",
			text: "Alpha line\ncontinues here.\n\nBeta paragraph.",
			cfg: ChunkerConfig{
				MaxTokens:     50,
				OverlapTokens: 0,
			},
			expectedChunks: []string{"Alpha line continues here. Beta paragraph."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := ChunkText(tt.text, tt.cfg)

			got := make([]string, 0, len(chunks))
			for _, c := range chunks {
				got = append(got, c.Text)
			}
			if tt.expectedChunks == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.expectedChunks, got)
		})
	}
}

func TestChunkTextLongSentence(t *testing.T) {
	// A single "sentence" with no terminator, far above the limit,
	// must be split on raw token boundaries.
	text := strings.Repeat("word ", 100)

	chunks := ChunkText(text, ChunkerConfig{MaxTokens: 20, OverlapTokens: 0})
	require.Greater(t, len(chunks), 1)

	for _, c := range chunks {
		assert.LessOrEqual(t, c.TokenSize, 20)
		assert.NotEmpty(t, c.Text)
	}
}

func TestChunkTextIndexesAreSequential(t *testing.T) {
	text := "One. Two. Three. Four. Five. Six."

	chunks := ChunkText(text, ChunkerConfig{MaxTokens: 4, OverlapTokens: 0})
	require.NotEmpty(t, chunks)

	for i, c := range chunks {
		assert.Equal(t, i, c.Index)
	}
}
