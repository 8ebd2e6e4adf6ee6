// Package chunker splits token sequences into fixed-size chunks.
package chunker

import (
	"errors"
	"fmt"
)

// DefaultChunkSize is the window size used when the caller does not
// specify one.
const DefaultChunkSize = 8192

// ErrChunkSize is returned when a requested chunk size is out of range.
var ErrChunkSize = errors.New("invalid chunk size")

// Decoder turns token IDs back into text. Implemented by token.Codec.
type Decoder interface {
	Decode(ids []int) (string, error)
}

// Chunk is one fixed-size window of a document's token sequence.
type Chunk struct {
	Index      int    `json:"index"`
	TokenIDs   []int  `json:"token_ids"`
	TokenCount int    `json:"token_count"`
	Text       string `json:"text"`
	WordCount  int    `json:"word_count"`
}

// Chunker partitions token sequences into contiguous windows and decodes
// each window back to text.
type Chunker struct {
	decoder Decoder
}

// New creates a chunker that decodes windows with the given decoder.
func New(decoder Decoder) *Chunker {
	return &Chunker{decoder: decoder}
}

// Split partitions tokens into consecutive windows of chunkSize IDs. Every
// chunk except possibly the last holds exactly chunkSize tokens; the last
// holds the remainder. The windows cover the input exactly, in order, with
// no overlap. An empty input yields no chunks. A decode failure aborts the
// whole call.
func (c *Chunker) Split(tokens []int, chunkSize int) ([]Chunk, error) {
	if chunkSize < 1 {
		return nil, fmt.Errorf("%w: %d", ErrChunkSize, chunkSize)
	}
	if len(tokens) == 0 {
		return nil, nil
	}
	chunks := make([]Chunk, 0, (len(tokens)+chunkSize-1)/chunkSize)
	for start := 0; start < len(tokens); start += chunkSize {
		end := start + chunkSize
		if end > len(tokens) {
			end = len(tokens)
		}
		window := tokens[start:end]
		text, err := c.decoder.Decode(window)
		if err != nil {
			return nil, fmt.Errorf("decode chunk %d: %w", len(chunks), err)
		}
		chunks = append(chunks, Chunk{
			Index:      len(chunks),
			TokenIDs:   window,
			TokenCount: len(window),
			Text:       text,
			WordCount:  CountWords(text),
		})
	}
	return chunks, nil
}
