package chunker

import (
	"errors"
	"strconv"
	"strings"
	"testing"
)

// stubDecoder renders each token ID as "t<id>" joined by spaces.
type stubDecoder struct{}

func (stubDecoder) Decode(ids []int) (string, error) {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = "t" + strconv.Itoa(id)
	}
	return strings.Join(parts, " "), nil
}

type failDecoder struct{ err error }

func (d failDecoder) Decode([]int) (string, error) { return "", d.err }

func seq(n int) []int {
	tokens := make([]int, n)
	for i := range tokens {
		tokens[i] = i
	}
	return tokens
}

func TestChunker_Split(t *testing.T) {
	c := New(stubDecoder{})
	chunks, err := c.Split(seq(20000), 8192)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	wantCounts := []int{8192, 8192, 3616}
	for i, ch := range chunks {
		if ch.Index != i {
			t.Errorf("chunk %d Index=%d", i, ch.Index)
		}
		if ch.TokenCount != wantCounts[i] {
			t.Errorf("chunk %d TokenCount=%d, want %d", i, ch.TokenCount, wantCounts[i])
		}
		if len(ch.TokenIDs) != ch.TokenCount {
			t.Errorf("chunk %d len(TokenIDs)=%d != TokenCount=%d", i, len(ch.TokenIDs), ch.TokenCount)
		}
		if ch.Text == "" {
			t.Errorf("chunk %d has empty text", i)
		}
	}
}

func TestChunker_Split_exactMultiple(t *testing.T) {
	c := New(stubDecoder{})
	chunks, err := c.Split(seq(16384), 8192)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	for i, ch := range chunks {
		if ch.TokenCount != 8192 {
			t.Errorf("chunk %d TokenCount=%d, want full 8192", i, ch.TokenCount)
		}
	}
}

func TestChunker_Split_singleFullChunk(t *testing.T) {
	c := New(stubDecoder{})
	chunks, err := c.Split(seq(8192), 8192)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if len(chunks) != 1 || chunks[0].TokenCount != 8192 {
		t.Errorf("expected one full chunk, got %d chunks", len(chunks))
	}
}

func TestChunker_Split_singleToken(t *testing.T) {
	c := New(stubDecoder{})
	chunks, err := c.Split([]int{42}, 8192)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].TokenCount != 1 || chunks[0].TokenIDs[0] != 42 {
		t.Errorf("chunk = %+v", chunks[0])
	}
}

func TestChunker_Split_empty(t *testing.T) {
	c := New(stubDecoder{})
	chunks, err := c.Split(nil, 8192)
	if err != nil {
		t.Fatalf("empty input should not error: %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("empty input should yield no chunks, got %d", len(chunks))
	}
}

func TestChunker_Split_invalidSize(t *testing.T) {
	c := New(stubDecoder{})
	for _, size := range []int{0, -1} {
		_, err := c.Split(seq(10), size)
		if !errors.Is(err, ErrChunkSize) {
			t.Errorf("size %d: expected ErrChunkSize, got %v", size, err)
		}
	}
}

func TestChunker_Split_lossless(t *testing.T) {
	c := New(stubDecoder{})
	for _, n := range []int{1, 6, 7, 8, 13, 100} {
		tokens := seq(n)
		chunks, err := c.Split(tokens, 7)
		if err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}
		want := (n + 6) / 7
		if len(chunks) != want {
			t.Errorf("n=%d: expected %d chunks, got %d", n, want, len(chunks))
		}
		var rebuilt []int
		for i, ch := range chunks {
			last := i == len(chunks)-1
			if !last && ch.TokenCount != 7 {
				t.Errorf("n=%d chunk %d: non-final chunk has %d tokens", n, i, ch.TokenCount)
			}
			if last && (ch.TokenCount < 1 || ch.TokenCount > 7) {
				t.Errorf("n=%d: final chunk has %d tokens", n, ch.TokenCount)
			}
			rebuilt = append(rebuilt, ch.TokenIDs...)
		}
		if len(rebuilt) != len(tokens) {
			t.Fatalf("n=%d: rebuilt %d tokens, want %d", n, len(rebuilt), len(tokens))
		}
		for i := range tokens {
			if rebuilt[i] != tokens[i] {
				t.Fatalf("n=%d: rebuilt[%d]=%d, want %d", n, i, rebuilt[i], tokens[i])
			}
		}
	}
}

func TestChunker_Split_decodeError(t *testing.T) {
	wantErr := errors.New("vocab corrupted")
	c := New(failDecoder{err: wantErr})
	chunks, err := c.Split(seq(10), 4)
	if !errors.Is(err, wantErr) {
		t.Errorf("expected decoder error to propagate, got %v", err)
	}
	if chunks != nil {
		t.Errorf("failed split should return no chunks, got %d", len(chunks))
	}
}

func TestCountWords(t *testing.T) {
	if n := CountWords("the quick brown fox"); n != 4 {
		t.Errorf("expected 4 words, got %d", n)
	}
	if n := CountWords(""); n != 0 {
		t.Errorf("empty string: got %d", n)
	}
	if n := CountWords("  ...  !!  "); n != 0 {
		t.Errorf("punctuation only: got %d", n)
	}
	if n := CountWords("attention is all you need (2017)"); n != 6 {
		t.Errorf("expected 6 words, got %d", n)
	}
}

func TestCountWords_unicode(t *testing.T) {
	if n := CountWords("schrödinger équation"); n != 2 {
		t.Errorf("accented words: got %d", n)
	}
}
