package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hyperjump/wakeru/internal/chunker"
	"github.com/hyperjump/wakeru/internal/extract"
	"github.com/hyperjump/wakeru/internal/store"
	"github.com/hyperjump/wakeru/internal/token"
)

// fakeCodec assigns IDs to whitespace-separated words in first-seen order.
type fakeCodec struct {
	words []string
	index map[string]int
}

func newFakeCodec() *fakeCodec {
	return &fakeCodec{index: map[string]int{}}
}

func (f *fakeCodec) Encode(text string) []int {
	var ids []int
	for _, w := range strings.Fields(text) {
		id, ok := f.index[w]
		if !ok {
			id = len(f.words)
			f.words = append(f.words, w)
			f.index[w] = id
		}
		ids = append(ids, id)
	}
	return ids
}

func (f *fakeCodec) Decode(ids []int) (string, error) {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = f.words[id]
	}
	return strings.Join(parts, " "), nil
}

func testPipeline(t *testing.T) (*Pipeline, *store.SQLiteStore) {
	t.Helper()
	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "db.sqlite"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = st.Close() })
	codec := newFakeCodec()
	p := New(st, extract.NewExtractor(), WithCodecFactory(func(string) (Codec, error) {
		return codec, nil
	}))
	return p, st
}

func testOptions(chunkSize int) Options {
	return Options{ChunkSize: chunkSize, Encoding: token.DefaultEncoding}
}

func TestExtensionAllowed(t *testing.T) {
	tests := []struct {
		ext     string
		allowed []string
		want    bool
	}{
		{".pdf", []string{".pdf"}, true},
		{".PDF", []string{".pdf"}, true},
		{".txt", []string{".pdf", ".txt"}, true},
		{".docx", []string{".pdf"}, false},
		{"", []string{".pdf"}, false},
	}
	for _, tt := range tests {
		got := extensionAllowed(tt.ext, tt.allowed)
		if got != tt.want {
			t.Errorf("extensionAllowed(%q, %v) = %v, want %v", tt.ext, tt.allowed, got, tt.want)
		}
	}
}

func TestPipeline_Process(t *testing.T) {
	p, st := testPipeline(t)
	ctx := context.Background()

	data := []byte("w0 w1 w2 w3 w4 w5 w6 w7 w8 w9")
	res, err := p.Process(ctx, "paper.txt", data, testOptions(4))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.Cached {
		t.Error("first process should not be cached")
	}
	doc := res.Document
	if doc.TokenCount != 10 || doc.ChunkCount != 3 || doc.ChunkSize != 4 {
		t.Errorf("document = %+v", doc)
	}
	if doc.WordEstimate != 7 {
		t.Errorf("WordEstimate = %d, want 7", doc.WordEstimate)
	}
	if doc.Filename != "paper.txt" {
		t.Errorf("Filename = %q", doc.Filename)
	}

	if len(res.Chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(res.Chunks))
	}
	wantCounts := []int{4, 4, 2}
	offset := 0
	for i, ch := range res.Chunks {
		if ch.ChunkIndex != i {
			t.Errorf("chunk %d index %d", i, ch.ChunkIndex)
		}
		if ch.TokenCount != wantCounts[i] {
			t.Errorf("chunk %d TokenCount %d, want %d", i, ch.TokenCount, wantCounts[i])
		}
		if ch.TokenStart != offset || ch.TokenEnd != offset+ch.TokenCount {
			t.Errorf("chunk %d window [%d,%d), want [%d,%d)", i, ch.TokenStart, ch.TokenEnd, offset, offset+ch.TokenCount)
		}
		offset = ch.TokenEnd
		if ch.ID == "" || ch.DocumentID != doc.ID {
			t.Errorf("chunk %d ids: %q %q", i, ch.ID, ch.DocumentID)
		}
	}
	if res.Chunks[2].Content != "w8 w9" {
		t.Errorf("last chunk content %q", res.Chunks[2].Content)
	}

	stored, err := st.GetChunks(ctx, doc.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != 3 {
		t.Errorf("expected 3 stored chunks, got %d", len(stored))
	}
}

func TestPipeline_Process_cacheHit(t *testing.T) {
	p, st := testPipeline(t)
	ctx := context.Background()

	data := []byte("alpha beta gamma delta")
	first, err := p.Process(ctx, "a.txt", data, testOptions(2))
	if err != nil {
		t.Fatal(err)
	}
	second, err := p.Process(ctx, "a.txt", data, testOptions(2))
	if err != nil {
		t.Fatal(err)
	}
	if !second.Cached {
		t.Error("identical bytes and options should hit the cache")
	}
	if second.Document.ID != first.Document.ID {
		t.Errorf("IDs differ: %q vs %q", second.Document.ID, first.Document.ID)
	}
	if n, _ := st.CountDocuments(ctx); n != 1 {
		t.Errorf("expected 1 stored document, got %d", n)
	}
}

func TestPipeline_Process_optionsChange(t *testing.T) {
	p, st := testPipeline(t)
	ctx := context.Background()

	data := []byte("alpha beta gamma delta")
	first, err := p.Process(ctx, "a.txt", data, testOptions(2))
	if err != nil {
		t.Fatal(err)
	}
	second, err := p.Process(ctx, "a.txt", data, testOptions(3))
	if err != nil {
		t.Fatal(err)
	}
	if second.Cached {
		t.Error("changed options must re-process")
	}
	if second.Document.ID != first.Document.ID {
		t.Error("same bytes should keep the same document ID")
	}
	if second.Document.ChunkSize != 3 || second.Document.ChunkCount != 2 {
		t.Errorf("document = %+v", second.Document)
	}
	if n, _ := st.CountDocuments(ctx); n != 1 {
		t.Errorf("expected replaced document, got %d", n)
	}
	if n, _ := st.CountChunks(ctx); n != 2 {
		t.Errorf("expected replaced chunks, got %d", n)
	}
}

func TestPipeline_Process_invalidOptions(t *testing.T) {
	p, _ := testPipeline(t)
	ctx := context.Background()
	data := []byte("some text")

	for _, size := range []int{0, -1} {
		_, err := p.Process(ctx, "a.txt", data, testOptions(size))
		if !errors.Is(err, chunker.ErrChunkSize) {
			t.Errorf("size %d: expected ErrChunkSize, got %v", size, err)
		}
	}
	if _, err := p.Process(ctx, "a.txt", data, testOptions(MaxChunkSize+1)); !errors.Is(err, chunker.ErrChunkSize) {
		t.Errorf("above MaxChunkSize: expected ErrChunkSize, got %v", err)
	}
	_, err := p.Process(ctx, "a.txt", data, Options{ChunkSize: 8192, Encoding: "base64"})
	if !errors.Is(err, token.ErrEncoding) {
		t.Errorf("expected ErrEncoding, got %v", err)
	}
}

func TestPipeline_Process_emptyText(t *testing.T) {
	p, _ := testPipeline(t)
	res, err := p.Process(context.Background(), "empty.txt", []byte("   \n  "), testOptions(8192))
	if err != nil {
		t.Fatalf("empty text should process: %v", err)
	}
	if res.Document.TokenCount != 0 || res.Document.ChunkCount != 0 {
		t.Errorf("document = %+v", res.Document)
	}
	if len(res.Chunks) != 0 {
		t.Errorf("expected no chunks, got %d", len(res.Chunks))
	}
}

func TestPipeline_Process_extractError(t *testing.T) {
	p, _ := testPipeline(t)
	_, err := p.Process(context.Background(), "bad.pdf", []byte("not a pdf"), testOptions(8192))
	if err == nil {
		t.Error("expected extraction error")
	}
}

func TestPipeline_ProcessFile(t *testing.T) {
	p, _ := testPipeline(t)
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("one two three"), 0600); err != nil {
		t.Fatal(err)
	}

	res, err := p.ProcessFile(ctx, path, nil, testOptions(2))
	if err != nil {
		t.Fatalf("ProcessFile: %v", err)
	}
	if res.Document.Filename != "notes.txt" || res.Document.TokenCount != 3 {
		t.Errorf("document = %+v", res.Document)
	}

	_, err = p.ProcessFile(ctx, path, []string{".pdf"}, testOptions(2))
	if err == nil {
		t.Error("expected extension rejection")
	}

	_, err = p.ProcessFile(ctx, filepath.Join(dir, "missing.txt"), nil, testOptions(2))
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestPipeline_ProcessDirectory(t *testing.T) {
	p, st := testPipeline(t)
	ctx := context.Background()
	dir := t.TempDir()
	sub := filepath.Join(dir, "nested")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		filepath.Join(dir, "a.txt"): "alpha beta",
		filepath.Join(dir, "b.md"):  "gamma delta",
		filepath.Join(dir, "c.xyz"): "skipped",
		filepath.Join(sub, "d.txt"): "epsilon zeta",
	}
	for path, content := range files {
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}
	}

	n, err := p.ProcessDirectory(ctx, dir, []string{".txt", ".md"}, testOptions(8192))
	if err != nil {
		t.Fatalf("ProcessDirectory: %v", err)
	}
	if n != 3 {
		t.Errorf("processed = %d, want 3", n)
	}
	if count, _ := st.CountDocuments(ctx); count != 3 {
		t.Errorf("stored documents = %d, want 3", count)
	}

	if _, err := p.ProcessDirectory(ctx, filepath.Join(dir, "a.txt"), nil, testOptions(8192)); err == nil {
		t.Error("expected error for non-directory path")
	}
}
