package e2e

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hyperjump/wakeru/internal/docid"
	"github.com/hyperjump/wakeru/internal/export"
	"github.com/hyperjump/wakeru/internal/extract"
	"github.com/hyperjump/wakeru/internal/pipeline"
	"github.com/hyperjump/wakeru/internal/store"
	"github.com/hyperjump/wakeru/internal/token"
)

const (
	e2eChunkSize = 48
	e2eMaxFiles  = 40
)

// wordCodec assigns IDs to whitespace-separated words in first-seen order.
// It stands in for a BPE vocabulary so E2E runs need no tokenizer data, and
// it makes a document's token count equal its word count.
type wordCodec struct {
	words []string
	index map[string]int
}

func newWordCodec() *wordCodec {
	return &wordCodec{index: map[string]int{}}
}

func (c *wordCodec) Encode(text string) []int {
	var ids []int
	for _, w := range strings.Fields(text) {
		id, ok := c.index[w]
		if !ok {
			id = len(c.words)
			c.words = append(c.words, w)
			c.index[w] = id
		}
		ids = append(ids, id)
	}
	return ids
}

func (c *wordCodec) Decode(ids []int) (string, error) {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = c.words[id]
	}
	return strings.Join(parts, " "), nil
}

func newE2EPipeline(t *testing.T, dir string) (*pipeline.Pipeline, *store.SQLiteStore) {
	t.Helper()
	st, err := store.NewSQLiteStore(filepath.Join(dir, "db.sqlite"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = st.Close() })
	codec := newWordCodec()
	pipe := pipeline.New(st, extract.NewExtractor(), pipeline.WithCodecFactory(func(string) (pipeline.Codec, error) {
		return codec, nil
	}))
	return pipe, st
}

func TestE2E_CorpusProcessRoundTrip(t *testing.T) {
	pipe, st := newE2EPipeline(t, t.TempDir())
	ctx := context.Background()
	opts := pipeline.Options{ChunkSize: e2eChunkSize, Encoding: token.DefaultEncoding}

	corpus := BuildCorpus()
	if corpus.TotalPapers == 0 {
		t.Fatal("corpus has no papers")
	}

	for _, p := range corpus.Papers {
		res, err := pipe.Process(ctx, p.ID+".txt", []byte(p.Text), opts)
		if err != nil {
			t.Fatalf("process %q: %v", p.ID, err)
		}
		if res.Document.TokenCount != p.Words {
			t.Errorf("paper %q: token count %d, want %d", p.ID, res.Document.TokenCount, p.Words)
		}
		wantChunks := (p.Words + e2eChunkSize - 1) / e2eChunkSize
		if res.Document.ChunkCount != wantChunks {
			t.Errorf("paper %q: chunk count %d, want %d for %d tokens", p.ID, res.Document.ChunkCount, wantChunks, p.Words)
		}
	}

	t.Logf("processed %d papers; verifying stored chunk coverage", corpus.TotalPapers)

	if n, err := st.CountDocuments(ctx); err != nil || n != int64(corpus.TotalPapers) {
		t.Fatalf("stored documents: %d (err %v), want %d", n, err, corpus.TotalPapers)
	}
	if sum, err := st.SumTokens(ctx); err != nil || sum != int64(corpus.TotalWords) {
		t.Fatalf("stored token total: %d (err %v), want %d", sum, err, corpus.TotalWords)
	}

	for _, p := range corpus.Papers {
		t.Run(p.ID, func(t *testing.T) {
			id := docid.FromBytes([]byte(p.Text))
			doc, err := st.GetDocument(ctx, id)
			if err != nil {
				t.Fatalf("get document: %v", err)
			}
			chunks, err := st.GetChunks(ctx, id)
			if err != nil {
				t.Fatalf("get chunks: %v", err)
			}
			if len(chunks) != doc.ChunkCount {
				t.Fatalf("stored %d chunks, document says %d", len(chunks), doc.ChunkCount)
			}

			covered := 0
			contents := make([]string, 0, len(chunks))
			for i, ch := range chunks {
				if ch.ChunkIndex != i {
					t.Errorf("chunk %d: index %d", i, ch.ChunkIndex)
				}
				if ch.TokenStart != covered {
					t.Errorf("chunk %d: starts at %d, previous ended at %d", i, ch.TokenStart, covered)
				}
				if ch.TokenEnd-ch.TokenStart != ch.TokenCount {
					t.Errorf("chunk %d: window [%d,%d) does not match count %d", i, ch.TokenStart, ch.TokenEnd, ch.TokenCount)
				}
				if i < len(chunks)-1 && ch.TokenCount != e2eChunkSize {
					t.Errorf("chunk %d: %d tokens, only the last chunk may be short", i, ch.TokenCount)
				}
				covered = ch.TokenEnd
				contents = append(contents, ch.Content)
			}
			if covered != doc.TokenCount {
				t.Errorf("chunks cover %d tokens, document has %d", covered, doc.TokenCount)
			}

			joined := strings.Join(contents, " ")
			if want := strings.Join(strings.Fields(p.Text), " "); joined != want {
				t.Error("chunk contents do not reconstruct the paper text")
			}
			if !strings.Contains(joined, p.Signature) {
				t.Errorf("signature %q lost in chunked text", p.Signature)
			}

			out := export.Render(chunks)
			if !strings.Contains(out, "=== CHUNK 1 (") {
				t.Error("export is missing the first chunk header")
			}
			if !strings.Contains(out, p.Signature) {
				t.Errorf("signature %q lost in export", p.Signature)
			}
			if got := export.Filename(doc.Filename); got != "all_chunks_"+p.ID+".txt" {
				t.Errorf("export filename %q", got)
			}
		})
	}

	// Re-processing identical bytes must return the stored result.
	first := corpus.Papers[0]
	res, err := pipe.Process(ctx, first.ID+".txt", []byte(first.Text), opts)
	if err != nil {
		t.Fatalf("reprocess: %v", err)
	}
	if !res.Cached {
		t.Error("re-processing the same bytes should hit the store")
	}
	if n, err := st.CountDocuments(ctx); err != nil || n != int64(corpus.TotalPapers) {
		t.Errorf("document count changed after reprocess: %d (err %v)", n, err)
	}
}

// TestE2E_DirectoryProcessing writes corpus papers as real files of all
// supported types, runs ProcessDirectory over them, and checks each stored
// document by its content-hash ID. PDFs flatten line breaks, so word counts
// rather than exact text are asserted for them.
func TestE2E_DirectoryProcessing(t *testing.T) {
	dir := t.TempDir()
	docDir := filepath.Join(dir, "docs")
	if err := os.MkdirAll(docDir, 0755); err != nil {
		t.Fatal(err)
	}

	corpus := BuildCorpus()
	exts := SupportedFileExtensions
	type written struct {
		paper E2EPaper
		ext   string
		docID string
	}
	var files []written
	for i, p := range corpus.Papers {
		if len(files) >= e2eMaxFiles {
			break
		}
		ext := exts[i%len(exts)]
		fileBytes, err := WriteMinimalFile(ext, p.Text)
		if err != nil {
			t.Fatalf("build fixture %s%s: %v", p.ID, ext, err)
		}
		path := filepath.Join(docDir, p.ID+ext)
		if err := os.WriteFile(path, fileBytes, 0644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		files = append(files, written{paper: p, ext: ext, docID: docid.FromBytes(fileBytes)})
	}

	pipe, st := newE2EPipeline(t, dir)
	ctx := context.Background()
	opts := pipeline.Options{ChunkSize: e2eChunkSize, Encoding: token.DefaultEncoding}

	n, err := pipe.ProcessDirectory(ctx, docDir, exts, opts)
	if err != nil {
		t.Fatalf("process directory: %v", err)
	}
	if n != len(files) {
		t.Fatalf("expected %d files processed, got %d", len(files), n)
	}

	t.Logf("processed %d files from %s; verifying per-file results", n, docDir)

	for _, f := range files {
		t.Run(f.paper.ID+f.ext, func(t *testing.T) {
			doc, err := st.GetDocument(ctx, f.docID)
			if err != nil {
				t.Fatalf("get document: %v", err)
			}
			if doc.Filename != f.paper.ID+f.ext {
				t.Errorf("filename %q, want %q", doc.Filename, f.paper.ID+f.ext)
			}
			if doc.TokenCount != f.paper.Words {
				t.Errorf("token count %d, want %d", doc.TokenCount, f.paper.Words)
			}
			wantPages := 0
			if f.ext == ".pdf" {
				wantPages = 1
			}
			if doc.PageCount != wantPages {
				t.Errorf("page count %d, want %d", doc.PageCount, wantPages)
			}
			chunks, err := st.GetChunks(ctx, f.docID)
			if err != nil {
				t.Fatalf("get chunks: %v", err)
			}
			contents := make([]string, len(chunks))
			for i, ch := range chunks {
				contents[i] = ch.Content
			}
			joined := strings.Join(contents, " ")
			if !strings.Contains(joined, f.paper.Signature) {
				t.Errorf("signature %q lost through the %s path", f.paper.Signature, f.ext)
			}
		})
	}
}
