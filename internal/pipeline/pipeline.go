// Package pipeline turns uploaded bytes into stored token chunks.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/wakeru/internal/chunker"
	"github.com/hyperjump/wakeru/internal/docid"
	"github.com/hyperjump/wakeru/internal/extract"
	"github.com/hyperjump/wakeru/internal/models"
	"github.com/hyperjump/wakeru/internal/store"
	"github.com/hyperjump/wakeru/internal/token"
)

// MaxChunkSize caps requested chunk sizes. Nothing in the splitter needs a
// cap; it keeps a typo like 8192000 from producing one giant chunk.
const MaxChunkSize = 32768

// wordsPerToken is the rough English words-per-token ratio used for the
// document-level word estimate.
const wordsPerToken = 0.75

// Codec is the tokenizer surface the pipeline needs.
type Codec interface {
	Encode(text string) []int
	Decode(ids []int) (string, error)
}

// Options control one process call.
type Options struct {
	ChunkSize int    `json:"chunk_size"`
	Encoding  string `json:"encoding"`
}

// DefaultOptions returns the options used when a request does not override
// them.
func DefaultOptions() Options {
	return Options{ChunkSize: chunker.DefaultChunkSize, Encoding: token.DefaultEncoding}
}

// Validate checks bounds. It does not fill defaults; start from
// DefaultOptions and override.
func (o Options) Validate() error {
	if o.ChunkSize < 1 {
		return fmt.Errorf("%w: %d", chunker.ErrChunkSize, o.ChunkSize)
	}
	if o.ChunkSize > MaxChunkSize {
		return fmt.Errorf("%w: %d exceeds maximum %d", chunker.ErrChunkSize, o.ChunkSize, MaxChunkSize)
	}
	if !token.Valid(o.Encoding) {
		return fmt.Errorf("%w %q, valid: %s", token.ErrEncoding, o.Encoding, strings.Join(token.Supported(), ", "))
	}
	return nil
}

// Result is the outcome of one process call. Cached reports that the stored
// result for the same content and options was returned without re-running
// the pipeline.
type Result struct {
	Document *models.Document `json:"document"`
	Chunks   []*models.Chunk  `json:"chunks"`
	Cached   bool             `json:"cached"`
}

// Pipeline extracts, tokenizes, chunks, and stores documents.
type Pipeline struct {
	store     store.Store
	extractor *extract.Extractor
	newCodec  func(encoding string) (Codec, error)
	logger    *zap.Logger // optional; when set, logs debug events

	codecMu sync.Mutex
	codecs  map[string]Codec

	writeMu sync.Mutex
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a logger for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithCodecFactory overrides how encodings are loaded.
func WithCodecFactory(f func(encoding string) (Codec, error)) Option {
	return func(p *Pipeline) { p.newCodec = f }
}

// New creates a pipeline with the given dependencies.
func New(st store.Store, extractor *extract.Extractor, opts ...Option) *Pipeline {
	p := &Pipeline{
		store:     st,
		extractor: extractor,
		newCodec: func(encoding string) (Codec, error) {
			return token.NewCodec(encoding)
		},
		codecs: make(map[string]Codec),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// codec returns the loaded codec for encoding, loading it on first use.
func (p *Pipeline) codec(encoding string) (Codec, error) {
	p.codecMu.Lock()
	defer p.codecMu.Unlock()
	if c, ok := p.codecs[encoding]; ok {
		return c, nil
	}
	c, err := p.newCodec(encoding)
	if err != nil {
		return nil, err
	}
	p.codecs[encoding] = c
	return c, nil
}

// Process runs filename's bytes through extract, clean, encode, and chunk,
// stores the result keyed by content hash, and returns it. Re-processing
// identical bytes with identical options returns the stored result;
// different options replace it.
func (p *Pipeline) Process(ctx context.Context, filename string, data []byte, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	id := docid.FromBytes(data)
	if doc, err := p.store.GetDocument(ctx, id); err == nil {
		if doc.ChunkSize == opts.ChunkSize && doc.Encoding == opts.Encoding {
			chunks, err := p.store.GetChunks(ctx, id)
			if err != nil {
				return nil, fmt.Errorf("failed to load chunks: %w", err)
			}
			if p.logger != nil {
				p.logger.Debug("pipeline cache hit", zap.String("doc_id", id))
			}
			return &Result{Document: doc, Chunks: chunks, Cached: true}, nil
		}
	}

	extractStart := time.Now()
	extracted, err := p.extractor.ExtractBytes(data, strings.ToLower(filepath.Ext(filename)))
	if err != nil {
		return nil, fmt.Errorf("extract content: %w", err)
	}
	text := extract.Clean(extracted.Text)
	extractMS := time.Since(extractStart).Milliseconds()

	codec, err := p.codec(opts.Encoding)
	if err != nil {
		return nil, err
	}

	encodeStart := time.Now()
	tokens := codec.Encode(text)
	chunks, err := chunker.New(codec).Split(tokens, opts.ChunkSize)
	if err != nil {
		return nil, err
	}
	encodeMS := time.Since(encodeStart).Milliseconds()

	doc := &models.Document{
		ID:           id,
		Filename:     filepath.Base(filename),
		PageCount:    extracted.Pages,
		CharCount:    utf8.RuneCountInString(text),
		TokenCount:   len(tokens),
		WordEstimate: int(float64(len(tokens)) * wordsPerToken),
		ChunkSize:    opts.ChunkSize,
		Encoding:     opts.Encoding,
		ChunkCount:   len(chunks),
		ExtractMS:    extractMS,
		EncodeMS:     encodeMS,
	}
	rows := make([]*models.Chunk, len(chunks))
	offset := 0
	for i, ch := range chunks {
		rows[i] = &models.Chunk{
			ID:         fmt.Sprintf("%s_%s", id, uuid.New().String()[:8]),
			DocumentID: id,
			ChunkIndex: ch.Index,
			TokenStart: offset,
			TokenEnd:   offset + ch.TokenCount,
			TokenCount: ch.TokenCount,
			WordCount:  ch.WordCount,
			Content:    ch.Text,
		}
		offset += ch.TokenCount
	}

	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	_ = p.store.DeleteDocument(ctx, id)
	if err := p.store.CreateDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}
	if err := p.store.BatchCreateChunks(ctx, rows); err != nil {
		return nil, fmt.Errorf("failed to store chunks: %w", err)
	}

	if p.logger != nil {
		p.logger.Debug("pipeline processed document",
			zap.String("doc_id", id),
			zap.String("filename", doc.Filename),
			zap.Int("tokens", doc.TokenCount),
			zap.Int("chunks", doc.ChunkCount))
	}
	return &Result{Document: doc, Chunks: rows}, nil
}

// ProcessFile reads a file from path and processes it. If allowedExts is
// non-empty, the file's extension must be in the list (case-insensitive).
func (p *Pipeline) ProcessFile(ctx context.Context, path string, allowedExts []string, opts Options) (*Result, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("absolute path: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(absPath))
	if len(allowedExts) > 0 && !extensionAllowed(ext, allowedExts) {
		return nil, fmt.Errorf("extension %q not in allowed list", ext)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("not a regular file: %s", absPath)
	}
	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return p.Process(ctx, filepath.Base(absPath), data, opts)
}

// ProcessDirectory walks dir and processes every regular file whose
// extension is in allowedExts. Returns how many files were processed.
func (p *Pipeline) ProcessDirectory(ctx context.Context, dir string, allowedExts []string, opts Options) (n int, err error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return 0, fmt.Errorf("absolute path: %w", err)
	}
	info, err := os.Stat(absDir)
	if err != nil {
		return 0, fmt.Errorf("stat directory: %w", err)
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("not a directory: %s", absDir)
	}
	err = filepath.WalkDir(absDir, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if len(allowedExts) > 0 && !extensionAllowed(ext, allowedExts) {
			return nil
		}
		// Resolve symlinks so only regular files are processed
		finfo, statErr := os.Stat(path)
		if statErr != nil {
			return nil
		}
		if !finfo.Mode().IsRegular() {
			return nil
		}
		if _, procErr := p.ProcessFile(ctx, path, allowedExts, opts); procErr != nil {
			return procErr
		}
		n++
		return nil
	})
	return n, err
}

func extensionAllowed(ext string, allowed []string) bool {
	extNorm := strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, a := range allowed {
		if strings.ToLower(strings.TrimPrefix(a, ".")) == extNorm {
			return true
		}
	}
	return false
}
