// Package extract provides text extraction from uploaded documents.
package extract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// ErrNoText means the document contained no extractable text, e.g. a PDF
// made of scanned page images.
var ErrNoText = errors.New("no extractable text")

// ErrUnsupported means the content is neither a PDF nor plain text.
var ErrUnsupported = errors.New("unsupported file type")

// Result holds extracted text plus source facts callers report to users.
// Pages is zero for non-paginated sources.
type Result struct {
	Text  string
	Pages int
}

// Extractor extracts plain text from document files.
type Extractor struct{}

// NewExtractor returns a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract reads the file at path and returns its text content.
func (e *Extractor) Extract(path string) (*Result, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(path))
	return e.ExtractBytes(content, ext)
}

// ExtractBytes extracts text from content based on the given extension.
// ext should include the leading dot (e.g. ".pdf"). PDFs are parsed; plain
// text (.txt, .md) is returned as-is, UTF-8 validated. An empty or unknown
// extension falls back to content sniffing; content that is neither PDF
// nor text fails with ErrUnsupported.
func (e *Extractor) ExtractBytes(content []byte, ext string) (*Result, error) {
	switch ext {
	case ".pdf":
		return extractPDF(content)
	case ".txt", ".md", ".text":
		return extractPlain(content)
	default:
		switch Sniff(content) {
		case KindPDF:
			return extractPDF(content)
		case KindText:
			return extractPlain(content)
		}
		return nil, fmt.Errorf("%w: detected %s", ErrUnsupported, Describe(content))
	}
}

// extractPlain returns content as string, validating it is valid UTF-8.
// Invalid UTF-8 sequences are replaced with the replacement character.
func extractPlain(content []byte) (*Result, error) {
	text := string(content)
	if !utf8.Valid(content) {
		text = strings.ToValidUTF8(text, "�")
	}
	return &Result{Text: text}, nil
}
