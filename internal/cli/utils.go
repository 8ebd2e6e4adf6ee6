// Package cli provides CLI output formatting for Wakeru.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/hyperjump/wakeru/internal/models"
	"github.com/hyperjump/wakeru/internal/pipeline"
	"github.com/hyperjump/wakeru/pkg/utils"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputCompact is one tab-separated line per document for piping into other tools.
	OutputCompact OutputFormat = "compact"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat maps an -output flag value to an OutputFormat.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch s {
	case "", "text":
		return OutputText, nil
	case "compact":
		return OutputCompact, nil
	case "json":
		return OutputJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text, compact, or json", s)
	}
}

// previewWords caps the chunk preview shown in text output.
const previewWords = 40

// WriteProcessResult writes the outcome of processing one file to w in the
// given format. Use OutputJSON for parseable output consumable by other apps.
func WriteProcessResult(w io.Writer, result *pipeline.Result, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case OutputCompact:
		writeDocumentLine(w, result.Document)
		return nil
	default:
		writeProcessResultText(w, result)
		return nil
	}
}

func writeProcessResultText(w io.Writer, result *pipeline.Result) {
	writeDocumentHeader(w, result.Document, result.Cached)
	fmt.Fprintf(w, "Timing:      extract %dms, encode %dms\n", result.Document.ExtractMS, result.Document.EncodeMS)
	for _, chunk := range result.Chunks {
		writeOneChunk(w, chunk)
	}
	fmt.Fprintln(w)
}

// WriteDocument writes one stored document with its chunks.
func WriteDocument(w io.Writer, doc *models.Document, chunks []*models.Chunk, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Document *models.Document `json:"document"`
			Chunks   []*models.Chunk  `json:"chunks"`
		}{doc, chunks})
	case OutputCompact:
		writeDocumentLine(w, doc)
		return nil
	default:
		writeDocumentHeader(w, doc, false)
		fmt.Fprintf(w, "Created:     %s\n", doc.CreatedAt.Format("2006-01-02 15:04:05"))
		for _, chunk := range chunks {
			writeOneChunk(w, chunk)
		}
		fmt.Fprintln(w)
		return nil
	}
}

// WriteDocumentList writes stored document summaries, newest first as
// returned by the store.
func WriteDocumentList(w io.Writer, docs []*models.Document, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(docs)
	case OutputCompact:
		for _, doc := range docs {
			writeDocumentLine(w, doc)
		}
		return nil
	default:
		writeDocumentListText(w, docs)
		return nil
	}
}

func writeDocumentHeader(w io.Writer, doc *models.Document, cached bool) {
	header := color.New(color.FgCyan, color.Bold)
	if cached {
		header.Fprintf(w, "\n%s (cached)\n", doc.Filename)
	} else {
		header.Fprintf(w, "\n%s\n", doc.Filename)
	}
	fmt.Fprintf(w, "ID:          %s\n", doc.ID)
	if doc.PageCount > 0 {
		fmt.Fprintf(w, "Pages:       %d\n", doc.PageCount)
	}
	fmt.Fprintf(w, "Characters:  %s\n", utils.FormatCount(doc.CharCount))
	fmt.Fprintf(w, "Tokens:      %s (~%s words)\n",
		utils.FormatCount(doc.TokenCount), utils.FormatCount(doc.WordEstimate))
	fmt.Fprintf(w, "Chunks:      %d x %s (%s)\n",
		doc.ChunkCount, utils.FormatCount(doc.ChunkSize), doc.Encoding)
}

func writeOneChunk(w io.Writer, chunk *models.Chunk) {
	fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
	fmt.Fprintf(w, "Chunk %d | %s tokens | ~%s words\n",
		chunk.ChunkIndex+1, utils.FormatCount(chunk.TokenCount), utils.FormatCount(chunk.WordCount))
	fmt.Fprintf(w, "%s\n", TruncateWords(chunk.Content, previewWords))
}

func writeDocumentLine(w io.Writer, doc *models.Document) {
	fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\n",
		doc.ID, doc.TokenCount, doc.ChunkCount, doc.Encoding, doc.Filename)
}

func writeDocumentListText(w io.Writer, docs []*models.Document) {
	if len(docs) == 0 {
		fmt.Fprintln(w, "No documents stored.")
		return
	}
	fmt.Fprintf(w, "\n%d document(s)\n\n", len(docs))
	fmt.Fprintf(w, "%-22s %10s %7s %-17s %s\n", "ID", "TOKENS", "CHUNKS", "CREATED", "FILENAME")
	for _, doc := range docs {
		fmt.Fprintf(w, "%-22s %10s %7d %-17s %s\n",
			doc.ID,
			utils.FormatCount(doc.TokenCount),
			doc.ChunkCount,
			doc.CreatedAt.Format("2006-01-02 15:04"),
			doc.Filename,
		)
	}
}

// PrintProcessResult prints a process result to stdout in text format
// (backward compatible).
func PrintProcessResult(result *pipeline.Result) {
	_ = WriteProcessResult(os.Stdout, result, OutputText)
}

// TruncateWords returns up to maxWords from the space-separated string.
func TruncateWords(s string, maxWords int) string {
	words := strings.Fields(s)
	if len(words) <= maxWords {
		return s
	}
	return strings.Join(words[:maxWords], " ") + "..."
}
