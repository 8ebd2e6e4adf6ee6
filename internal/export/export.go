// Package export renders a document's chunks into a single annotated file.
package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hyperjump/wakeru/internal/models"
	"github.com/hyperjump/wakeru/pkg/utils"
)

// Render joins all chunks into one text document. Each chunk is introduced
// by a header line carrying its 1-based number and token count, so the
// boundaries stay visible after the file leaves the tool.
func Render(chunks []*models.Chunk) string {
	var b strings.Builder
	for i, ch := range chunks {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "=== CHUNK %d (%s tokens) ===\n", ch.ChunkIndex+1, utils.FormatCount(ch.TokenCount))
		b.WriteString(ch.Content)
	}
	return b.String()
}

// Filename derives the download filename from the source document name:
// the extension is replaced with .txt and an all_chunks_ prefix is added.
func Filename(source string) string {
	base := strings.TrimSuffix(source, filepath.Ext(source))
	if base == "" {
		base = "document"
	}
	return "all_chunks_" + base + ".txt"
}
