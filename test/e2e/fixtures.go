// Package e2e provides end-to-end tests; this file builds minimal files for supported input types.
package e2e

import (
	"bytes"
	"fmt"
	"strings"
)

// SupportedFileExtensions is the list of file extensions used in E2E
// file-based tests. Covers plain text (.txt, .md, .text) and PDF. The PDF
// builder emits an uncompressed one-page document, which is the smallest
// input that still runs the real PDF text extraction path.
var SupportedFileExtensions = []string{".txt", ".md", ".text", ".pdf"}

// WriteMinimalFile returns file bytes of the given extension whose extracted
// text contains the words of text. Plain types carry the text verbatim; the
// PDF builder flattens it to a single line, which preserves the word sequence
// but not the line breaks.
func WriteMinimalFile(ext, text string) ([]byte, error) {
	switch ext {
	case ".txt", ".md", ".text":
		return []byte(text), nil
	case ".pdf":
		return minimalTextPDF(text), nil
	default:
		return nil, fmt.Errorf("no fixture builder for %s", ext)
	}
}

// pdfEscaper escapes the three characters with meaning inside a PDF literal
// string.
var pdfEscaper = strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)

// minimalTextPDF hand-builds a one-page PDF whose content stream shows text
// with a single Tj operator. The stream is uncompressed and the xref offsets
// are computed while writing, so the parser can open it and recover the text.
func minimalTextPDF(text string) []byte {
	line := pdfEscaper.Replace(strings.Join(strings.Fields(text), " "))
	stream := fmt.Sprintf("BT /F1 12 Tf (%s) Tj ET", line)

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, 5)
	write := func(n int, body string) {
		offsets[n-1] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", n, body)
	}
	write(1, "<< /Type /Catalog /Pages 2 0 R >>")
	write(2, "<< /Type /Pages /Kids [3 0 R] /Count 1 >>")
	write(3, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 5 0 R >> >> /Contents 4 0 R >>")
	write(4, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	write(5, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)
	return buf.Bytes()
}
