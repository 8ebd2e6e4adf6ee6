package extract

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestExtractBytes_plain(t *testing.T) {
	e := NewExtractor()
	content := []byte("Hello world\nLine 2")
	got, err := e.ExtractBytes(content, ".txt")
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	if got.Text != "Hello world\nLine 2" {
		t.Errorf("got %q", got.Text)
	}
	if got.Pages != 0 {
		t.Errorf("plain text should have no page count, got %d", got.Pages)
	}
}

func TestExtractBytes_plainUTF8(t *testing.T) {
	e := NewExtractor()
	content := []byte("caf\xc3\xa9") // valid UTF-8
	got, err := e.ExtractBytes(content, ".md")
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	if got.Text != "café" {
		t.Errorf("got %q", got.Text)
	}
}

func TestExtractBytes_plainInvalidUTF8(t *testing.T) {
	e := NewExtractor()
	content := []byte("hello\x80world") // invalid UTF-8
	got, err := e.ExtractBytes(content, ".txt")
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	if got.Text != "hello�world" {
		t.Errorf("got %q", got.Text)
	}
}

// minimalPDF hand-builds a PDF with a valid xref table and zero pages,
// enough for the parser to open it and find no text.
func minimalPDF() []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, 2)
	write := func(n int, body string) {
		offsets[n-1] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", n, body)
	}
	write(1, "<< /Type /Catalog /Pages 2 0 R >>")
	write(2, "<< /Type /Pages /Kids [] /Count 0 >>")
	xref := buf.Len()
	buf.WriteString("xref\n0 3\n0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	buf.WriteString("trailer\n<< /Size 3 /Root 1 0 R >>\nstartxref\n")
	fmt.Fprintf(&buf, "%d\n%%%%EOF\n", xref)
	return buf.Bytes()
}

func TestExtractBytes_pdfNoText(t *testing.T) {
	e := NewExtractor()
	_, err := e.ExtractBytes(minimalPDF(), ".pdf")
	if !errors.Is(err, ErrNoText) {
		t.Errorf("textless PDF should fail with ErrNoText, got %v", err)
	}
}

func TestExtractBytes_pdfCorrupt(t *testing.T) {
	e := NewExtractor()
	_, err := e.ExtractBytes([]byte("not a pdf at all"), ".pdf")
	if err == nil {
		t.Error("expected error for corrupt PDF")
	}
}

func TestExtractBytes_unknownBytes(t *testing.T) {
	e := NewExtractor()
	png := []byte("\x89PNG\r\n\x1a\n0000000000")
	_, err := e.ExtractBytes(png, ".bin")
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
}

func TestExtractBytes_sniffed(t *testing.T) {
	e := NewExtractor()
	// No usable extension: the bytes decide.
	got, err := e.ExtractBytes([]byte("plain words in a file"), "")
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	if got.Text != "plain words in a file" {
		t.Errorf("got %q", got.Text)
	}
	if _, err := e.ExtractBytes(minimalPDF(), ""); !errors.Is(err, ErrNoText) {
		t.Errorf("sniffed PDF should reach the PDF path, got %v", err)
	}
}

func TestExtract_plainFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.txt")
	if err := os.WriteFile(path, []byte("File content"), 0600); err != nil {
		t.Fatal(err)
	}

	e := NewExtractor()
	got, err := e.Extract(path)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got.Text != "File content" {
		t.Errorf("got %q", got.Text)
	}
}

func TestExtract_nonexistent(t *testing.T) {
	e := NewExtractor()
	_, err := e.Extract("/nonexistent/path/file.pdf")
	if err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestSniff(t *testing.T) {
	if k := Sniff(minimalPDF()); k != KindPDF {
		t.Errorf("PDF bytes: got kind %d", k)
	}
	if k := Sniff([]byte("ordinary prose")); k != KindText {
		t.Errorf("text bytes: got kind %d", k)
	}
	if k := Sniff([]byte("\x89PNG\r\n\x1a\n0000000000")); k != KindUnknown {
		t.Errorf("PNG bytes: got kind %d", k)
	}
}
