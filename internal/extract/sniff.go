package extract

import "github.com/gabriel-vasile/mimetype"

// Kind classifies upload content by its magic bytes.
type Kind int

const (
	KindUnknown Kind = iota
	KindPDF
	KindText
)

// Sniff detects what the content actually is, regardless of filename.
// Anything in the text/plain lineage (markdown, csv, source code) counts
// as text.
func Sniff(content []byte) Kind {
	m := mimetype.Detect(content)
	if m.Is("application/pdf") {
		return KindPDF
	}
	for t := m; t != nil; t = t.Parent() {
		if t.Is("text/plain") {
			return KindText
		}
	}
	return KindUnknown
}

// Describe returns the detected MIME type, for error messages.
func Describe(content []byte) string {
	return mimetype.Detect(content).String()
}
