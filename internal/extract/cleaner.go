package extract

import (
	"regexp"
	"strings"
)

var (
	excessNewlines = regexp.MustCompile(`\n{3,}`)
	hyphenBreak    = regexp.MustCompile(`([\p{L}\p{N}]+)-\s*\n\s*([\p{L}\p{N}]+)`)
)

// Clean normalizes extracted text for token counting. Academic PDFs come
// out with words hyphenated across line breaks, ragged per-line whitespace,
// and long runs of blank lines; Clean rejoins the broken words, trims each
// line, and reflows the remaining lines as paragraphs.
func Clean(text string) string {
	text = excessNewlines.ReplaceAllString(text, "\n\n")
	text = hyphenBreak.ReplaceAllString(text, "${1}${2}")
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n\n")
}
