package chunker

import (
	"unicode"

	"github.com/clipperhouse/uax29/words"
)

// CountWords estimates the number of words in text using Unicode word
// segmentation. Segments with no letter or digit (whitespace, punctuation)
// are not counted. Decoded chunk text can start or end mid-word, so the
// count is an estimate, not an exact figure.
func CountWords(text string) int {
	if text == "" {
		return 0
	}
	count := 0
	for _, seg := range words.SegmentAll([]byte(text)) {
		if wordlike(seg) {
			count++
		}
	}
	return count
}

func wordlike(seg []byte) bool {
	for _, r := range string(seg) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
