// Package token wraps tiktoken BPE encodings behind a small codec API.
package token

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is the vocabulary used when the caller does not name one.
const DefaultEncoding = "cl100k_base"

// ErrEncoding is returned for encoding names outside the supported set.
var ErrEncoding = errors.New("unknown encoding")

var encodings = map[string]bool{
	"cl100k_base": true,
	"p50k_base":   true,
	"r50k_base":   true,
}

// Valid reports whether name is a supported encoding.
func Valid(name string) bool {
	return encodings[name]
}

// Supported returns the accepted encoding names in sorted order.
func Supported() []string {
	names := make([]string, 0, len(encodings))
	for name := range encodings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Codec encodes text to token IDs and decodes IDs back to text using one
// tiktoken vocabulary. Loading the vocabulary happens once in NewCodec; a
// constructed Codec is stateless and safe for concurrent use.
type Codec struct {
	name string
	tke  *tiktoken.Tiktoken
}

// NewCodec loads the named BPE vocabulary. An empty name selects
// DefaultEncoding.
func NewCodec(encoding string) (*Codec, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	if !Valid(encoding) {
		return nil, fmt.Errorf("%w %q, valid: %s", ErrEncoding, encoding, strings.Join(Supported(), ", "))
	}
	tke, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("load encoding %s: %w", encoding, err)
	}
	return &Codec{name: encoding, tke: tke}, nil
}

// Name returns the encoding name the codec was built with.
func (c *Codec) Name() string {
	return c.name
}

// Encode converts text into token IDs.
func (c *Codec) Encode(text string) []int {
	return c.tke.Encode(text, nil, nil)
}

// Decode converts token IDs back into text. The error return exists for
// the chunker's Decoder contract; tiktoken decoding itself cannot fail.
func (c *Codec) Decode(ids []int) (string, error) {
	return c.tke.Decode(ids), nil
}
