// Package docid derives deterministic document IDs from file content.
package docid

import (
	"crypto/sha256"
	"encoding/hex"
)

const prefix = "doc_"

// hexLen keeps IDs short enough to paste into a shell while leaving
// collisions out of practical reach for a session-sized store.
const hexLen = 16

// FromBytes returns a stable document ID for the given content. The same
// bytes always yield the same ID, so re-uploading a file addresses the
// result already stored for it.
func FromBytes(content []byte) string {
	hash := sha256.Sum256(content)
	return prefix + hex.EncodeToString(hash[:])[:hexLen]
}
