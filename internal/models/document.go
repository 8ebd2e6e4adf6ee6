// Package models defines core data structures for documents and chunks.
package models

import "time"

// Document represents one processed upload with its derived metrics.
// WordEstimate is the 0.75-words-per-token approximation shown alongside
// the exact token count.
type Document struct {
	ID           string    `json:"id" db:"id"`
	Filename     string    `json:"filename" db:"filename"`
	PageCount    int       `json:"page_count,omitempty" db:"page_count"`
	CharCount    int       `json:"char_count" db:"char_count"`
	TokenCount   int       `json:"token_count" db:"token_count"`
	WordEstimate int       `json:"word_estimate" db:"word_estimate"`
	ChunkSize    int       `json:"chunk_size" db:"chunk_size"`
	Encoding     string    `json:"encoding" db:"encoding"`
	ChunkCount   int       `json:"chunk_count" db:"chunk_count"`
	ExtractMS    int64     `json:"extract_ms" db:"extract_ms"`
	EncodeMS     int64     `json:"encode_ms" db:"encode_ms"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Chunk is the stored form of one token window of a document. TokenStart
// and TokenEnd record the window's half-open range in the document's token
// sequence; the IDs themselves are not persisted.
type Chunk struct {
	ID         string    `json:"id" db:"id"`
	DocumentID string    `json:"document_id" db:"document_id"`
	ChunkIndex int       `json:"chunk_index" db:"chunk_index"`
	TokenStart int       `json:"token_start" db:"token_start"`
	TokenEnd   int       `json:"token_end" db:"token_end"`
	TokenCount int       `json:"token_count" db:"token_count"`
	WordCount  int       `json:"word_count" db:"word_count"`
	Content    string    `json:"content" db:"content"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
