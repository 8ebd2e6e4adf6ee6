// Package store defines the persistence interface for processed documents.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/hyperjump/wakeru/internal/models"
)

// ErrNotFound is returned when a document or chunk does not exist.
var ErrNotFound = errors.New("not found")

// Store defines document and chunk persistence operations. Results live
// here between the process call that produced them and the copy, export,
// or delete calls that consume them.
type Store interface {
	// Document operations
	CreateDocument(ctx context.Context, doc *models.Document) error
	GetDocument(ctx context.Context, id string) (*models.Document, error)
	DeleteDocument(ctx context.Context, id string) error
	ListDocuments(ctx context.Context, offset, limit int) ([]*models.Document, error)

	// Chunk operations
	GetChunks(ctx context.Context, docID string) ([]*models.Chunk, error)
	GetChunk(ctx context.Context, docID string, index int) (*models.Chunk, error)
	BatchCreateChunks(ctx context.Context, chunks []*models.Chunk) error

	// Stats
	CountDocuments(ctx context.Context) (int64, error)
	CountChunks(ctx context.Context) (int64, error)
	SumTokens(ctx context.Context) (int64, error)

	// Retention
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)

	Close() error
}
