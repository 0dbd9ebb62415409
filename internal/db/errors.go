package db

import (
	"context"

	"github.com/Laisky/errors/v2"

	"github.com/BorisDmv/my-blog/internal/models"
)

var (
	// ErrNotFound is returned when no record exists for an identifier.
	ErrNotFound = errors.New("post not found")
	// ErrCorrupt is returned when a record exists but cannot be decoded.
	// It matches ErrNotFound so callers that do not care see a missing post.
	ErrCorrupt = errors.Wrap(ErrNotFound, "post is corrupt")
)

// PostStore is implemented by every content backend.
type PostStore interface {
	Load(ctx context.Context, id string) (*models.Post, error)
	Create(ctx context.Context, post models.Post) (string, error)
	Update(ctx context.Context, id string, post models.Post) error
	Delete(ctx context.Context, id string) error
	IDs(ctx context.Context) ([]string, error)
}
