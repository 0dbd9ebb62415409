// Package listing turns the contents of a post store into listing rows.
package listing

import (
	"context"

	"github.com/Laisky/errors/v2"

	"github.com/BorisDmv/my-blog/internal/db"
	"github.com/BorisDmv/my-blog/internal/models"
)

// Link prefixes for the public and the admin listing.
const (
	NamespacePublic = "post"
	NamespaceAdmin  = "admin"
)

// Source is the read side of a post store.
type Source interface {
	Load(ctx context.Context, id string) (*models.Post, error)
	IDs(ctx context.Context) ([]string, error)
}

// Build loads every post in src and returns one entry per readable post, in
// the order src enumerates them. Missing or corrupt posts are left out.
func Build(ctx context.Context, src Source, namespace string) ([]models.ListingEntry, error) {
	ids, err := src.IDs(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "enumerate posts")
	}

	entries := make([]models.ListingEntry, 0, len(ids))
	for _, id := range ids {
		post, err := src.Load(ctx, id)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				continue
			}
			return nil, errors.Wrapf(err, "load `%s`", id)
		}

		date := post.Date.String()
		if date == "" {
			date = models.NoDate
		}
		entries = append(entries, models.ListingEntry{
			ID:    id,
			Title: post.Title,
			Date:  date,
			Link:  "/" + namespace + "/" + id,
		})
	}
	return entries, nil
}
