package listing

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/Laisky/errors/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BorisDmv/my-blog/internal/db"
	"github.com/BorisDmv/my-blog/internal/models"
)

func TestBuild_AllValidRecords(t *testing.T) {
	ctx := context.Background()
	store, err := db.NewFileStore(t.TempDir(), nil)
	require.NoError(t, err)

	titles := map[string]string{}
	for i := 0; i < 5; i++ {
		title := fmt.Sprintf("Post %d", i)
		id, err := store.Create(ctx, models.Post{Title: title, Date: "2024-01-01"})
		require.NoError(t, err)
		titles[id] = title
	}
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "README.md"), []byte("x"), 0o644))

	entries, err := Build(ctx, store, NamespacePublic)
	require.NoError(t, err)
	require.Len(t, entries, 5)
	for _, e := range entries {
		assert.Equal(t, titles[e.ID], e.Title)
		assert.Equal(t, "/post/"+e.ID, e.Link)
		assert.Equal(t, "2024-01-01", e.Date)
	}
}

func TestBuild_SkipsCorruptAndFillsDate(t *testing.T) {
	ctx := context.Background()
	store, err := db.NewFileStore(t.TempDir(), nil)
	require.NoError(t, err)

	require.NoError(t, store.Update(ctx, "undated", models.Post{Title: "Undated"}))
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "broken.json"), []byte("{"), 0o644))

	entries, err := Build(ctx, store, NamespaceAdmin)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.ListingEntry{
		ID:    "undated",
		Title: "Undated",
		Date:  models.NoDate,
		Link:  "/admin/undated",
	}, entries[0])
}

func TestBuild_EmptyStore(t *testing.T) {
	store, err := db.NewFileStore(t.TempDir(), nil)
	require.NoError(t, err)

	entries, err := Build(context.Background(), store, NamespacePublic)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

type failingSource struct {
	idsErr  error
	loadErr error
}

func (f failingSource) IDs(context.Context) ([]string, error) {
	if f.idsErr != nil {
		return nil, f.idsErr
	}
	return []string{"x"}, nil
}

func (f failingSource) Load(context.Context, string) (*models.Post, error) {
	return nil, f.loadErr
}

func TestBuild_PropagatesStoreErrors(t *testing.T) {
	_, err := Build(context.Background(), failingSource{idsErr: errors.New("disk gone")}, NamespacePublic)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk gone")

	_, err = Build(context.Background(), failingSource{loadErr: errors.New("permission denied")}, NamespacePublic)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")
}
