package db

import (
	"context"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BorisDmv/my-blog/internal/models"
)

// pgxIface is the part of *pgxpool.Pool the store needs.
type pgxIface interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PGStore keeps posts in a Postgres table, keyed by the same identifiers
// the file store uses.
type PGStore struct {
	pool   pgxIface
	stamps *stamper
}

func NewPGStore(ctx context.Context, databaseURL string) (*PGStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "connect postgres")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "ping postgres")
	}
	return newPGStore(pool, nil), nil
}

func newPGStore(pool pgxIface, now func() time.Time) *PGStore {
	return &PGStore{pool: pool, stamps: newStamper(now)}
}

func (s *PGStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

const postsTableSQL = `CREATE TABLE IF NOT EXISTS posts (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	date TEXT NOT NULL DEFAULT '',
	content TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// EnsureSchema creates the posts table if it does not exist.
func (s *PGStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postsTableSQL); err != nil {
		return errors.Wrap(err, "create posts table")
	}
	return nil
}

func (s *PGStore) Load(ctx context.Context, id string) (*models.Post, error) {
	const query = `
		SELECT title, date, content
		FROM posts
		WHERE id = $1
	`
	var (
		post models.Post
		date string
	)
	err := s.pool.QueryRow(ctx, query, id).Scan(&post.Title, &date, &post.Content)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.Wrapf(ErrNotFound, "load `%s`", id)
		}
		return nil, errors.Wrapf(err, "get post `%s`", id)
	}
	post.Date = models.PostDate(date)
	return &post, nil
}

func (s *PGStore) Create(ctx context.Context, post models.Post) (string, error) {
	const query = `
		INSERT INTO posts (id, title, date, content)
		VALUES ($1, $2, $3, $4)
	`
	id := s.stamps.newID(post.Title)
	if _, err := s.pool.Exec(ctx, query, id, post.Title, post.Date.String(), post.Content); err != nil {
		return "", errors.Wrap(err, "create post")
	}
	return id, nil
}

func (s *PGStore) Update(ctx context.Context, id string, post models.Post) error {
	const query = `
		INSERT INTO posts (id, title, date, content)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET title = EXCLUDED.title, date = EXCLUDED.date, content = EXCLUDED.content
	`
	if _, err := s.pool.Exec(ctx, query, id, post.Title, post.Date.String(), post.Content); err != nil {
		return errors.Wrapf(err, "update post `%s`", id)
	}
	return nil
}

func (s *PGStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return errors.Wrapf(err, "delete post `%s`", id)
	}
	if tag.RowsAffected() == 0 {
		return errors.Wrapf(ErrNotFound, "delete `%s`", id)
	}
	return nil
}

func (s *PGStore) IDs(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT id FROM posts ORDER BY created_at`)
	if err != nil {
		return nil, errors.Wrap(err, "list posts")
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, errors.Wrap(err, "scan post id")
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "rows error")
	}
	return ids, nil
}
