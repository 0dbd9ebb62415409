package db

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Laisky/errors/v2"
	"go.uber.org/zap"

	"github.com/BorisDmv/my-blog/internal/models"
)

const recordExt = ".json"

// FileStore keeps one JSON file per post in a single directory. The file
// stem is the post identifier.
type FileStore struct {
	dir    string
	logger *zap.Logger
	stamps *stamper
	locks  sync.Map // id -> *sync.Mutex
}

type FileStoreOption func(*FileStore)

// WithClock replaces the time source used for new identifiers.
func WithClock(now func() time.Time) FileStoreOption {
	return func(s *FileStore) {
		s.stamps = newStamper(now)
	}
}

// NewFileStore opens dir as a post store, creating it when missing.
func NewFileStore(dir string, logger *zap.Logger, opts ...FileStoreOption) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("post directory is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create post directory `%s`", dir)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &FileStore{
		dir:    dir,
		logger: logger,
		stamps: newStamper(nil),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Dir returns the directory holding the records.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+recordExt)
}

func (s *FileStore) lock(id string) func() {
	v, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

type fileRecord struct {
	Title   *string         `json:"title"`
	Date    models.PostDate `json:"date"`
	Content string          `json:"content"`
}

func (s *FileStore) Load(ctx context.Context, id string) (*models.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	unlock := s.lock(id)
	data, err := os.ReadFile(s.path(id))
	unlock()
	if err != nil {
		switch {
		case os.IsNotExist(err):
			s.logger.Info("post file does not exist", zap.String("id", id))
			return nil, errors.Wrapf(ErrNotFound, "load `%s`", id)
		case os.IsPermission(err):
			return nil, errors.Wrapf(err, "read post `%s`", id)
		default:
			// an unreadable record, such as a directory named like one
			s.logger.Warn("cannot read post file", zap.String("id", id), zap.Error(err))
			return nil, errors.Wrapf(ErrNotFound, "read `%s`: %v", id, err)
		}
	}

	var rec fileRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		s.logger.Warn("cannot decode post file", zap.String("id", id), zap.Error(err))
		return nil, errors.Wrapf(ErrCorrupt, "decode `%s`: %v", id, err)
	}
	if rec.Title == nil {
		s.logger.Warn("post file has no title", zap.String("id", id))
		return nil, errors.Wrapf(ErrCorrupt, "decode `%s`: missing title", id)
	}

	return &models.Post{
		Title:   *rec.Title,
		Date:    rec.Date,
		Content: rec.Content,
	}, nil
}

func (s *FileStore) Create(ctx context.Context, post models.Post) (string, error) {
	id := s.stamps.newID(post.Title)
	if err := s.Update(ctx, id, post); err != nil {
		return "", err
	}
	return id, nil
}

// Update overwrites the record for id with post, creating it if needed.
func (s *FileStore) Update(ctx context.Context, id string, post models.Post) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(post)
	if err != nil {
		return errors.Wrapf(err, "encode post `%s`", id)
	}

	unlock := s.lock(id)
	defer unlock()
	if err := os.WriteFile(s.path(id), data, 0o644); err != nil {
		return errors.Wrapf(err, "write post `%s`", id)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	unlock := s.lock(id)
	defer unlock()
	if err := os.Remove(s.path(id)); err != nil {
		if os.IsNotExist(err) {
			return errors.Wrapf(ErrNotFound, "delete `%s`", id)
		}
		return errors.Wrapf(err, "delete post `%s`", id)
	}
	return nil
}

// IDs lists the identifiers of every record file in directory order.
func (s *FileStore) IDs(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrapf(err, "read post directory `%s`", s.dir)
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, recordExt) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, recordExt))
	}
	return ids, nil
}
