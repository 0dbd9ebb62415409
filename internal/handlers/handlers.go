package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/BorisDmv/my-blog/internal/config"
	"github.com/BorisDmv/my-blog/internal/db"
	"github.com/BorisDmv/my-blog/internal/models"
)

// Drafter generates post content for a topic.
type Drafter interface {
	Generate(ctx context.Context, topic string) (string, error)
}

// Sessions reads, starts and ends the client session.
type Sessions interface {
	Get(r *http.Request) models.Session
	Save(w http.ResponseWriter, s models.Session) error
	End(w http.ResponseWriter, r *http.Request)
}

// Renderer renders a named page.
type Renderer interface {
	Render(w http.ResponseWriter, status int, name string, data any) error
}

type Deps struct {
	Store       db.PostStore
	Sessions    Sessions
	Credentials *config.Credentials
	Drafter     Drafter
	Views       Renderer
	Logger      *zap.Logger
	// GenerateTimeout bounds one draft request. Zero means no extra bound.
	GenerateTimeout time.Duration
}

type Handler struct {
	store           db.PostStore
	sessions        Sessions
	creds           *config.Credentials
	drafter         Drafter
	views           Renderer
	logger          *zap.Logger
	generateTimeout time.Duration
}

func New(d Deps) *Handler {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		store:           d.Store,
		sessions:        d.Sessions,
		creds:           d.Credentials,
		drafter:         d.Drafter,
		views:           d.Views,
		logger:          logger,
		generateTimeout: d.GenerateTimeout,
	}
}

// Health answers liveness probes.
func Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) render(w http.ResponseWriter, status int, page string, data any) {
	if err := h.views.Render(w, status, page, data); err != nil {
		h.logger.Error("render page", zap.String("page", page), zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (h *Handler) internalError(w http.ResponseWriter, msg string, err error) {
	h.logger.Error(msg, zap.Error(err))
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

func notFound(w http.ResponseWriter) {
	http.Error(w, "Post not found", http.StatusNotFound)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
