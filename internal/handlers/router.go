package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	appmiddleware "github.com/BorisDmv/my-blog/internal/middleware"
	"github.com/BorisDmv/my-blog/internal/views"
)

type RouterOptions struct {
	CorsAllowedOrigins []string
	// LoginLimiter throttles login attempts. Nil disables throttling.
	LoginLimiter *appmiddleware.RateLimiter
	Logger       *zap.Logger
}

// NewRouter wires every public and admin route. Everything under /admin
// requires an authenticated session.
func NewRouter(h *Handler, opts RouterOptions) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	origins := opts.CorsAllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(appmiddleware.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-CSRF-Token"},
		AllowCredentials: false,
		MaxAge:           300,
	}).Handler)

	r.Get("/health", Health)
	r.Handle("/static/*", http.StripPrefix("/static/", views.Static()))

	r.Get("/", h.Index)
	r.Get("/post/{id}", h.ShowPost)

	r.Get("/login", h.LoginForm)
	if opts.LoginLimiter != nil {
		r.With(opts.LoginLimiter.Limit).Post("/login", h.Login)
	} else {
		r.Post("/login", h.Login)
	}
	r.Get("/logout", h.Logout)
	r.Get("/reset-admin", h.ResetForm)
	r.Post("/reset-admin", h.Reset)

	r.Route("/admin", func(r chi.Router) {
		r.Use(appmiddleware.RequireSession(h.sessions))

		r.Get("/", h.AdminIndex)
		r.Get("/new", h.NewForm)
		r.Post("/create", h.Create)
		r.Post("/generate-content", h.GenerateContent)
		r.Get("/edit/{id}", h.EditForm)
		r.Post("/edit/{id}", h.Edit)
		r.Get("/delete/{id}", h.DeleteForm)
		r.Post("/delete/{id}", h.Delete)
		r.Get("/{id}", h.AdminShowPost)
	})

	return r
}
