package handlers

import (
	"net/http"
	"strings"

	"github.com/Laisky/errors/v2"
	"go.uber.org/zap"

	"github.com/BorisDmv/my-blog/internal/config"
	"github.com/BorisDmv/my-blog/internal/models"
	"github.com/BorisDmv/my-blog/internal/views"
)

const loginFailedMsg = "Wrong username or password"

func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, views.PageLogin, views.FormPage{})
}

// Login checks the submitted credentials against the admin identity. The
// form names the password field pwd; password is accepted too.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	username := r.PostFormValue("username")
	password := r.PostFormValue("pwd")
	if password == "" {
		password = r.PostFormValue("password")
	}

	if !h.creds.Verify(username, password) {
		h.logger.Info("login failed", zap.String("username", username), zap.String("remote_addr", r.RemoteAddr))
		h.render(w, http.StatusOK, views.PageLogin, views.FormPage{Error: loginFailedMsg})
		return
	}

	if err := h.sessions.Save(w, models.Session{Authenticated: true}); err != nil {
		h.internalError(w, "save session", err)
		return
	}
	http.Redirect(w, r, "/admin", http.StatusFound)
}

// Logout ends the current session. A copy of its cookie kept by the client
// no longer authenticates.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.End(w, r)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *Handler) ResetForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, views.PageReset, views.FormPage{})
}

// Reset replaces the admin identity, both in the credentials file and in
// memory, and sends the client to the login page.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")

	if err := h.creds.Reset(username, password); err != nil {
		if errors.Is(err, config.ErrEmptyCredentials) {
			h.render(w, http.StatusOK, views.PageReset, views.FormPage{
				Username: username,
				Error:    "Username and password are required",
			})
			return
		}
		h.internalError(w, "reset credentials", err)
		return
	}

	h.logger.Info("admin credentials updated", zap.String("username", username))
	http.Redirect(w, r, "/login", http.StatusFound)
}
