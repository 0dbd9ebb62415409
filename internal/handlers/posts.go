package handlers

import (
	"net/http"
	"strings"

	"github.com/Laisky/errors/v2"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/BorisDmv/my-blog/internal/db"
	"github.com/BorisDmv/my-blog/internal/listing"
	"github.com/BorisDmv/my-blog/internal/models"
	"github.com/BorisDmv/my-blog/internal/views"
)

// Index renders the public listing.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	h.renderListing(w, r, listing.NamespacePublic, "My Blog Posts", views.PageIndex)
}

// AdminIndex renders the admin listing.
func (h *Handler) AdminIndex(w http.ResponseWriter, r *http.Request) {
	h.renderListing(w, r, listing.NamespaceAdmin, "Admin Panel", views.PageAdmin)
}

func (h *Handler) renderListing(w http.ResponseWriter, r *http.Request, namespace, title, page string) {
	entries, err := listing.Build(r.Context(), h.store, namespace)
	if err != nil {
		h.internalError(w, "build listing", err)
		return
	}
	h.render(w, http.StatusOK, page, views.ListPage{PageTitle: title, Posts: entries})
}

// loadPost loads the post named by the id URL parameter. It writes the
// not-found or error response itself and returns false when there is
// nothing to render.
func (h *Handler) loadPost(w http.ResponseWriter, r *http.Request) (string, *models.Post, bool) {
	id := chi.URLParam(r, "id")
	post, err := h.store.Load(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			notFound(w)
			return id, nil, false
		}
		h.internalError(w, "load post", err)
		return id, nil, false
	}
	return id, post, true
}

func postPage(id string, post *models.Post) views.PostPage {
	return views.PostPage{
		Filename: id,
		Title:    post.Title,
		Date:     post.Date.String(),
		Content:  post.Content,
	}
}

// ShowPost renders one post publicly.
func (h *Handler) ShowPost(w http.ResponseWriter, r *http.Request) {
	id, post, ok := h.loadPost(w, r)
	if !ok {
		return
	}
	h.render(w, http.StatusOK, views.PagePost, postPage(id, post))
}

// AdminShowPost renders one post with admin controls.
func (h *Handler) AdminShowPost(w http.ResponseWriter, r *http.Request) {
	id, post, ok := h.loadPost(w, r)
	if !ok {
		return
	}
	h.render(w, http.StatusOK, views.PageAdminPost, postPage(id, post))
}

// NewForm renders an empty editor.
func (h *Handler) NewForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, views.PageAdminEntry, views.EntryPage{Action: "/admin/create"})
}

// EditForm renders the editor filled with an existing post.
func (h *Handler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, post, ok := h.loadPost(w, r)
	if !ok {
		return
	}
	h.render(w, http.StatusOK, views.PageAdminEntry, views.EntryPage{
		Action:   "/admin/edit/" + id,
		Filename: id,
		Title:    post.Title,
		Date:     post.Date.String(),
		Content:  post.Content,
	})
}

// postFromForm reads the editor fields. Missing fields become empty strings.
func postFromForm(r *http.Request) models.Post {
	return models.Post{
		Title:   r.PostFormValue("title"),
		Date:    models.PostDate(r.PostFormValue("date")),
		Content: r.PostFormValue("content"),
	}
}

// Create stores a new post and shows it in the admin view.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	id, err := h.store.Create(r.Context(), postFromForm(r))
	if err != nil {
		h.internalError(w, "create post", err)
		return
	}
	h.logger.Info("post created", zap.String("id", id))
	http.Redirect(w, r, "/admin/"+id, http.StatusFound)
}

// Edit overwrites a post with the submitted fields. The editor posts the
// identifier back as the filename field; the URL identifier is used when the
// field is absent.
func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	post := postFromForm(r)
	id := strings.TrimSpace(r.PostFormValue("filename"))
	if id == "" {
		id = chi.URLParam(r, "id")
	}

	if err := h.store.Update(r.Context(), id, post); err != nil {
		h.internalError(w, "update post", err)
		return
	}
	h.logger.Info("post updated", zap.String("id", id))
	http.Redirect(w, r, "/admin/"+id, http.StatusFound)
}

// DeleteForm renders the delete confirmation page.
func (h *Handler) DeleteForm(w http.ResponseWriter, r *http.Request) {
	id, post, ok := h.loadPost(w, r)
	if !ok {
		return
	}
	h.render(w, http.StatusOK, views.PageDelete, views.DeletePage{
		Action: "/admin/delete/" + id,
		Title:  post.Title,
	})
}

// Delete removes a post when the form confirms with delete=yes and otherwise
// goes back to the post.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if r.PostFormValue("delete") != "yes" {
		http.Redirect(w, r, "/admin/"+id, http.StatusFound)
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			http.Error(w, "File not found", http.StatusNotFound)
			return
		}
		h.internalError(w, "delete post", err)
		return
	}
	h.logger.Info("post deleted", zap.String("id", id))
	http.Redirect(w, r, "/admin", http.StatusFound)
}
