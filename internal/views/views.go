// Package views renders the blog pages from templates embedded in the binary.
package views

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/Laisky/errors/v2"

	"github.com/BorisDmv/my-blog/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Page names accepted by Render.
const (
	PageIndex      = "index"
	PagePost       = "post"
	PageAdmin      = "admin"
	PageAdminPost  = "adminPost"
	PageAdminEntry = "adminEntry"
	PageDelete     = "delete"
	PageLogin      = "login"
	PageReset      = "reset"
)

var pageNames = []string{
	PageIndex, PagePost, PageAdmin, PageAdminPost,
	PageAdminEntry, PageDelete, PageLogin, PageReset,
}

// ListPage feeds the public and admin listings.
type ListPage struct {
	PageTitle string
	Posts     []models.ListingEntry
}

// PostPage feeds the single post views.
type PostPage struct {
	Filename string
	Title    string
	Date     string
	Content  string
}

// EntryPage feeds the editor form.
type EntryPage struct {
	Action   string
	Filename string
	Title    string
	Date     string
	Content  string
}

type DeletePage struct {
	Action string
	Title  string
}

// FormPage feeds the login and reset forms.
type FormPage struct {
	Username string
	Error    string
}

type Renderer struct {
	pages map[string]*template.Template
}

func New() (*Renderer, error) {
	funcs := template.FuncMap{"markdown": Markdown}

	r := &Renderer{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, errors.Wrapf(err, "parse template `%s`", name)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render executes the named page into w with the given status. The page is
// buffered first so a template error never produces a half-written page.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, data any) error {
	t, ok := r.pages[name]
	if !ok {
		return errors.Errorf("unknown page `%s`", name)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return errors.Wrapf(err, "execute template `%s`", name)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// Static serves the embedded stylesheet and scripts.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
