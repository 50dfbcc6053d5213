package handler

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/AchilleasB/school-portal/portal-service/internal/adapters/session"
	"github.com/AchilleasB/school-portal/portal-service/internal/core/domain"
	"github.com/AchilleasB/school-portal/portal-service/internal/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	layoutFile   = "templates/layout.html"
	partialsFile = "templates/partials.html"
)

// PageData is handed to every page template.
type PageData struct {
	Title     string
	Flash     string
	Error     string
	ActiveTab string
	Session   *domain.Session
	Data      any
}

// Renderer holds one parsed template set per page, each sharing the layout
// and the partials.
type Renderer struct {
	pages map[string]*template.Template
}

var templateFuncs = template.FuncMap{
	"date": func(t time.Time) string { return t.UTC().Format(domain.DateLayout) },
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"lower": func(v any) string { return strings.ToLower(fmt.Sprint(v)) },
}

func NewRenderer() (*Renderer, error) {
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, f := range files {
		if f == layoutFile || f == partialsFile {
			continue
		}
		name := strings.TrimSuffix(path.Base(f), ".html")
		t, err := template.New("layout.html").Funcs(templateFuncs).ParseFS(templateFS, layoutFile, partialsFile, f)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", f, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// MustRenderer panics when the embedded templates do not parse.
func MustRenderer() *Renderer {
	r, err := NewRenderer()
	if err != nil {
		panic(err)
	}
	return r
}

// Render writes page with status 200. The pending flash message, if any, is
// consumed.
func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, page string, data PageData) {
	rd.RenderStatus(w, r, http.StatusOK, page, data)
}

// RenderResult renders page with data, or with the client-safe form of err
// and its mapped status when err is non-nil.
func (rd *Renderer) RenderResult(w http.ResponseWriter, r *http.Request, page, title string, data any, err error) {
	if err != nil {
		status, body := statusFor(err)
		if status >= http.StatusInternalServerError {
			logger.LogError("page data failed to load", err, "page", page)
		}
		rd.RenderStatus(w, r, status, page, PageData{Title: title, Error: body.Error})
		return
	}
	rd.Render(w, r, page, PageData{Title: title, Data: data})
}

func (rd *Renderer) RenderStatus(w http.ResponseWriter, r *http.Request, status int, page string, data PageData) {
	t, ok := rd.pages[page]
	if !ok {
		logger.LogError("unknown page template", fmt.Errorf("template %q not found", page))
		http.Error(w, internalErrorMessage, http.StatusInternalServerError)
		return
	}
	if data.Flash == "" {
		data.Flash = session.PopFlash(w, r)
	}
	if data.Session == nil {
		data.Session = session.FromContext(r.Context())
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		logger.LogError("failed to render page", err, "page", page)
		http.Error(w, internalErrorMessage, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
