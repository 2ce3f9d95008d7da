package handler

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Shivanand-hulikatti/club-booking/internal/model"
	"github.com/Shivanand-hulikatti/club-booking/internal/repository"
	"github.com/gorilla/csrf"
)

//go:embed templates static
var assets embed.FS

// pageData is the view model shared by every page template.
type pageData struct {
	Title        string
	Message      string
	Club         *model.Club
	Competition  *model.Competition
	Competitions []model.Competition
	Clubs        []model.Club
	Now          time.Time
	CSRFField    template.HTML
}

var funcs = template.FuncMap{
	"date":       func(t time.Time) string { return t.Format(repository.DateLayout) },
	"pathEscape": url.PathEscape,
	"isError": func(msg string) bool {
		return strings.HasPrefix(msg, "Error") || strings.HasPrefix(msg, "Something went wrong")
	},
}

var pages = mustParsePages("index", "welcome", "booking", "points")

func mustParsePages(names ...string) map[string]*template.Template {
	out := make(map[string]*template.Template, len(names))
	for _, name := range names {
		out[name] = template.Must(template.New(name).Funcs(funcs).ParseFS(assets,
			"templates/layout.html",
			"templates/"+name+".html",
		))
	}
	return out
}

func staticFiles() http.FileSystem {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

// render executes into a buffer first so a template failure still yields a
// clean 500.
func (h *ClubHandler) render(w http.ResponseWriter, r *http.Request, status int, name string, data pageData) {
	tpl, ok := pages[name]
	if !ok {
		h.internalError(w, r, fmt.Errorf("unknown template %q", name))
		return
	}
	data.CSRFField = csrf.TemplateField(r)

	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		h.internalError(w, r, fmt.Errorf("render %s: %w", name, err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
