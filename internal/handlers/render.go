package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"github.com/AnshRaj112/fittrack-backend/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Raw HTML in markdown is escaped since WithUnsafe is not set.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

var funcMap = template.FuncMap{
	"markdown":  renderMarkdown,
	"goalLabel": func(g models.Goal) string { return g.Label() },
	"date":      func(t time.Time) string { return t.Format("Jan 2, 2006") },
	"isoDate":   func(t time.Time) string { return t.Format("2006-01-02") },
	"num": func(v float64) string {
		return fmt.Sprintf("%.1f", v)
	},
	"optNum": func(v *float64) string {
		if v == nil {
			return "-"
		}
		return fmt.Sprintf("%.1f", *v)
	},
	"mealTypes": func() []models.MealType { return models.MealTypes },
}

var pages = mustParsePages(
	"index.html",
	"login.html",
	"register.html",
	"dashboard.html",
	"workout_planner.html",
	"nutrition_tracker.html",
	"progress_tracker.html",
	"prediction_tool.html",
)

// mustParsePages pairs layout.html with each page so every page can define
// its own "content" block.
func mustParsePages(names ...string) map[string]*template.Template {
	out := make(map[string]*template.Template, len(names))
	for _, name := range names {
		out[name] = template.Must(template.New("layout.html").Funcs(funcMap).
			ParseFS(templateFS, "templates/layout.html", "templates/"+name))
	}
	return out
}

// pageData is what every template receives.
type pageData struct {
	Title    string
	Username string
	Flashes  []string
	Data     any
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, name, title string, data any) {
	tpl, ok := pages[name]
	if !ok {
		slog.Error("unknown template", slog.String("template", name))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pd := pageData{
		Title:    title,
		Username: sessionUser(r).Username,
		Flashes:  h.popFlashes(w, r),
		Data:     data,
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, pd); err != nil {
		slog.Error("render failed", slog.String("template", name), slog.String("error", err.Error()))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

// renderError shows a plain error page for failures on HTML routes.
func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("page failed", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// Static serves the embedded /static assets.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}
