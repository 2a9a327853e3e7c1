package http

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	httpmiddleware "github.com/gestaozabele/sst/internal/http/middleware"
	"github.com/gestaozabele/sst/internal/repo"
	"github.com/gestaozabele/sst/internal/session"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pages = []string{"index", "survey", "dashboard", "guia", "ouvidoria", "respostas", "registrar", "login"}

var templateFuncs = template.FuncMap{
	"formatTime": formatTime,
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
}

// views mantém um template por página, cada um combinado com o layout.
type views struct {
	pages map[string]*template.Template
}

func loadViews() (*views, error) {
	v := &views{pages: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		tmpl, err := template.New("layout").Funcs(templateFuncs).ParseFS(templatesFS, "templates/layout.html", "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("template %s: %w", page, err)
		}
		v.pages[page] = tmpl
	}
	return v, nil
}

// pageData é o modelo entregue a todo template.
type pageData struct {
	Title   string
	User    *repo.User
	Flashes []session.Flash
	Data    any
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, page, title string, data any) {
	tmpl, ok := h.views.pages[page]
	if !ok {
		log.Error().Str("page", page).Msg("template inexistente")
		httpmiddleware.InternalError(w)
		return
	}

	sess := httpmiddleware.GetSession(r.Context())
	sc := httpmiddleware.GetSessionContext(r.Context())

	var buf bytes.Buffer
	err := tmpl.ExecuteTemplate(&buf, "layout", pageData{
		Title:   title,
		User:    sc.User,
		Flashes: sess.PopFlashes(),
		Data:    data,
	})
	if err != nil {
		log.Error().Err(err).Str("page", page).Msg("falha ao renderizar página")
		httpmiddleware.InternalError(w)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// flashRedirect enfileira uma mensagem e redireciona (POST/redirect/GET).
func (h *Handler) flashRedirect(w http.ResponseWriter, r *http.Request, kind, message, to string) {
	httpmiddleware.GetSession(r.Context()).AddFlash(kind, message)
	http.Redirect(w, r, to, http.StatusSeeOther)
}

func formatTime(v any) string {
	switch t := v.(type) {
	case time.Time:
		return t.Local().Format("02/01/2006 15:04")
	case *time.Time:
		if t == nil {
			return ""
		}
		return t.Local().Format("02/01/2006 15:04")
	}
	return ""
}
