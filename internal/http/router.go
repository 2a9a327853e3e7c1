package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/gestaozabele/sst/internal/config"
	"github.com/gestaozabele/sst/internal/db"
	"github.com/gestaozabele/sst/internal/guia"
	httpmiddleware "github.com/gestaozabele/sst/internal/http/middleware"
	"github.com/gestaozabele/sst/internal/ouvidoria"
	"github.com/gestaozabele/sst/internal/repo"
	"github.com/gestaozabele/sst/internal/report"
	"github.com/gestaozabele/sst/internal/service"
	"github.com/gestaozabele/sst/internal/session"
	"github.com/gestaozabele/sst/internal/survey"
)

// Handler concentra as dependências das páginas.
type Handler struct {
	cfg       *config.Config
	db        *db.DB
	redis     *redis.Client
	auth      *service.AuthService
	surveys   *survey.Repository
	messages  *ouvidoria.Repository
	dashboard *report.Assembler
	guide     guia.Guide
	sessions  *session.Manager
	views     *views
}

// NewRouter devolve roteador configurado. redisClient pode ser nil quando as sessões ficam em memória.
func NewRouter(cfg *config.Config, conn *db.DB, redisClient *redis.Client, sessions *session.Manager) (http.Handler, error) {
	v, err := loadViews()
	if err != nil {
		return nil, err
	}

	guide, err := guia.Default()
	if err != nil {
		return nil, fmt.Errorf("guia: %w", err)
	}

	surveys := survey.NewRepository(conn)
	messages := ouvidoria.NewRepository(conn, ouvidoria.Policy(cfg.RespondPolicy))

	h := &Handler{
		cfg:       cfg,
		db:        conn,
		redis:     redisClient,
		auth:      service.NewAuthService(repo.NewUsers(conn)),
		surveys:   surveys,
		messages:  messages,
		dashboard: report.NewAssembler(surveys, messages),
		guide:     guide,
		sessions:  sessions,
		views:     v,
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(httpmiddleware.Logging)
	r.Use(httpmiddleware.Recover)

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)

	r.Group(func(web chi.Router) {
		web.Use(httpmiddleware.Session(sessions, h.auth.Context))

		web.Get("/", h.Index)
		web.Get("/registrar", h.RegisterForm)
		web.Post("/registrar", h.Register)
		web.Get("/login", h.LoginForm)
		web.Post("/login", h.Login)
		web.Get("/logout", h.Logout)

		web.Group(func(authenticated chi.Router) {
			authenticated.Use(httpmiddleware.RequireAuthenticated)
			authenticated.Get("/survey", h.SurveyForm)
			authenticated.Post("/survey", h.SurveySubmit)
			authenticated.Get("/ouvidoria", h.OuvidoriaForm)
			authenticated.Post("/ouvidoria", h.OuvidoriaSubmit)
		})

		web.Group(func(admin chi.Router) {
			admin.Use(httpmiddleware.RequireAdmin)
			admin.Get("/dashboard", h.Dashboard)
			admin.Get("/guia", h.Guia)
			admin.Get("/ouvidoria/respostas", h.OuvidoriaResponses)
			admin.Post("/ouvidoria/respostas", h.OuvidoriaRespond)
		})
	})

	return r, nil
}

// Health responde sempre ok enquanto o processo atende.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready valida conexões com o banco e, quando configurado, o Redis.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	dbErr := h.db.PingContext(ctx)
	var redisErr error
	if h.redis != nil {
		redisErr = h.redis.Ping(ctx).Err()
	}

	if dbErr != nil || redisErr != nil {
		WriteError(w, http.StatusServiceUnavailable, "INTERNAL", "dependências indisponíveis", map[string]any{
			"db":    errorString(dbErr),
			"redis": errorString(redisErr),
		})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"ready": true})
}

func errorString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
