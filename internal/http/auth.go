package http

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	httpmiddleware "github.com/gestaozabele/sst/internal/http/middleware"
	"github.com/gestaozabele/sst/internal/repo"
	"github.com/gestaozabele/sst/internal/service"
	"github.com/gestaozabele/sst/internal/session"
	"github.com/gestaozabele/sst/internal/util"
)

const (
	msgInvalidCredentials = "E-mail ou senha inválidos."
	msgDuplicateEmail     = "Este e-mail já está cadastrado."
)

// Index renderiza a página inicial.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "index", "Início", nil)
}

type registerView struct {
	CanChooseRole bool
}

// RegisterForm exibe o cadastro; administradores podem escolher o papel.
func (h *Handler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	sc := httpmiddleware.GetSessionContext(r.Context())
	h.render(w, r, "registrar", "Cadastro", registerView{CanChooseRole: sc.IsAdmin()})
}

// Register cria usuário a partir do formulário.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	sc := httpmiddleware.GetSessionContext(r.Context())

	user, err := h.auth.Register(r.Context(), sc, service.RegisterInput{
		Name:          r.PostFormValue("name"),
		PreferredName: r.PostFormValue("preferred_name"),
		Email:         r.PostFormValue("email"),
		Password:      r.PostFormValue("password"),
		Role:          r.PostFormValue("role"),
	})
	if err != nil {
		if msg, ok := util.ValidationMessage(err); ok {
			h.flashRedirect(w, r, session.FlashError, msg, "/registrar")
			return
		}
		if errors.Is(err, repo.ErrDuplicateEmail) {
			h.flashRedirect(w, r, session.FlashError, msgDuplicateEmail, "/registrar")
			return
		}
		h.fail(w, r, err)
		return
	}

	if sc.IsAdmin() {
		h.flashRedirect(w, r, session.FlashSuccess, "Usuário "+user.Email+" cadastrado com sucesso.", "/registrar")
		return
	}
	h.flashRedirect(w, r, session.FlashSuccess, "Cadastro realizado com sucesso! Faça login.", "/login")
}

type loginView struct {
	Next string
}

// LoginForm exibe o formulário de login preservando o destino.
func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "login", "Entrar", loginView{Next: httpmiddleware.SafeNext(r.URL.Query().Get("next"))})
}

// Login autentica e redireciona para o destino solicitado.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	sess := httpmiddleware.GetSession(r.Context())
	next := httpmiddleware.SafeNext(r.PostFormValue("next"))

	user, err := h.auth.Login(r.Context(), sess, r.PostFormValue("email"), r.PostFormValue("password"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			to := "/login"
			if next != "/" {
				to = httpmiddleware.LoginURL(next)
			}
			h.flashRedirect(w, r, session.FlashError, msgInvalidCredentials, to)
			return
		}
		h.fail(w, r, err)
		return
	}

	log.Info().Int64("user_id", user.ID).Str("role", user.Role).Msg("login realizado")
	h.flashRedirect(w, r, session.FlashSuccess, "Bem-vindo, "+user.DisplayName()+"!", next)
}

// Logout encerra a sessão.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.auth.Logout(httpmiddleware.GetSession(r.Context()))
	h.flashRedirect(w, r, session.FlashInfo, "Você saiu da sua conta.", "/")
}

// fail traduz erros de autorização em redirecionamento e os demais em erro 500.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		http.Redirect(w, r, httpmiddleware.LoginURL(r.URL.RequestURI()), http.StatusFound)
	case errors.Is(err, service.ErrForbidden):
		h.flashRedirect(w, r, session.FlashError, httpmiddleware.MsgAdminOnly, "/")
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("falha ao processar requisição")
		httpmiddleware.InternalError(w)
	}
}
