package middleware

import (
	"context"
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"

	"github.com/gestaozabele/sst/internal/service"
	"github.com/gestaozabele/sst/internal/session"
)

type contextKey string

const (
	ContextKeySession        contextKey = "session"
	ContextKeySessionContext contextKey = "session_context"
)

// MsgAdminOnly é o aviso exibido quando um usuário comum tenta acessar área administrativa.
const MsgAdminOnly = "Acesso restrito a administradores."

// Resolver monta o SessionContext a partir da sessão carregada.
type Resolver func(ctx context.Context, sess *session.Session) (service.SessionContext, error)

// Session carrega a sessão do cookie, resolve o usuário atual e grava a sessão
// antes do primeiro byte da resposta.
func Session(mgr *session.Manager, resolve Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := mgr.Load(r)

			sc, err := resolve(r.Context(), sess)
			if err != nil {
				log.Error().Err(err).Msg("falha ao resolver usuário da sessão")
				writeInternalError(w)
				return
			}
			if sc.User == nil && sess.UserID() != 0 {
				sess.Renew()
			}

			sw := &sessionWriter{ResponseWriter: w, commit: func(w http.ResponseWriter) {
				if err := mgr.Save(r.Context(), w, sess); err != nil {
					log.Error().Err(err).Msg("falha ao gravar sessão")
				}
			}}

			ctx := context.WithValue(r.Context(), ContextKeySession, sess)
			ctx = context.WithValue(ctx, ContextKeySessionContext, sc)

			next.ServeHTTP(sw, r.WithContext(ctx))
			sw.flush()
		})
	}
}

// GetSession recupera a sessão da requisição.
func GetSession(ctx context.Context) *session.Session {
	if sess, ok := ctx.Value(ContextKeySession).(*session.Session); ok {
		return sess
	}
	return &session.Session{}
}

// GetSessionContext recupera o usuário resolvido para a requisição.
func GetSessionContext(ctx context.Context) service.SessionContext {
	sc, _ := ctx.Value(ContextKeySessionContext).(service.SessionContext)
	return sc
}

// RequireAuthenticated redireciona visitantes para o login, guardando o caminho de volta.
func RequireAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !GetSessionContext(r.Context()).Authenticated() {
			redirectToLogin(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin exige login e papel admin; usuários comuns voltam para a página inicial.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sc := GetSessionContext(r.Context())
		if !sc.Authenticated() {
			redirectToLogin(w, r)
			return
		}
		if !sc.IsAdmin() {
			log.Warn().Int64("user_id", sc.User.ID).Str("role", sc.User.Role).Str("path", r.URL.Path).Msg("acesso administrativo negado")
			GetSession(r.Context()).AddFlash(session.FlashError, MsgAdminOnly)
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// LoginURL monta o endereço de login com retorno para path.
func LoginURL(path string) string {
	return "/login?next=" + url.QueryEscape(path)
}

// SafeNext aceita apenas caminhos locais absolutos.
func SafeNext(next string) string {
	if len(next) == 0 || next[0] != '/' || (len(next) > 1 && (next[1] == '/' || next[1] == '\\')) {
		return "/"
	}
	return next
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, LoginURL(r.URL.RequestURI()), http.StatusFound)
}

type sessionWriter struct {
	http.ResponseWriter
	commit    func(http.ResponseWriter)
	committed bool
}

func (w *sessionWriter) flush() {
	if !w.committed {
		w.committed = true
		w.commit(w.ResponseWriter)
	}
}

func (w *sessionWriter) WriteHeader(status int) {
	w.flush()
	w.ResponseWriter.WriteHeader(status)
}

func (w *sessionWriter) Write(b []byte) (int, error) {
	w.flush()
	return w.ResponseWriter.Write(b)
}

func (w *sessionWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
