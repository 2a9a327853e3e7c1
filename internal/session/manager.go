package session

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gestaozabele/sst/internal/auth"
)

// CookieName é o cookie que carrega o token da sessão.
const CookieName = "sst_session"

// Manager carrega e grava sessões a partir do cookie assinado.
type Manager struct {
	store  Store
	signer *auth.TokenSigner
	secure bool
}

// NewManager cria o gerenciador.
func NewManager(store Store, signer *auth.TokenSigner, secure bool) *Manager {
	return &Manager{store: store, signer: signer, secure: secure}
}

// Store devolve o store configurado.
func (m *Manager) Store() Store {
	return m.store
}

// Load resolve a sessão da requisição. Cookie ausente, adulterado ou expirado resulta em sessão anônima.
func (m *Manager) Load(r *http.Request) *Session {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return &Session{}
	}

	id, err := m.signer.Parse(cookie.Value)
	if err != nil {
		log.Debug().Err(err).Msg("cookie de sessão rejeitado")
		return &Session{}
	}

	data, err := m.store.Get(r.Context(), id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Warn().Err(err).Msg("falha ao carregar sessão")
		}
		return &Session{staleID: id}
	}
	return &Session{id: id, data: data}
}

// Save grava a sessão modificada e emite o cookie. Sessão vazia apaga o cookie.
func (m *Manager) Save(ctx context.Context, w http.ResponseWriter, s *Session) error {
	if !s.dirty {
		return nil
	}

	if s.staleID != "" {
		if err := m.store.Delete(ctx, s.staleID); err != nil {
			return err
		}
		s.staleID = ""
	}

	if s.data.empty() {
		if s.id != "" {
			if err := m.store.Delete(ctx, s.id); err != nil {
				return err
			}
			s.id = ""
		}
		m.clearCookie(w)
		s.dirty = false
		return nil
	}

	if s.id == "" {
		s.id = uuid.NewString()
	}

	token, expires, err := m.signer.Sign(s.id)
	if err != nil {
		return err
	}
	if err := m.store.Set(ctx, s.id, s.data, m.signer.TTL()); err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	s.dirty = false
	return nil
}

func (m *Manager) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
