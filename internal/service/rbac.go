package service

import (
	"errors"

	"github.com/gestaozabele/sst/internal/repo"
)

var (
	// ErrUnauthenticated indica operação que exige login.
	ErrUnauthenticated = errors.New("autenticação necessária")
	// ErrForbidden indica ausência de permissão.
	ErrForbidden = errors.New("acesso negado")
)

// SessionContext é o usuário resolvido uma vez por requisição e repassado às operações protegidas.
type SessionContext struct {
	User *repo.User
}

// Authenticated indica usuário logado.
func (sc SessionContext) Authenticated() bool {
	return sc.User != nil
}

// IsAdmin indica usuário logado com papel admin.
func (sc SessionContext) IsAdmin() bool {
	return sc.User != nil && sc.User.IsAdmin()
}

// RequireAuthenticated devolve o usuário ou ErrUnauthenticated.
func (sc SessionContext) RequireAuthenticated() (repo.User, error) {
	if sc.User == nil {
		return repo.User{}, ErrUnauthenticated
	}
	return *sc.User, nil
}

// RequireAdmin exige login e papel admin.
func (sc SessionContext) RequireAdmin() (repo.User, error) {
	user, err := sc.RequireAuthenticated()
	if err != nil {
		return repo.User{}, err
	}
	if !user.IsAdmin() {
		return repo.User{}, ErrForbidden
	}
	return user, nil
}
