// Package session guarda o estado por navegador (usuário logado e mensagens flash)
// no servidor; o cookie carrega apenas o id de sessão assinado.
package session

import (
	"context"
	"errors"
	"time"
)

// Tipos de mensagem flash.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

// ErrNotFound indica sessão inexistente ou expirada no store.
var ErrNotFound = errors.New("sessão não encontrada")

// Flash é uma mensagem exibida uma única vez na próxima página renderizada.
type Flash struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Data é o conteúdo persistido de uma sessão.
type Data struct {
	UserID  int64   `json:"user_id,omitempty"`
	Role    string  `json:"role,omitempty"`
	Flashes []Flash `json:"flashes,omitempty"`
}

func (d Data) empty() bool {
	return d.UserID == 0 && d.Role == "" && len(d.Flashes) == 0
}

// Store persiste sessões por id.
type Store interface {
	Get(ctx context.Context, id string) (Data, error)
	Set(ctx context.Context, id string, data Data, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

// Session é o estado de uma requisição; só é gravada quando modificada.
type Session struct {
	id      string
	staleID string
	data    Data
	dirty   bool
}

// ID devolve o id atual (vazio até a primeira gravação).
func (s *Session) ID() string {
	return s.id
}

// UserID devolve o usuário autenticado, zero quando anônimo.
func (s *Session) UserID() int64 {
	return s.data.UserID
}

// Role devolve o papel gravado no login.
func (s *Session) Role() string {
	return s.data.Role
}

// SetUser associa a sessão ao usuário autenticado.
func (s *Session) SetUser(userID int64, role string) {
	s.data.UserID = userID
	s.data.Role = role
	s.dirty = true
}

// Renew descarta todo o estado e troca o id; o id anterior é apagado do store na gravação.
func (s *Session) Renew() {
	if s.staleID == "" {
		s.staleID = s.id
	}
	s.id = ""
	s.data = Data{}
	s.dirty = true
}

// AddFlash enfileira uma mensagem para a próxima página.
func (s *Session) AddFlash(kind, message string) {
	s.data.Flashes = append(s.data.Flashes, Flash{Kind: kind, Message: message})
	s.dirty = true
}

// PopFlashes devolve e remove as mensagens pendentes.
func (s *Session) PopFlashes() []Flash {
	if len(s.data.Flashes) == 0 {
		return nil
	}
	flashes := s.data.Flashes
	s.data.Flashes = nil
	s.dirty = true
	return flashes
}

// Modified indica alterações ainda não gravadas.
func (s *Session) Modified() bool {
	return s.dirty
}
