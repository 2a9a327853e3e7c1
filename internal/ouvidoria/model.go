// Package ouvidoria registra reclamações, ocorrências, sugestões e elogios dos colaboradores
// e as respostas dadas pela administração.
package ouvidoria

import (
	"errors"
	"time"
)

// Categorias aceitas.
const (
	CategoryComplaint  = "Reclamação"
	CategoryIncident   = "Ocorrência"
	CategorySuggestion = "Sugestão"
	CategoryPraise     = "Elogio"
)

// Categories lista as categorias na ordem do formulário.
var Categories = []string{CategoryComplaint, CategoryIncident, CategorySuggestion, CategoryPraise}

var (
	// ErrNotFound indica mensagem inexistente.
	ErrNotFound = errors.New("mensagem não encontrada")
	// ErrAlreadyResponded indica resposta repetida com a política reject.
	ErrAlreadyResponded = errors.New("mensagem já respondida")
)

// Policy define o que acontece ao responder uma mensagem já respondida.
type Policy string

const (
	PolicyOverwrite Policy = "overwrite"
	PolicyReject    Policy = "reject"
)

// Message é uma manifestação de um colaborador.
type Message struct {
	ID          int64      `db:"id"`
	UserID      int64      `db:"user_id"`
	OwnerName   string     `db:"owner_name"`
	Category    string     `db:"category"`
	Title       string     `db:"title"`
	Description string     `db:"description"`
	Response    *string    `db:"response"`
	RespondedAt *time.Time `db:"responded_at"`
	CreatedAt   time.Time  `db:"created_at"`
}

// Responded indica que a administração já respondeu.
func (m Message) Responded() bool {
	return m.RespondedAt != nil
}

// SubmitInput representa o formulário de envio.
type SubmitInput struct {
	Category    string
	Title       string
	Description string
}

// Count é uma categoria com seu total de mensagens.
type Count struct {
	Label string `db:"label"`
	Count int    `db:"total"`
}

// Totals traz total e respondidas lidas na mesma consulta.
type Totals struct {
	Total     int `db:"total"`
	Responded int `db:"responded"`
}

// Open devolve as mensagens ainda sem resposta.
func (t Totals) Open() int {
	return t.Total - t.Responded
}
