// Package survey guarda as respostas do questionário de segurança do trabalho.
package survey

import "time"

// Field é uma das perguntas categóricas do questionário.
type Field string

const (
	FieldSatisfaction     Field = "satisfaction"
	FieldSafetyPerception Field = "safety_perception"
	FieldSupportAccess    Field = "support_access"
)

// Fields lista as perguntas na ordem exibida.
var Fields = []Field{FieldSatisfaction, FieldSafetyPerception, FieldSupportAccess}

// Opções oferecidas no formulário; o repositório aceita qualquer rótulo não vazio.
var (
	SatisfactionOptions     = []string{"Muito satisfeito", "Satisfeito", "Neutro", "Insatisfeito", "Muito insatisfeito"}
	SafetyPerceptionOptions = []string{"Muito seguro", "Seguro", "Pouco seguro", "Inseguro"}
	SupportAccessOptions    = []string{"Fácil", "Razoável", "Difícil"}
)

// Question devolve o enunciado da pergunta.
func (f Field) Question() string {
	switch f {
	case FieldSatisfaction:
		return "Qual seu nível de satisfação com as condições de trabalho?"
	case FieldSafetyPerception:
		return "Como você percebe a segurança no seu ambiente de trabalho?"
	case FieldSupportAccess:
		return "Qual a facilidade de acesso ao suporte de SST?"
	}
	return string(f)
}

// Options devolve as opções da pergunta.
func (f Field) Options() []string {
	switch f {
	case FieldSatisfaction:
		return SatisfactionOptions
	case FieldSafetyPerception:
		return SafetyPerceptionOptions
	case FieldSupportAccess:
		return SupportAccessOptions
	}
	return nil
}

func (f Field) valid() bool {
	switch f {
	case FieldSatisfaction, FieldSafetyPerception, FieldSupportAccess:
		return true
	}
	return false
}

// Response é uma resposta enviada; imutável após inserida.
type Response struct {
	ID               int64     `db:"id"`
	Satisfaction     string    `db:"satisfaction"`
	SafetyPerception string    `db:"safety_perception"`
	SupportAccess    string    `db:"support_access"`
	Comments         *string   `db:"comments"`
	CreatedAt        time.Time `db:"created_at"`
}

// SubmitInput representa o formulário enviado.
type SubmitInput struct {
	Satisfaction     string
	SafetyPerception string
	SupportAccess    string
	Comments         string
}

// Count é um rótulo com seu total de ocorrências.
type Count struct {
	Label string `db:"label"`
	Count int    `db:"total"`
}

// Comment é um comentário livre com a data da resposta.
type Comment struct {
	Text      string    `db:"comments"`
	CreatedAt time.Time `db:"created_at"`
}
