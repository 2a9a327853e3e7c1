package util

import (
	"errors"
	"net/mail"
	"strings"
)

// ValidationError carrega uma mensagem corrigível pelo usuário.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Invalid cria um ValidationError.
func Invalid(message string) error {
	return &ValidationError{Message: message}
}

// IsValidation indica se err (ou algum erro encadeado) é de validação.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// ValidationMessage devolve a mensagem do ValidationError encadeado, se houver.
func ValidationMessage(err error) (string, bool) {
	var v *ValidationError
	if errors.As(err, &v) {
		return v.Message, true
	}
	return "", false
}

// ValidateEmail retorna erro para e-mails inválidos.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return Invalid("Preencha o campo E-mail.")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return Invalid("E-mail inválido.")
	}
	return nil
}

// RequireString garante string não vazia após trim.
func RequireString(value, field string) error {
	if strings.TrimSpace(value) == "" {
		return Invalid("Preencha o campo " + field + ".")
	}
	return nil
}

// RequireOneOf garante que value pertence à lista permitida.
func RequireOneOf(value, field string, allowed []string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return Invalid("Valor inválido para " + field + ".")
}
