package repo

import "errors"

var (
	// ErrNotFound é retornado quando nenhum registro é encontrado.
	ErrNotFound = errors.New("registro não encontrado")
	// ErrDuplicateEmail indica e-mail já cadastrado.
	ErrDuplicateEmail = errors.New("e-mail já cadastrado")
)
