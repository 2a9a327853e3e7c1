package repo

import "strings"

// Papéis aceitos para usuários.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User representa colaborador com acesso ao portal.
type User struct {
	ID            int64   `db:"id"`
	Name          string  `db:"name"`
	PreferredName *string `db:"preferred_name"`
	Email         string  `db:"email"`
	PasswordHash  string  `db:"password_hash"`
	Role          string  `db:"role"`
}

// IsAdmin indica papel administrativo.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// DisplayName prefere o nome social quando informado.
func (u User) DisplayName() string {
	if u.PreferredName != nil && strings.TrimSpace(*u.PreferredName) != "" {
		return *u.PreferredName
	}
	return u.Name
}

// CreateUserParams reúne campos para inserir usuário; PasswordHash já deve vir com hash.
type CreateUserParams struct {
	Name          string
	PreferredName *string
	Email         string
	PasswordHash  string
	Role          string
}

// NormalizeEmail padroniza e-mail para comparação.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsValidRole verifica se o papel é conhecido.
func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}
