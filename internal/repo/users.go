package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/gestaozabele/sst/internal/db"
)

const userColumns = `id, name, preferred_name, email, password_hash, role`

// Users provê acesso à tabela de usuários.
type Users struct {
	db sqlx.ExtContext
}

// NewUsers aceita *sqlx.DB ou *sqlx.Tx.
func NewUsers(conn sqlx.ExtContext) *Users {
	return &Users{db: conn}
}

// Create insere usuário com e-mail normalizado.
func (r *Users) Create(ctx context.Context, params CreateUserParams) (User, error) {
	query := r.db.Rebind(`
        INSERT INTO users (name, preferred_name, email, password_hash, role)
        VALUES (?, ?, ?, ?, ?)
        RETURNING ` + userColumns)

	var user User
	err := sqlx.GetContext(ctx, r.db, &user, query,
		params.Name,
		params.PreferredName,
		NormalizeEmail(params.Email),
		params.PasswordHash,
		params.Role,
	)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return User{}, ErrDuplicateEmail
		}
		return User{}, fmt.Errorf("inserir usuário: %w", err)
	}
	return user, nil
}

// GetByEmail busca usuário pelo e-mail normalizado.
func (r *Users) GetByEmail(ctx context.Context, email string) (User, error) {
	query := r.db.Rebind(`SELECT ` + userColumns + ` FROM users WHERE email = ?`)
	return r.getOne(ctx, query, NormalizeEmail(email))
}

// GetByID busca usuário pelo identificador.
func (r *Users) GetByID(ctx context.Context, id int64) (User, error) {
	query := r.db.Rebind(`SELECT ` + userColumns + ` FROM users WHERE id = ?`)
	return r.getOne(ctx, query, id)
}

// SetPassword troca o hash de senha.
func (r *Users) SetPassword(ctx context.Context, id int64, passwordHash string) error {
	query := r.db.Rebind(`UPDATE users SET password_hash = ? WHERE id = ?`)
	return r.execOne(ctx, query, passwordHash, id)
}

// SetRole altera o papel do usuário.
func (r *Users) SetRole(ctx context.Context, id int64, role string) error {
	query := r.db.Rebind(`UPDATE users SET role = ? WHERE id = ?`)
	return r.execOne(ctx, query, role, id)
}

func (r *Users) getOne(ctx context.Context, query string, args ...any) (User, error) {
	var user User
	if err := sqlx.GetContext(ctx, r.db, &user, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("buscar usuário: %w", err)
	}
	return user, nil
}

func (r *Users) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("atualizar usuário: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
