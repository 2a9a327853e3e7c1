// Package bootstrap prepara o banco na subida do processo: migrações e administrador semente.
package bootstrap

import (
	"context"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/gestaozabele/sst/internal/auth"
	"github.com/gestaozabele/sst/internal/config"
	"github.com/gestaozabele/sst/internal/db"
	"github.com/gestaozabele/sst/internal/repo"
)

var errAdminExists = errors.New("administrador já existe")

// Run aplica as migrações e garante o administrador semente. Idempotente.
func Run(ctx context.Context, conn *db.DB, admin config.AdminConfig) error {
	if err := db.Migrate(ctx, conn); err != nil {
		return err
	}
	_, err := EnsureAdmin(ctx, conn, admin)
	return err
}

// EnsureAdmin cria o administrador com o e-mail semente se ele não existir.
// Conta existente não tem senha nem papel alterados. Devolve true quando criou.
func EnsureAdmin(ctx context.Context, conn *db.DB, admin config.AdminConfig) (bool, error) {
	email := repo.NormalizeEmail(admin.Email)

	err := db.WithTx(ctx, conn, func(ctx context.Context, tx *sqlx.Tx) error {
		users := repo.NewUsers(tx)

		if _, err := users.GetByEmail(ctx, email); err == nil {
			return errAdminExists
		} else if !errors.Is(err, repo.ErrNotFound) {
			return err
		}

		hash, err := auth.Hash(admin.Password)
		if err != nil {
			return err
		}

		var preferred *string
		if p := strings.TrimSpace(admin.PreferredName); p != "" {
			preferred = &p
		}

		_, err = users.Create(ctx, repo.CreateUserParams{
			Name:          admin.Name,
			PreferredName: preferred,
			Email:         email,
			PasswordHash:  hash,
			Role:          repo.RoleAdmin,
		})
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return errAdminExists
		}
		return err
	})

	switch {
	case errors.Is(err, errAdminExists):
		log.Debug().Str("email", email).Msg("administrador semente já existe")
		return false, nil
	case err != nil:
		return false, err
	}

	log.Info().Str("email", email).Msg("administrador semente criado")
	if admin.Password == config.DefaultAdminPassword {
		log.Warn().Msg("administrador semente usa a senha padrão; defina ADMIN_PASSWORD")
	}
	return true, nil
}
