package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"
)

//go:embed migrations
var migrationsFS embed.FS

// preferredNameVersion adiciona users.preferred_name; bancos criados antes da coluna
// existir recebem a coluna sem perder linhas.
const preferredNameVersion = 2

// Migrate aplica as migrações versionadas pendentes. Rodar duas vezes é inofensivo.
func Migrate(ctx context.Context, d *DB) error {
	fsys, err := fs.Sub(migrationsFS, "migrations/"+string(d.Dialect))
	if err != nil {
		return fmt.Errorf("migrações: %w", err)
	}

	dialect := goose.DialectSQLite3
	if d.Dialect == DialectPostgres {
		dialect = goose.DialectPostgres
	}

	provider, err := goose.NewProvider(dialect, d.DB.DB, fsys,
		goose.WithGoMigrations(
			goose.NewGoMigration(preferredNameVersion, &goose.GoFunc{RunTx: addPreferredName(d.Dialect)}, nil),
		),
	)
	if err != nil {
		return fmt.Errorf("migrações: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("aplicar migrações: %w", err)
	}
	for _, res := range results {
		log.Info().Int64("version", res.Source.Version).Dur("duration", res.Duration).Msg("migração aplicada")
	}

	return nil
}

func addPreferredName(dialect Dialect) func(ctx context.Context, tx *sql.Tx) error {
	return func(ctx context.Context, tx *sql.Tx) error {
		query := `SELECT COUNT(*) FROM information_schema.columns WHERE table_schema = current_schema() AND table_name = 'users' AND column_name = 'preferred_name'`
		if dialect == DialectSQLite {
			query = `SELECT COUNT(*) FROM pragma_table_info('users') WHERE name = 'preferred_name'`
		}

		var count int
		if err := tx.QueryRowContext(ctx, query).Scan(&count); err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		_, err := tx.ExecContext(ctx, `ALTER TABLE users ADD COLUMN preferred_name VARCHAR(120)`)
		return err
	}
}
