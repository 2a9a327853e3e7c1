package db

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// WithTx executa uma função dentro de uma transação explícita.
func WithTx(ctx context.Context, d *DB, fn func(ctx context.Context, tx *sqlx.Tx) error) error {
	tx, err := d.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(ctx, tx); err != nil {
		return err
	}

	return tx.Commit()
}
