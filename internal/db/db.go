package db

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Dialect identifica o banco por trás da conexão.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// DB agrupa a conexão sqlx com o dialeto detectado em DATABASE_URL.
type DB struct {
	*sqlx.DB
	Dialect Dialect
}

// Target descreve driver e DSN resolvidos a partir de DATABASE_URL.
type Target struct {
	Dialect Dialect
	Driver  string
	DSN     string
	// Path é o arquivo SQLite, vazio para Postgres.
	Path string
}

// ParseURL traduz DATABASE_URL para driver/DSN.
// Aceita postgres://, postgresql://, postgresql+driver://, sqlite:///caminho e file:caminho.
func ParseURL(databaseURL string) (Target, error) {
	raw := strings.TrimSpace(databaseURL)
	if raw == "" {
		return Target{}, errors.New("DATABASE_URL vazio")
	}

	scheme, rest, ok := strings.Cut(raw, "://")
	if ok {
		base, _, _ := strings.Cut(strings.ToLower(scheme), "+")
		switch base {
		case "postgres", "postgresql":
			return Target{Dialect: DialectPostgres, Driver: "pgx", DSN: "postgres://" + rest}, nil
		case "sqlite":
			path := strings.TrimPrefix(rest, "/")
			if path == "" {
				return Target{}, errors.New("DATABASE_URL sqlite sem caminho")
			}
			return sqliteTarget(path), nil
		default:
			return Target{}, fmt.Errorf("DATABASE_URL com esquema %q não suportado", scheme)
		}
	}

	if strings.HasPrefix(raw, "file:") {
		path, _, _ := strings.Cut(strings.TrimPrefix(raw, "file:"), "?")
		return sqliteTarget(path), nil
	}

	return Target{}, fmt.Errorf("DATABASE_URL inválido: %q", raw)
}

func sqliteTarget(path string) Target {
	dsn := "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	return Target{Dialect: DialectSQLite, Driver: "sqlite", DSN: dsn, Path: path}
}

// Open conecta ao banco indicado em DATABASE_URL, criando o diretório do arquivo SQLite se preciso.
func Open(ctx context.Context, databaseURL string) (*DB, error) {
	target, err := ParseURL(databaseURL)
	if err != nil {
		return nil, err
	}

	if target.Dialect == DialectSQLite {
		if dir := filepath.Dir(target.Path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("criar diretório %s: %w", dir, err)
			}
		}
	}

	conn, err := sqlx.Open(target.Driver, target.DSN)
	if err != nil {
		return nil, fmt.Errorf("abrir banco: %w", err)
	}

	if target.Dialect == DialectSQLite {
		// SQLite serializa escritas; uma conexão evita SQLITE_BUSY entre requisições.
		conn.SetMaxOpenConns(1)
	} else {
		conn.SetMaxOpenConns(10)
		conn.SetConnMaxIdleTime(5 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping banco: %w", err)
	}

	return &DB{DB: conn, Dialect: target.Dialect}, nil
}

// IsUniqueViolation indica violação de restrição UNIQUE em qualquer dialeto suportado.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}

	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
