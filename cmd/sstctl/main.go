package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gestaozabele/sst/internal/auth"
	"github.com/gestaozabele/sst/internal/bootstrap"
	"github.com/gestaozabele/sst/internal/config"
	"github.com/gestaozabele/sst/internal/db"
	"github.com/gestaozabele/sst/internal/repo"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	if cmd == "hash" {
		if err := runHash(args); err != nil {
			log.Fatal().Err(err).Msg("falha ao gerar hash")
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("configuração inválida")
	}

	ctx := context.Background()

	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("não foi possível conectar ao banco")
	}
	defer conn.Close()

	switch cmd {
	case "migrate":
		err = db.Migrate(ctx, conn)
	case "seed-admin":
		err = runSeedAdmin(ctx, conn, cfg.Admin)
	case "set-role":
		err = runSetRole(ctx, repo.NewUsers(conn), args)
	case "set-password":
		err = runSetPassword(ctx, repo.NewUsers(conn), args)
	default:
		usage()
		os.Exit(1)
	}
	if err != nil {
		conn.Close()
		log.Fatal().Err(err).Str("command", cmd).Msg("comando falhou")
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "sstctl: administração do portal SST")
	fmt.Fprintln(os.Stderr, "uso:")
	fmt.Fprintln(os.Stderr, "  sstctl migrate")
	fmt.Fprintln(os.Stderr, "  sstctl seed-admin")
	fmt.Fprintln(os.Stderr, "  sstctl hash <senha>")
	fmt.Fprintln(os.Stderr, "  sstctl set-role --email pessoa@empresa.com --role admin|user")
	fmt.Fprintln(os.Stderr, "  sstctl set-password --email pessoa@empresa.com --password nova-senha")
}

func runHash(args []string) error {
	if len(args) < 1 {
		return errors.New("informe a senha")
	}
	hash, err := auth.Hash(args[0])
	if err != nil {
		return err
	}
	fmt.Println(hash)
	return nil
}

func runSeedAdmin(ctx context.Context, conn *db.DB, admin config.AdminConfig) error {
	if err := db.Migrate(ctx, conn); err != nil {
		return err
	}
	created, err := bootstrap.EnsureAdmin(ctx, conn, admin)
	if err != nil {
		return err
	}
	if created {
		fmt.Printf("administrador %s criado\n", admin.Email)
	} else {
		fmt.Printf("administrador %s já existe\n", admin.Email)
	}
	return nil
}

func runSetRole(ctx context.Context, users *repo.Users, args []string) error {
	fs := flag.NewFlagSet("set-role", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var (
		email = fs.String("email", "", "e-mail do usuário")
		role  = fs.String("role", "", "papel: admin ou user")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" || !repo.IsValidRole(*role) {
		return errors.New("email e role (admin|user) são obrigatórios")
	}

	user, err := users.GetByEmail(ctx, *email)
	if err != nil {
		return fmt.Errorf("buscar %s: %w", *email, err)
	}
	if err := users.SetRole(ctx, user.ID, *role); err != nil {
		return err
	}

	log.Info().Int64("user_id", user.ID).Str("role", *role).Msg("papel atualizado")
	return nil
}

func runSetPassword(ctx context.Context, users *repo.Users, args []string) error {
	fs := flag.NewFlagSet("set-password", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var (
		email    = fs.String("email", "", "e-mail do usuário")
		password = fs.String("password", "", "nova senha")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" || *password == "" {
		return errors.New("email e password são obrigatórios")
	}

	user, err := users.GetByEmail(ctx, *email)
	if err != nil {
		return fmt.Errorf("buscar %s: %w", *email, err)
	}
	hash, err := auth.Hash(*password)
	if err != nil {
		return err
	}
	if err := users.SetPassword(ctx, user.ID, hash); err != nil {
		return err
	}

	log.Info().Int64("user_id", user.ID).Msg("senha atualizada")
	return nil
}
