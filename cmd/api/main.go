package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gestaozabele/sst/internal/auth"
	"github.com/gestaozabele/sst/internal/bootstrap"
	"github.com/gestaozabele/sst/internal/config"
	"github.com/gestaozabele/sst/internal/db"
	internalhttp "github.com/gestaozabele/sst/internal/http"
	"github.com/gestaozabele/sst/internal/session"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("api encerrada com erro")
	}
}

func run() error {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	setLogLevel(cfg.LogLevel)

	if cfg.InsecureSecret() {
		log.Warn().Msg("SECRET_KEY não definido; usando chave de desenvolvimento")
	}

	ctx := context.Background()

	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}
	defer conn.Close()

	if err := bootstrap.Run(ctx, conn, cfg.Admin); err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}

	var (
		store       session.Store
		redisClient *redis.Client
	)
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("redis parse: %w", err)
		}
		redisClient = redis.NewClient(redisOpts)
		defer redisClient.Close()
		store = session.NewRedisStore(redisClient)
		log.Info().Msg("sessões no Redis")
	} else {
		store = session.NewMemoryStore()
		log.Info().Msg("sessões em memória")
	}

	signer := auth.NewTokenSigner(cfg.SecretKey, cfg.SessionTTL)
	sessions := session.NewManager(store, signer, cfg.CookieSecure)

	handler, err := internalhttp.NewRouter(cfg, conn, redisClient, sessions)
	if err != nil {
		return fmt.Errorf("router: %w", err)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Msgf("portal SST ouvindo em :%d", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("encerrando...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func setLogLevel(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}
