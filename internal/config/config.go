package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultSecretKey só deve ser usado em desenvolvimento.
const DefaultSecretKey = "dev-secret-key"

// DefaultAdminPassword é a senha do administrador semente quando ADMIN_PASSWORD não é definido.
const DefaultAdminPassword = "admin123"

// Políticas aceitas para respostas da ouvidoria.
const (
	RespondPolicyOverwrite = "overwrite"
	RespondPolicyReject    = "reject"
)

// Config centraliza a configuração carregada do ambiente.
type Config struct {
	Port          int
	SecretKey     string
	DatabaseURL   string
	InstancePath  string
	RedisURL      string
	SessionTTL    time.Duration
	CookieSecure  bool
	RespondPolicy string
	LogLevel      string
	Admin         AdminConfig
}

// AdminConfig descreve a conta administradora semente.
type AdminConfig struct {
	Email         string
	Name          string
	Password      string
	PreferredName string
}

// InsecureSecret indica uso do segredo padrão de desenvolvimento.
func (c *Config) InsecureSecret() bool {
	return c.SecretKey == DefaultSecretKey
}

// Load carrega variáveis de ambiente e aplica defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil || port <= 0 {
		return nil, errors.New("PORT inválida")
	}
	cfg.Port = port

	cfg.SecretKey = strings.TrimSpace(getEnv("SECRET_KEY", DefaultSecretKey))
	if cfg.SecretKey == "" {
		return nil, errors.New("SECRET_KEY não pode ser vazio")
	}

	cfg.InstancePath = strings.TrimSpace(getEnv("INSTANCE_PATH", "instance"))
	if cfg.InstancePath == "" {
		cfg.InstancePath = "instance"
	}

	cfg.DatabaseURL = strings.TrimSpace(getEnv("DATABASE_URL", ""))
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "sqlite:///" + filepath.ToSlash(filepath.Join(cfg.InstancePath, "pi_sst.db"))
	}

	cfg.RedisURL = strings.TrimSpace(getEnv("REDIS_URL", ""))

	ttl, err := parseDurationEnv("SESSION_TTL", 12*time.Hour)
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		return nil, errors.New("SESSION_TTL deve ser positivo")
	}
	cfg.SessionTTL = ttl

	secure, err := parseBoolEnv("COOKIE_SECURE", false)
	if err != nil {
		return nil, err
	}
	cfg.CookieSecure = secure

	cfg.RespondPolicy = strings.ToLower(strings.TrimSpace(getEnv("OUVIDORIA_RESPOND_POLICY", RespondPolicyOverwrite)))
	switch cfg.RespondPolicy {
	case RespondPolicyOverwrite, RespondPolicyReject:
	default:
		return nil, errors.New("OUVIDORIA_RESPOND_POLICY deve ser overwrite ou reject")
	}

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(getEnv("LOG_LEVEL", "info")))

	cfg.Admin = AdminConfig{
		Email:         strings.ToLower(strings.TrimSpace(getEnv("ADMIN_EMAIL", "admin@sst.local"))),
		Name:          strings.TrimSpace(getEnv("ADMIN_NAME", "Administrador")),
		Password:      getEnv("ADMIN_PASSWORD", DefaultAdminPassword),
		PreferredName: strings.TrimSpace(getEnv("ADMIN_PREFERRED_NAME", "")),
	}
	if cfg.Admin.Email == "" || cfg.Admin.Name == "" || cfg.Admin.Password == "" {
		return nil, errors.New("ADMIN_EMAIL, ADMIN_NAME e ADMIN_PASSWORD não podem ser vazios")
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return def
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	val := getEnv(key, "")
	if val == "" {
		return def, nil
	}
	dur, err := time.ParseDuration(val)
	if err != nil {
		return 0, errors.New(key + " inválido")
	}
	return dur, nil
}

func parseBoolEnv(key string, def bool) (bool, error) {
	val := strings.TrimSpace(getEnv(key, ""))
	if val == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, errors.New(key + " inválido")
	}
	return b, nil
}
