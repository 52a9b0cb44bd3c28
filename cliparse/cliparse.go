package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port         int    `env:"PORT" envDefault:"3318"`
	DatabaseURL  string `env:"DATABASE_URL"`
	DatabaseType string `env:"DATABASE_TYPE" envDefault:"sqlite"`

	// Bearer token verification
	JWTSecret   string `env:"JWT_SECRET"`
	JWTIssuer   string `env:"JWT_ISSUER"`
	JWTAudience string `env:"JWT_AUDIENCE"`

	// Pool service tuning
	MaxCodeAttempts  int           `env:"MAX_CODE_ATTEMPTS" envDefault:"5"`
	MaxJoinAttempts  int           `env:"MAX_JOIN_ATTEMPTS" envDefault:"3"`
	OperationTimeout time.Duration `env:"OPERATION_TIMEOUT" envDefault:"5s"`

	// ulule/limiter format, e.g. "60-M". Empty disables.
	JoinRateLimit string `env:"JOIN_RATE_LIMIT" envDefault:"60-M"`
	// Key the limiter on X-Forwarded-For / X-Real-IP. Only safe behind a proxy
	// that overwrites them.
	TrustForwardHeader bool `env:"TRUST_FORWARD_HEADER"`

	CORSOrigin string `env:"CORS_ORIGIN"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat  string `env:"LOG_FORMAT" envDefault:"text"`
}

// ParseFlags loads .env (or ENV_FILE), reads the environment, then lets CLI
// flags override it
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	if err := loadEnvFile(); err != nil {
		return Config{}, err
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	fs := flag.NewFlagSet("quickly-pool", flag.ContinueOnError)

	// Network config
	fs.IntVar(&cfg.Port, "p", cfg.Port, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", cfg.DatabaseURL, "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", cfg.DatabaseType, "Database type (sqlite or postgres)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "JWT signing secret (prefer env)")
	fs.StringVar(&cfg.JWTIssuer, "jwt-issuer", cfg.JWTIssuer, "Expected JWT issuer")
	fs.StringVar(&cfg.JWTAudience, "jwt-audience", cfg.JWTAudience, "Expected JWT audience")

	fs.IntVar(&cfg.MaxCodeAttempts, "code-attempts", cfg.MaxCodeAttempts, "Join code attempts per pool creation")
	fs.IntVar(&cfg.MaxJoinAttempts, "join-attempts", cfg.MaxJoinAttempts, "Attempts per join on transient conflicts")
	fs.DurationVar(&cfg.OperationTimeout, "timeout", cfg.OperationTimeout, "Timeout per pool operation")
	fs.StringVar(&cfg.JoinRateLimit, "join-rate", cfg.JoinRateLimit, "Join rate limit per IP (e.g. 60-M, empty disables)")
	fs.BoolVar(&cfg.TrustForwardHeader, "trust-forward-header", cfg.TrustForwardHeader, "Rate limit on forwarded client IP headers")

	fs.StringVar(&cfg.CORSOrigin, "cors-origin", cfg.CORSOrigin, "Allowed CORS origin (default: *, without credentials)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text or json)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	if c.DatabaseURL == "" {
		return errors.New("database URL required (use -d or DATABASE_URL env)")
	}
	if c.DatabaseType != "sqlite" && c.DatabaseType != "postgres" {
		return fmt.Errorf("invalid database type %q (sqlite or postgres)", c.DatabaseType)
	}

	// Secrets - MUST be provided
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET required")
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.MaxCodeAttempts < 1 {
		return errors.New("code attempts must be at least 1")
	}
	if c.MaxJoinAttempts < 1 {
		return errors.New("join attempts must be at least 1")
	}
	if c.OperationTimeout <= 0 {
		return errors.New("operation timeout must be positive")
	}
	return nil
}

// loadEnvFile reads ENV_FILE (default .env). Variables already set in the
// environment win; a missing file is not an error.
func loadEnvFile() error {
	path := os.Getenv("ENV_FILE")
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}
