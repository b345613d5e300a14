// Package config loads runtime settings from the environment (optionally seeded from a
// .env file).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv      string        `env:"APP_ENV" envDefault:"production"`
	Port        string        `env:"PORT" envDefault:"5000"`
	PostgresURL string        `env:"POSTGRES_URL,required"`
	JWTSecret   string        `env:"JWT_SECRET,required"`
	TokenTTL    time.Duration `env:"TOKEN_TTL" envDefault:"1h"`
	BcryptCost  int           `env:"BCRYPT_COST" envDefault:"10"`
	LogLevel    string        `env:"LOG_LEVEL" envDefault:"info"`

	// The root account is always an approved admin. It is seeded at startup when
	// RootAdminPassword is set and upgraded in place when it already exists. Startup fails
	// when neither is true.
	RootAdminEmail    string `env:"ROOT_ADMIN_EMAIL,required,notEmpty"`
	RootAdminPassword string `env:"ROOT_ADMIN_PASSWORD"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	SMTP SMTPConfig `envPrefix:"SMTP_"`
}

type SMTPConfig struct {
	Host       string `env:"HOST"`
	Port       int    `env:"PORT" envDefault:"587"`
	Username   string `env:"USERNAME"`
	Password   string `env:"PASSWORD"`
	From       string `env:"FROM"`
	FromName   string `env:"FROM_NAME" envDefault:"Latent"`
	UseSSL     bool   `env:"USE_SSL" envDefault:"false"`
	RequireTLS bool   `env:"REQUIRE_TLS" envDefault:"true"`
	AppName    string `env:"APP_NAME" envDefault:"Latent"`
	AppBaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:3000"`
}

// Enabled reports whether outgoing mail is configured.
func (s SMTPConfig) Enabled() bool {
	return s.Host != "" && s.From != ""
}

// Load reads an optional .env file (missing files are ignored) and parses the environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if len(c.JWTSecret) < 16 {
		errs = append(errs, errors.New("JWT_SECRET must be at least 16 bytes"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	if c.RootAdminEmail == "" {
		errs = append(errs, errors.New("ROOT_ADMIN_EMAIL must not be empty"))
	}
	if c.RootAdminPassword != "" && len(c.RootAdminPassword) < 6 {
		errs = append(errs, errors.New("ROOT_ADMIN_PASSWORD must be at least 6 characters"))
	}
	if len(c.RootAdminPassword) > 72 {
		errs = append(errs, errors.New("ROOT_ADMIN_PASSWORD must be at most 72 bytes"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
