package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), ".env")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("POSTGRES_URL", "postgres://u:p@localhost:5432/latent")
	t.Setenv("JWT_SECRET", "0123456789abcdef")
	t.Setenv("ROOT_ADMIN_EMAIL", "root@example.com")

	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, "root@example.com", cfg.RootAdminEmail)
	assert.Empty(t, cfg.RootAdminPassword)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.False(t, cfg.SMTP.Enabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("POSTGRES_URL", "postgres://u:p@localhost:5432/latent")
	t.Setenv("JWT_SECRET", "0123456789abcdef")
	t.Setenv("TOKEN_TTL", "15m")
	t.Setenv("ROOT_ADMIN_EMAIL", "boss@example.com")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_FROM", "noreply@example.com")

	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, 15*time.Minute, cfg.TokenTTL)
	assert.Equal(t, "boss@example.com", cfg.RootAdminEmail)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.SMTP.Enabled())
}

func TestLoad_DotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("POSTGRES_URL=postgres://file\nJWT_SECRET=from-dotenv-file-secret\nROOT_ADMIN_EMAIL=root@file.test\n"), 0o600))
	// godotenv never overrides variables that are already set, so make sure these are not.
	for _, k := range []string{"POSTGRES_URL", "JWT_SECRET", "ROOT_ADMIN_EMAIL"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://file", cfg.PostgresURL)
	assert.Equal(t, "from-dotenv-file-secret", cfg.JWTSecret)
	assert.Equal(t, "root@file.test", cfg.RootAdminEmail)
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("POSTGRES_URL", "")
	require.NoError(t, os.Unsetenv("POSTGRES_URL"))
	t.Setenv("JWT_SECRET", "0123456789abcdef")
	t.Setenv("ROOT_ADMIN_EMAIL", "root@example.com")

	_, err := Load(missingEnvFile(t))
	assert.Error(t, err)
}

func TestLoad_RootAdminEmailHasNoDefault(t *testing.T) {
	t.Setenv("POSTGRES_URL", "postgres://u:p@localhost:5432/latent")
	t.Setenv("JWT_SECRET", "0123456789abcdef")
	t.Setenv("ROOT_ADMIN_EMAIL", "")
	require.NoError(t, os.Unsetenv("ROOT_ADMIN_EMAIL"))

	_, err := Load(missingEnvFile(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ROOT_ADMIN_EMAIL")

	t.Setenv("ROOT_ADMIN_EMAIL", "")
	_, err = Load(missingEnvFile(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ROOT_ADMIN_EMAIL")
}

func TestValidate(t *testing.T) {
	cfg := Config{JWTSecret: "short", TokenTTL: 0, RootAdminEmail: "", RootAdminPassword: "abc"}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "TOKEN_TTL")
	assert.Contains(t, err.Error(), "ROOT_ADMIN_EMAIL")
	assert.Contains(t, err.Error(), "ROOT_ADMIN_PASSWORD")
}
