package config_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"latent/internal/config"
	"latent/pkg/logger"
	"latent/pkg/utils"
)

var Module = fx.Provide(
	provideConfig, provideLogger, provideJWTManager, providePasswordHasher)

func provideConfig() (*config.Config, error) {
	return config.Load()
}

func provideLogger(lc fx.Lifecycle, cfg *config.Config) (*zap.Logger, error) {
	log, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(log)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			// Sync fails on stdout/stderr on some platforms; nothing useful to do with it.
			_ = log.Sync()
			return nil
		},
	})
	return log, nil
}

func provideJWTManager(cfg *config.Config) *utils.JWTManager {
	return utils.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
}

func providePasswordHasher(cfg *config.Config) *utils.PasswordHasher {
	return utils.NewPasswordHasher(cfg.BcryptCost)
}
