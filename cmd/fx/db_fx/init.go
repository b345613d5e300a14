package db_fx

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"latent/internal/config"
	"latent/internal/infra"
)

var Module = fx.Provide(
	provideDB)

func provideDB(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	ctx := context.Background()

	db, err := infra.InitPostgresql(ctx, cfg.PostgresURL, log)
	if err != nil {
		return nil, err
	}
	if err := infra.RunMigrations(ctx, db); err != nil {
		infra.ClosePostgresql(db, log)
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			infra.ClosePostgresql(db, log)
			return nil
		},
	})
	return db, nil
}
