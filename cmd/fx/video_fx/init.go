package video_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"latent/internal/repositories"
	"latent/internal/services"
)

var Module = fx.Provide(
	provideVideoRepo, provideVideoService,
)

func provideVideoRepo(db *gorm.DB) repositories.VideoRepositoryInterface {
	return repositories.NewVideoRepository(db)
}

func provideVideoService(
	videoRepo repositories.VideoRepositoryInterface,
	accountRepo repositories.AccountRepository,
	log *zap.Logger,
) services.VideoServiceInterface {
	return services.NewVideoService(videoRepo, accountRepo, log)
}
