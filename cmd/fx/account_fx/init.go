package account_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"latent/internal/config"
	"latent/internal/repositories"
	"latent/internal/services"
	"latent/pkg/utils"
)

var Module = fx.Provide(
	provideAccountService, provideAccountRepo)

func provideAccountRepo(db *gorm.DB) repositories.AccountRepository {
	return repositories.NewAccountRepository(db)
}

func provideAccountService(
	accountRepo repositories.AccountRepository,
	hasher *utils.PasswordHasher,
	tokens *utils.JWTManager,
	cfg *config.Config,
	log *zap.Logger,
) services.AccountServiceInterface {
	return services.NewAccountService(accountRepo, hasher, tokens, services.RootAdmin{
		Email:    cfg.RootAdminEmail,
		Password: cfg.RootAdminPassword,
	}, log)
}
