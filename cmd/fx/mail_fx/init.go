package mail_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"latent/internal/config"
	"latent/internal/services"
)

var Module = fx.Provide(provideMailService)

func provideMailService(cfg *config.Config, log *zap.Logger) services.IMailService {
	return services.NewMailService(cfg.SMTP, log.Named("mail"))
}
