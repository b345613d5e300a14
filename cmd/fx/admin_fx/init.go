package admin_fx

import (
	"go.uber.org/fx"

	"latent/internal/services"
)

var Module = fx.Provide(services.NewAdminService)
