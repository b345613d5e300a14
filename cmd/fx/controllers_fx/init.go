package controllers_fx

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"latent/internal/api"
	"latent/internal/api/controllers"
	"latent/internal/config"
	"latent/pkg/utils"
)

var Module = fx.Options(
	fx.Provide(controllers.NewAccountController),
	fx.Provide(controllers.NewAdminController),
	fx.Provide(controllers.NewVideoController),
	fx.Provide(provideRouter))

func provideRouter(
	cfg *config.Config,
	log *zap.Logger,
	jwtManager *utils.JWTManager,
	accountController *controllers.AccountController,
	adminController *controllers.AdminController,
	videoController *controllers.VideoController,
) *gin.Engine {
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	return api.NewRouter(api.RouterParams{
		Log:            log,
		JWT:            jwtManager,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Accounts:       accountController,
		Admin:          adminController,
		Videos:         videoController,
	})
}
