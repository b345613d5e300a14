package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"latent/cmd/fx/account_fx"
	"latent/cmd/fx/admin_fx"
	"latent/cmd/fx/config_fx"
	"latent/cmd/fx/controllers_fx"
	"latent/cmd/fx/dashboard"
	"latent/cmd/fx/db_fx"
	"latent/cmd/fx/mail_fx"
	"latent/cmd/fx/video_fx"
	"latent/internal/config"
	"latent/internal/services"
)

func main() {
	app := fx.New(
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
		config_fx.Module,
		db_fx.Module,
		mail_fx.Module,
		account_fx.Module,
		video_fx.Module,
		dashboard.Module,
		admin_fx.Module,
		controllers_fx.Module,

		fx.Invoke(SeedRootAdmin),
		fx.Invoke(StartServer),
	)

	app.Run()
}

// SeedRootAdmin runs before the server starts accepting requests.
func SeedRootAdmin(lc fx.Lifecycle, accountService services.AccountServiceInterface) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return accountService.EnsureRootAdmin(ctx)
		},
	})
}

func StartServer(lc fx.Lifecycle, shutdowner fx.Shutdowner, engine *gin.Engine, cfg *config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			log.Info("starting HTTP server", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("HTTP server stopped", zap.Error(err))
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}
