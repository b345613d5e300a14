package dashboard

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"latent/internal/repositories"
	"latent/internal/services"
)

var Module = fx.Provide(
	provideDashboardRepo, provideDashboardService,
)

func provideDashboardRepo(db *gorm.DB) repositories.DashboardRepository {
	return repositories.NewDashboardRepository(db)
}

func provideDashboardService(
	dashboardRepo repositories.DashboardRepository,
	videoRepo repositories.VideoRepositoryInterface,
) services.DashboardService {
	return services.NewDashboardService(dashboardRepo, videoRepo)
}
