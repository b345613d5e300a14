package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"latent/internal/api/controllers"
	"latent/pkg/middleware"
	"latent/pkg/utils"
)

type RouterParams struct {
	Log            *zap.Logger
	JWT            *utils.JWTManager
	AllowedOrigins []string

	Accounts *controllers.AccountController
	Admin    *controllers.AdminController
	Videos   *controllers.VideoController
}

func NewRouter(p RouterParams) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.RequestLogger(p.Log))
	r.Use(middleware.CORSMiddleware(p.AllowedOrigins))

	RegisterRoutes(r, p)
	return r
}

func RegisterRoutes(r *gin.Engine, p RouterParams) {
	auth := middleware.JWTAuthMiddleware(p.JWT)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := r.Group("/api")

	authGroup := apiGroup.Group("/auth")
	authGroup.POST("/signup", p.Accounts.Register)
	authGroup.POST("/login", p.Accounts.Login)
	authGroup.GET("/check-auth", auth, p.Accounts.CheckAuth)
	authGroup.PUT("/profile", auth, p.Accounts.UpdateProfile)

	adminGroup := apiGroup.Group("/admin", auth)
	adminGroup.GET("/pending-requests", p.Admin.PendingRequests)
	adminGroup.POST("/approve-user", p.Admin.ApproveUser)
	adminGroup.POST("/approve-role-request", p.Admin.ApproveUser)
	adminGroup.POST("/promote-to-admin", p.Admin.PromoteToAdmin)
	adminGroup.GET("/all-users", p.Admin.AllUsers)
	adminGroup.GET("/stats", p.Admin.Stats)
	adminGroup.DELETE("/videos/:id", p.Admin.DeleteVideo)

	videoGroup := apiGroup.Group("/videos")
	videoGroup.GET("", p.Videos.ListVideos)
	videoGroup.GET("/rankings", p.Videos.Rankings)
	videoGroup.GET("/:id", p.Videos.GetVideo)
	videoGroup.POST("", auth, p.Videos.SubmitVideo)
	videoGroup.POST("/:id/ratings", auth, p.Videos.RateVideo)
}
