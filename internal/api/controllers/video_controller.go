package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"latent/internal/models/request_models"
	"latent/internal/services"
	"latent/pkg/middleware"
	"latent/pkg/utils"
)

type VideoController struct {
	videoService services.VideoServiceInterface
}

func NewVideoController(videoService services.VideoServiceInterface) *VideoController {
	return &VideoController{videoService: videoService}
}

// SubmitVideo godoc
// @Summary Submit a talent video
// @Tags Videos
// @Accept json
// @Produce json
// @Param request body request_models.SubmitVideoRequest true "Video payload"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /videos [post]
func (v *VideoController) SubmitVideo(c *gin.Context) {
	callerID, ok := middleware.CurrentAccountID(c)
	if !ok {
		utils.HandleServiceError(c, utils.ErrMissingToken)
		return
	}

	var req request_models.SubmitVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	video, err := v.videoService.Submit(c.Request.Context(), callerID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, video, "Video submitted successfully")
}

// RateVideo godoc
// @Summary Rate a video
// @Description Audience members and admins score a video from 1 to 5
// @Tags Videos
// @Accept json
// @Produce json
// @Param id path string true "Video ID"
// @Param request body request_models.RateVideoRequest true "Score"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /videos/{id}/ratings [post]
func (v *VideoController) RateVideo(c *gin.Context) {
	callerID, ok := middleware.CurrentAccountID(c)
	if !ok {
		utils.HandleServiceError(c, utils.ErrMissingToken)
		return
	}

	videoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid video ID")
		return
	}

	var req request_models.RateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	video, err := v.videoService.Rate(c.Request.Context(), callerID, videoID, req.Rating)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, video, "Rating recorded")
}

// ListVideos godoc
// @Summary List videos
// @Description Get a paginated list of videos, newest first
// @Tags Videos
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10) minimum(1) maximum(100)
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /videos [get]
func (v *VideoController) ListVideos(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		utils.HandleServiceError(c, utils.ErrInvalidPage)
		return
	}

	pageSize, err := strconv.Atoi(c.DefaultQuery("pageSize", "10"))
	if err != nil {
		utils.HandleServiceError(c, utils.ErrInvalidPageSize)
		return
	}

	videos, err := v.videoService.List(c.Request.Context(), page, pageSize)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, videos, "Videos fetched successfully")
}

// GetVideo godoc
// @Summary Get a video
// @Tags Videos
// @Param id path string true "Video ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /videos/{id} [get]
func (v *VideoController) GetVideo(c *gin.Context) {
	videoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid video ID")
		return
	}

	video, err := v.videoService.Get(c.Request.Context(), videoID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, video, "Video fetched successfully")
}

// Rankings godoc
// @Summary Video leaderboard
// @Description Highest average rating first; ties broken by number of ratings, then age
// @Tags Videos
// @Param limit query int false "Number of entries" default(10) minimum(1) maximum(100)
// @Success 200 {object} utils.APIResponse
// @Router /videos/rankings [get]
func (v *VideoController) Rankings(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(services.DefaultRankingLimit)))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid limit")
		return
	}

	rankings, err := v.videoService.Rankings(c.Request.Context(), limit)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, gin.H{"rankings": rankings}, "Rankings fetched successfully")
}
