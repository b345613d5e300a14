package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"latent/internal/models/request_models"
	"latent/internal/models/response_models"
	"latent/internal/services"
	"latent/pkg/middleware"
	"latent/pkg/utils"
)

type AdminController struct {
	adminService services.AdminServiceInterface
}

func NewAdminController(adminService services.AdminServiceInterface) *AdminController {
	return &AdminController{
		adminService: adminService,
	}
}

// PendingRequests godoc
// @Summary List pending role requests
// @Description Accounts waiting for an audience or admin decision, oldest first
// @Tags Admin
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/pending-requests [get]
func (a *AdminController) PendingRequests(c *gin.Context) {
	callerID, ok := middleware.CurrentAccountID(c)
	if !ok {
		utils.HandleServiceError(c, utils.ErrMissingToken)
		return
	}

	pending, err := a.adminService.ListPending(c.Request.Context(), callerID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, gin.H{"pendingRequests": pending}, "Pending requests fetched successfully")
}

// ApproveUser godoc
// @Summary Approve or reject a role request
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body request_models.ApproveUserRequest true "Decision"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/approve-user [post]
func (a *AdminController) ApproveUser(c *gin.Context) {
	callerID, ok := middleware.CurrentAccountID(c)
	if !ok {
		utils.HandleServiceError(c, utils.ErrMissingToken)
		return
	}

	var req request_models.ApproveUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	targetID, err := uuid.Parse(req.UserID)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid user ID")
		return
	}

	user, err := a.adminService.Decide(c.Request.Context(), callerID, targetID, *req.Approve)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	message := "Role request rejected"
	if *req.Approve {
		message = "Role request approved"
	}
	utils.RespondSuccess(c, gin.H{"user": user}, message)
}

// PromoteToAdmin godoc
// @Summary Promote an account to admin
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body request_models.PromoteUserRequest true "Account to promote"
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/promote-to-admin [post]
func (a *AdminController) PromoteToAdmin(c *gin.Context) {
	callerID, ok := middleware.CurrentAccountID(c)
	if !ok {
		utils.HandleServiceError(c, utils.ErrMissingToken)
		return
	}

	var req request_models.PromoteUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	targetID, err := uuid.Parse(req.UserID)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid user ID")
		return
	}

	user, err := a.adminService.Promote(c.Request.Context(), callerID, targetID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, gin.H{"user": user}, "User promoted to admin")
}

// AllUsers godoc
// @Summary List every account
// @Tags Admin
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/all-users [get]
func (a *AdminController) AllUsers(c *gin.Context) {
	callerID, ok := middleware.CurrentAccountID(c)
	if !ok {
		utils.HandleServiceError(c, utils.ErrMissingToken)
		return
	}

	users, err := a.adminService.ListAll(c.Request.Context(), callerID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, gin.H{"users": users}, "Users fetched successfully")
}

// DeleteVideo godoc
// @Summary Remove a video
// @Tags Admin
// @Produce json
// @Param id path string true "Video ID"
// @Success 200 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/videos/{id} [delete]
func (a *AdminController) DeleteVideo(c *gin.Context) {
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

	if err := a.adminService.DeleteVideo(c.Request.Context(), callerID, videoID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Video deleted successfully")
}

// Stats godoc
// @Summary Get dashboard report
// @Description KPI block, new users series, role mix and top videos
// @Tags Admin
// @Produce json
// @Param start     query string false "RFC3339 start (e.g. 2025-10-01T00:00:00Z)"
// @Param end       query string false "RFC3339 end"
// @Param last_days query int    false "Relative lookback in days (mutually exclusive with start/end). Default 30"
// @Param interval  query string false "Bucket size: day | week | month (default: day)"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Security BearerAuth
// @Router /admin/stats [get]
func (a *AdminController) Stats(c *gin.Context) {
	callerID, ok := middleware.CurrentAccountID(c)
	if !ok {
		utils.HandleServiceError(c, utils.ErrMissingToken)
		return
	}

	rng, msg := parseTimeRange(c)
	if msg != "" {
		utils.RespondError(c, http.StatusBadRequest, msg)
		return
	}

	report, err := a.adminService.Stats(c.Request.Context(), callerID, rng)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, report, "Dashboard data fetched successfully")
}

// parseTimeRange reads interval, last_days and start/end. Missing bounds are left zero and
// defaulted by the dashboard service. A non-empty message means the query was invalid.
func parseTimeRange(c *gin.Context) (response_models.TimeRange, string) {
	var rng response_models.TimeRange

	rng.Interval = c.DefaultQuery("interval", "day")
	switch rng.Interval {
	case "day", "week", "month":
	default:
		return rng, "interval must be one of: day, week, month"
	}

	startStr := c.Query("start")
	endStr := c.Query("end")
	lastDaysStr := c.Query("last_days")

	if lastDaysStr != "" && (startStr != "" || endStr != "") {
		return rng, "provide either last_days or start/end (not both)"
	}

	if lastDaysStr != "" {
		d, err := strconv.Atoi(lastDaysStr)
		if err != nil || d <= 0 {
			return rng, "last_days must be a positive integer"
		}
		rng.End = time.Now().UTC()
		rng.Start = rng.End.AddDate(0, 0, -d)
		return rng, ""
	}

	var err error
	if startStr != "" {
		if rng.Start, err = time.Parse(time.RFC3339, startStr); err != nil {
			return rng, "start must be RFC3339 (e.g. 2025-10-01T00:00:00Z)"
		}
	}
	if endStr != "" {
		if rng.End, err = time.Parse(time.RFC3339, endStr); err != nil {
			return rng, "end must be RFC3339 (e.g. 2025-10-19T23:59:59Z)"
		}
	}
	return rng, ""
}
