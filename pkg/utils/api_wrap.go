package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	respond(c, http.StatusOK, "success", message, data)
}

func RespondCreated(c *gin.Context, data interface{}, message string) {
	respond(c, http.StatusCreated, "success", message, data)
}

func RespondError(c *gin.Context, code int, message string) {
	respond(c, code, "error", message, nil)
}

func respond(c *gin.Context, code int, status, message string, data interface{}) {
	c.JSON(code, APIResponse{
		Status:  status,
		Code:    code,
		Message: message,
		TraceID: c.GetString("trace_id"),
		Data:    data,
	})
}

// HandleServiceError maps the service error taxonomy onto HTTP statuses.
// Unknown errors are logged with the request logger and reported as 500.
func HandleServiceError(c *gin.Context, err error) {
	var pending *PendingApprovalError

	switch {
	case errors.As(err, &pending):
		respond(c, http.StatusForbidden, "error", "Your account is pending admin approval", gin.H{
			"approvalRequestPending": true,
			"requestedRole":          pending.RequestedRole,
		})
	case errors.Is(err, ErrEmailAlreadyExists):
		RespondError(c, http.StatusBadRequest, "Email is already in use")
	case errors.Is(err, ErrInvalidRole):
		RespondError(c, http.StatusBadRequest, "Role must be one of: participant, audience, admin")
	case errors.Is(err, ErrPasswordTooLong):
		RespondError(c, http.StatusBadRequest, "Password must be at most 72 bytes")
	case errors.Is(err, ErrAccountNotFound):
		RespondError(c, http.StatusNotFound, "User not found")
	case errors.Is(err, ErrInvalidCredentials):
		RespondError(c, http.StatusBadRequest, "Invalid credentials")
	case errors.Is(err, ErrForbidden):
		RespondError(c, http.StatusForbidden, "Access denied. Admin only.")
	case errors.Is(err, ErrMissingToken):
		RespondError(c, http.StatusForbidden, "Access denied, no token provided")
	case errors.Is(err, ErrInvalidToken):
		RespondError(c, http.StatusUnauthorized, "Invalid or expired token")
	case errors.Is(err, ErrNotPending):
		RespondError(c, http.StatusConflict, "User has no pending role request")
	case errors.Is(err, ErrVideoNotFound):
		RespondError(c, http.StatusNotFound, "Video not found")
	case errors.Is(err, ErrInvalidRating):
		RespondError(c, http.StatusBadRequest, "Rating must be between 1 and 5")
	case errors.Is(err, ErrInvalidPage):
		RespondError(c, http.StatusBadRequest, "Page must be greater than 0")
	case errors.Is(err, ErrInvalidPageSize):
		RespondError(c, http.StatusBadRequest, "Page size must be between 1 and 100")
	case errors.Is(err, ErrDatabaseError):
		requestLogger(c).Error("database error", zap.Error(err))
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	default:
		requestLogger(c).Error("unhandled service error", zap.Error(err))
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}

// LoggerKey is the gin context key under which the request-scoped logger is stored.
const LoggerKey = "logger"

func requestLogger(c *gin.Context) *zap.Logger {
	if v, ok := c.Get(LoggerKey); ok {
		if l, ok := v.(*zap.Logger); ok {
			return l
		}
	}
	return zap.L()
}
