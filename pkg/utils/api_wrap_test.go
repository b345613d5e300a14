package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serveError(err error) (*httptest.ResponseRecorder, APIResponse) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("trace_id", "trace-1")
	HandleServiceError(c, err)

	var body APIResponse
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestHandleServiceError_Statuses(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{ErrEmailAlreadyExists, http.StatusBadRequest},
		{ErrInvalidRole, http.StatusBadRequest},
		{fmt.Errorf("%w: %q", ErrInvalidRole, "judge"), http.StatusBadRequest},
		{ErrPasswordTooLong, http.StatusBadRequest},
		{ErrAccountNotFound, http.StatusNotFound},
		{ErrInvalidCredentials, http.StatusBadRequest},
		{ErrForbidden, http.StatusForbidden},
		{ErrMissingToken, http.StatusForbidden},
		{ErrInvalidToken, http.StatusUnauthorized},
		{ErrNotPending, http.StatusConflict},
		{ErrVideoNotFound, http.StatusNotFound},
		{ErrInvalidRating, http.StatusBadRequest},
		{ErrInvalidPage, http.StatusBadRequest},
		{ErrInvalidPageSize, http.StatusBadRequest},
		{fmt.Errorf("insert: %w: %w", ErrDatabaseError, errors.New("boom")), http.StatusInternalServerError},
		{errors.New("surprise"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			w, body := serveError(tt.err)
			assert.Equal(t, tt.code, w.Code)
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, "error", body.Status)
			assert.Equal(t, "trace-1", body.TraceID)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestHandleServiceError_PendingApproval(t *testing.T) {
	w, _ := serveError(&PendingApprovalError{RequestedRole: "audience"})
	require.Equal(t, http.StatusForbidden, w.Code)

	var body struct {
		Data struct {
			ApprovalRequestPending bool   `json:"approvalRequestPending"`
			RequestedRole          string `json:"requestedRole"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Data.ApprovalRequestPending)
	assert.Equal(t, "audience", body.Data.RequestedRole)
}

func TestPendingApprovalError_Is(t *testing.T) {
	err := fmt.Errorf("login: %w", &PendingApprovalError{RequestedRole: "admin"})
	assert.ErrorIs(t, err, ErrPendingApproval)
	assert.NotErrorIs(t, err, ErrForbidden)
}
