package request_models

type ApproveUserRequest struct {
	UserID string `json:"userId" binding:"required,uuid"`
	// Pointer so that an explicit false is distinguishable from a missing field.
	Approve *bool `json:"approve" binding:"required"`
}

type PromoteUserRequest struct {
	UserID string `json:"userId" binding:"required,uuid"`
}
