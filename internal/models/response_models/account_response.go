package response_models

import (
	"time"

	"latent/internal/models/db_models"
)

// AccountResponse is the public-safe projection of an account: every field except the password hash.
type AccountResponse struct {
	ID            string                  `json:"id"`
	FirstName     string                  `json:"firstName"`
	LastName      string                  `json:"lastName"`
	Email         string                  `json:"email"`
	Avatar        string                  `json:"avatar"`
	Bio           string                  `json:"bio"`
	Role          db_models.Role          `json:"role"`
	ApprovalState db_models.ApprovalState `json:"approvalState"`
	RequestedRole *db_models.Role         `json:"requestedRole"`
	CreatedAt     time.Time               `json:"createdAt"`
}

type AuthResponse struct {
	Token string          `json:"token"`
	User  AccountResponse `json:"user"`
}

type PendingRequestResponse struct {
	ID            string          `json:"id"`
	FirstName     string          `json:"firstName"`
	LastName      string          `json:"lastName"`
	Email         string          `json:"email"`
	RequestedRole *db_models.Role `json:"requestedRole"`
	CreatedAt     time.Time       `json:"createdAt"`
}

func NewAccountResponse(a *db_models.Account) AccountResponse {
	return AccountResponse{
		ID:            a.ID.String(),
		FirstName:     a.FirstName,
		LastName:      a.LastName,
		Email:         a.Email,
		Avatar:        a.AvatarURL,
		Bio:           a.Bio,
		Role:          a.Role,
		ApprovalState: a.ApprovalState,
		RequestedRole: a.RequestedRole,
		CreatedAt:     a.CreatedAt,
	}
}

func NewPendingRequestResponse(a *db_models.Account) PendingRequestResponse {
	return PendingRequestResponse{
		ID:            a.ID.String(),
		FirstName:     a.FirstName,
		LastName:      a.LastName,
		Email:         a.Email,
		RequestedRole: a.RequestedRole,
		CreatedAt:     a.CreatedAt,
	}
}
