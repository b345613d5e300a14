package services

import (
	"fmt"

	"latent/internal/models/db_models"
	"latent/pkg/utils"
)

// InitialState is the role/approval triple assigned to a new account.
type InitialState struct {
	Role          db_models.Role
	ApprovalState db_models.ApprovalState
	RequestedRole *db_models.Role
}

// ParseRole validates a role submitted by a client. An empty value means participant;
// anything else must match a role name exactly.
func ParseRole(s string) (db_models.Role, error) {
	if s == "" {
		return db_models.RoleParticipant, nil
	}
	role := db_models.Role(s)
	if !role.Valid() {
		return "", fmt.Errorf("%w: %q", utils.ErrInvalidRole, s)
	}
	return role, nil
}

// DecideInitialState assigns the starting role and approval state for a registration.
// The root email always becomes an approved admin, whatever role it asked for. Privileged
// requests from anyone else start pending and keep participant access until decided.
func DecideInitialState(email string, requested db_models.Role, rootEmail string) InitialState {
	if rootEmail != "" && email == rootEmail {
		return InitialState{
			Role:          db_models.RoleAdmin,
			ApprovalState: db_models.ApprovalApproved,
		}
	}

	if !requested.Privileged() {
		return InitialState{
			Role:          db_models.RoleParticipant,
			ApprovalState: db_models.ApprovalApproved,
			RequestedRole: rolePtr(db_models.RoleParticipant),
		}
	}

	return InitialState{
		Role:          db_models.RoleParticipant,
		ApprovalState: db_models.ApprovalPending,
		RequestedRole: rolePtr(requested),
	}
}

func (s InitialState) Apply(account *db_models.Account) {
	account.Role = s.Role
	account.ApprovalState = s.ApprovalState
	account.RequestedRole = s.RequestedRole
}

// DisposePendingRequest applies an administrator's decision to a pending account in
// memory. Approval grants the requested role; rejection leaves the role untouched and
// resets the request to participant. Accounts that are not pending are left unchanged
// and utils.ErrNotPending is returned.
func DisposePendingRequest(account *db_models.Account, approve bool) error {
	if account.ApprovalState != db_models.ApprovalPending {
		return utils.ErrNotPending
	}

	if approve {
		role := db_models.RoleParticipant
		if account.RequestedRole != nil && account.RequestedRole.Valid() {
			role = *account.RequestedRole
		}
		account.Role = role
		account.ApprovalState = db_models.ApprovalApproved
		account.RequestedRole = nil
		return nil
	}

	account.ApprovalState = db_models.ApprovalRejected
	account.RequestedRole = rolePtr(db_models.RoleParticipant)
	return nil
}

// Promote grants admin directly, without a pending request.
func Promote(account *db_models.Account) {
	account.Role = db_models.RoleAdmin
	account.ApprovalState = db_models.ApprovalApproved
	account.RequestedRole = rolePtr(db_models.RoleAdmin)
}

// ForceRootAdmin restores the root account invariant.
func ForceRootAdmin(account *db_models.Account) bool {
	changed := account.Role != db_models.RoleAdmin ||
		account.ApprovalState != db_models.ApprovalApproved ||
		account.RequestedRole == nil || *account.RequestedRole != db_models.RoleAdmin
	Promote(account)
	return changed
}

func rolePtr(r db_models.Role) *db_models.Role {
	return &r
}
