package db_models

type Role string

const (
	RoleParticipant Role = "participant"
	RoleAudience    Role = "audience"
	RoleAdmin       Role = "admin"
)

// Privileged roles are never self-granted at registration.
func (r Role) Privileged() bool {
	return r == RoleAudience || r == RoleAdmin
}

func (r Role) Valid() bool {
	switch r {
	case RoleParticipant, RoleAudience, RoleAdmin:
		return true
	}
	return false
}

type ApprovalState string

const (
	ApprovalApproved ApprovalState = "approved"
	ApprovalPending  ApprovalState = "pending"
	ApprovalRejected ApprovalState = "rejected"
)

type Account struct {
	BaseModel
	FirstName     string        `gorm:"not null"`
	LastName      string        `gorm:"not null"`
	Email         string        `gorm:"uniqueIndex:accounts_email_key;not null"`
	PasswordHash  string        `gorm:"not null" json:"-"`
	AvatarURL     string        `gorm:"column:avatar_url;not null;default:''"`
	Bio           string        `gorm:"not null;default:''"`
	Role          Role          `gorm:"type:varchar(16);not null;default:'participant'"`
	ApprovalState ApprovalState `gorm:"type:varchar(16);not null;default:'approved'"`
	RequestedRole *Role         `gorm:"type:varchar(16)"`
}

func (a *Account) DisplayName() string {
	if a.LastName == "" {
		return a.FirstName
	}
	return a.FirstName + " " + a.LastName
}
