package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"latent/internal/models/db_models"
	"latent/pkg/utils"
)

type AccountRepository interface {
	// Insert returns utils.ErrEmailAlreadyExists when the unique email index rejects the row.
	Insert(ctx context.Context, account *db_models.Account) error
	FindById(ctx context.Context, id uuid.UUID) (*db_models.Account, error)
	FindByEmail(ctx context.Context, email string) (*db_models.Account, error)
	UpdateProfile(ctx context.Context, account *db_models.Account) error
	// UpdateRoleState unconditionally writes role, approval state and requested role.
	UpdateRoleState(ctx context.Context, account *db_models.Account) error
	// ResolvePending writes the same columns only while the stored row is still pending;
	// it returns utils.ErrNotPending when another decision got there first.
	ResolvePending(ctx context.Context, account *db_models.Account) error
	ListByApprovalState(ctx context.Context, state db_models.ApprovalState) ([]db_models.Account, error)
	ListAll(ctx context.Context) ([]db_models.Account, error)
}

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{
		db: db,
	}
}

func (a *accountRepository) Insert(ctx context.Context, account *db_models.Account) error {
	err := a.db.WithContext(ctx).Create(account).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return utils.ErrEmailAlreadyExists
	}
	return err
}

func (a *accountRepository) FindById(ctx context.Context, id uuid.UUID) (*db_models.Account, error) {
	var account db_models.Account
	err := a.db.WithContext(ctx).First(&account, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &account, nil
}

func (a *accountRepository) FindByEmail(ctx context.Context, email string) (*db_models.Account, error) {
	var account db_models.Account
	err := a.db.WithContext(ctx).First(&account, "email = ?", email).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &account, nil
}

func (a *accountRepository) UpdateProfile(ctx context.Context, account *db_models.Account) error {
	account.UpdatedAt = time.Now().UTC()
	res := a.db.WithContext(ctx).
		Model(&db_models.Account{}).
		Where("id = ?", account.ID).
		Updates(map[string]interface{}{
			"first_name": account.FirstName,
			"last_name":  account.LastName,
			"bio":        account.Bio,
			"avatar_url": account.AvatarURL,
			"updated_at": account.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrAccountNotFound
	}
	return nil
}

func (a *accountRepository) UpdateRoleState(ctx context.Context, account *db_models.Account) error {
	account.UpdatedAt = time.Now().UTC()
	res := a.db.WithContext(ctx).
		Model(&db_models.Account{}).
		Where("id = ?", account.ID).
		Updates(roleStateColumns(account))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrAccountNotFound
	}
	return nil
}

func (a *accountRepository) ResolvePending(ctx context.Context, account *db_models.Account) error {
	account.UpdatedAt = time.Now().UTC()
	res := a.db.WithContext(ctx).
		Model(&db_models.Account{}).
		Where("id = ? AND approval_state = ?", account.ID, db_models.ApprovalPending).
		Updates(roleStateColumns(account))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotPending
	}
	return nil
}

// A map is used so that a nil requested role is written as NULL.
func roleStateColumns(account *db_models.Account) map[string]interface{} {
	return map[string]interface{}{
		"role":           account.Role,
		"approval_state": account.ApprovalState,
		"requested_role": account.RequestedRole,
		"updated_at":     account.UpdatedAt,
	}
}

func (a *accountRepository) ListByApprovalState(ctx context.Context, state db_models.ApprovalState) ([]db_models.Account, error) {
	var accounts []db_models.Account
	err := a.db.WithContext(ctx).
		Where("approval_state = ?", state).
		Order("created_at ASC").
		Find(&accounts).Error
	return accounts, err
}

func (a *accountRepository) ListAll(ctx context.Context) ([]db_models.Account, error) {
	var accounts []db_models.Account
	err := a.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&accounts).Error
	return accounts, err
}
