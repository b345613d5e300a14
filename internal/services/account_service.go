package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"latent/internal/models/db_models"
	"latent/internal/models/request_models"
	"latent/internal/models/response_models"
	"latent/internal/repositories"
	"latent/pkg/utils"
)

type AccountServiceInterface interface {
	Register(ctx context.Context, request request_models.SignUpRequest) (*response_models.AuthResponse, error)
	Login(ctx context.Context, request request_models.LoginRequest) (*response_models.AuthResponse, error)
	CheckAuth(ctx context.Context, accountID uuid.UUID) (*response_models.AccountResponse, error)
	UpdateProfile(ctx context.Context, accountID uuid.UUID, request request_models.UpdateProfileRequest) (*response_models.AccountResponse, error)
	EnsureRootAdmin(ctx context.Context) error
}

type RootAdmin struct {
	Email    string
	Password string
}

type AccountService struct {
	accountRepo repositories.AccountRepository
	hasher      *utils.PasswordHasher
	tokens      *utils.JWTManager
	root        RootAdmin
	log         *zap.Logger
	avatarURL   func() string
}

func NewAccountService(
	accountRepo repositories.AccountRepository,
	hasher *utils.PasswordHasher,
	tokens *utils.JWTManager,
	root RootAdmin,
	log *zap.Logger,
) AccountServiceInterface {
	return &AccountService{
		accountRepo: accountRepo,
		hasher:      hasher,
		tokens:      tokens,
		root:        root,
		log:         log.Named("accounts"),
		avatarURL:   randomAvatarURL,
	}
}

func randomAvatarURL() string {
	return fmt.Sprintf("https://avatar.iran.liara.run/public/%d", rand.IntN(100)+1)
}

func (a *AccountService) isRoot(email string) bool {
	return a.root.Email != "" && email == a.root.Email
}

func (a *AccountService) Register(ctx context.Context, request request_models.SignUpRequest) (*response_models.AuthResponse, error) {
	requested, err := ParseRole(request.Role)
	if err != nil {
		return nil, err
	}

	// Fast path only; the unique index on email is what actually prevents duplicates.
	existingAccount, err := a.accountRepo.FindByEmail(ctx, request.Email)
	if err != nil {
		return nil, dbError("find account by email", err)
	}
	if existingAccount != nil {
		return nil, utils.ErrEmailAlreadyExists
	}

	hashedPassword, err := a.hasher.HashPassword(request.Password)
	if err != nil {
		return nil, err
	}

	newAccount := &db_models.Account{
		FirstName:    strings.TrimSpace(request.FirstName),
		LastName:     strings.TrimSpace(request.LastName),
		Email:        request.Email,
		PasswordHash: hashedPassword,
		AvatarURL:    a.avatarURL(),
	}
	DecideInitialState(request.Email, requested, a.root.Email).Apply(newAccount)

	if err := a.accountRepo.Insert(ctx, newAccount); err != nil {
		if errors.Is(err, utils.ErrEmailAlreadyExists) {
			return nil, utils.ErrEmailAlreadyExists
		}
		return nil, dbError("insert account", err)
	}

	a.log.Info("account registered",
		zap.String("account_id", newAccount.ID.String()),
		zap.String("role", string(newAccount.Role)),
		zap.String("approval_state", string(newAccount.ApprovalState)))

	return a.issue(newAccount)
}

func (a *AccountService) Login(ctx context.Context, request request_models.LoginRequest) (*response_models.AuthResponse, error) {
	startTime := time.Now()

	account, err := a.accountRepo.FindByEmail(ctx, request.Email)
	if err != nil {
		return nil, dbError("find account by email", err)
	}
	if account == nil {
		return nil, utils.ErrAccountNotFound
	}

	if err := a.hasher.ComparePasswords(account.PasswordHash, request.Password); err != nil {
		return nil, err
	}

	if account.ApprovalState == db_models.ApprovalPending && !a.isRoot(account.Email) {
		requested := ""
		if account.RequestedRole != nil {
			requested = string(*account.RequestedRole)
		}
		return nil, &utils.PendingApprovalError{RequestedRole: requested}
	}

	resp, err := a.issue(account)
	if err != nil {
		return nil, err
	}

	a.log.Debug("login succeeded",
		zap.String("account_id", account.ID.String()),
		zap.Duration("took", time.Since(startTime)))

	return resp, nil
}

func (a *AccountService) issue(account *db_models.Account) (*response_models.AuthResponse, error) {
	token, err := a.tokens.CreateToken(account.ID, account.Email)
	if err != nil {
		return nil, fmt.Errorf("create token: %w", err)
	}
	return &response_models.AuthResponse{
		Token: token,
		User:  response_models.NewAccountResponse(account),
	}, nil
}

func (a *AccountService) CheckAuth(ctx context.Context, accountID uuid.UUID) (*response_models.AccountResponse, error) {
	account, err := a.accountRepo.FindById(ctx, accountID)
	if err != nil {
		return nil, dbError("find account", err)
	}
	if account == nil {
		return nil, utils.ErrAccountNotFound
	}
	resp := response_models.NewAccountResponse(account)
	return &resp, nil
}

func (a *AccountService) UpdateProfile(ctx context.Context, accountID uuid.UUID, request request_models.UpdateProfileRequest) (*response_models.AccountResponse, error) {
	account, err := a.accountRepo.FindById(ctx, accountID)
	if err != nil {
		return nil, dbError("find account", err)
	}
	if account == nil {
		return nil, utils.ErrAccountNotFound
	}

	if request.FirstName != nil {
		account.FirstName = strings.TrimSpace(*request.FirstName)
	}
	if request.LastName != nil {
		account.LastName = strings.TrimSpace(*request.LastName)
	}
	if request.Bio != nil {
		account.Bio = strings.TrimSpace(*request.Bio)
	}
	if request.AvatarURL != nil {
		account.AvatarURL = strings.TrimSpace(*request.AvatarURL)
	}

	if err := a.accountRepo.UpdateProfile(ctx, account); err != nil {
		if errors.Is(err, utils.ErrAccountNotFound) {
			return nil, err
		}
		return nil, dbError("update profile", err)
	}

	resp := response_models.NewAccountResponse(account)
	return &resp, nil
}

// EnsureRootAdmin makes sure the root account exists as an approved admin. It upgrades an
// existing account in place and creates one from the configured root password. Without a
// password and without an existing account it returns ErrRootAdminMissing.
func (a *AccountService) EnsureRootAdmin(ctx context.Context) error {
	if a.root.Email == "" {
		return nil
	}

	existing, err := a.accountRepo.FindByEmail(ctx, a.root.Email)
	if err != nil {
		return dbError("find root admin", err)
	}

	if existing != nil {
		if !ForceRootAdmin(existing) {
			return nil
		}
		if err := a.accountRepo.UpdateRoleState(ctx, existing); err != nil {
			return dbError("update root admin", err)
		}
		a.log.Info("root admin privileges restored", zap.String("email", a.root.Email))
		return nil
	}

	if a.root.Password == "" {
		a.log.Error("root admin is not seeded", zap.String("email", a.root.Email))
		return ErrRootAdminMissing
	}

	hashedPassword, err := a.hasher.HashPassword(a.root.Password)
	if err != nil {
		return err
	}
	root := &db_models.Account{
		FirstName:    "Root",
		LastName:     "Admin",
		Email:        a.root.Email,
		PasswordHash: hashedPassword,
		AvatarURL:    a.avatarURL(),
		Bio:          "Original Administrator",
	}
	ForceRootAdmin(root)

	if err := a.accountRepo.Insert(ctx, root); err != nil {
		// Another instance seeded it concurrently.
		if errors.Is(err, utils.ErrEmailAlreadyExists) {
			return nil
		}
		return dbError("insert root admin", err)
	}
	a.log.Info("root admin created", zap.String("email", a.root.Email))
	return nil
}
