package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"latent/internal/models/db_models"
	"latent/internal/models/response_models"
	"latent/internal/repositories"
	"latent/pkg/utils"
)

type AdminServiceInterface interface {
	ListPending(ctx context.Context, callerID uuid.UUID) ([]response_models.PendingRequestResponse, error)
	Decide(ctx context.Context, callerID, accountID uuid.UUID, approve bool) (*response_models.AccountResponse, error)
	Promote(ctx context.Context, callerID, accountID uuid.UUID) (*response_models.AccountResponse, error)
	ListAll(ctx context.Context, callerID uuid.UUID) ([]response_models.AccountResponse, error)
	DeleteVideo(ctx context.Context, callerID, videoID uuid.UUID) error
	Stats(ctx context.Context, callerID uuid.UUID, rng response_models.TimeRange) (*response_models.DashboardReport, error)
}

type AdminService struct {
	accountRepo repositories.AccountRepository
	videoRepo   repositories.VideoRepositoryInterface
	dashboard   DashboardService
	mail        IMailService
	log         *zap.Logger
}

func NewAdminService(
	accountRepo repositories.AccountRepository,
	videoRepo repositories.VideoRepositoryInterface,
	dashboard DashboardService,
	mail IMailService,
	log *zap.Logger,
) AdminServiceInterface {
	return &AdminService{
		accountRepo: accountRepo,
		videoRepo:   videoRepo,
		dashboard:   dashboard,
		mail:        mail,
		log:         log.Named("admin"),
	}
}

// requireAdmin reloads the caller so a demotion or deletion takes effect on the next request,
// regardless of what the caller's token says.
func requireAdmin(ctx context.Context, repo repositories.AccountRepository, callerID uuid.UUID) (*db_models.Account, error) {
	caller, err := repo.FindById(ctx, callerID)
	if err != nil {
		return nil, dbError("find caller", err)
	}
	if caller == nil || caller.Role != db_models.RoleAdmin {
		return nil, utils.ErrForbidden
	}
	return caller, nil
}

func (s *AdminService) ListPending(ctx context.Context, callerID uuid.UUID) ([]response_models.PendingRequestResponse, error) {
	if _, err := requireAdmin(ctx, s.accountRepo, callerID); err != nil {
		return nil, err
	}

	accounts, err := s.accountRepo.ListByApprovalState(ctx, db_models.ApprovalPending)
	if err != nil {
		return nil, dbError("list pending accounts", err)
	}

	out := make([]response_models.PendingRequestResponse, 0, len(accounts))
	for i := range accounts {
		out = append(out, response_models.NewPendingRequestResponse(&accounts[i]))
	}
	return out, nil
}

func (s *AdminService) Decide(ctx context.Context, callerID, accountID uuid.UUID, approve bool) (*response_models.AccountResponse, error) {
	caller, err := requireAdmin(ctx, s.accountRepo, callerID)
	if err != nil {
		return nil, err
	}

	target, err := s.accountRepo.FindById(ctx, accountID)
	if err != nil {
		return nil, dbError("find account", err)
	}
	if target == nil {
		return nil, utils.ErrAccountNotFound
	}

	if err := DisposePendingRequest(target, approve); err != nil {
		return nil, err
	}
	if err := s.accountRepo.ResolvePending(ctx, target); err != nil {
		if errors.Is(err, utils.ErrNotPending) || errors.Is(err, utils.ErrAccountNotFound) {
			return nil, err
		}
		return nil, dbError("resolve pending request", err)
	}

	s.log.Info("role request decided",
		zap.String("admin_id", caller.ID.String()),
		zap.String("account_id", target.ID.String()),
		zap.Bool("approved", approve),
		zap.String("role", string(target.Role)))

	if err := s.mail.SendRoleDecision(ctx, target, approve); err != nil {
		s.log.Warn("role decision mail failed",
			zap.String("account_id", target.ID.String()),
			zap.Error(err))
	}

	resp := response_models.NewAccountResponse(target)
	return &resp, nil
}

func (s *AdminService) Promote(ctx context.Context, callerID, accountID uuid.UUID) (*response_models.AccountResponse, error) {
	caller, err := requireAdmin(ctx, s.accountRepo, callerID)
	if err != nil {
		return nil, err
	}

	target, err := s.accountRepo.FindById(ctx, accountID)
	if err != nil {
		return nil, dbError("find account", err)
	}
	if target == nil {
		return nil, utils.ErrAccountNotFound
	}

	Promote(target)
	if err := s.accountRepo.UpdateRoleState(ctx, target); err != nil {
		if errors.Is(err, utils.ErrAccountNotFound) {
			return nil, err
		}
		return nil, dbError("promote account", err)
	}

	s.log.Info("account promoted to admin",
		zap.String("admin_id", caller.ID.String()),
		zap.String("account_id", target.ID.String()))

	resp := response_models.NewAccountResponse(target)
	return &resp, nil
}

func (s *AdminService) ListAll(ctx context.Context, callerID uuid.UUID) ([]response_models.AccountResponse, error) {
	if _, err := requireAdmin(ctx, s.accountRepo, callerID); err != nil {
		return nil, err
	}

	accounts, err := s.accountRepo.ListAll(ctx)
	if err != nil {
		return nil, dbError("list accounts", err)
	}

	out := make([]response_models.AccountResponse, 0, len(accounts))
	for i := range accounts {
		out = append(out, response_models.NewAccountResponse(&accounts[i]))
	}
	return out, nil
}

func (s *AdminService) DeleteVideo(ctx context.Context, callerID, videoID uuid.UUID) error {
	caller, err := requireAdmin(ctx, s.accountRepo, callerID)
	if err != nil {
		return err
	}

	if err := s.videoRepo.DeleteVideo(ctx, videoID); err != nil {
		if errors.Is(err, utils.ErrVideoNotFound) {
			return err
		}
		return dbError("delete video", err)
	}

	s.log.Info("video deleted",
		zap.String("admin_id", caller.ID.String()),
		zap.String("video_id", videoID.String()))
	return nil
}

func (s *AdminService) Stats(ctx context.Context, callerID uuid.UUID, rng response_models.TimeRange) (*response_models.DashboardReport, error) {
	if _, err := requireAdmin(ctx, s.accountRepo, callerID); err != nil {
		return nil, err
	}
	return s.dashboard.BuildDashboard(ctx, rng)
}
