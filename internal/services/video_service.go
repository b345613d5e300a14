package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"latent/internal/models/db_models"
	"latent/internal/models/request_models"
	"latent/internal/models/response_models"
	"latent/internal/repositories"
	"latent/pkg/utils"
)

const (
	DefaultRankingLimit = 10
	MaxRankingLimit     = 100
	MaxPageSize         = 100
)

type VideoServiceInterface interface {
	Submit(ctx context.Context, callerID uuid.UUID, request request_models.SubmitVideoRequest) (*response_models.VideoResponse, error)
	Rate(ctx context.Context, callerID, videoID uuid.UUID, score int) (*response_models.VideoResponse, error)
	List(ctx context.Context, page, pageSize int) ([]response_models.VideoResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*response_models.VideoResponse, error)
	Rankings(ctx context.Context, limit int) ([]response_models.RankingEntry, error)
}

type VideoService struct {
	videoRepo   repositories.VideoRepositoryInterface
	accountRepo repositories.AccountRepository
	log         *zap.Logger
}

func NewVideoService(
	videoRepo repositories.VideoRepositoryInterface,
	accountRepo repositories.AccountRepository,
	log *zap.Logger,
) VideoServiceInterface {
	return &VideoService{
		videoRepo:   videoRepo,
		accountRepo: accountRepo,
		log:         log.Named("videos"),
	}
}

func (s *VideoService) Submit(ctx context.Context, callerID uuid.UUID, request request_models.SubmitVideoRequest) (*response_models.VideoResponse, error) {
	if request.SelfRating < 1 || request.SelfRating > 5 {
		return nil, utils.ErrInvalidRating
	}

	owner := callerID
	video := &db_models.Video{
		OwnerID:    &owner,
		Name:       strings.TrimSpace(request.Name),
		Address:    strings.TrimSpace(request.Address),
		Age:        request.Age,
		SelfRating: request.SelfRating,
		VideoURL:   strings.TrimSpace(request.VideoURL),
	}
	if err := s.videoRepo.CreateVideo(ctx, video); err != nil {
		return nil, dbError("create video", err)
	}

	s.log.Info("video submitted",
		zap.String("video_id", video.ID.String()),
		zap.String("owner_id", callerID.String()))

	resp := response_models.NewVideoResponse(video)
	return &resp, nil
}

// Rate records one score from an audience member or admin. The caller's role is read from
// the store, not from the token.
func (s *VideoService) Rate(ctx context.Context, callerID, videoID uuid.UUID, score int) (*response_models.VideoResponse, error) {
	caller, err := s.accountRepo.FindById(ctx, callerID)
	if err != nil {
		return nil, dbError("find caller", err)
	}
	if caller == nil || (caller.Role != db_models.RoleAudience && caller.Role != db_models.RoleAdmin) {
		return nil, utils.ErrForbidden
	}

	if score < 1 || score > 5 {
		return nil, utils.ErrInvalidRating
	}

	video, err := s.videoRepo.AddRating(ctx, &db_models.VideoRating{
		VideoID: videoID,
		RaterID: callerID,
		Score:   score,
	})
	if err != nil {
		if errors.Is(err, utils.ErrVideoNotFound) {
			return nil, err
		}
		return nil, dbError("add rating", err)
	}

	resp := response_models.NewVideoResponse(video)
	return &resp, nil
}

func (s *VideoService) List(ctx context.Context, page, pageSize int) ([]response_models.VideoResponse, error) {
	if page < 1 {
		return nil, utils.ErrInvalidPage
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		return nil, utils.ErrInvalidPageSize
	}

	videos, err := s.videoRepo.ListVideos(ctx, page, pageSize)
	if err != nil {
		return nil, dbError("list videos", err)
	}

	out := make([]response_models.VideoResponse, 0, len(videos))
	for i := range videos {
		out = append(out, response_models.NewVideoResponse(&videos[i]))
	}
	return out, nil
}

func (s *VideoService) Get(ctx context.Context, id uuid.UUID) (*response_models.VideoResponse, error) {
	video, err := s.videoRepo.GetVideoByID(ctx, id)
	if err != nil {
		return nil, dbError("get video", err)
	}
	if video == nil {
		return nil, utils.ErrVideoNotFound
	}
	resp := response_models.NewVideoResponse(video)
	return &resp, nil
}

// Rankings clamps limit into [1, MaxRankingLimit]; zero or negative means the default.
func (s *VideoService) Rankings(ctx context.Context, limit int) ([]response_models.RankingEntry, error) {
	switch {
	case limit <= 0:
		limit = DefaultRankingLimit
	case limit > MaxRankingLimit:
		limit = MaxRankingLimit
	}

	videos, err := s.videoRepo.Rankings(ctx, limit)
	if err != nil {
		return nil, dbError("rank videos", err)
	}
	return rankingEntries(videos), nil
}

func rankingEntries(videos []db_models.Video) []response_models.RankingEntry {
	out := make([]response_models.RankingEntry, 0, len(videos))
	for i := range videos {
		out = append(out, response_models.RankingEntry{
			Rank:          i + 1,
			VideoResponse: response_models.NewVideoResponse(&videos[i]),
		})
	}
	return out
}
