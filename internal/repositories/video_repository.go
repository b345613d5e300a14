package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"latent/internal/models/db_models"
	"latent/pkg/utils"
)

type VideoRepositoryInterface interface {
	CreateVideo(ctx context.Context, video *db_models.Video) error
	GetVideoByID(ctx context.Context, id uuid.UUID) (*db_models.Video, error)
	ListVideos(ctx context.Context, page, pageSize int) ([]db_models.Video, error)
	Rankings(ctx context.Context, limit int) ([]db_models.Video, error)
	// AddRating stores the rating and recomputes the video's averageRating/totalRatings in
	// one transaction. Returns utils.ErrVideoNotFound for unknown or deleted videos.
	AddRating(ctx context.Context, rating *db_models.VideoRating) (*db_models.Video, error)
	DeleteVideo(ctx context.Context, id uuid.UUID) error
}

type VideoRepository struct {
	db *gorm.DB
}

func NewVideoRepository(db *gorm.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

func (r *VideoRepository) CreateVideo(ctx context.Context, video *db_models.Video) error {
	return r.db.WithContext(ctx).Create(video).Error
}

func (r *VideoRepository) GetVideoByID(ctx context.Context, id uuid.UUID) (*db_models.Video, error) {
	var video db_models.Video
	err := r.db.WithContext(ctx).First(&video, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &video, nil
}

func (r *VideoRepository) ListVideos(ctx context.Context, page, pageSize int) ([]db_models.Video, error) {
	var videos []db_models.Video
	err := r.db.WithContext(ctx).
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Order("created_at DESC").
		Find(&videos).Error
	return videos, err
}

func (r *VideoRepository) Rankings(ctx context.Context, limit int) ([]db_models.Video, error) {
	var videos []db_models.Video
	err := r.db.WithContext(ctx).
		Order("average_rating DESC, total_ratings DESC, created_at ASC").
		Limit(limit).
		Find(&videos).Error
	return videos, err
}

type ratingAggregate struct {
	Total   int64
	Average float64
}

func (r *VideoRepository) AddRating(ctx context.Context, rating *db_models.VideoRating) (*db_models.Video, error) {
	var video db_models.Video

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Row lock serialises concurrent ratings of the same video.
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&video, "id = ?", rating.VideoID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.ErrVideoNotFound
			}
			return err
		}

		if err := tx.Create(rating).Error; err != nil {
			return err
		}

		var agg ratingAggregate
		err = tx.Model(&db_models.VideoRating{}).
			Select("COUNT(*) AS total, COALESCE(AVG(score), 0) AS average").
			Where("video_id = ?", video.ID).
			Scan(&agg).Error
		if err != nil {
			return err
		}

		video.TotalRatings = agg.Total
		video.AverageRating = agg.Average
		video.UpdatedAt = time.Now().UTC()
		return tx.Model(&db_models.Video{}).
			Where("id = ?", video.ID).
			Updates(map[string]interface{}{
				"total_ratings":  video.TotalRatings,
				"average_rating": video.AverageRating,
				"updated_at":     video.UpdatedAt,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return &video, nil
}

func (r *VideoRepository) DeleteVideo(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&db_models.Video{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrVideoNotFound
	}
	return nil
}
