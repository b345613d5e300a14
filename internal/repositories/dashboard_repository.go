package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	dbm "latent/internal/models/db_models"
)

type DashboardRepository interface {
	// KPIs / counts
	CountTotalAccounts(ctx context.Context) (int64, error)
	CountNewAccounts(ctx context.Context, start, end time.Time) (int64, error)
	CountAccountsByApprovalState(ctx context.Context, state dbm.ApprovalState) (int64, error)
	CountTotalVideos(ctx context.Context) (int64, error)
	CountTotalRatings(ctx context.Context) (int64, error)
	AverageVideoScore(ctx context.Context) (float64, error)

	// Time series
	NewUsersSeries(ctx context.Context, start, end time.Time, interval string) ([]BucketSum, error)

	// Role mix
	RoleMix(ctx context.Context) ([]RoleMixRow, error)
}

type dashboardRepository struct {
	db *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

// ---------- Row helpers ----------
type BucketSum struct {
	Bucket time.Time `gorm:"column:bucket"`
	Sum    int64     `gorm:"column:sum"`
}

type RoleMixRow struct {
	Role  string `gorm:"column:role"`
	Count int64  `gorm:"column:count"`
}

// ---------- Counts ----------
func (r *dashboardRepository) CountTotalAccounts(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&dbm.Account{}).Count(&n).Error
	return n, err
}

func (r *dashboardRepository) CountNewAccounts(ctx context.Context, start, end time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&dbm.Account{}).
		Where("created_at BETWEEN ? AND ?", start, end).
		Count(&n).Error
	return n, err
}

func (r *dashboardRepository) CountAccountsByApprovalState(ctx context.Context, state dbm.ApprovalState) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&dbm.Account{}).
		Where("approval_state = ?", state).
		Count(&n).Error
	return n, err
}

func (r *dashboardRepository) CountTotalVideos(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&dbm.Video{}).Count(&n).Error
	return n, err
}

func (r *dashboardRepository) CountTotalRatings(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&dbm.VideoRating{}).
		Joins("JOIN videos v ON v.id = video_ratings.video_id AND v.deleted_at IS NULL").
		Count(&n).Error
	return n, err
}

func (r *dashboardRepository) AverageVideoScore(ctx context.Context) (float64, error) {
	var avg float64
	err := r.db.WithContext(ctx).
		Model(&dbm.Video{}).
		Select("COALESCE(AVG(average_rating), 0)").
		Where("total_ratings > 0").
		Scan(&avg).Error
	return avg, err
}

// ---------- Series ----------
func (r *dashboardRepository) NewUsersSeries(ctx context.Context, start, end time.Time, interval string) ([]BucketSum, error) {
	var rows []BucketSum
	tx := r.db.WithContext(ctx).
		Table("accounts").
		Select("date_trunc(?, created_at AT TIME ZONE 'UTC') AS bucket, COUNT(*) AS sum", interval).
		Where("created_at BETWEEN ? AND ?", start, end).
		Group("bucket").
		Order("bucket ASC")
	err := tx.Find(&rows).Error
	return rows, err
}

// ---------- Role mix ----------
func (r *dashboardRepository) RoleMix(ctx context.Context) ([]RoleMixRow, error) {
	var rows []RoleMixRow
	err := r.db.WithContext(ctx).
		Table("accounts").
		Select("role, COUNT(*) AS count").
		Group("role").
		Order("count DESC, role ASC").
		Find(&rows).Error
	return rows, err
}
