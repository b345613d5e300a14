package db_models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Video struct {
	BaseModel
	OwnerID       *uuid.UUID     `gorm:"type:uuid;index"`
	Name          string         `gorm:"not null"`
	Address       string         `gorm:"not null"`
	Age           int            `gorm:"not null"`
	SelfRating    int            `gorm:"not null;check:self_rating >= 1 AND self_rating <= 5"`
	VideoURL      string         `gorm:"column:video_url;not null"`
	AverageRating float64        `gorm:"not null;default:0"`
	TotalRatings  int64          `gorm:"not null;default:0"`
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

type VideoRating struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	VideoID   uuid.UUID `gorm:"type:uuid;not null;index"`
	RaterID   uuid.UUID `gorm:"type:uuid;not null"`
	Score     int       `gorm:"not null;check:score >= 1 AND score <= 5"`
	CreatedAt time.Time `gorm:"not null"`
}

func (r *VideoRating) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	return nil
}
