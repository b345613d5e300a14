package response_models

import (
	"time"

	"latent/internal/models/db_models"
)

type VideoResponse struct {
	ID            string    `json:"id"`
	OwnerID       *string   `json:"ownerId,omitempty"`
	Name          string    `json:"name"`
	Address       string    `json:"address"`
	Age           int       `json:"age"`
	SelfRating    int       `json:"rating"`
	VideoURL      string    `json:"videoUrl"`
	AverageRating float64   `json:"averageRating"`
	TotalRatings  int64     `json:"totalRatings"`
	CreatedAt     time.Time `json:"createdAt"`
}

type RankingEntry struct {
	Rank int `json:"rank"`
	VideoResponse
}

func NewVideoResponse(v *db_models.Video) VideoResponse {
	resp := VideoResponse{
		ID:            v.ID.String(),
		Name:          v.Name,
		Address:       v.Address,
		Age:           v.Age,
		SelfRating:    v.SelfRating,
		VideoURL:      v.VideoURL,
		AverageRating: v.AverageRating,
		TotalRatings:  v.TotalRatings,
		CreatedAt:     v.CreatedAt,
	}
	if v.OwnerID != nil {
		owner := v.OwnerID.String()
		resp.OwnerID = &owner
	}
	return resp
}
