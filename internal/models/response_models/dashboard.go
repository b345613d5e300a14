package response_models

import (
	"time"
)

type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	// "day" | "week" | "month"
	Interval string `json:"interval"`
}

type KPIBlock struct {
	TotalAccounts     int64   `json:"total_accounts"`
	NewAccounts       int64   `json:"new_accounts"`
	PendingApprovals  int64   `json:"pending_approvals"`
	RejectedRequests  int64   `json:"rejected_requests"`
	TotalVideos       int64   `json:"total_videos"`
	TotalRatings      int64   `json:"total_ratings"`
	AverageVideoScore float64 `json:"average_video_score"` // mean of rated videos' averages
}

type SeriesPoint struct {
	Bucket time.Time `json:"bucket"`
	Value  int64     `json:"value"`
}

type CountSeries struct {
	Points []SeriesPoint `json:"points"`
}

type RoleMixItem struct {
	Role    string  `json:"role"`
	Count   int64   `json:"count"`
	Percent float64 `json:"percent"`
}

type RoleMix struct {
	Items []RoleMixItem `json:"items"`
}

type DashboardReport struct {
	Range     TimeRange      `json:"range"`
	KPIs      KPIBlock       `json:"kpis"`
	NewUsers  CountSeries    `json:"new_users"`
	RoleMix   RoleMix        `json:"role_mix"`
	TopVideos []RankingEntry `json:"top_videos"`
}
