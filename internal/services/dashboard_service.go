package services

import (
	"context"
	"time"

	dbm "latent/internal/models/db_models"
	resp "latent/internal/models/response_models"
	"latent/internal/repositories"
)

const dashboardTopVideos = 5

type DashboardService interface {
	BuildDashboard(ctx context.Context, rng resp.TimeRange) (*resp.DashboardReport, error)
}

type dashboardService struct {
	repo   repositories.DashboardRepository
	videos repositories.VideoRepositoryInterface
	now    func() time.Time
}

func NewDashboardService(repo repositories.DashboardRepository, videos repositories.VideoRepositoryInterface) DashboardService {
	return &dashboardService{
		repo:   repo,
		videos: videos,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// normalizeRange fills in defaults (last 30 days, daily buckets) and orders the bounds.
func normalizeRange(r resp.TimeRange, now time.Time) resp.TimeRange {
	out := r
	switch out.Interval {
	case "day", "week", "month":
	default:
		out.Interval = "day"
	}
	if out.End.IsZero() {
		out.End = now
	}
	if out.Start.IsZero() {
		out.Start = out.End.AddDate(0, 0, -30)
	}
	if out.Start.After(out.End) {
		out.Start, out.End = out.End, out.Start
	}
	return out
}

func (s *dashboardService) BuildDashboard(ctx context.Context, rng resp.TimeRange) (*resp.DashboardReport, error) {
	rng = normalizeRange(rng, s.now())

	// ---------- Core counts ----------
	totalAccounts, err := s.repo.CountTotalAccounts(ctx)
	if err != nil {
		return nil, dbError("count accounts", err)
	}

	newAccounts, err := s.repo.CountNewAccounts(ctx, rng.Start, rng.End)
	if err != nil {
		return nil, dbError("count new accounts", err)
	}

	pending, err := s.repo.CountAccountsByApprovalState(ctx, dbm.ApprovalPending)
	if err != nil {
		return nil, dbError("count pending accounts", err)
	}
	rejected, err := s.repo.CountAccountsByApprovalState(ctx, dbm.ApprovalRejected)
	if err != nil {
		return nil, dbError("count rejected accounts", err)
	}

	totalVideos, err := s.repo.CountTotalVideos(ctx)
	if err != nil {
		return nil, dbError("count videos", err)
	}
	totalRatings, err := s.repo.CountTotalRatings(ctx)
	if err != nil {
		return nil, dbError("count ratings", err)
	}
	avgScore, err := s.repo.AverageVideoScore(ctx)
	if err != nil {
		return nil, dbError("average video score", err)
	}

	// ---------- Series ----------
	newUsersRows, err := s.repo.NewUsersSeries(ctx, rng.Start, rng.End, rng.Interval)
	if err != nil {
		return nil, dbError("new users series", err)
	}
	newUsersPoints := make([]resp.SeriesPoint, 0, len(newUsersRows))
	for _, r := range newUsersRows {
		newUsersPoints = append(newUsersPoints, resp.SeriesPoint{Bucket: r.Bucket, Value: r.Sum})
	}

	// ---------- Role mix ----------
	roleRows, err := s.repo.RoleMix(ctx)
	if err != nil {
		return nil, dbError("role mix", err)
	}
	var roleTotal int64
	for _, r := range roleRows {
		roleTotal += r.Count
	}
	roleItems := make([]resp.RoleMixItem, 0, len(roleRows))
	for _, r := range roleRows {
		var pct float64
		if roleTotal > 0 {
			pct = float64(r.Count) * 100.0 / float64(roleTotal)
		}
		roleItems = append(roleItems, resp.RoleMixItem{Role: r.Role, Count: r.Count, Percent: pct})
	}

	// ---------- Top videos ----------
	top, err := s.videos.Rankings(ctx, dashboardTopVideos)
	if err != nil {
		return nil, dbError("top videos", err)
	}

	return &resp.DashboardReport{
		Range: rng,
		KPIs: resp.KPIBlock{
			TotalAccounts:     totalAccounts,
			NewAccounts:       newAccounts,
			PendingApprovals:  pending,
			RejectedRequests:  rejected,
			TotalVideos:       totalVideos,
			TotalRatings:      totalRatings,
			AverageVideoScore: avgScore,
		},
		NewUsers:  resp.CountSeries{Points: newUsersPoints},
		RoleMix:   resp.RoleMix{Items: roleItems},
		TopVideos: rankingEntries(top),
	}, nil
}
