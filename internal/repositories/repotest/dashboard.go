package repotest

import (
	"context"
	"sort"
	"time"

	dbm "latent/internal/models/db_models"
	"latent/internal/repositories"
)

var _ repositories.DashboardRepository = (*DashboardStore)(nil)

// DashboardStore answers dashboard queries from an AccountStore and a VideoStore.
type DashboardStore struct {
	Accounts *AccountStore
	Videos   *VideoStore
}

func NewDashboardStore(accounts *AccountStore, videos *VideoStore) *DashboardStore {
	return &DashboardStore{Accounts: accounts, Videos: videos}
}

func (d *DashboardStore) CountTotalAccounts(ctx context.Context) (int64, error) {
	all, err := d.Accounts.ListAll(ctx)
	return int64(len(all)), err
}

func (d *DashboardStore) CountNewAccounts(ctx context.Context, start, end time.Time) (int64, error) {
	all, err := d.Accounts.ListAll(ctx)
	var n int64
	for _, a := range all {
		if !a.CreatedAt.Before(start) && !a.CreatedAt.After(end) {
			n++
		}
	}
	return n, err
}

func (d *DashboardStore) CountAccountsByApprovalState(ctx context.Context, state dbm.ApprovalState) (int64, error) {
	list, err := d.Accounts.ListByApprovalState(ctx, state)
	return int64(len(list)), err
}

func (d *DashboardStore) CountTotalVideos(ctx context.Context) (int64, error) {
	d.Videos.mu.Lock()
	defer d.Videos.mu.Unlock()
	return int64(len(d.Videos.all())), d.Videos.Err
}

func (d *DashboardStore) CountTotalRatings(ctx context.Context) (int64, error) {
	d.Videos.mu.Lock()
	defer d.Videos.mu.Unlock()
	var n int64
	for _, v := range d.Videos.all() {
		n += int64(len(d.Videos.ratings[v.ID]))
	}
	return n, d.Videos.Err
}

func (d *DashboardStore) AverageVideoScore(ctx context.Context) (float64, error) {
	d.Videos.mu.Lock()
	defer d.Videos.mu.Unlock()
	var sum float64
	var n int
	for _, v := range d.Videos.all() {
		if v.TotalRatings > 0 {
			sum += v.AverageRating
			n++
		}
	}
	if n == 0 {
		return 0, d.Videos.Err
	}
	return sum / float64(n), d.Videos.Err
}

func (d *DashboardStore) NewUsersSeries(ctx context.Context, start, end time.Time, interval string) ([]repositories.BucketSum, error) {
	all, err := d.Accounts.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	counts := map[time.Time]int64{}
	for _, a := range all {
		if a.CreatedAt.Before(start) || a.CreatedAt.After(end) {
			continue
		}
		counts[truncate(a.CreatedAt.UTC(), interval)]++
	}
	rows := make([]repositories.BucketSum, 0, len(counts))
	for b, n := range counts {
		rows = append(rows, repositories.BucketSum{Bucket: b, Sum: n})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Bucket.Before(rows[j].Bucket) })
	return rows, nil
}

// truncate mirrors Postgres date_trunc for day, week (ISO, Monday) and month.
func truncate(t time.Time, interval string) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	switch interval {
	case "week":
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case "month":
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return day
	}
}

func (d *DashboardStore) RoleMix(ctx context.Context) ([]repositories.RoleMixRow, error) {
	all, err := d.Accounts.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	counts := map[string]int64{}
	for _, a := range all {
		counts[string(a.Role)]++
	}
	rows := make([]repositories.RoleMixRow, 0, len(counts))
	for role, n := range counts {
		rows = append(rows, repositories.RoleMixRow{Role: role, Count: n})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Role < rows[j].Role
	})
	return rows, nil
}
