package repotest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"latent/internal/models/db_models"
	"latent/internal/repositories"
	"latent/pkg/utils"
)

var _ repositories.VideoRepositoryInterface = (*VideoStore)(nil)

type VideoStore struct {
	mu      sync.Mutex
	videos  map[uuid.UUID]*db_models.Video
	deleted map[uuid.UUID]bool
	ratings map[uuid.UUID][]db_models.VideoRating
	clock   time.Time

	Err error
}

func NewVideoStore() *VideoStore {
	return &VideoStore{
		videos:  make(map[uuid.UUID]*db_models.Video),
		deleted: make(map[uuid.UUID]bool),
		ratings: make(map[uuid.UUID][]db_models.VideoRating),
		clock:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (s *VideoStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *VideoStore) CreateVideo(ctx context.Context, video *db_models.Video) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if video.ID == uuid.Nil {
		video.ID = uuid.New()
	}
	video.CreatedAt = s.tick()
	video.UpdatedAt = video.CreatedAt
	v := *video
	s.videos[v.ID] = &v
	return nil
}

func (s *VideoStore) GetVideoByID(ctx context.Context, id uuid.UUID) (*db_models.Video, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.live(id)
	if !ok {
		return nil, nil
	}
	out := *v
	return &out, nil
}

func (s *VideoStore) live(id uuid.UUID) (*db_models.Video, bool) {
	v, ok := s.videos[id]
	if !ok || s.deleted[id] {
		return nil, false
	}
	return v, true
}

func (s *VideoStore) all() []db_models.Video {
	out := make([]db_models.Video, 0, len(s.videos))
	for id, v := range s.videos {
		if !s.deleted[id] {
			out = append(out, *v)
		}
	}
	return out
}

func (s *VideoStore) ListVideos(ctx context.Context, page, pageSize int) ([]db_models.Video, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	videos := s.all()
	sort.Slice(videos, func(i, j int) bool { return videos[i].CreatedAt.After(videos[j].CreatedAt) })
	start := (page - 1) * pageSize
	if start >= len(videos) {
		return []db_models.Video{}, nil
	}
	end := min(start+pageSize, len(videos))
	return videos[start:end], nil
}

func (s *VideoStore) Rankings(ctx context.Context, limit int) ([]db_models.Video, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	videos := s.all()
	sort.Slice(videos, func(i, j int) bool {
		a, b := videos[i], videos[j]
		if a.AverageRating != b.AverageRating {
			return a.AverageRating > b.AverageRating
		}
		if a.TotalRatings != b.TotalRatings {
			return a.TotalRatings > b.TotalRatings
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
	if len(videos) > limit {
		videos = videos[:limit]
	}
	return videos, nil
}

func (s *VideoStore) AddRating(ctx context.Context, rating *db_models.VideoRating) (*db_models.Video, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.live(rating.VideoID)
	if !ok {
		return nil, utils.ErrVideoNotFound
	}
	if rating.ID == uuid.Nil {
		rating.ID = uuid.New()
	}
	rating.CreatedAt = s.tick()
	s.ratings[v.ID] = append(s.ratings[v.ID], *rating)

	sum := 0
	for _, r := range s.ratings[v.ID] {
		sum += r.Score
	}
	v.TotalRatings = int64(len(s.ratings[v.ID]))
	v.AverageRating = float64(sum) / float64(v.TotalRatings)
	v.UpdatedAt = rating.CreatedAt
	out := *v
	return &out, nil
}

func (s *VideoStore) DeleteVideo(ctx context.Context, id uuid.UUID) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.live(id); !ok {
		return utils.ErrVideoNotFound
	}
	s.deleted[id] = true
	return nil
}
