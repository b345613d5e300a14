//go:build integration

package repositories_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"latent/internal/infra"
	"latent/internal/models/db_models"
	"latent/internal/repositories"
	"latent/pkg/utils"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	os.Exit(run(m))
}

func run(m *testing.M) int {
	ctx := context.Background()

	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("latent"),
		tcpostgres.WithUsername("latent"),
		tcpostgres.WithPassword("latent"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		log.Printf("start postgres container: %v", err)
		return 1
	}
	defer func() { _ = ctr.Terminate(ctx) }()

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		log.Printf("connection string: %v", err)
		return 1
	}

	testDB, err = infra.InitPostgresql(ctx, dsn, zap.NewNop())
	if err != nil {
		log.Printf("connect: %v", err)
		return 1
	}
	defer infra.ClosePostgresql(testDB, zap.NewNop())

	if err := infra.RunMigrations(ctx, testDB); err != nil {
		log.Printf("migrate: %v", err)
		return 1
	}
	return m.Run()
}

func resetDB(t *testing.T) {
	t.Helper()
	require.NoError(t, testDB.Exec("TRUNCATE video_ratings, videos, accounts").Error)
}

func rolePtr(r db_models.Role) *db_models.Role { return &r }

func newAccount(email string, role db_models.Role, state db_models.ApprovalState, requested *db_models.Role) *db_models.Account {
	return &db_models.Account{
		FirstName:     "Test",
		LastName:      "User",
		Email:         email,
		PasswordHash:  "hash",
		Role:          role,
		ApprovalState: state,
		RequestedRole: requested,
	}
}

func TestAccountRepository_UniqueEmail(t *testing.T) {
	resetDB(t)
	repo := repositories.NewAccountRepository(testDB)
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, newAccount("dup@x.test", db_models.RoleParticipant, db_models.ApprovalApproved, nil)))
	err := repo.Insert(ctx, newAccount("dup@x.test", db_models.RoleParticipant, db_models.ApprovalApproved, nil))
	assert.ErrorIs(t, err, utils.ErrEmailAlreadyExists)
}

func TestAccountRepository_ConcurrentInsertSameEmail(t *testing.T) {
	resetDB(t)
	repo := repositories.NewAccountRepository(testDB)

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.Insert(context.Background(),
				newAccount("race@x.test", db_models.RoleParticipant, db_models.ApprovalApproved, nil))
		}(i)
	}
	wg.Wait()

	var ok int
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, utils.ErrEmailAlreadyExists)
	}
	assert.Equal(t, 1, ok)
}

func TestAccountRepository_PendingMustBeParticipant(t *testing.T) {
	resetDB(t)
	repo := repositories.NewAccountRepository(testDB)

	err := repo.Insert(context.Background(),
		newAccount("bad@x.test", db_models.RoleAdmin, db_models.ApprovalPending, rolePtr(db_models.RoleAdmin)))
	assert.Error(t, err)
}

func TestAccountRepository_ResolvePending(t *testing.T) {
	resetDB(t)
	repo := repositories.NewAccountRepository(testDB)
	ctx := context.Background()

	a := newAccount("a@x.test", db_models.RoleParticipant, db_models.ApprovalPending, rolePtr(db_models.RoleAudience))
	require.NoError(t, repo.Insert(ctx, a))

	a.Role = db_models.RoleAudience
	a.ApprovalState = db_models.ApprovalApproved
	a.RequestedRole = nil
	require.NoError(t, repo.ResolvePending(ctx, a))

	stored, err := repo.FindById(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, db_models.RoleAudience, stored.Role)
	assert.Equal(t, db_models.ApprovalApproved, stored.ApprovalState)
	assert.Nil(t, stored.RequestedRole)

	a.Role = db_models.RoleParticipant
	a.ApprovalState = db_models.ApprovalRejected
	assert.ErrorIs(t, repo.ResolvePending(ctx, a), utils.ErrNotPending)

	stored, err = repo.FindById(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, db_models.ApprovalApproved, stored.ApprovalState)
}

func TestAccountRepository_Lookups(t *testing.T) {
	resetDB(t)
	repo := repositories.NewAccountRepository(testDB)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		a := newAccount(fmt.Sprintf("p%d@x.test", i), db_models.RoleParticipant, db_models.ApprovalPending, rolePtr(db_models.RoleAdmin))
		require.NoError(t, repo.Insert(ctx, a))
		time.Sleep(5 * time.Millisecond)
	}
	require.NoError(t, repo.Insert(ctx, newAccount("ok@x.test", db_models.RoleParticipant, db_models.ApprovalApproved, nil)))

	pending, err := repo.ListByApprovalState(ctx, db_models.ApprovalPending)
	require.NoError(t, err)
	require.Len(t, pending, 3)
	assert.Equal(t, "p0@x.test", pending[0].Email)
	assert.Equal(t, "p2@x.test", pending[2].Email)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	missing, err := repo.FindByEmail(ctx, "nobody@x.test")
	require.NoError(t, err)
	assert.Nil(t, missing)

	ghost := newAccount("ghost@x.test", db_models.RoleAdmin, db_models.ApprovalApproved, nil)
	ghost.ID = uuid.New()
	assert.ErrorIs(t, repo.UpdateRoleState(ctx, ghost), utils.ErrAccountNotFound)
}

func TestVideoRepository_RatingsAndRankings(t *testing.T) {
	resetDB(t)
	ctx := context.Background()
	accounts := repositories.NewAccountRepository(testDB)
	videos := repositories.NewVideoRepository(testDB)

	judge := newAccount("judge@x.test", db_models.RoleAudience, db_models.ApprovalApproved, nil)
	require.NoError(t, accounts.Insert(ctx, judge))

	first := &db_models.Video{OwnerID: &judge.ID, Name: "first", Address: "A", Age: 20, SelfRating: 3, VideoURL: "https://v.test/1"}
	second := &db_models.Video{OwnerID: &judge.ID, Name: "second", Address: "B", Age: 21, SelfRating: 4, VideoURL: "https://v.test/2"}
	require.NoError(t, videos.CreateVideo(ctx, first))
	require.NoError(t, videos.CreateVideo(ctx, second))

	const raters = 10
	var wg sync.WaitGroup
	for i := 0; i < raters; i++ {
		wg.Add(1)
		go func(score int) {
			defer wg.Done()
			_, err := videos.AddRating(ctx, &db_models.VideoRating{VideoID: first.ID, RaterID: judge.ID, Score: score})
			assert.NoError(t, err)
		}(i%5 + 1)
	}
	wg.Wait()

	got, err := videos.GetVideoByID(ctx, first.ID)
	require.NoError(t, err)
	assert.EqualValues(t, raters, got.TotalRatings)
	assert.InDelta(t, 3.0, got.AverageRating, 1e-9)

	_, err = videos.AddRating(ctx, &db_models.VideoRating{VideoID: second.ID, RaterID: judge.ID, Score: 5})
	require.NoError(t, err)

	ranked, err := videos.Rankings(ctx, 10)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, "second", ranked[0].Name)

	require.NoError(t, videos.DeleteVideo(ctx, second.ID))
	assert.ErrorIs(t, videos.DeleteVideo(ctx, second.ID), utils.ErrVideoNotFound)

	ranked, err = videos.Rankings(ctx, 10)
	require.NoError(t, err)
	require.Len(t, ranked, 1)

	_, err = videos.AddRating(ctx, &db_models.VideoRating{VideoID: second.ID, RaterID: judge.ID, Score: 5})
	assert.ErrorIs(t, err, utils.ErrVideoNotFound)

	page, err := videos.ListVideos(ctx, 1, 10)
	require.NoError(t, err)
	assert.Len(t, page, 1)
}

func TestDashboardRepository(t *testing.T) {
	resetDB(t)
	ctx := context.Background()
	accounts := repositories.NewAccountRepository(testDB)
	dash := repositories.NewDashboardRepository(testDB)

	require.NoError(t, accounts.Insert(ctx, newAccount("root@x.test", db_models.RoleAdmin, db_models.ApprovalApproved, rolePtr(db_models.RoleAdmin))))
	require.NoError(t, accounts.Insert(ctx, newAccount("p@x.test", db_models.RoleParticipant, db_models.ApprovalPending, rolePtr(db_models.RoleAudience))))

	total, err := dash.CountTotalAccounts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	pending, err := dash.CountAccountsByApprovalState(ctx, db_models.ApprovalPending)
	require.NoError(t, err)
	assert.EqualValues(t, 1, pending)

	now := time.Now().UTC()
	series, err := dash.NewUsersSeries(ctx, now.Add(-time.Hour), now.Add(time.Hour), "day")
	require.NoError(t, err)
	var sum int64
	for _, p := range series {
		sum += p.Sum
	}
	assert.EqualValues(t, 2, sum)

	mix, err := dash.RoleMix(ctx)
	require.NoError(t, err)
	assert.Len(t, mix, 2)
}
