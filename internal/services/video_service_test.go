package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"latent/internal/models/db_models"
	"latent/internal/models/request_models"
	"latent/internal/models/response_models"
	"latent/internal/repositories/repotest"
	"latent/pkg/utils"
)

type videoFixture struct {
	accounts *repotest.AccountStore
	videos   *repotest.VideoStore
	service  VideoServiceInterface
}

func newVideoFixture() *videoFixture {
	f := &videoFixture{
		accounts: repotest.NewAccountStore(),
		videos:   repotest.NewVideoStore(),
	}
	f.service = NewVideoService(f.videos, f.accounts, zap.NewNop())
	return f
}

// approvedAccount stores an account that already holds role.
func approvedAccount(t *testing.T, store *repotest.AccountStore, email string, role db_models.Role) *db_models.Account {
	t.Helper()
	a := &db_models.Account{FirstName: "T", LastName: "U", Email: email, PasswordHash: "hash"}
	DecideInitialState(email, db_models.RoleParticipant, "").Apply(a)
	if role != db_models.RoleParticipant {
		a.Role = role
	}
	require.NoError(t, store.Insert(context.Background(), a))
	return a
}

func submitRequest(name string) request_models.SubmitVideoRequest {
	return request_models.SubmitVideoRequest{
		Name:       name,
		Address:    "12 Rue de la Paix",
		Age:        24,
		SelfRating: 4,
		VideoURL:   "https://videos.test/" + name,
	}
}

func (f *videoFixture) submit(t *testing.T, owner uuid.UUID, name string) *response_models.VideoResponse {
	t.Helper()
	v, err := f.service.Submit(context.Background(), owner, submitRequest(name))
	require.NoError(t, err)
	return v
}

func TestSubmit(t *testing.T) {
	f := newVideoFixture()
	owner := approvedAccount(t, f.accounts, "p@x.test", db_models.RoleParticipant)

	v := f.submit(t, owner.ID, "juggling")

	require.NotNil(t, v.OwnerID)
	assert.Equal(t, owner.ID.String(), *v.OwnerID)
	assert.Equal(t, "juggling", v.Name)
	assert.Equal(t, 4, v.SelfRating)
	assert.Zero(t, v.TotalRatings)

	got, err := f.service.Get(context.Background(), uuid.MustParse(v.ID))
	require.NoError(t, err)
	assert.Equal(t, v.ID, got.ID)
}

func TestSubmit_InvalidSelfRating(t *testing.T) {
	f := newVideoFixture()
	req := submitRequest("x")
	req.SelfRating = 6

	_, err := f.service.Submit(context.Background(), uuid.New(), req)
	assert.ErrorIs(t, err, utils.ErrInvalidRating)
}

func TestRate_RoleGate(t *testing.T) {
	f := newVideoFixture()
	ctx := context.Background()
	owner := approvedAccount(t, f.accounts, "owner@x.test", db_models.RoleParticipant)
	v := f.submit(t, owner.ID, "act")
	videoID := uuid.MustParse(v.ID)

	pending := &db_models.Account{Email: "pending@x.test", PasswordHash: "hash"}
	DecideInitialState(pending.Email, db_models.RoleAudience, "").Apply(pending)
	require.NoError(t, f.accounts.Insert(ctx, pending))

	for name, caller := range map[string]uuid.UUID{
		"participant":      owner.ID,
		"pending audience": pending.ID,
		"unknown":          uuid.New(),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := f.service.Rate(ctx, caller, videoID, 5)
			assert.ErrorIs(t, err, utils.ErrForbidden)
		})
	}

	audience := approvedAccount(t, f.accounts, "aud@x.test", db_models.RoleAudience)
	admin := approvedAccount(t, f.accounts, "adm@x.test", db_models.RoleAdmin)

	rated, err := f.service.Rate(ctx, audience.ID, videoID, 5)
	require.NoError(t, err)
	assert.EqualValues(t, 1, rated.TotalRatings)
	assert.InDelta(t, 5.0, rated.AverageRating, 1e-9)

	rated, err = f.service.Rate(ctx, admin.ID, videoID, 4)
	require.NoError(t, err)
	assert.EqualValues(t, 2, rated.TotalRatings)
	assert.InDelta(t, 4.5, rated.AverageRating, 1e-9)
}

func TestRate_Validation(t *testing.T) {
	f := newVideoFixture()
	ctx := context.Background()
	audience := approvedAccount(t, f.accounts, "aud@x.test", db_models.RoleAudience)
	v := f.submit(t, audience.ID, "act")

	for _, score := range []int{0, 6, -1} {
		_, err := f.service.Rate(ctx, audience.ID, uuid.MustParse(v.ID), score)
		assert.ErrorIs(t, err, utils.ErrInvalidRating, "score %d", score)
	}

	_, err := f.service.Rate(ctx, audience.ID, uuid.New(), 3)
	assert.ErrorIs(t, err, utils.ErrVideoNotFound)
}

func TestList_Pagination(t *testing.T) {
	f := newVideoFixture()
	ctx := context.Background()
	owner := approvedAccount(t, f.accounts, "p@x.test", db_models.RoleParticipant)
	for _, name := range []string{"one", "two", "three"} {
		f.submit(t, owner.ID, name)
	}

	page1, err := f.service.List(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, page1, 2)
	assert.Equal(t, "three", page1[0].Name, "newest first")
	assert.Equal(t, "two", page1[1].Name)

	page2, err := f.service.List(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, page2, 1)
	assert.Equal(t, "one", page2[0].Name)

	_, err = f.service.List(ctx, 0, 10)
	assert.ErrorIs(t, err, utils.ErrInvalidPage)
	_, err = f.service.List(ctx, 1, 0)
	assert.ErrorIs(t, err, utils.ErrInvalidPageSize)
	_, err = f.service.List(ctx, 1, MaxPageSize+1)
	assert.ErrorIs(t, err, utils.ErrInvalidPageSize)
}

func TestGet_NotFound(t *testing.T) {
	f := newVideoFixture()

	_, err := f.service.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, utils.ErrVideoNotFound)
}

func TestRankings(t *testing.T) {
	f := newVideoFixture()
	ctx := context.Background()
	owner := approvedAccount(t, f.accounts, "p@x.test", db_models.RoleParticipant)
	judge := approvedAccount(t, f.accounts, "aud@x.test", db_models.RoleAudience)

	unrated := f.submit(t, owner.ID, "unrated")
	oneFive := f.submit(t, owner.ID, "one-five")
	twoFives := f.submit(t, owner.ID, "two-fives")
	four := f.submit(t, owner.ID, "four")

	rate := func(v *response_models.VideoResponse, score int) {
		_, err := f.service.Rate(ctx, judge.ID, uuid.MustParse(v.ID), score)
		require.NoError(t, err)
	}
	rate(oneFive, 5)
	rate(twoFives, 5)
	rate(twoFives, 5)
	rate(four, 4)

	rankings, err := f.service.Rankings(ctx, 0)
	require.NoError(t, err)
	require.Len(t, rankings, 4)

	names := make([]string, 0, len(rankings))
	for i, r := range rankings {
		assert.Equal(t, i+1, r.Rank)
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"two-fives", "one-five", "four", "unrated"}, names)
	assert.Equal(t, unrated.ID, rankings[3].ID)

	top, err := f.service.Rankings(ctx, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "two-fives", top[0].Name)
}
