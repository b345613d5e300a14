// Package repotest provides in-memory implementations of the repository interfaces for
// tests. They enforce the same constraints as the Postgres schema that the services rely
// on: unique emails at insert time and update-if-pending decisions.
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

var _ repositories.AccountRepository = (*AccountStore)(nil)

type AccountStore struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]db_models.Account
	now      func() time.Time

	// Err, when set, is returned by every method.
	Err error
	// BeforeInsert runs after the caller's pre-checks and before the uniqueness check,
	// which lets tests widen the read-then-write race window.
	BeforeInsert func(account *db_models.Account)
}

func NewAccountStore() *AccountStore {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var tick int64
	var tickMu sync.Mutex
	return &AccountStore{
		accounts: make(map[uuid.UUID]db_models.Account),
		// Strictly increasing clock so creation order is observable.
		now: func() time.Time {
			tickMu.Lock()
			defer tickMu.Unlock()
			tick++
			return base.Add(time.Duration(tick) * time.Second)
		},
	}
}

func (s *AccountStore) Insert(ctx context.Context, account *db_models.Account) error {
	if s.Err != nil {
		return s.Err
	}
	if s.BeforeInsert != nil {
		s.BeforeInsert(account)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.accounts {
		if existing.Email == account.Email {
			return utils.ErrEmailAlreadyExists
		}
	}
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = s.now()
	}
	account.UpdatedAt = account.CreatedAt
	s.accounts[account.ID] = clone(*account)
	return nil
}

func (s *AccountStore) FindById(ctx context.Context, id uuid.UUID) (*db_models.Account, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[id]
	if !ok {
		return nil, nil
	}
	out := clone(a)
	return &out, nil
}

func (s *AccountStore) FindByEmail(ctx context.Context, email string) (*db_models.Account, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.accounts {
		if a.Email == email {
			out := clone(a)
			return &out, nil
		}
	}
	return nil, nil
}

func (s *AccountStore) UpdateProfile(ctx context.Context, account *db_models.Account) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.accounts[account.ID]
	if !ok {
		return utils.ErrAccountNotFound
	}
	stored.FirstName = account.FirstName
	stored.LastName = account.LastName
	stored.Bio = account.Bio
	stored.AvatarURL = account.AvatarURL
	stored.UpdatedAt = s.now()
	s.accounts[account.ID] = stored
	return nil
}

func (s *AccountStore) UpdateRoleState(ctx context.Context, account *db_models.Account) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.accounts[account.ID]
	if !ok {
		return utils.ErrAccountNotFound
	}
	s.accounts[account.ID] = s.applyRoleState(stored, account)
	return nil
}

func (s *AccountStore) ResolvePending(ctx context.Context, account *db_models.Account) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.accounts[account.ID]
	if !ok || stored.ApprovalState != db_models.ApprovalPending {
		return utils.ErrNotPending
	}
	s.accounts[account.ID] = s.applyRoleState(stored, account)
	return nil
}

func (s *AccountStore) applyRoleState(stored db_models.Account, account *db_models.Account) db_models.Account {
	stored.Role = account.Role
	stored.ApprovalState = account.ApprovalState
	stored.RequestedRole = cloneRole(account.RequestedRole)
	stored.UpdatedAt = s.now()
	return stored
}

func (s *AccountStore) ListByApprovalState(ctx context.Context, state db_models.ApprovalState) ([]db_models.Account, error) {
	return s.list(func(a db_models.Account) bool { return a.ApprovalState == state })
}

func (s *AccountStore) ListAll(ctx context.Context) ([]db_models.Account, error) {
	return s.list(func(db_models.Account) bool { return true })
}

func (s *AccountStore) list(keep func(db_models.Account) bool) ([]db_models.Account, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]db_models.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		if keep(a) {
			out = append(out, clone(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// Len returns the number of stored accounts.
func (s *AccountStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.accounts)
}

func clone(a db_models.Account) db_models.Account {
	a.RequestedRole = cloneRole(a.RequestedRole)
	return a
}

func cloneRole(r *db_models.Role) *db_models.Role {
	if r == nil {
		return nil
	}
	v := *r
	return &v
}
