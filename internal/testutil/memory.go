package testutil

import (
	"context"
	"sync"

	"bookbot/internal/domain"
)

// MemoryUserRepository keeps readers in a map; it behaves like the
// PostgreSQL repository for scenario tests
type MemoryUserRepository struct {
	mu    sync.Mutex
	users map[int64]domain.User
}

// NewMemoryUserRepository creates an empty repository
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[int64]domain.User)}
}

func (r *MemoryUserRepository) Get(_ context.Context, userID int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok {
		return nil, nil
	}
	u.Bookmarks = append([]int{}, u.Bookmarks...)
	return &u, nil
}

func (r *MemoryUserRepository) Upsert(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := *user
	u.Bookmarks = append([]int{}, user.Bookmarks...)
	r.users[user.UserID] = u
	return nil
}

func (r *MemoryUserRepository) Update(_ context.Context, userID int64, upd domain.UserUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok {
		// UPDATE on a missing row affects nothing
		return nil
	}
	if upd.Page != nil {
		u.Page = *upd.Page
	}
	if upd.Bookmarks != nil {
		u.Bookmarks = append([]int{}, (*upd.Bookmarks)...)
	}
	if upd.UserState != nil {
		u.UserState = *upd.UserState
	}
	if upd.MessageID != nil {
		u.MessageID = *upd.MessageID
	}
	r.users[userID] = u
	return nil
}

func (r *MemoryUserRepository) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users), nil
}
