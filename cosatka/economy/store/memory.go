package store

import (
	"context"
	"sort"
	"sync"

	"github.com/catmaikl/cosatkaclickmserv/cosatka/economy/engine"
)

// Memory keeps records in process memory. Records are copied in and out so
// callers never share state with the store.
type Memory struct {
	mu    sync.RWMutex
	users map[string]*engine.UserEconomy
}

func NewMemory() *Memory {
	return &Memory{users: make(map[string]*engine.UserEconomy)}
}

func (m *Memory) Load(_ context.Context, userID string) (*engine.UserEconomy, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[userID]
	if !ok {
		return nil, engine.ErrNotFound
	}
	return u.Clone(), nil
}

func (m *Memory) Store(_ context.Context, u *engine.UserEconomy) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var current int64
	if existing, ok := m.users[u.UserID]; ok {
		current = existing.Version
	}
	if current != u.Version {
		return engine.ErrVersionConflict
	}

	stored := u.Clone()
	stored.Version++
	m.users[u.UserID] = stored
	u.Version = stored.Version
	return nil
}

func (m *Memory) Top(_ context.Context, limit int) ([]*engine.UserEconomy, error) {
	m.mu.RLock()
	users := make([]*engine.UserEconomy, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, u.Clone())
	}
	m.mu.RUnlock()

	sortByEarnings(users)
	if limit > 0 && len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

// sortByEarnings orders by lifetime earnings, breaking ties by user id.
func sortByEarnings(users []*engine.UserEconomy) {
	sort.Slice(users, func(i, j int) bool {
		if users[i].TotalEarned != users[j].TotalEarned {
			return users[i].TotalEarned > users[j].TotalEarned
		}
		return users[i].UserID < users[j].UserID
	})
}
