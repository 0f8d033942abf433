package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/catmaikl/cosatkaclickmserv/cosatka/economy/engine"
	lru "github.com/hashicorp/golang-lru"
)

// Cached fronts a Repository with an LRU of recently written records. A stale
// entry surfaces as a version conflict on Store and is evicted, so the
// caller's retry reloads from the backing store.
type Cached struct {
	next  Repository
	cache *lru.Cache
}

func NewCached(next Repository, size int) (*Cached, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("failed to create economy cache: %w", err)
	}
	return &Cached{next: next, cache: cache}, nil
}

func (c *Cached) Load(ctx context.Context, userID string) (*engine.UserEconomy, error) {
	if v, ok := c.cache.Get(userID); ok {
		return v.(*engine.UserEconomy).Clone(), nil
	}
	u, err := c.next.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	c.cache.Add(userID, u.Clone())
	return u, nil
}

func (c *Cached) Store(ctx context.Context, u *engine.UserEconomy) error {
	if err := c.next.Store(ctx, u); err != nil {
		c.cache.Remove(u.UserID)
		return err
	}
	c.cache.Add(u.UserID, u.Clone())
	return nil
}

func (c *Cached) Top(ctx context.Context, limit int) ([]*engine.UserEconomy, error) {
	return c.next.Top(ctx, limit)
}

// Invalidate drops userID from the cache.
func (c *Cached) Invalidate(userID string) {
	c.cache.Remove(userID)
}

func (c *Cached) Len() int {
	return c.cache.Len()
}

// IsConflict reports whether err is a version conflict from any Store.
func IsConflict(err error) bool {
	return errors.Is(err, engine.ErrVersionConflict)
}
