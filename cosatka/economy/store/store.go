// Package store defines the persistence ports of the economy service and the
// in-process implementations of them.
package store

import (
	"context"

	"github.com/catmaikl/cosatkaclickmserv/cosatka/economy/engine"
)

// Store persists one game's user records.
//
// Load returns engine.ErrNotFound for unknown users. Store writes u only if the
// persisted version still equals u.Version, then bumps u.Version; a stale
// version yields engine.ErrVersionConflict and nothing is written.
type Store interface {
	Load(ctx context.Context, userID string) (*engine.UserEconomy, error)
	Store(ctx context.Context, u *engine.UserEconomy) error
}

// Ranker lists the users with the highest lifetime earnings.
type Ranker interface {
	Top(ctx context.Context, limit int) ([]*engine.UserEconomy, error)
}

type Repository interface {
	Store
	Ranker
}
