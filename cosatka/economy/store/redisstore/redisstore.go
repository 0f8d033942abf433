// Package redisstore keeps user records as JSON values in Redis with a sorted
// set leaderboard per game.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/catmaikl/cosatkaclickmserv/cosatka/economy/engine"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "cosatka"

type Store struct {
	client *redis.Client
	game   string
}

func New(client *redis.Client, game string) *Store {
	return &Store{client: client, game: game}
}

// Connect accepts both "redis://..." URLs and bare host:port addresses.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	redisURL = strings.TrimSpace(redisURL)
	if redisURL == "" {
		return nil, errors.New("redis url is empty")
	}
	if !strings.Contains(redisURL, "://") {
		redisURL = "redis://" + redisURL
	}
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

func (s *Store) userKey(userID string) string {
	return keyPrefix + ":" + s.game + ":user:" + userID
}

func (s *Store) boardKey() string {
	return keyPrefix + ":" + s.game + ":leaderboard"
}

func (s *Store) Load(ctx context.Context, userID string) (*engine.UserEconomy, error) {
	data, err := s.client.Get(ctx, s.userKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, engine.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user economy: %w", err)
	}
	return decode(data)
}

// Store writes u inside WATCH/MULTI so a concurrent writer aborts this one.
func (s *Store) Store(ctx context.Context, u *engine.UserEconomy) error {
	key := s.userKey(u.UserID)

	rec := toRecord(u)
	rec.Version = u.Version + 1
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode user economy: %w", err)
	}

	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		var current int64
		raw, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return fmt.Errorf("failed to read current version: %w", err)
		default:
			existing, err := decode(raw)
			if err != nil {
				return err
			}
			current = existing.Version
		}
		if current != u.Version {
			return engine.ErrVersionConflict
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			pipe.ZAdd(ctx, s.boardKey(), redis.Z{Score: float64(u.TotalEarned), Member: u.UserID})
			return nil
		})
		return err
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		return engine.ErrVersionConflict
	}
	if err != nil {
		return err
	}
	u.Version = rec.Version
	return nil
}

func (s *Store) Top(ctx context.Context, limit int) ([]*engine.UserEconomy, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}
	ids, err := s.client.ZRevRange(ctx, s.boardKey(), 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.userKey(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard users: %w", err)
	}

	users := make([]*engine.UserEconomy, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		u, err := decode([]byte(raw))
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}

func decode(data []byte) (*engine.UserEconomy, error) {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode user economy: %w", err)
	}
	return rec.toEconomy(), nil
}
