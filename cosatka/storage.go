package cosatka

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/catmaikl/cosatkaclickmserv/cosatka/database"
	"github.com/catmaikl/cosatkaclickmserv/cosatka/database/repositories"
	"github.com/catmaikl/cosatkaclickmserv/cosatka/economy/store"
	"github.com/catmaikl/cosatkaclickmserv/cosatka/economy/store/redisstore"
	"github.com/catmaikl/cosatkaclickmserv/cosatka/logger"
	"github.com/redis/go-redis/v9"
)

// Storage owns the backing connection for the configured driver and hands
// out one repository per game.
type Storage struct {
	driver    string
	cacheSize int
	db        *database.DB
	redis     *redis.Client
	memory    map[string]*store.Memory
}

func OpenStorage(ctx context.Context, cfg Config) (*Storage, error) {
	s := &Storage{
		driver:    cfg.DB.Driver,
		cacheSize: cfg.Economy.CacheSize,
	}
	start := time.Now()

	var err error
	switch cfg.DB.Driver {
	case DriverPostgres:
		s.db, err = database.New(ctx, database.DBConfig{
			Host:     cfg.DB.Host,
			Port:     cfg.DB.Port,
			User:     cfg.DB.User,
			Password: cfg.DB.Password,
			Database: cfg.DB.Database,
			PoolSize: cfg.DB.PoolSize,
			DSN:      cfg.DB.DSN,
		})
	case DriverSQLite:
		s.db, err = database.NewSQLite(cfg.DB.DSN)
	case DriverRedis:
		s.redis, err = redisstore.Connect(ctx, cfg.DB.RedisURL)
	case DriverMemory:
		s.memory = make(map[string]*store.Memory)
	default:
		err = fmt.Errorf("unknown db driver %q", cfg.DB.Driver)
	}
	if err != nil {
		return nil, err
	}

	slog.Info("Storage opened",
		slog.String("type", "db"),
		slog.String("driver", s.driver),
		slog.Bool("cache", s.cacheSize > 0),
		slog.Duration("took", time.Since(start)))
	return s, nil
}

func (s *Storage) Driver() string {
	return s.driver
}

// DB returns the SQL handle, or nil for the redis and memory drivers.
func (s *Storage) DB() *database.DB {
	return s.db
}

// Migrate creates the SQL schema. Other drivers need none.
func (s *Storage) Migrate(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	return s.db.InitializeSchema(ctx)
}

// Repository returns the store for game, fronted by an LRU when enabled.
func (s *Storage) Repository(game string) (store.Repository, error) {
	var repo store.Repository
	switch {
	case s.db != nil:
		repo = repositories.NewEconomyRepository(s.db.BunDB(), game)
	case s.redis != nil:
		repo = redisstore.New(s.redis, game)
	default:
		m, ok := s.memory[game]
		if !ok {
			m = store.NewMemory()
			s.memory[game] = m
		}
		repo = m
	}

	if s.cacheSize <= 0 {
		return repo, nil
	}
	return store.NewCached(repo, s.cacheSize)
}

func (s *Storage) Ping(ctx context.Context) error {
	switch {
	case s.db != nil:
		return s.db.Ping(ctx)
	case s.redis != nil:
		return s.redis.Ping(ctx).Err()
	}
	return nil
}

func (s *Storage) Close() {
	if s.db != nil {
		s.db.Close()
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			logger.LogError("Failed to close redis", err, slog.String("driver", s.driver))
		}
	}
}
