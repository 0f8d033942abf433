package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/catmaikl/cosatkaclickmserv/cosatka/database/models"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	_ "modernc.org/sqlite"
)

const (
	defaultConnTimeout = 5 * time.Second
	schemaVersion      = 1 // bump when schema/migrations change
)

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	PoolSize int
	// DSN replaces the fields above when set.
	DSN string
}

// DB wraps a bun handle. pool is only set for postgres.
type DB struct {
	pool    *pgxpool.Pool
	bunDB   *bun.DB
	dialect string
}

// New connects to postgres through a pgx pool and a bun handle on pgdriver.
func New(ctx context.Context, cfg DBConfig) (*DB, error) {
	connString := cfg.DSN
	if connString == "" {
		connString = buildConnString(cfg)
	}

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	if cfg.PoolSize > 0 {
		poolConfig.MaxConns = int32(cfg.PoolSize)
	}
	poolConfig.ConnConfig.ConnectTimeout = defaultConnTimeout

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(bunDSN(poolConfig))))
	if cfg.PoolSize > 0 {
		sqldb.SetMaxOpenConns(cfg.PoolSize)
	}
	return &DB{pool: pool, bunDB: bun.NewDB(sqldb, pgdialect.New()), dialect: "postgres"}, nil
}

// NewSQLite opens an embedded database. dsn is a file path or ":memory:".
func NewSQLite(dsn string) (*DB, error) {
	sqldb, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	// SQLite allows one writer; a single connection also keeps ":memory:" shared.
	sqldb.SetMaxOpenConns(1)
	return &DB{bunDB: bun.NewDB(sqldb, sqlitedialect.New()), dialect: "sqlite"}, nil
}

func buildConnString(cfg DBConfig) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     cfg.Host + ":" + strconv.Itoa(cfg.Port),
		Path:     "/" + cfg.Database,
		RawQuery: "connect_timeout=5",
	}
	return u.String()
}

func bunDSN(poolConfig *pgxpool.Config) string {
	sslMode := os.Getenv("PG_SSLMODE")
	if sslMode == "" {
		sslMode = "disable"
	}
	cc := poolConfig.ConnConfig
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cc.User, cc.Password),
		Host:     cc.Host + ":" + strconv.Itoa(int(cc.Port)),
		Path:     "/" + cc.Database,
		RawQuery: "sslmode=" + sslMode,
	}
	return u.String()
}

func (db *DB) GetPool() *pgxpool.Pool {
	return db.pool
}

func (db *DB) BunDB() *bun.DB {
	return db.bunDB
}

func (db *DB) Dialect() string {
	return db.dialect
}

// ExecWithLog runs a statement and logs it with its duration.
func (db *DB) ExecWithLog(ctx context.Context, query string, args ...interface{}) (int64, error) {
	start := time.Now()
	var (
		affected int64
		err      error
	)
	if db.pool != nil {
		tag, execErr := db.pool.Exec(ctx, query, args...)
		affected, err = tag.RowsAffected(), execErr
	} else {
		res, execErr := db.bunDB.ExecContext(ctx, query, args...)
		err = execErr
		if err == nil {
			affected, _ = res.RowsAffected()
		}
	}
	duration := time.Since(start)

	if err != nil {
		slog.Error("Query failed",
			slog.String("type", "db"),
			slog.String("operation", "exec"),
			slog.String("query", query),
			slog.Duration("took", duration),
			slog.Any("error", err),
		)
		return 0, err
	}

	slog.Debug("Query executed",
		slog.String("type", "db"),
		slog.String("operation", "exec"),
		slog.String("query", query),
		slog.Duration("took", duration),
		slog.Int64("affected_rows", affected),
	)
	return affected, nil
}

func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
	if db.bunDB != nil {
		db.bunDB.Close()
	}
}

// Ping verifies every open connection is working.
func (db *DB) Ping(ctx context.Context) error {
	if db.pool != nil {
		if err := db.pool.Ping(ctx); err != nil {
			return fmt.Errorf("pgxpool ping failed: %w", err)
		}
	}
	if err := db.bunDB.PingContext(ctx); err != nil {
		return fmt.Errorf("bun ping failed: %w", err)
	}
	return nil
}

// InitializeSchema creates the economy tables and indexes. It is idempotent.
func (db *DB) InitializeSchema(ctx context.Context) error {
	if err := db.ensureAppMeta(ctx); err != nil {
		return fmt.Errorf("failed to create app_meta: %w", err)
	}
	if v, _ := db.getAppMeta(ctx, "schema_version"); v == strconv.Itoa(schemaVersion) {
		slog.Info("Schema up-to-date, skipping initialization",
			slog.String("type", "db"),
			slog.Int("schema_version", schemaVersion))
		return nil
	}

	tables := []interface{}{
		(*models.UserEconomy)(nil),
	}
	for _, model := range tables {
		if _, err := db.bunDB.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_user_economies_leaderboard ON user_economies(game, total_earned DESC);",
		"CREATE INDEX IF NOT EXISTS idx_user_economies_updated ON user_economies(updated_at);",
	}
	for _, idx := range indexes {
		if _, err := db.ExecWithLog(ctx, idx); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	if err := db.setAppMeta(ctx, "schema_version", strconv.Itoa(schemaVersion)); err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}
	slog.Info("Schema initialized",
		slog.String("type", "db"),
		slog.String("dialect", db.dialect),
		slog.Int("schema_version", schemaVersion))
	return nil
}

func (db *DB) SchemaVersion(ctx context.Context) (int, error) {
	v, err := db.getAppMeta(ctx, "schema_version")
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(v)
}

func (db *DB) ensureAppMeta(ctx context.Context) error {
	_, err := db.bunDB.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS app_meta (key TEXT PRIMARY KEY, value TEXT NOT NULL)`)
	return err
}

func (db *DB) getAppMeta(ctx context.Context, key string) (string, error) {
	var value string
	err := db.bunDB.QueryRowContext(ctx, `SELECT value FROM app_meta WHERE key = ?`, key).Scan(&value)
	return value, err
}

func (db *DB) setAppMeta(ctx context.Context, key, value string) error {
	_, err := db.bunDB.ExecContext(ctx,
		`INSERT INTO app_meta (key, value) VALUES (?, ?) ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		key, value)
	return err
}
