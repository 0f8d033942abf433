package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/catmaikl/cosatkaclickmserv/cosatka/database/models"
	"github.com/catmaikl/cosatkaclickmserv/cosatka/economy/engine"
	"github.com/catmaikl/cosatkaclickmserv/cosatka/logger"
	"github.com/uptrace/bun"
)

// EconomyRepository stores one game's users in user_economies. Writes are
// conditional on the version column.
type EconomyRepository struct {
	db   *bun.DB
	game string
}

func NewEconomyRepository(db *bun.DB, game string) *EconomyRepository {
	return &EconomyRepository{db: db, game: game}
}

func (r *EconomyRepository) Load(ctx context.Context, userID string) (*engine.UserEconomy, error) {
	m := new(models.UserEconomy)
	err := r.db.NewSelect().
		Model(m).
		Where("game = ?", r.game).
		Where("user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, engine.ErrNotFound
		}
		slog.Error("Database error when loading user economy",
			slog.String("type", "db"),
			slog.String("operation", "Load"),
			slog.String("game", r.game),
			slog.String("user_id", userID),
			slog.Any("error", err))
		return nil, fmt.Errorf("failed to load user economy: %w", err)
	}
	return toEconomy(m), nil
}

func (r *EconomyRepository) Store(ctx context.Context, u *engine.UserEconomy) error {
	m := toModel(r.game, u)
	m.Version = u.Version + 1
	m.UpdatedAt = time.Now().UTC()
	start := time.Now()

	var (
		res sql.Result
		err error
	)
	if u.Version == 0 {
		res, err = r.db.NewInsert().
			Model(m).
			On("CONFLICT DO NOTHING").
			Exec(ctx)
	} else {
		res, err = r.db.NewUpdate().
			Model(m).
			ExcludeColumn("game", "user_id", "created_at").
			Where("game = ?", r.game).
			Where("user_id = ?", u.UserID).
			Where("version = ?", u.Version).
			Exec(ctx)
	}
	logger.LogQuery("store user_economies", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to store user economy: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		slog.Debug("Stale user economy version",
			slog.String("type", "db"),
			slog.String("game", r.game),
			slog.String("user_id", u.UserID),
			slog.Int64("version", u.Version))
		return engine.ErrVersionConflict
	}

	u.Version = m.Version
	return nil
}

func (r *EconomyRepository) Top(ctx context.Context, limit int) ([]*engine.UserEconomy, error) {
	var rows []*models.UserEconomy
	q := r.db.NewSelect().
		Model(&rows).
		Where("game = ?", r.game).
		OrderExpr("total_earned DESC, user_id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	start := time.Now()
	err := q.Scan(ctx)
	logger.LogQuery("top user_economies", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to get top users: %w", err)
	}

	users := make([]*engine.UserEconomy, len(rows))
	for i, m := range rows {
		users[i] = toEconomy(m)
	}
	return users, nil
}

// Count returns how many users have played the game.
func (r *EconomyRepository) Count(ctx context.Context) (int, error) {
	return r.db.NewSelect().
		Model((*models.UserEconomy)(nil)).
		Where("game = ?", r.game).
		Count(ctx)
}

func toModel(game string, u *engine.UserEconomy) *models.UserEconomy {
	return &models.UserEconomy{
		Game:                   game,
		UserID:                 u.UserID,
		Username:               u.Username,
		Currency:               u.Currency,
		Level:                  u.Level,
		Experience:             u.Experience,
		Energy:                 u.Energy,
		LastEnergyUpdate:       u.LastEnergyUpdate,
		Producers:              u.Producers,
		TotalEarned:            u.TotalEarned,
		ClickPowerLevel:        u.UpgradeLevel(engine.UpgradeClickPower),
		ProducerSpeedLevel:     u.UpgradeLevel(engine.UpgradeProducerSpeed),
		OfflineMultiplierLevel: u.UpgradeLevel(engine.UpgradeOfflineMultiplier),
		LastClaim:              u.LastClaim,
		Inventory:              u.Inventory,
		Achievements:           u.Achievements,
		Version:                u.Version,
		CreatedAt:              u.CreatedAt,
	}
}

func toEconomy(m *models.UserEconomy) *engine.UserEconomy {
	u := &engine.UserEconomy{
		UserID:           m.UserID,
		Username:         m.Username,
		Currency:         m.Currency,
		TotalEarned:      m.TotalEarned,
		Level:            m.Level,
		Experience:       m.Experience,
		Energy:           m.Energy,
		Producers:        m.Producers,
		LastEnergyUpdate: m.LastEnergyUpdate,
		LastClaim:        m.LastClaim,
		UpgradeLevels: map[engine.UpgradeKind]int{
			engine.UpgradeClickPower:        m.ClickPowerLevel,
			engine.UpgradeProducerSpeed:     m.ProducerSpeedLevel,
			engine.UpgradeOfflineMultiplier: m.OfflineMultiplierLevel,
		},
		Inventory:    m.Inventory,
		Achievements: m.Achievements,
		CreatedAt:    m.CreatedAt,
		Version:      m.Version,
	}
	return u.Clone()
}
