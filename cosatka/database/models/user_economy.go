package models

import (
	"time"

	"github.com/uptrace/bun"
)

// UserEconomy is one row per (game, user). Upgrade levels are fixed columns.
type UserEconomy struct {
	bun.BaseModel `bun:"table:user_economies,alias:ue"`

	Game     string `bun:"game,pk"`
	UserID   string `bun:"user_id,pk"`
	Username string `bun:"username,notnull"`

	Currency         int64     `bun:"currency,notnull"`
	Level            int       `bun:"level,notnull"`
	Experience       int64     `bun:"experience,notnull"`
	Energy           int       `bun:"energy,notnull"`
	LastEnergyUpdate time.Time `bun:"last_energy_update,notnull"`
	Producers        int       `bun:"producers,notnull"`
	TotalEarned      int64     `bun:"total_earned,notnull"`

	ClickPowerLevel        int `bun:"click_power_level,notnull"`
	ProducerSpeedLevel     int `bun:"producer_speed_level,notnull"`
	OfflineMultiplierLevel int `bun:"offline_multiplier_level,notnull"`

	LastClaim    time.Time            `bun:"last_claim,notnull"`
	Inventory    map[string]int       `bun:"inventory,type:jsonb"`
	Achievements map[string]time.Time `bun:"achievements,type:jsonb"`

	Version   int64     `bun:"version,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}
