package redisstore

import (
	"time"

	"github.com/catmaikl/cosatkaclickmserv/cosatka/economy/engine"
)

// record is the JSON shape stored under a user key.
type record struct {
	UserID           string               `json:"user_id"`
	Username         string               `json:"username"`
	Currency         int64                `json:"currency"`
	TotalEarned      int64                `json:"total_earned"`
	Level            int                  `json:"level"`
	Experience       int64                `json:"experience"`
	Energy           int                  `json:"energy"`
	Producers        int                  `json:"producers"`
	LastEnergyUpdate time.Time            `json:"last_energy_update"`
	LastClaim        time.Time            `json:"last_claim"`
	ClickPower       int                  `json:"click_power_level"`
	ProducerSpeed    int                  `json:"producer_speed_level"`
	OfflineMult      int                  `json:"offline_multiplier_level"`
	Inventory        map[string]int       `json:"inventory,omitempty"`
	Achievements     map[string]time.Time `json:"achievements,omitempty"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
	Version          int64                `json:"version"`
}

func toRecord(u *engine.UserEconomy) record {
	return record{
		UserID:           u.UserID,
		Username:         u.Username,
		Currency:         u.Currency,
		TotalEarned:      u.TotalEarned,
		Level:            u.Level,
		Experience:       u.Experience,
		Energy:           u.Energy,
		Producers:        u.Producers,
		LastEnergyUpdate: u.LastEnergyUpdate,
		LastClaim:        u.LastClaim,
		ClickPower:       u.UpgradeLevel(engine.UpgradeClickPower),
		ProducerSpeed:    u.UpgradeLevel(engine.UpgradeProducerSpeed),
		OfflineMult:      u.UpgradeLevel(engine.UpgradeOfflineMultiplier),
		Inventory:        u.Inventory,
		Achievements:     u.Achievements,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        time.Now().UTC(),
		Version:          u.Version,
	}
}

func (r record) toEconomy() *engine.UserEconomy {
	u := &engine.UserEconomy{
		UserID:           r.UserID,
		Username:         r.Username,
		Currency:         r.Currency,
		TotalEarned:      r.TotalEarned,
		Level:            r.Level,
		Experience:       r.Experience,
		Energy:           r.Energy,
		Producers:        r.Producers,
		LastEnergyUpdate: r.LastEnergyUpdate,
		LastClaim:        r.LastClaim,
		UpgradeLevels: map[engine.UpgradeKind]int{
			engine.UpgradeClickPower:        r.ClickPower,
			engine.UpgradeProducerSpeed:     r.ProducerSpeed,
			engine.UpgradeOfflineMultiplier: r.OfflineMult,
		},
		Inventory:    r.Inventory,
		Achievements: r.Achievements,
		CreatedAt:    r.CreatedAt,
		Version:      r.Version,
	}
	return u.Clone()
}
