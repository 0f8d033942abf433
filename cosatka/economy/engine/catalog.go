package engine

import (
	"errors"
	"fmt"
	"time"
)

type ItemEffect string

const (
	EffectInventory  ItemEffect = "inventory"
	EffectProducer   ItemEffect = "producer"
	EffectConsumable ItemEffect = "consumable"
)

type AchievementRule string

const (
	RuleFirstAction      AchievementRule = "first_action"
	RuleCurrencyAtLeast  AchievementRule = "currency_at_least"
	RuleEarnedAtLeast    AchievementRule = "total_earned_at_least"
	RuleLevelAtLeast     AchievementRule = "level_at_least"
	RuleProducersAtLeast AchievementRule = "producers_at_least"
	RuleItemsAtLeast     AchievementRule = "items_owned_at_least"
)

type LevelCurve string

const (
	// CurveFlat requires exp_per_level experience for every level.
	CurveFlat LevelCurve = "flat"
	// CurveLinear requires level * exp_per_level experience to leave a level.
	CurveLinear LevelCurve = "linear"
)

type ActionSpec struct {
	ID         string `toml:"id"`
	Name       string `toml:"name"`
	Emoji      string `toml:"emoji"`
	EnergyCost int    `toml:"energy_cost"`
	RewardMin  int64  `toml:"reward_min"`
	RewardMax  int64  `toml:"reward_max"`
	Experience int64  `toml:"experience"`
}

type ItemSpec struct {
	ID     string     `toml:"id"`
	Name   string     `toml:"name"`
	Emoji  string     `toml:"emoji"`
	Cost   int64      `toml:"cost"`
	Effect ItemEffect `toml:"effect"`
	// EnergyDelta applies to consumables only; negative values consume energy.
	EnergyDelta int `toml:"energy_delta"`
}

type UpgradeSpec struct {
	Kind     UpgradeKind `toml:"kind"`
	Name     string      `toml:"name"`
	BaseCost int64       `toml:"base_cost"`
	// MaxLevel of 0 means unlimited.
	MaxLevel int `toml:"max_level"`
}

type AchievementSpec struct {
	ID          string          `toml:"id"`
	Name        string          `toml:"name"`
	Description string          `toml:"description"`
	Rule        AchievementRule `toml:"rule"`
	Threshold   int64           `toml:"threshold"`
}

// Catalog is the static description of one game. It is never mutated after Validate.
type Catalog struct {
	Game         string `toml:"game"`
	Title        string `toml:"title"`
	Currency     string `toml:"currency"`
	ProducerName string `toml:"producer_name"`

	EnergyCap            int        `toml:"energy_cap"`
	EnergyRegenSeconds   int        `toml:"energy_regen_seconds"`
	OfflineCapSeconds    int        `toml:"offline_cap_seconds"`
	ExpPerLevel          int64      `toml:"exp_per_level"`
	LevelCurve           LevelCurve `toml:"level_curve"`
	OfflineBonusPerLevel float64    `toml:"offline_bonus_per_level"`

	Actions      []ActionSpec      `toml:"actions"`
	Items        []ItemSpec        `toml:"items"`
	Upgrades     []UpgradeSpec     `toml:"upgrades"`
	Achievements []AchievementSpec `toml:"achievements"`
}

func (c *Catalog) EnergyRegenInterval() time.Duration {
	return time.Duration(c.EnergyRegenSeconds) * time.Second
}

func (c *Catalog) OfflineCap() time.Duration {
	return time.Duration(c.OfflineCapSeconds) * time.Second
}

func (c *Catalog) Action(id string) (ActionSpec, bool) {
	for _, a := range c.Actions {
		if a.ID == id {
			return a, true
		}
	}
	return ActionSpec{}, false
}

func (c *Catalog) Item(id string) (ItemSpec, bool) {
	for _, it := range c.Items {
		if it.ID == id {
			return it, true
		}
	}
	return ItemSpec{}, false
}

func (c *Catalog) Upgrade(kind UpgradeKind) (UpgradeSpec, bool) {
	for _, u := range c.Upgrades {
		if u.Kind == kind {
			return u, true
		}
	}
	return UpgradeSpec{}, false
}

func (c *Catalog) Achievement(id string) (AchievementSpec, bool) {
	for _, a := range c.Achievements {
		if a.ID == id {
			return a, true
		}
	}
	return AchievementSpec{}, false
}

// Validate rejects catalogs the engine cannot run safely and collects every problem found.
func (c *Catalog) Validate() error {
	var errs []error
	if c.Game == "" {
		errs = append(errs, errors.New("game id is required"))
	}
	if c.EnergyCap <= 0 {
		errs = append(errs, fmt.Errorf("energy_cap must be positive, got %d", c.EnergyCap))
	}
	if c.EnergyRegenSeconds <= 0 {
		errs = append(errs, fmt.Errorf("energy_regen_seconds must be positive, got %d", c.EnergyRegenSeconds))
	}
	if c.OfflineCapSeconds <= 0 {
		errs = append(errs, fmt.Errorf("offline_cap_seconds must be positive, got %d", c.OfflineCapSeconds))
	}
	if c.ExpPerLevel <= 0 {
		errs = append(errs, fmt.Errorf("exp_per_level must be positive, got %d", c.ExpPerLevel))
	}
	switch c.LevelCurve {
	case "", CurveFlat, CurveLinear:
	default:
		errs = append(errs, fmt.Errorf("unknown level_curve %q", c.LevelCurve))
	}
	if c.OfflineBonusPerLevel < 0 {
		errs = append(errs, fmt.Errorf("offline_bonus_per_level must not be negative, got %v", c.OfflineBonusPerLevel))
	}

	seen := make(map[string]bool)
	for _, a := range c.Actions {
		if a.ID == "" || seen["action:"+a.ID] {
			errs = append(errs, fmt.Errorf("action id %q is empty or duplicated", a.ID))
		}
		seen["action:"+a.ID] = true
		if a.EnergyCost < 0 || a.RewardMin < 0 || a.RewardMax < a.RewardMin || a.Experience < 0 {
			errs = append(errs, fmt.Errorf("action %q has an invalid cost, reward range or experience", a.ID))
		}
	}
	for _, it := range c.Items {
		if it.ID == "" || seen["item:"+it.ID] {
			errs = append(errs, fmt.Errorf("item id %q is empty or duplicated", it.ID))
		}
		seen["item:"+it.ID] = true
		if it.Cost <= 0 {
			errs = append(errs, fmt.Errorf("item %q must have a positive cost", it.ID))
		}
		switch it.Effect {
		case EffectInventory, EffectProducer:
		case EffectConsumable:
			if it.EnergyDelta == 0 {
				errs = append(errs, fmt.Errorf("consumable %q has no energy delta", it.ID))
			}
		default:
			errs = append(errs, fmt.Errorf("item %q has unknown effect %q", it.ID, it.Effect))
		}
	}
	for _, u := range c.Upgrades {
		if !u.Kind.Valid() || seen["upgrade:"+string(u.Kind)] {
			errs = append(errs, fmt.Errorf("upgrade kind %q is unknown or duplicated", u.Kind))
		}
		seen["upgrade:"+string(u.Kind)] = true
		if u.BaseCost <= 0 || u.MaxLevel < 0 {
			errs = append(errs, fmt.Errorf("upgrade %q has an invalid base cost or max level", u.Kind))
		}
	}
	for _, a := range c.Achievements {
		if a.ID == "" || seen["achievement:"+a.ID] {
			errs = append(errs, fmt.Errorf("achievement id %q is empty or duplicated", a.ID))
		}
		seen["achievement:"+a.ID] = true
		switch a.Rule {
		case RuleFirstAction, RuleCurrencyAtLeast, RuleEarnedAtLeast, RuleLevelAtLeast, RuleProducersAtLeast, RuleItemsAtLeast:
		default:
			errs = append(errs, fmt.Errorf("achievement %q has unknown rule %q", a.ID, a.Rule))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid catalog %q: %w", c.Game, errors.Join(errs...))
	}
	return nil
}
