// Package catalog ships the built-in game catalogs and loads overrides from TOML.
package catalog

import "github.com/catmaikl/cosatkaclickmserv/cosatka/economy/engine"

const (
	GameKosatka = "kosatka"
	GameMiner   = "miner"
)

// Kosatka is the orca pet game: feed and play with an orca, raise baby orcas
// that fish for you while you are away.
func Kosatka() *engine.Catalog {
	return &engine.Catalog{
		Game:                 GameKosatka,
		Title:                "Kosatka",
		Currency:             "pearls",
		ProducerName:         "baby orca",
		EnergyCap:            100,
		EnergyRegenSeconds:   180,
		OfflineCapSeconds:    86400,
		ExpPerLevel:          100,
		LevelCurve:           engine.CurveFlat,
		OfflineBonusPerLevel: 0.5,
		Actions: []engine.ActionSpec{
			{ID: "hunt", Name: "Hunt", Emoji: "🐟", EnergyCost: 10, RewardMin: 5, RewardMax: 15, Experience: 10},
			{ID: "play", Name: "Play", Emoji: "🎾", EnergyCost: 5, RewardMin: 2, RewardMax: 6, Experience: 5},
			{ID: "swim", Name: "Swim", Emoji: "🌊", EnergyCost: 15, RewardMin: 10, RewardMax: 25, Experience: 15},
		},
		Items: []engine.ItemSpec{
			{ID: "fish", Name: "Fish", Emoji: "🐟", Cost: 10, Effect: engine.EffectConsumable, EnergyDelta: 10},
			{ID: "shrimp", Name: "Shrimp", Emoji: "🦐", Cost: 25, Effect: engine.EffectConsumable, EnergyDelta: 30},
			{ID: "squid", Name: "Squid", Emoji: "🦑", Cost: 60, Effect: engine.EffectConsumable, EnergyDelta: 100},
			{ID: "ball", Name: "Beach Ball", Emoji: "⚽", Cost: 50, Effect: engine.EffectInventory},
			{ID: "ring", Name: "Swim Ring", Emoji: "🛟", Cost: 120, Effect: engine.EffectInventory},
			{ID: "crown", Name: "Coral Crown", Emoji: "👑", Cost: 1000, Effect: engine.EffectInventory},
			{ID: "baby_orca", Name: "Baby Orca", Emoji: "🐋", Cost: 100, Effect: engine.EffectProducer},
		},
		Upgrades: []engine.UpgradeSpec{
			{Kind: engine.UpgradeClickPower, Name: "Stronger Fins", BaseCost: 100},
			{Kind: engine.UpgradeProducerSpeed, Name: "Faster Pod", BaseCost: 250},
			{Kind: engine.UpgradeOfflineMultiplier, Name: "Deep Sleep", BaseCost: 200, MaxLevel: 10},
		},
		Achievements: []engine.AchievementSpec{
			{ID: "first_splash", Name: "First Splash", Description: "Do anything with your orca", Rule: engine.RuleFirstAction},
			{ID: "pearl_pile", Name: "Pearl Pile", Description: "Hold 1000 pearls", Rule: engine.RuleCurrencyAtLeast, Threshold: 1000},
			{ID: "ocean_tycoon", Name: "Ocean Tycoon", Description: "Earn 100000 pearls in total", Rule: engine.RuleEarnedAtLeast, Threshold: 100000},
			{ID: "grown_up", Name: "Grown Up", Description: "Reach level 10", Rule: engine.RuleLevelAtLeast, Threshold: 10},
			{ID: "pod_leader", Name: "Pod Leader", Description: "Raise 10 baby orcas", Rule: engine.RuleProducersAtLeast, Threshold: 10},
			{ID: "collector", Name: "Collector", Description: "Own 5 toys", Rule: engine.RuleItemsAtLeast, Threshold: 5},
		},
	}
}

// Miner is the crypto miner game: click to mine, buy rigs that keep hashing.
func Miner() *engine.Catalog {
	return &engine.Catalog{
		Game:                 GameMiner,
		Title:                "Crypto Miner",
		Currency:             "coins",
		ProducerName:         "rig",
		EnergyCap:            100,
		EnergyRegenSeconds:   180,
		OfflineCapSeconds:    86400,
		ExpPerLevel:          100,
		LevelCurve:           engine.CurveFlat,
		OfflineBonusPerLevel: 0.5,
		Actions: []engine.ActionSpec{
			{ID: "mine", Name: "Mine", Emoji: "⛏️", EnergyCost: 5, RewardMin: 1, RewardMax: 10, Experience: 5},
			{ID: "deep_mine", Name: "Deep Mine", Emoji: "💎", EnergyCost: 20, RewardMin: 15, RewardMax: 50, Experience: 25},
		},
		Items: []engine.ItemSpec{
			{ID: "energy_drink", Name: "Energy Drink", Emoji: "🥤", Cost: 30, Effect: engine.EffectConsumable, EnergyDelta: 50},
			{ID: "cooler", Name: "Cooler", Emoji: "❄️", Cost: 200, Effect: engine.EffectInventory},
			{ID: "gpu_rig", Name: "GPU Rig", Emoji: "🖥️", Cost: 150, Effect: engine.EffectProducer},
		},
		Upgrades: []engine.UpgradeSpec{
			{Kind: engine.UpgradeClickPower, Name: "Better Pickaxe", BaseCost: 100},
			{Kind: engine.UpgradeProducerSpeed, Name: "Overclock", BaseCost: 300},
			{Kind: engine.UpgradeOfflineMultiplier, Name: "Night Shift", BaseCost: 250, MaxLevel: 10},
		},
		Achievements: []engine.AchievementSpec{
			{ID: "first_block", Name: "First Block", Description: "Mine for the first time", Rule: engine.RuleFirstAction},
			{ID: "whale", Name: "Whale", Description: "Hold 10000 coins", Rule: engine.RuleCurrencyAtLeast, Threshold: 10000},
			{ID: "farm", Name: "Mining Farm", Description: "Run 5 rigs", Rule: engine.RuleProducersAtLeast, Threshold: 5},
			{ID: "veteran", Name: "Veteran", Description: "Reach level 5", Rule: engine.RuleLevelAtLeast, Threshold: 5},
		},
	}
}

// Builtin returns fresh copies of every built-in catalog keyed by game id.
func Builtin() map[string]*engine.Catalog {
	return map[string]*engine.Catalog{
		GameKosatka: Kosatka(),
		GameMiner:   Miner(),
	}
}
