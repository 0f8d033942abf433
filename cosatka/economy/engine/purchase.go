package engine

import (
	"fmt"
	"time"
)

type PurchaseResult struct {
	Cost int64
	Item ItemSpec

	Upgrade  UpgradeKind
	NewLevel int

	Producers int
	Owned     int
	Energy    int
	// Settled is the offline income credited at the old rate before a rate change.
	Settled  int64
	Currency int64
}

// ItemCost quotes spec for u. Producers get pricier with every unit owned.
func (e *Engine) ItemCost(u *UserEconomy, spec ItemSpec) int64 {
	if spec.Effect == EffectProducer {
		return spec.Cost * int64(u.Producers+1)
	}
	return spec.Cost
}

func (e *Engine) QuoteItem(u *UserEconomy, itemID string) (int64, error) {
	spec, ok := e.catalog.Item(itemID)
	if !ok {
		return 0, &UnknownActionError{Kind: "item", ID: itemID}
	}
	return e.ItemCost(u, spec), nil
}

// PurchaseItem spends the item's cost and applies its single effect.
func (e *Engine) PurchaseItem(u *UserEconomy, itemID string, now time.Time) (PurchaseResult, error) {
	spec, ok := e.catalog.Item(itemID)
	if !ok {
		return PurchaseResult{}, &UnknownActionError{Kind: "item", ID: itemID}
	}

	cost := e.ItemCost(u, spec)
	if u.Currency < cost {
		return PurchaseResult{Cost: cost, Item: spec, Currency: u.Currency}, &InsufficientFundsError{
			Required:  cost,
			Available: u.Currency,
		}
	}

	next := u.Clone()
	res := PurchaseResult{Cost: cost, Item: spec}
	if spec.Effect == EffectProducer {
		res.Settled = e.ClaimOfflineEarnings(next, now)
	}
	next.Currency -= cost

	switch spec.Effect {
	case EffectInventory:
		next.Inventory[spec.ID]++
	case EffectProducer:
		next.Producers++
	case EffectConsumable:
		e.ReconcileEnergy(next, now)
		e.changeEnergy(next, spec.EnergyDelta, now)
	}

	*u = *next
	res.Producers = u.Producers
	res.Owned = u.Inventory[spec.ID]
	res.Energy = u.Energy
	res.Currency = u.Currency
	return res, nil
}

func (e *Engine) UpgradeCost(u *UserEconomy, spec UpgradeSpec) int64 {
	return spec.BaseCost * int64(u.UpgradeLevel(spec.Kind))
}

func (e *Engine) QuoteUpgrade(u *UserEconomy, kind UpgradeKind) (int64, error) {
	spec, ok := e.catalog.Upgrade(kind)
	if !kind.Valid() || !ok {
		return 0, &UnknownActionError{Kind: "upgrade", ID: string(kind)}
	}
	return e.UpgradeCost(u, spec), nil
}

// PurchaseUpgrade raises one upgrade level by one.
func (e *Engine) PurchaseUpgrade(u *UserEconomy, kind UpgradeKind, now time.Time) (PurchaseResult, error) {
	spec, ok := e.catalog.Upgrade(kind)
	if !kind.Valid() || !ok {
		return PurchaseResult{}, &UnknownActionError{Kind: "upgrade", ID: string(kind)}
	}

	level := u.UpgradeLevel(kind)
	if spec.MaxLevel > 0 && level >= spec.MaxLevel {
		return PurchaseResult{Upgrade: kind, NewLevel: level}, fmt.Errorf("%w: %s is level %d", ErrMaxLevel, kind, level)
	}

	cost := e.UpgradeCost(u, spec)
	if u.Currency < cost {
		return PurchaseResult{Cost: cost, Upgrade: kind, NewLevel: level, Currency: u.Currency}, &InsufficientFundsError{
			Required:  cost,
			Available: u.Currency,
		}
	}

	next := u.Clone()
	res := PurchaseResult{Cost: cost, Upgrade: kind}
	if kind != UpgradeClickPower {
		res.Settled = e.ClaimOfflineEarnings(next, now)
	}
	next.Currency -= cost
	next.UpgradeLevels[kind] = level + 1

	*u = *next
	res.NewLevel = level + 1
	res.Producers = u.Producers
	res.Energy = u.Energy
	res.Currency = u.Currency
	return res, nil
}
