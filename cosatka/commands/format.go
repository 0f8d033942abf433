package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/catmaikl/cosatkaclickmserv/cosatka/economy/engine"
)

const barWidth = 10

// progressBar renders cur out of total as a fixed-width bar.
func progressBar(cur, total int64) string {
	if total <= 0 {
		return strings.Repeat("▱", barWidth)
	}
	filled := int(min(max(cur, 0), total) * barWidth / total)
	return strings.Repeat("▰", filled) + strings.Repeat("▱", barWidth-filled)
}

// formatDuration renders d with at most two units, e.g. "3h 12m" or "45s".
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d <= 0 {
		return "0s"
	}
	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour
	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute
	d -= minutes * time.Minute
	seconds := d / time.Second

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}

// errorMessage turns an engine or service error into a message for the user.
func errorMessage(err error, c *engine.Catalog) string {
	var funds *engine.InsufficientFundsError
	var energy *engine.InsufficientEnergyError
	var unknown *engine.UnknownActionError

	switch {
	case errors.As(err, &funds):
		return fmt.Sprintf("You need **%d** %s but only have **%d**.", funds.Required, c.Currency, funds.Available)
	case errors.As(err, &energy):
		return fmt.Sprintf("Not enough energy: you have **%d** and need **%d**. Energy refills over time.", energy.Available, energy.Required)
	case errors.As(err, &unknown):
		return fmt.Sprintf("There is no %s called `%s` in %s.", unknown.Kind, unknown.ID, c.Title)
	case errors.Is(err, engine.ErrMaxLevel):
		return "That upgrade is already at its max level."
	case errors.Is(err, engine.ErrNotFound):
		return fmt.Sprintf("No %s progress yet. Try `/%s act` to get started.", c.Title, c.Game)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "The request took too long. Please try again."
	}
	return "Something went wrong while saving your progress. Please try again later."
}

func itemEffectText(it engine.ItemSpec, c *engine.Catalog) string {
	switch it.Effect {
	case engine.EffectProducer:
		return fmt.Sprintf("adds a %s that earns while you are away", producerName(c))
	case engine.EffectConsumable:
		if it.EnergyDelta < 0 {
			return fmt.Sprintf("drains %d energy", -it.EnergyDelta)
		}
		return fmt.Sprintf("restores %d energy", it.EnergyDelta)
	}
	return "goes to your inventory"
}

func producerName(c *engine.Catalog) string {
	if c.ProducerName != "" {
		return c.ProducerName
	}
	return "producer"
}

func upgradeEffectText(kind engine.UpgradeKind) string {
	switch kind {
	case engine.UpgradeClickPower:
		return "multiplies action rewards"
	case engine.UpgradeProducerSpeed:
		return "speeds up offline production"
	case engine.UpgradeOfflineMultiplier:
		return "boosts offline earnings"
	}
	return ""
}

func profileDescription(p engine.Profile, c *engine.Catalog, now time.Time) string {
	u := p.User
	var b strings.Builder

	fmt.Fprintf(&b, "💰 **%d** %s (earned %d in total)\n", u.Currency, c.Currency, u.TotalEarned)
	fmt.Fprintf(&b, "⭐ Level **%d** `%s` %d/%d exp\n", u.Level, progressBar(u.Experience, p.ExpToNextLevel), u.Experience, p.ExpToNextLevel)
	fmt.Fprintf(&b, "⚡ Energy **%d/%d** `%s`", u.Energy, c.EnergyCap, progressBar(int64(u.Energy), int64(c.EnergyCap)))
	if u.Energy < c.EnergyCap {
		fmt.Fprintf(&b, " next in %s", formatDuration(p.NextEnergyAt.Sub(now)))
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "🏭 %d × %s, %.1f %s/min\n", u.Producers, producerName(c), p.RatePerMinute, c.Currency)
	if p.PendingOffline > 0 {
		fmt.Fprintf(&b, "📦 **%d** %s waiting, use `/%s claim`\n", p.PendingOffline, c.Currency, c.Game)
	}

	b.WriteString("\n**Upgrades**\n")
	for _, up := range c.Upgrades {
		fmt.Fprintf(&b, "• %s: level %d", up.Name, u.UpgradeLevel(up.Kind))
		if up.MaxLevel > 0 {
			fmt.Fprintf(&b, "/%d", up.MaxLevel)
		}
		b.WriteString("\n")
	}

	if owned := u.ItemsOwned(); owned > 0 {
		b.WriteString("\n**Inventory**\n")
		for _, it := range c.Items {
			if n := u.Inventory[it.ID]; n > 0 {
				fmt.Fprintf(&b, "%s %s × %d\n", it.Emoji, it.Name, n)
			}
		}
	}
	return b.String()
}

type shopEntry struct {
	Emoji string
	Name  string
	Cost  int64
	Text  string
}

// shopEntries lists items then upgrades with costs quoted for the viewing user.
func shopEntries(p engine.Profile, c *engine.Catalog) []shopEntry {
	entries := make([]shopEntry, 0, len(c.Items)+len(c.Upgrades))
	for _, it := range c.Items {
		entries = append(entries, shopEntry{
			Emoji: it.Emoji,
			Name:  fmt.Sprintf("%s `%s`", it.Name, it.ID),
			Cost:  p.ItemCosts[it.ID],
			Text:  itemEffectText(it, c),
		})
	}
	for _, up := range c.Upgrades {
		lvl := p.User.UpgradeLevel(up.Kind)
		text := fmt.Sprintf("%s, level %d", upgradeEffectText(up.Kind), lvl)
		cost := p.UpgradeCosts[up.Kind]
		if up.MaxLevel > 0 && lvl >= up.MaxLevel {
			text = "max level reached"
			cost = 0
		}
		entries = append(entries, shopEntry{
			Emoji: "⬆️",
			Name:  fmt.Sprintf("%s `%s`", up.Name, up.Kind),
			Cost:  cost,
			Text:  text,
		})
	}
	return entries
}

func shopPage(entries []shopEntry, c *engine.Catalog, page, perPage int) string {
	start := page * perPage
	end := min(start+perPage, len(entries))
	if start >= end {
		return "Nothing for sale."
	}

	var b strings.Builder
	for _, en := range entries[start:end] {
		if en.Cost > 0 {
			fmt.Fprintf(&b, "%s **%s**: %d %s\n", en.Emoji, en.Name, en.Cost, c.Currency)
		} else {
			fmt.Fprintf(&b, "%s **%s**\n", en.Emoji, en.Name)
		}
		fmt.Fprintf(&b, "└ %s\n", en.Text)
	}
	return b.String()
}

func displayName(u *engine.UserEconomy) string {
	if u.Username != "" {
		return u.Username
	}
	return fmt.Sprintf("<@%s>", u.UserID)
}

func topPage(users []*engine.UserEconomy, c *engine.Catalog, page, perPage int) string {
	start := page * perPage
	end := min(start+perPage, len(users))
	if start >= end {
		return "Nobody has played yet."
	}

	var b strings.Builder
	for i, u := range users[start:end] {
		rank := start + i + 1
		medal := fmt.Sprintf("`#%d`", rank)
		switch rank {
		case 1:
			medal = "🥇"
		case 2:
			medal = "🥈"
		case 3:
			medal = "🥉"
		}
		fmt.Fprintf(&b, "%s **%s**: %d %s earned, level %d\n", medal, displayName(u), u.TotalEarned, c.Currency, u.Level)
	}
	return b.String()
}

func achievementList(u *engine.UserEconomy, c *engine.Catalog) string {
	var b strings.Builder
	for _, a := range c.Achievements {
		if at, ok := u.Achievements[a.ID]; ok {
			fmt.Fprintf(&b, "✅ **%s**: %s (<t:%d:d>)\n", a.Name, a.Description, at.Unix())
		} else {
			fmt.Fprintf(&b, "🔒 **%s**: %s\n", a.Name, a.Description)
		}
	}
	if b.Len() == 0 {
		return "This game has no achievements."
	}
	return b.String()
}

// unlockedText announces freshly unlocked achievements, or returns "".
func unlockedText(unlocked []engine.AchievementSpec) string {
	if len(unlocked) == 0 {
		return ""
	}
	names := make([]string, len(unlocked))
	for i, a := range unlocked {
		names[i] = "**" + a.Name + "**"
	}
	return "\n\n🏆 Achievement unlocked: " + strings.Join(names, ", ")
}
