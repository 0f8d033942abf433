package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/catmaikl/cosatkaclickmserv/cosatka"
	"github.com/catmaikl/cosatkaclickmserv/cosatka/config"
	"github.com/catmaikl/cosatkaclickmserv/cosatka/economy/engine"
	"github.com/catmaikl/cosatkaclickmserv/cosatka/economy/service"
	"github.com/catmaikl/cosatkaclickmserv/cosatka/handlers"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/paginator"
)

// GameHandler serves the slash command of one game.
type GameHandler struct {
	bot     *cosatka.Bot
	svc     *service.Service
	catalog *engine.Catalog
}

func NewGameHandler(b *cosatka.Bot, svc *service.Service) *GameHandler {
	return &GameHandler{
		bot:     b,
		svc:     svc,
		catalog: svc.Engine().Catalog(),
	}
}

func (h *GameHandler) Register(r handler.Router) {
	game := h.catalog.Game
	wrap := func(sub string, fn handler.CommandHandler) handler.CommandHandler {
		return handlers.WrapWithLogging(game+" "+sub, h.recorder(), fn)
	}

	r.Route("/"+game, func(r handler.Router) {
		r.Command("/profile", wrap("profile", h.HandleProfile))
		r.Command("/act", wrap("act", h.HandleAct))
		r.Command("/shop", wrap("shop", h.HandleShop))
		r.Command("/buy", wrap("buy", h.HandleBuy))
		r.Autocomplete("/buy", h.HandleBuyAutocomplete)
		r.Command("/upgrade", wrap("upgrade", h.HandleUpgrade))
		r.Command("/claim", wrap("claim", h.HandleClaim))
		r.Command("/achievements", wrap("achievements", h.HandleAchievements))
		r.Command("/top", wrap("top", h.HandleTop))
	})
}

func (h *GameHandler) recorder() handlers.CommandRecorder {
	if h.bot.Metrics == nil {
		return nil
	}
	return h.bot.Metrics
}

func (h *GameHandler) HandleProfile(e *handler.CommandEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
	defer cancel()

	target := e.User()
	self := true
	if user, ok := e.SlashCommandInteractionData().OptUser("user"); ok {
		target = user
		self = target.ID == e.User().ID
	}

	p, err := h.svc.Profile(ctx, target.ID.String())
	switch {
	case errors.Is(err, engine.ErrNotFound) && self:
		p = h.freshProfile(e)
	case errors.Is(err, engine.ErrNotFound):
		return h.replyInfo(e, fmt.Sprintf("%s has not played %s yet.", target.Username, h.catalog.Title))
	case err != nil:
		return h.replyError(e, err)
	}

	now := time.Now()
	return e.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Title:       fmt.Sprintf("%s: %s", h.catalog.Title, target.Username),
			Description: profileDescription(p, h.catalog, now),
			Color:       config.InfoColor,
			Footer: &discord.EmbedFooter{
				Text: fmt.Sprintf("%d/%d achievements", len(p.User.Achievements), len(h.catalog.Achievements)),
			},
			Timestamp: &now,
		}},
	})
}

func (h *GameHandler) HandleAct(e *handler.CommandEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
	defer cancel()

	actionID := e.SlashCommandInteractionData().String("action")
	out, err := h.svc.Act(ctx, e.User().ID.String(), e.User().Username, actionID)
	if err != nil {
		return h.replyError(e, err)
	}

	res := out.Result
	var b strings.Builder
	fmt.Fprintf(&b, "+**%d** %s, +%d exp\n", res.Reward, h.catalog.Currency, res.Experience)
	fmt.Fprintf(&b, "⚡ Energy %d/%d", res.Energy, h.catalog.EnergyCap)
	if res.LeveledUp {
		fmt.Fprintf(&b, "\n🎉 Level up! You are now level **%d**", res.Level)
	}
	b.WriteString(unlockedText(out.Unlocked))

	return h.replySuccess(e, fmt.Sprintf("%s %s", res.Action.Emoji, res.Action.Name), b.String(), out.User)
}

func (h *GameHandler) HandleShop(e *handler.CommandEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
	defer cancel()

	p, err := h.svc.Profile(ctx, e.User().ID.String())
	if errors.Is(err, engine.ErrNotFound) {
		p, err = h.freshProfile(e), nil
	}
	if err != nil {
		return h.replyError(e, err)
	}

	entries := shopEntries(p, h.catalog)
	pages := max(1, (len(entries)+config.ShopItemsPerPage-1)/config.ShopItemsPerPage)

	return h.bot.Paginator.Create(e.Respond, paginator.Pages{
		ID:      e.ID().String(),
		Creator: e.User().ID,
		PageFunc: func(page int, embed *discord.EmbedBuilder) {
			embed.
				SetTitle(fmt.Sprintf("🛍️ %s Shop", h.catalog.Title)).
				SetDescription(shopPage(entries, h.catalog, page, config.ShopItemsPerPage)).
				SetColor(config.InfoColor).
				SetFooter(fmt.Sprintf("You have %d %s • Page %d/%d", p.User.Currency, h.catalog.Currency, page+1, pages), "")
		},
		Pages:      pages,
		ExpireMode: paginator.ExpireModeAfterLastUsage,
	}, false)
}

func (h *GameHandler) HandleBuy(e *handler.CommandEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
	defer cancel()

	itemID := resolveItemID(h.catalog, e.SlashCommandInteractionData().String("item"))
	out, err := h.svc.BuyItem(ctx, e.User().ID.String(), e.User().Username, itemID)
	if err != nil {
		return h.replyError(e, err)
	}

	res := out.Result
	var b strings.Builder
	fmt.Fprintf(&b, "Paid **%d** %s.\n", res.Cost, h.catalog.Currency)
	switch res.Item.Effect {
	case engine.EffectInventory:
		fmt.Fprintf(&b, "You now own %d × %s.", res.Owned, res.Item.Name)
	case engine.EffectProducer:
		fmt.Fprintf(&b, "You now have %d × %s.", res.Producers, producerName(h.catalog))
	case engine.EffectConsumable:
		fmt.Fprintf(&b, "⚡ Energy %d/%d", res.Energy, h.catalog.EnergyCap)
	}
	if res.Settled > 0 {
		fmt.Fprintf(&b, "\n📦 Collected %d %s of offline earnings first.", res.Settled, h.catalog.Currency)
	}
	b.WriteString(unlockedText(out.Unlocked))

	return h.replySuccess(e, fmt.Sprintf("%s Bought %s", res.Item.Emoji, res.Item.Name), b.String(), out.User)
}

func (h *GameHandler) HandleBuyAutocomplete(e *handler.AutocompleteEvent) error {
	var query string
	if focused := e.Data.Focused(); focused.Name == "item" {
		_ = json.Unmarshal(focused.Value, &query)
	}

	items := matchItems(h.catalog.Items, query, config.MaxAutocomplete)
	choices := make([]discord.AutocompleteChoice, 0, len(items))
	for _, it := range items {
		choices = append(choices, discord.AutocompleteChoiceString{
			Name:  fmt.Sprintf("%s %s (%d %s)", it.Emoji, it.Name, it.Cost, h.catalog.Currency),
			Value: it.ID,
		})
	}
	return e.AutocompleteResult(choices)
}

func (h *GameHandler) HandleUpgrade(e *handler.CommandEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
	defer cancel()

	kind := engine.UpgradeKind(e.SlashCommandInteractionData().String("kind"))
	out, err := h.svc.BuyUpgrade(ctx, e.User().ID.String(), e.User().Username, kind)
	if err != nil {
		return h.replyError(e, err)
	}

	res := out.Result
	spec, _ := h.catalog.Upgrade(res.Upgrade)
	desc := fmt.Sprintf("Paid **%d** %s. %s is now level **%d**.", res.Cost, h.catalog.Currency, spec.Name, res.NewLevel)
	if res.Settled > 0 {
		desc += fmt.Sprintf("\n📦 Collected %d %s of offline earnings first.", res.Settled, h.catalog.Currency)
	}
	desc += unlockedText(out.Unlocked)

	return h.replySuccess(e, "⬆️ Upgrade purchased", desc, out.User)
}

func (h *GameHandler) HandleClaim(e *handler.CommandEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
	defer cancel()

	out, err := h.svc.Claim(ctx, e.User().ID.String(), e.User().Username)
	if err != nil {
		return h.replyError(e, err)
	}

	var desc string
	switch {
	case out.Earned > 0:
		desc = fmt.Sprintf("Your %ss earned **%d** %s over %s.", producerName(h.catalog), out.Earned, h.catalog.Currency, formatDuration(out.Elapsed))
	case out.User.Producers == 0:
		desc = fmt.Sprintf("You have no %s yet. Buy one with `/%s buy`.", producerName(h.catalog), h.catalog.Game)
	default:
		desc = "Nothing to collect yet. Check back later."
	}
	desc += unlockedText(out.Unlocked)

	return h.replySuccess(e, "📦 Offline earnings", desc, out.User)
}

func (h *GameHandler) HandleAchievements(e *handler.CommandEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
	defer cancel()

	p, err := h.svc.Profile(ctx, e.User().ID.String())
	if errors.Is(err, engine.ErrNotFound) {
		p, err = h.freshProfile(e), nil
	}
	if err != nil {
		return h.replyError(e, err)
	}

	return e.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Title:       fmt.Sprintf("🏆 %s Achievements", h.catalog.Title),
			Description: achievementList(p.User, h.catalog),
			Color:       config.InfoColor,
			Footer: &discord.EmbedFooter{
				Text: fmt.Sprintf("%d/%d unlocked", len(p.User.Achievements), len(h.catalog.Achievements)),
			},
		}},
	})
}

func (h *GameHandler) HandleTop(e *handler.CommandEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
	defer cancel()

	limit := h.bot.Cfg.Economy.TopLimit
	if limit <= 0 || limit > config.MaxTopUsers {
		limit = config.MaxTopUsers
	}
	users, err := h.svc.Top(ctx, limit)
	if err != nil {
		return h.replyError(e, err)
	}

	pages := max(1, (len(users)+config.TopUsersPerPage-1)/config.TopUsersPerPage)
	return h.bot.Paginator.Create(e.Respond, paginator.Pages{
		ID:      e.ID().String(),
		Creator: e.User().ID,
		PageFunc: func(page int, embed *discord.EmbedBuilder) {
			embed.
				SetTitle(fmt.Sprintf("🏅 %s Leaderboard", h.catalog.Title)).
				SetDescription(topPage(users, h.catalog, page, config.TopUsersPerPage)).
				SetColor(config.InfoColor).
				SetFooter(fmt.Sprintf("Page %d/%d", page+1, pages), "")
		},
		Pages:      pages,
		ExpireMode: paginator.ExpireModeAfterLastUsage,
	}, false)
}

// freshProfile is the view of a user who has not played yet.
func (h *GameHandler) freshProfile(e *handler.CommandEvent) engine.Profile {
	now := time.Now().UTC()
	eng := h.svc.Engine()
	return eng.Profile(eng.NewUser(e.User().ID.String(), e.User().Username, now), now)
}

func (h *GameHandler) replySuccess(e *handler.CommandEvent, title, desc string, u *engine.UserEconomy) error {
	now := time.Now()
	return e.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Title:       title,
			Description: desc,
			Color:       config.SuccessColor,
			Footer: &discord.EmbedFooter{
				Text: fmt.Sprintf("💰 %d %s • Level %d", u.Currency, h.catalog.Currency, u.Level),
			},
			Timestamp: &now,
		}},
	})
}

func (h *GameHandler) replyInfo(e *handler.CommandEvent, desc string) error {
	return e.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Description: desc,
			Color:       config.InfoColor,
		}},
		Flags: discord.MessageFlagEphemeral,
	})
}

func (h *GameHandler) replyError(e *handler.CommandEvent, err error) error {
	color := config.WarningColor
	if engine.IsRetryable(err) {
		color = config.ErrorColor
	}
	return e.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Title:       "❌ " + h.catalog.Title,
			Description: errorMessage(err, h.catalog),
			Color:       color,
		}},
		Flags: discord.MessageFlagEphemeral,
	})
}
