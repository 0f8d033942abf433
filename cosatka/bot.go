package cosatka

import (
	"context"
	"log/slog"
	"sort"

	"github.com/catmaikl/cosatkaclickmserv/cosatka/config"
	"github.com/catmaikl/cosatkaclickmserv/cosatka/economy/service"
	"github.com/catmaikl/cosatkaclickmserv/cosatka/metrics"
	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/cache"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/paginator"
)

func New(cfg Config, version string, commit string) *Bot {
	return &Bot{
		Cfg:       cfg,
		Paginator: paginator.New(),
		Version:   version,
		Commit:    commit,
		Services:  make(map[string]*service.Service),
	}
}

type Bot struct {
	Cfg       Config
	Client    bot.Client
	Paginator *paginator.Manager
	Version   string
	Commit    string
	// Services holds one economy service per game id.
	Services map[string]*service.Service
	Metrics  *metrics.Metrics
}

// Games returns the ids of every registered game in stable order.
func (b *Bot) Games() []string {
	games := make([]string, 0, len(b.Services))
	for game := range b.Services {
		games = append(games, game)
	}
	sort.Strings(games)
	return games
}

func (b *Bot) SetupBot(listeners ...bot.EventListener) error {
	client, err := disgo.New(b.Cfg.Bot.Token,
		bot.WithGatewayConfigOpts(gateway.WithIntents(gateway.IntentGuilds)),
		bot.WithCacheConfigOpts(cache.WithCaches(cache.FlagGuilds)),
		bot.WithEventListeners(b.Paginator),
		bot.WithEventListeners(listeners...),
	)
	if err != nil {
		return err
	}

	b.Client = client
	return nil
}

func (b *Bot) OnReady(_ *events.Ready) {
	slog.Info("Cosatka bot is now ready",
		slog.String("type", "sys"),
		slog.String("version", b.Version),
		slog.String("commit", b.Commit),
		slog.Any("games", b.Games()))

	ctx, cancel := context.WithTimeout(context.Background(), config.PresenceTimeout)
	defer cancel()

	if err := b.Client.SetPresence(ctx,
		gateway.WithListeningActivity("/kosatka profile"),
		gateway.WithOnlineStatus(discord.OnlineStatusOnline)); err != nil {
		slog.Error("Failed to set presence",
			slog.String("type", "sys"),
			slog.Any("error", err))
	}
}
