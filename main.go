package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/catmaikl/cosatkaclickmserv/cosatka"
	"github.com/catmaikl/cosatkaclickmserv/cosatka/clock"
	"github.com/catmaikl/cosatkaclickmserv/cosatka/commands"
	"github.com/catmaikl/cosatkaclickmserv/cosatka/config"
	"github.com/catmaikl/cosatkaclickmserv/cosatka/economy/catalog"
	"github.com/catmaikl/cosatkaclickmserv/cosatka/economy/engine"
	"github.com/catmaikl/cosatkaclickmserv/cosatka/economy/service"
	"github.com/catmaikl/cosatkaclickmserv/cosatka/handlers"
	"github.com/catmaikl/cosatkaclickmserv/cosatka/httpserver"
	"github.com/catmaikl/cosatkaclickmserv/cosatka/logger"
	"github.com/catmaikl/cosatkaclickmserv/cosatka/metrics"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"golang.org/x/sync/errgroup"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	shouldSyncCommands := flag.Bool("sync-commands", false, "Whether to sync commands to discord")
	path := flag.String("config", "config.toml", "path to config")
	flag.Parse()

	cfg, err := cosatka.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(-1)
	}
	logger.Install(cfg.Log.Level, cfg.Log.Format != "plain")

	slog.Info("Starting Cosatka bot",
		slog.String("type", "sys"),
		slog.String("version", version),
		slog.String("commit", commit))

	if err := run(*cfg, *shouldSyncCommands); err != nil {
		slog.Error("Bot stopped with error",
			slog.String("type", "sys"),
			slog.Any("error", err),
			slog.String("status", "failed"))
		os.Exit(-1)
	}
	slog.Info("Bot stopped", slog.String("type", "sys"))
}

func run(cfg cosatka.Config, syncCommands bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	catalogs, err := catalog.LoadFile(cfg.Economy.CatalogFile)
	if err != nil {
		return err
	}

	setupCtx, cancel := context.WithTimeout(ctx, config.DefaultQueryTimeout)
	defer cancel()

	storage, err := cosatka.OpenStorage(setupCtx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer storage.Close()

	if err := storage.Migrate(setupCtx); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	b := cosatka.New(cfg, version, commit)
	b.Metrics = metrics.New()

	h := handler.New()
	h.Command("/version", handlers.WrapWithLogging("version", b.Metrics, commands.VersionHandler(b)))

	cmds := []discord.ApplicationCommandCreate{commands.Version}
	for _, game := range catalog.Names(catalogs) {
		c := catalogs[game]
		eng, err := engine.New(c)
		if err != nil {
			return fmt.Errorf("invalid catalog %q: %w", game, err)
		}
		repo, err := storage.Repository(game)
		if err != nil {
			return err
		}

		svc := service.New(eng, repo, clock.RealClock{},
			service.WithMaxAttempts(cfg.Economy.MaxAttempts),
			service.WithRecorder(b.Metrics))
		b.Services[game] = svc

		commands.NewGameHandler(b, svc).Register(h)
		cmds = append(cmds, commands.Definition(c))
	}

	if err = b.SetupBot(h, bot.NewListenerFunc(b.OnReady)); err != nil {
		return fmt.Errorf("failed to setup bot: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()
		b.Client.Close(ctx)
	}()

	if syncCommands {
		slog.Info("Syncing commands",
			slog.String("type", "sys"),
			slog.Any("guild_ids", cfg.Bot.DevGuilds),
		)
		if err = handler.SyncCommands(b.Client, cmds, cfg.Bot.DevGuilds); err != nil {
			slog.Error("Failed to sync commands",
				slog.String("type", "sys"),
				slog.Any("error", err),
				slog.String("component", "command_sync"),
				slog.String("status", "failed"),
			)
		}
	}

	srv := httpserver.New(cfg.HTTP.Addr, version, b.Games(), b.Metrics.Handler())
	srv.AddCheck("storage", storage.Ping)

	gatewayCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err = b.Client.OpenGateway(gatewayCtx); err != nil {
		return fmt.Errorf("failed to open gateway: %w", err)
	}

	logger.LogSystem("Bot is running. Press CTRL-C to exit.",
		slog.String("http_addr", cfg.HTTP.Addr),
		slog.String("driver", storage.Driver()))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.LogSystem("Shutting down")
		return nil
	})
	return g.Wait()
}
