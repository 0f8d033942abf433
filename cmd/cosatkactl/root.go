package main

import (
	"context"
	"fmt"

	"github.com/catmaikl/cosatkaclickmserv/cosatka"
	"github.com/catmaikl/cosatkaclickmserv/cosatka/clock"
	"github.com/catmaikl/cosatkaclickmserv/cosatka/economy/catalog"
	"github.com/catmaikl/cosatkaclickmserv/cosatka/economy/engine"
	"github.com/catmaikl/cosatkaclickmserv/cosatka/economy/service"
	"github.com/catmaikl/cosatkaclickmserv/cosatka/logger"
	"github.com/spf13/cobra"
)

type options struct {
	configPath string
	cfg        *cosatka.Config
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "cosatkactl",
		Short:         "Administer Cosatka game economies",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cosatka.LoadConfig(opts.configPath)
			if err != nil {
				return err
			}
			logger.Install(cfg.Log.Level, cfg.Log.Format != "plain")
			opts.cfg = cfg
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "config.toml", "path to config")

	root.AddCommand(
		newMigrateCmd(opts),
		newCatalogCmd(opts),
		newTopCmd(opts),
		newUnlockCmd(opts),
	)
	return root
}

// openService opens storage and builds the service for one game. The
// returned close func releases the storage.
func (o *options) openService(ctx context.Context, game string) (*service.Service, func(), error) {
	catalogs, err := catalog.LoadFile(o.cfg.Economy.CatalogFile)
	if err != nil {
		return nil, nil, err
	}
	c, ok := catalogs[game]
	if !ok {
		return nil, nil, fmt.Errorf("unknown game %q, have %v", game, catalog.Names(catalogs))
	}
	eng, err := engine.New(c)
	if err != nil {
		return nil, nil, err
	}

	storage, err := cosatka.OpenStorage(ctx, *o.cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := storage.Migrate(ctx); err != nil {
		storage.Close()
		return nil, nil, err
	}
	repo, err := storage.Repository(game)
	if err != nil {
		storage.Close()
		return nil, nil, err
	}

	svc := service.New(eng, repo, clock.RealClock{}, service.WithMaxAttempts(o.cfg.Economy.MaxAttempts))
	return svc, storage.Close, nil
}
