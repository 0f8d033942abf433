package main

import (
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/catmaikl/cosatkaclickmserv/cosatka"
	"github.com/catmaikl/cosatkaclickmserv/cosatka/economy/catalog"
	"github.com/spf13/cobra"
)

func newMigrateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the SQL schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			storage, err := cosatka.OpenStorage(ctx, *opts.cfg)
			if err != nil {
				slog.Error("Failed to open storage", slog.String("type", "db"), slog.Any("error", err))
				return err
			}
			defer storage.Close()

			if err := storage.Migrate(ctx); err != nil {
				slog.Error("Migration failed", slog.String("type", "db"), slog.Any("error", err))
				return err
			}
			if db := storage.DB(); db != nil {
				v, err := db.SchemaVersion(ctx)
				if err != nil {
					return err
				}
				slog.Info("Migration completed successfully",
					slog.String("type", "db"),
					slog.Int("schema_version", v))
				return nil
			}
			slog.Info("Driver needs no schema", slog.String("type", "db"), slog.String("driver", storage.Driver()))
			return nil
		},
	}
}

func newCatalogCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog [game]",
		Short: "Validate the catalogs and print one or all of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalogs, err := catalog.LoadFile(opts.cfg.Economy.CatalogFile)
			if err != nil {
				return err
			}
			names := catalog.Names(catalogs)
			if len(args) == 1 {
				if _, ok := catalogs[args[0]]; !ok {
					return fmt.Errorf("unknown game %q, have %v", args[0], names)
				}
				names = args
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, name := range names {
				c := catalogs[name]
				fmt.Fprintf(w, "%s (%s)\tcurrency %s\tenergy %d every %ds\toffline cap %ds\n",
					c.Title, c.Game, c.Currency, c.EnergyCap, c.EnergyRegenSeconds, c.OfflineCapSeconds)
				for _, a := range c.Actions {
					fmt.Fprintf(w, "  action\t%s\t%d energy\t%d-%d %s\n", a.ID, a.EnergyCost, a.RewardMin, a.RewardMax, c.Currency)
				}
				for _, it := range c.Items {
					fmt.Fprintf(w, "  item\t%s\t%s\t%d %s\n", it.ID, it.Effect, it.Cost, c.Currency)
				}
				for _, up := range c.Upgrades {
					fmt.Fprintf(w, "  upgrade\t%s\tmax %d\t%d %s\n", up.Kind, up.MaxLevel, up.BaseCost, c.Currency)
				}
				for _, a := range c.Achievements {
					fmt.Fprintf(w, "  achievement\t%s\t%s\t%d\n", a.ID, a.Rule, a.Threshold)
				}
			}
			return w.Flush()
		},
	}
}

func newTopCmd(opts *options) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "top <game>",
		Short: "Print the leaderboard of a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := opts.openService(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer closeFn()

			users, err := svc.Top(cmd.Context(), limit)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "#\tUSER\tNAME\tEARNED\tLEVEL")
			for i, u := range users {
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\n", i+1, u.UserID, u.Username, u.TotalEarned, u.Level)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of users to show")
	return cmd
}

func newUnlockCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "unlock <game> <user-id> <achievement>",
		Short: "Grant an achievement to an existing user",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := opts.openService(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer closeFn()

			unlocked, err := svc.UnlockAchievement(cmd.Context(), args[1], args[2])
			if err != nil {
				return err
			}
			if unlocked {
				fmt.Fprintf(cmd.OutOrStdout(), "unlocked %s for %s\n", args[2], args[1])
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s already had %s\n", args[1], args[2])
			}
			return nil
		},
	}
}
