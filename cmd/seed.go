package cmd

import (
	"github.com/chrisdamba/foodadmin/internal/factories"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func newSeedCmd() *cobra.Command {
	var quiet bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Replace the store contents with generated fixtures",
		Long: `seed generates users, orders, ratings, notifications, templates, rewards and
assignments from the fixtures.* counts and writes them to the configured
store, replacing what was there. Mostly useful with the postgres backend;
the memory backend is seeded on every start.`,
		RunE: withApp(func(cmd *cobra.Command, a *App, args []string) error {
			fx := a.Fixtures()
			progress := func(int) {}
			if !quiet {
				bar := progressbar.Default(int64(fx.Total()), "seeding")
				defer bar.Finish()
				progress = func(n int) { _ = bar.Add(n) }
			}
			if err := factories.Seed(cmd.Context(), a.Stores, fx, progress); err != nil {
				return err
			}
			a.Log.Info("store seeded",
				"backend", a.Config.StoreBackend,
				"users", len(fx.Users),
				"orders", len(fx.Orders),
				"ratings", len(fx.Ratings),
				"notifications", len(fx.Notifications),
				"rewards", len(fx.Rewards),
				"user_rewards", len(fx.UserRewards),
			)
			return nil
		}),
	}
	cmd.Flags().BoolVar(&quiet, "quiet", false, "Hide the progress bar")
	return cmd
}
