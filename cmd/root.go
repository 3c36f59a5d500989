package cmd

import (
	"fmt"
	"os"

	"github.com/chrisdamba/foodadmin/internal/models"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	app     *App
)

var rootCmd = &cobra.Command{
	Use:   "foodadmin",
	Short: "Back-office administration for a food delivery platform",
	Long: `foodadmin is a CLI for the admin back office of a food delivery platform:
orders, driver ratings, notifications and templates, and customer rewards,
with filtering, sorting, pagination and statistics over each resource.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := models.LoadConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
		app, err = NewApp(cmd.Context(), cfg, cmd.ErrOrStderr())
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if app == nil {
			return nil
		}
		err := app.Close()
		app = nil
		return err
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is ./foodadmin.yaml)")
	flags.String("store", "memory", "Store backend: memory or postgres")
	flags.String("dispatch", "log", "Notification transport: log, kafka or rabbitmq")
	flags.Bool("strict-transitions", false, "Only allow forward order status transitions")
	flags.Duration("latency-min", 0, "Minimum simulated latency per call")
	flags.Duration("latency-max", 0, "Maximum simulated latency per call")
	flags.String("log-level", "info", "Log level: debug, info, warn or error")
	flags.String("log-format", "text", "Log format: text or json")
	flags.Int("seed", 42, "Random seed for fixtures and latency")

	bind := map[string]string{
		"store_backend":      "store",
		"dispatch_backend":   "dispatch",
		"strict_transitions": "strict-transitions",
		"latency.min":        "latency-min",
		"latency.max":        "latency-max",
		"log.level":          "log-level",
		"log.format":         "log-format",
		"seed":               "seed",
	}
	for key, flag := range bind {
		cobra.CheckErr(viper.BindPFlag(key, flags.Lookup(flag)))
	}

	rootCmd.AddCommand(
		newOrdersCmd(),
		newRatingsCmd(),
		newNotificationsCmd(),
		newTemplatesCmd(),
		newRewardsCmd(),
		newUsersCmd(),
		newSeedCmd(),
		newExportCmd(),
	)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
