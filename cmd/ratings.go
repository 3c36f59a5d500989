package cmd

import (
	"github.com/chrisdamba/foodadmin/internal/service"
	"github.com/spf13/cobra"
)

func newRatingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ratings",
		Short: "Moderate driver ratings and view rating statistics",
	}

	var filter service.RatingFilter
	var list listFlags
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List driver ratings",
		RunE: withApp(func(cmd *cobra.Command, a *App, args []string) error {
			f := ratingFilter(cmd, filter)
			f.Search = list.search
			f.Dates = list.dates()
			page, err := a.Ratings.List(cmd.Context(), f, list.sortSpec(), list.pageRequest())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), page)
		}),
	}
	list.register(listCmd, true)
	addRatingFilterFlags(listCmd, &filter)

	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one rating",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *App, args []string) error {
			r, err := a.Ratings.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), r)
		}),
	}

	visibility := func(use, short string, hidden bool) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <id>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: withApp(func(cmd *cobra.Command, a *App, args []string) error {
				r, err := a.Ratings.Hide(cmd.Context(), args[0], hidden)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), r)
			}),
		}
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Soft-delete a rating",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *App, args []string) error {
			r, err := a.Ratings.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), r)
		}),
	}

	var statsFilter service.RatingFilter
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarise visible ratings",
		RunE: withApp(func(cmd *cobra.Command, a *App, args []string) error {
			stats, err := a.Ratings.Statistics(cmd.Context(), ratingFilter(cmd, statsFilter))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), stats)
		}),
	}
	addRatingFilterFlags(statsCmd, &statsFilter)
	statsCmd.Flags().StringVar(&statsFilter.Dates.From, "from", "", "Only ratings on or after this date")
	statsCmd.Flags().StringVar(&statsFilter.Dates.To, "to", "", "Only ratings on or before this date")

	driverCmd := &cobra.Command{
		Use:   "driver <driver-id>",
		Short: "Summarise the ratings of one driver",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *App, args []string) error {
			summary, err := a.Ratings.DriverSummary(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), summary)
		}),
	}

	cmd.AddCommand(
		listCmd,
		getCmd,
		visibility("hide", "Hide a rating from customers and statistics", true),
		visibility("unhide", "Make a hidden rating visible again", false),
		deleteCmd,
		statsCmd,
		driverCmd,
	)
	return cmd
}

func addRatingFilterFlags(cmd *cobra.Command, f *service.RatingFilter) {
	flags := cmd.Flags()
	flags.StringVar(&f.DriverID, "driver", "", "Filter by driver id")
	flags.StringVar(&f.CustomerID, "customer", "", "Filter by customer id")
	flags.StringVar(&f.OrderID, "order-id", "", "Filter by order id")
	flags.Float64("min-rating", 0, "Minimum rating")
	flags.Float64("max-rating", 0, "Maximum rating")
	flags.Bool("hidden", false, "Only hidden (true) or visible (false) ratings")
}

// ratingFilter adds the optional flags to the bound fields.
func ratingFilter(cmd *cobra.Command, f service.RatingFilter) service.RatingFilter {
	f.MinRating = optionalFloat(cmd, "min-rating")
	f.MaxRating = optionalFloat(cmd, "max-rating")
	f.Hidden = optionalBool(cmd, "hidden")
	return f
}
