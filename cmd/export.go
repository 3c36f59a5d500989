package cmd

import (
	"context"
	"fmt"
	"slices"

	"github.com/chrisdamba/foodadmin/internal/export"
	"github.com/chrisdamba/foodadmin/internal/models"
	"github.com/chrisdamba/foodadmin/internal/query"
	"github.com/chrisdamba/foodadmin/internal/service"
	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	var datasets []string
	var format, destination, output string
	var withStats bool
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write datasets and statistics to CSV, JSON lines or Parquet",
		RunE: withApp(func(cmd *cobra.Command, a *App, args []string) error {
			cfg := *a.Config
			if cmd.Flags().Changed("format") {
				cfg.Export.Format = format
			}
			if cmd.Flags().Changed("destination") {
				cfg.Export.Destination = destination
			}
			if cmd.Flags().Changed("output") {
				cfg.Export.OutputPath = output
			}

			ctx := cmd.Context()
			target, err := export.NewTarget(ctx, &cfg)
			if err != nil {
				return err
			}
			w, err := export.NewWriter(cfg.Export.Format, target)
			if err != nil {
				return err
			}
			defer w.Close()

			var written []string
			for _, name := range datasets {
				ds := export.Dataset(name)
				rows, err := collectRows(ctx, a, ds)
				if err != nil {
					return err
				}
				if err := w.WriteRows(ds, rows); err != nil {
					return fmt.Errorf("failed to export %s: %w", ds, err)
				}
				a.Log.Info("dataset exported", "dataset", ds, "rows", len(rows), "format", cfg.Export.Format)
				written = append(written, string(ds))
			}
			if withStats {
				if err := writeStatistics(ctx, a, w); err != nil {
					return err
				}
				written = append(written, "statistics")
			}
			if err := w.Close(); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"format":      cfg.Export.Format,
				"destination": target.Location(""),
				"exported":    written,
			})
		}),
	}
	all := make([]string, len(export.Datasets))
	for i, ds := range export.Datasets {
		all[i] = string(ds)
	}
	flags := cmd.Flags()
	flags.StringSliceVar(&datasets, "dataset", all, "Datasets to export")
	flags.StringVar(&format, "format", "", "Output format: csv, json or parquet (default from config)")
	flags.StringVar(&destination, "destination", "", "local or cloud (default from config)")
	flags.StringVar(&output, "output", "", "Output directory or object prefix (default from config)")
	flags.BoolVar(&withStats, "stats", true, "Also write a statistics summary document")
	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		for _, name := range datasets {
			if !slices.Contains(all, name) {
				return models.Invalid("unknown dataset %q", name)
			}
		}
		return nil
	}
	return cmd
}

// collectRows drains the list operation of one dataset into export rows.
func collectRows(ctx context.Context, a *App, ds export.Dataset) ([]export.Row, error) {
	switch ds {
	case export.DatasetOrders:
		items, err := export.Collect(ctx, func(ctx context.Context, p query.PageRequest) (query.Page[models.Order], error) {
			return a.Orders.List(ctx, service.OrderFilter{}, query.SortSpec{}, p)
		})
		return export.Rows(items, export.NewOrderRow), err
	case export.DatasetRatings:
		items, err := export.Collect(ctx, func(ctx context.Context, p query.PageRequest) (query.Page[models.DriverRating], error) {
			return a.Ratings.List(ctx, service.RatingFilter{}, query.SortSpec{}, p)
		})
		return export.Rows(items, export.NewRatingRow), err
	case export.DatasetNotifications:
		items, err := export.Collect(ctx, func(ctx context.Context, p query.PageRequest) (query.Page[models.Notification], error) {
			return a.Notifications.List(ctx, service.NotificationFilter{}, query.SortSpec{}, p)
		})
		return export.Rows(items, export.NewNotificationRow), err
	case export.DatasetUserRewards:
		items, err := export.Collect(ctx, func(ctx context.Context, p query.PageRequest) (query.Page[models.UserReward], error) {
			return a.Rewards.ListAssignments(ctx, service.AssignmentFilter{}, query.SortSpec{}, p)
		})
		return export.Rows(items, export.NewUserRewardRow), err
	default:
		return nil, models.Invalid("unknown dataset %q", ds)
	}
}

type statisticsSummary struct {
	Orders        service.OrderStatistics        `json:"orders"`
	Ratings       service.RatingStatistics       `json:"ratings"`
	Notifications service.NotificationStatistics `json:"notifications"`
	Rewards       service.RewardStatistics       `json:"rewards"`
}

func writeStatistics(ctx context.Context, a *App, w export.Writer) error {
	var (
		s   statisticsSummary
		err error
	)
	if s.Orders, err = a.Orders.Statistics(ctx, service.OrderFilter{}); err != nil {
		return err
	}
	if s.Ratings, err = a.Ratings.Statistics(ctx, service.RatingFilter{}); err != nil {
		return err
	}
	if s.Notifications, err = a.Notifications.Statistics(ctx, service.NotificationFilter{}); err != nil {
		return err
	}
	if s.Rewards, err = a.Rewards.Statistics(ctx); err != nil {
		return err
	}
	return w.WriteSummary("statistics", s)
}
