package cmd

import (
	"github.com/chrisdamba/foodadmin/internal/models"
	"github.com/chrisdamba/foodadmin/internal/service"
	"github.com/spf13/cobra"
)

func newOrdersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Browse orders and update their status",
	}

	var filter service.OrderFilter
	var status, paymentStatus, paymentMethod string
	var list listFlags
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List orders",
		RunE: withApp(func(cmd *cobra.Command, a *App, args []string) error {
			f := filter
			f.Status = models.OrderStatus(status)
			f.PaymentStatus = models.PaymentStatus(paymentStatus)
			f.PaymentMethod = models.PaymentMethod(paymentMethod)
			f.Search = list.search
			f.Dates = list.dates()
			page, err := a.Orders.List(cmd.Context(), f, list.sortSpec(), list.pageRequest())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), page)
		}),
	}
	list.register(listCmd, true)
	addOrderFilterFlags(listCmd, &filter, &status, &paymentStatus, &paymentMethod)

	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one order",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *App, args []string) error {
			o, err := a.Orders.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), o)
		}),
	}

	statusCmd := &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Set the status of an order",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(func(cmd *cobra.Command, a *App, args []string) error {
			o, err := a.Orders.UpdateStatus(cmd.Context(), args[0], models.OrderStatus(args[1]))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), o)
		}),
	}

	var statsFilter service.OrderFilter
	var statsStatus, statsPaymentStatus, statsPaymentMethod, from, to string
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarise orders",
		RunE: withApp(func(cmd *cobra.Command, a *App, args []string) error {
			f := statsFilter
			f.Status = models.OrderStatus(statsStatus)
			f.PaymentStatus = models.PaymentStatus(statsPaymentStatus)
			f.PaymentMethod = models.PaymentMethod(statsPaymentMethod)
			f.Dates.From, f.Dates.To = from, to
			stats, err := a.Orders.Statistics(cmd.Context(), f)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), stats)
		}),
	}
	addOrderFilterFlags(statsCmd, &statsFilter, &statsStatus, &statsPaymentStatus, &statsPaymentMethod)
	statsCmd.Flags().StringVar(&from, "from", "", "Only orders on or after this date")
	statsCmd.Flags().StringVar(&to, "to", "", "Only orders on or before this date")

	cmd.AddCommand(listCmd, getCmd, statusCmd, statsCmd)
	return cmd
}

func addOrderFilterFlags(cmd *cobra.Command, f *service.OrderFilter, status, paymentStatus, paymentMethod *string) {
	flags := cmd.Flags()
	flags.StringVar(status, "status", "", "Filter by order status")
	flags.StringVar(paymentStatus, "payment-status", "", "Filter by payment status")
	flags.StringVar(paymentMethod, "payment-method", "", "Filter by payment method")
	flags.StringVar(&f.CustomerID, "customer", "", "Filter by customer id")
	flags.StringVar(&f.RestaurantID, "restaurant", "", "Filter by restaurant id")
	flags.StringVar(&f.DriverID, "driver", "", "Filter by driver id")
}
