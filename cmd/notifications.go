package cmd

import (
	"github.com/chrisdamba/foodadmin/internal/models"
	"github.com/chrisdamba/foodadmin/internal/query"
	"github.com/chrisdamba/foodadmin/internal/service"
	"github.com/spf13/cobra"
)

func newNotificationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "Send and review admin notifications",
	}

	var status, kind, priority, audience string
	var list listFlags
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List notifications",
		RunE: withApp(func(cmd *cobra.Command, a *App, args []string) error {
			f := service.NotificationFilter{
				Status:   models.NotificationStatus(status),
				Type:     models.NotificationType(kind),
				Priority: models.NotificationPriority(priority),
				Audience: models.Audience(audience),
				Search:   list.search,
				Dates:    list.dates(),
			}
			page, err := a.Notifications.List(cmd.Context(), f, list.sortSpec(), list.pageRequest())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), page)
		}),
	}
	list.register(listCmd, true)
	listCmd.Flags().StringVar(&status, "status", "", "Filter by status")
	listCmd.Flags().StringVar(&kind, "type", "", "Filter by type")
	listCmd.Flags().StringVar(&priority, "priority", "", "Filter by priority")
	listCmd.Flags().StringVar(&audience, "audience", "", "Filter by target audience")

	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one notification",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *App, args []string) error {
			n, err := a.Notifications.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), n)
		}),
	}

	resendCmd := &cobra.Command{
		Use:   "resend <id>",
		Short: "Send a copy of an existing notification now",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *App, args []string) error {
			n, err := a.Notifications.Resend(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), n)
		}),
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a notification",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *App, args []string) error {
			if err := a.Notifications.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]string{"deleted": args[0]})
		}),
	}

	var statsStatus, statsType, statsAudience, from, to string
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarise notification delivery",
		RunE: withApp(func(cmd *cobra.Command, a *App, args []string) error {
			f := service.NotificationFilter{
				Status:   models.NotificationStatus(statsStatus),
				Type:     models.NotificationType(statsType),
				Audience: models.Audience(statsAudience),
				Dates:    query.DateRange{From: from, To: to},
			}
			stats, err := a.Notifications.Statistics(cmd.Context(), f)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), stats)
		}),
	}
	statsCmd.Flags().StringVar(&statsStatus, "status", "", "Filter by status")
	statsCmd.Flags().StringVar(&statsType, "type", "", "Filter by type")
	statsCmd.Flags().StringVar(&statsAudience, "audience", "", "Filter by target audience")
	statsCmd.Flags().StringVar(&from, "from", "", "Only notifications on or after this date")
	statsCmd.Flags().StringVar(&to, "to", "", "Only notifications on or before this date")

	cmd.AddCommand(listCmd, getCmd, newSendCmd(), resendCmd, deleteCmd, statsCmd)
	return cmd
}

func newSendCmd() *cobra.Command {
	var (
		title, message, kind, priority, audience, templateID string
		recipients                                           []string
		vars                                                 map[string]string
		draft                                                bool
	)
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send, schedule or draft a notification",
		Long: `Send a notification to an audience. With --schedule-at in the future the
notification is scheduled instead; with --draft it is only stored.
--template renders a stored template with --var values into the title and
message, and takes its type and audience unless those flags are given.`,
		RunE: withApp(func(cmd *cobra.Command, a *App, args []string) error {
			ctx := cmd.Context()
			scheduledAt, err := optionalTime(cmd, "schedule-at")
			if err != nil {
				return err
			}
			req := service.SendRequest{
				Title:          title,
				Message:        message,
				Type:           models.NotificationType(kind),
				Priority:       models.NotificationPriority(priority),
				TargetAudience: models.Audience(audience),
				RecipientIDs:   recipients,
				ScheduledAt:    scheduledAt,
				Draft:          draft,
			}
			if templateID != "" {
				tmpl, err := a.Templates.Get(ctx, templateID)
				if err != nil {
					return err
				}
				req.Title, req.Message, err = a.Templates.Render(ctx, templateID, vars)
				if err != nil {
					return err
				}
				if !cmd.Flags().Changed("type") {
					req.Type = tmpl.Type
				}
				if !cmd.Flags().Changed("audience") {
					req.TargetAudience = tmpl.TargetAudience
				}
			}
			n, err := a.Notifications.Send(ctx, req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), n)
		}),
	}
	flags := cmd.Flags()
	flags.StringVar(&title, "title", "", "Notification title")
	flags.StringVar(&message, "message", "", "Notification body")
	flags.StringVar(&kind, "type", string(models.NotificationTypeInfo), "Type: info, warning, success, error or promotion")
	flags.StringVar(&priority, "priority", "", "Priority: low, medium or high (default medium)")
	flags.StringVar(&audience, "audience", string(models.AudienceAll), "Audience: all, customers, drivers, restaurants or specific")
	flags.StringSliceVar(&recipients, "recipient", nil, "Recipient user id for the specific audience (repeatable)")
	flags.String("schedule-at", "", "Send time in RFC3339; a future time schedules the notification")
	flags.BoolVar(&draft, "draft", false, "Store as a draft without sending")
	flags.StringVar(&templateID, "template", "", "Render this template for the title and message")
	flags.StringToStringVar(&vars, "var", nil, "Template variable as key=value (repeatable)")
	return cmd
}
