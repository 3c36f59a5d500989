package cmd

import (
	"github.com/chrisdamba/foodadmin/internal/models"
	"github.com/chrisdamba/foodadmin/internal/service"
	"github.com/spf13/cobra"
)

func newTemplatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Manage reusable notification templates",
	}

	var kind, audience string
	var list listFlags
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List templates",
		RunE: withApp(func(cmd *cobra.Command, a *App, args []string) error {
			f := service.TemplateFilter{
				Type:     models.NotificationType(kind),
				Audience: models.Audience(audience),
				Search:   list.search,
			}
			page, err := a.Templates.List(cmd.Context(), f, list.sortSpec(), list.pageRequest())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), page)
		}),
	}
	list.register(listCmd, false)
	listCmd.Flags().StringVar(&kind, "type", "", "Filter by type")
	listCmd.Flags().StringVar(&audience, "audience", "", "Filter by target audience")

	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one template",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *App, args []string) error {
			t, err := a.Templates.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), t)
		}),
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a template",
		RunE: withApp(func(cmd *cobra.Command, a *App, args []string) error {
			t, err := a.Templates.Create(cmd.Context(), templateInput(cmd))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), t)
		}),
	}
	addTemplateInputFlags(createCmd)

	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a template",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *App, args []string) error {
			t, err := a.Templates.Update(cmd.Context(), args[0], templateInput(cmd))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), t)
		}),
	}
	addTemplateInputFlags(updateCmd)

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a template",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *App, args []string) error {
			if err := a.Templates.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]string{"deleted": args[0]})
		}),
	}

	var vars map[string]string
	renderCmd := &cobra.Command{
		Use:   "render <id>",
		Short: "Fill a template's variables and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *App, args []string) error {
			title, message, err := a.Templates.Render(cmd.Context(), args[0], vars)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]string{"title": title, "message": message})
		}),
	}
	renderCmd.Flags().StringToStringVar(&vars, "var", nil, "Template variable as key=value (repeatable)")

	cmd.AddCommand(listCmd, getCmd, createCmd, updateCmd, deleteCmd, renderCmd)
	return cmd
}

func addTemplateInputFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.String("name", "", "Template name")
	flags.String("title", "", "Title, may contain {{variable}} placeholders")
	flags.String("message", "", "Message, may contain {{variable}} placeholders")
	flags.String("type", "", "Notification type")
	flags.String("audience", "", "Target audience")
	flags.StringSlice("variable", nil, "Declared variable names (default: placeholders found in title and message)")
}

func templateInput(cmd *cobra.Command) service.TemplateInput {
	in := service.TemplateInput{
		Name:    optionalString(cmd, "name"),
		Title:   optionalString(cmd, "title"),
		Message: optionalString(cmd, "message"),
	}
	if s := optionalString(cmd, "type"); s != nil {
		t := models.NotificationType(*s)
		in.Type = &t
	}
	if s := optionalString(cmd, "audience"); s != nil {
		a := models.Audience(*s)
		in.TargetAudience = &a
	}
	if cmd.Flags().Changed("variable") {
		in.Variables, _ = cmd.Flags().GetStringSlice("variable")
	}
	return in
}
