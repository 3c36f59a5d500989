package cmd

import (
	"github.com/chrisdamba/foodadmin/internal/models"
	"github.com/chrisdamba/foodadmin/internal/service"
	"github.com/spf13/cobra"
)

func newUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Browse the user directory",
	}

	var role string
	var list listFlags
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: withApp(func(cmd *cobra.Command, a *App, args []string) error {
			f := service.UserFilter{
				Role:   models.UserRole(role),
				Active: optionalBool(cmd, "active"),
				Search: list.search,
			}
			page, err := a.Users.List(cmd.Context(), f, list.sortSpec(), list.pageRequest())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), page)
		}),
	}
	list.register(listCmd, false)
	listCmd.Flags().StringVar(&role, "role", "", "Filter by role: customer, driver or restaurant")
	listCmd.Flags().Bool("active", false, "Only active (true) or deactivated (false) users")

	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one user",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *App, args []string) error {
			u, err := a.Users.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), u)
		}),
	}

	cmd.AddCommand(listCmd, getCmd)
	return cmd
}
