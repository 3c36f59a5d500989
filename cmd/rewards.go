package cmd

import (
	"github.com/chrisdamba/foodadmin/internal/models"
	"github.com/chrisdamba/foodadmin/internal/service"
	"github.com/spf13/cobra"
)

func newRewardsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rewards",
		Short: "Manage rewards and their assignment to users",
	}

	var kind string
	var list listFlags
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List rewards",
		RunE: withApp(func(cmd *cobra.Command, a *App, args []string) error {
			f := service.RewardFilter{
				Type:   models.RewardType(kind),
				Active: optionalBool(cmd, "active"),
				Search: list.search,
			}
			page, err := a.Rewards.List(cmd.Context(), f, list.sortSpec(), list.pageRequest())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), page)
		}),
	}
	list.register(listCmd, false)
	listCmd.Flags().StringVar(&kind, "type", "", "Filter by reward type")
	listCmd.Flags().Bool("active", false, "Only active (true) or inactive (false) rewards")

	getCmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one reward",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *App, args []string) error {
			r, err := a.Rewards.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), r)
		}),
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a reward",
		RunE: withApp(func(cmd *cobra.Command, a *App, args []string) error {
			r, err := a.Rewards.Create(cmd.Context(), rewardInput(cmd))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), r)
		}),
	}
	addRewardInputFlags(createCmd)

	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a reward",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *App, args []string) error {
			r, err := a.Rewards.Update(cmd.Context(), args[0], rewardInput(cmd))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), r)
		}),
	}
	addRewardInputFlags(updateCmd)

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a reward; existing assignments keep their snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *App, args []string) error {
			if err := a.Rewards.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]string{"deleted": args[0]})
		}),
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarise rewards and assignments",
		RunE: withApp(func(cmd *cobra.Command, a *App, args []string) error {
			stats, err := a.Rewards.Statistics(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), stats)
		}),
	}

	cmd.AddCommand(listCmd, getCmd, createCmd, updateCmd, deleteCmd, statsCmd)
	cmd.AddCommand(newAssignmentCmds()...)
	return cmd
}

func newAssignmentCmds() []*cobra.Command {
	var filter service.AssignmentFilter
	var status string
	var list listFlags
	listCmd := &cobra.Command{
		Use:   "assignments",
		Short: "List user reward assignments",
		RunE: withApp(func(cmd *cobra.Command, a *App, args []string) error {
			f := filter
			f.Status = models.UserRewardStatus(status)
			f.Search = list.search
			f.Dates = list.dates()
			page, err := a.Rewards.ListAssignments(cmd.Context(), f, list.sortSpec(), list.pageRequest())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), page)
		}),
	}
	list.register(listCmd, true)
	listCmd.Flags().StringVar(&status, "status", "", "Filter by assignment status")
	listCmd.Flags().StringVar(&filter.UserID, "user", "", "Filter by user id")
	listCmd.Flags().StringVar(&filter.RewardID, "reward", "", "Filter by reward id")

	getCmd := &cobra.Command{
		Use:   "assignment <id>",
		Short: "Show one assignment",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *App, args []string) error {
			u, err := a.Rewards.GetAssignment(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), u)
		}),
	}

	var userIDs []string
	var notes string
	assignCmd := &cobra.Command{
		Use:   "assign <reward-id>",
		Short: "Assign a reward to listed users",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *App, args []string) error {
			res, err := a.Rewards.Assign(cmd.Context(), args[0], userIDs, notes)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		}),
	}
	assignCmd.Flags().StringSliceVar(&userIDs, "user", nil, "User id to receive the reward (repeatable)")
	assignCmd.Flags().StringVar(&notes, "notes", "", "Notes stored on every assignment")

	var criteria service.AssignCriteria
	var audience, criteriaNotes string
	criteriaCmd := &cobra.Command{
		Use:   "assign-criteria <reward-id>",
		Short: "Assign a reward to every user matching the criteria",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *App, args []string) error {
			c := criteria
			c.Audience = models.Audience(audience)
			joinedAfter, err := optionalTime(cmd, "joined-after")
			if err != nil {
				return err
			}
			c.JoinedAfter = joinedAfter
			res, err := a.Rewards.AssignByCriteria(cmd.Context(), args[0], c, criteriaNotes)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		}),
	}
	flags := criteriaCmd.Flags()
	flags.StringVar(&audience, "audience", string(models.AudienceCustomers), "Users to consider: all, customers, drivers or restaurants")
	flags.IntVar(&criteria.MinOrders, "min-orders", 0, "Minimum lifetime orders")
	flags.Float64Var(&criteria.MinSpent, "min-spent", 0, "Minimum lifetime spend")
	flags.String("joined-after", "", "Only users created after this RFC3339 time")
	flags.IntVar(&criteria.ActiveWithinDays, "active-within-days", 0, "Only users who ordered within this many days")
	flags.BoolVar(&criteria.OnlyActive, "only-active", false, "Skip deactivated accounts")
	flags.StringVar(&criteriaNotes, "notes", "", "Notes stored on every assignment")

	var reason string
	revokeCmd := &cobra.Command{
		Use:   "revoke <assignment-id>",
		Short: "Revoke an active assignment",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *App, args []string) error {
			u, err := a.Rewards.Revoke(cmd.Context(), args[0], reason)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), u)
		}),
	}
	revokeCmd.Flags().StringVar(&reason, "reason", "", "Why the reward is revoked (required)")

	var days int
	extendCmd := &cobra.Command{
		Use:   "extend <assignment-id>",
		Short: "Push back the expiry of an active assignment",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *App, args []string) error {
			u, err := a.Rewards.Extend(cmd.Context(), args[0], days)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), u)
		}),
	}
	extendCmd.Flags().IntVar(&days, "days", 7, "Days to add")

	useCmd := &cobra.Command{
		Use:   "use <assignment-id>",
		Short: "Record one use of an assignment",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *App, args []string) error {
			u, err := a.Rewards.MarkUsed(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), u)
		}),
	}

	expireCmd := &cobra.Command{
		Use:   "expire",
		Short: "Mark active assignments past their expiry as expired",
		RunE: withApp(func(cmd *cobra.Command, a *App, args []string) error {
			n, err := a.Rewards.ExpireDue(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]int{"expired": n})
		}),
	}

	return []*cobra.Command{listCmd, getCmd, assignCmd, criteriaCmd, revokeCmd, extendCmd, useCmd, expireCmd}
}

func addRewardInputFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.String("name", "", "Reward name")
	flags.String("description", "", "Reward description")
	flags.String("type", "", "Reward type")
	flags.Float64("value", 0, "Reward value (percent, amount or points by type)")
	flags.Int("expiry-days", 0, "Days an assignment stays valid")
	flags.Bool("no-expiry", false, "Assignments never expire")
	flags.Int("usage-limit", 0, "Uses allowed per assignment")
	flags.Bool("active", true, "Whether the reward can be assigned")
}

func rewardInput(cmd *cobra.Command) service.RewardInput {
	in := service.RewardInput{
		Name:        optionalString(cmd, "name"),
		Description: optionalString(cmd, "description"),
		Value:       optionalFloat(cmd, "value"),
		ExpiryDays:  optionalInt(cmd, "expiry-days"),
		UsageLimit:  optionalInt(cmd, "usage-limit"),
		IsActive:    optionalBool(cmd, "active"),
	}
	if s := optionalString(cmd, "type"); s != nil {
		t := models.RewardType(*s)
		in.Type = &t
	}
	in.NoExpiry, _ = cmd.Flags().GetBool("no-expiry")
	return in
}
