package main

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/target/reportd/internal/data"
	"github.com/target/reportd/internal/domain/model"
	"github.com/target/reportd/internal/service"
)

var (
	subscriberEmail  string
	subscriberLimit  int
	subscriberOffset int
)

var subscriberCmd = &cobra.Command{
	Use:     "subscriber",
	Aliases: []string{"subscribers"},
	Short:   "Manage report subscribers",
}

var subscriberCreateCmd = &cobra.Command{
	Use:   "create <username>",
	Short: "Register a subscriber",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSubscribers(cmd, func(ctx context.Context, svc *service.SubscriberService) error {
			sub, err := svc.Create(ctx, &model.CreateSubscriberRequest{Username: args[0], Email: subscriberEmail})
			if err != nil {
				return err
			}
			return writef(cmd.OutOrStdout(), "Created subscriber %s <%s>\n", sub.Username, sub.Email)
		})
	},
}

var subscriberShowCmd = &cobra.Command{
	Use:     "show <username>",
	Aliases: []string{"view"},
	Short:   "Print a subscriber's view as JSON",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSubscribers(cmd, func(ctx context.Context, svc *service.SubscriberService) error {
			view, err := svc.View(ctx, args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(view)
		})
	},
}

var subscriberListCmd = &cobra.Command{
	Use:   "list",
	Short: "List subscribers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withSubscribers(cmd, func(ctx context.Context, svc *service.SubscriberService) error {
			subs, err := svc.List(ctx, model.SubscriberListOptions{Limit: subscriberLimit, Offset: subscriberOffset})
			if err != nil {
				return err
			}
			return printSubscribers(cmd, subs)
		})
	},
}

var subscriberDeleteCmd = &cobra.Command{
	Use:   "delete <username>",
	Short: "Remove a subscriber",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSubscribers(cmd, func(ctx context.Context, svc *service.SubscriberService) error {
			deleted, err := svc.Delete(ctx, args[0])
			if err != nil {
				return err
			}
			if !deleted {
				return fmt.Errorf("subscriber %q: %w", args[0], model.ErrSubscriberNotFound)
			}
			return writef(cmd.OutOrStdout(), "Deleted subscriber %s\n", args[0])
		})
	},
}

var subscriberRecountCmd = &cobra.Command{
	Use:   "recount [username]",
	Short: "Rebuild report counters from successful execution logs; all subscribers when no username is given",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		username := ""
		if len(args) == 1 {
			username = args[0]
		}
		return withSubscribers(cmd, func(ctx context.Context, svc *service.SubscriberService) error {
			updated, err := svc.Recount(ctx, username)
			if err != nil {
				return err
			}
			return writef(cmd.OutOrStdout(), "Recounted %d subscriber(s)\n", updated)
		})
	},
}

func withSubscribers(cmd *cobra.Command, fn func(context.Context, *service.SubscriberService) error) error {
	opts := &connectInfraOptions{Logger: cmdCtx.Logger, Config: &cmdCtx.Config, WantRedis: true}
	return withInfra(cmd.Context(), opts, func(ctx context.Context, conns *infra) error {
		svc, err := service.NewSubscriberService(service.SubscriberServiceOptions{
			Subscribers: data.NewSubscriberRepo(conns.DB),
			Views:       conns.viewCache(&cmdCtx.Config, cmdCtx.Logger),
			Logger:      cmdCtx.Logger,
		})
		if err != nil {
			return err
		}
		return fn(ctx, svc)
	})
}

func printSubscribers(cmd *cobra.Command, subs []*model.Subscriber) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	if err := writef(tw, "USERNAME\tEMAIL\tPERSONAL\tPROJECT\tCREATED\n"); err != nil {
		return err
	}
	for _, s := range subs {
		if err := writef(tw, "%s\t%s\t%d\t%d\t%s\n",
			s.Username, s.Email, s.PersonalReportCount, s.ProjectReportCount,
			s.CreatedAt.UTC().Format("2006-01-02T15:04:05Z")); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func init() {
	subscriberCreateCmd.Flags().StringVar(&subscriberEmail, "email", "", "Delivery email address (required)")
	if err := subscriberCreateCmd.MarkFlagRequired("email"); err != nil {
		panic(fmt.Sprintf("failed to mark email flag as required: %v", err))
	}
	subscriberListCmd.Flags().IntVar(&subscriberLimit, "limit", 50, "Maximum rows")
	subscriberListCmd.Flags().IntVar(&subscriberOffset, "offset", 0, "Rows to skip")

	subscriberCmd.AddCommand(subscriberCreateCmd, subscriberShowCmd, subscriberListCmd,
		subscriberDeleteCmd, subscriberRecountCmd)
	rootCmd.AddCommand(subscriberCmd)
}
