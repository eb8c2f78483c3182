package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/target/reportd/internal/data"
	"github.com/target/reportd/internal/domain/model"
)

// logLister is the read side of data.ExecutionLogRepo.
type logLister interface {
	ListByJob(ctx context.Context, jobID string, opts model.ExecutionLogListOptions) ([]*model.ExecutionLog, error)
	ListByOwner(ctx context.Context, owner string, opts model.ExecutionLogListOptions) ([]*model.ExecutionLog, error)
}

func newLogLister(db *sql.DB, kind model.ReportKind) (logLister, error) {
	switch kind {
	case model.ReportKindPersonal:
		return data.NewExecutionLogRepo[model.Personal](db), nil
	case model.ReportKindProject:
		return data.NewExecutionLogRepo[model.Project](db), nil
	default:
		return nil, fmt.Errorf("unknown report kind %q", kind)
	}
}

var (
	logsJob    string
	logsOwner  string
	logsStatus string
	logsLimit  int
	logsOffset int
)

var logsCmd = &cobra.Command{
	Use:   "logs <kind>",
	Short: "List execution logs for a job or an owner, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := parseKind(args[0])
		if err != nil {
			return err
		}
		listOpts, err := buildLogListOptions()
		if err != nil {
			return err
		}
		opts := &connectInfraOptions{Logger: cmdCtx.Logger, Config: &cmdCtx.Config}
		return withInfra(cmd.Context(), opts, func(ctx context.Context, conns *infra) error {
			lister, err := newLogLister(conns.DB, kind)
			if err != nil {
				return err
			}
			var logs []*model.ExecutionLog
			if logsJob != "" {
				logs, err = lister.ListByJob(ctx, logsJob, listOpts)
			} else {
				logs, err = lister.ListByOwner(ctx, logsOwner, listOpts)
			}
			if err != nil {
				return err
			}
			return printLogs(cmd, logs)
		})
	},
}

func buildLogListOptions() (model.ExecutionLogListOptions, error) {
	opts := model.ExecutionLogListOptions{Limit: logsLimit, Offset: logsOffset}
	if logsStatus == "" {
		return opts, nil
	}
	status := model.UploadStatus(logsStatus)
	if !status.Valid() {
		return opts, errors.New("--status must be one of IN_PROGRESS, SUCCESS, FAILED")
	}
	opts.Status = &status
	return opts, nil
}

func printLogs(cmd *cobra.Command, logs []*model.ExecutionLog) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	if err := writef(tw, "LOG ID\tJOB\tSTATUS\tSTARTED\tENDED\tFILE\tREASON\n"); err != nil {
		return err
	}
	for _, l := range logs {
		if err := writef(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			l.ID, l.JobID, l.UploadStatus, l.StartedAt.UTC().Format(time.RFC3339),
			formatTime(l.EndedAt), orDash(l.FileRef), orDash(l.FailureReason)); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func init() {
	logsCmd.Flags().StringVar(&logsJob, "job", "", "Job id")
	logsCmd.Flags().StringVar(&logsOwner, "owner", "", "Owner username")
	logsCmd.Flags().StringVar(&logsStatus, "status", "", "Filter by IN_PROGRESS, SUCCESS or FAILED")
	logsCmd.Flags().IntVar(&logsLimit, "limit", 50, "Maximum rows")
	logsCmd.Flags().IntVar(&logsOffset, "offset", 0, "Rows to skip")
	logsCmd.MarkFlagsMutuallyExclusive("job", "owner")
	logsCmd.MarkFlagsOneRequired("job", "owner")
	rootCmd.AddCommand(logsCmd)
}
