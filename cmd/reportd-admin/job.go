package main

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/target/reportd/internal/data"
	"github.com/target/reportd/internal/domain/model"
	"github.com/target/reportd/internal/service"
)

// jobAdmin is the kind-erased surface of service.ReportJobService.
type jobAdmin interface {
	Create(ctx context.Context, req *model.CreateJobRequest) (*model.JobDefinition, error)
	Get(ctx context.Context, id string) (*model.JobDefinition, error)
	ListByOwner(ctx context.Context, owner string, opts model.JobListOptions) ([]*model.JobDefinition, error)
	Reschedule(ctx context.Context, id string, req *model.UpdateScheduleRequest) (*model.JobDefinition, error)
	Delete(ctx context.Context, id string) (bool, error)
}

func newJobAdmin(db *sql.DB, kind model.ReportKind) (jobAdmin, error) {
	switch kind {
	case model.ReportKindPersonal:
		return service.NewReportJobService(service.ReportJobServiceOptions[model.Personal]{
			Jobs:   data.NewJobRepo[model.Personal](db),
			Logger: cmdCtx.Logger,
		})
	case model.ReportKindProject:
		return service.NewReportJobService(service.ReportJobServiceOptions[model.Project]{
			Jobs:   data.NewJobRepo[model.Project](db),
			Logger: cmdCtx.Logger,
		})
	default:
		return nil, fmt.Errorf("unknown report kind %q", kind)
	}
}

type scheduleFlags struct {
	cron     string
	at       string
	timezone string
}

func (f *scheduleFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.cron, "cron", "", "Five-field cron expression")
	cmd.Flags().StringVar(&f.at, "at", "", "One-off fire time (RFC 3339)")
	cmd.Flags().StringVar(&f.timezone, "timezone", "", "IANA timezone for the cron expression (default UTC)")
	cmd.MarkFlagsMutuallyExclusive("cron", "at")
	cmd.MarkFlagsOneRequired("cron", "at")
}

func (f *scheduleFlags) schedule() (*string, *time.Time, error) {
	if f.cron != "" {
		expr := strings.TrimSpace(f.cron)
		return &expr, nil, nil
	}
	at, err := time.Parse(time.RFC3339, f.at)
	if err != nil {
		return nil, nil, fmt.Errorf("parse --at: %w", err)
	}
	return nil, &at, nil
}

var (
	jobCreateSchedule     scheduleFlags
	jobRescheduleSchedule scheduleFlags

	jobCreateID       string
	jobCreateOwner    string
	jobCreateTarget   string
	jobCreateFrom     string
	jobCreateTo       string
	jobCreateTrailing int

	jobListOwner  string
	jobListLimit  int
	jobListOffset int
)

var jobCmd = &cobra.Command{
	Use:     "job",
	Aliases: []string{"jobs"},
	Short:   "Manage report job definitions",
}

var jobCreateCmd = &cobra.Command{
	Use:   "create <kind>",
	Short: "Create a personal or project report job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := buildCreateRequest()
		if err != nil {
			return err
		}
		return withJobs(cmd, args[0], func(ctx context.Context, jobs jobAdmin) error {
			job, err := jobs.Create(ctx, req)
			if err != nil {
				return err
			}
			return writef(cmd.OutOrStdout(), "Created %s job %s (next fire %s)\n",
				job.Kind, job.ID, formatTime(job.NextFireAt))
		})
	},
}

func buildCreateRequest() (*model.CreateJobRequest, error) {
	cron, at, err := jobCreateSchedule.schedule()
	if err != nil {
		return nil, err
	}
	req := &model.CreateJobRequest{
		ID:            jobCreateID,
		TargetRef:     jobCreateTarget,
		OwnerUsername: jobCreateOwner,
		CronExpr:      cron,
		FireAt:        at,
		Timezone:      jobCreateSchedule.timezone,
		TrailingDays:  jobCreateTrailing,
	}
	if req.WindowStart, err = time.Parse(time.RFC3339, jobCreateFrom); err != nil {
		return nil, fmt.Errorf("parse --from: %w", err)
	}
	if req.WindowEnd, err = time.Parse(time.RFC3339, jobCreateTo); err != nil {
		return nil, fmt.Errorf("parse --to: %w", err)
	}
	return req, nil
}

var jobListCmd = &cobra.Command{
	Use:   "list <kind>",
	Short: "List an owner's jobs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withJobs(cmd, args[0], func(ctx context.Context, jobs jobAdmin) error {
			list, err := jobs.ListByOwner(ctx, jobListOwner, model.JobListOptions{Limit: jobListLimit, Offset: jobListOffset})
			if err != nil {
				return err
			}
			return printJobs(cmd, list)
		})
	},
}

var jobRescheduleCmd = &cobra.Command{
	Use:   "reschedule <kind> <jobId>",
	Short: "Replace a job's schedule",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cron, at, err := jobRescheduleSchedule.schedule()
		if err != nil {
			return err
		}
		req := &model.UpdateScheduleRequest{CronExpr: cron, FireAt: at, Timezone: jobRescheduleSchedule.timezone}
		return withJobs(cmd, args[0], func(ctx context.Context, jobs jobAdmin) error {
			job, err := jobs.Reschedule(ctx, args[1], req)
			if err != nil {
				return err
			}
			return writef(cmd.OutOrStdout(), "Rescheduled %s (next fire %s)\n", job.ID, formatTime(job.NextFireAt))
		})
	},
}

var jobDeleteCmd = &cobra.Command{
	Use:   "delete <kind> <jobId>",
	Short: "Delete a job definition; its execution logs are kept",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withJobs(cmd, args[0], func(ctx context.Context, jobs jobAdmin) error {
			deleted, err := jobs.Delete(ctx, args[1])
			if err != nil {
				return err
			}
			if !deleted {
				return fmt.Errorf("job %q: %w", args[1], model.ErrJobNotFound)
			}
			return writef(cmd.OutOrStdout(), "Deleted job %s\n", args[1])
		})
	},
}

func withJobs(cmd *cobra.Command, rawKind string, fn func(context.Context, jobAdmin) error) error {
	kind, err := parseKind(rawKind)
	if err != nil {
		return err
	}
	opts := &connectInfraOptions{Logger: cmdCtx.Logger, Config: &cmdCtx.Config}
	return withInfra(cmd.Context(), opts, func(ctx context.Context, conns *infra) error {
		jobs, err := newJobAdmin(conns.DB, kind)
		if err != nil {
			return err
		}
		return fn(ctx, jobs)
	})
}

func printJobs(cmd *cobra.Command, jobs []*model.JobDefinition) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	if err := writef(tw, "ID\tTARGET\tSCHEDULE\tNEXT FIRE\tLAST FIRED\n"); err != nil {
		return err
	}
	for _, j := range jobs {
		if err := writef(tw, "%s\t%s\t%s\t%s\t%s\n",
			j.ID, j.TargetRef, describeSchedule(j.Schedule),
			formatTime(j.NextFireAt), formatTime(j.LastFiredAt)); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func describeSchedule(s model.Schedule) string {
	if s.CronExpr != nil {
		if s.Timezone != "" {
			return fmt.Sprintf("cron %q %s", *s.CronExpr, s.Timezone)
		}
		return fmt.Sprintf("cron %q", *s.CronExpr)
	}
	if s.FireAt != nil {
		return "once " + s.FireAt.UTC().Format(time.RFC3339)
	}
	return "-"
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}

func init() {
	jobCreateSchedule.register(jobCreateCmd)
	jobCreateCmd.Flags().StringVar(&jobCreateID, "id", "", "Job id (generated when empty)")
	jobCreateCmd.Flags().StringVar(&jobCreateOwner, "owner", "", "Owner username (required)")
	jobCreateCmd.Flags().StringVar(&jobCreateTarget, "target", "", "Member or project reference (required)")
	jobCreateCmd.Flags().StringVar(&jobCreateFrom, "from", "", "Report window start, RFC 3339 (required)")
	jobCreateCmd.Flags().StringVar(&jobCreateTo, "to", "", "Report window end, RFC 3339 (required)")
	jobCreateCmd.Flags().IntVar(&jobCreateTrailing, "trailing-days", 0, "Use a trailing window of this many days instead of --from/--to at run time")
	for _, name := range []string{"owner", "target", "from", "to"} {
		if err := jobCreateCmd.MarkFlagRequired(name); err != nil {
			panic(fmt.Sprintf("failed to mark %s flag as required: %v", name, err))
		}
	}

	jobListCmd.Flags().StringVar(&jobListOwner, "owner", "", "Owner username (required)")
	jobListCmd.Flags().IntVar(&jobListLimit, "limit", 50, "Maximum rows")
	jobListCmd.Flags().IntVar(&jobListOffset, "offset", 0, "Rows to skip")
	if err := jobListCmd.MarkFlagRequired("owner"); err != nil {
		panic(fmt.Sprintf("failed to mark owner flag as required: %v", err))
	}

	jobRescheduleSchedule.register(jobRescheduleCmd)

	jobCmd.AddCommand(jobCreateCmd, jobListCmd, jobRescheduleCmd, jobDeleteCmd)
	rootCmd.AddCommand(jobCmd)
}
