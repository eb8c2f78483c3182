// Command reportd-admin is the operator CLI for report jobs, subscribers and execution logs.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/target/reportd/config"
	"github.com/target/reportd/internal/bootstrap"
	"github.com/target/reportd/internal/domain/model"
)

type commandContext struct {
	Logger *slog.Logger
	Config config.AppConfig
}

var cmdCtx commandContext

var rootCmd = &cobra.Command{
	Use:           "reportd-admin",
	Short:         "Operator tooling for reportd",
	Long:          "Manage report jobs and subscribers, inspect execution logs, run migrations and fire jobs by hand.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := bootstrap.LoadConfig()
		if err != nil {
			return err
		}
		cmdCtx = commandContext{Logger: bootstrap.InitLogger(cfg.LogLevel), Config: cfg}
		return nil
	},
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1) //nolint:forbidigo // CLI must propagate command failure to callers
	}
}

func parseKind(raw string) (model.ReportKind, error) {
	var kind model.ReportKind
	if err := kind.UnmarshalText([]byte(raw)); err != nil {
		return "", fmt.Errorf("kind must be one of personal, project: %w", err)
	}
	return kind, nil
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}

func orDash(s *string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return "-"
	}
	return *s
}
