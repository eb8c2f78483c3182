package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xeipuuv/gojsonschema"

	"github.com/target/reportd/internal/domain/model"
)

//go:embed job_import.schema.json
var jobImportSchema string

// importFile is the document accepted by `job import`.
type importFile struct {
	Jobs []importJob `json:"jobs"`
}

type importJob struct {
	Kind model.ReportKind `json:"kind"`
	model.CreateJobRequest
}

// importValidationError lists every schema violation in the file.
type importValidationError struct {
	Problems []string
}

func (e *importValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("import file failed validation:\n")
	for i, p := range e.Problems {
		_, _ = fmt.Fprintf(&sb, "  %d. %s\n", i+1, p)
	}
	return sb.String()
}

var jobImportDryRun bool

var jobImportCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Create jobs from a JSON file",
	Long:  "Validates the file against the embedded job import schema, then creates each job in order. With --dry-run only validation runs.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read import file: %w", err)
		}
		file, err := parseImportFile(raw)
		if err != nil {
			return err
		}
		if jobImportDryRun {
			return writef(cmd.OutOrStdout(), "%d job(s) valid\n", len(file.Jobs))
		}

		opts := &connectInfraOptions{Logger: cmdCtx.Logger, Config: &cmdCtx.Config}
		return withInfra(cmd.Context(), opts, func(ctx context.Context, conns *infra) error {
			return importJobs(ctx, cmd, file, func(kind model.ReportKind) (jobAdmin, error) {
				return newJobAdmin(conns.DB, kind)
			})
		})
	},
}

// parseImportFile validates raw against the schema and decodes it.
func parseImportFile(raw []byte) (*importFile, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(jobImportSchema),
		gojsonschema.NewBytesLoader(raw),
	)
	if err != nil {
		return nil, fmt.Errorf("validate import file: %w", err)
	}
	if !result.Valid() {
		verr := &importValidationError{}
		for _, re := range result.Errors() {
			verr.Problems = append(verr.Problems, fmt.Sprintf("%s: %s", re.Field(), re.Description()))
		}
		return nil, verr
	}

	var file importFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode import file: %w", err)
	}
	return &file, nil
}

// importJobs creates each job, continuing past failures and joining them.
func importJobs(
	ctx context.Context,
	cmd *cobra.Command,
	file *importFile,
	servicesFor func(model.ReportKind) (jobAdmin, error),
) error {
	services := make(map[model.ReportKind]jobAdmin, 2)
	var errs []error
	created := 0
	for i := range file.Jobs {
		entry := &file.Jobs[i]
		svc, ok := services[entry.Kind]
		if !ok {
			var err error
			if svc, err = servicesFor(entry.Kind); err != nil {
				return err
			}
			services[entry.Kind] = svc
		}
		job, err := svc.Create(ctx, &entry.CreateJobRequest)
		if err != nil {
			errs = append(errs, fmt.Errorf("job %d (%s %s): %w", i+1, entry.Kind, entry.TargetRef, err))
			continue
		}
		created++
		if err := writef(cmd.OutOrStdout(), "Created %s job %s\n", job.Kind, job.ID); err != nil {
			return err
		}
	}
	if err := writef(cmd.OutOrStdout(), "Imported %d of %d job(s)\n", created, len(file.Jobs)); err != nil {
		return err
	}
	return errors.Join(errs...)
}

func init() {
	jobImportCmd.Flags().BoolVar(&jobImportDryRun, "dry-run", false, "Validate only")
	jobCmd.AddCommand(jobImportCmd)
}
