package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/target/reportd/internal/domain/model"
)

// ServiceMode represents the available service modes.
type ServiceMode string

const (
	// ServiceModeScheduler fires due report jobs and executes them.
	ServiceModeScheduler ServiceMode = "scheduler"
	// ServiceModeReaper fails abandoned executions and removes stale temporary artifacts.
	ServiceModeReaper ServiceMode = "reaper"
)

// ValidServiceModes returns all valid service mode names.
func ValidServiceModes() []ServiceMode {
	return []ServiceMode{ServiceModeScheduler, ServiceModeReaper}
}

// ParseServices parses a comma-delimited string of service names and returns the enabled services.
// It validates that all service names are valid and returns an error if any are invalid.
func ParseServices(servicesStr string) (map[ServiceMode]bool, error) {
	services := make(map[ServiceMode]bool)

	if servicesStr == "" {
		return services, errors.New("at least one service must be specified")
	}

	for part := range strings.SplitSeq(servicesStr, ",") {
		serviceName := strings.TrimSpace(part)
		if serviceName == "" {
			continue
		}

		mode := ServiceMode(serviceName)
		switch mode {
		case ServiceModeScheduler, ServiceModeReaper:
			services[mode] = true
		default:
			return nil, fmt.Errorf("invalid service name: %q (valid options: scheduler, reaper)", serviceName)
		}
	}

	if len(services) == 0 {
		return nil, errors.New("at least one valid service must be specified")
	}

	return services, nil
}

// SchedulerConfig contains scheduler service configuration.
type SchedulerConfig struct {
	// Interval is the scheduler tick interval.
	Interval time.Duration `env:"SCHEDULER_INTERVAL" envDefault:"1s"`

	// BatchSize is the maximum number of due jobs claimed per kind per tick.
	BatchSize int `env:"SCHEDULER_BATCH_SIZE" envDefault:"25"`

	// MaxConcurrentExecutions bounds in-flight report executions across kinds.
	MaxConcurrentExecutions int `env:"SCHEDULER_MAX_CONCURRENT_EXECUTIONS" envDefault:"8"`

	// MisfirePolicy decides whether a fire later than MisfireThreshold still runs.
	// Valid values: fire_once, skip
	MisfirePolicy model.MisfirePolicy `env:"SCHEDULER_MISFIRE_POLICY" envDefault:"fire_once"`

	MisfireThreshold time.Duration `env:"SCHEDULER_MISFIRE_THRESHOLD" envDefault:"1m"`
}

// Sanitize applies guardrails to scheduler configuration values.
func (s *SchedulerConfig) Sanitize() {
	if s.Interval < 100*time.Millisecond {
		s.Interval = 100 * time.Millisecond
	}
	if s.BatchSize < 1 {
		s.BatchSize = 1
	}
	if s.MaxConcurrentExecutions < 1 {
		s.MaxConcurrentExecutions = 1
	}
	if !s.MisfirePolicy.Valid() {
		s.MisfirePolicy = model.MisfirePolicyFireOnce
	}
	if s.MisfireThreshold <= 0 {
		s.MisfireThreshold = time.Minute
	}
}

// ReaperConfig contains reaper service configuration.
type ReaperConfig struct {
	// Interval is the reaper tick interval.
	Interval time.Duration `env:"REAPER_INTERVAL" envDefault:"5m"`

	// PersonalStaleAfter is how long a personal execution may stay IN_PROGRESS before it is failed.
	PersonalStaleAfter time.Duration `env:"REAPER_PERSONAL_STALE_AFTER" envDefault:"30m"`

	// ProjectStaleAfter is the same threshold for project executions, which render larger documents.
	ProjectStaleAfter time.Duration `env:"REAPER_PROJECT_STALE_AFTER" envDefault:"1h"`

	// TempArtifactMaxAge is the age after which temporary artifact files are removed.
	TempArtifactMaxAge time.Duration `env:"REAPER_TEMP_ARTIFACT_MAX_AGE" envDefault:"1h"`

	// BatchSize is the maximum number of rows to process per operation.
	// Batching prevents long locks and I/O spikes on large tables.
	BatchSize int `env:"REAPER_BATCH_SIZE" envDefault:"500"`
}

// Sanitize applies guardrails to reaper configuration values.
func (r *ReaperConfig) Sanitize() {
	// Enforce minimum intervals to prevent excessive database load
	if r.Interval < 1*time.Minute {
		r.Interval = 1 * time.Minute
	}
	if r.PersonalStaleAfter < 5*time.Minute {
		r.PersonalStaleAfter = 5 * time.Minute
	}
	if r.ProjectStaleAfter < 5*time.Minute {
		r.ProjectStaleAfter = 5 * time.Minute
	}
	if r.TempArtifactMaxAge < 10*time.Minute {
		r.TempArtifactMaxAge = 10 * time.Minute
	}

	// Enforce batch size bounds to prevent excessive locks or inefficiency
	if r.BatchSize < 1 {
		r.BatchSize = 1
	}
	if r.BatchSize > 10000 {
		r.BatchSize = 10000
	}
}

// StaleAfter returns the IN_PROGRESS threshold for kind.
func (r *ReaperConfig) StaleAfter(kind model.ReportKind) time.Duration {
	if kind == model.ReportKindProject {
		return r.ProjectStaleAfter
	}
	return r.PersonalStaleAfter
}
