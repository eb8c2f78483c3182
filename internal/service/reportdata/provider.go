// Package reportdata assembles report payloads from the activity read model.
package reportdata

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/target/reportd/internal/core"
	"github.com/target/reportd/internal/data"
	"github.com/target/reportd/internal/domain/model"
)

// Options groups dependencies shared by the personal and project providers.
type Options struct {
	Activity     core.ActivityReader // Required
	TimeProvider data.TimeProvider   // Optional: anchors trailing windows
	Logger       *slog.Logger        // Optional
}

type base struct {
	activity     core.ActivityReader
	timeProvider data.TimeProvider
	logger       *slog.Logger
}

func newBase(opts Options, component string) (base, error) {
	if opts.Activity == nil {
		return base{}, errors.New("activity reader is required")
	}
	if opts.TimeProvider == nil {
		opts.TimeProvider = &data.RealTimeProvider{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return base{
		activity:     opts.Activity,
		timeProvider: opts.TimeProvider,
		logger:       logger.With("component", component),
	}, nil
}

// unavailable maps a lookup miss to a data stage failure. Other read errors
// (timeouts, lost connections) are returned wrapped so they keep their severity.
func unavailable(kind model.ReportKind, target string, err error, notFound error) error {
	if !errors.Is(err, notFound) {
		return fmt.Errorf("load %s data for %q: %w", kind, target, err)
	}
	return &model.ReportDataUnavailableError{Kind: kind, TargetRef: target, Message: notFound.Error(), Cause: err}
}
