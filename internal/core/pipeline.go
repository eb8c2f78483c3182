package core

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/target/reportd/internal/domain/model"
)

// ReportDataProvider fetches the data of one report kind. It must not mutate job
// and returns *model.ReportDataUnavailableError when the target does not exist.
type ReportDataProvider[K model.Kind] interface {
	GetReportData(ctx context.Context, job *model.JobDefinition) (map[string]any, error)
}

// MarkupRenderer turns report data into markup for the given kind.
// Failures are *model.TemplateRenderError.
type MarkupRenderer interface {
	GenerateHTML(data map[string]any, kind model.ReportKind) (string, error)
}

// Artifact describes a stored report document.
type Artifact struct {
	FileRef string
	Size    int64
}

// DocumentRenderer converts markup into a stored document named fileName.
// Failures are *model.DocumentRenderError; on failure nothing is stored under fileName.
type DocumentRenderer interface {
	GeneratePDF(ctx context.Context, kind model.ReportKind, markup, fileName string) (*Artifact, error)
}

// ArtifactStore is the storage collaborator for generated documents.
type ArtifactStore interface {
	// Put writes r under name atomically and returns a reference to it. It never
	// replaces an existing artifact; that case returns ErrArtifactExists.
	Put(ctx context.Context, name string, r io.Reader) (*Artifact, error)
	Exists(ctx context.Context, fileRef string) (bool, error)
	Delete(ctx context.Context, fileRef string) error
	// CleanupTemp removes partial writes older than maxAge and returns how many were removed.
	CleanupTemp(ctx context.Context, maxAge time.Duration) (int, error)
}

// ErrArtifactExists means an artifact is already stored under the requested name.
var ErrArtifactExists = errors.New("artifact already exists")

// NotificationPublisher hands a notification intent to the external notifier.
type NotificationPublisher interface {
	Publish(ctx context.Context, intent model.NotificationIntent) error
}
