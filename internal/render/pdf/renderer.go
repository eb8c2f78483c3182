package pdf

import (
	"bytes"
	"context"
	"errors"
	"strings"

	"github.com/target/reportd/internal/core"
	"github.com/target/reportd/internal/domain/model"
	"github.com/target/reportd/internal/domain/report"
)

// Converter turns markup into document bytes.
type Converter interface {
	Convert(ctx context.Context, markup string) ([]byte, error)
}

// RendererOptions groups dependencies for NewRenderer.
type RendererOptions struct {
	Converter Converter
	Store     core.ArtifactStore
}

// Renderer implements core.DocumentRenderer on a Converter and an ArtifactStore.
type Renderer struct {
	converter Converter
	store     core.ArtifactStore
}

var _ core.DocumentRenderer = (*Renderer)(nil)

// NewRenderer validates dependencies.
func NewRenderer(opts RendererOptions) (*Renderer, error) {
	if opts.Converter == nil {
		return nil, errors.New("converter is required")
	}
	if opts.Store == nil {
		return nil, errors.New("artifact store is required")
	}
	return &Renderer{converter: opts.Converter, store: opts.Store}, nil
}

// pdfMagic prefixes every well-formed PDF.
var pdfMagic = []byte("%PDF-")

// GeneratePDF converts markup and stores it under fileName. All failures are
// *model.DocumentRenderError; nothing is left under fileName on failure.
func (r *Renderer) GeneratePDF(
	ctx context.Context,
	kind model.ReportKind,
	markup, fileName string,
) (*core.Artifact, error) {
	if err := report.ValidateArtifactName(fileName); err != nil {
		return nil, &model.DocumentRenderError{FileName: fileName, Message: "invalid file name", Cause: err}
	}
	if strings.TrimSpace(markup) == "" {
		return nil, &model.DocumentRenderError{FileName: fileName, Message: "empty " + string(kind) + " markup"}
	}

	doc, err := r.converter.Convert(ctx, markup)
	if err != nil {
		return nil, &model.DocumentRenderError{FileName: fileName, Message: "convert to pdf", Cause: err}
	}
	if !bytes.HasPrefix(doc, pdfMagic) {
		return nil, &model.DocumentRenderError{FileName: fileName, Message: "converter output is not a pdf"}
	}

	artifact, err := r.store.Put(ctx, fileName, bytes.NewReader(doc))
	if err != nil {
		return nil, &model.DocumentRenderError{FileName: fileName, Message: "storage write error", Cause: err}
	}
	return artifact, nil
}
